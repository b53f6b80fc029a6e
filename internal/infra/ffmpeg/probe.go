package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Joftal/musiccut/internal/domain/port"
	"go.uber.org/zap"
)

// Prober reads container metadata with ffprobe. It is used for job
// bookkeeping and as an early sanity check on downloaded files, not for
// decoding.
type Prober struct {
	logger *zap.Logger
}

func NewProber(logger *zap.Logger) *Prober {
	return &Prober{logger: logger}
}

type probeOutput struct {
	Streams []struct {
		AvgFrameRate string `json:"avg_frame_rate"`
		NBFrames     string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *Prober) Probe(ctx context.Context, videoPath string) (*port.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate,nb_frames:format=duration",
		"-of", "json",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(parsed.Streams) == 0 {
		return nil, fmt.Errorf("no video stream in %s", videoPath)
	}

	duration, _ := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64)
	frames, _ := strconv.Atoi(strings.TrimSpace(parsed.Streams[0].NBFrames))
	info := &port.VideoInfo{
		DurationSeconds: duration,
		FPS:             parseFrameRate(parsed.Streams[0].AvgFrameRate),
		FrameCount:      frames,
	}

	p.logger.Debug("video probed",
		zap.String("path", videoPath),
		zap.Float64("duration", info.DurationSeconds),
		zap.Float64("fps", info.FPS),
		zap.Int("frames", info.FrameCount),
	)

	return info, nil
}

// parseFrameRate parses ffprobe rational frame rates such as "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

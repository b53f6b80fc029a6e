package video

import (
	"context"
	"fmt"
	"math"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/Joftal/musiccut/internal/domain/port"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// frameSource is the decode seam between the sampling loop and OpenCV.
// ReadFrame seeks to the given frame index and decodes it into dst,
// returning false when the frame cannot be decoded.
type frameSource interface {
	TotalFrames() int
	FPS() float64
	ReadFrame(idx int, dst *gocv.Mat) bool
	Close() error
}

type captureSource struct {
	capture *gocv.VideoCapture
}

func openCapture(videoPath string) (frameSource, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", videoPath, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open video %s: capture not opened", videoPath)
	}
	return &captureSource{capture: capture}, nil
}

func (c *captureSource) TotalFrames() int {
	return int(c.capture.Get(gocv.VideoCaptureFrameCount))
}

func (c *captureSource) FPS() float64 {
	return c.capture.Get(gocv.VideoCaptureFPS)
}

func (c *captureSource) ReadFrame(idx int, dst *gocv.Mat) bool {
	c.capture.Set(gocv.VideoCapturePosFrames, float64(idx))
	return c.capture.Read(dst)
}

func (c *captureSource) Close() error {
	return c.capture.Close()
}

// Scanner samples a video at a fixed frame stride and runs the classifier on
// every sampled frame. It implements port.VideoScanner.
type Scanner struct {
	classifier  Classifier
	fallbackFPS float64
	logger      *zap.Logger
	open        func(videoPath string) (frameSource, error)
}

func NewScanner(classifier Classifier, fallbackFPS float64, logger *zap.Logger) *Scanner {
	return &Scanner{
		classifier:  classifier,
		fallbackFPS: fallbackFPS,
		logger:      logger,
		open:        openCapture,
	}
}

// Scan visits frames 0, interval, 2*interval, ... up to the last frame. A
// frame that fails to decode is skipped silently; classifier errors abort the
// scan. The returned FPS has the fallback already applied, so downstream
// consumers never divide by zero.
func (s *Scanner) Scan(ctx context.Context, videoPath string, params port.ScanParams) (*port.ScanResult, error) {
	source, err := s.open(videoPath)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	totalFrames := source.TotalFrames()
	fps := effectiveFPS(source.FPS(), s.fallbackFPS)
	indices := sampleIndices(totalFrames, params.FrameInterval)

	s.logger.Info("scanning video",
		zap.String("path", videoPath),
		zap.Int("total_frames", totalFrames),
		zap.Float64("fps", fps),
		zap.Int("samples", len(indices)),
		zap.Int("frame_interval", params.FrameInterval),
	)

	frame := gocv.NewMat()
	defer frame.Close()

	var hits []entity.Hit
	for _, idx := range indices {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if ok := source.ReadFrame(idx, &frame); !ok || frame.Empty() {
			s.logger.Debug("frame decode failed, skipping sample", zap.Int("frame", idx))
			continue
		}

		confs, err := s.classifier.Detect(frame, float32(params.ConfidenceThreshold))
		if err != nil {
			return nil, fmt.Errorf("classify frame %d: %w", idx, err)
		}
		if len(confs) == 0 {
			continue
		}

		hits = append(hits, entity.Hit{
			FrameIndex: idx,
			Confidence: float64(maxConfidence(confs)),
		})
	}

	s.logger.Info("scan finished",
		zap.Int("processed_frames", len(indices)),
		zap.Int("detection_frames", len(hits)),
	)

	return &port.ScanResult{
		Hits:            hits,
		TotalFrames:     totalFrames,
		ProcessedFrames: len(indices),
		FPS:             fps,
	}, nil
}

// sampleIndices returns 0, interval, 2*interval, ... strictly below total.
func sampleIndices(totalFrames, interval int) []int {
	if totalFrames <= 0 {
		return nil
	}
	if interval < 1 {
		interval = 1
	}
	indices := make([]int, 0, totalFrames/interval+1)
	for idx := 0; idx < totalFrames; idx += interval {
		indices = append(indices, idx)
	}
	return indices
}

// effectiveFPS replaces a missing or nonsensical container frame rate with
// the configured fallback.
func effectiveFPS(reported, fallback float64) float64 {
	if reported <= 0 || math.IsNaN(reported) || math.IsInf(reported, 0) {
		return fallback
	}
	return reported
}

func maxConfidence(confs []float32) float32 {
	max := confs[0]
	for _, c := range confs[1:] {
		if c > max {
			max = c
		}
	}
	return max
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/Joftal/musiccut/internal/domain/port"
	"github.com/Joftal/musiccut/internal/domain/segment"
	"go.uber.org/zap"
)

// DetectFileUseCase runs the detection pipeline against a local video file
// and writes the report JSON to disk. This is the one-shot CLI path; no
// queue, database or object storage is involved.
type DetectFileUseCase struct {
	scanner port.VideoScanner
	logger  *zap.Logger
	params  DetectionParams
}

func NewDetectFileUseCase(scanner port.VideoScanner, logger *zap.Logger, params DetectionParams) *DetectFileUseCase {
	return &DetectFileUseCase{
		scanner: scanner,
		logger:  logger,
		params:  params,
	}
}

func (uc *DetectFileUseCase) Execute(ctx context.Context, videoPath, outputPath string) (*entity.Report, error) {
	result, err := uc.scanner.Scan(ctx, videoPath, port.ScanParams{
		FrameInterval:       uc.params.FrameInterval,
		ConfidenceThreshold: uc.params.ConfidenceThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}

	segments := segment.Merge(result.Hits, segment.Params{
		FPS:                result.FPS,
		FrameInterval:      uc.params.FrameInterval,
		MaxGapDuration:     uc.params.MaxGapDuration,
		MinSegmentDuration: uc.params.MinSegmentDuration,
	})

	report := entity.NewReport(segments, result.TotalFrames, result.ProcessedFrames, len(result.Hits))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	uc.logger.Info("detection complete",
		zap.Int("segments", len(report.Segments)),
		zap.Int("detection_frames", report.DetectionFrames),
		zap.String("output", outputPath),
	)

	return report, nil
}

package port

import (
	"context"

	"github.com/Joftal/musiccut/internal/domain/entity"
)

// ScanParams controls the sampling loop for one video.
type ScanParams struct {
	// FrameInterval is the sampling stride in frames.
	FrameInterval int
	// ConfidenceThreshold filters classifier detections (0,1].
	ConfidenceThreshold float64
}

// ScanResult is the sampler output handed to the segment merger. FPS is
// always positive: scanners substitute a fallback rate when the container
// reports none.
type ScanResult struct {
	Hits            []entity.Hit
	TotalFrames     int
	ProcessedFrames int
	FPS             float64
}

// VideoScanner walks a strided subset of a video's frames and classifies
// each for person presence. Hits come back in ascending frame order.
type VideoScanner interface {
	Scan(ctx context.Context, videoPath string, params ScanParams) (*ScanResult, error)
}

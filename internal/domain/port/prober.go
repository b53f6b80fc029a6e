package port

import "context"

// VideoInfo is container-level metadata read without decoding frames.
type VideoInfo struct {
	DurationSeconds float64
	FPS             float64
	FrameCount      int
}

type VideoProber interface {
	Probe(ctx context.Context, videoPath string) (*VideoInfo, error)
}

// Package segment merges sparse per-frame person detections into continuous
// time intervals.
package segment

import (
	"math"
	"sort"

	"github.com/Joftal/musiccut/internal/domain/entity"
)

// Params are the timing knobs of the merge. Callers must hand in a positive
// FPS and FrameInterval; the sampling layer substitutes a fallback frame rate
// before this code ever runs.
type Params struct {
	// FPS is the source frame rate used to convert frame indices to seconds.
	FPS float64
	// FrameInterval is the sampling stride. A hit at frame i represents a
	// detection covering at least [i, i+FrameInterval) source frames, so the
	// end of every segment is widened by one stride.
	FrameInterval int
	// MaxGapDuration is the longest silent gap, in seconds, tolerated between
	// two consecutive hits of the same segment.
	MaxGapDuration float64
	// MinSegmentDuration drops merged candidates shorter than this many
	// seconds. Dropped candidates vanish entirely; they are never merged
	// into or extended toward a neighbor.
	MinSegmentDuration float64
}

// Merge stitches hits into non-overlapping segments ordered by start time.
// Input order does not matter; hits are sorted by frame index first. An empty
// input yields an empty result.
//
// Two consecutive hits belong to the same segment iff their frame distance is
// at most MaxGapDuration*FPS (a gap of exactly that many frames still merges).
func Merge(hits []entity.Hit, p Params) []entity.Segment {
	if len(hits) == 0 {
		return nil
	}

	sorted := make([]entity.Hit, len(hits))
	copy(sorted, hits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FrameIndex < sorted[j].FrameIndex
	})

	maxGapFrames := p.MaxGapDuration * p.FPS

	var segments []entity.Segment
	startFrame := sorted[0].FrameIndex
	endFrame := sorted[0].FrameIndex
	maxConf := sorted[0].Confidence

	for _, h := range sorted[1:] {
		if float64(h.FrameIndex-endFrame) <= maxGapFrames {
			endFrame = h.FrameIndex
			if h.Confidence > maxConf {
				maxConf = h.Confidence
			}
			continue
		}

		if seg, ok := closeCandidate(startFrame, endFrame, maxConf, p); ok {
			segments = append(segments, seg)
		}
		startFrame = h.FrameIndex
		endFrame = h.FrameIndex
		maxConf = h.Confidence
	}

	if seg, ok := closeCandidate(startFrame, endFrame, maxConf, p); ok {
		segments = append(segments, seg)
	}

	return segments
}

// closeCandidate converts an open candidate to time and applies the
// minimum-duration filter. The end is widened by one sampling stride so that
// sparse sampling does not systematically underestimate duration.
func closeCandidate(startFrame, endFrame int, maxConf float64, p Params) (entity.Segment, bool) {
	startTime := float64(startFrame) / p.FPS
	endTime := float64(endFrame+p.FrameInterval) / p.FPS
	if endTime-startTime < p.MinSegmentDuration {
		return entity.Segment{}, false
	}
	return entity.Segment{
		StartTime:  round(startTime, 3),
		EndTime:    round(endTime, 3),
		Confidence: round(maxConf, 4),
	}, true
}

func round(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}

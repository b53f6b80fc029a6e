package segment

import (
	"math/rand"
	"testing"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{
		FPS:                25,
		FrameInterval:      5,
		MaxGapDuration:     2.0,
		MinSegmentDuration: 1.0,
	}
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, Merge(nil, defaultParams()))
	assert.Empty(t, Merge([]entity.Hit{}, defaultParams()))
}

func TestMergeSingleHitBelowMinimumDropped(t *testing.T) {
	hits := []entity.Hit{{FrameIndex: 100, Confidence: 0.9}}

	// Candidate duration is 5/25 = 0.2s, below the 1.0s minimum.
	assert.Empty(t, Merge(hits, defaultParams()))
}

func TestMergeSingleHitAboveMinimumKept(t *testing.T) {
	hits := []entity.Hit{{FrameIndex: 100, Confidence: 0.9}}
	p := defaultParams()
	p.MinSegmentDuration = 0.1

	got := Merge(hits, p)
	require.Len(t, got, 1)
	assert.Equal(t, entity.Segment{StartTime: 4.0, EndTime: 4.2, Confidence: 0.9}, got[0])
}

func TestMergeGapExactlyAtBoundaryMerges(t *testing.T) {
	// max_gap_frames = 2.0 * 25 = 50; a gap of exactly 50 frames merges.
	hits := []entity.Hit{
		{FrameIndex: 0, Confidence: 0.8},
		{FrameIndex: 50, Confidence: 0.95},
	}

	got := Merge(hits, defaultParams())
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].StartTime)
	assert.Equal(t, 2.2, got[0].EndTime) // (50+5)/25
	assert.Equal(t, 0.95, got[0].Confidence)
}

func TestMergeGapOneFrameBeyondBoundarySplits(t *testing.T) {
	hits := []entity.Hit{
		{FrameIndex: 0, Confidence: 0.8},
		{FrameIndex: 51, Confidence: 0.95},
	}

	// Both candidates are 0.2s long and fail the 1.0s minimum independently.
	assert.Empty(t, Merge(hits, defaultParams()))

	// With the minimum lowered, the split yields two separate segments.
	p := defaultParams()
	p.MinSegmentDuration = 0.1
	got := Merge(hits, p)
	require.Len(t, got, 2)
	assert.Equal(t, entity.Segment{StartTime: 0.0, EndTime: 0.2, Confidence: 0.8}, got[0])
	assert.Equal(t, entity.Segment{StartTime: 2.04, EndTime: 2.24, Confidence: 0.95}, got[1])
}

func TestMergeShortSegmentNeverMergedIntoNeighbor(t *testing.T) {
	// A long run, then an isolated hit far past the gap budget. The isolated
	// candidate is dropped outright rather than attached to the long segment.
	hits := []entity.Hit{
		{FrameIndex: 0, Confidence: 0.6},
		{FrameIndex: 25, Confidence: 0.7},
		{FrameIndex: 50, Confidence: 0.65},
		{FrameIndex: 500, Confidence: 0.99},
	}

	got := Merge(hits, defaultParams())
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].StartTime)
	assert.Equal(t, 2.2, got[0].EndTime)
	assert.Equal(t, 0.7, got[0].Confidence)
}

func TestMergeOrderingInvariance(t *testing.T) {
	base := []entity.Hit{
		{FrameIndex: 0, Confidence: 0.6},
		{FrameIndex: 10, Confidence: 0.9},
		{FrameIndex: 20, Confidence: 0.7},
		{FrameIndex: 120, Confidence: 0.8},
		{FrameIndex: 130, Confidence: 0.85},
		{FrameIndex: 400, Confidence: 0.99},
	}
	p := defaultParams()
	p.MinSegmentDuration = 0.1
	want := Merge(base, p)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]entity.Hit, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Merge(shuffled, p))
	}
}

func TestMergeOutputOrderedAndNonOverlapping(t *testing.T) {
	hits := []entity.Hit{
		{FrameIndex: 0, Confidence: 0.5},
		{FrameIndex: 30, Confidence: 0.6},
		{FrameIndex: 200, Confidence: 0.7},
		{FrameIndex: 230, Confidence: 0.8},
		{FrameIndex: 600, Confidence: 0.9},
		{FrameIndex: 640, Confidence: 0.55},
	}
	p := defaultParams()
	p.MinSegmentDuration = 0.5

	got := Merge(hits, p)
	require.NotEmpty(t, got)
	for i, seg := range got {
		assert.Greater(t, seg.EndTime, seg.StartTime)
		if i > 0 {
			assert.Greater(t, seg.StartTime, got[i-1].StartTime)
			assert.GreaterOrEqual(t, seg.StartTime, got[i-1].EndTime)
		}
	}
}

func TestMergeConfidenceIsMaximumOfContributingHits(t *testing.T) {
	hits := []entity.Hit{
		{FrameIndex: 0, Confidence: 0.51},
		{FrameIndex: 10, Confidence: 0.97},
		{FrameIndex: 20, Confidence: 0.62},
		{FrameIndex: 30, Confidence: 0.55},
	}

	got := Merge(hits, defaultParams())
	require.Len(t, got, 1)
	assert.Equal(t, 0.97, got[0].Confidence)
}

func TestMergeRounding(t *testing.T) {
	// fps=3 gives repeating decimals on both boundaries.
	hits := []entity.Hit{{FrameIndex: 1, Confidence: 0.123456}}
	p := Params{FPS: 3, FrameInterval: 5, MaxGapDuration: 2.0, MinSegmentDuration: 0.1}

	got := Merge(hits, p)
	require.Len(t, got, 1)
	assert.Equal(t, 0.333, got[0].StartTime) // 1/3 to 3 decimals
	assert.Equal(t, 2.0, got[0].EndTime)     // (1+5)/3
	assert.Equal(t, 0.1235, got[0].Confidence)
}

func TestMergeDuplicateFrameIndices(t *testing.T) {
	// Ties on frame index are harmless: the sort key is the index alone.
	hits := []entity.Hit{
		{FrameIndex: 10, Confidence: 0.6},
		{FrameIndex: 10, Confidence: 0.9},
		{FrameIndex: 15, Confidence: 0.7},
	}
	p := defaultParams()
	p.MinSegmentDuration = 0.1

	got := Merge(hits, p)
	require.Len(t, got, 1)
	assert.Equal(t, 0.9, got[0].Confidence)
	assert.Equal(t, 0.4, got[0].StartTime)
	assert.Equal(t, 0.8, got[0].EndTime)
}

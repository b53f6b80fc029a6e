package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDetectionJob(t *testing.T) {
	job := NewDetectionJob("user-1", "user-1/video.mp4", 1024, 5)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Attempt)
	assert.Equal(t, 5, job.MaxAttempts)
	assert.True(t, job.CanRetry())
	assert.Nil(t, job.CompletedAt)
}

func TestJobStateTransitions(t *testing.T) {
	job := NewDetectionJob("user-1", "user-1/video.mp4", 1024, 2)

	job.MarkProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.Equal(t, 1, job.Attempt)
	assert.True(t, job.CanRetry())

	job.MarkFailed("scan_video: boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "scan_video: boom", job.ErrorMessage)

	job.MarkProcessing()
	assert.Equal(t, 2, job.Attempt)
	assert.False(t, job.CanRetry())

	job.MarkCompleted("user-1/detection_x.json", 3, 42, 125.2)
	require.NotNil(t, job.CompletedAt)
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, "user-1/detection_x.json", job.ReportKey)
	assert.Equal(t, 3, job.SegmentCount)
	assert.Equal(t, 42, job.DetectionFrames)
	assert.Equal(t, 125.2, job.VideoDuration)
	assert.Empty(t, job.ErrorMessage)
}

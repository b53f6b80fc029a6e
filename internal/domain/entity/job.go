package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// DetectionJob tracks one person-detection run over an uploaded video.
type DetectionJob struct {
	ID              uuid.UUID
	UserID          string
	VideoKey        string
	ReportKey       string
	Status          JobStatus
	SegmentCount    int
	DetectionFrames int
	FileSize        int64
	VideoDuration   float64
	Attempt         int
	MaxAttempts     int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func NewDetectionJob(userID, videoKey string, fileSize int64, maxAttempts int) *DetectionJob {
	now := time.Now().UTC()
	return &DetectionJob{
		ID:          uuid.New(),
		UserID:      userID,
		VideoKey:    videoKey,
		FileSize:    fileSize,
		Status:      JobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *DetectionJob) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

func (j *DetectionJob) MarkCompleted(reportKey string, segmentCount, detectionFrames int, videoDuration float64) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.ReportKey = reportKey
	j.SegmentCount = segmentCount
	j.DetectionFrames = detectionFrames
	j.VideoDuration = videoDuration
	j.ErrorMessage = ""
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *DetectionJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *DetectionJob) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}

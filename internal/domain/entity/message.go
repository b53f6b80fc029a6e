package entity

import "github.com/google/uuid"

// DetectionRequestMessage is the inbound message from the detection.request
// queue. The optional fields override the service-wide detection defaults
// for this job only.
type DetectionRequestMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	VideoKey  string    `json:"video_key"`
	FileSize  int64     `json:"file_size"`
	UserEmail string    `json:"user_email"`

	Confidence         *float64 `json:"confidence,omitempty"`
	FrameInterval      *int     `json:"frame_interval,omitempty"`
	MaxGapDuration     *float64 `json:"max_gap_duration,omitempty"`
	MinSegmentDuration *float64 `json:"min_segment_duration,omitempty"`
}

// DetectionStatusMessage is the outbound message published to the
// detection.status queue after every state transition.
type DetectionStatusMessage struct {
	JobID           uuid.UUID `json:"job_id"`
	UserID          string    `json:"user_id"`
	Status          JobStatus `json:"status"`
	VideoKey        string    `json:"video_key"`
	ReportKey       string    `json:"report_key,omitempty"`
	SegmentCount    int       `json:"segment_count,omitempty"`
	DetectionFrames int       `json:"detection_frames,omitempty"`
	Duration        float64   `json:"duration_seconds,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	Attempt         int       `json:"attempt"`
	MaxAttempts     int       `json:"max_attempts"`
}

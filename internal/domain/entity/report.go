package entity

// Hit is a single sampled frame where the classifier reported at least one
// qualifying person detection. Confidence is the maximum confidence among
// detections in that frame.
type Hit struct {
	FrameIndex int     `json:"frame_index"`
	Confidence float64 `json:"confidence"`
}

// Segment is a continuous time interval during which a person is judged
// present. Times are in seconds, rounded to 3 decimals; confidence is the
// maximum over contributing hits, rounded to 4 decimals. Segments are
// immutable once emitted.
type Segment struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Confidence float64 `json:"confidence"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Report is the terminal artifact of one detection run. DetectionFrames
// counts distinct hits fed into the merge, independent of how many survived
// the minimum-duration filter.
type Report struct {
	Segments        []Segment `json:"segments"`
	TotalFrames     int       `json:"total_frames"`
	ProcessedFrames int       `json:"processed_frames"`
	DetectionFrames int       `json:"detection_frames"`
}

// NewReport assembles a report. A nil segment slice is normalized to an
// empty one so the serialized form always carries a JSON array.
func NewReport(segments []Segment, totalFrames, processedFrames, detectionFrames int) *Report {
	if segments == nil {
		segments = []Segment{}
	}
	return &Report{
		Segments:        segments,
		TotalFrames:     totalFrames,
		ProcessedFrames: processedFrames,
		DetectionFrames: detectionFrames,
	}
}

// Package video implements the frame sampling loop and the person classifier
// on top of OpenCV (gocv).
package video

import "gocv.io/x/gocv"

// Classifier is the capability boundary around the detection model. Detect
// returns the confidences of all person detections in the frame at or above
// the threshold; an empty result means no person. Implementations own the
// model runtime and are not safe for concurrent use unless stated.
type Classifier interface {
	Detect(frame gocv.Mat, confThreshold float32) ([]float32, error)
	Close() error
}

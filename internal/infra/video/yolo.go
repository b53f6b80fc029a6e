package video

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// YOLO ONNX output is [1, 4+classes, anchors]; rows 0-3 are the box, row 4
// is class 0, which is "person" in the COCO ordering.
const personClassRow = 4

// YOLOClassifier runs a YOLO ONNX model through the OpenCV DNN module and
// reports person-class confidences only.
type YOLOClassifier struct {
	net       gocv.Net
	inputSize image.Point
	logger    *zap.Logger
}

func NewYOLOClassifier(modelPath string, device Device, logger *zap.Logger) (*YOLOClassifier, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load detection model %s: empty network", modelPath)
	}

	backend, target := device.backendTarget()
	if err := net.SetPreferableBackend(backend); err != nil {
		net.Close()
		return nil, fmt.Errorf("set dnn backend: %w", err)
	}
	if err := net.SetPreferableTarget(target); err != nil {
		net.Close()
		return nil, fmt.Errorf("set dnn target: %w", err)
	}

	logger.Info("detection model loaded",
		zap.String("model", modelPath),
		zap.String("device", string(device)),
	)

	return &YOLOClassifier{
		net:       net,
		inputSize: image.Pt(640, 640),
		logger:    logger,
	}, nil
}

func (c *YOLOClassifier) Detect(frame gocv.Mat, confThreshold float32) ([]float32, error) {
	if frame.Empty() {
		return nil, errors.New("empty frame")
	}

	squared := letterbox(frame)
	defer squared.Close()

	blob := gocv.BlobFromImage(squared, 1.0/255.0, c.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}

	preds := out.Reshape(1, dims[1])
	defer preds.Close()

	var confs []float32
	for col := 0; col < preds.Cols(); col++ {
		score := preds.GetFloatAt(personClassRow, col)
		if score >= confThreshold {
			confs = append(confs, score)
		}
	}
	return confs, nil
}

func (c *YOLOClassifier) Close() error {
	return c.net.Close()
}

// letterbox pads the frame to a square with black borders so the blob resize
// keeps the aspect ratio, matching the model's training-time preprocessing.
func letterbox(frame gocv.Mat) gocv.Mat {
	size := frame.Rows()
	if frame.Cols() > size {
		size = frame.Cols()
	}
	squared := gocv.NewMat()
	gocv.CopyMakeBorder(frame, &squared,
		0, size-frame.Rows(), 0, size-frame.Cols(),
		gocv.BorderConstant, color.RGBA{},
	)
	return squared
}

// detect runs person detection against a single local video and writes the
// report JSON to disk.
package main

import (
	"fmt"
	"os"

	"github.com/Joftal/musiccut/internal/infra/video"
	"github.com/Joftal/musiccut/internal/usecase"
	"github.com/Joftal/musiccut/pkg/logger"
	"github.com/spf13/cobra"
)

type options struct {
	videoPath          string
	outputPath         string
	modelPath          string
	confidence         float64
	frameInterval      int
	device             string
	maxGapDuration     float64
	minSegmentDuration float64
	fallbackFPS        float64
	logLevel           string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect person-presence segments in a video",
		Long: "detect samples video frames at a fixed stride, classifies each frame for\n" +
			"person presence and merges the detections into continuous time segments,\n" +
			"written as a JSON report.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.videoPath, "video", "", "input video path (required)")
	flags.StringVar(&opts.outputPath, "output", "", "output report JSON path (required)")
	flags.StringVar(&opts.modelPath, "model", "/models/yolo11s.onnx", "detection model path (.onnx)")
	flags.Float64Var(&opts.confidence, "confidence", 0.5, "classifier confidence threshold")
	flags.IntVar(&opts.frameInterval, "frame-interval", 5, "frame sampling stride")
	flags.StringVar(&opts.device, "device", "auto", "compute device: auto, cpu or gpu")
	flags.Float64Var(&opts.maxGapDuration, "max-gap-duration", 2.0, "max gap between hits in one segment, seconds")
	flags.Float64Var(&opts.minSegmentDuration, "min-segment-duration", 1.0, "minimum retained segment duration, seconds")
	flags.Float64Var(&opts.fallbackFPS, "fallback-fps", 25.0, "frame rate used when the container reports none")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.MarkFlagRequired("video")
	rootCmd.MarkFlagRequired("output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	log, err := logger.New(opts.logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	device, err := video.ParseDevice(opts.device)
	if err != nil {
		return err
	}

	classifier, err := video.NewYOLOClassifier(opts.modelPath, device, log)
	if err != nil {
		return err
	}
	defer classifier.Close()

	scanner := video.NewScanner(classifier, opts.fallbackFPS, log)

	uc := usecase.NewDetectFileUseCase(scanner, log, usecase.DetectionParams{
		ConfidenceThreshold: opts.confidence,
		FrameInterval:       opts.frameInterval,
		MaxGapDuration:      opts.maxGapDuration,
		MinSegmentDuration:  opts.minSegmentDuration,
	})

	report, err := uc.Execute(cmd.Context(), opts.videoPath, opts.outputPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Detection complete: %d segments found\n", len(report.Segments))
	return nil
}

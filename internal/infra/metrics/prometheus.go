package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musiccut_detection_jobs_total",
		Help: "Total number of detection jobs processed, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "musiccut_detection_stage_duration_seconds",
		Help:    "Duration of detection pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "musiccut_frames_processed_total",
		Help: "Total number of sampled frames run through the classifier",
	})

	DetectionHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "musiccut_detection_hits_total",
		Help: "Total number of sampled frames with at least one person detection",
	})

	SegmentsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "musiccut_segments_emitted_total",
		Help: "Total number of merged person segments emitted into reports",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "musiccut_active_workers",
		Help: "Number of workers currently running a detection job",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "musiccut_retry_total",
		Help: "Total number of job retries",
	}, []string{"attempt"})
)

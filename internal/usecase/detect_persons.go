package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/Joftal/musiccut/internal/domain/port"
	"github.com/Joftal/musiccut/internal/domain/segment"
	"github.com/Joftal/musiccut/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DetectionParams are the tunables of one detection run. Requests may
// override any of them per job; unset fields fall back to these values.
type DetectionParams struct {
	ConfidenceThreshold float64
	FrameInterval       int
	MaxGapDuration      float64
	MinSegmentDuration  float64
}

func (p DetectionParams) withOverrides(msg entity.DetectionRequestMessage) DetectionParams {
	if msg.Confidence != nil {
		p.ConfidenceThreshold = *msg.Confidence
	}
	if msg.FrameInterval != nil {
		p.FrameInterval = *msg.FrameInterval
	}
	if msg.MaxGapDuration != nil {
		p.MaxGapDuration = *msg.MaxGapDuration
	}
	if msg.MinSegmentDuration != nil {
		p.MinSegmentDuration = *msg.MinSegmentDuration
	}
	return p
}

type DetectPersonsUseCase struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	prober    port.VideoProber
	scanner   port.VideoScanner
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger
	tempDir   string
	maxRetry  int
	defaults  DetectionParams
}

type DetectPersonsConfig struct {
	TempDir    string
	MaxRetries int
	Defaults   DetectionParams
}

func NewDetectPersonsUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	prober port.VideoProber,
	scanner port.VideoScanner,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg DetectPersonsConfig,
) *DetectPersonsUseCase {
	return &DetectPersonsUseCase{
		repo:      repo,
		storage:   storage,
		prober:    prober,
		scanner:   scanner,
		publisher: publisher,
		dlq:       dlq,
		notifier:  notifier,
		logger:    logger,
		tempDir:   cfg.TempDir,
		maxRetry:  cfg.MaxRetries,
		defaults:  cfg.Defaults,
	}
}

func (uc *DetectPersonsUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "DetectPersonsUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.DetectionRequestMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal detection request", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewDetectionJob(msg.UserID, msg.VideoKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.runPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *DetectPersonsUseCase) runPipeline(
	ctx context.Context,
	job *entity.DetectionJob,
	msg entity.DetectionRequestMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")
	params := uc.defaults.withOverrides(msg)

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video from object storage
	dlStart := time.Now()
	ctxDl, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctxDl, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.StageDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Probe container metadata; non-fatal, the scanner re-reads what it needs
	var videoDuration float64
	ctxPr, spanPr := tracer.Start(ctx, "probe_video")
	if info, err := uc.prober.Probe(ctxPr, videoPath); err != nil {
		log.Warn("could not probe video metadata", zap.Error(err))
	} else {
		videoDuration = info.DurationSeconds
	}
	spanPr.End()

	// Sample frames and classify
	scanStart := time.Now()
	ctxScan, spanScan := tracer.Start(ctx, "scan_video")
	result, err := uc.scanner.Scan(ctxScan, videoPath, port.ScanParams{
		FrameInterval:       params.FrameInterval,
		ConfidenceThreshold: params.ConfidenceThreshold,
	})
	if err != nil {
		spanScan.End()
		log.Error("video scan failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "scan_video: "+err.Error(), log)
	}
	spanScan.End()
	metrics.StageDuration.WithLabelValues("scan").Observe(time.Since(scanStart).Seconds())
	metrics.FramesProcessedTotal.Add(float64(result.ProcessedFrames))
	metrics.DetectionHitsTotal.Add(float64(len(result.Hits)))

	// Merge hits into segments and build the report
	segments := segment.Merge(result.Hits, segment.Params{
		FPS:                result.FPS,
		FrameInterval:      params.FrameInterval,
		MaxGapDuration:     params.MaxGapDuration,
		MinSegmentDuration: params.MinSegmentDuration,
	})
	metrics.SegmentsEmittedTotal.Add(float64(len(segments)))

	report := entity.NewReport(segments, result.TotalFrames, result.ProcessedFrames, len(result.Hits))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	// Upload the report
	upStart := time.Now()
	ctxUp, spanUp := tracer.Start(ctx, "upload_report")
	reportKey := fmt.Sprintf("%s/detection_%s.json", msg.UserID, job.ID.String())
	if err := uc.storage.UploadReport(ctxUp, reportKey, bytes.NewReader(data), int64(len(data))); err != nil {
		spanUp.End()
		log.Error("report upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_report: "+err.Error(), log)
	}
	spanUp.End()
	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	if err := uc.repo.SaveSegments(ctx, job.ID, report.Segments); err != nil {
		log.Error("failed to persist segments", zap.Error(err))
		return fmt.Errorf("save segments: %w", err)
	}

	if videoDuration == 0 && result.FPS > 0 {
		videoDuration = float64(result.TotalFrames) / result.FPS
	}

	job.MarkCompleted(reportKey, len(report.Segments), report.DetectionFrames, videoDuration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("detection job completed",
		zap.Int("segments", len(report.Segments)),
		zap.Int("detection_frames", report.DetectionFrames),
		zap.Int("processed_frames", report.ProcessedFrames),
		zap.Float64("duration_secs", videoDuration),
		zap.String("report_key", reportKey),
	)

	return nil
}

func (uc *DetectPersonsUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.DetectionJob,
	msg entity.DetectionRequestMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *DetectPersonsUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.DetectionJob,
	msg entity.DetectionRequestMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *DetectPersonsUseCase) publishStatus(ctx context.Context, job *entity.DetectionJob, log *zap.Logger) {
	statusMsg := entity.DetectionStatusMessage{
		JobID:           job.ID,
		UserID:          job.UserID,
		Status:          job.Status,
		VideoKey:        job.VideoKey,
		ReportKey:       job.ReportKey,
		SegmentCount:    job.SegmentCount,
		DetectionFrames: job.DetectionFrames,
		Duration:        job.VideoDuration,
		ErrorMessage:    job.ErrorMessage,
		Attempt:         job.Attempt,
		MaxAttempts:     job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}

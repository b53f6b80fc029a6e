package postgres

import (
	"context"
	"fmt"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.DetectionJob) error {
	query := `
		INSERT INTO detection_jobs (
			id, user_id, video_key, report_key, status, segment_count,
			detection_frames, file_size, video_duration, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.UserID, job.VideoKey, job.ReportKey, string(job.Status),
		job.SegmentCount, job.DetectionFrames, job.FileSize, job.VideoDuration,
		job.Attempt, job.MaxAttempts, job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert detection job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.DetectionJob) error {
	query := `
		UPDATE detection_jobs SET
			status=$2, report_key=$3, segment_count=$4, detection_frames=$5,
			video_duration=$6, attempt=$7, error_message=$8, updated_at=$9,
			completed_at=$10
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.ReportKey, job.SegmentCount,
		job.DetectionFrames, job.VideoDuration, job.Attempt, job.ErrorMessage,
		job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update detection job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DetectionJob, error) {
	query := `
		SELECT id, user_id, video_key, report_key, status, segment_count,
			detection_frames, file_size, video_duration, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		FROM detection_jobs WHERE id=$1`

	job := &entity.DetectionJob{}
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.VideoKey, &job.ReportKey, &status,
		&job.SegmentCount, &job.DetectionFrames, &job.FileSize, &job.VideoDuration,
		&job.Attempt, &job.MaxAttempts, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find detection job by id: %w", err)
	}
	job.Status = entity.JobStatus(status)
	return job, nil
}

// SaveSegments replaces the stored segments of a job with the given set.
func (r *JobRepository) SaveSegments(ctx context.Context, jobID uuid.UUID, segments []entity.Segment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save segments: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM detection_segments WHERE job_id=$1`, jobID); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}

	batch := &pgx.Batch{}
	for i, seg := range segments {
		batch.Queue(
			`INSERT INTO detection_segments (job_id, ordinal, start_time, end_time, confidence)
			 VALUES ($1,$2,$3,$4,$5)`,
			jobID, i, seg.StartTime, seg.EndTime, seg.Confidence,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert segments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit segments: %w", err)
	}
	return nil
}

func (r *JobRepository) ListSegments(ctx context.Context, jobID uuid.UUID) ([]entity.Segment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT start_time, end_time, confidence
		 FROM detection_segments WHERE job_id=$1 ORDER BY ordinal`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segments []entity.Segment
	for rows.Next() {
		var seg entity.Segment
		if err := rows.Scan(&seg.StartTime, &seg.EndTime, &seg.Confidence); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

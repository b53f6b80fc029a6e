package port

import (
	"context"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/google/uuid"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.DetectionJob) error
	Update(ctx context.Context, job *entity.DetectionJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DetectionJob, error)
	SaveSegments(ctx context.Context, jobID uuid.UUID, segments []entity.Segment) error
	ListSegments(ctx context.Context, jobID uuid.UUID) ([]entity.Segment, error)
}

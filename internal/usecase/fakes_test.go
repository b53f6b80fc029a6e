package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/Joftal/musiccut/internal/domain/entity"
	"github.com/Joftal/musiccut/internal/domain/port"
	"github.com/google/uuid"
)

type fakeRepo struct {
	jobs     map[uuid.UUID]*entity.DetectionJob
	segments map[uuid.UUID][]entity.Segment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:     make(map[uuid.UUID]*entity.DetectionJob),
		segments: make(map[uuid.UUID][]entity.Segment),
	}
}

func (r *fakeRepo) Create(_ context.Context, job *entity.DetectionJob) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeRepo) Update(_ context.Context, job *entity.DetectionJob) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.DetectionJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (r *fakeRepo) SaveSegments(_ context.Context, jobID uuid.UUID, segments []entity.Segment) error {
	r.segments[jobID] = segments
	return nil
}

func (r *fakeRepo) ListSegments(_ context.Context, jobID uuid.UUID) ([]entity.Segment, error) {
	return r.segments[jobID], nil
}

type fakeStorage struct {
	downloadErr error
	uploadErr   error
	uploads     map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (s *fakeStorage) DownloadVideo(_ context.Context, _ string, _ string) error {
	return s.downloadErr
}

func (s *fakeStorage) UploadReport(_ context.Context, objectKey string, reader io.Reader, _ int64) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.uploads[objectKey] = data
	return nil
}

type fakeProber struct {
	info *port.VideoInfo
	err  error
}

func (p *fakeProber) Probe(_ context.Context, _ string) (*port.VideoInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.info, nil
}

type fakeScanner struct {
	result     *port.ScanResult
	err        error
	lastParams port.ScanParams
}

func (s *fakeScanner) Scan(_ context.Context, _ string, params port.ScanParams) (*port.ScanResult, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type fakePublisher struct {
	messages [][]byte
}

func (p *fakePublisher) PublishStatus(_ context.Context, msg []byte) error {
	p.messages = append(p.messages, msg)
	return nil
}

type fakeDLQ struct {
	messages [][]byte
	reasons  []string
}

func (d *fakeDLQ) PublishToDLQ(_ context.Context, msg []byte, reason string) error {
	d.messages = append(d.messages, msg)
	d.reasons = append(d.reasons, reason)
	return nil
}

type fakeNotifier struct {
	notified []string
}

func (n *fakeNotifier) NotifyFailure(_ context.Context, userEmail, _, _, _ string) error {
	n.notified = append(n.notified, userEmail)
	return nil
}

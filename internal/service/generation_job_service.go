package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/beeplan-api/internal/dto"
	appErrors "github.com/noah-isme/beeplan-api/pkg/errors"
	"github.com/noah-isme/beeplan-api/pkg/jobs"
)

// Job states reported to pollers.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

type jobRecord struct {
	Status string
	Error  string
	Result *dto.GenerateTimetableResponse
}

// GenerationJobService runs timetable generations on a background worker
// pool so large instances do not block the request path.
type GenerationJobService struct {
	timetables *TimetableService
	logger     *zap.Logger

	queue *jobs.Queue
	mu    sync.RWMutex
	items map[string]*jobRecord
}

// NewGenerationJobService wires the job queue around the timetable service.
func NewGenerationJobService(timetables *TimetableService, logger *zap.Logger, cfg jobs.QueueConfig) *GenerationJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GenerationJobService{
		timetables: timetables,
		logger:     logger,
		items:      make(map[string]*jobRecord),
	}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("timetable-generation", s.handle, cfg)
	return s
}

// Start launches the worker pool.
func (s *GenerationJobService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *GenerationJobService) Stop() {
	s.queue.Stop()
}

// Submit enqueues a generation request and returns its job id.
func (s *GenerationJobService) Submit(req dto.GenerateTimetableRequest) (*dto.SubmitJobResponse, error) {
	jobID := uuid.NewString()

	s.mu.Lock()
	s.items[jobID] = &jobRecord{Status: JobStatusQueued}
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Payload: req}); err != nil {
		s.mu.Lock()
		delete(s.items, jobID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation job")
	}
	return &dto.SubmitJobResponse{JobID: jobID, Status: JobStatusQueued}, nil
}

// Status reports the state of a job, including the proposal once done.
func (s *GenerationJobService) Status(jobID string) (*dto.JobStatusResponse, error) {
	s.mu.RLock()
	record, ok := s.items[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
	}

	resp := &dto.JobStatusResponse{JobID: jobID, Status: record.Status, Error: record.Error}
	if record.Result != nil {
		resp.Result = record.Result
		resp.ProposalID = record.Result.ProposalID
	}
	return resp, nil
}

func (s *GenerationJobService) handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.GenerateTimetableRequest)
	if !ok {
		s.fail(job.ID, "invalid job payload")
		return nil
	}

	s.transition(job.ID, JobStatusRunning)
	result, err := s.timetables.Generate(ctx, req)
	if err != nil {
		// Invalid configurations are terminal; retrying cannot fix them.
		s.fail(job.ID, appErrors.FromError(err).Message)
		return nil
	}

	s.mu.Lock()
	if record, ok := s.items[job.ID]; ok {
		record.Status = JobStatusDone
		record.Result = result
	}
	s.mu.Unlock()

	s.logger.Info("generation job finished",
		zap.String("job_id", job.ID),
		zap.String("proposal_id", result.ProposalID),
		zap.Bool("complete", result.Complete),
	)
	return nil
}

func (s *GenerationJobService) transition(jobID, status string) {
	s.mu.Lock()
	if record, ok := s.items[jobID]; ok {
		record.Status = status
	}
	s.mu.Unlock()
}

func (s *GenerationJobService) fail(jobID, message string) {
	s.mu.Lock()
	if record, ok := s.items[jobID]; ok {
		record.Status = JobStatusFailed
		record.Error = message
	}
	s.mu.Unlock()
}

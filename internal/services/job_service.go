package services

import (
	"context"
	"strings"
	"time"

	"studyos/internal/catalog"

	"go.uber.org/zap"
)

// jobService implements JobService
type jobService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewJobService creates the job board service
func NewJobService(cat *catalog.Catalog, logger *zap.Logger) JobService {
	return &jobService{catalog: cat, logger: logger, now: time.Now}
}

// List returns matching jobs, newest first
func (s *jobService) List(ctx context.Context, req *ListJobsRequest) []catalog.Job {
	filter := catalog.JobFilter{}
	if req != nil {
		filter.Type = strings.TrimSpace(req.Type)
		filter.Query = strings.TrimSpace(req.Query)
	}
	return s.catalog.Jobs(filter, s.now())
}

// Get returns a single job
func (s *jobService) Get(ctx context.Context, jobID string) (*catalog.Job, error) {
	job, ok := s.catalog.Job(jobID, s.now())
	if !ok {
		return nil, EntityNotFoundError("job", jobID)
	}
	return job, nil
}

package job

import (
	"context"
	"fmt"

	rds "hostcraft/internal/platform/redis"
)

type JobService struct{ redis *rds.Service }

func NewJobService(redis *rds.Service) *JobService { return &JobService{redis: redis} }

func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	var j Job
	if err := s.redis.CacheGet(ctx, key(jobID), &j); err != nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return &j, nil
}

func (s *JobService) InitPending(ctx context.Context, jobID, url string) error {
	return s.store(ctx, Job{JobID: jobID, Status: StatusPending, URL: url})
}

func (s *JobService) SetProcessing(ctx context.Context, jobID, url string) error {
	return s.store(ctx, Job{JobID: jobID, Status: StatusProcessing, URL: url})
}

func (s *JobService) Complete(ctx context.Context, jobID, url string, result *Result) error {
	return s.store(ctx, Job{JobID: jobID, Status: StatusCompleted, URL: url, Result: result})
}

func (s *JobService) Fail(ctx context.Context, jobID, url, reason string) error {
	return s.store(ctx, Job{JobID: jobID, Status: StatusFailed, URL: url, Error: reason})
}

func (s *JobService) store(ctx context.Context, j Job) error {
	if err := s.redis.CacheSet(ctx, key(j.JobID), j, ttl(j.Status)); err != nil {
		return err
	}
	// Status change event for any listeners polling via pub/sub.
	_ = s.redis.Client().Publish(ctx, key(j.JobID), "updated").Err()
	return nil
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s == StatusCompleted || s == StatusFailed {
		return 3600
	}
	return 600
}

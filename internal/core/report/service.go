package report

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"hostcraft/internal/config"
	"hostcraft/internal/core/job"
	"hostcraft/internal/core/pipeline"
	"hostcraft/internal/core/target"
	"hostcraft/internal/logger"
	"hostcraft/internal/platform/tasks"
)

// Request describes a full listing report to be produced asynchronously.
type Request struct {
	URL      string   `json:"url"`
	Address  string   `json:"address,omitempty"`
	Sections []string `json:"sections,omitempty"`
}

type TaskPayload struct {
	JobID   string  `json:"job_id"`
	Request Request `json:"request"`
}

type Service struct {
	log      *logger.Logger
	cfg      config.Config
	pipeline *pipeline.Service
	targets  *target.Service
	job      *job.JobService
	tasks    *tasks.Client
}

func NewService(cfg config.Config, p *pipeline.Service, t *target.Service, j *job.JobService, tc *tasks.Client) *Service {
	return &Service{
		log:      logger.New("ReportService"),
		cfg:      cfg,
		pipeline: p,
		targets:  t,
		job:      j,
		tasks:    tc,
	}
}

// Enqueue registers a pending job and hands the report work to the queue.
func (s *Service) Enqueue(ctx context.Context, req Request) (string, error) {
	if _, err := s.targets.Resolve(req.URL, req.Address); err != nil {
		return "", err
	}
	id := uuid.New().String()
	payload, _ := json.Marshal(TaskPayload{JobID: id, Request: req})
	if err := s.job.InitPending(ctx, id, req.URL); err != nil {
		return "", err
	}
	task := asynq.NewTask(tasks.TaskTypeReport, payload)
	if err := s.tasks.Enqueue(task, "default", s.cfg.TaskMaxRetries); err != nil {
		return "", err
	}
	s.log.LogInfof("enqueued report job %s for %s", id, req.URL)
	return id, nil
}

// HandleReportTask is the asynq worker entrypoint. The pipeline itself
// never fails, so the only failure paths here are malformed payloads and
// an unresolvable target.
func (s *Service) HandleReportTask(ctx context.Context, task *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	s.log.LogInfof("processing report job %s for %s", p.JobID, p.Request.URL)
	if err := s.job.SetProcessing(ctx, p.JobID, p.Request.URL); err != nil {
		return err
	}

	tgt, err := s.targets.Resolve(p.Request.URL, p.Request.Address)
	if err != nil {
		s.log.LogErrorf("report job %s: target resolution failed: %v", p.JobID, err)
		return s.job.Fail(ctx, p.JobID, p.Request.URL, err.Error())
	}

	result := s.pipeline.Run(ctx, tgt, p.Request.Sections)
	if err := s.job.Complete(ctx, p.JobID, p.Request.URL, &job.Result{Report: result}); err != nil {
		return err
	}
	s.log.LogSuccessf("report job %s completed at tier %s", p.JobID, result.Tier)
	return nil
}

package job

import (
	"hostcraft/internal/core/pipeline"
)

// Job tracks an asynchronous report through its lifecycle. Stored in
// Redis keyed by job ID so status polls and workers share one view.
type Job struct {
	JobID  string  `json:"job_id"`
	Status Status  `json:"status"`
	URL    string  `json:"url"`
	Error  string  `json:"error,omitempty"`
	Result *Result `json:"result,omitempty"`
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Result is the stored payload of a finished report job.
type Result struct {
	Report *pipeline.Result `json:"report,omitempty"`
}

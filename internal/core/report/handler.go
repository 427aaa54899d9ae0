package report

import (
	"github.com/gofiber/fiber/v2"

	"hostcraft/internal/core/job"
)

type Handler struct {
	job     *job.JobService
	reports *Service
}

func NewHandler(j *job.JobService, s *Service) *Handler {
	return &Handler{job: j, reports: s}
}

type createResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

type statusResponse struct {
	Success bool        `json:"success"`
	JobID   string      `json:"job_id"`
	Status  job.Status  `json:"status"`
	Error   string      `json:"error,omitempty"`
	Data    *job.Result `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) HandleCreateReport(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid body"})
	}
	if req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "url is required"})
	}
	id, err := h.reports.Enqueue(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	return c.JSON(createResponse{Success: true, JobID: id})
}

func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	id := c.Params("jobId")
	j, err := h.job.GetJobStatus(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "not_found"})
	}
	resp := statusResponse{Success: true, JobID: id, Status: j.Status, Error: j.Error}
	if j.Status == job.StatusCompleted && j.Result != nil {
		resp.Data = j.Result
	}
	return c.JSON(resp)
}

package content

import (
	"github.com/gofiber/fiber/v2"

	"hostcraft/internal/core/pipeline"
	"hostcraft/internal/core/subscriber"
	"hostcraft/prompts"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

type successResponse struct {
	Success bool           `json:"success"`
	Data    productPayload `json:"data"`
	Message string         `json:"message"`
	Note    string         `json:"note,omitempty"`
}

type productPayload struct {
	Sections        map[string]pipeline.ContentSection `json:"sections"`
	DegradationTier pipeline.Tier                      `json:"degradationTier"`
	Note            string                             `json:"note"`
	AverageRating   string                             `json:"averageRating,omitempty"`
	Listing         any                                `json:"listing,omitempty"`
}

type errorResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    *productPayload `json:"data,omitempty"`
}

func (h *Handler) HandleListingAnalysis(c *fiber.Ctx) error {
	req, reason := parseBody(c)
	if reason != "" {
		return badRequest(c, reason)
	}
	if req.URL == "" {
		return badRequest(c, "url is required")
	}
	sections := req.SelectedSections
	if len(sections) == 0 {
		sections = req.Sections
	}
	keys, err := sectionKeys(sections)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.produce(c, ProductListingAnalysis, req, keys, true)
}

func (h *Handler) HandleGuides(c *fiber.Ctx) error {
	req, reason := parseBody(c)
	if reason != "" {
		return badRequest(c, reason)
	}
	if req.URL == "" && req.PropertyType == "" {
		return badRequest(c, "one of url or propertyType is required")
	}
	if len(req.Sections) == 0 {
		return badRequest(c, "sections must be a non-empty array")
	}
	keys, err := sectionKeys(req.Sections)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.produce(c, ProductGuides, req, keys, false)
}

func (h *Handler) HandleSEOContent(c *fiber.Ctx) error {
	req, reason := parseBody(c)
	if reason != "" {
		return badRequest(c, reason)
	}
	if req.URL == "" && req.PropertyType == "" {
		return badRequest(c, "one of url or propertyType is required")
	}
	if len(req.Sections) == 0 {
		return badRequest(c, "sections must be a non-empty array")
	}
	keys, err := sectionKeys(req.Sections)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return h.produce(c, ProductSEO, req, keys, false)
}

func (h *Handler) HandleReviewSentiment(c *fiber.Ctx) error {
	req, reason := parseBody(c)
	if reason != "" {
		return badRequest(c, reason)
	}
	if req.URL == "" {
		return badRequest(c, "url is required")
	}
	return h.produce(c, ProductSentiment, req, []string{prompts.SectionSentiment}, false)
}

func (h *Handler) produce(c *fiber.Ctx, product string, req Request, sections []string, withRating bool) error {
	result, err := h.svc.Produce(c.Context(), product, req, sections)
	if err != nil {
		// Target resolution is the only failure left after validation.
		// Degrade rather than refuse: serve a simulated-data payload
		// alongside the error so the caller still has usable content.
		fallback := h.svc.pipeline.Run(c.Context(), fallbackTarget(req), sections)
		payload := toPayload(fallback, withRating)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error:   err.Error(),
			Message: "content produced from simulated data after an internal error",
			Data:    &payload,
		})
	}
	return c.JSON(successResponse{
		Success: true,
		Data:    toPayload(result, withRating),
		Message: "content generated",
		Note:    result.Note,
	})
}

func toPayload(r *pipeline.Result, withRating bool) productPayload {
	p := productPayload{
		Sections:        r.Sections,
		DegradationTier: r.Tier,
		Note:            r.Note,
		Listing:         r.Listing,
	}
	if withRating && r.Listing != nil {
		p.AverageRating = r.Listing.OverallRating
	}
	return p
}

// parseBody decodes and applies the validations shared by every product.
// A non-empty second return is the 400 reason.
func parseBody(c *fiber.Ctx) (Request, string) {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return req, "invalid body"
	}
	if req.Email == "" {
		return req, "email is required"
	}
	if !subscriber.Valid(req.Email) {
		return req, "email is invalid"
	}
	return req, ""
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
		Error:   msg,
		Message: "request validation failed",
	})
}

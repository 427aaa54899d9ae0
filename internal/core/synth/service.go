package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hostcraft/internal/core/listing"
	"hostcraft/internal/logger"
	"hostcraft/internal/platform/llm"
	"hostcraft/prompts"

	"github.com/cloudwego/eino/schema"
)

// ErrSynthesisFailed marks one section's generation as unusable: service
// error, empty content, or a response that failed structural validation.
// The degradation controller turns it into a template rendering for that
// section only.
var ErrSynthesisFailed = errors.New("synthesis failed")

// Analysis is the model's assessment of the original content.
type Analysis struct {
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"`
}

// Section is one synthesized unit of guest-facing content.
type Section struct {
	Key                string    `json:"key"`
	OriginalContent    string    `json:"original_content,omitempty"`
	SynthesizedContent string    `json:"synthesized_content"`
	Analysis           *Analysis `json:"analysis,omitempty"`
}

// Generator is the minimal LLM surface synthesis needs. *llm.Service
// satisfies it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (string, error)
}

type Service struct {
	log     *logger.Logger
	gen     Generator
	prompts *prompts.SectionPrompts
	timeout time.Duration
}

// callTimeout bounds each generation call independently of the browser
// session, which is always closed before synthesis starts.
const callTimeout = 25 * time.Second

func NewService(gen Generator) *Service {
	return &Service{
		log:     logger.New("SynthService"),
		gen:     gen,
		prompts: prompts.NewSectionPrompts(),
		timeout: callTimeout,
	}
}

// Synthesize generates one section from the extracted listing. No retry
// loop: a single failure returns ErrSynthesisFailed and the caller falls
// back to a deterministic template.
func (s *Service) Synthesize(ctx context.Context, key string, l *listing.Extracted, original string) (*Section, error) {
	tmpl := s.prompts.Get(key)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: unknown section %q", ErrSynthesisFailed, key)
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages, err := tmpl.Format(cctx, s.templateVars(l, original))
	if err != nil {
		return nil, fmt.Errorf("%w: format prompt: %v", ErrSynthesisFailed, err)
	}

	raw, err := s.gen.Generate(cctx, messages)
	if err != nil {
		s.log.LogWarnf("section %s: generation failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	sec, err := parseSectionResponse(key, raw)
	if err != nil {
		s.log.LogWarnf("section %s: %v", key, err)
		return nil, err
	}
	sec.OriginalContent = original
	return sec, nil
}

// Improvements asks the model what changed between original and rewritten
// content. Strictly best-effort: any failure returns nil.
func (s *Service) Improvements(ctx context.Context, original, synthesized string) *Analysis {
	if strings.TrimSpace(original) == "" {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages, err := prompts.ImprovementsTemplate().Format(cctx, map[string]any{
		"original_content":    boundOriginal(original),
		"synthesized_content": synthesized,
	})
	if err != nil {
		return nil
	}
	raw, err := s.gen.Generate(cctx, messages)
	if err != nil {
		return nil
	}
	var a Analysis
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(raw)), &a); err != nil {
		return nil
	}
	return &a
}

// maxOriginalTokens caps how much on-page content travels as prompt
// context. The section payload still carries the full original.
const maxOriginalTokens = 2000

// boundOriginal truncates original content to the prompt-context token
// budget, cutting on a rune boundary.
func boundOriginal(original string) string {
	if llm.EstimateTokens(original) <= maxOriginalTokens {
		return original
	}
	n := maxOriginalTokens * 4
	for n > 0 && !utf8.RuneStart(original[n]) {
		n--
	}
	return original[:n]
}

func (s *Service) templateVars(l *listing.Extracted, original string) map[string]any {
	original = boundOriginal(original)
	return map[string]any{
		"property_name":      l.PropertyName,
		"property_type":      l.PropertyType,
		"property_category":  l.PropertyCategory,
		"location":           l.Location,
		"overall_rating":     orDash(l.OverallRating),
		"total_review_count": orDash(l.TotalReviewCount),
		"amenities":          strings.Join(l.Amenities, ", "),
		"host_name":          l.Host.Name,
		"is_superhost":       fmt.Sprintf("%v", l.Host.IsSuperhost),
		"host_bio":           l.Host.Bio,
		"reviews":            formatReviews(l.Reviews),
		"original_content":   original,
	}
}

// maxPromptReviews keeps prompt context bounded on review-heavy pages.
const maxPromptReviews = 10

func formatReviews(reviews []listing.Review) string {
	if len(reviews) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, r := range reviews {
		if i == maxPromptReviews {
			break
		}
		fmt.Fprintf(&b, "- %s", r.Name)
		if r.Date != "" {
			fmt.Fprintf(&b, " (%s)", r.Date)
		}
		fmt.Fprintf(&b, ": %s\n", r.Text)
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// sectionPayload is the structural contract every section response must
// satisfy.
type sectionPayload struct {
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
	Score       *int     `json:"score"`
}

func parseSectionResponse(key, raw string) (*Section, error) {
	cleaned := llm.CleanJSONResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrSynthesisFailed)
	}

	var payload sectionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrSynthesisFailed, err)
	}
	if strings.TrimSpace(payload.Content) == "" {
		return nil, fmt.Errorf("%w: response carries no content", ErrSynthesisFailed)
	}

	sec := &Section{Key: key, SynthesizedContent: strings.TrimSpace(payload.Content)}
	if len(payload.Suggestions) > 0 || payload.Score != nil {
		a := &Analysis{Suggestions: payload.Suggestions}
		if payload.Score != nil {
			a.Score = *payload.Score
		}
		sec.Analysis = a
	}
	return sec, nil
}

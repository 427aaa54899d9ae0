package content

import (
	"context"
	"fmt"

	"hostcraft/internal/core/listing"
	"hostcraft/internal/core/pipeline"
	"hostcraft/internal/core/subscriber"
	"hostcraft/internal/core/target"
	"hostcraft/internal/logger"
	"hostcraft/prompts"
)

// Product names, used as the subscriber capture tag.
const (
	ProductListingAnalysis = "listing_analysis"
	ProductGuides          = "guides"
	ProductSEO             = "seo_content"
	ProductSentiment       = "review_sentiment"
)

// Request is the shared body of the content product endpoints. Which
// fields are required varies per product; see the handler validation.
type Request struct {
	URL              string   `json:"url,omitempty"`
	PropertyType     string   `json:"propertyType,omitempty"`
	Email            string   `json:"email"`
	Address          string   `json:"address,omitempty"`
	Sections         []string `json:"sections,omitempty"`
	SelectedSections []string `json:"selectedSections,omitempty"`
}

type Service struct {
	log         *logger.Logger
	pipeline    *pipeline.Service
	targets     *target.Service
	subscribers subscriber.Store
}

func NewService(p *pipeline.Service, t *target.Service, subs subscriber.Store) *Service {
	return &Service{
		log:         logger.New("ContentService"),
		pipeline:    p,
		targets:     t,
		subscribers: subs,
	}
}

// Produce captures the requester's email and runs the pipeline for the
// given product. The email is stored before any extraction work so a
// degraded run still records the signup.
func (s *Service) Produce(ctx context.Context, product string, req Request, sections []string) (*pipeline.Result, error) {
	if err := s.subscribers.Add(ctx, req.Email, product); err != nil {
		s.log.LogWarnf("subscriber capture failed for %s: %v", product, err)
	}

	tgt, err := s.buildTarget(req)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, tgt, sections), nil
}

func (s *Service) buildTarget(req Request) (listing.Target, error) {
	if req.URL != "" {
		return s.targets.Resolve(req.URL, req.Address)
	}
	// No URL means no extraction attempt. The pipeline resolves such
	// targets to simulated data, influenced by the stated property type.
	return listing.Target{AddressHint: req.Address, PropertyHint: req.PropertyType}, nil
}

// fallbackTarget strips the URL so the pipeline resolves to simulated
// data, used when the real target could not be built at all.
func fallbackTarget(req Request) listing.Target {
	return listing.Target{AddressHint: req.Address, PropertyHint: req.PropertyType}
}

// sectionKeys validates that every requested section is a known prompt
// key, so a typo fails fast instead of producing an empty template.
func sectionKeys(requested []string) ([]string, error) {
	out := make([]string, 0, len(requested))
	for _, k := range requested {
		if !prompts.IsKnownSection(k) {
			return nil, fmt.Errorf("unknown section %q", k)
		}
		out = append(out, k)
	}
	return out, nil
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hostcraft/internal/core/browser"
	"hostcraft/internal/core/extract"
	"hostcraft/internal/core/listing"
	"hostcraft/internal/core/synth"
	"hostcraft/internal/logger"
	"hostcraft/prompts"
)

// Extractor is the real-extraction stage. *extract.Service satisfies it.
type Extractor interface {
	Extract(ctx context.Context, target listing.Target) (*extract.Result, error)
}

// Synthesizer is the generation stage. *synth.Service satisfies it.
type Synthesizer interface {
	Synthesize(ctx context.Context, key string, l *listing.Extracted, original string) (*synth.Section, error)
	Improvements(ctx context.Context, original, synthesized string) *synth.Analysis
}

// SnapshotSink receives block-page screenshots for operator diagnosis.
// Strictly best-effort.
type SnapshotSink interface {
	SaveBlockSnapshot(ctx context.Context, targetURL string, png []byte)
}

// Service is the degradation controller: it orchestrates the tiers
// (real extraction, AI synthesis, deterministic templates, simulated
// data) and always assembles a complete result. Run never fails.
//
// Every Run is independent: no session, listing or synthesized content
// is shared across requests, so a transient failure on one request can
// never degrade the next one for the same URL.
type Service struct {
	log       *logger.Logger
	extractor Extractor
	synth     Synthesizer
	snapshots SnapshotSink
}

func NewService(extractor Extractor, synthesizer Synthesizer, snapshots SnapshotSink) *Service {
	return &Service{
		log:       logger.New("Pipeline"),
		extractor: extractor,
		synth:     synthesizer,
		snapshots: snapshots,
	}
}

// Run produces a Result covering exactly the requested section keys.
// Every failure below this point is absorbed into the degradation tier
// and the note; nothing propagates to the HTTP layer.
func (s *Service) Run(ctx context.Context, target listing.Target, sections []string) *Result {
	sections = normalizeSections(sections)

	l, realExtraction, extractNote := s.obtainListing(ctx, target)

	res := &Result{
		Sections: make(map[string]ContentSection, len(sections)),
		Listing:  l,
	}

	templated := 0
	hadOriginal := false
	for _, key := range sections {
		original := originalContentFor(key, l)
		if original != "" {
			hadOriginal = true
		}
		sec := s.synthesizeSection(ctx, key, l, original)
		if sec.Templated {
			templated++
		}
		res.Sections[key] = sec
	}

	switch {
	case !realExtraction:
		res.Tier = TierMock
		res.Note = extractNote
	case templated > 0:
		res.Tier = TierTemplate
		res.Note = fmt.Sprintf("extraction succeeded; %d of %d sections used template fallback after synthesis failed", templated, len(sections))
	case hadOriginal:
		res.Tier = TierReal
		res.Note = "extraction and synthesis succeeded"
	default:
		res.Tier = TierAIOnly
		res.Note = "extraction succeeded; content generated from structured data only"
	}

	return res
}

// obtainListing attempts real extraction and falls back to the simulated
// listing on any abort point, returning the reason in the note.
func (s *Service) obtainListing(ctx context.Context, target listing.Target) (*listing.Extracted, bool, string) {
	if target.ListingID == "" {
		s.log.LogWarnf("no listing identifier in %s, skipping extraction", target.URL)
		return SimulateListing(target), false, "no listing identifier found in URL, used simulated data"
	}

	res, err := s.extractor.Extract(ctx, target)
	if err == nil && res != nil && res.Listing != nil {
		return res.Listing, true, ""
	}

	note := "extraction failed, used simulated data"
	switch {
	case errors.Is(err, browser.ErrRuntimeUnavailable):
		note = "browser runtime unavailable, used simulated data"
	case errors.Is(err, extract.ErrBlockDetected):
		note = "extraction blocked, used simulated data"
		if res != nil && len(res.BlockSnapshot) > 0 && s.snapshots != nil {
			s.snapshots.SaveBlockSnapshot(ctx, target.URL, res.BlockSnapshot)
		}
	case errors.Is(err, extract.ErrNavigationFailed):
		note = "navigation failed, used simulated data"
	}
	s.log.LogWarnf("%s: %v", note, err)
	return SimulateListing(target), false, note
}

func (s *Service) synthesizeSection(ctx context.Context, key string, l *listing.Extracted, original string) ContentSection {
	sec, err := s.synth.Synthesize(ctx, key, l, original)
	if err != nil {
		// Template tier: deterministic rendering for this section only.
		return ContentSection{
			Key:                key,
			OriginalContent:    original,
			SynthesizedContent: RenderTemplate(key, l),
			Templated:          true,
		}
	}

	out := ContentSection{
		Key:                key,
		OriginalContent:    sec.OriginalContent,
		SynthesizedContent: sec.SynthesizedContent,
		Analysis:           sec.Analysis,
	}
	if out.Analysis == nil && original != "" {
		out.Analysis = s.synth.Improvements(ctx, original, sec.SynthesizedContent)
	}
	return out
}

// originalContentFor surfaces on-page content the model should rewrite
// rather than generate from scratch.
func originalContentFor(key string, l *listing.Extracted) string {
	switch key {
	case prompts.SectionDescription:
		return l.DescriptionOriginal
	case prompts.SectionTitle:
		if l.PropertyName != listing.DefaultPropertyName {
			return l.PropertyName
		}
	case prompts.SectionHostBio:
		return l.Host.Bio
	}
	return ""
}

func normalizeSections(sections []string) []string {
	seen := make(map[string]bool, len(sections))
	out := make([]string, 0, len(sections))
	for _, raw := range sections {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	if len(out) == 0 {
		out = []string{prompts.SectionTitle, prompts.SectionDescription, prompts.SectionAmenities}
	}
	return out
}

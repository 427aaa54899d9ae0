package pipeline

import (
	"hostcraft/internal/core/listing"
	"hostcraft/internal/core/synth"
)

// Tier records which fallback level ultimately produced a result.
type Tier string

const (
	// TierReal: real extraction, every section synthesized against the
	// page's own content.
	TierReal Tier = "REAL"
	// TierAIOnly: real extraction, every section synthesized, but the page
	// carried no original content to rewrite.
	TierAIOnly Tier = "AI_ONLY"
	// TierTemplate: real extraction, at least one section fell back to a
	// deterministic template.
	TierTemplate Tier = "TEMPLATE"
	// TierMock: real extraction did not complete; the listing is simulated.
	TierMock Tier = "MOCK"
)

// ContentSection is one named unit of produced content.
type ContentSection struct {
	Key                string          `json:"key"`
	OriginalContent    string          `json:"original_content,omitempty"`
	SynthesizedContent string          `json:"synthesized_content"`
	Analysis           *synth.Analysis `json:"analysis,omitempty"`
	Templated          bool            `json:"templated,omitempty"`
}

// Result is the only externally visible pipeline artifact. Sections covers
// exactly the requested keys; Tier and Note are always set so callers can
// tell trustworthy results from degraded ones without content heuristics.
type Result struct {
	Sections map[string]ContentSection `json:"sections"`
	Tier     Tier                      `json:"degradation_tier"`
	Note     string                    `json:"note"`
	Listing  *listing.Extracted        `json:"listing"`
}

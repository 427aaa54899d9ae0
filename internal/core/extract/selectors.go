package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Cascade is the ordered selector list for one field: primary structural
// selectors first, then alternate/legacy ones. Regex and proximity tiers
// are code, not config.
type Cascade struct {
	Primary   []string `yaml:"primary"`
	Alternate []string `yaml:"alternate"`
}

func (c Cascade) All() []string {
	out := make([]string, 0, len(c.Primary)+len(c.Alternate))
	out = append(out, c.Primary...)
	return append(out, c.Alternate...)
}

// Selectors holds every per-field cascade. Listing pages churn their
// markup constantly, so operators can overlay these from a YAML file
// without a rebuild.
type Selectors struct {
	PropertyName Cascade `yaml:"property_name"`
	PropertyType Cascade `yaml:"property_type"`
	Location     Cascade `yaml:"location"`
	Amenities    Cascade `yaml:"amenities"`
	Rating       Cascade `yaml:"rating"`
	ReviewCount  Cascade `yaml:"review_count"`
	HostName     Cascade `yaml:"host_name"`
	HostBio      Cascade `yaml:"host_bio"`

	// Review discovery tiers, tried in order until one yields a
	// non-trivial result count.
	ReviewItems []string `yaml:"review_items"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		PropertyName: Cascade{
			Primary:   []string{`h1[elementtiming="LCP-target"]`, `div[data-section-id="TITLE_DEFAULT"] h1`},
			Alternate: []string{`h1`, `[data-testid="listing-title"]`},
		},
		PropertyType: Cascade{
			Primary:   []string{`div[data-section-id="OVERVIEW_DEFAULT_V2"] h2`, `div[data-section-id="OVERVIEW_DEFAULT"] h2`},
			Alternate: []string{`[data-testid="listing-overview"] h2`, `main h2`},
		},
		Location: Cascade{
			Primary:   []string{`div[data-section-id="LOCATION_DEFAULT"] h3`, `[data-testid="listing-card-subtitle"]`},
			Alternate: []string{`button[data-testid="title-location"]`, `a[href*="maps"] span`},
		},
		Amenities: Cascade{
			Primary:   []string{`div[data-section-id="AMENITIES_DEFAULT"] div[id*="row-title"]`, `[data-testid="amenity-row"]`},
			Alternate: []string{`div[data-section-id="AMENITIES_DEFAULT"] div`},
		},
		Rating: Cascade{
			Primary:   []string{`[data-testid="pdp-reviews-highlight-banner-host-rating"] span`, `div[data-section-id="REVIEWS_DEFAULT"] h2 span`},
			Alternate: []string{`span[aria-hidden="true"][class*="rating"]`, `[aria-label*="out of 5"]`},
		},
		ReviewCount: Cascade{
			Primary:   []string{`[data-testid="pdp-reviews-highlight-banner-host-review-count"]`, `a[href*="reviews"] span`},
			Alternate: []string{`div[data-section-id="REVIEWS_DEFAULT"] h2`},
		},
		HostName: Cascade{
			Primary:   []string{`div[data-section-id="HOST_PROFILE_DEFAULT"] h2`, `[data-testid="host-profile"] h2`},
			Alternate: []string{`div[data-section-id="MEET_YOUR_HOST"] h2`},
		},
		HostBio: Cascade{
			Primary:   []string{`div[data-section-id="HOST_PROFILE_DEFAULT"] span`, `[data-testid="host-profile-bio"]`},
			Alternate: []string{`div[data-section-id="MEET_YOUR_HOST"] p`},
		},
		ReviewItems: []string{
			`div[data-review-id]`,
			`[data-testid="review-card"]`,
			`div[data-section-id="REVIEWS_DEFAULT"] div[role="listitem"]`,
		},
	}
}

// LoadSelectors returns the defaults overlaid with any cascades named in
// the YAML file at path. An empty path means defaults only.
func LoadSelectors(path string) (Selectors, error) {
	sels := DefaultSelectors()
	if path == "" {
		return sels, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sels, fmt.Errorf("read selectors file: %w", err)
	}
	var override Selectors
	if err := yaml.Unmarshal(b, &override); err != nil {
		return sels, fmt.Errorf("parse selectors file: %w", err)
	}
	merge := func(dst *Cascade, src Cascade) {
		if len(src.Primary) > 0 || len(src.Alternate) > 0 {
			*dst = src
		}
	}
	merge(&sels.PropertyName, override.PropertyName)
	merge(&sels.PropertyType, override.PropertyType)
	merge(&sels.Location, override.Location)
	merge(&sels.Amenities, override.Amenities)
	merge(&sels.Rating, override.Rating)
	merge(&sels.ReviewCount, override.ReviewCount)
	merge(&sels.HostName, override.HostName)
	merge(&sels.HostBio, override.HostBio)
	if len(override.ReviewItems) > 0 {
		sels.ReviewItems = override.ReviewItems
	}
	return sels, nil
}

package listing

import "strings"

// Target identifies one extraction request. Built once by the target
// resolver and immutable afterwards.
type Target struct {
	URL          string `json:"url"`
	ListingID    string `json:"listing_id"`
	AddressHint  string `json:"address_hint,omitempty"`
	PropertyHint string `json:"property_hint,omitempty"`
}

// Review is a single guest review. At least one of Name/Text is non-empty
// after Normalize; missing fields carry neutral placeholders so consumers
// never branch on absence.
type Review struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
	Text     string `json:"text"`
	Rating   string `json:"rating,omitempty"`
}

// Host describes the property host as shown on the listing page.
type Host struct {
	Name        string `json:"name"`
	IsSuperhost bool   `json:"is_superhost"`
	Bio         string `json:"bio"`
}

// Extracted is the structured listing built field by field within a single
// browser session. Every required field holds either a scraped value or an
// explicit default once Normalize has run.
type Extracted struct {
	PropertyName     string   `json:"property_name"`
	PropertyType     string   `json:"property_type"`
	PropertyCategory string   `json:"property_category"`
	Location         string   `json:"location"`
	Amenities        []string `json:"amenities"`
	Reviews          []Review `json:"reviews"`
	OverallRating    string   `json:"overall_rating,omitempty"`
	TotalReviewCount string   `json:"total_review_count,omitempty"`
	Host             Host     `json:"host"`

	// DescriptionOriginal is the page's own description converted to
	// markdown, used as original content for the description section.
	DescriptionOriginal string `json:"description_original,omitempty"`
}

// Field defaults substituted when every extraction strategy misses.
const (
	DefaultPropertyName = "Beautiful Property"
	DefaultPropertyType = "house"
	DefaultLocation     = "Unknown Location"
	DefaultHostName     = "Host"
	DefaultReviewName   = "Guest"
	DefaultReviewText   = "No review text available"
)

// Normalize fills any field left empty with its named default so nothing
// downstream ever sees an unknown state.
func (e *Extracted) Normalize() {
	if strings.TrimSpace(e.PropertyName) == "" {
		e.PropertyName = DefaultPropertyName
	}
	if strings.TrimSpace(e.PropertyType) == "" {
		e.PropertyType = DefaultPropertyType
	}
	if strings.TrimSpace(e.PropertyCategory) == "" {
		e.PropertyCategory = DefaultPropertyType
	}
	if strings.TrimSpace(e.Location) == "" {
		e.Location = DefaultLocation
	}
	if e.Amenities == nil {
		e.Amenities = []string{}
	}
	if e.Reviews == nil {
		e.Reviews = []Review{}
	}
	for i := range e.Reviews {
		e.Reviews[i].normalize()
	}
	if strings.TrimSpace(e.Host.Name) == "" {
		e.Host.Name = DefaultHostName
	}
}

func (r *Review) normalize() {
	if strings.TrimSpace(r.Name) == "" {
		r.Name = DefaultReviewName
	}
	if strings.TrimSpace(r.Text) == "" {
		r.Text = DefaultReviewText
	}
}

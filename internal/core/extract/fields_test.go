package extract

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"hostcraft/internal/core/listing"
	"hostcraft/internal/logger"
)

func testService() *Service {
	return &Service{
		log:        logger.New("test"),
		sels:       DefaultSelectors(),
		navTimeout: 30 * time.Second,
	}
}

func TestExtractFieldsFromSelectors(t *testing.T) {
	p := newFakePage()
	p.texts[`h1`] = "Lakeview Hideaway"
	p.texts[`div[data-section-id="OVERVIEW_DEFAULT"] h2`] = "Entire cabin in Tahoe City, California, United States"
	p.body = "Entire cabin in Tahoe City, California, United States\n4.87 · 203 reviews\nHosted by Dana"
	p.allTexts[`div[data-section-id="AMENITIES_DEFAULT"] div[id*="row-title"]`] = []string{
		"Wifi", "Kitchen", "Hot tub", "Free parking",
	}

	svc := testService()
	l, found := svc.extractFields(NewPageView(p))

	if l.PropertyName != "Lakeview Hideaway" {
		t.Errorf("PropertyName: got %q", l.PropertyName)
	}
	if !found["propertyName"] {
		t.Error("propertyName should be marked found")
	}
	if l.PropertyType != "cabin" {
		t.Errorf("PropertyType: got %q, want cabin", l.PropertyType)
	}
	if l.Location != "Tahoe City, California, United States" {
		t.Errorf("Location: got %q", l.Location)
	}
	if l.OverallRating != "4.87" {
		t.Errorf("OverallRating: got %q, want 4.87", l.OverallRating)
	}
	if l.TotalReviewCount != "203" {
		t.Errorf("TotalReviewCount: got %q, want 203", l.TotalReviewCount)
	}
	if l.Host.Name != "Dana" {
		t.Errorf("Host.Name: got %q, want Dana", l.Host.Name)
	}
	if len(l.Amenities) != 4 {
		t.Errorf("Amenities: got %v", l.Amenities)
	}
}

func TestExtractFieldsAllMiss(t *testing.T) {
	svc := testService()
	l, found := svc.extractFields(NewPageView(newFakePage()))

	for _, f := range []string{"propertyName", "propertyType", "location", "overallRating", "hostName"} {
		if found[f] {
			t.Errorf("field %s should be marked missed on an empty page", f)
		}
	}
	if l.PropertyName != listing.DefaultPropertyName {
		t.Errorf("PropertyName default: got %q", l.PropertyName)
	}
	if l.PropertyType != listing.DefaultPropertyType {
		t.Errorf("PropertyType default: got %q", l.PropertyType)
	}
	if l.OverallRating != "" {
		t.Errorf("OverallRating should stay empty, got %q", l.OverallRating)
	}
}

func TestExtractFieldsRegexFallback(t *testing.T) {
	// No selector hits at all; regex tiers over the body must carry.
	p := newFakePage()
	p.title = "Casa do Mar - Vrbo"
	p.body = `Private room in Porto, Portugal
4.65 · 89 reviews
Stay with Joana
Superhost`
	svc := testService()
	l, found := svc.extractFields(NewPageView(p))

	if l.PropertyType != "private room" {
		t.Errorf("PropertyType: got %q, want private room", l.PropertyType)
	}
	if l.Location != "Porto, Portugal" {
		t.Errorf("Location: got %q", l.Location)
	}
	if !found["overallRating"] || l.OverallRating != "4.65" {
		t.Errorf("OverallRating: got %q (found=%v)", l.OverallRating, found["overallRating"])
	}
	if l.TotalReviewCount != "89" {
		t.Errorf("TotalReviewCount: got %q", l.TotalReviewCount)
	}
	if l.Host.Name != "Joana" {
		t.Errorf("Host.Name: got %q", l.Host.Name)
	}
	if !l.Host.IsSuperhost {
		t.Error("IsSuperhost should be detected from body text")
	}
	// Title tier fills the name when selectors and meta both miss.
	if l.PropertyName != "Casa do Mar" {
		t.Errorf("PropertyName: got %q, want Casa do Mar", l.PropertyName)
	}
}

func TestExtractReviewCountStripsCommas(t *testing.T) {
	p := newFakePage()
	p.body = "1,204 reviews"
	svc := testService()
	l, _ := svc.extractFields(NewPageView(p))
	if l.TotalReviewCount != "1204" {
		t.Errorf("TotalReviewCount: got %q, want 1204", l.TotalReviewCount)
	}
}

func TestExtractAmenitiesVocabularyFallback(t *testing.T) {
	p := newFakePage()
	p.body = "This home offers Wifi and a full Kitchen plus Free parking on premises."
	svc := testService()
	got := svc.extractAmenities(NewPageView(p))
	want := map[string]bool{"Wifi": true, "Kitchen": true, "Free parking": true}
	if len(got) != len(want) {
		t.Fatalf("amenities: got %v", got)
	}
	for _, a := range got {
		if !want[a] {
			t.Errorf("unexpected amenity %q", a)
		}
	}
}

func TestExtractAmenitiesThreshold(t *testing.T) {
	// Fewer than three selector items means the section likely never
	// rendered; the vocabulary scan takes over.
	p := newFakePage()
	p.allTexts[`div[data-section-id="AMENITIES_DEFAULT"] div[id*="row-title"]`] = []string{"Wifi", "Wifi"}
	p.body = "Pool, Hot tub and Gym available."
	svc := testService()
	got := svc.extractAmenities(NewPageView(p))
	if len(got) != 3 {
		t.Fatalf("amenities: got %v, want the 3 vocabulary hits", got)
	}
}

func TestTruncateRunesBoundary(t *testing.T) {
	// Descriptions routinely carry accented text; the cap must not split
	// a multi-byte rune.
	s := strings.Repeat("ü", 30)
	got := truncateRunes(s, 15)
	if !utf8.ValidString(got) {
		t.Errorf("invalid UTF-8 after truncation: %q", got)
	}
	if len(got) > 15 {
		t.Errorf("length: got %d bytes, want at most 15", len(got))
	}
	if got := truncateRunes("plain ascii", 100); got != "plain ascii" {
		t.Errorf("short input must pass through, got %q", got)
	}
	if got := truncateRunes("abcdef", 3); got != "abc" {
		t.Errorf("ascii cut: got %q, want abc", got)
	}
}

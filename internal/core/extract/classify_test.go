package extract

import "testing"

func TestClassifyProperty(t *testing.T) {
	cases := []struct {
		name         string
		propertyType string
		listingName  string
		location     string
		amenities    []string
		want         string
	}{
		{"explicit cabin type", "cabin", "Hideaway", "Tahoe City, CA", nil, "cabin"},
		{"chalet maps to cabin", "chalet", "Alpine Retreat", "Chamonix", nil, "cabin"},
		{"beach in name", "house", "Sunny Beach Escape", "Florida", nil, "beach_house"},
		{"lake via amenity", "house", "The Retreat", "Vermont", []string{"Lake access"}, "lake_house"},
		{"rental unit is apartment", "rental unit", "Downtown Stay", "Chicago", nil, "apartment"},
		{"condo is apartment", "condo", "City View", "Seattle", nil, "apartment"},
		{"villa", "villa", "Casa Grande", "Tuscany", nil, "villa"},
		{"farm stay", "farm stay", "The Old Barn", "Iowa", nil, "farm_stay"},
		{"guesthouse", "guesthouse", "Garden Annex", "Kyoto", nil, "guesthouse"},
		{"cottage", "cottage", "Rose Cottage", "Cotswolds", nil, "cottage"},
		{"unrecognized defaults to house", "place", "Somewhere", "Nowhere", nil, "house"},
		{"cabin beats beach by declaration order", "cabin", "Beachside Cabin", "Oregon Coast", nil, "cabin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyProperty(tc.propertyType, tc.listingName, tc.location, tc.amenities)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyPropertyCaseInsensitive(t *testing.T) {
	if got := ClassifyProperty("CABIN", "", "", nil); got != "cabin" {
		t.Errorf("got %q, want cabin", got)
	}
}

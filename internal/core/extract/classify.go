package extract

import "strings"

// Property type categories downstream content is keyed by. Deliberately a
// small closed set; anything unrecognized lands on "house".
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"cabin", []string{"cabin", "chalet", "a-frame", "lodge", "log home"}},
	{"beach_house", []string{"beach", "oceanfront", "seaside", "coastal", "shore"}},
	{"lake_house", []string{"lake", "lakefront", "waterfront dock"}},
	{"villa", []string{"villa", "estate", "manor"}},
	{"apartment", []string{"apartment", "rental unit", "condo", "loft", "flat", "studio"}},
	{"cottage", []string{"cottage", "bungalow", "tiny home", "tiny house"}},
	{"farm_stay", []string{"farm", "ranch", "barn"}},
	{"guesthouse", []string{"guesthouse", "guest suite", "casita"}},
}

// ClassifyProperty maps free-text signals from the extracted type, name,
// location and amenities onto one category. Deterministic: first category
// whose keyword appears in any signal wins, in declaration order.
func ClassifyProperty(propertyType, name, location string, amenities []string) string {
	signals := []string{
		strings.ToLower(propertyType),
		strings.ToLower(name),
		strings.ToLower(location),
	}
	for _, a := range amenities {
		signals = append(signals, strings.ToLower(a))
	}

	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			for _, sig := range signals {
				if strings.Contains(sig, kw) {
					return c.category
				}
			}
		}
	}
	return "house"
}

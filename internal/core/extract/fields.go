package extract

import (
	"regexp"
	"strings"

	"hostcraft/internal/core/listing"
)

var (
	rePropertyType = regexp.MustCompile(`(?i)\bEntire (rental unit|home|house|villa|cabin|cottage|apartment|condo|loft|guesthouse|guest suite|townhouse|bungalow|chalet|farm stay|place)\b`)
	reRoomType     = regexp.MustCompile(`(?i)\b(Private room|Shared room|Hotel room) in\b`)
	reLocationIn   = regexp.MustCompile(`(?i)\b(?:located )?in ([A-Z][\w'. -]+, [A-Z][\w'. -]+(?:, [A-Z][\w'. -]+)?)`)
	reRating       = regexp.MustCompile(`(\d\.\d{1,2})\s*(?:·|out of 5|stars?)`)
	reRatingBare   = regexp.MustCompile(`^\s*(\d\.\d{1,2})\s*$`)
	reReviewCount  = regexp.MustCompile(`(\d[\d,]*)\s+reviews?`)
	reHostedBy     = regexp.MustCompile(`(?i)Hosted by ([A-Z][\w'. -]{1,40})`)
	reStayWith     = regexp.MustCompile(`(?i)Stay with ([A-Z][\w'. -]{1,40})`)
)

// knownAmenities is the vocabulary for the regex fallback when no amenity
// section selector matches.
var knownAmenities = []string{
	"Wifi", "Kitchen", "Free parking", "Washer", "Dryer", "Air conditioning",
	"Heating", "Pool", "Hot tub", "TV", "Gym", "Breakfast", "Workspace",
	"Fireplace", "BBQ grill", "Balcony", "Patio", "Garden", "Beach access",
	"Lake access", "Ski-in/Ski-out", "Pets allowed", "Smoke alarm",
	"Carbon monoxide alarm", "First aid kit", "Self check-in", "Crib",
	"EV charger", "Dishwasher", "Coffee maker",
}

// extractFields runs every per-field cascade against the page and returns
// the structured listing plus which fields were genuinely found.
func (s *Service) extractFields(v *PageView) (*listing.Extracted, map[string]bool) {
	found := make(map[string]bool)
	out := &listing.Extracted{}

	name := firstSuccess(v, listing.DefaultPropertyName,
		bySelectors("name selectors", s.sels.PropertyName.All()...),
		byMeta("og:title", "og:title"),
		Strategy{Name: "page title", Run: func(v *PageView) (string, bool) {
			t := strings.TrimSpace(strings.SplitN(v.Page.Title(), " - ", 2)[0])
			return t, t != ""
		}},
	)
	out.PropertyName = cleanLine(name.Value)
	found["propertyName"] = name.Found

	ptype := firstSuccess(v, listing.DefaultPropertyType,
		bySelectorsMatching("type selectors", rePropertyType, 1, s.sels.PropertyType.All()...),
		byBodyRegex("entire-x regex", rePropertyType, 1),
		byBodyRegex("room-type regex", reRoomType, 1),
	)
	out.PropertyType = strings.ToLower(cleanLine(ptype.Value))
	found["propertyType"] = ptype.Found

	loc := firstSuccess(v, listing.DefaultLocation,
		bySelectors("location selectors", s.sels.Location.All()...),
		byBodyRegex("in-city regex", reLocationIn, 1),
		byMeta("og:locality", "og:locality"),
	)
	out.Location = cleanLine(loc.Value)
	found["location"] = loc.Found

	rating := firstSuccess(v, "",
		bySelectorsMatching("rating selectors", reRatingBare, 1, s.sels.Rating.All()...),
		byBodyRegex("rating regex", reRating, 1),
		byKeywordProximity("rating proximity", "rating", reRating, 1),
	)
	out.OverallRating = rating.Value
	found["overallRating"] = rating.Found

	count := firstSuccess(v, "",
		bySelectorsMatching("review-count selectors", reReviewCount, 1, s.sels.ReviewCount.All()...),
		byBodyRegex("review-count regex", reReviewCount, 1),
		byKeywordProximity("review-count proximity", "review", reReviewCount, 1),
	)
	out.TotalReviewCount = strings.ReplaceAll(count.Value, ",", "")
	found["totalReviewCount"] = count.Found

	out.Amenities = s.extractAmenities(v)
	found["amenities"] = len(out.Amenities) > 0

	host := firstSuccess(v, listing.DefaultHostName,
		bySelectorsMatching("host selectors", reHostedBy, 1, s.sels.HostName.All()...),
		byBodyRegex("hosted-by regex", reHostedBy, 1),
		byBodyRegex("stay-with regex", reStayWith, 1),
	)
	out.Host.Name = cleanLine(host.Value)
	found["hostName"] = host.Found
	out.Host.IsSuperhost = strings.Contains(v.Body, "Superhost")

	bio := firstSuccess(v, "",
		bySelectors("bio selectors", s.sels.HostBio.All()...),
	)
	out.Host.Bio = strings.TrimSpace(bio.Value)

	for field, ok := range found {
		if !ok {
			s.log.LogDebugf("field %s missed all strategies, default substituted", field)
		}
	}
	return out, found
}

// bySelectorsMatching is the selector tier for fields whose element text
// carries noise around the value (e.g. "4.92 · 128 reviews"): the first
// selector hit that matches re wins.
func bySelectorsMatching(name string, re *regexp.Regexp, group int, selectors ...string) Strategy {
	return Strategy{
		Name: name,
		Run: func(v *PageView) (string, bool) {
			for _, sel := range selectors {
				text, ok := v.Page.QueryText(sel)
				if !ok {
					continue
				}
				if m := re.FindStringSubmatch(text); len(m) > group {
					return m[group], true
				}
				// A clean hit with no surrounding noise is also a value.
				if re == reHostedBy && text != "" {
					return text, true
				}
			}
			return "", false
		},
	}
}

func (s *Service) extractAmenities(v *PageView) []string {
	for _, sel := range s.sels.Amenities.All() {
		items := v.Page.QueryAllText(sel)
		cleaned := make([]string, 0, len(items))
		seen := make(map[string]bool)
		for _, it := range items {
			it = cleanLine(it)
			if it == "" || len(it) > 60 || seen[strings.ToLower(it)] {
				continue
			}
			if strings.Contains(strings.ToLower(it), "unavailable") {
				continue
			}
			seen[strings.ToLower(it)] = true
			cleaned = append(cleaned, it)
		}
		if len(cleaned) >= 3 {
			return cleaned
		}
	}

	// Vocabulary scan over the body snapshot when the section never
	// rendered or its selectors rotted.
	var out []string
	for _, a := range knownAmenities {
		if strings.Contains(v.Body, a) {
			out = append(out, a)
		}
	}
	return out
}

func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\n\r"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"hostcraft/internal/core/listing"
	"hostcraft/prompts"
)

// RenderTemplate produces deterministic section content from listing
// fields alone. It is the tier below synthesis: same listing, same
// output, no randomness, never empty.
func RenderTemplate(key string, l *listing.Extracted) string {
	locality := generalLocality(l.Location)

	switch key {
	case prompts.SectionTitle:
		return trimTo(fmt.Sprintf("%s · %s in %s", l.PropertyName, titleCase(l.PropertyType), locality), 50)

	case prompts.SectionDescription:
		var b strings.Builder
		fmt.Fprintf(&b, "Welcome to %s, a %s in %s. ", l.PropertyName, l.PropertyType, locality)
		if len(l.Amenities) > 0 {
			fmt.Fprintf(&b, "The space comes with %s. ", joinNatural(topN(l.Amenities, 4)))
		}
		if l.OverallRating != "" && l.TotalReviewCount != "" {
			fmt.Fprintf(&b, "Guests rate their stay %s across %s reviews. ", l.OverallRating, l.TotalReviewCount)
		}
		fmt.Fprintf(&b, "Hosted by %s, it is ready for your next trip to %s.", l.Host.Name, locality)
		return b.String()

	case prompts.SectionAmenities:
		if len(l.Amenities) == 0 {
			return fmt.Sprintf("%s offers the essentials for a comfortable stay, with everything you need to settle in quickly.", l.PropertyName)
		}
		return fmt.Sprintf("%s comes equipped with %s. Everything is set up so you can settle in from the moment you arrive.",
			l.PropertyName, joinNatural(topN(l.Amenities, 6)))

	case prompts.SectionHouseRules:
		return fmt.Sprintf("Check-in is after 3 PM and check-out is by 11 AM. "+
			"Please treat %s as you would your own %s: no parties or events, no smoking indoors, "+
			"and quiet hours from 10 PM to 8 AM out of respect for the neighbors in %s. "+
			"Reach out to %s with any questions during your stay.",
			l.PropertyName, l.PropertyType, locality, l.Host.Name)

	case prompts.SectionLocalArea:
		return fmt.Sprintf("%s sits in %s, with local cafes, markets and outdoor spaces within easy reach. "+
			"Ask %s for directions to the neighborhood favorites; most guests find everything they need "+
			"for a relaxed stay just a short trip from the front door.",
			l.PropertyName, locality, l.Host.Name)

	case prompts.SectionHostBio:
		super := ""
		if l.Host.IsSuperhost {
			super = " and a recognized Superhost"
		}
		return fmt.Sprintf("Hi, I'm %s, your host%s. I look after %s personally and love helping guests "+
			"get the most out of %s. If anything comes up during your stay, I'm only a message away.",
			l.Host.Name, super, l.PropertyName, locality)

	case prompts.SectionSentiment:
		if len(l.Reviews) == 0 {
			return fmt.Sprintf("No guest reviews are available for %s yet. New listings typically collect their first feedback within a few stays.", l.PropertyName)
		}
		rating := l.OverallRating
		if rating == "" {
			rating = "consistently positive"
		}
		return fmt.Sprintf("Guests rate %s %s overall across %d collected reviews. "+
			"Recent feedback highlights the comfort of the space and the responsiveness of %s.",
			l.PropertyName, rating, len(l.Reviews), l.Host.Name)

	case prompts.SectionSEO:
		return fmt.Sprintf("%s: %s rental in %s with %s. Book direct for your next stay.\nKeywords: %s rental %s, %s with %s, places to stay in %s",
			trimTo(l.PropertyName, 40), l.PropertyType, locality, joinNatural(topN(l.Amenities, 2)),
			l.PropertyType, locality, l.PropertyType, strings.ToLower(strings.Join(topN(l.Amenities, 2), ", ")), locality)

	default:
		return fmt.Sprintf("%s is a %s in %s hosted by %s. Contact the host for details about %s.",
			l.PropertyName, l.PropertyType, locality, l.Host.Name, key)
	}
}

// generalLocality strips the most specific leading component from a
// comma-separated location so templates never echo a precise address.
func generalLocality(location string) string {
	parts := strings.Split(location, ",")
	if len(parts) >= 3 {
		return strings.TrimSpace(strings.Join(parts[len(parts)-2:], ","))
	}
	return strings.TrimSpace(location)
}

func topN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return "the essentials"
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trimTo(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return cut
}

package pipeline

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"hostcraft/internal/core/extract"
	"hostcraft/internal/core/listing"
)

// Simulated-listing pools. Facts are drawn with a rand seeded from the
// target URL so repeated calls for the same input are byte-identical;
// never real randomness.
var (
	mockNames = []string{
		"The Willow Retreat", "Sunset Ridge Hideaway", "Maple Grove House",
		"The Cedar Nook", "Harborview Escape", "Stonebrook Cottage",
		"The Lantern House", "Quiet Pines Stay", "Rosewood Corner",
		"The Garden Loft",
	}
	mockTypes = []string{"house", "apartment", "cabin", "cottage", "villa", "guesthouse"}
	mockCities = []string{
		"Asheville, North Carolina", "Bend, Oregon", "Sedona, Arizona",
		"Stowe, Vermont", "Marfa, Texas", "Door County, Wisconsin",
		"Joshua Tree, California", "Traverse City, Michigan",
	}
	mockAmenityPool = []string{
		"Wifi", "Kitchen", "Free parking", "Washer", "Air conditioning",
		"Heating", "TV", "Workspace", "Coffee maker", "Patio", "Fireplace",
		"Hot tub", "BBQ grill", "Self check-in", "Smoke alarm",
	}
	mockHosts = []string{"Sarah", "Miguel", "Priya", "Daniel", "Yuki", "Elena"}
	mockReviewTexts = []string{
		"Spotless, comfortable, and exactly as described. We would absolutely stay again.",
		"The host was quick to respond and the check-in instructions were crystal clear.",
		"Great location, quiet at night, and the kitchen had everything we needed.",
		"The beds were so comfortable we overslept both mornings. Lovely stay.",
		"Photos do not do it justice. The outdoor space was the highlight of our trip.",
		"Easy parking, fast wifi, and a thoughtful welcome note. Five stars.",
	}
	mockReviewerNames = []string{"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Mia", "Lucas"}
	mockReviewDates   = []string{"March 2025", "April 2025", "May 2025", "June 2025", "July 2025", "August 2025"}
)

// seedFor derives a stable seed from the extraction inputs.
func seedFor(target listing.Target) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(target.URL))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(target.AddressHint))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(target.PropertyHint))
	return int64(h.Sum64())
}

// SimulateListing builds a deterministic listing for the MOCK tier. The
// same target always yields the same facts, preserving reproducibility
// for callers and tests.
func SimulateListing(target listing.Target) *listing.Extracted {
	rng := rand.New(rand.NewSource(seedFor(target)))

	l := &listing.Extracted{
		PropertyName: mockNames[rng.Intn(len(mockNames))],
		PropertyType: mockTypes[rng.Intn(len(mockTypes))],
		Location:     mockCities[rng.Intn(len(mockCities))],
	}
	if hint := strings.TrimSpace(target.AddressHint); hint != "" {
		l.Location = hint
	}
	if hint := strings.TrimSpace(target.PropertyHint); hint != "" {
		l.PropertyType = strings.ToLower(hint)
	}

	perm := rng.Perm(len(mockAmenityPool))
	count := 5 + rng.Intn(5)
	for _, i := range perm[:count] {
		l.Amenities = append(l.Amenities, mockAmenityPool[i])
	}

	l.OverallRating = fmt.Sprintf("4.%d", 5+rng.Intn(5))
	reviewCount := 12 + rng.Intn(180)
	l.TotalReviewCount = fmt.Sprintf("%d", reviewCount)

	nReviews := 3 + rng.Intn(3)
	for i := 0; i < nReviews; i++ {
		l.Reviews = append(l.Reviews, listing.Review{
			Name: mockReviewerNames[rng.Intn(len(mockReviewerNames))],
			Date: mockReviewDates[rng.Intn(len(mockReviewDates))],
			Text: mockReviewTexts[rng.Intn(len(mockReviewTexts))],
		})
	}

	l.Host.Name = mockHosts[rng.Intn(len(mockHosts))]
	l.Host.IsSuperhost = rng.Intn(2) == 0
	l.Host.Bio = fmt.Sprintf("%s has been hosting for %d years and loves sharing local tips.",
		l.Host.Name, 2+rng.Intn(6))

	l.PropertyCategory = extract.ClassifyProperty(l.PropertyType, l.PropertyName, l.Location, l.Amenities)
	l.Normalize()
	return l
}

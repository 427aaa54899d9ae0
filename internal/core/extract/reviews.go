package extract

import (
	"regexp"
	"strings"

	"hostcraft/internal/core/listing"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxReviews = 24
	// A discovery tier needs at least this many candidates to be trusted
	// outright; thinner results are kept only if no later tier does better.
	nonTrivialReviews = 2
)

var (
	reReviewDate   = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b|\b\d+\s+(?:days?|weeks?|months?|years?)\s+ago\b`)
	reReviewRating = regexp.MustCompile(`Rating,?\s*(\d(?:\.\d)?)\s*(?:out of 5)?`)
	reStarsOnly    = regexp.MustCompile(`★+`)
)

// reviewStrategy yields candidate reviews from one discovery approach.
type reviewStrategy struct {
	name string
	run  func(v *PageView) []listing.Review
}

// extractReviews layers independent discovery strategies and stops at the
// first yielding a non-trivial count. All candidates are deduplicated by
// exact text before materializing.
func (s *Service) extractReviews(v *PageView) []listing.Review {
	strategies := []reviewStrategy{
		{"attribute-tagged items", s.reviewsFromSelectors},
		{"list-role items", s.reviewsFromListRoles},
		{"heading clustering", s.reviewsFromHeadingBlocks},
		{"generic text blocks", s.reviewsFromTextBlocks},
	}

	var best []listing.Review
	for _, st := range strategies {
		got := dedupeReviews(st.run(v))
		s.log.LogDebugf("review strategy %q yielded %d candidates", st.name, len(got))
		if len(got) >= nonTrivialReviews {
			return capReviews(got)
		}
		if len(got) > len(best) {
			best = got
		}
	}
	return capReviews(best)
}

func (s *Service) reviewsFromSelectors(v *PageView) []listing.Review {
	for _, sel := range s.sels.ReviewItems {
		blocks := v.Page.QueryAllText(sel)
		if len(blocks) == 0 {
			continue
		}
		var out []listing.Review
		for _, b := range blocks {
			if r, ok := parseReviewBlock(b); ok {
				out = append(out, r)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func (s *Service) reviewsFromListRoles(v *PageView) []listing.Review {
	blocks := v.Page.QueryAllText(`[role="dialog"] div[role="listitem"], section div[role="listitem"]`)
	var out []listing.Review
	for _, b := range blocks {
		if r, ok := parseReviewBlock(b); ok {
			out = append(out, r)
		}
	}
	return out
}

// reviewsFromHeadingBlocks clusters the body text that follows a reviews
// heading into per-review chunks. Pure text heuristic for pages whose
// review markup carries no usable attributes at all.
func (s *Service) reviewsFromHeadingBlocks(v *PageView) []listing.Review {
	body := v.Body
	idx := -1
	for _, h := range []string{"Guest reviews", "Reviews", "What guests are saying"} {
		if i := strings.Index(body, h); i >= 0 {
			idx = i + len(h)
			break
		}
	}
	if idx < 0 || idx >= len(body) {
		return nil
	}
	region := body[idx:]
	if len(region) > 8000 {
		region = region[:8000]
	}

	paras := strings.Split(region, "\n\n")
	var out []listing.Review
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		if r, ok := parseReviewBlock(strings.Join(current, "\n")); ok {
			out = append(out, r)
		}
		current = nil
	}
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// A date line marks the start of the next review's header.
		if reReviewDate.MatchString(firstLine(p)) && len(current) > 0 {
			flush()
		}
		current = append(current, p)
		if len(out) >= maxReviews {
			break
		}
	}
	flush()
	return out
}

func (s *Service) reviewsFromTextBlocks(v *PageView) []listing.Review {
	if v.Doc == nil {
		return nil
	}
	var out []listing.Review
	v.Doc.Find("div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) < 60 || len(text) > 1200 {
			return true
		}
		if !reReviewDate.MatchString(text) {
			return true
		}
		// Only leaf-ish blocks: a container holding several dates is a
		// wrapper, not a review.
		if len(reReviewDate.FindAllString(text, 3)) > 1 {
			return true
		}
		if r, ok := parseReviewBlock(text); ok {
			out = append(out, r)
		}
		return len(out) < maxReviews
	})
	return out
}

// parseReviewBlock splits one review card's inner text into fields. The
// first line is the reviewer name, an early line may carry location or
// date, and the longest remaining run is the body.
func parseReviewBlock(block string) (listing.Review, bool) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return listing.Review{}, false
	}

	var r listing.Review
	var bodyLines []string
	for i, line := range lines {
		switch {
		case i == 0 && len(line) <= 40 && !reReviewDate.MatchString(line):
			r.Name = line
		case r.Date == "" && reReviewDate.MatchString(line) && len(line) <= 60:
			r.Date = reReviewDate.FindString(line)
		case r.Rating == "" && reReviewRating.MatchString(line):
			r.Rating = reReviewRating.FindStringSubmatch(line)[1]
		case r.Location == "" && i <= 2 && len(line) <= 50 && strings.Contains(line, ","):
			r.Location = line
		case reStarsOnly.MatchString(line) && len(line) <= 10:
			// star glyph row, no information beyond the rating
		default:
			bodyLines = append(bodyLines, line)
		}
	}
	r.Text = strings.TrimSpace(strings.Join(bodyLines, " "))

	if r.Name == "" && r.Text == "" {
		return listing.Review{}, false
	}
	if r.Name == "" {
		r.Name = listing.DefaultReviewName
	}
	if r.Text == "" {
		r.Text = listing.DefaultReviewText
	}
	return r, true
}

func dedupeReviews(in []listing.Review) []listing.Review {
	seen := make(map[string]bool, len(in))
	out := make([]listing.Review, 0, len(in))
	for _, r := range in {
		key := r.Text
		if key == listing.DefaultReviewText {
			key = r.Name + "|" + r.Date
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func capReviews(in []listing.Review) []listing.Review {
	if len(in) > maxReviews {
		return in[:maxReviews]
	}
	return in
}

func splitLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

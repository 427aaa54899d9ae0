package extract

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"hostcraft/internal/core/browser"
	"hostcraft/internal/core/listing"
	"hostcraft/internal/logger"
	"hostcraft/internal/utils/markdown"
)

// Service drives one browser session through navigate, reveal and the
// per-field cascades to produce a complete listing. The session is an
// exclusive scoped resource released on every exit path before control
// returns to the caller.
type Service struct {
	log        *logger.Logger
	manager    *browser.Manager
	sels       Selectors
	navTimeout time.Duration
}

func NewService(manager *browser.Manager, sels Selectors) *Service {
	return &Service{
		log:        logger.New("ExtractService"),
		manager:    manager,
		sels:       sels,
		navTimeout: manager.Options().NavigationTimeout,
	}
}

// Result carries the extracted listing plus a diagnostic screenshot that
// is only populated when a block was detected.
type Result struct {
	Listing       *listing.Extracted
	Partial       bool
	BlockSnapshot []byte
}

// Extract runs the full in-session pipeline against target. On any error
// the returned Result may still carry a BlockSnapshot for diagnostics but
// never a listing; errors map onto the degradation taxonomy
// (browser.ErrRuntimeUnavailable, ErrNavigationFailed, ErrBlockDetected).
func (s *Service) Extract(ctx context.Context, target listing.Target) (*Result, error) {
	res := &Result{}

	err := s.manager.WithSession(ctx, func(sess *browser.Session) error {
		p := sess.Page()

		nav, err := s.navigate(p, target.URL)
		if err != nil {
			if nav.Blocked {
				// Best-effort capture of what the block page looked like;
				// the shot ships to the snapshot store for operators.
				if shot, serr := p.Screenshot(); serr == nil {
					res.BlockSnapshot = shot
				}
			}
			return err
		}
		res.Partial = nav.Partial

		s.reveal(p, "amenities", nil)
		s.reveal(p, "reviews", s.sels.ReviewItems)

		view := NewPageView(p)
		l, found := s.extractFields(view)
		l.DescriptionOriginal = extractDescriptionMarkdown(view)
		l.Reviews = s.extractReviews(view)
		l.PropertyCategory = ClassifyProperty(l.PropertyType, l.PropertyName, l.Location, l.Amenities)
		l.Normalize()

		s.log.LogSuccessf("extracted %q (%s) with %d amenities, %d reviews (partial=%v, found=%d fields)",
			l.PropertyName, l.PropertyCategory, len(l.Amenities), len(l.Reviews), nav.Partial, countFound(found))
		res.Listing = l
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("extract %s: %w", target.URL, err)
	}
	return res, nil
}

func countFound(found map[string]bool) int {
	n := 0
	for _, ok := range found {
		if ok {
			n++
		}
	}
	return n
}

// extractDescriptionMarkdown lifts the page's own description section and
// converts it to markdown for use as original prompt context.
func extractDescriptionMarkdown(v *PageView) string {
	if v.Doc == nil {
		return ""
	}
	for _, sel := range []string{
		`div[data-section-id="DESCRIPTION_DEFAULT"]`,
		`div[data-section-id="DESCRIPTION_MODAL"]`,
		`[data-testid="listing-description"]`,
	} {
		node := v.Doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if html, err := node.Html(); err == nil {
			if md := markdown.Convert(html); md != "" {
				return truncateRunes(md, maxDescriptionBytes)
			}
		}
	}
	return ""
}

const maxDescriptionBytes = 4000

// truncateRunes caps s at n bytes without splitting a multi-byte rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

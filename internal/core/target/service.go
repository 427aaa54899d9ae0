package target

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"hostcraft/internal/core/listing"
	"hostcraft/internal/logger"

	"github.com/gocolly/colly"
)

// Service builds the immutable extraction target for a request: the
// listing identifier parsed from the URL plus an address hint, optionally
// enriched by a cheap static probe before a browser is spent on the page.
type Service struct {
	log          *logger.Logger
	probeTimeout time.Duration
}

func NewService() *Service {
	return &Service{log: logger.New("TargetResolver"), probeTimeout: 8 * time.Second}
}

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/rooms/(\d+)`),
	regexp.MustCompile(`/rooms/plus/(\d+)`),
	regexp.MustCompile(`/listings?/([A-Za-z0-9-]{4,})`),
	regexp.MustCompile(`/homes/(\d+)`),
	regexp.MustCompile(`/h/([A-Za-z0-9-]{4,})`),
}

// DeriveListingID extracts the listing identifier from a URL, or "" when
// no recognizable identifier exists. An empty identifier short-circuits
// the pipeline straight to simulated data.
func DeriveListingID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(u.Path); len(m) > 1 {
			return m[1]
		}
	}
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	return ""
}

// Resolve validates the URL and assembles the target. The static probe
// is best-effort: anti-bot walls and timeouts leave the hint empty and
// nothing else.
func (s *Service) Resolve(rawURL, address string) (listing.Target, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return listing.Target{}, fmt.Errorf("invalid listing url: %q", rawURL)
	}

	t := listing.Target{
		URL:         u.String(),
		ListingID:   DeriveListingID(u.String()),
		AddressHint: strings.TrimSpace(address),
	}

	if t.AddressHint == "" && t.ListingID != "" {
		t.AddressHint = s.probeAddressHint(t.URL)
	}
	return t, nil
}

// probeAddressHint fetches the page statically and mines og metadata for
// a locality. Listing pages usually put "City, Region" in og:description
// or the og:title tail even when real content needs JavaScript.
func (s *Service) probeAddressHint(pageURL string) string {
	var hint string

	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(s.probeTimeout)

	c.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		if hint == "" {
			hint = localityFromTitle(e.Attr("content"))
		}
	})
	c.OnHTML(`meta[property="og:locality"]`, func(e *colly.HTMLElement) {
		if v := strings.TrimSpace(e.Attr("content")); v != "" {
			hint = v
		}
	})

	if err := c.Visit(pageURL); err != nil {
		s.log.LogDebugf("static probe of %s failed: %v", pageURL, err)
		return ""
	}
	c.Wait()
	return hint
}

var reTitleLocality = regexp.MustCompile(`(?:in|near)\s+([A-Z][\w'. -]+(?:,\s*[A-Z][\w'. -]+)+)\s*$`)

func localityFromTitle(title string) string {
	title = strings.TrimSpace(title)
	if m := reTitleLocality.FindStringSubmatch(title); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	// "Name - City, Region - Site" style titles.
	parts := strings.Split(title, " - ")
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if strings.Contains(p, ",") && len(p) < 60 {
			return p
		}
	}
	return ""
}

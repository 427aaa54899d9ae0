package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hostcraft/internal/core/browser"
)

var (
	// ErrNavigationFailed covers DNS, network and hard timeout failures
	// where not enough content rendered to continue.
	ErrNavigationFailed = errors.New("navigation failed")
	// ErrBlockDetected means the page answered with a login wall or an
	// access-denied signal. Extracting from it would produce confidently
	// wrong data, so the attempt is aborted outright.
	ErrBlockDetected = errors.New("block detected")
)

// NavigationOutcome reports how the page settled. A settle timeout with
// enough rendered content is recorded as partial success, not an error.
type NavigationOutcome struct {
	Blocked bool
	Partial bool
	Reason  string
}

// minRenderedChars is the least body text a partially loaded page must
// carry before extraction is worth attempting.
const minRenderedChars = 400

// settleCap bounds the post-load settle wait. The wait always fits inside
// whatever is left of the navigation budget, so the whole segment never
// exceeds the configured timeout.
const settleCap = 12 * time.Second

func (s *Service) navigate(p browser.Page, targetURL string) (NavigationOutcome, error) {
	var out NavigationOutcome

	start := time.Now()
	if err := p.Goto(targetURL, s.navTimeout); err != nil {
		if len(strings.TrimSpace(p.BodyText())) < minRenderedChars {
			return out, fmt.Errorf("%w: %v", ErrNavigationFailed, err)
		}
		out.Partial = true
	}

	settle := s.navTimeout - time.Since(start)
	if settle > settleCap {
		settle = settleCap
	}
	if settle <= 0 || !p.WaitSettled(settle) {
		if len(strings.TrimSpace(p.BodyText())) < minRenderedChars {
			return out, fmt.Errorf("%w: page never settled and too little rendered", ErrNavigationFailed)
		}
		out.Partial = true
	}

	if blocked, reason := DetectBlock(p.BodyText(), p.URL(), targetURL); blocked {
		out.Blocked = true
		out.Reason = reason
		return out, fmt.Errorf("%w: %s", ErrBlockDetected, reason)
	}
	return out, nil
}

// blockPhrases are login-wall and bot-challenge signals. Matching is done
// against the first chunk of body text where interstitials put their copy.
var blockPhrases = []string{
	"log in or sign up",
	"sign in to continue",
	"access denied",
	"access to this page has been denied",
	"verify you are a human",
	"are you a robot",
	"request blocked",
	"captcha",
	"just a moment",
	"checking your browser",
}

// DetectBlock inspects page text and the final URL for signals that the
// session was denied real content.
func DetectBlock(bodyText, currentURL, originalURL string) (bool, string) {
	if host := hostOf(currentURL); host != "" {
		if orig := hostOf(originalURL); orig != "" && !sameSite(host, orig) {
			return true, fmt.Sprintf("redirected off %s to %s", orig, host)
		}
	}

	head := strings.ToLower(bodyText)
	if len(head) > 2000 {
		head = head[:2000]
	}
	for _, phrase := range blockPhrases {
		if strings.Contains(head, phrase) {
			return true, fmt.Sprintf("page shows %q", phrase)
		}
	}

	if strings.Contains(strings.ToLower(currentURL), "/login") ||
		strings.Contains(strings.ToLower(currentURL), "/signin") {
		return true, "redirected to a login page"
	}
	return false, ""
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// sameSite treats subdomains of the original host as the same site, so a
// locale redirect does not read as a block.
func sameSite(current, original string) bool {
	return current == original ||
		strings.HasSuffix(current, "."+original) ||
		strings.HasSuffix(original, "."+current)
}

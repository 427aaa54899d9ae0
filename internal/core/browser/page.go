package browser

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Page is the capability set extraction strategies are written against.
// Lookups report absence instead of returning errors: a selector that
// matches nothing is a routine outcome, not a failure. Implemented once
// over playwright; tests substitute fakes.
type Page interface {
	Goto(url string, timeout time.Duration) error
	// WaitSettled blocks until network activity goes idle or the timeout
	// elapses. Returns false on timeout; callers decide whether rendered
	// content makes that a partial success.
	WaitSettled(timeout time.Duration) bool
	URL() string
	Title() string
	Content() (string, error)
	BodyText() string

	QueryText(selector string) (string, bool)
	QueryAllText(selector string) []string
	Count(selector string) int
	Click(selector string, timeout time.Duration) bool
	ClickNth(selector string, nth int, timeout time.Duration) bool
	ScrollBy(pixels int)
	ScrollIntoView(selector string, nth int) bool
	Evaluate(script string) (interface{}, error)
	Screenshot() ([]byte, error)
}

type pwPage struct {
	page playwright.Page
}

const queryTimeoutMs = 1500

func (p *pwPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *pwPage) WaitSettled(timeout time.Duration) bool {
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (p *pwPage) URL() string { return p.page.URL() }

func (p *pwPage) Title() string {
	t, _ := p.page.Title()
	return t
}

func (p *pwPage) Content() (string, error) { return p.page.Content() }

func (p *pwPage) BodyText() string {
	text, err := p.page.Locator("body").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(queryTimeoutMs),
	})
	if err != nil {
		return ""
	}
	return text
}

func (p *pwPage) QueryText(selector string) (string, bool) {
	loc := p.page.Locator(selector).First()
	text, err := loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(queryTimeoutMs),
	})
	if err != nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

func (p *pwPage) QueryAllText(selector string) []string {
	loc := p.page.Locator(selector)
	count, err := loc.Count()
	if err != nil || count == 0 {
		return nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, err := loc.Nth(i).InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(queryTimeoutMs),
		})
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (p *pwPage) Count(selector string) int {
	count, err := p.page.Locator(selector).Count()
	if err != nil {
		return 0
	}
	return count
}

func (p *pwPage) Click(selector string, timeout time.Duration) bool {
	return p.ClickNth(selector, 0, timeout)
}

func (p *pwPage) ClickNth(selector string, nth int, timeout time.Duration) bool {
	err := p.page.Locator(selector).Nth(nth).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (p *pwPage) ScrollBy(pixels int) {
	_ = p.page.Mouse().Wheel(0, float64(pixels))
}

func (p *pwPage) ScrollIntoView(selector string, nth int) bool {
	err := p.page.Locator(selector).Nth(nth).ScrollIntoViewIfNeeded(
		playwright.LocatorScrollIntoViewIfNeededOptions{
			Timeout: playwright.Float(queryTimeoutMs),
		})
	return err == nil
}

func (p *pwPage) Evaluate(script string) (interface{}, error) {
	return p.page.Evaluate(script)
}

func (p *pwPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
	})
}

package extract

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

// fakePage is an in-memory Page for exercising strategies without a
// browser. Selector lookups answer from the texts maps.
type fakePage struct {
	url      string
	title    string
	html     string
	body     string
	texts    map[string]string
	allTexts map[string][]string

	gotoErr      error
	settled      bool
	settleWindow time.Duration
	screenshot   []byte
	clicked      []string
	clickOK      map[string]bool
}

func newFakePage() *fakePage {
	return &fakePage{
		settled:  true,
		texts:    map[string]string{},
		allTexts: map[string][]string{},
		clickOK:  map[string]bool{},
	}
}

func (f *fakePage) Goto(url string, _ time.Duration) error {
	if f.gotoErr != nil {
		return f.gotoErr
	}
	if f.url == "" {
		f.url = url
	}
	return nil
}
func (f *fakePage) WaitSettled(d time.Duration) bool {
	f.settleWindow = d
	return f.settled
}
func (f *fakePage) URL() string                      { return f.url }
func (f *fakePage) Title() string                    { return f.title }
func (f *fakePage) Content() (string, error) {
	if f.html == "" {
		return "", errors.New("no content")
	}
	return f.html, nil
}
func (f *fakePage) BodyText() string { return f.body }
func (f *fakePage) QueryText(selector string) (string, bool) {
	v, ok := f.texts[selector]
	return v, ok
}
func (f *fakePage) QueryAllText(selector string) []string { return f.allTexts[selector] }
func (f *fakePage) Count(selector string) int             { return len(f.allTexts[selector]) }
func (f *fakePage) Click(selector string, _ time.Duration) bool {
	f.clicked = append(f.clicked, selector)
	return f.clickOK[selector]
}
func (f *fakePage) ClickNth(selector string, _ int, _ time.Duration) bool {
	f.clicked = append(f.clicked, selector)
	return f.clickOK[selector]
}
func (f *fakePage) ScrollBy(int)                     {}
func (f *fakePage) ScrollIntoView(string, int) bool  { return false }
func (f *fakePage) Evaluate(string) (interface{}, error) {
	return nil, errors.New("not supported")
}
func (f *fakePage) Screenshot() ([]byte, error) {
	if f.screenshot == nil {
		return nil, errors.New("no screenshot")
	}
	return f.screenshot, nil
}

func TestFirstSuccessOrder(t *testing.T) {
	p := newFakePage()
	p.texts["h1"] = "From Selector"
	p.body = "Property named From Body"
	v := NewPageView(p)

	got := firstSuccess(v, "fallback",
		bySelectors("sel", "h1"),
		byBodyRegex("re", regexp.MustCompile(`named (\w+)`), 1),
	)
	if !got.Found || got.Value != "From Selector" {
		t.Errorf("got %+v, want first strategy value", got)
	}
	if got.Strategy != "sel" {
		t.Errorf("Strategy: got %q, want %q", got.Strategy, "sel")
	}
}

func TestFirstSuccessSkipsEmptyValues(t *testing.T) {
	p := newFakePage()
	p.texts["h1"] = "   "
	p.body = "Rated 4.8 out of 5"
	v := NewPageView(p)

	got := firstSuccess(v, "fallback",
		bySelectors("sel", "h1"),
		byBodyRegex("re", regexp.MustCompile(`Rated (\d\.\d)`), 1),
	)
	if got.Value != "4.8" || got.Strategy != "re" {
		t.Errorf("got %+v, want regex tier to win over whitespace hit", got)
	}
}

func TestFirstSuccessDefault(t *testing.T) {
	v := NewPageView(newFakePage())
	got := firstSuccess(v, "the default", bySelectors("sel", ".missing"))
	if got.Found {
		t.Error("Found should be false when every strategy misses")
	}
	if got.Value != "the default" {
		t.Errorf("Value: got %q, want default", got.Value)
	}
	if got.Strategy != "default" {
		t.Errorf("Strategy: got %q, want %q", got.Strategy, "default")
	}
}

func TestKeywordProximity(t *testing.T) {
	p := newFakePage()
	p.html = `<html><body>
		<div>
			<div><span>Rating</span></div>
			<div><span>4.92 out of 5</span></div>
		</div>
	</body></html>`
	v := NewPageView(p)

	got := firstSuccess(v, "",
		byKeywordProximity("prox", "rating", regexp.MustCompile(`(\d\.\d{1,2})\s*out of 5`), 1),
	)
	if !got.Found || got.Value != "4.92" {
		t.Errorf("got %+v, want 4.92 from keyword proximity", got)
	}
}

func TestKeywordProximityBoundedAscent(t *testing.T) {
	// Keyword and value separated by more nesting levels than maxAscent
	// permits: the walk must give up rather than climb to the root.
	p := newFakePage()
	p.html = `<html><body>
		<div><div><div><div><div><div>
			<span>Rating</span>
		</div></div></div></div></div></div>
		<span>4.92 out of 5</span>
	</body></html>`
	v := NewPageView(p)

	got := firstSuccess(v, "",
		byKeywordProximity("prox", "rating", regexp.MustCompile(`(\d\.\d{1,2})\s*out of 5`), 1),
	)
	if got.Found {
		t.Errorf("got %+v, want miss beyond ascent bound", got)
	}
}

func TestByMeta(t *testing.T) {
	p := newFakePage()
	p.html = `<html><head><meta property="og:title" content="Sunny Loft - Lisbon, Portugal"></head><body></body></html>`
	v := NewPageView(p)

	got := firstSuccess(v, "", byMeta("og:title", "og:title"))
	if !got.Found || got.Value != "Sunny Loft - Lisbon, Portugal" {
		t.Errorf("got %+v, want meta content", got)
	}
}

func TestPageViewWithoutSnapshot(t *testing.T) {
	// Content() failing must only disable snapshot tiers.
	p := newFakePage()
	p.body = "Hosted by Marta"
	v := NewPageView(p)
	if v.Doc != nil {
		t.Fatal("Doc should be nil when Content fails")
	}

	got := firstSuccess(v, "",
		byMeta("meta", "og:title"),
		byKeywordProximity("prox", "host", regexp.MustCompile(`Hosted by (\w+)`), 1),
		byBodyRegex("re", regexp.MustCompile(`Hosted by (\w+)`), 1),
	)
	if !got.Found || got.Value != "Marta" {
		t.Errorf("got %+v, want body regex to still work", got)
	}
}

package extract

import (
	"regexp"
	"strings"

	"hostcraft/internal/core/browser"

	"github.com/PuerkitoBio/goquery"
)

// PageView bundles the live page with a parsed snapshot of its HTML.
// Selector strategies hit the live DOM; regex and proximity strategies
// run over the snapshot so they cannot be disturbed by late mutations.
type PageView struct {
	Page browser.Page
	Doc  *goquery.Document
	Body string
}

// NewPageView captures the page content once. A snapshot that fails to
// parse degrades the regex/proximity tiers, never the selector tiers.
func NewPageView(p browser.Page) *PageView {
	v := &PageView{Page: p, Body: p.BodyText()}
	if html, err := p.Content(); err == nil {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			v.Doc = doc
		}
	}
	return v
}

// FieldResult is the outcome of one field's cascade. Found is false when
// every strategy missed and Value carries the named default.
type FieldResult struct {
	Value    string
	Found    bool
	Strategy string
}

// Strategy is one independent attempt at producing a field value.
type Strategy struct {
	Name string
	Run  func(v *PageView) (string, bool)
}

// firstSuccess evaluates strategies in order and returns the first
// non-empty value; def is substituted when all of them miss. One broken
// selector only ever degrades one field.
func firstSuccess(v *PageView, def string, strategies ...Strategy) FieldResult {
	for _, st := range strategies {
		if val, ok := st.Run(v); ok {
			if val = strings.TrimSpace(val); val != "" {
				return FieldResult{Value: val, Found: true, Strategy: st.Name}
			}
		}
	}
	return FieldResult{Value: def, Found: false, Strategy: "default"}
}

// bySelectors queries the live DOM through the selector cascade.
func bySelectors(name string, selectors ...string) Strategy {
	return Strategy{
		Name: name,
		Run: func(v *PageView) (string, bool) {
			for _, sel := range selectors {
				if text, ok := v.Page.QueryText(sel); ok {
					return text, true
				}
			}
			return "", false
		},
	}
}

// byBodyRegex matches re against the body-text snapshot and returns the
// given capture group.
func byBodyRegex(name string, re *regexp.Regexp, group int) Strategy {
	return Strategy{
		Name: name,
		Run: func(v *PageView) (string, bool) {
			m := re.FindStringSubmatch(v.Body)
			if len(m) <= group {
				return "", false
			}
			return m[group], true
		},
	}
}

// maxAscent bounds the proximity tree walk so a malformed page can never
// send it climbing the whole document.
const maxAscent = 4

// byKeywordProximity locates the snapshot node containing keyword and
// searches up to maxAscent ancestors for text matching re.
func byKeywordProximity(name, keyword string, re *regexp.Regexp, group int) Strategy {
	lowered := strings.ToLower(keyword)
	return Strategy{
		Name: name,
		Run: func(v *PageView) (string, bool) {
			if v.Doc == nil {
				return "", false
			}
			var value string
			v.Doc.Find("span, div, p, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				own := strings.ToLower(strings.TrimSpace(sel.Text()))
				if own == "" || !strings.Contains(own, lowered) || len(own) > 120 {
					return true
				}
				node := sel
				for depth := 0; depth < maxAscent; depth++ {
					m := re.FindStringSubmatch(node.Text())
					if len(m) > group {
						value = m[group]
						return false
					}
					parent := node.Parent()
					if parent.Length() == 0 {
						break
					}
					node = parent
				}
				return true
			})
			return value, value != ""
		},
	}
}

// byMeta reads a meta tag (name or property attribute) from the snapshot.
func byMeta(name, metaName string) Strategy {
	return Strategy{
		Name: name,
		Run: func(v *PageView) (string, bool) {
			if v.Doc == nil {
				return "", false
			}
			sel := v.Doc.Find(`meta[property="` + metaName + `"], meta[name="` + metaName + `"]`).First()
			content, ok := sel.Attr("content")
			return strings.TrimSpace(content), ok && strings.TrimSpace(content) != ""
		},
	}
}

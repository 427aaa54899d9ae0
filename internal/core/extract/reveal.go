package extract

import (
	"fmt"
	"time"

	"hostcraft/internal/core/browser"
)

// RevealOutcome records which best-effort interactions landed. Nothing in
// here aborts the pipeline; reveal only ever adds content or leaves the
// page as it was.
type RevealOutcome struct {
	ScrollSteps      int
	ModalDismissed   bool
	ShowAllClicked   bool
	InModalContext   bool
	ItemsScrolled    int
	ReadMoreExpanded int
}

const (
	scrollSteps     = 6
	scrollStepPx    = 800
	scrollPause     = 350 * time.Millisecond
	clickTimeout    = 1200 * time.Millisecond
	maxItemScrolls  = 24
	maxReadMore     = 12
	postClickPause  = 600 * time.Millisecond
	modalScrollLoop = 5
)

var dismissSelectors = []string{
	`[role="dialog"] [aria-label="Close"]`,
	`[role="dialog"] button[aria-label="Dismiss"]`,
	`button:has-text("Accept all")`,
	`button:has-text("Got it")`,
	`button:has-text("OK")`,
}

// showAllSelectors maps a target section to the ordered affordance
// patterns that expand it. First click that lands wins.
var showAllSelectors = map[string][]string{
	"reviews": {
		`button:has-text("Show all") >> nth=0`,
		`a[href*="reviews"]:has-text("Show all")`,
		`button[aria-label*="reviews"]`,
		`div[data-section-id="REVIEWS_DEFAULT"] button`,
	},
	"amenities": {
		`button:has-text("Show all amenities")`,
		`div[data-section-id="AMENITIES_DEFAULT"] button`,
		`button[aria-label*="amenities"]`,
	},
	"description": {
		`button:has-text("Show more")`,
		`div[data-section-id="DESCRIPTION_DEFAULT"] button`,
	},
}

// reveal walks the fixed interaction sequence that forces lazily rendered
// content for targetSection into the DOM. Each step tolerates its target
// being absent and simply moves on.
func (s *Service) reveal(p browser.Page, targetSection string, itemSelectors []string) RevealOutcome {
	var out RevealOutcome

	// 1. Bounded incremental scrolling triggers viewport-based lazy loads.
	for i := 0; i < scrollSteps; i++ {
		p.ScrollBy(scrollStepPx)
		out.ScrollSteps++
		time.Sleep(scrollPause)
	}

	// 2. A translation or cookie dialog swallows clicks until dismissed.
	for _, sel := range dismissSelectors {
		if p.Click(sel, clickTimeout) {
			out.ModalDismissed = true
			time.Sleep(postClickPause)
			break
		}
	}

	// 3. Expand the target section.
	for _, sel := range showAllSelectors[targetSection] {
		if p.Click(sel, clickTimeout) {
			out.ShowAllClicked = true
			time.Sleep(postClickPause)
			break
		}
	}

	// 4. The expansion may have opened a modal whose inner container, not
	// the window, is the thing that scrolls.
	if out.ShowAllClicked && p.Count(`[role="dialog"]`) > 0 {
		out.InModalContext = true
		if container := s.findScrollableInModal(p); container != "" {
			for i := 0; i < modalScrollLoop; i++ {
				_, _ = p.Evaluate(fmt.Sprintf(
					`() => { const el = document.querySelector(%q); if (el) el.scrollBy(0, el.clientHeight); }`,
					container))
				time.Sleep(scrollPause)
			}
		}
	}

	// 5. Element-level scrolling forces per-item lazy rendering.
	for _, itemSel := range itemSelectors {
		n := p.Count(itemSel)
		if n == 0 {
			continue
		}
		if n > maxItemScrolls {
			n = maxItemScrolls
		}
		for i := 0; i < n; i++ {
			if p.ScrollIntoView(itemSel, i) {
				out.ItemsScrolled++
			}
		}
		break
	}

	// 6. Individual items often truncate behind a read-more toggle.
	readMoreSel := `button:has-text("Show more")`
	for i := 0; i < maxReadMore; i++ {
		if !p.Click(readMoreSel, clickTimeout) {
			break
		}
		out.ReadMoreExpanded++
	}

	s.log.LogDebugf("reveal(%s): scrolls=%d modal=%v showAll=%v items=%d readMore=%d",
		targetSection, out.ScrollSteps, out.ModalDismissed, out.ShowAllClicked,
		out.ItemsScrolled, out.ReadMoreExpanded)
	return out
}

// findScrollableInModal probes dialog descendants for one whose scroll
// position actually moves, which is the only reliable tell for the real
// scroll container.
func (s *Service) findScrollableInModal(p browser.Page) string {
	result, err := p.Evaluate(`() => {
		const dialog = document.querySelector('[role="dialog"]');
		if (!dialog) return '';
		const candidates = dialog.querySelectorAll('div');
		for (let i = 0; i < candidates.length && i < 40; i++) {
			const el = candidates[i];
			const before = el.scrollTop;
			el.scrollBy(0, 50);
			if (el.scrollTop !== before) {
				el.scrollTo(0, before);
				if (!el.id) el.id = 'hc-modal-scroll';
				return '#' + el.id;
			}
		}
		return '';
	}`)
	if err != nil {
		return ""
	}
	sel, _ := result.(string)
	return sel
}

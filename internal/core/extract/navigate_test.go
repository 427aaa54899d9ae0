package extract

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDetectBlock(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		current  string
		original string
		blocked  bool
	}{
		{
			name:     "clean page",
			body:     "Entire cabin in Tahoe City. 4.87 rating.",
			current:  "https://www.airbnb.com/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  false,
		},
		{
			name:     "login wall phrase",
			body:     "Log in or sign up to see this page",
			current:  "https://www.airbnb.com/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  true,
		},
		{
			name:     "captcha challenge",
			body:     "Please complete the CAPTCHA to continue",
			current:  "https://www.airbnb.com/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  true,
		},
		{
			name:     "cloudflare interstitial",
			body:     "Just a moment... Checking your browser before accessing",
			current:  "https://www.airbnb.com/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  true,
		},
		{
			name:     "redirect to another host",
			body:     "some content",
			current:  "https://blocked.example.net/denied",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  true,
		},
		{
			name:     "subdomain redirect is same site",
			body:     "Entire villa in Bali with plenty of rendered content",
			current:  "https://es.airbnb.com/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  false,
		},
		{
			name:     "login path redirect",
			body:     "plain page",
			current:  "https://www.airbnb.com/login?redirect=/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  true,
		},
		{
			name:     "phrase beyond inspection window",
			body:     strings.Repeat("fine content ", 200) + "access denied",
			current:  "https://www.airbnb.com/rooms/123",
			original: "https://www.airbnb.com/rooms/123",
			blocked:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blocked, reason := DetectBlock(tc.body, tc.current, tc.original)
			if blocked != tc.blocked {
				t.Errorf("blocked: got %v (reason %q), want %v", blocked, reason, tc.blocked)
			}
			if blocked && reason == "" {
				t.Error("a detected block must carry a reason")
			}
		})
	}
}

func TestNavigateGotoFailureThinContent(t *testing.T) {
	p := newFakePage()
	p.gotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	p.body = "short"

	svc := testService()
	_, err := svc.navigate(p, "https://www.airbnb.com/rooms/123")
	if !errors.Is(err, ErrNavigationFailed) {
		t.Fatalf("got %v, want ErrNavigationFailed", err)
	}
}

func TestNavigateGotoFailureWithContentIsPartial(t *testing.T) {
	p := newFakePage()
	p.gotoErr = errors.New("Timeout 60000ms exceeded")
	p.body = strings.Repeat("rendered listing content ", 30)
	p.url = "https://www.airbnb.com/rooms/123"

	svc := testService()
	out, err := svc.navigate(p, "https://www.airbnb.com/rooms/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Partial {
		t.Error("a timed-out load with enough content should be partial")
	}
}

func TestNavigateSettleTimeoutWithContent(t *testing.T) {
	p := newFakePage()
	p.settled = false
	p.body = strings.Repeat("rendered listing content ", 30)
	p.url = "https://www.airbnb.com/rooms/123"

	svc := testService()
	out, err := svc.navigate(p, "https://www.airbnb.com/rooms/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Partial {
		t.Error("an unsettled page with enough content should be partial")
	}
}

func TestNavigateSettleWindowWithinBudget(t *testing.T) {
	body := strings.Repeat("rendered listing content ", 30)
	url := "https://www.airbnb.com/rooms/123"

	// The settle wait fits inside what is left of the navigation budget.
	p := newFakePage()
	p.body = body
	p.url = url
	svc := testService()
	svc.navTimeout = 5 * time.Second
	if _, err := svc.navigate(p, url); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.settleWindow <= 0 || p.settleWindow > 5*time.Second {
		t.Errorf("settle window: got %v, want within the 5s budget", p.settleWindow)
	}

	// A large budget still caps the wait.
	p2 := newFakePage()
	p2.body = body
	p2.url = url
	if _, err := testService().navigate(p2, url); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p2.settleWindow != settleCap {
		t.Errorf("settle window: got %v, want the %v cap", p2.settleWindow, settleCap)
	}

	// An exhausted budget skips the wait entirely and falls back to the
	// rendered-content check.
	p3 := newFakePage()
	p3.body = body
	p3.url = url
	svc3 := testService()
	svc3.navTimeout = 0
	out, err := svc3.navigate(p3, url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p3.settleWindow != 0 {
		t.Errorf("settle wait must be skipped with no budget left, got %v", p3.settleWindow)
	}
	if !out.Partial {
		t.Error("a load with no settle budget should be partial")
	}
}

func TestNavigateBlockedPage(t *testing.T) {
	p := newFakePage()
	p.body = "Verify you are a human " + strings.Repeat("challenge ", 60)
	p.url = "https://www.airbnb.com/rooms/123"

	svc := testService()
	out, err := svc.navigate(p, "https://www.airbnb.com/rooms/123")
	if !errors.Is(err, ErrBlockDetected) {
		t.Fatalf("got %v, want ErrBlockDetected", err)
	}
	if !out.Blocked || out.Reason == "" {
		t.Errorf("outcome: got %+v, want blocked with reason", out)
	}
}

package markdown

import (
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	md := Convert(`<h2>The Space</h2><p>A cozy <strong>cabin</strong> by the lake.</p>`)
	if !strings.Contains(md, "The Space") {
		t.Errorf("heading lost: %q", md)
	}
	if !strings.Contains(md, "**cabin**") {
		t.Errorf("emphasis lost: %q", md)
	}
}

func TestConvertEmpty(t *testing.T) {
	if got := Convert("   "); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestClean(t *testing.T) {
	in := "line one\\\n\r\nline two\n\n\n\n\nline three"
	got := Clean(in)
	if strings.Contains(got, "\\\n") {
		t.Errorf("trailing backslashes survive: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("newline runs survive: %q", got)
	}
}

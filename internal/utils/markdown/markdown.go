package markdown

import (
	"regexp"
	"strings"

	html2markdown "github.com/JohannesKaufmann/html-to-markdown"
)

var (
	reExtraNewlines = regexp.MustCompile(`\n{3,}`)
	reTrailingBS    = regexp.MustCompile(`\\+\n`)
)

// Convert turns an HTML fragment into cleaned markdown suitable for
// prompt context. Conversion failures yield an empty string rather than
// an error; callers treat missing context as absent, not fatal.
func Convert(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	conv := html2markdown.NewConverter("", true, nil)
	md, err := conv.ConvertString(html)
	if err != nil {
		return ""
	}
	return Clean(md)
}

// Clean normalizes whitespace artifacts the converter leaves behind.
func Clean(md string) string {
	if md == "" {
		return ""
	}
	cleaned := strings.ReplaceAll(md, "\r\n", "\n")
	cleaned = reTrailingBS.ReplaceAllString(cleaned, "\n")
	cleaned = reExtraNewlines.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

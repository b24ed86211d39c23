package markup

import (
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"

	"dmeditor/internal/config"
)

// TextSanitizer reduces user supplied widget text (button labels, link
// titles) to escaped plain text, safe to place in element or attribute
// content.
//
// Thread-safe for concurrent use.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer creates a sanitizer that strips all markup.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips tags and escapes what remains.
func (s *TextSanitizer) Sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// PlainText is Sanitize with entities decoded again, for callers that escape
// on output (html/template).
func (s *TextSanitizer) PlainText(text string) string {
	return html.UnescapeString(s.Sanitize(text))
}

// PlainTextRenderer produces the plain-text alternative of a saved email body.
type PlainTextRenderer struct {
	converter *md.Converter
}

// NewPlainTextRenderer creates a renderer backed by html-to-markdown.
func NewPlainTextRenderer() *PlainTextRenderer {
	return &PlainTextRenderer{converter: md.NewConverter("", true, nil)}
}

// Render converts doc to markdown-flavored text. Tracking markers are removed
// first so links show their real destination.
func (r *PlainTextRenderer) Render(doc string) (string, error) {
	text, err := r.converter.ConvertString(strings.ReplaceAll(doc, config.LinkMarker, ""))
	if err != nil {
		return "", fmt.Errorf("render plain text: %w", err)
	}
	return text, nil
}

// Package markup holds the string-level HTML passes applied to editor content:
// sanitizers, the link rewriter and the paste cleaner, composed into named
// pipelines. Nothing here parses HTML into a tree; every pass is a regular
// expression over the serialized document.
package markup

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// <p></p>, <p> </p>, <p>&nbsp;</p> and the U+00A0 / &#160; spellings
	emptyParagraphPattern = regexp.MustCompile(`(?i)<p>\s*(?:&nbsp;|&#160;|\x{00A0})?\s*</p>`)

	// width=700, width="700", width='700'
	widthAttrPattern = regexp.MustCompile(`(?i)width\s*=\s*(?:"(\d+)"|'(\d+)'|(\d+))`)

	javascriptSchemePattern = regexp.MustCompile(`(?i)^javascript:`)
)

// StripEmptyParagraphs removes every empty paragraph in the document, not only
// the leading one. It repeats until nothing changes so nested empties collapse
// and a second application is a no-op.
func StripEmptyParagraphs(html string) string {
	for {
		next := emptyParagraphPattern.ReplaceAllString(html, "")
		if next == html {
			return next
		}
		html = next
	}
}

// ClampWidths rewrites numeric width attributes larger than max down to max,
// keeping the original quoting. Widths <= max, percentages and other
// non-numeric values are left byte-for-byte.
func ClampWidths(html string, max int) string {
	matches := widthAttrPattern.FindAllStringSubmatchIndex(html, -1)
	if len(matches) == 0 {
		return html
	}

	var b strings.Builder
	b.Grow(len(html))
	last := 0

	for _, m := range matches {
		var digits, quote string
		switch {
		case m[2] >= 0:
			digits, quote = html[m[2]:m[3]], `"`
		case m[4] >= 0:
			digits, quote = html[m[4]:m[5]], `'`
		default:
			digits = html[m[6]:m[7]]
			// width=50% or width=12.5 is not a pixel width
			if m[1] < len(html) && !endsUnquotedValue(html[m[1]]) {
				continue
			}
		}

		if !exceeds(digits, max) {
			continue
		}

		b.WriteString(html[last:m[0]])
		b.WriteString(html[m[0] : m[0]+len("width")]) // keep attribute case
		b.WriteString("=" + quote + strconv.Itoa(max) + quote)
		last = m[1]
	}

	b.WriteString(html[last:])
	return b.String()
}

// SanitizeURL trims the URL and blanks javascript: URLs. Anything else is
// returned as-is.
func SanitizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if javascriptSchemePattern.MatchString(trimmed) {
		return ""
	}
	return trimmed
}

func exceeds(digits string, max int) bool {
	v, err := strconv.Atoi(digits)
	if err != nil {
		// only overflow gets here, which is certainly wider than max
		return true
	}
	return v > max
}

func endsUnquotedValue(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '>', '/':
		return true
	}
	return false
}

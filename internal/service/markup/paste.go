package markup

import (
	"regexp"
	"strconv"

	"dmeditor/internal/config"
)

// attribute value: "..." | '...' | bare
const attrValue = `("[^"]*"|'[^']*'|[^\s>]+)`

var (
	officeParagraphPattern     = regexp.MustCompile(`(?i)</?o:p[^>]*>`)
	commentPattern             = regexp.MustCompile(`<!--[\s\S]*?-->`)
	conditionalFragmentPattern = regexp.MustCompile(`<!\[[\s\S]*?\]>`)
	styleBlockPattern          = regexp.MustCompile(`(?i)<style[\s\S]*?</style>`)
	classAttrPattern           = regexp.MustCompile(`(?i)\sclass\s*=\s*` + attrValue)
	styleAttrPattern           = regexp.MustCompile(`(?i)\sstyle\s*=\s*` + attrValue)
	altAttrPattern             = regexp.MustCompile(`(?i)\salt\s*=\s*` + attrValue)
	vmlAttrPattern             = regexp.MustCompile(`(?i)\sv:[a-z]+\s*=\s*` + attrValue)
	heightAttrPattern          = regexp.MustCompile(`(?i)\sheight\s*=\s*` + attrValue)
	legacyWidthPattern         = regexp.MustCompile(legacyWidthExpr(LegacyColumnWidth))
	boldOpenPattern            = regexp.MustCompile(`(?i)<b\s*>`)
	boldClosePattern           = regexp.MustCompile(`(?i)</b>`)
	spanTagPattern             = regexp.MustCompile(`(?i)</?span[^>]*>`)
)

// LegacyColumnWidth is the width of the previous email template column.
// Content pasted from old sends carries it on tables and images.
const LegacyColumnWidth = 468

// legacyWidthExpr matches width=w in any quoting
func legacyWidthExpr(w int) string {
	v := strconv.Itoa(w)
	return `(?i)width\s*=\s*(?:"\s*` + v + `\s*"|'\s*` + v + `\s*'|` + v + `\b)`
}

func remove(re *regexp.Regexp) func(string) string {
	return func(s string) string { return re.ReplaceAllString(s, "") }
}

func replace(re *regexp.Regexp, with string) func(string) string {
	return func(s string) string { return re.ReplaceAllLiteralString(s, with) }
}

// PasteSteps returns the ordered cleanup applied to pasted HTML.
//
// Comments go before attribute stripping so no attribute text is left
// dangling inside a half-removed comment. The legacy width rewrite runs
// after attribute stripping because it matches the literal attribute syntax.
func PasteSteps(columnWidth int) []Step {
	return []Step{
		{Name: "strip-office-paragraphs", Apply: remove(officeParagraphPattern)},
		{Name: "strip-comments", Apply: remove(commentPattern)},
		{Name: "strip-conditional-fragments", Apply: remove(conditionalFragmentPattern)},
		{Name: "strip-style-blocks", Apply: remove(styleBlockPattern)},
		{Name: "strip-class", Apply: remove(classAttrPattern)},
		{Name: "strip-style-attr", Apply: remove(styleAttrPattern)},
		{Name: "strip-alt", Apply: remove(altAttrPattern)},
		{Name: "strip-vml-attrs", Apply: remove(vmlAttrPattern)},
		{Name: "strip-height", Apply: remove(heightAttrPattern)},
		{Name: "normalize-legacy-width", Apply: replace(legacyWidthPattern, `width="`+strconv.Itoa(columnWidth)+`"`)},
		{Name: "bold-to-strong", Apply: func(s string) string {
			return boldClosePattern.ReplaceAllLiteralString(boldOpenPattern.ReplaceAllLiteralString(s, "<strong>"), "</strong>")
		}},
		{Name: "strip-spans", Apply: remove(spanTagPattern)},
		{Name: StepStripEmptyParagraphs, Apply: StripEmptyParagraphs},
		{Name: StepClampWidths, Apply: func(s string) string { return ClampWidths(s, columnWidth) }},
	}
}

// CleanPaste runs the paste cleanup with the standard email column.
func CleanPaste(html string) string {
	return NewPipeline(PipelinePaste, PasteSteps(config.ColumnWidth)...).Run(html)
}

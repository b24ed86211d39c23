package markup

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"dmeditor/internal/config"
)

var (
	anchorTagPattern = regexp.MustCompile(`(?i)<a\s[^>]*>`)
	hrefAttrPattern  = regexp.MustCompile(`(?i)(\shref\s*=\s*)(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)

	// hrefs the tracker must never wrap
	untrackedHrefPattern = regexp.MustCompile(`(?i)^(about:|blob:|mailto:|tel:|javascript:|#)`)
	httpSchemePattern    = regexp.MustCompile(`(?i)^https?://`)

	attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")
)

// RewriteLinks prefixes every outbound anchor href with the tracking marker
// after normalizing it to an absolute https URL. It runs on the final save
// only: the marker must never show up in the live editor.
//
// Already-marked hrefs are skipped, so the pass is idempotent.
func RewriteLinks(doc string) string {
	return anchorTagPattern.ReplaceAllStringFunc(doc, rewriteAnchorTag)
}

func rewriteAnchorTag(tag string) string {
	m := hrefAttrPattern.FindStringSubmatchIndex(tag)
	if m == nil {
		return tag
	}

	var raw string
	switch {
	case m[4] >= 0:
		raw = tag[m[4]:m[5]]
	case m[6] >= 0:
		raw = tag[m[6]:m[7]]
	default:
		raw = tag[m[8]:m[9]]
	}

	rewritten, ok := TrackedHref(html.UnescapeString(raw))
	if !ok {
		return tag
	}

	return tag[:m[0]] + tag[m[2]:m[3]] + `"` + attrEscaper.Replace(rewritten) + `"` + tag[m[1]:]
}

// TrackedHref returns the marker-prefixed form of href, or false when the
// href must stay as it is (empty, already marked, non-web scheme, fragment,
// or not parseable as an absolute URL).
func TrackedHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, config.LinkMarker) || untrackedHrefPattern.MatchString(href) {
		return "", false
	}

	working := href
	switch {
	case strings.HasPrefix(working, "//"):
		working = "https:" + working
	case !httpSchemePattern.MatchString(working):
		// bare domains (example.com) and scheme-less paths
		working = "https://" + working
	}

	u, err := url.Parse(working)
	if err != nil || u.Host == "" {
		return "", false
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}

	return config.LinkMarker + u.String(), true
}

// UntrackHref strips the tracking marker, for showing a saved link back to
// the user.
func UntrackHref(href string) string {
	return strings.TrimPrefix(href, config.LinkMarker)
}

package session

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"dmeditor/internal/config"
	"dmeditor/internal/domain/models"
)

// LengthGuard keeps serialized HTML under the Long Text field size.
// Counts are in characters (runes), not bytes.
type LengthGuard struct {
	Cap          int
	WarningRatio float64
}

// NewLengthGuard returns the guard with the production limits
func NewLengthGuard() LengthGuard {
	return LengthGuard{Cap: config.MaxHTMLChars, WarningRatio: config.WarningRatio}
}

// Status evaluates count. While busy (paste or upload in flight) the band is
// processing and nothing is enforced.
func (g LengthGuard) Status(count int, busy bool) models.LengthStatus {
	st := models.LengthStatus{Count: count, Cap: g.Cap}

	switch {
	case busy:
		st.Band = models.BandProcessing
		st.Text = fmt.Sprintf("Email Size: %d (processing images…)", count)
	case count >= g.Cap:
		st.Band = models.BandAtCap
		st.Text = fmt.Sprintf("Email Size: %d - MAX REACHED", g.Cap)
	case count >= g.warningAt():
		st.Band = models.BandWarning
		st.Text = fmt.Sprintf("Email Size: %d - Approaching Salesforce limit", count)
	default:
		st.Band = models.BandNormal
		st.Text = fmt.Sprintf("Email Size: %d", count)
	}
	return st
}

func (g LengthGuard) warningAt() int {
	return int(math.Round(float64(g.Cap) * g.WarningRatio))
}

// Enforce evaluates html and, when it is over the cap and nothing is in
// flight, cuts it to exactly Cap characters. The cut is not tag aware.
func (g LengthGuard) Enforce(html string, busy bool) (string, models.LengthStatus) {
	count := utf8.RuneCountInString(html)
	st := g.Status(count, busy)
	if busy || count <= g.Cap {
		return html, st
	}

	st.Truncated = true
	return truncateRunes(html, g.Cap), st
}

// AlertText is shown to the user after a truncation
func AlertText() string {
	return "Your content exceeds the Salesforce Long Text limit (" +
		groupThousands(config.LongTextFieldLimit) + " characters).\n\n" +
		"Extra content has been removed."
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// groupThousands formats 131072 as "131,072"
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	out := s[:head]
	for i := head; i < len(s); i += 3 {
		out += "," + s[i:i+3]
	}
	return out
}

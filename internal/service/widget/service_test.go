package widget

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	r, err := NewRegistry("")
	require.NoError(t, err)
	return NewService(r, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFooter(t *testing.T) {
	s := newTestService(t)

	lox, _ := s.registry.Footer("Lox")
	out := s.Footer("Lox")
	assert.True(t, strings.HasPrefix(out, `<p></p><div class="bbyo-footer-wrapper mceNonEditable" contenteditable="false" data-color="Lox">`))
	assert.Contains(t, out, `src="`+lox.Logo+`"`)
	assert.Contains(t, out, `src="`+lox.LinkedIn+`"`)
	assert.True(t, strings.HasSuffix(out, "</div>"))
	assert.NotContains(t, out, "{{")
}

func TestFooter_UnknownThemeFallsBack(t *testing.T) {
	s := newTestService(t)

	centennial, _ := s.registry.Footer("Centennial")
	out := s.Footer("Neon")

	assert.Contains(t, out, `data-color="Centennial"`)
	assert.Contains(t, out, centennial.Logo)
}

func TestCTA(t *testing.T) {
	s := newTestService(t)

	out, err := s.CTA(&models.CTAConfig{
		ButtonText:  "Register <b>Now</b>",
		Link:        "  https://bbyo.org/apply?a=1&b=2 ",
		LinkTitle:   "Apply",
		LinkAlias:   "apply-cta",
		ColorScheme: "lox",
		Alignment:   "right",
	})
	require.NoError(t, err)

	assert.Contains(t, out, `class="bbyo-cta-wrapper mceNonEditable" contenteditable="false" data-align="right"`)
	assert.Contains(t, out, `<td align="right">`)
	assert.Contains(t, out, `data-color-scheme="lox"`)
	assert.Contains(t, out, `bgcolor="#E42158"`)
	assert.Contains(t, out, `color:#FBDBE4`)
	assert.Contains(t, out, `href="https://bbyo.org/apply?a=1&amp;b=2"`)
	assert.Contains(t, out, `title="Apply" alias="apply-cta" conversion="true">Register Now</a>`)
}

func TestCTA_Defaults(t *testing.T) {
	s := newTestService(t)

	out, err := s.CTA(&models.CTAConfig{ButtonText: "Go", Link: "javascript:alert(1)", ColorScheme: "neon"})
	require.NoError(t, err)

	assert.Contains(t, out, `data-align="center"`)
	assert.Contains(t, out, `data-color-scheme="centennial"`)
	assert.Contains(t, out, `href=""`)
	assert.NotContains(t, out, "javascript")
}

func TestCTA_Validation(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name string
		cfg  *models.CTAConfig
	}{
		{name: "nil", cfg: nil},
		{name: "no text", cfg: &models.CTAConfig{}},
		{name: "markup only", cfg: &models.CTAConfig{ButtonText: "<img src=x>"}},
		{name: "bad alignment", cfg: &models.CTAConfig{ButtonText: "Go", Alignment: "justify"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CTA(tt.cfg)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestDivider(t *testing.T) {
	s := newTestService(t)

	out, err := s.Divider(nil)
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="bbyo-hr-wrapper mceNonEditable" contenteditable="false" data-widget="hr"><hr class="bbyo-hr-line" style="width:100%;height:2px;background-color:#000000;border:0;margin:16px auto;"></div>`,
		out)

	out, err = s.Divider(&models.DividerConfig{Width: 40, Height: "6", Color: "#E42158"})
	require.NoError(t, err)
	assert.Contains(t, out, `width:40%;height:6px;background-color:#E42158;`)

	for _, bad := range []models.DividerConfig{
		{Width: 5},
		{Width: 101},
		{Height: "2em"},
		{Color: "red;position:absolute"},
	} {
		_, err := s.Divider(&bad)
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", bad)
	}
}

func TestInsertHeader(t *testing.T) {
	s := newTestService(t)

	doc := s.InsertHeader("<p>Body</p>")
	assert.True(t, strings.HasPrefix(doc, `<img class="bbyo-header-image" src="https://www.bbyosummer.org/sfmc/dm-email-editor/bbyo-default-header.png" width="600"`))
	assert.True(t, strings.HasSuffix(doc, "<p></p><p>Body</p>"))

	assert.Equal(t, doc, s.InsertHeader(doc))
}

func TestAppendFooter(t *testing.T) {
	s := newTestService(t)

	doc := s.AppendFooter("<p>Body</p>", "")
	assert.True(t, strings.HasPrefix(doc, "<p>Body</p><p></p>"))
	assert.Contains(t, doc, `data-color="Centennial"`)

	assert.Equal(t, doc, s.AppendFooter(doc, "Lox"))
}

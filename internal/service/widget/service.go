// Package widget renders the branded blocks the editor inserts (footer, CTA
// button, divider, header image) and reads them back out of saved HTML.
package widget

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/service/markup"
)

const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"

	DefaultDividerWidth  = 100
	DefaultDividerHeight = "2"
	DefaultDividerColor  = "#000000"
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	pixelPattern    = regexp.MustCompile(`^\d{1,3}$`)

	headerPresentPattern = regexp.MustCompile(`(?i)class\s*=\s*["'][^"']*\bbbyo-header-image\b`)
	footerPresentPattern = regexp.MustCompile(`(?i)class\s*=\s*["'][^"']*\bbbyo-footer-wrapper\b`)
)

var _ services.WidgetService = (*Service)(nil)

// Service implements services.WidgetService
type Service struct {
	registry *Registry
	text     *markup.TextSanitizer
	logger   *slog.Logger
}

// NewService creates a widget service over a loaded registry
func NewService(registry *Registry, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		text:     markup.NewTextSanitizer(),
		logger:   logger,
	}
}

type ctaView struct {
	Align     string
	Scheme    string
	TextColor string
	BgColor   string
	Link      string
	Title     string
	Alias     string
	Text      string
}

type dividerView struct {
	Width  int
	Height string
	Color  string
}

// Catalog returns the theme tables for the editor dialogs
func (s *Service) Catalog() *models.ThemeCatalog {
	return s.registry.Catalog()
}

// Footer renders the footer for theme. Unknown themes use the default theme
// and the wrapper records the theme actually rendered.
func (s *Service) Footer(theme string) string {
	t, ok := s.registry.Footer(theme)
	if !ok {
		s.logger.Debug("unknown footer theme, using default", "theme", theme, "default", t.Name)
	}

	out, err := render(footerTemplate, t)
	if err != nil {
		s.logger.Error("failed to render footer", "theme", t.Name, "error", err)
		return ""
	}
	return out
}

// CTA renders a call-to-action button. Text fields are reduced to plain
// text, javascript: links are blanked, and unknown color schemes fall back
// to the default scheme.
func (s *Service) CTA(cfg *models.CTAConfig) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("%w: missing CTA configuration", domain.ErrValidation)
	}

	c := *cfg
	if c.Alignment == "" {
		c.Alignment = AlignCenter
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.ButtonText, validation.Required, validation.Length(1, 200)),
		validation.Field(&c.Link, validation.Length(0, 2048)),
		validation.Field(&c.LinkTitle, validation.Length(0, 200)),
		validation.Field(&c.LinkAlias, validation.Length(0, 200)),
		validation.Field(&c.Alignment, validation.In(AlignLeft, AlignCenter, AlignRight)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	text := s.text.PlainText(c.ButtonText)
	if text == "" {
		return "", fmt.Errorf("%w: button_text: cannot be blank", domain.ErrValidation)
	}

	scheme, _ := s.registry.Scheme(c.ColorScheme)

	return render(ctaTemplate, ctaView{
		Align:     c.Alignment,
		Scheme:    scheme.Key,
		TextColor: scheme.TextColor,
		BgColor:   scheme.BgColor,
		Link:      markup.SanitizeURL(c.Link),
		Title:     s.text.PlainText(c.LinkTitle),
		Alias:     s.text.PlainText(c.LinkAlias),
		Text:      text,
	})
}

// Divider renders a horizontal rule. Zero values take the defaults
// (100%, 2px, black).
func (s *Service) Divider(cfg *models.DividerConfig) (string, error) {
	c := models.DividerConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.Width == 0 {
		c.Width = DefaultDividerWidth
	}
	if c.Height == "" {
		c.Height = DefaultDividerHeight
	}
	if c.Color == "" {
		c.Color = DefaultDividerColor
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.Width, validation.Min(10), validation.Max(100)),
		validation.Field(&c.Height, validation.Match(pixelPattern)),
		validation.Field(&c.Color, validation.Match(hexColorPattern)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return render(dividerTemplate, dividerView(c))
}

// Header renders the default header image followed by a spacer paragraph
func (s *Service) Header() string {
	out, err := render(headerTemplate, s.registry.HeaderImage())
	if err != nil {
		s.logger.Error("failed to render header", "error", err)
		return ""
	}
	return out
}

// InsertHeader prepends the header unless doc already has one
func (s *Service) InsertHeader(doc string) string {
	if headerPresentPattern.MatchString(doc) {
		return doc
	}
	return s.Header() + doc
}

// AppendFooter appends a footer unless doc already has one.
// An empty theme means the default theme.
func (s *Service) AppendFooter(doc, theme string) string {
	if footerPresentPattern.MatchString(doc) {
		return doc
	}
	if strings.TrimSpace(theme) == "" {
		theme = s.registry.DefaultFooter()
	}
	return doc + s.Footer(theme)
}

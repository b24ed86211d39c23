package services

import "dmeditor/internal/domain/models"

// WidgetService renders the branded, non-editable blocks the editor inserts
type WidgetService interface {
	// Catalog returns the loaded footer themes, CTA schemes and colors
	Catalog() *models.ThemeCatalog

	// Footer renders the footer for theme, falling back to the default theme
	Footer(theme string) string

	// CTA renders a call-to-action button
	CTA(cfg *models.CTAConfig) (string, error)

	// Divider renders a horizontal rule
	Divider(cfg *models.DividerConfig) (string, error)

	// Header renders the header image
	Header() string

	// InsertHeader prepends the header unless doc already has one
	InsertHeader(doc string) string

	// AppendFooter appends a footer unless doc already has one
	AppendFooter(doc, theme string) string

	// Inspect reads the widgets back out of a document
	Inspect(doc string) (*models.WidgetInventory, error)
}

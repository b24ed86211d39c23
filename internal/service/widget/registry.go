package widget

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"dmeditor/internal/domain/models"
)

//go:embed config/themes.yaml
var configFiles embed.FS

// Registry holds the footer themes, CTA schemes and picker colors.
// It is read-only after loading.
type Registry struct {
	headerImage   string
	defaultFooter string
	defaultScheme string

	footers      []models.FooterTheme
	footerByName map[string]int
	schemes      []models.CtaScheme
	schemeByKey  map[string]int
	colors       []models.ColorOption
}

// NewRegistry loads the embedded themes.yaml, or overridePath when set
func NewRegistry(overridePath string) (*Registry, error) {
	var (
		data []byte
		err  error
	)
	if overridePath != "" {
		data, err = os.ReadFile(overridePath)
	} else {
		data, err = configFiles.ReadFile("config/themes.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read themes: %w", err)
	}

	return parseRegistry(data)
}

func parseRegistry(data []byte) (*Registry, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal themes: %w", err)
	}

	r := &Registry{
		headerImage:   file.HeaderImage,
		defaultFooter: file.DefaultFooter,
		defaultScheme: file.DefaultCtaScheme,
		footers:       file.Footers,
		footerByName:  make(map[string]int, len(file.Footers)),
		schemes:       file.CtaSchemes,
		schemeByKey:   make(map[string]int, len(file.CtaSchemes)),
	}
	for i, f := range r.footers {
		r.footerByName[f.Name] = i
	}
	for i, s := range r.schemes {
		r.schemeByKey[s.Key] = i
	}
	for _, c := range file.Colors {
		r.colors = append(r.colors, models.ColorOption{
			Text:  c.Text,
			Value: "#" + strings.ToUpper(strings.TrimPrefix(c.Value, "#")),
		})
	}

	if _, ok := r.footerByName[r.defaultFooter]; !ok {
		return nil, fmt.Errorf("default footer %q is not defined", r.defaultFooter)
	}
	if _, ok := r.schemeByKey[r.defaultScheme]; !ok {
		return nil, fmt.Errorf("default CTA scheme %q is not defined", r.defaultScheme)
	}
	if r.headerImage == "" {
		return nil, fmt.Errorf("header_image is required")
	}

	return r, nil
}

// Footer returns the named theme, or the default theme and false
func (r *Registry) Footer(name string) (models.FooterTheme, bool) {
	if i, ok := r.footerByName[name]; ok {
		return r.footers[i], true
	}
	return r.footers[r.footerByName[r.defaultFooter]], false
}

// Scheme returns the CTA scheme for key, or the default scheme and false
func (r *Registry) Scheme(key string) (models.CtaScheme, bool) {
	if i, ok := r.schemeByKey[key]; ok {
		return r.schemes[i], true
	}
	return r.schemes[r.schemeByKey[r.defaultScheme]], false
}

// DefaultFooter is the theme used by AppendFooter when none is given
func (r *Registry) DefaultFooter() string { return r.defaultFooter }

// DefaultScheme is the CTA scheme used for unknown keys
func (r *Registry) DefaultScheme() string { return r.defaultScheme }

// HeaderImage is the default header image URL
func (r *Registry) HeaderImage() string { return r.headerImage }

// Catalog returns copies of the ordered tables
func (r *Registry) Catalog() *models.ThemeCatalog {
	return &models.ThemeCatalog{
		Footers:    append([]models.FooterTheme(nil), r.footers...),
		CtaSchemes: append([]models.CtaScheme(nil), r.schemes...),
		Colors:     append([]models.ColorOption(nil), r.colors...),
	}
}

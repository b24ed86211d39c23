package widget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmeditor/internal/domain/models"
)

func TestNewRegistry_Embedded(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	catalog := r.Catalog()

	names := make([]string, 0, len(catalog.Footers))
	for _, f := range catalog.Footers {
		names = append(names, f.Name)
		assert.NotEmpty(t, f.Logo, f.Name)
		assert.NotEmpty(t, f.Snapchat, f.Name)
	}
	assert.Equal(t, []string{"Black", "Centennial", "Jaffa", "Lox", "Pistachio", "Seltzer", "Sunrise"}, names)

	keys := make([]string, 0, len(catalog.CtaSchemes))
	for _, s := range catalog.CtaSchemes {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"centennial", "lox", "jaffa", "sunrise", "pistachio", "seltzer", "black"}, keys)

	require.Len(t, catalog.Colors, 22)
	assert.Equal(t, models.ColorOption{Text: "Black", Value: "#000000"}, catalog.Colors[0])
	assert.Equal(t, models.ColorOption{Text: "White", Value: "#FFFFFF"}, catalog.Colors[21])

	assert.Equal(t, "Centennial", r.DefaultFooter())
	assert.Equal(t, "centennial", r.DefaultScheme())
}

func TestRegistry_Fallbacks(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	theme, ok := r.Footer("Lox")
	assert.True(t, ok)
	assert.Equal(t, "Lox", theme.Name)

	theme, ok = r.Footer("Neon")
	assert.False(t, ok)
	assert.Equal(t, "Centennial", theme.Name)

	scheme, ok := r.Scheme("black")
	assert.True(t, ok)
	assert.Equal(t, "#000000", scheme.BgColor)

	scheme, ok = r.Scheme("")
	assert.False(t, ok)
	assert.Equal(t, "centennial", scheme.Key)
	assert.Equal(t, "#1A03B5", scheme.BgColor)
}

func TestRegistry_CatalogIsACopy(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	c := r.Catalog()
	c.Footers[0].Name = "changed"

	assert.Equal(t, "Black", r.Catalog().Footers[0].Name)
}

func TestNewRegistry_Override(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "themes.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
header_image: https://example.com/header.png
default_footer: Only
default_cta_scheme: plain
footers:
  Only:
    logo: https://example.com/logo.png
cta_schemes:
  plain:
    label: Plain
    text_color: "#FFFFFF"
    bg_color: "#333333"
colors:
  - value: "abcdef"
    text: Custom
`), 0644))

	r, err := NewRegistry(good)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/header.png", r.HeaderImage())
	assert.Equal(t, "#ABCDEF", r.Catalog().Colors[0].Value)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
header_image: https://example.com/header.png
default_footer: Missing
default_cta_scheme: plain
cta_schemes:
  plain:
    label: Plain
`), 0644))

	_, err = NewRegistry(bad)
	assert.ErrorContains(t, err, "default footer")

	_, err = NewRegistry(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

package widget

import (
	"gopkg.in/yaml.v3"

	"dmeditor/internal/domain/models"
)

// themeFile is the decoded form of themes.yaml
type themeFile struct {
	HeaderImage      string `yaml:"header_image"`
	DefaultFooter    string `yaml:"default_footer"`
	DefaultCtaScheme string `yaml:"default_cta_scheme"`

	Footers    []models.FooterTheme `yaml:"-"` // ordered, populated by UnmarshalYAML
	CtaSchemes []models.CtaScheme   `yaml:"-"` // ordered, populated by UnmarshalYAML
	Colors     []models.ColorOption `yaml:"colors"`
}

// UnmarshalYAML decodes footers and cta_schemes from maps but keeps the key
// order of the file, which is the order the editor shows them in.
func (f *themeFile) UnmarshalYAML(node *yaml.Node) error {
	type plain struct {
		HeaderImage      string                        `yaml:"header_image"`
		DefaultFooter    string                        `yaml:"default_footer"`
		DefaultCtaScheme string                        `yaml:"default_cta_scheme"`
		Footers          map[string]models.FooterTheme `yaml:"footers"`
		CtaSchemes       map[string]models.CtaScheme   `yaml:"cta_schemes"`
		Colors           []models.ColorOption          `yaml:"colors"`
	}
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	f.HeaderImage = p.HeaderImage
	f.DefaultFooter = p.DefaultFooter
	f.DefaultCtaScheme = p.DefaultCtaScheme
	f.Colors = p.Colors

	for _, name := range mappingKeys(node, "footers") {
		theme := p.Footers[name]
		theme.Name = name
		f.Footers = append(f.Footers, theme)
	}
	for _, key := range mappingKeys(node, "cta_schemes") {
		scheme := p.CtaSchemes[key]
		scheme.Key = key
		f.CtaSchemes = append(f.CtaSchemes, scheme)
	}

	return nil
}

// mappingKeys returns the keys of node[field] in document order
func mappingKeys(node *yaml.Node, field string) []string {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != field {
			continue
		}
		values := node.Content[i+1]
		// values.Content alternates: key, value, key, value...
		keys := make([]string, 0, len(values.Content)/2)
		for j := 0; j+1 < len(values.Content); j += 2 {
			keys = append(keys, values.Content[j].Value)
		}
		return keys
	}
	return nil
}

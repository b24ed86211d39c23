package models

// FooterTheme maps a footer color theme to its image set
type FooterTheme struct {
	Name      string `yaml:"-" json:"name"` // map key in themes.yaml
	Logo      string `yaml:"logo" json:"logo"`
	Facebook  string `yaml:"fb" json:"fb"`
	Instagram string `yaml:"ig" json:"ig"`
	X         string `yaml:"x" json:"x"`
	YouTube   string `yaml:"yt" json:"yt"`
	TikTok    string `yaml:"tt" json:"tt"`
	LinkedIn  string `yaml:"li" json:"li"`
	Snapchat  string `yaml:"sc" json:"sc"`
}

// CtaScheme is a CTA button color pair
type CtaScheme struct {
	Key       string `yaml:"-" json:"key"` // map key in themes.yaml
	Label     string `yaml:"label" json:"label"`
	TextColor string `yaml:"text_color" json:"text_color"`
	BgColor   string `yaml:"bg_color" json:"bg_color"`
}

// ColorOption is one entry of the editor color picker
type ColorOption struct {
	Text  string `yaml:"text" json:"text"`
	Value string `yaml:"value" json:"value"` // "#RRGGBB"
}

// CTAConfig is the round-tripped configuration of a CTA button widget
type CTAConfig struct {
	ButtonText  string `json:"button_text"`
	Link        string `json:"link"`
	LinkTitle   string `json:"link_title"`
	LinkAlias   string `json:"link_alias"`
	ColorScheme string `json:"color_scheme"`
	Alignment   string `json:"alignment"`
}

// DividerConfig is the round-tripped configuration of an HR widget
type DividerConfig struct {
	Width  int    `json:"width"`  // percent, 10..100
	Height string `json:"height"` // px
	Color  string `json:"color"`
}

// WidgetInventory lists the widgets found in a document
type WidgetInventory struct {
	FooterTheme string          `json:"footer_theme,omitempty"`
	HasFooter   bool            `json:"has_footer"`
	HasHeader   bool            `json:"has_header"`
	CTAs        []CTAConfig     `json:"ctas"`
	Dividers    []DividerConfig `json:"dividers"`
}

// ThemeCatalog is what the editor needs to build its widget dialogs
type ThemeCatalog struct {
	Footers    []FooterTheme `json:"footers"`
	CtaSchemes []CtaScheme   `json:"cta_schemes"`
	Colors     []ColorOption `json:"colors"`
}

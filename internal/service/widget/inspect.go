package widget

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dmeditor/internal/domain/models"
	"dmeditor/internal/service/markup"
)

// leading number of a CSS length ("50%", "2px", "12.5")
var leadingNumberPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// Inspect parses doc and returns the configuration of every widget in it,
// in the shape the widget dialogs are opened with. CTA links come back
// without the tracking marker.
func (s *Service) Inspect(doc string) (*models.WidgetInventory, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	inv := &models.WidgetInventory{
		CTAs:     []models.CTAConfig{},
		Dividers: []models.DividerConfig{},
	}

	if footer := d.Find(".bbyo-footer-wrapper").First(); footer.Length() > 0 {
		inv.HasFooter = true
		inv.FooterTheme = footer.AttrOr("data-color", "")
	}
	inv.HasHeader = d.Find("img.bbyo-header-image").Length() > 0

	d.Find(".bbyo-cta-wrapper").Each(func(_ int, wrapper *goquery.Selection) {
		anchor := wrapper.Find("a.bbyo-cta").First()
		if anchor.Length() == 0 {
			return
		}
		inv.CTAs = append(inv.CTAs, models.CTAConfig{
			ButtonText:  strings.TrimSpace(anchor.Text()),
			Link:        markup.UntrackHref(anchor.AttrOr("href", "")),
			LinkTitle:   anchor.AttrOr("title", ""),
			LinkAlias:   anchor.AttrOr("alias", ""),
			ColorScheme: nonEmptyAttr(anchor, "data-color-scheme", s.registry.DefaultScheme()),
			Alignment:   nonEmptyAttr(wrapper, "data-align", AlignCenter),
		})
	})

	d.Find(".bbyo-hr-wrapper").Each(func(_ int, wrapper *goquery.Selection) {
		inv.Dividers = append(inv.Dividers, dividerFromStyle(wrapper.Find("hr").First().AttrOr("style", "")))
	})

	return inv, nil
}

// dividerFromStyle reads width/height/background-color back from the hr
// inline style, using the defaults for anything missing or unparseable.
func dividerFromStyle(style string) models.DividerConfig {
	cfg := models.DividerConfig{
		Width:  DefaultDividerWidth,
		Height: DefaultDividerHeight,
		Color:  DefaultDividerColor,
	}

	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(prop)) {
		case "width":
			if n, ok := leadingNumber(value); ok {
				cfg.Width = int(math.Round(n))
			}
		case "height":
			if n, ok := leadingNumber(value); ok {
				cfg.Height = strconv.FormatFloat(n, 'f', -1, 64)
			}
		case "background-color":
			if value != "" {
				cfg.Color = value
			}
		}
	}
	return cfg
}

func leadingNumber(s string) (float64, bool) {
	m := leadingNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	return n, err == nil
}

func nonEmptyAttr(sel *goquery.Selection, name, fallback string) string {
	if v := strings.TrimSpace(sel.AttrOr(name, "")); v != "" {
		return v
	}
	return fallback
}

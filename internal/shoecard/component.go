package shoecard

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const spacerSize = "12px"

// Card renders view as an HTML fragment styled with theme.
func Card(view CardView, theme Theme) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeCard(&b, view, theme)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeCard(b *strings.Builder, view CardView, theme Theme) {
	b.WriteString(`<a class="shoe-card" href="`)
	b.WriteString(templ.EscapeString(string(templ.URL(view.Href))))
	b.WriteString(`" data-variant="`)
	b.WriteString(view.Variant.String())
	b.WriteString(`" style="`)
	b.WriteString(linkStyle)
	b.WriteString(`">`)

	if view.Badge != nil {
		b.WriteString(`<div class="shoe-card__badge" data-badge="`)
		b.WriteString(view.Variant.String())
		b.WriteString(`" style="`)
		b.WriteString(templ.EscapeString(badgeStyle(theme, view.Badge.Tone)))
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(view.Badge.Text))
		b.WriteString(`</div>`)
	}

	b.WriteString(`<article class="shoe-card__body" style="display: flex; flex-direction: column;">`)
	b.WriteString(`<div class="shoe-card__image" style="position: relative;">`)
	b.WriteString(`<img alt="`)
	b.WriteString(templ.EscapeString(view.ImageAlt))
	b.WriteString(`" src="`)
	b.WriteString(templ.EscapeString(string(templ.URL(view.ImageSrc))))
	b.WriteString(`" style="width: 100%;"></div>`)
	b.WriteString(`<span class="shoe-card__spacer" style="display: block; width: ` + spacerSize + `; height: ` + spacerSize + `;"></span>`)

	b.WriteString(`<div class="shoe-card__row" style="` + rowStyle + `">`)
	b.WriteString(`<h3 class="shoe-card__name" style="`)
	b.WriteString(templ.EscapeString(textStyle(theme, ColorGray900, WeightMedium)))
	b.WriteString(`">`)
	b.WriteString(templ.EscapeString(view.Name))
	b.WriteString(`</h3>`)
	if view.PriceStruck {
		b.WriteString(`<span class="shoe-card__price shoe-card__price--struck" style="text-decoration: line-through;">`)
	} else {
		b.WriteString(`<span class="shoe-card__price">`)
	}
	b.WriteString(templ.EscapeString(view.Price))
	b.WriteString(`</span></div>`)

	b.WriteString(`<div class="shoe-card__row" style="` + rowStyle + `">`)
	b.WriteString(`<p class="shoe-card__colors" style="color: `)
	b.WriteString(templ.EscapeString(theme.Color(ColorGray700)))
	b.WriteString(`;">`)
	b.WriteString(templ.EscapeString(view.ColorLabel))
	b.WriteString(`</p>`)
	if view.SalePrice != "" {
		b.WriteString(`<span class="shoe-card__sale-price" style="`)
		b.WriteString(templ.EscapeString(textStyle(theme, ColorPrimary, WeightMedium)))
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(view.SalePrice))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div></article></a>`)
}

const (
	linkStyle = "position: relative; text-decoration: none; color: inherit; flex: 1; min-width: 350px;"
	rowStyle  = "font-size: 1rem; display: flex; justify-content: space-between;"
)

func badgeStyle(theme Theme, tone string) string {
	return "display: inline-block; position: absolute; top: 10px; right: -10px; z-index: 1; " +
		"padding: 7px 11px; background-color: " + theme.Color(tone) + "; color: " + theme.Color(ColorWhite) + "; " +
		"font-weight: 700; font-size: 14px; border-radius: 4px;"
}

func textStyle(theme Theme, color, weight string) string {
	return "font-weight: " + theme.Weight(weight) + "; color: " + theme.Color(color) + ";"
}

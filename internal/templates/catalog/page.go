package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"finitefield.org/shoecard/internal/shoecard"
)

const stylesheetPath = "/public/static/shoecard.css"

// Index renders the catalog page as a full HTML document.
func Index(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var head strings.Builder
		head.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		head.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		head.WriteString(`<title>` + templ.EscapeString(data.Title) + `</title>`)
		head.WriteString(`<link rel="stylesheet" href="` + stylesheetPath + `">`)
		for _, script := range data.Scripts {
			head.WriteString(`<script src="` + templ.EscapeString(string(templ.URL(script.Src))) + `"`)
			if script.Defer {
				head.WriteString(` defer`)
			}
			head.WriteString(`></script>`)
		}
		head.WriteString(`</head><body>`)
		if _, err := io.WriteString(w, head.String()); err != nil {
			return err
		}
		if err := Grid(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Grid renders the heading, sort control and card grid. It is also the
// target of htmx sort requests.
func Grid(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main id="shoe-index" class="shoe-index">`+
			`<header class="shoe-index__header"><h1>`+templ.EscapeString(data.Heading)+`</h1>`+
			`<p class="shoe-index__count">`+templ.EscapeString(data.CountLabel)+`</p>`); err != nil {
			return err
		}
		if err := sortControl(data.SortOptions).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</header><section class="shoe-grid">`); err != nil {
			return err
		}
		for _, view := range data.Cards {
			if _, err := io.WriteString(w, cellOpen(view, data)); err != nil {
				return err
			}
			if err := shoecard.Card(view, data.Theme).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section></main>`)
		return err
	})
}

// cellOpen wraps a card so htmx can poll its fragment and swap the card in
// place, keeping badges current as sales and release windows change.
func cellOpen(view shoecard.CardView, data PageData) string {
	if data.CardRefresh <= 0 {
		return `<div class="shoe-grid__cell">`
	}
	path := templ.EscapeString(string(templ.URL(CardFragmentPath(view.Slug))))
	seconds := int(data.CardRefresh.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf(`<div class="shoe-grid__cell" hx-get="%s" hx-trigger="every %ds" hx-swap="innerHTML">`, path, seconds)
}

func sortControl(options []SortOption) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := `<nav class="shoe-index__sort" aria-label="Sort">`
		for _, option := range options {
			href := templ.EscapeString(string(templ.URL(option.Href)))
			out += `<a href="` + href + `" hx-get="` + href + `" hx-target="#shoe-index" hx-swap="outerHTML" hx-push-url="true" data-sort="` + templ.EscapeString(string(option.Value)) + `"`
			if option.Active {
				out += ` aria-current="page" class="is-active"`
			}
			out += `>` + templ.EscapeString(option.Label) + `</a>`
		}
		out += `</nav>`
		_, err := io.WriteString(w, out)
		return err
	})
}

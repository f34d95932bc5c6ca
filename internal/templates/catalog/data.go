package catalog

import (
	"net/url"
	"time"

	catalogsvc "finitefield.org/shoecard/internal/catalog"
	"finitefield.org/shoecard/internal/shoecard"
)

// PageData represents the payload for the catalog grid page.
type PageData struct {
	Title       string
	Heading     string
	CountLabel  string
	Sort        catalogsvc.SortOrder
	SortOptions []SortOption
	Cards       []shoecard.CardView
	Theme       shoecard.Theme
	Scripts     []Script
	// CardRefresh is how often each card re-fetches its fragment. Zero
	// leaves cards static.
	CardRefresh time.Duration
}

// Script is a script tag emitted in the document head.
type Script struct {
	Src   string
	Defer bool
}

// SortOption is one entry of the sort control.
type SortOption struct {
	Value  catalogsvc.SortOrder
	Label  string
	Href   string
	Active bool
}

var sortLabels = []struct {
	value catalogsvc.SortOrder
	label string
}{
	{catalogsvc.SortNewest, "Newest Releases"},
	{catalogsvc.SortPrice, "Price"},
}

// BuildPageData sorts listings and resolves every card against one clock reading.
func BuildPageData(basePath string, listings []shoecard.ShoeListing, order catalogsvc.SortOrder, renderer *shoecard.Renderer) PageData {
	sorted := catalogsvc.Sorted(listings, order)

	options := make([]SortOption, 0, len(sortLabels))
	for _, entry := range sortLabels {
		options = append(options, SortOption{
			Value:  entry.value,
			Label:  entry.label,
			Href:   sortHref(basePath, entry.value),
			Active: entry.value == order,
		})
	}

	return PageData{
		Title:       "All Shoes",
		Heading:     "All Shoes",
		CountLabel:  shoecard.Pluralize("Shoe", len(sorted)),
		Sort:        order,
		SortOptions: options,
		Cards:       renderer.Views(sorted),
		Theme:       renderer.Theme(),
	}
}

func sortHref(basePath string, order catalogsvc.SortOrder) string {
	if basePath == "" {
		basePath = "/"
	}
	query := url.Values{}
	query.Set("sort", string(order))
	return basePath + "?" + query.Encode()
}

// CardFragmentPath is the htmx route that renders a single card.
func CardFragmentPath(slug string) string {
	return "/cards/" + url.PathEscape(slug)
}

package catalog

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"finitefield.org/shoecard/internal/shoecard"
)

var namePolicy = bluemonday.StrictPolicy()

// normalizeListings trims and checks records coming from an external source.
// Names are reduced to plain text. All problems are reported together.
func normalizeListings(listings []shoecard.ShoeListing) ([]shoecard.ShoeListing, error) {
	var problems []string
	seen := make(map[string]int, len(listings))
	out := make([]shoecard.ShoeListing, 0, len(listings))

	for i, listing := range listings {
		listing.Slug = strings.TrimSpace(listing.Slug)
		listing.Name = plainText(listing.Name)
		listing.ImageSrc = strings.TrimSpace(listing.ImageSrc)

		label := fmt.Sprintf("listing %d", i)
		if listing.Slug != "" {
			label = fmt.Sprintf("listing %d (%s)", i, listing.Slug)
		}

		switch {
		case listing.Slug == "":
			problems = append(problems, label+": slug is required")
		default:
			if first, dup := seen[listing.Slug]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate slug, first used by listing %d", label, first))
			} else {
				seen[listing.Slug] = i
			}
		}
		if listing.Name == "" {
			problems = append(problems, label+": name is required")
		}
		if listing.Price.IsNegative() {
			problems = append(problems, label+": price must not be negative")
		}
		if listing.SalePrice != nil && listing.SalePrice.IsNegative() {
			problems = append(problems, label+": sale price must not be negative")
		}
		if listing.ReleaseDate.IsZero() {
			problems = append(problems, label+": release date is required")
		}
		if listing.NumOfColors < 0 {
			problems = append(problems, label+": number of colors must not be negative")
		}

		out = append(out, listing)
	}

	if len(problems) > 0 {
		return nil, &ValidationError{problems: problems}
	}
	return out, nil
}

func plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(value)))
}

// Package catalog supplies the shoe listings rendered by the storefront.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"finitefield.org/shoecard/internal/shoecard"
)

// Service exposes catalog lookups for the storefront UI.
type Service interface {
	// List returns every listing in the catalog.
	List(ctx context.Context) ([]shoecard.ShoeListing, error)

	// Get returns the listing identified by slug.
	Get(ctx context.Context, slug string) (shoecard.ShoeListing, error)
}

// ErrListingNotFound is returned when no listing matches a slug.
var ErrListingNotFound = errors.New("listing not found")

// SortOrder selects the order of a listing grid.
type SortOrder string

const (
	// SortNewest orders by release date, most recent first.
	SortNewest SortOrder = "newest"
	// SortPrice orders by the price a shopper pays, cheapest first.
	SortPrice SortOrder = "price"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to SortNewest.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortPrice:
		return SortPrice
	default:
		return SortNewest
	}
}

// Sorted returns a sorted copy of listings. Ties fall back to slug order.
func Sorted(listings []shoecard.ShoeListing, order SortOrder) []shoecard.ShoeListing {
	out := make([]shoecard.ShoeListing, len(listings))
	copy(out, listings)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortPrice:
			if cmp := a.EffectivePrice().Cmp(b.EffectivePrice()); cmp != 0 {
				return cmp < 0
			}
		default:
			if !a.ReleaseDate.Equal(b.ReleaseDate) {
				return a.ReleaseDate.After(b.ReleaseDate)
			}
		}
		return a.Slug < b.Slug
	})
	return out
}

// ValidationError lists catalog records that cannot be served.
type ValidationError struct {
	problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog validation failed: [%s]", strings.Join(e.problems, "; "))
}

// Problems returns a copy of the recorded problems.
func (e *ValidationError) Problems() []string {
	out := make([]string, len(e.problems))
	copy(out, e.problems)
	return out
}

func findListing(listings []shoecard.ShoeListing, slug string) (shoecard.ShoeListing, error) {
	slug = strings.TrimSpace(slug)
	for _, listing := range listings {
		if listing.Slug == slug {
			return listing, nil
		}
	}
	return shoecard.ShoeListing{}, ErrListingNotFound
}

func cloneListings(listings []shoecard.ShoeListing) []shoecard.ShoeListing {
	out := make([]shoecard.ShoeListing, len(listings))
	copy(out, listings)
	return out
}

package shoecard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is the display mode of a card.
type Variant int

const (
	// VariantDefault shows no badge and a single price.
	VariantDefault Variant = iota
	// VariantNewRelease shows the "Just released!" badge.
	VariantNewRelease
	// VariantOnSale shows the "Sale" badge, the struck base price and the sale price.
	VariantOnSale
)

// String returns the kebab-case name used in markup.
func (v Variant) String() string {
	switch v {
	case VariantNewRelease:
		return "new-release"
	case VariantOnSale:
		return "on-sale"
	default:
		return "default"
	}
}

// ResolveVariant picks the card variant. A sale price always wins, even for a
// listing that is also inside the novelty window.
func ResolveVariant(salePrice *decimal.Decimal, releaseDate, now time.Time, window time.Duration) Variant {
	switch {
	case salePrice != nil:
		return VariantOnSale
	case IsNewRelease(releaseDate, now, window):
		return VariantNewRelease
	default:
		return VariantDefault
	}
}

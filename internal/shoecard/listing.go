// Package shoecard renders the product card shown for a shoe listing.
//
// Everything here is a pure function of its inputs. The current time is
// always passed in explicitly; the package never reads the clock on its own
// except through a Renderer configured with one.
//
// Input validation is the catalog's job. A negative price, a negative colour
// count or a zero release date renders without failing, but the output for
// such values is not meaningful.
package shoecard

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ShoeListing is the catalog record a card is rendered from.
type ShoeListing struct {
	Slug     string
	Name     string
	ImageSrc string
	// Price and SalePrice are expressed in minor currency units (cents).
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	ReleaseDate time.Time
	NumOfColors int
}

// OnSale reports whether the listing carries a sale price.
func (l ShoeListing) OnSale() bool {
	return l.SalePrice != nil
}

// EffectivePrice returns the price a shopper pays today.
func (l ShoeListing) EffectivePrice() decimal.Decimal {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return l.Price
}

// Href returns the product page path for the listing.
func (l ShoeListing) Href() string {
	return ListingPath(l.Slug)
}

// ListingPath builds the product page path for slug.
func ListingPath(slug string) string {
	return "/shoe/" + url.PathEscape(slug)
}

package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finitefield.org/shoecard/internal/shoecard"
)

// StaticService provides deterministic listings suitable for local development and tests.
type StaticService struct {
	listings []shoecard.ShoeListing
}

// NewStaticService returns a StaticService whose release dates are relative to now.
func NewStaticService() *StaticService {
	return newStaticService(time.Now())
}

func newStaticService(now time.Time) *StaticService {
	day := 24 * time.Hour
	price := func(minor int64) decimal.Decimal {
		return decimal.NewFromInt(minor)
	}
	sale := func(minor int64) *decimal.Decimal {
		d := decimal.NewFromInt(minor)
		return &d
	}

	return &StaticService{listings: []shoecard.ShoeListing{
		{
			Slug:        "tasman-runner",
			Name:        "Tasman Runner",
			ImageSrc:    "/public/static/images/tasman-runner.svg",
			Price:       price(16500),
			SalePrice:   sale(12500),
			ReleaseDate: now.Add(-5 * day),
			NumOfColors: 3,
		},
		{
			Slug:        "kestrel-trail",
			Name:        "Kestrel Trail",
			ImageSrc:    "/public/static/images/kestrel-trail.svg",
			Price:       price(14000),
			ReleaseDate: now.Add(-3 * day),
			NumOfColors: 1,
		},
		{
			Slug:        "harbour-court",
			Name:        "Harbour Court",
			ImageSrc:    "/public/static/images/harbour-court.svg",
			Price:       price(9500),
			ReleaseDate: now.AddDate(-1, -2, 0),
			NumOfColors: 4,
		},
		{
			Slug:        "ridgeline-hiker",
			Name:        "Ridgeline Hiker",
			ImageSrc:    "/public/static/images/ridgeline-hiker.svg",
			Price:       price(21000),
			SalePrice:   sale(15750),
			ReleaseDate: now.AddDate(-2, 0, 0),
			NumOfColors: 2,
		},
		{
			Slug:        "pebble-slip-on",
			Name:        "Pebble Slip-On",
			ImageSrc:    "/public/static/images/pebble-slip-on.svg",
			Price:       price(6000),
			ReleaseDate: now.Add(-45 * day),
			NumOfColors: 0,
		},
	}}
}

// List implements Service.
func (s *StaticService) List(ctx context.Context) ([]shoecard.ShoeListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneListings(s.listings), nil
}

// Get implements Service.
func (s *StaticService) Get(ctx context.Context, slug string) (shoecard.ShoeListing, error) {
	if err := ctx.Err(); err != nil {
		return shoecard.ShoeListing{}, err
	}
	return findListing(s.listings, slug)
}

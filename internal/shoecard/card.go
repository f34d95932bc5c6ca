package shoecard

import (
	"time"

	"github.com/a-h/templ"
)

const (
	badgeTextNewRelease = "Just released!"
	badgeTextSale       = "Sale"
	colorNoun           = "Color"
)

// Badge is the overlay label shown on new and discounted listings.
type Badge struct {
	Text string
	// Tone is the colour token used for the badge background.
	Tone string
}

// CardView is the fully resolved content of one card. It holds display
// strings only, so rendering it needs no further business rules.
type CardView struct {
	Slug        string
	Href        string
	Variant     Variant
	Badge       *Badge
	ImageSrc    string
	ImageAlt    string
	Name        string
	Price       string
	PriceStruck bool
	SalePrice   string
	ColorLabel  string
}

// Renderer turns listings into card views and components.
type Renderer struct {
	theme  Theme
	now    func() time.Time
	window time.Duration
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithTheme sets the design tokens used for styling.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithClock sets the time source used for the novelty check.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithNoveltyWindow overrides NoveltyWindow.
func WithNoveltyWindow(window time.Duration) Option {
	return func(r *Renderer) {
		if window > 0 {
			r.window = window
		}
	}
}

// NewRenderer returns a Renderer using DefaultTheme, the wall clock and
// NoveltyWindow unless overridden.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		theme:  DefaultTheme(),
		now:    time.Now,
		window: NoveltyWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the renderer's design tokens.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Now returns the renderer's current time.
func (r *Renderer) Now() time.Time {
	return r.now()
}

// View builds the card view for listing at the renderer's current time.
func (r *Renderer) View(listing ShoeListing) CardView {
	return r.ViewAt(listing, r.now())
}

// ViewAt builds the card view for listing as seen at now.
func (r *Renderer) ViewAt(listing ShoeListing, now time.Time) CardView {
	return BuildView(listing, now, r.window)
}

// Views builds card views for all listings against a single clock reading.
func (r *Renderer) Views(listings []ShoeListing) []CardView {
	now := r.now()
	views := make([]CardView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, r.ViewAt(listing, now))
	}
	return views
}

// Component renders listing with the renderer's theme.
func (r *Renderer) Component(listing ShoeListing) templ.Component {
	return Card(r.View(listing), r.theme)
}

// BuildView resolves the variant of listing once and derives every display
// string from it.
func BuildView(listing ShoeListing, now time.Time, window time.Duration) CardView {
	variant := ResolveVariant(listing.SalePrice, listing.ReleaseDate, now, window)

	view := CardView{
		Slug:       listing.Slug,
		Href:       listing.Href(),
		Variant:    variant,
		ImageSrc:   listing.ImageSrc,
		Name:       listing.Name,
		Price:      FormatPrice(listing.Price),
		ColorLabel: Pluralize(colorNoun, listing.NumOfColors),
	}

	switch variant {
	case VariantOnSale:
		view.Badge = &Badge{Text: badgeTextSale, Tone: ColorPrimary}
		view.PriceStruck = true
		view.SalePrice = FormatPrice(*listing.SalePrice)
	case VariantNewRelease:
		view.Badge = &Badge{Text: badgeTextNewRelease, Tone: ColorSecondary}
	}

	return view
}

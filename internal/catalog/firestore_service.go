package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/googleapis/gax-go/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"finitefield.org/shoecard/internal/shoecard"
)

// FirestoreConfig tunes the Firestore-backed catalog.
type FirestoreConfig struct {
	Collection string
	FetchLimit int
	CacheTTL   time.Duration
	// FetchTimeout bounds one refresh, including retries.
	FetchTimeout time.Duration
	Now          func() time.Time
}

const (
	defaultFirestoreCollection = "shoes"
	defaultFirestoreFetchLimit = 500
	defaultFirestoreCacheTTL   = 30 * time.Second
	defaultFirestoreFetchTime  = 20 * time.Second
)

// FirestoreService reads listings from a Firestore collection and caches them
// for CacheTTL.
type FirestoreService struct {
	client       *firestore.Client
	collection   string
	fetchLimit   int
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	load         func(ctx context.Context) ([]shoecard.ShoeListing, error)

	mu       sync.RWMutex
	listings []shoecard.ShoeListing
	expires  time.Time

	group singleflight.Group
}

type listingDocument struct {
	Slug        string    `firestore:"slug"`
	Name        string    `firestore:"name"`
	ImageSrc    string    `firestore:"imageSrc"`
	Price       float64   `firestore:"price"`
	SalePrice   *float64  `firestore:"salePrice"`
	ReleaseDate time.Time `firestore:"releaseDate"`
	NumOfColors int       `firestore:"numOfColors"`
}

// NewFirestoreService constructs a Firestore-backed catalog.
func NewFirestoreService(client *firestore.Client, cfg FirestoreConfig) *FirestoreService {
	if client == nil {
		panic("catalog: firestore client is required")
	}
	svc := newFirestoreService(cfg, nil)
	svc.client = client
	svc.load = svc.fetch
	return svc
}

func newFirestoreService(cfg FirestoreConfig, load func(context.Context) ([]shoecard.ShoeListing, error)) *FirestoreService {
	if cfg.Collection == "" {
		cfg.Collection = defaultFirestoreCollection
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = defaultFirestoreFetchLimit
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultFirestoreCacheTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFirestoreFetchTime
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &FirestoreService{
		collection:   cfg.Collection,
		fetchLimit:   cfg.FetchLimit,
		cacheTTL:     cfg.CacheTTL,
		fetchTimeout: cfg.FetchTimeout,
		now:          cfg.Now,
		load:         load,
	}
}

// List implements Service.
func (s *FirestoreService) List(ctx context.Context) ([]shoecard.ShoeListing, error) {
	listings, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return cloneListings(listings), nil
}

// Get implements Service.
func (s *FirestoreService) Get(ctx context.Context, slug string) (shoecard.ShoeListing, error) {
	listings, err := s.dataset(ctx)
	if err != nil {
		return shoecard.ShoeListing{}, err
	}
	return findListing(listings, slug)
}

// dataset returns the cached listings, refreshing them when stale. The
// refresh is shared by every concurrent caller and runs detached from any
// single request, so one caller giving up does not fail the others.
func (s *FirestoreService) dataset(ctx context.Context) ([]shoecard.ShoeListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if listings, ok := s.cached(); ok {
		return listings, nil
	}

	results := s.group.DoChan(s.collection, func() (interface{}, error) {
		// Another caller may have refreshed while this one was queued.
		if listings, ok := s.cached(); ok {
			return listings, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		var listings []shoecard.ShoeListing
		err := retryTransient(fetchCtx, func(ctx context.Context) error {
			var err error
			listings, err = s.load(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.listings = listings
		s.expires = s.now().Add(s.cacheTTL)
		s.mu.Unlock()
		return listings, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]shoecard.ShoeListing), nil
	}
}

func (s *FirestoreService) cached() ([]shoecard.ShoeListing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listings == nil || !s.now().Before(s.expires) {
		return nil, false
	}
	return s.listings, true
}

// fetch reads up to fetchLimit documents in document-id order. Ordering by
// releaseDate in the query would silently skip documents missing the field,
// so validation runs first and the newest-first order is applied in memory.
func (s *FirestoreService) fetch(ctx context.Context) ([]shoecard.ShoeListing, error) {
	iter := s.client.Collection(s.collection).
		Limit(s.fetchLimit).
		Documents(ctx)
	defer iter.Stop()

	listings := make([]shoecard.ShoeListing, 0, s.fetchLimit)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: query %s: %w", s.collection, err)
		}
		var doc listingDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", snap.Ref.Path, err)
		}
		listings = append(listings, doc.toListing(snap.Ref.ID))
	}

	return validateDocuments(listings)
}

// validateDocuments normalises fetched listings and orders them newest first.
func validateDocuments(listings []shoecard.ShoeListing) ([]shoecard.ShoeListing, error) {
	normalized, err := normalizeListings(listings)
	if err != nil {
		return nil, err
	}
	return Sorted(normalized, SortNewest), nil
}

func (d listingDocument) toListing(docID string) shoecard.ShoeListing {
	slug := strings.TrimSpace(d.Slug)
	if slug == "" {
		slug = docID
	}
	listing := shoecard.ShoeListing{
		Slug:        slug,
		Name:        d.Name,
		ImageSrc:    d.ImageSrc,
		Price:       decimal.NewFromFloat(d.Price),
		ReleaseDate: d.ReleaseDate,
		NumOfColors: d.NumOfColors,
	}
	if d.SalePrice != nil {
		sale := decimal.NewFromFloat(*d.SalePrice)
		listing.SalePrice = &sale
	}
	return listing
}

var transientCodes = []codes.Code{codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted}

const maxFetchAttempts = 3

// boundedRetryer stops retrying after maxFetchAttempts calls.
type boundedRetryer struct {
	inner    gax.Retryer
	attempts int
}

func (r *boundedRetryer) Retry(err error) (time.Duration, bool) {
	r.attempts++
	if r.attempts >= maxFetchAttempts {
		return 0, false
	}
	return r.inner.Retry(err)
}

// retryTransient runs call, retrying gRPC errors that are worth another try.
func retryTransient(ctx context.Context, call func(context.Context) error) error {
	return gax.Invoke(ctx, func(ctx context.Context, _ gax.CallSettings) error {
		return call(ctx)
	}, gax.WithRetry(func() gax.Retryer {
		return &boundedRetryer{inner: gax.OnCodes(transientCodes, gax.Backoff{
			Initial:    20 * time.Millisecond,
			Max:        time.Second,
			Multiplier: 2,
		})}
	}))
}

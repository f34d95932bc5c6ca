package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finitefield.org/shoecard/internal/shoecard"
)

func TestListingDocumentToListing(t *testing.T) {
	t.Parallel()

	sale := 6500.0
	doc := listingDocument{
		Name:        "Harbour Court",
		ImageSrc:    "/images/harbour.jpg",
		Price:       10000,
		SalePrice:   &sale,
		ReleaseDate: testNow.Add(-time.Hour),
		NumOfColors: 2,
	}

	listing := doc.toListing("harbour-court")
	require.Equal(t, "harbour-court", listing.Slug, "document id is used when slug is missing")
	require.True(t, listing.Price.Equal(decimal.NewFromInt(10000)))
	require.NotNil(t, listing.SalePrice)
	require.True(t, listing.SalePrice.Equal(decimal.NewFromInt(6500)))
	require.Equal(t, 2, listing.NumOfColors)

	doc.Slug = " explicit "
	doc.SalePrice = nil
	listing = doc.toListing("ignored")
	require.Equal(t, "explicit", listing.Slug)
	require.Nil(t, listing.SalePrice)
}

func TestNewFirestoreServiceRequiresClient(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewFirestoreService(nil, FirestoreConfig{})
	})
}

func TestRetryTransient(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{name: "success first try", errs: []error{nil}, wantCalls: 1},
		{
			name:      "unavailable then success",
			errs:      []error{fmt.Errorf("catalog: query shoes: %w", status.Error(codes.Unavailable, "down")), nil},
			wantCalls: 2,
		},
		{
			name:      "permanent error is not retried",
			errs:      []error{status.Error(codes.PermissionDenied, "denied")},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name: "gives up after bounded attempts",
			errs: []error{
				status.Error(codes.Unavailable, "down"),
				status.Error(codes.Unavailable, "down"),
				status.Error(codes.Unavailable, "down"),
				nil,
			},
			wantCalls: maxFetchAttempts,
			wantErr:   true,
		},
		{
			name:      "plain errors are not retried",
			errs:      []error{errors.New("decode failed")},
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			err := retryTransient(context.Background(), func(context.Context) error {
				err := tc.errs[calls]
				calls++
				return err
			})

			require.Equal(t, tc.wantCalls, calls)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func cachedListings() []shoecard.ShoeListing {
	return []shoecard.ShoeListing{
		listing("kestrel-trail", 14000, nil, testNow.Add(-time.Hour)),
	}
}

func TestFirestoreServiceCachesUntilExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: testNow}
	var calls atomic.Int32
	svc := newFirestoreService(FirestoreConfig{CacheTTL: time.Minute, Now: clock.Now}, func(context.Context) ([]shoecard.ShoeListing, error) {
		calls.Add(1)
		return cachedListings(), nil
	})

	ctx := context.Background()
	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "kestrel-trail")
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load(), "second read is served from cache")

	clock.Advance(59 * time.Second)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	clock.Advance(time.Second)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load(), "expired cache is refreshed")
}

func TestFirestoreServiceSharesConcurrentRefresh(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls atomic.Int32
	svc := newFirestoreService(FirestoreConfig{Now: func() time.Time { return testNow }}, func(context.Context) ([]shoecard.ShoeListing, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return cachedListings(), nil
	})

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listings, err := svc.List(context.Background())
			if err == nil && len(listings) != 1 {
				err = fmt.Errorf("expected 1 listing, got %d", len(listings))
			}
			errs <- err
		}()
	}

	<-started
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestFirestoreServiceCallerCancellationDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	svc := newFirestoreService(FirestoreConfig{Now: func() time.Time { return testNow }}, func(ctx context.Context) ([]shoecard.ShoeListing, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return cachedListings(), nil
	})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.List(firstCtx)
		firstErr <- err
	}()
	<-started

	secondResult := make(chan error, 1)
	go func() {
		_, err := svc.Get(context.Background(), "kestrel-trail")
		secondResult <- err
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.NoError(t, <-secondResult)
}

func TestFirestoreServiceDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	svc := newFirestoreService(FirestoreConfig{Now: func() time.Time { return testNow }}, func(context.Context) ([]shoecard.ShoeListing, error) {
		if calls.Add(1) == 1 {
			return nil, status.Error(codes.PermissionDenied, "denied")
		}
		return cachedListings(), nil
	})

	_, err := svc.List(context.Background())
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	listings, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.EqualValues(t, 2, calls.Load())
}

func TestValidateDocumentsReportsMissingReleaseDate(t *testing.T) {
	t.Parallel()

	undated := listingDocument{Name: "Pebble Slip-On", Price: 6000}
	dated := listingDocument{Name: "Harbour Court", Price: 9500, ReleaseDate: testNow.AddDate(-1, 0, 0)}
	fresh := listingDocument{Name: "Kestrel Trail", Price: 14000, ReleaseDate: testNow.Add(-time.Hour)}

	_, err := validateDocuments([]shoecard.ShoeListing{dated.toListing("harbour-court"), undated.toListing("pebble-slip-on")})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	require.Equal(t, []string{"listing 1 (pebble-slip-on): release date is required"}, validation.Problems())

	listings, err := validateDocuments([]shoecard.ShoeListing{dated.toListing("harbour-court"), fresh.toListing("kestrel-trail")})
	require.NoError(t, err)
	require.Equal(t, "kestrel-trail", listings[0].Slug, "newest release first")
	require.Equal(t, "harbour-court", listings[1].Slug)
}

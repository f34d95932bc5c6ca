package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
listings:
  - slug: tasman-runner
    name: Tasman Runner
    image_src: /images/tasman.jpg
    price: 16500
    sale_price: 12500
    release_date: "2026-10-01"
    num_of_colors: 3
  - slug: kestrel-trail
    name: "<em>Kestrel</em> Trail"
    image_src: /images/kestrel.jpg
    price: 9999.5
    release_date: "2024-03-02T09:30:00Z"
    num_of_colors: 1
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	listings, err := ParseYAML([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	tasman := listings[0]
	require.Equal(t, "tasman-runner", tasman.Slug)
	require.True(t, tasman.Price.Equal(decimal.NewFromInt(16500)))
	require.NotNil(t, tasman.SalePrice)
	require.True(t, tasman.SalePrice.Equal(decimal.NewFromInt(12500)))
	require.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), tasman.ReleaseDate)
	require.Equal(t, 3, tasman.NumOfColors)

	kestrel := listings[1]
	require.Equal(t, "Kestrel Trail", kestrel.Name)
	require.Nil(t, kestrel.SalePrice)
	require.True(t, kestrel.Price.Equal(decimal.RequireFromString("9999.5")))
	require.Equal(t, time.Date(2024, time.March, 2, 9, 30, 0, 0, time.UTC), kestrel.ReleaseDate)
}

func TestParseYAMLRejectsBadRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		problem string
	}{
		{
			name:    "bad price",
			content: "listings:\n  - slug: a\n    name: A\n    price: cheap\n    release_date: \"2026-01-01\"\n",
			problem: `listing 0: invalid price "cheap"`,
		},
		{
			name:    "bad sale price",
			content: "listings:\n  - slug: a\n    name: A\n    price: 100\n    sale_price: half\n    release_date: \"2026-01-01\"\n",
			problem: `listing 0: invalid sale price "half"`,
		},
		{
			name:    "bad release date",
			content: "listings:\n  - slug: a\n    name: A\n    price: 100\n    release_date: someday\n",
			problem: `listing 0: invalid release date "someday"`,
		},
		{
			name:    "duplicate slug",
			content: "listings:\n  - slug: a\n    name: A\n    price: 100\n    release_date: \"2026-01-01\"\n  - slug: a\n    name: B\n    price: 100\n    release_date: \"2026-01-01\"\n",
			problem: "listing 1 (a): duplicate slug, first used by listing 0",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseYAML([]byte(tc.content))
			var validation *ValidationError
			require.True(t, errors.As(err, &validation), "expected validation error, got %v", err)
			require.Contains(t, validation.Problems(), tc.problem)
		})
	}
}

func TestParseYAMLRejectsMalformedDocument(t *testing.T) {
	t.Parallel()

	_, err := ParseYAML([]byte("listings: [unterminated"))
	require.Error(t, err)
	var validation *ValidationError
	require.False(t, errors.As(err, &validation))
}

func TestFileServiceLoadsAndReloads(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, sampleCatalog)
	svc, err := NewFileService(path)
	require.NoError(t, err)

	ctx := context.Background()
	listings, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	got, err := svc.Get(ctx, "kestrel-trail")
	require.NoError(t, err)
	require.Equal(t, "Kestrel Trail", got.Name)

	// A broken file keeps the previous catalog.
	require.NoError(t, os.WriteFile(path, []byte("listings: [unterminated"), 0o600))
	require.Error(t, svc.Reload(ctx))
	listings, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	require.NoError(t, os.WriteFile(path, []byte("listings:\n  - slug: solo\n    name: Solo\n    price: 100\n    release_date: \"2026-01-01\"\n"), 0o600))
	require.NoError(t, svc.Reload(ctx))

	_, err = svc.Get(ctx, "kestrel-trail")
	require.ErrorIs(t, err, ErrListingNotFound)
	solo, err := svc.Get(ctx, "solo")
	require.NoError(t, err)
	require.Equal(t, 0, solo.NumOfColors)
}

func TestNewFileServiceMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewFileService(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

package firestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/shoecard/internal/platform/config"
)

func TestProviderRequiresProjectID(t *testing.T) {
	t.Parallel()

	provider := NewProvider(config.FirebaseConfig{EmulatorHost: "127.0.0.1:1"})
	_, err := provider.Client(context.Background())
	require.EqualError(t, err, "firestore: project id is required")
}

func TestProviderClosed(t *testing.T) {
	t.Parallel()

	provider := NewProvider(config.FirebaseConfig{ProjectID: "demo-shoecard", EmulatorHost: "127.0.0.1:1"})
	require.NoError(t, provider.Close())
	require.NoError(t, provider.Close(), "closing twice is a no-op")

	_, err := provider.Client(context.Background())
	require.ErrorIs(t, err, ErrProviderClosed)
}

func TestProviderEmulatorHostPrecedence(t *testing.T) {
	t.Setenv(envEmulatorHost, "10.0.0.1:8080")

	require.Equal(t, "127.0.0.1:9000", NewProvider(config.FirebaseConfig{EmulatorHost: " 127.0.0.1:9000 "}).emulatorHost())
	require.Equal(t, "10.0.0.1:8080", NewProvider(config.FirebaseConfig{}).emulatorHost())
}

package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultAddress         = ":8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultCatalogSource   = CatalogSourceStatic
	defaultCollection      = "shoes"
	defaultFetchLimit      = 500
	defaultCacheTTL        = 30 * time.Second
	defaultNoveltyWindow   = 30 * 24 * time.Hour
	defaultHTMXScriptURL   = "https://unpkg.com/htmx.org@1.9.12"
	defaultCardRefresh     = time.Minute
)

// Catalog sources understood by the loader.
const (
	CatalogSourceStatic    = "static"
	CatalogSourceFile      = "file"
	CatalogSourceFirestore = "firestore"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Firebase FirebaseConfig
	Card     CardConfig
	UI       UIConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CatalogConfig selects and tunes the listing source.
type CatalogConfig struct {
	Source     string
	File       string
	Collection string
	FetchLimit int
	CacheTTL   time.Duration
}

// FirebaseConfig stores Firebase/Firestore project settings.
type FirebaseConfig struct {
	ProjectID    string
	EmulatorHost string
}

// CardConfig controls how cards are rendered.
type CardConfig struct {
	ThemeFile     string
	NoveltyWindow time.Duration
}

// UIConfig controls the browser-side enhancements of the catalog page.
type UIConfig struct {
	HTMXScriptURL       string
	CardRefreshInterval time.Duration
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Address:         stringWithDefault(lookup, "SHOECARD_HTTP_ADDR", ""),
			ReadTimeout:     durationWithDefault(lookup, "SHOECARD_HTTP_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "SHOECARD_HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "SHOECARD_HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "SHOECARD_HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Catalog: CatalogConfig{
			Source:     strings.ToLower(stringWithDefault(lookup, "SHOECARD_CATALOG_SOURCE", defaultCatalogSource)),
			File:       stringWithDefault(lookup, "SHOECARD_CATALOG_FILE", ""),
			Collection: stringWithDefault(lookup, "SHOECARD_CATALOG_COLLECTION", defaultCollection),
			FetchLimit: intWithDefault(lookup, "SHOECARD_CATALOG_FETCH_LIMIT", defaultFetchLimit),
			CacheTTL:   durationWithDefault(lookup, "SHOECARD_CATALOG_CACHE_TTL", defaultCacheTTL),
		},
		Firebase: FirebaseConfig{
			ProjectID:    stringWithDefault(lookup, "SHOECARD_FIREBASE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "SHOECARD_FIRESTORE_EMULATOR_HOST", ""),
		},
		Card: CardConfig{
			ThemeFile:     stringWithDefault(lookup, "SHOECARD_THEME_FILE", ""),
			NoveltyWindow: durationWithDefault(lookup, "SHOECARD_NOVELTY_WINDOW", defaultNoveltyWindow),
		},
		UI: UIConfig{
			HTMXScriptURL:       stringWithDefault(lookup, "SHOECARD_HTMX_SCRIPT_URL", defaultHTMXScriptURL),
			CardRefreshInterval: durationWithDefault(lookup, "SHOECARD_CARD_REFRESH_INTERVAL", defaultCardRefresh),
		},
	}

	// Cloud Run injects PORT; an explicit address still wins.
	if cfg.Server.Address == "" {
		if port := stringWithDefault(lookup, "PORT", ""); port != "" {
			cfg.Server.Address = ":" + port
		} else {
			cfg.Server.Address = defaultAddress
		}
	}

	// Fall back to the ambient Google project when unspecified.
	if cfg.Firebase.ProjectID == "" {
		cfg.Firebase.ProjectID = stringWithDefault(lookup, "GOOGLE_CLOUD_PROJECT", "")
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Address) == "" {
		missing = append(missing, "Server.Address")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if cfg.Server.IdleTimeout <= 0 {
		missing = append(missing, "Server.IdleTimeout")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		missing = append(missing, "Server.ShutdownTimeout")
	}

	switch cfg.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourceFile:
		if strings.TrimSpace(cfg.Catalog.File) == "" {
			missing = append(missing, "Catalog.File")
		}
	case CatalogSourceFirestore:
		if strings.TrimSpace(cfg.Firebase.ProjectID) == "" {
			missing = append(missing, "Firebase.ProjectID")
		}
		if strings.TrimSpace(cfg.Catalog.Collection) == "" {
			missing = append(missing, "Catalog.Collection")
		}
	default:
		missing = append(missing, "Catalog.Source")
	}
	if cfg.Catalog.FetchLimit <= 0 {
		missing = append(missing, "Catalog.FetchLimit")
	}
	if cfg.Catalog.CacheTTL <= 0 {
		missing = append(missing, "Catalog.CacheTTL")
	}
	if cfg.Card.NoveltyWindow <= 0 {
		missing = append(missing, "Card.NoveltyWindow")
	}
	if cfg.UI.CardRefreshInterval < time.Second {
		missing = append(missing, "UI.CardRefreshInterval")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(parts[1]), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

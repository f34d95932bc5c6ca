package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"finitefield.org/shoecard/internal/shoecard"
)

// FileService serves listings from a YAML catalog file.
type FileService struct {
	path string

	mu       sync.RWMutex
	listings []shoecard.ShoeListing
}

type fileDocument struct {
	Listings []fileRecord `yaml:"listings"`
}

// Prices are read as strings so that integers, decimals and quoted values
// all reach decimal parsing unchanged.
type fileRecord struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	ImageSrc    string `yaml:"image_src"`
	Price       string `yaml:"price"`
	SalePrice   string `yaml:"sale_price"`
	ReleaseDate string `yaml:"release_date"`
	NumOfColors int    `yaml:"num_of_colors"`
}

var releaseDateLayouts = []string{time.RFC3339, "2006-01-02"}

// NewFileService loads the catalog at path.
func NewFileService(path string) (*FileService, error) {
	svc := &FileService{path: path}
	if err := svc.Reload(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// Reload re-reads the catalog file. The previous listings stay in place when
// the file cannot be loaded.
func (s *FileService) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", s.path, err)
	}
	listings, err := ParseYAML(raw)
	if err != nil {
		return fmt.Errorf("catalog: %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.listings = listings
	s.mu.Unlock()
	return nil
}

// List implements Service.
func (s *FileService) List(ctx context.Context) ([]shoecard.ShoeListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneListings(s.listings), nil
}

// Get implements Service.
func (s *FileService) Get(ctx context.Context, slug string) (shoecard.ShoeListing, error) {
	if err := ctx.Err(); err != nil {
		return shoecard.ShoeListing{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findListing(s.listings, slug)
}

// ParseYAML decodes and validates a YAML catalog document.
func ParseYAML(raw []byte) ([]shoecard.ShoeListing, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	var problems []string
	listings := make([]shoecard.ShoeListing, 0, len(doc.Listings))
	for i, record := range doc.Listings {
		listing, err := record.toListing()
		if err != nil {
			problems = append(problems, fmt.Sprintf("listing %d: %v", i, err))
			continue
		}
		listings = append(listings, listing)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{problems: problems}
	}
	return normalizeListings(listings)
}

func (r fileRecord) toListing() (shoecard.ShoeListing, error) {
	listing := shoecard.ShoeListing{
		Slug:        r.Slug,
		Name:        r.Name,
		ImageSrc:    r.ImageSrc,
		NumOfColors: r.NumOfColors,
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return shoecard.ShoeListing{}, fmt.Errorf("invalid price %q", r.Price)
	}
	listing.Price = price

	if raw := strings.TrimSpace(r.SalePrice); raw != "" {
		sale, err := decimal.NewFromString(raw)
		if err != nil {
			return shoecard.ShoeListing{}, fmt.Errorf("invalid sale price %q", r.SalePrice)
		}
		listing.SalePrice = &sale
	}

	released, err := parseReleaseDate(r.ReleaseDate)
	if err != nil {
		return shoecard.ShoeListing{}, err
	}
	listing.ReleaseDate = released

	return listing, nil
}

func parseReleaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid release date %q", raw)
}

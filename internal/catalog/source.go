package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
)

// Source supplies the product catalog. An empty result means the source has no catalog yet.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Seeder is implemented by sources that can be populated with a catalog
type Seeder interface {
	Seed(ctx context.Context, products []models.Product) error
}

// StoreSource reads the catalog document from the document store
type StoreSource struct {
	store *store.Store
}

func NewStoreSource(s *store.Store) *StoreSource {
	return &StoreSource{store: s}
}

func (s *StoreSource) Products(ctx context.Context) ([]models.Product, error) {
	return s.store.LoadProducts(ctx)
}

func (s *StoreSource) Seed(ctx context.Context, products []models.Product) error {
	return s.store.SaveProducts(ctx, products)
}

// FileSource reads a JSON array of products from disk
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Products(_ context.Context) ([]models.Product, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", f.path, err)
	}
	return products, nil
}

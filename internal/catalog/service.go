// Package catalog loads the product catalog and answers browse and search queries over it.
package catalog

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// DefaultFeaturedCount is how many products Featured returns when asked for n <= 0
const DefaultFeaturedCount = 6

// Service holds the loaded catalog
type Service struct {
	source Source
	logger *zap.Logger

	mu       sync.RWMutex
	products []models.Product
	byID     map[string]int
	rng      *rand.Rand
}

// NewService creates a catalog service backed by source. A nil source serves the sample catalog.
func NewService(source Source) *Service {
	s := &Service{
		source: source,
		logger: util.Named("catalog"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.set(SampleProducts())
	return s
}

// Load refreshes the catalog from the source. It never fails: a source or decode
// error falls back to the sample catalog. An empty source is seeded when it can be.
func (s *Service) Load(ctx context.Context) {
	ctx, span := util.StartSpan(ctx, "catalog.Load")
	defer span.End()

	if s.source == nil {
		s.set(SampleProducts())
		return
	}

	products, err := s.source.Products(ctx)
	if err != nil {
		util.CatalogFallbackTotal.Inc()
		s.logger.Warn("Failed to load catalog, using sample catalog", zap.Error(err))
		s.set(SampleProducts())
		return
	}

	if len(products) == 0 {
		products = SampleProducts()
		if seeder, ok := s.source.(Seeder); ok {
			if err := seeder.Seed(ctx, products); err != nil {
				s.logger.Error("Failed to seed catalog", zap.Error(err))
			} else {
				s.logger.Info("Seeded catalog", zap.Int("products", len(products)))
			}
		}
	}

	s.set(products)
	s.logger.Info("Catalog loaded", zap.Int("products", len(products)))
}

func (s *Service) set(products []models.Product) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.mu.Unlock()
}

// Products returns a snapshot of the full catalog in catalog order
func (s *Service) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// Get looks up a product by id
func (s *Service) Get(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i].Clone(), true
}

func (s *Service) Search(query string) []models.Product {
	return Search(s.Products(), query)
}

func (s *Service) ByCategory(category string) []models.Product {
	return ByCategory(s.Products(), category)
}

// Featured returns up to n highly rated products in random order
func (s *Service) Featured(n int) []models.Product {
	if n <= 0 {
		n = DefaultFeaturedCount
	}
	products := s.Products()

	s.mu.Lock()
	defer s.mu.Unlock()
	return Featured(products, n, s.rng)
}

func (s *Service) Categories() []models.Category {
	return Categories()
}

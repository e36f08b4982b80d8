package service

import (
	"context"
	"sync"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// WishlistService owns every user's wishlist. Entries keep insertion order.
type WishlistService struct {
	store    *store.Store
	writer   *store.Writer
	events   events.Publisher
	products ProductLookup
	clock    Clock
	logger   *zap.Logger

	mu    sync.Mutex
	lists map[string][]models.Product
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(st *store.Store, writer *store.Writer, pub events.Publisher, products ProductLookup, clock Clock) *WishlistService {
	return &WishlistService{
		store:    st,
		writer:   writer,
		events:   pub,
		products: products,
		clock:    clock,
		logger:   util.Named("wishlist"),
		lists:    make(map[string][]models.Product),
	}
}

// Items returns the user's wishlist
func (s *WishlistService) Items(ctx context.Context, userID string) []models.Product {
	userID = normalizeUser(userID)
	s.load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.lists[userID])
}

// Contains reports whether productID is on the user's wishlist
func (s *WishlistService) Contains(ctx context.Context, userID, productID string) bool {
	userID = normalizeUser(userID)
	s.load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOfProduct(s.lists[userID], productID) >= 0
}

// Toggle adds the product when absent and removes it when present.
// It returns whether the product is on the wishlist afterwards.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	product, ok := s.products.Get(productID)
	if !ok {
		return false, ErrProductNotFound
	}

	var member bool
	s.mutate(ctx, userID, "toggle", func(items []models.Product) []models.Product {
		if i := indexOfProduct(items, productID); i >= 0 {
			member = false
			return append(items[:i], items[i+1:]...)
		}
		member = true
		return append(items, product)
	})
	return member, nil
}

// Add puts a product on the wishlist. Adding a present product changes nothing.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) ([]models.Product, error) {
	product, ok := s.products.Get(productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	return s.mutate(ctx, userID, "add", func(items []models.Product) []models.Product {
		if indexOfProduct(items, productID) >= 0 {
			return items
		}
		return append(items, product)
	}), nil
}

// Remove takes a product off the wishlist. Removing an absent product is a no-op.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) []models.Product {
	return s.mutate(ctx, userID, "remove", func(items []models.Product) []models.Product {
		if i := indexOfProduct(items, productID); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})
}

func (s *WishlistService) Clear(ctx context.Context, userID string) {
	s.mutate(ctx, userID, "clear", func([]models.Product) []models.Product { return nil })
}

func (s *WishlistService) mutate(ctx context.Context, userID, op string, fn func([]models.Product) []models.Product) []models.Product {
	userID = normalizeUser(userID)
	s.load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	items := fn(s.lists[userID])
	s.lists[userID] = items
	util.WishlistMutationsTotal.WithLabelValues(op).Inc()

	saved := cloneProducts(items)
	s.writer.Enqueue("save_wishlist", func(ctx context.Context) error {
		return s.store.SaveWishlist(ctx, userID, saved)
	})

	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	s.events.Publish(&models.WishlistUpdatedEvent{
		BaseEvent:  events.NewBase(models.EventTypeWishlistUpdated, s.clock.Now()),
		UserID:     userID,
		ProductIDs: ids,
	})

	return cloneProducts(items)
}

func (s *WishlistService) load(ctx context.Context, userID string) {
	s.mu.Lock()
	_, ok := s.lists[userID]
	s.mu.Unlock()
	if ok {
		return
	}

	items, err := s.store.LoadWishlist(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load wishlist, starting empty", zap.String("user_id", userID), zap.Error(err))
		items = nil
	}

	s.mu.Lock()
	if _, ok := s.lists[userID]; !ok {
		s.lists[userID] = items
	}
	s.mu.Unlock()
}

func indexOfProduct(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

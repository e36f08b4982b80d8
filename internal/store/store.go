package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Collections
const (
	CollectionCatalog   = "catalog"
	CollectionCarts     = "carts"
	CollectionWishlists = "wishlists"
	CollectionOrders    = "orders"
	CollectionUsers     = "users"
)

const catalogDocumentID = "products"

// ErrDecode marks a stored document that could not be decoded
var ErrDecode = errors.New("malformed document")

// DocumentStore loads and saves JSON documents by collection and id.
// Implementations: Postgres (remote), Redis (key-value) and Memory (no backend configured).
type DocumentStore interface {
	Load(ctx context.Context, collection, id string, dst interface{}) (bool, error)
	Save(ctx context.Context, collection, id string, v interface{}) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([][]byte, error)
	Close() error
}

type cartDocument struct {
	UserID    string            `json:"user_id"`
	Lines     []models.CartLine `json:"lines"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type wishlistDocument struct {
	UserID    string           `json:"user_id"`
	Products  []models.Product `json:"products"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type catalogDocument struct {
	Products []models.Product `json:"products"`
}

// Store is the typed persistence collaborator used by the services
type Store struct {
	docs   DocumentStore
	logger *zap.Logger
}

// New wraps a document store
func New(docs DocumentStore) *Store {
	return &Store{docs: docs, logger: util.Named("store")}
}

// Close closes the underlying document store
func (s *Store) Close() error {
	return s.docs.Close()
}

// LoadProducts returns the stored catalog in its stored order
func (s *Store) LoadProducts(ctx context.Context) ([]models.Product, error) {
	var doc catalogDocument
	found, err := s.docs.Load(ctx, CollectionCatalog, catalogDocumentID, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return doc.Products, nil
}

// SaveProducts replaces the stored catalog
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) error {
	return s.docs.Save(ctx, CollectionCatalog, catalogDocumentID, catalogDocument{Products: products})
}

// LoadCart returns the saved cart lines for a user, nil if none
func (s *Store) LoadCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	var doc cartDocument
	if _, err := s.docs.Load(ctx, CollectionCarts, userID, &doc); err != nil {
		return nil, err
	}
	return doc.Lines, nil
}

// SaveCart stores a cart snapshot
func (s *Store) SaveCart(ctx context.Context, userID string, lines []models.CartLine) error {
	return s.docs.Save(ctx, CollectionCarts, userID, cartDocument{
		UserID:    userID,
		Lines:     lines,
		UpdatedAt: time.Now().UTC(),
	})
}

// DeleteCart removes a user's saved cart
func (s *Store) DeleteCart(ctx context.Context, userID string) error {
	return s.docs.Delete(ctx, CollectionCarts, userID)
}

// LoadWishlist returns the saved wishlist for a user, nil if none
func (s *Store) LoadWishlist(ctx context.Context, userID string) ([]models.Product, error) {
	var doc wishlistDocument
	if _, err := s.docs.Load(ctx, CollectionWishlists, userID, &doc); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// SaveWishlist stores a wishlist snapshot
func (s *Store) SaveWishlist(ctx context.Context, userID string, products []models.Product) error {
	return s.docs.Save(ctx, CollectionWishlists, userID, wishlistDocument{
		UserID:    userID,
		Products:  products,
		UpdatedAt: time.Now().UTC(),
	})
}

// SaveOrder upserts an order document
func (s *Store) SaveOrder(ctx context.Context, order *models.Order) error {
	return s.docs.Save(ctx, CollectionOrders, order.ID, order)
}

// LoadOrders returns every stored order, most recent first.
// Documents that cannot be decoded are logged and skipped.
func (s *Store) LoadOrders(ctx context.Context) ([]models.Order, error) {
	bodies, err := s.docs.List(ctx, CollectionOrders)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(bodies))
	for _, body := range bodies {
		var o models.Order
		if err := json.Unmarshal(body, &o); err != nil {
			s.logger.Warn("Skipping malformed order document", zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}

// LoadUser loads a profile; found is false when it does not exist
func (s *Store) LoadUser(ctx context.Context, id string) (*models.User, bool, error) {
	var u models.User
	found, err := s.docs.Load(ctx, CollectionUsers, id, &u)
	if err != nil || !found {
		return nil, false, err
	}
	return &u, true, nil
}

// SaveUser upserts a profile
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	return s.docs.Save(ctx, CollectionUsers, u.ID, u)
}

func decode(collection, id string, body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrDecode, collection, id, err)
	}
	return nil
}

package service

import (
	"context"
	"sync"

	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CartView is a cart snapshot with its derived totals
type CartView struct {
	UserID    string            `json:"user_id"`
	Lines     []models.CartLine `json:"lines"`
	Totals    pricing.Totals    `json:"totals"`
	ItemCount int               `json:"item_count"`
}

func newCartView(userID string, lines []models.CartLine) CartView {
	return CartView{
		UserID:    userID,
		Lines:     lines,
		Totals:    pricing.ComputeTotals(lines),
		ItemCount: pricing.ItemCount(lines),
	}
}

// CartService owns every user's cart. Carts are loaded from the store on first use.
type CartService struct {
	store    *store.Store
	writer   *store.Writer
	events   events.Publisher
	products ProductLookup
	clock    Clock
	logger   *zap.Logger

	mu    sync.Mutex
	carts map[string][]models.CartLine
}

// NewCartService creates a new cart service
func NewCartService(st *store.Store, writer *store.Writer, pub events.Publisher, products ProductLookup, clock Clock) *CartService {
	return &CartService{
		store:    st,
		writer:   writer,
		events:   pub,
		products: products,
		clock:    clock,
		logger:   util.Named("cart"),
		carts:    make(map[string][]models.CartLine),
	}
}

// Get returns the user's cart with totals
func (s *CartService) Get(ctx context.Context, userID string) CartView {
	userID = normalizeUser(userID)
	s.load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return newCartView(userID, models.CloneLines(s.carts[userID]))
}

// Lines returns a snapshot of the user's cart lines
func (s *CartService) Lines(ctx context.Context, userID string) []models.CartLine {
	return s.Get(ctx, userID).Lines
}

// Quantity returns how many of productID are in the cart, 0 if none
func (s *CartService) Quantity(ctx context.Context, userID, productID string) int {
	userID = normalizeUser(userID)
	s.load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOfLine(s.carts[userID], productID); i >= 0 {
		return s.carts[userID][i].Quantity
	}
	return 0
}

// MaxLineQuantity caps the quantity of a single cart line
const MaxLineQuantity = 999

// Add puts qty of a catalog product in the cart. A product already present has its quantity increased.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (CartView, error) {
	if qty < 1 || qty > MaxLineQuantity {
		return CartView{}, ErrInvalidQuantity
	}
	product, ok := s.products.Get(productID)
	if !ok {
		return CartView{}, ErrProductNotFound
	}

	return s.mutate(ctx, userID, "add", func(lines []models.CartLine) ([]models.CartLine, error) {
		if i := indexOfLine(lines, productID); i >= 0 {
			if lines[i].Quantity > MaxLineQuantity-qty {
				return nil, ErrInvalidQuantity
			}
			lines[i].Quantity += qty
			return lines, nil
		}
		return append(lines, models.CartLine{Product: product, Quantity: qty}), nil
	})
}

// Remove deletes the line for productID. Removing an absent product is a no-op.
func (s *CartService) Remove(ctx context.Context, userID, productID string) CartView {
	view, _ := s.mutate(ctx, userID, "remove", func(lines []models.CartLine) ([]models.CartLine, error) {
		if i := indexOfLine(lines, productID); i >= 0 {
			return append(lines[:i], lines[i+1:]...), nil
		}
		return lines, nil
	})
	return view
}

// Increase adds one to an existing line
func (s *CartService) Increase(ctx context.Context, userID, productID string) (CartView, error) {
	return s.mutate(ctx, userID, "increase", func(lines []models.CartLine) ([]models.CartLine, error) {
		return setLineQuantity(lines, productID, func(q int) int { return q + 1 })
	})
}

// Decrease removes one from an existing line. A line reaching zero is removed.
func (s *CartService) Decrease(ctx context.Context, userID, productID string) CartView {
	view, _ := s.mutate(ctx, userID, "decrease", func(lines []models.CartLine) ([]models.CartLine, error) {
		return setLineQuantity(lines, productID, func(q int) int { return q - 1 })
	})
	return view
}

// SetQuantity sets an existing line's quantity. Zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, qty int) (CartView, error) {
	return s.mutate(ctx, userID, "set_quantity", func(lines []models.CartLine) ([]models.CartLine, error) {
		return setLineQuantity(lines, productID, func(int) int { return qty })
	})
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID string) CartView {
	view, _ := s.mutate(ctx, userID, "clear", func([]models.CartLine) ([]models.CartLine, error) {
		return nil, nil
	})
	return view
}

// RemoveLines takes the quantities in ordered out of the cart. Lines added after
// ordered was taken, and any quantity above it, stay in the cart.
func (s *CartService) RemoveLines(ctx context.Context, userID string, ordered []models.CartLine) CartView {
	view, _ := s.mutate(ctx, userID, "checkout", func(lines []models.CartLine) ([]models.CartLine, error) {
		for _, o := range ordered {
			if o.Quantity < 1 {
				continue
			}
			lines, _ = setLineQuantity(lines, o.Product.ID, func(q int) int { return q - o.Quantity })
		}
		return lines, nil
	})
	return view
}

func (s *CartService) mutate(ctx context.Context, userID, op string, fn func([]models.CartLine) ([]models.CartLine, error)) (CartView, error) {
	userID = normalizeUser(userID)
	s.load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := fn(s.carts[userID])
	if err != nil {
		return CartView{}, err
	}
	s.carts[userID] = lines
	util.CartMutationsTotal.WithLabelValues(op).Inc()

	view := newCartView(userID, models.CloneLines(lines))
	if len(lines) == 0 {
		s.writer.Enqueue("delete_cart", func(ctx context.Context) error {
			return s.store.DeleteCart(ctx, userID)
		})
	} else {
		saved := models.CloneLines(lines)
		s.writer.Enqueue("save_cart", func(ctx context.Context) error {
			return s.store.SaveCart(ctx, userID, saved)
		})
	}
	s.events.Publish(&models.CartUpdatedEvent{
		BaseEvent: events.NewBase(models.EventTypeCartUpdated, s.clock.Now()),
		UserID:    userID,
		ItemCount: view.ItemCount,
		Subtotal:  view.Totals.Subtotal,
	})

	return view, nil
}

// load reads the user's cart from the store once. A failed load starts an empty cart.
func (s *CartService) load(ctx context.Context, userID string) {
	s.mu.Lock()
	_, ok := s.carts[userID]
	s.mu.Unlock()
	if ok {
		return
	}

	lines, err := s.store.LoadCart(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load cart, starting empty", zap.String("user_id", userID), zap.Error(err))
		lines = nil
	}

	s.mu.Lock()
	if _, ok := s.carts[userID]; !ok {
		s.carts[userID] = dropEmptyLines(lines)
	}
	s.mu.Unlock()
}

func indexOfLine(lines []models.CartLine, productID string) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// setLineQuantity applies next to the line for productID, removing it at zero or less.
// Absent products are left alone.
func setLineQuantity(lines []models.CartLine, productID string, next func(int) int) ([]models.CartLine, error) {
	i := indexOfLine(lines, productID)
	if i < 0 {
		return lines, nil
	}
	q := next(lines[i].Quantity)
	if q > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	if q <= 0 {
		return append(lines[:i], lines[i+1:]...), nil
	}
	lines[i].Quantity = q
	return lines, nil
}

func dropEmptyLines(lines []models.CartLine) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

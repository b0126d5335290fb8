package cart

import (
	"context"
	"errors"
	"time"

	"github.com/kiyotomatcha/storefront/core/catalog"
	"github.com/sirupsen/logrus"
)

// ErrEmptyCart rejects a checkout on a cart with no lines.
var ErrEmptyCart = errors.New("no items to checkout")

// Adapter is the persistence slot the store mirrors itself into. The slot
// is passive: it is read once when the store is built and rewritten after
// every mutation, but it is never the source of truth while the store
// lives in memory.
type Adapter interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// Store owns a visitor's cart for the duration of one event turn. It is
// not safe for concurrent use; every visitor operates on their own
// instance. Persistence failures degrade to in-memory-only operation and
// are only logged, so the cart stays usable when the slot is unavailable.
type Store struct {
	adapter Adapter
	log     logrus.FieldLogger
	lines   []Line
}

// NewStore builds a store from whatever the slot holds. An absent,
// unreadable or malformed slot yields an empty cart, never an error.
func NewStore(ctx context.Context, adapter Adapter, log logrus.FieldLogger) *Store {
	s := &Store{adapter: adapter, log: log}

	lines, err := adapter.Load(ctx)
	if err != nil {
		log.WithError(err).Warn("cart: discarding unreadable slot, starting empty")
		return s
	}

	s.lines = lines
	return s
}

// AddOrIncrement puts one unit of the entry in the cart: a new line with
// quantity 1 on first add, one more unit on an existing line. Entries that
// are not purchasable are silently ignored. It reports whether the cart
// changed, so callers can raise the "just added" signal.
func (s *Store) AddOrIncrement(ctx context.Context, e catalog.Entry) bool {
	if !e.Purchasable() {
		return false
	}

	if i := s.find(e.ID); i >= 0 {
		s.lines[i].Quantity++
		s.persist(ctx)
		return true
	}

	price, _ := e.Price()
	s.lines = append(s.lines, Line{
		ProductID: e.ID,
		Title:     e.Name,
		UnitPrice: price,
		Image:     e.Image,
		Quantity:  1,
	})
	s.persist(ctx)
	return true
}

// Increment adds one unit to an existing line. Unknown products are a
// benign no-op.
func (s *Store) Increment(ctx context.Context, productID int) bool {
	i := s.find(productID)
	if i < 0 {
		return false
	}

	s.lines[i].Quantity++
	s.persist(ctx)
	return true
}

// Decrement takes one unit off a line, removing the line when the
// quantity would drop to zero. A quantity below one is never stored.
func (s *Store) Decrement(ctx context.Context, productID int) bool {
	i := s.find(productID)
	if i < 0 {
		return false
	}

	s.lines[i].Quantity--
	if s.lines[i].Quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	s.persist(ctx)
	return true
}

// Remove deletes a line outright regardless of quantity.
func (s *Store) Remove(ctx context.Context, productID int) bool {
	i := s.find(productID)
	if i < 0 {
		return false
	}

	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
	return true
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	s.persist(ctx)
}

// Checkout freezes the current lines and subtotal into a receipt, clears
// the cart and rewrites the slot. The in-memory transition is atomic: the
// receipt is fully built before any line is dropped, so no partial state
// is ever observable. An empty cart returns ErrEmptyCart unchanged.
func (s *Store) Checkout(ctx context.Context) (Receipt, error) {
	if len(s.lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	rcp := newReceipt(s.lines, s.Subtotal(), time.Now().UTC())

	s.lines = nil
	s.persist(ctx)

	return rcp, nil
}

// Subtotal is the sum of unit price times quantity over all lines,
// recomputed on every call.
func (s *Store) Subtotal() float64 {
	var sum float64
	for _, l := range s.lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// TotalItems is the total unit count across all lines.
func (s *Store) TotalItems() int {
	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) find(productID int) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) {
	if err := s.adapter.Save(ctx, s.lines); err != nil {
		s.log.WithError(err).Warn("cart: persisting failed, continuing in memory")
	}
}

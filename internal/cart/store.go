package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a snapshot of a product held in a cart.
type LineItem struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Image     *string
	Quantity  int
}

// Subtotal returns price multiplied by quantity without rounding.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type cartState struct {
	lines []LineItem
}

// Store keeps carts in memory keyed by an opaque client token.
type Store struct {
	mu    sync.Mutex
	carts map[string]*cartState
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[string]*cartState)}
}

// NewToken mints an opaque cart token.
func NewToken() string {
	return uuid.NewString()
}

// Add inserts the item or increments the quantity of an existing line.
// It returns the resulting quantity for the product.
func (s *Store) Add(token string, item LineItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[token]
	if !ok {
		state = &cartState{}
		s.carts[token] = state
	}

	for i := range state.lines {
		if state.lines[i].ProductID == item.ProductID {
			state.lines[i].Quantity += item.Quantity
			return state.lines[i].Quantity
		}
	}

	state.lines = append(state.lines, item)
	return item.Quantity
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// removes the line. It reports whether the product was present.
func (s *Store) SetQuantity(token string, productID uuid.UUID, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[token]
	if !ok {
		return false
	}

	for i := range state.lines {
		if state.lines[i].ProductID != productID {
			continue
		}
		if quantity == 0 {
			state.lines = append(state.lines[:i], state.lines[i+1:]...)
		} else {
			state.lines[i].Quantity = quantity
		}
		return true
	}
	return false
}

// Remove deletes a line from the cart. It reports whether the product was present.
func (s *Store) Remove(token string, productID uuid.UUID) bool {
	return s.SetQuantity(token, productID, 0)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items(token string) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[token]
	if !ok {
		return nil
	}
	return append([]LineItem(nil), state.lines...)
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[token]
	if !ok {
		return 0
	}
	count := 0
	for _, line := range state.lines {
		count += line.Quantity
	}
	return count
}

// Total returns the exact sum of line subtotals.
func (s *Store) Total(token string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	state, ok := s.carts[token]
	if !ok {
		return total
	}
	for _, line := range state.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Clear drops the cart for the token.
func (s *Store) Clear(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
}

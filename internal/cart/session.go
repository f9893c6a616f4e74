package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
	"github.com/ramosjarod04-creator/DejaBrew/internal/pricing"
	"github.com/ramosjarod04-creator/DejaBrew/internal/stock"
)

var (
	ErrProductUnavailable = errors.New("product is out of stock")
	ErrExceedsStock       = errors.New("cannot add more than available stock")
	ErrLineNotFound       = errors.New("item is not in the cart")
	ErrWouldRemove        = errors.New("quantity change would remove the item")
)

// Session owns one checkout's cart lines and discount state. It is the
// explicit replacement for the ambient page-level cart: calculators receive
// its data as arguments and the session itself holds no catalog or network
// handles. Lines live only in memory and are discarded on clear or on
// successful submission.
//
// All methods are safe for concurrent use; mu serializes line mutations
// while the discount state machine guards itself.
type Session struct {
	ID string

	mu       sync.Mutex
	lines    []Line
	discount *pricing.SelectionState
}

func NewSession() *Session {
	return &Session{
		ID:       uuid.New().String(),
		discount: pricing.NewSelectionState(),
	}
}

func (s *Session) line(productID int64) (*Line, bool) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return &s.lines[i], true
		}
	}
	return nil, false
}

// validateQuantity checks a prospective line quantity against the product's
// availability signal: its own counter for direct-stocked products, the
// recipe calculation otherwise.
func validateQuantity(p catalog.Product, ingredients *catalog.IngredientIndex, quantity int64) error {
	switch {
	case p.DirectStocked():
		if quantity > p.Stock {
			return ErrExceedsStock
		}
		return nil
	case p.RecipeTracked():
		if ok, limiting := stock.CanProduce(p, ingredients, quantity); !ok {
			return &AvailabilityError{Product: p.Name, Ingredient: limiting}
		}
		return nil
	default:
		return ErrProductUnavailable
	}
}

// Add puts one unit of the product in the cart, merging into an existing
// line. The catalog price is snapshotted on first add.
func (s *Session) Add(p catalog.Product, ingredients *catalog.IngredientIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inCart int64
	if line, ok := s.line(p.ID); ok {
		inCart = line.Quantity
	}

	if err := validateQuantity(p, ingredients, inCart+1); err != nil {
		return err
	}

	if line, ok := s.line(p.ID); ok {
		line.Quantity++
		return nil
	}
	s.lines = append(s.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	})
	return nil
}

// Adjust changes a line's quantity by delta (the +/- buttons). Dropping to
// zero or below is not performed here: the caller gets ErrWouldRemove and
// must go through the admin-gated void path.
func (s *Session) Adjust(productID int64, delta int64, p catalog.Product, ingredients *catalog.IngredientIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.line(productID)
	if !ok {
		return ErrLineNotFound
	}

	next := line.Quantity + delta
	if next <= 0 {
		return ErrWouldRemove
	}
	if err := validateQuantity(p, ingredients, next); err != nil {
		return err
	}
	line.Quantity = next
	return nil
}

// SetQuantity applies a direct quantity edit. The input is first clamped
// into 1..MaxLineQuantity; a direct-stocked product further clamps to its
// counter, while a recipe shortfall rejects the edit and keeps the current
// quantity. Returns the quantity actually applied.
func (s *Session) SetQuantity(productID int64, quantity int64, p catalog.Product, ingredients *catalog.IngredientIndex) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.line(productID)
	if !ok {
		return 0, ErrLineNotFound
	}

	if quantity < 1 {
		quantity = 1
	} else if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}

	switch {
	case p.DirectStocked():
		if quantity > p.Stock {
			quantity = p.Stock
		}
	case p.RecipeTracked():
		if ok, limiting := stock.CanProduce(p, ingredients, quantity); !ok {
			return line.Quantity, &AvailabilityError{Product: p.Name, Ingredient: limiting}
		}
	default:
		return line.Quantity, ErrProductUnavailable
	}

	line.Quantity = quantity
	return quantity, nil
}

// Remove voids a line. The caller is responsible for admin gating.
func (s *Session) Remove(productID int64) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			removed := s.lines[i]
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return removed, nil
		}
	}
	return Line{}, ErrLineNotFound
}

// SetAddOns replaces a line's add-ons (the modify flow); an empty slice
// clears them.
func (s *Session) SetAddOns(productID int64, addOns []AddOn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.line(productID)
	if !ok {
		return ErrLineNotFound
	}
	line.AddOns = addOns
	return nil
}

// Lines returns a copy of the cart in insertion order.
func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// ItemCount is the badge figure: total units across lines.
func (s *Session) ItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Discount exposes the session's discount state machine.
func (s *Session) Discount() *pricing.SelectionState {
	return s.discount
}

// Totals computes the current breakdown under the active discount.
func (s *Session) Totals() pricing.Totals {
	s.mu.Lock()
	priced := make([]pricing.PricedLine, 0, len(s.lines))
	for _, l := range s.lines {
		priced = append(priced, l.Priced())
	}
	s.mu.Unlock()

	return pricing.ComputeTotals(priced, s.discount.Current())
}

// Clear discards all lines and resets the discount state.
func (s *Session) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.discount.Reset()
}

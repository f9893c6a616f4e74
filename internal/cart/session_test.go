package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
	"github.com/ramosjarod04-creator/DejaBrew/internal/pricing"
	"github.com/ramosjarod04-creator/DejaBrew/internal/stock"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func snapshot(stocks map[string]string) *catalog.IngredientIndex {
	var ingredients []catalog.Ingredient
	for name, qty := range stocks {
		ingredients = append(ingredients, catalog.Ingredient{Name: name, MainStock: dec(qty)})
	}
	return catalog.NewIngredientIndex(ingredients)
}

var (
	croffle = catalog.Product{ID: 1, Name: "Croffle", Price: dec("95"), Stock: 2}
	latte   = catalog.Product{
		ID:    2,
		Name:  "Latte",
		Price: dec("120"),
		Recipe: []catalog.RecipeLine{
			{Ingredient: "Milk", Quantity: dec("2")},
			{Ingredient: "Espresso", Quantity: dec("1")},
		},
	}
	ghost = catalog.Product{ID: 3, Name: "Seasonal Special", Price: dec("150")}
)

func TestAdd_DirectStockLimit(t *testing.T) {
	s := NewSession()
	snap := snapshot(nil)

	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if err := s.Add(croffle, snap); !errors.Is(err, ErrExceedsStock) {
		t.Fatalf("third add should exceed stock, got %v", err)
	}
	if s.ItemCount() != 2 {
		t.Errorf("item count = %d, want 2", s.ItemCount())
	}
}

func TestAdd_RecipeValidatedAgainstSnapshot(t *testing.T) {
	s := NewSession()
	snap := snapshot(map[string]string{"Milk": "4", "Espresso": "10"})

	// Milk allows exactly 2 lattes.
	for i := 0; i < 2; i++ {
		if err := s.Add(latte, snap); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}

	// Two lattes are still producible, so no single ingredient is named;
	// the generic sentinel reports the shortfall.
	err := s.Add(latte, snap)
	var avail *AvailabilityError
	if !errors.As(err, &avail) {
		t.Fatalf("expected AvailabilityError, got %v", err)
	}
	if avail.Ingredient != stock.Sentinel {
		t.Errorf("limiting ingredient = %q, want %q", avail.Ingredient, stock.Sentinel)
	}
}

func TestAdd_ZeroStockNamesIngredient(t *testing.T) {
	s := NewSession()
	snap := snapshot(map[string]string{"Milk": "0", "Espresso": "10"})

	err := s.Add(latte, snap)
	var avail *AvailabilityError
	if !errors.As(err, &avail) {
		t.Fatalf("expected AvailabilityError, got %v", err)
	}
	if avail.Ingredient != "Milk" {
		t.Errorf("limiting ingredient = %q, want Milk", avail.Ingredient)
	}
}

func TestAdd_NoStockNoRecipeUnavailable(t *testing.T) {
	s := NewSession()
	if err := s.Add(ghost, snapshot(nil)); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestAdd_PriceSnapshottedAtAddTime(t *testing.T) {
	s := NewSession()
	snap := snapshot(map[string]string{"Milk": "100", "Espresso": "100"})
	if err := s.Add(latte, snap); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A later catalog price change must not alter the line.
	repriced := latte
	repriced.Price = dec("999")
	if err := s.Adjust(latte.ID, 1, repriced, snap); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	line := s.Lines()[0]
	if !line.UnitPrice.Equal(dec("120")) {
		t.Errorf("unit price = %s, want snapshot 120", line.UnitPrice)
	}
	if !s.Totals().Subtotal.Equal(dec("240")) {
		t.Errorf("subtotal = %s, want 240", s.Totals().Subtotal)
	}
}

func TestAdjust_DecrementToZeroRequiresVoid(t *testing.T) {
	s := NewSession()
	snap := snapshot(nil)
	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Adjust(croffle.ID, -1, croffle, snap); !errors.Is(err, ErrWouldRemove) {
		t.Fatalf("expected ErrWouldRemove, got %v", err)
	}
	if s.Empty() {
		t.Fatal("line must survive until voided")
	}
}

func TestSetQuantity_ClampsIntoRange(t *testing.T) {
	s := NewSession()
	snap := snapshot(map[string]string{"Milk": "10000", "Espresso": "10000"})
	if err := s.Add(latte, snap); err != nil {
		t.Fatalf("add: %v", err)
	}

	applied, err := s.SetQuantity(latte.ID, 0, latte, snap)
	if err != nil || applied != 1 {
		t.Errorf("quantity 0 should clamp to 1, got (%d, %v)", applied, err)
	}

	applied, err = s.SetQuantity(latte.ID, 5000, latte, snap)
	if err != nil || applied != MaxLineQuantity {
		t.Errorf("quantity 5000 should clamp to %d, got (%d, %v)", MaxLineQuantity, applied, err)
	}
}

func TestSetQuantity_DirectStockClampsToCounter(t *testing.T) {
	s := NewSession()
	snap := snapshot(nil)
	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("add: %v", err)
	}

	applied, err := s.SetQuantity(croffle.ID, 50, croffle, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != croffle.Stock {
		t.Errorf("applied = %d, want clamp to stock %d", applied, croffle.Stock)
	}
}

func TestSetQuantity_RecipeShortfallKeepsCurrent(t *testing.T) {
	s := NewSession()
	snap := snapshot(map[string]string{"Milk": "6", "Espresso": "10"})
	if err := s.Add(latte, snap); err != nil {
		t.Fatalf("add: %v", err)
	}

	applied, err := s.SetQuantity(latte.ID, 10, latte, snap)
	var avail *AvailabilityError
	if !errors.As(err, &avail) {
		t.Fatalf("expected AvailabilityError, got %v", err)
	}
	if applied != 1 {
		t.Errorf("rejected edit must keep current quantity, got %d", applied)
	}
}

func TestRemove(t *testing.T) {
	s := NewSession()
	snap := snapshot(nil)
	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := s.Remove(croffle.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Name != "Croffle" || !s.Empty() {
		t.Errorf("remove left cart in bad state: %+v, empty=%v", removed, s.Empty())
	}

	if _, err := s.Remove(croffle.ID); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestAddOnsIncludedInTotals(t *testing.T) {
	s := NewSession()
	snap := snapshot(nil)
	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.SetQuantity(croffle.ID, 2, croffle, snap); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if err := s.SetAddOns(croffle.ID, []AddOn{{ID: 9, Name: "Espresso Shot", Price: dec("25")}}); err != nil {
		t.Fatalf("set add-ons: %v", err)
	}

	// (95 + 25) * 2
	if got := s.Totals().Subtotal; !got.Equal(dec("240")) {
		t.Errorf("subtotal = %s, want 240", got)
	}

	// Clearing add-ons restores the base price.
	if err := s.SetAddOns(croffle.ID, nil); err != nil {
		t.Fatalf("clear add-ons: %v", err)
	}
	if got := s.Totals().Subtotal; !got.Equal(dec("190")) {
		t.Errorf("subtotal = %s, want 190", got)
	}
}

func TestClear_ResetsLinesAndDiscount(t *testing.T) {
	s := NewSession()
	snap := snapshot(nil)
	if err := s.Add(croffle, snap); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.Discount().Open()
	if err := s.Discount().Apply(pricing.Selection{Kind: pricing.Senior, IDNumber: "12345"}); err != nil {
		t.Fatalf("apply discount: %v", err)
	}

	s.Clear()

	if !s.Empty() {
		t.Error("lines must be discarded")
	}
	if s.Discount().Locked() || s.Discount().Current().Statutory() {
		t.Error("discount state must reset with the cart")
	}
}

package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/pricing"
)

// MaxLineQuantity caps a single line; direct edits clamp into 1..999.
const MaxLineQuantity = 999

// AddOn is an extra attached to a cart line, priced per unit of the line.
type AddOn struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one cart entry. UnitPrice is captured when the product is added
// and never re-fetched on mutation, so a catalog price change elsewhere does
// not retroactively alter an in-progress cart.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	AddOns    []AddOn         `json:"add_ons"`
}

// AddOnUnitTotal sums the line's add-on prices for one unit.
func (l Line) AddOnUnitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.AddOns {
		total = total.Add(a.Price)
	}
	return total
}

// Priced converts the line for the totals calculator.
func (l Line) Priced() pricing.PricedLine {
	return pricing.PricedLine{
		UnitPrice:  l.UnitPrice,
		AddOnTotal: l.AddOnUnitTotal(),
		Quantity:   l.Quantity,
	}
}

// AvailabilityError refuses a mutation that would exceed recipe-derived
// stock, naming the bottleneck ingredient.
type AvailabilityError struct {
	Product    string
	Ingredient string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("not enough main stock of %s for %s", e.Ingredient, e.Product)
}

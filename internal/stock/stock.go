package stock

import (
	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
)

// Sentinel reported by CanProduce when a request exceeds availability but no
// single ingredient can be named (degenerate recipe with no constraining line).
const Sentinel = "Stock"

// Availability is the result of a recipe feasibility check. Bottleneck is
// empty whenever at least one more unit can be made.
type Availability struct {
	MaxUnits   int64
	Bottleneck string
}

// MaxProducible computes how many units of a recipe-tracked product can be
// made from the given ingredient snapshot, and which ingredient runs out
// first. Callers must special-case direct-stock products: an empty recipe
// yields zero here, not the product's own counter.
//
// An ingredient referenced by the recipe but absent from the snapshot is a
// hard stock-out. A recipe whose lines all have non-positive quantities
// constrains nothing and is treated as making zero, never infinite.
func MaxProducible(p catalog.Product, ingredients *catalog.IngredientIndex) Availability {
	if len(p.Recipe) == 0 {
		return Availability{}
	}

	var (
		minUnits    decimal.Decimal
		bottleneck  string
		constrained bool
	)

	for _, line := range p.Recipe {
		ing, ok := ingredients.Lookup(line.Ingredient)
		if !ok {
			return Availability{Bottleneck: line.Ingredient}
		}

		if line.Quantity.Sign() <= 0 {
			continue
		}

		if ing.MainStock.Sign() <= 0 {
			return Availability{Bottleneck: line.Ingredient}
		}

		units := ing.MainStock.Div(line.Quantity)

		// Strict comparison keeps the first ingredient in recipe order
		// when two lines tie for the minimum.
		if !constrained || units.LessThan(minUnits) {
			minUnits = units
			bottleneck = line.Ingredient
			constrained = true
		}
	}

	if !constrained {
		return Availability{}
	}

	max := minUnits.Floor().IntPart()
	if max > 0 {
		return Availability{MaxUnits: max}
	}
	return Availability{Bottleneck: bottleneck}
}

// CanProduce reports whether the requested quantity of a recipe-tracked
// product can be made from the snapshot. When it cannot, the limiting
// ingredient is named, falling back to the generic Sentinel if none was
// identified.
func CanProduce(p catalog.Product, ingredients *catalog.IngredientIndex, quantity int64) (bool, string) {
	avail := MaxProducible(p, ingredients)
	if quantity <= avail.MaxUnits {
		return true, ""
	}
	if avail.Bottleneck != "" {
		return false, avail.Bottleneck
	}
	return false, Sentinel
}

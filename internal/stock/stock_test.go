package stock

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func index(stocks map[string]string) *catalog.IngredientIndex {
	var ingredients []catalog.Ingredient
	for name, qty := range stocks {
		ingredients = append(ingredients, catalog.Ingredient{
			Name:      name,
			Unit:      "ml",
			MainStock: dec(qty),
		})
	}
	return catalog.NewIngredientIndex(ingredients)
}

func recipeProduct(lines ...catalog.RecipeLine) catalog.Product {
	return catalog.Product{ID: 1, Name: "Latte", Price: dec("120"), Recipe: lines}
}

func TestMaxProducible_SingleConstraint(t *testing.T) {
	p := recipeProduct(catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")})
	got := MaxProducible(p, index(map[string]string{"Milk": "10"}))

	if got.MaxUnits != 5 {
		t.Fatalf("expected 5 units, got %d", got.MaxUnits)
	}
	if got.Bottleneck != "" {
		t.Errorf("expected no bottleneck, got %q", got.Bottleneck)
	}
}

func TestMaxProducible_FloorsFractionalRatio(t *testing.T) {
	p := recipeProduct(catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("3")})
	got := MaxProducible(p, index(map[string]string{"Milk": "10"}))

	if got.MaxUnits != 3 {
		t.Fatalf("expected floor(10/3)=3, got %d", got.MaxUnits)
	}
}

func TestMaxProducible_ReportsTightestIngredient(t *testing.T) {
	p := recipeProduct(
		catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")},
		catalog.RecipeLine{Ingredient: "Sugar", Quantity: dec("1")},
	)
	// Milk allows 5 units, Sugar allows 3.
	got := MaxProducible(p, index(map[string]string{"Milk": "10", "Sugar": "3.5"}))

	if got.MaxUnits != 3 {
		t.Fatalf("expected 3 units, got %d", got.MaxUnits)
	}
	if got.Bottleneck != "" {
		t.Errorf("units remain, bottleneck should be empty, got %q", got.Bottleneck)
	}
}

func TestMaxProducible_MissingIngredientIsHardStockOut(t *testing.T) {
	p := recipeProduct(
		catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("1")},
		catalog.RecipeLine{Ingredient: "Espresso", Quantity: dec("1")},
	)
	got := MaxProducible(p, index(map[string]string{"Milk": "1000"}))

	if got.MaxUnits != 0 {
		t.Fatalf("expected 0 units, got %d", got.MaxUnits)
	}
	if got.Bottleneck != "Espresso" {
		t.Errorf("expected missing ingredient named, got %q", got.Bottleneck)
	}
}

func TestMaxProducible_ZeroStockNamedImmediately(t *testing.T) {
	p := recipeProduct(
		catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("1")},
		catalog.RecipeLine{Ingredient: "Sugar", Quantity: dec("1")},
	)
	got := MaxProducible(p, index(map[string]string{"Milk": "0", "Sugar": "50"}))

	if got.MaxUnits != 0 || got.Bottleneck != "Milk" {
		t.Fatalf("expected (0, Milk), got (%d, %q)", got.MaxUnits, got.Bottleneck)
	}
}

func TestMaxProducible_EmptyRecipe(t *testing.T) {
	got := MaxProducible(catalog.Product{Name: "Bottled Water"}, index(nil))
	if got.MaxUnits != 0 || got.Bottleneck != "" {
		t.Fatalf("expected (0, none), got (%d, %q)", got.MaxUnits, got.Bottleneck)
	}
}

func TestMaxProducible_DegenerateLinesConstrainNothing(t *testing.T) {
	p := recipeProduct(
		catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("0")},
		catalog.RecipeLine{Ingredient: "Sugar", Quantity: dec("-1")},
	)
	got := MaxProducible(p, index(map[string]string{"Milk": "100", "Sugar": "100"}))

	if got.MaxUnits != 0 || got.Bottleneck != "" {
		t.Fatalf("degenerate recipe must make zero with no bottleneck, got (%d, %q)", got.MaxUnits, got.Bottleneck)
	}
}

func TestMaxProducible_TieBreakPrefersFirstInRecipeOrder(t *testing.T) {
	p := recipeProduct(
		catalog.RecipeLine{Ingredient: "Cream", Quantity: dec("2")},
		catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")},
	)
	// Both allow 0 whole units at the same ratio; the first line wins.
	got := MaxProducible(p, index(map[string]string{"Cream": "1", "Milk": "1"}))

	if got.MaxUnits != 0 {
		t.Fatalf("expected 0 units, got %d", got.MaxUnits)
	}
	if got.Bottleneck != "Cream" {
		t.Errorf("expected first tied ingredient, got %q", got.Bottleneck)
	}
}

func TestMaxProducible_Idempotent(t *testing.T) {
	p := recipeProduct(
		catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")},
		catalog.RecipeLine{Ingredient: "Sugar", Quantity: dec("0.5")},
	)
	snap := index(map[string]string{"Milk": "7", "Sugar": "9"})

	first := MaxProducible(p, snap)
	second := MaxProducible(p, snap)

	if first != second {
		t.Fatalf("same snapshot must yield identical results: %+v vs %+v", first, second)
	}
}

func TestCanProduce_WithinAvailability(t *testing.T) {
	p := recipeProduct(catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")})
	snap := index(map[string]string{"Milk": "10"})

	ok, limiting := CanProduce(p, snap, 5)
	if !ok || limiting != "" {
		t.Fatalf("5 of 5 should be producible, got ok=%v limiting=%q", ok, limiting)
	}
}

func TestCanProduce_ExceedsAvailability(t *testing.T) {
	p := recipeProduct(catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")})
	snap := index(map[string]string{"Milk": "10"})

	ok, limiting := CanProduce(p, snap, 6)
	if ok {
		t.Fatal("6 of 5 must be refused")
	}
	// With units still producible the check names no single ingredient,
	// so the generic sentinel is reported.
	if limiting != Sentinel {
		t.Errorf("expected %q, got %q", Sentinel, limiting)
	}
}

func TestCanProduce_NamesBottleneckWhenNothingProducible(t *testing.T) {
	p := recipeProduct(catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("2")})
	snap := index(map[string]string{"Milk": "1"})

	ok, limiting := CanProduce(p, snap, 1)
	if ok {
		t.Fatal("expected refusal when nothing is producible")
	}
	if limiting != "Milk" {
		t.Errorf("expected Milk, got %q", limiting)
	}
}

func TestCanProduce_DegenerateRecipeUsesSentinel(t *testing.T) {
	p := recipeProduct(catalog.RecipeLine{Ingredient: "Milk", Quantity: dec("0")})
	snap := index(map[string]string{"Milk": "100"})

	ok, limiting := CanProduce(p, snap, 1)
	if ok {
		t.Fatal("degenerate recipe must refuse any quantity")
	}
	if limiting != Sentinel {
		t.Errorf("expected %q sentinel, got %q", Sentinel, limiting)
	}
}

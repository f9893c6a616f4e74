package catalog

import "github.com/shopspring/decimal"

// Ingredient mirrors the inventory API payload. MainStock is the only
// quantity availability checks read; StockRoom is a transfer buffer managed
// upstream and never consulted at sale time.
type Ingredient struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Category  string          `json:"category"`
	MainStock decimal.Decimal `json:"mainStock"`
	StockRoom decimal.Decimal `json:"stockRoom"`
	Status    string          `json:"status"`
}

// RecipeLine is one ingredient requirement of a product: how much of the
// named ingredient one unit of the product consumes.
type RecipeLine struct {
	Ingredient string          `json:"ingredient"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Product is a sellable item. A product is either direct-stock-tracked
// (Stock > 0, empty recipe) or recipe-tracked (non-empty Recipe); with
// neither signal it is unavailable.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
	Recipe   []RecipeLine    `json:"recipe"`
	Category string          `json:"category"`
	ImageURL string          `json:"image_url"`
}

// DirectStocked reports whether availability comes from the product's own
// unit counter rather than its recipe.
func (p Product) DirectStocked() bool {
	return p.Stock > 0
}

// RecipeTracked reports whether availability is derived from shared
// ingredient stock.
func (p Product) RecipeTracked() bool {
	return len(p.Recipe) > 0
}

// AddOnCategory is the product category offered as optional extras on a
// cart line.
const AddOnCategory = "Add Ons"

// IngredientIndex is a read-only snapshot of ingredient stock keyed by
// exact name. Calculators treat it as immutable; a fresh index replaces the
// old one wholesale on refetch.
type IngredientIndex struct {
	byName map[string]Ingredient
	all    []Ingredient
}

func NewIngredientIndex(ingredients []Ingredient) *IngredientIndex {
	ix := &IngredientIndex{
		byName: make(map[string]Ingredient, len(ingredients)),
		all:    ingredients,
	}
	for _, ing := range ingredients {
		ix.byName[ing.Name] = ing
	}
	return ix
}

func (ix *IngredientIndex) Lookup(name string) (Ingredient, bool) {
	ing, ok := ix.byName[name]
	return ing, ok
}

func (ix *IngredientIndex) All() []Ingredient {
	return ix.all
}

func (ix *IngredientIndex) Len() int {
	return len(ix.all)
}

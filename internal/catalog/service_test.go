package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/notify"
)

type stubFetcher struct {
	products       []Product
	ingredients    []Ingredient
	productsErr    error
	ingredientsErr error
}

func (f *stubFetcher) Products(ctx context.Context) ([]Product, error) {
	return f.products, f.productsErr
}

func (f *stubFetcher) Ingredients(ctx context.Context) ([]Ingredient, error) {
	return f.ingredients, f.ingredientsErr
}

func newTestService(t *testing.T, f *stubFetcher) *Service {
	t.Helper()
	return NewService(f, NewIngredientCache(t.TempDir()), notify.NewBus())
}

func TestRefresh_PopulatesSnapshot(t *testing.T) {
	f := &stubFetcher{
		products: []Product{
			{ID: 1, Name: "Latte", Price: decimal.NewFromInt(120)},
			{ID: 2, Name: "Croffle", Price: decimal.NewFromInt(95), Stock: 4},
		},
		ingredients: []Ingredient{{Name: "Milk", MainStock: decimal.NewFromInt(10)}},
	}
	s := newTestService(t, f)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if len(s.Products()) != 2 {
		t.Errorf("expected 2 products, got %d", len(s.Products()))
	}
	if _, ok := s.Product(2); !ok {
		t.Error("product lookup by id failed")
	}
	if _, ok := s.Ingredients().Lookup("Milk"); !ok {
		t.Error("ingredient lookup failed")
	}
}

func TestRefresh_IngredientFailureFallsBackToCache(t *testing.T) {
	dir := t.TempDir()
	cache := NewIngredientCache(dir)
	if err := cache.Save([]Ingredient{{Name: "Sugar", Unit: "g", MainStock: decimal.NewFromInt(250)}}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	f := &stubFetcher{ingredientsErr: errors.New("store down")}
	s := NewService(f, cache, notify.NewBus())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh should survive on cache: %v", err)
	}
	if _, ok := s.Ingredients().Lookup("Sugar"); !ok {
		t.Error("cached ingredients not loaded")
	}
}

func TestRefresh_NoCacheAndNoStoreFails(t *testing.T) {
	f := &stubFetcher{ingredientsErr: errors.New("store down")}
	s := newTestService(t, f)

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail with neither store nor cache")
	}
}

func TestRefresh_SuccessWritesCache(t *testing.T) {
	dir := t.TempDir()
	cache := NewIngredientCache(dir)
	f := &stubFetcher{ingredients: []Ingredient{{Name: "Milk", MainStock: decimal.NewFromInt(5)}}}
	s := NewService(f, cache, notify.NewBus())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	cached, err := cache.Load()
	if err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	if len(cached) != 1 || cached[0].Name != "Milk" {
		t.Errorf("unexpected cache contents: %+v", cached)
	}
}

func TestAddOns_FiltersCategoryAndAvailability(t *testing.T) {
	milkRecipe := []RecipeLine{{Ingredient: "Milk", Quantity: decimal.NewFromInt(1)}}
	f := &stubFetcher{
		products: []Product{
			{ID: 1, Name: "Espresso Shot", Category: AddOnCategory, Stock: 10},
			{ID: 2, Name: "Oat Milk", Category: AddOnCategory, Recipe: milkRecipe},
			{ID: 3, Name: "Pearl", Category: AddOnCategory}, // no stock, no recipe
			{ID: 4, Name: "Latte", Category: "Hot Coffee", Stock: 5},
		},
	}
	s := newTestService(t, f)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	addOns := s.AddOns()
	if len(addOns) != 2 {
		t.Fatalf("expected 2 add-ons, got %d", len(addOns))
	}
	for _, p := range addOns {
		if p.Name == "Pearl" || p.Name == "Latte" {
			t.Errorf("%s should be filtered out", p.Name)
		}
	}
}

func TestIngredientCache_MissingFile(t *testing.T) {
	cache := NewIngredientCache(t.TempDir())
	if _, err := cache.Load(); !errors.Is(err, ErrNoCache) {
		t.Fatalf("expected ErrNoCache, got %v", err)
	}
}

package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ramosjarod04-creator/DejaBrew/internal/notify"
)

// Fetcher is the slice of the store API the catalog needs.
type Fetcher interface {
	Products(ctx context.Context) ([]Product, error)
	Ingredients(ctx context.Context) ([]Ingredient, error)
}

// Service holds the terminal's snapshot of products and ingredient stock.
// The snapshot is fetched per refresh and read for the whole of a checkout
// session; staleness within one checkout is accepted, the store re-checks
// authoritatively at submission.
type Service struct {
	fetcher Fetcher
	cache   *IngredientCache
	bus     *notify.Bus

	mu          sync.RWMutex
	products    []Product
	byID        map[int64]Product
	ingredients *IngredientIndex
}

func NewService(fetcher Fetcher, cache *IngredientCache, bus *notify.Bus) *Service {
	return &Service{
		fetcher:     fetcher,
		cache:       cache,
		bus:         bus,
		byID:        make(map[int64]Product),
		ingredients: NewIngredientIndex(nil),
	}
}

// Refresh replaces the whole snapshot from the store. A failed ingredient
// fetch falls back to the on-disk cache; the old vs. new snapshots are never
// merged or diffed.
func (s *Service) Refresh(ctx context.Context) error {
	products, err := s.fetcher.Products(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	ingredients, err := s.fetcher.Ingredients(ctx)
	if err != nil {
		cached, cacheErr := s.cache.Load()
		if cacheErr != nil {
			return fmt.Errorf("load ingredients: %w", err)
		}
		log.Printf("⚠️ ingredient fetch failed, using local cache (%d entries): %v", len(cached), err)
		ingredients = cached
	} else {
		if saveErr := s.cache.Save(ingredients); saveErr != nil {
			log.Printf("⚠️ could not write ingredient cache: %v", saveErr)
		}
	}

	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.ingredients = NewIngredientIndex(ingredients)
	s.mu.Unlock()

	return nil
}

// WatchInvalidations refreshes the snapshot whenever a sibling terminal
// publishes a product or inventory change. Runs until ctx is done.
func (s *Service) WatchInvalidations(ctx context.Context) {
	productSub := s.bus.Subscribe(notify.TopicProducts)
	inventorySub := s.bus.Subscribe(notify.TopicInventory)
	defer productSub.Cancel()
	defer inventorySub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-productSub.C:
		case <-inventorySub.C:
		}
		if err := s.Refresh(ctx); err != nil {
			log.Printf("⚠️ snapshot refresh failed: %v", err)
		}
	}
}

func (s *Service) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Service) Product(id int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// Ingredients returns the current read-only stock snapshot.
func (s *Service) Ingredients() *IngredientIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ingredients
}

// AddOns lists products offered as extras: the "Add Ons" category, filtered
// to those that are plausibly available.
func (s *Service) AddOns() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Product
	for _, p := range s.products {
		if p.Category != AddOnCategory {
			continue
		}
		if p.DirectStocked() || p.RecipeTracked() {
			out = append(out, p)
		}
	}
	return out
}

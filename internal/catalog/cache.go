package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Versioned file name so a future schema change invalidates old caches
// instead of half-reading them.
const ingredientCacheFile = "dejabrew_ingredients_v1.json"

var ErrNoCache = errors.New("no cached ingredients")

// IngredientCache is the terminal's best-effort fallback for inventory data
// when the store API is unreachable. Never authoritative.
type IngredientCache struct {
	path string
}

func NewIngredientCache(dir string) *IngredientCache {
	return &IngredientCache{path: filepath.Join(dir, ingredientCacheFile)}
}

func (c *IngredientCache) Save(ingredients []Ingredient) error {
	data, err := json.Marshal(ingredients)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

func (c *IngredientCache) Load() ([]Ingredient, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCache
		}
		return nil, err
	}
	var ingredients []Ingredient
	if err := json.Unmarshal(data, &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

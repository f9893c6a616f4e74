package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ramosjarod04-creator/DejaBrew/internal/auth"
	"github.com/ramosjarod04-creator/DejaBrew/internal/cart"
	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
	"github.com/ramosjarod04-creator/DejaBrew/internal/forecast"
	"github.com/ramosjarod04-creator/DejaBrew/internal/menu"
	"github.com/ramosjarod04-creator/DejaBrew/internal/notify"
	"github.com/ramosjarod04-creator/DejaBrew/internal/router"
	"github.com/ramosjarod04-creator/DejaBrew/internal/upstream"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"UPSTREAM_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	// ───────────────────────── UPSTREAM ─────────────────────────
	client := upstream.NewClient(os.Getenv("UPSTREAM_BASE_URL"))
	bus := notify.NewBus()

	// ───────────────────────── CATALOG ─────────────────────────
	ingredientCache := catalog.NewIngredientCache(dataDir)
	catalogService := catalog.NewService(client, ingredientCache, bus)

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalogService.Refresh(bootCtx); err != nil {
		log.Printf("⚠️ Catalog bootstrap failed, serving once the store answers: %v", err)
	}
	cancel()

	go catalogService.WatchInvalidations(context.Background())

	// ───────────────────────── SERVICES ─────────────────────────
	cartService := cart.NewService(catalogService, client, bus)
	authService := auth.NewService(client)
	forecastService := forecast.NewService(client, dataDir)

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.New(router.Handlers{
		Auth:     auth.NewHandler(authService),
		Menu:     menu.NewHandler(catalogService),
		Cart:     cart.NewHandler(cartService),
		Forecast: forecast.NewHandler(forecastService),
	})

	// ───────────────────────── START ─────────────────────────
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("🚀 POS terminal API running at http://localhost:" + port)
	r.Run(":" + port)
}

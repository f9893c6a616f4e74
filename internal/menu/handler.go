package menu

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
	"github.com/ramosjarod04-creator/DejaBrew/internal/stock"
)

// Handler serves the menu the terminal displays: catalog data joined with
// recipe availability. It sits above both packages so neither depends on
// the other.
type Handler struct {
	catalog *catalog.Service
}

func NewHandler(cat *catalog.Service) *Handler {
	return &Handler{catalog: cat}
}

type productView struct {
	catalog.Product
	MaxUnits   int64  `json:"maxUnits"`
	Bottleneck string `json:"bottleneck,omitempty"`
}

// ListProducts returns the menu with per-product availability. Recipe
// products carry the units the current stock can still produce; stock-out
// products name the ingredient holding them back.
func (h *Handler) ListProducts(c *gin.Context) {
	ingredients := h.catalog.Ingredients()

	products := h.catalog.Products()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		avail := stock.MaxProducible(p, ingredients)
		views = append(views, productView{
			Product:    p,
			MaxUnits:   avail.MaxUnits,
			Bottleneck: avail.Bottleneck,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": views})
}

// ListAddOns returns only add-on products that can still be produced.
func (h *Handler) ListAddOns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "addons": h.catalog.AddOns()})
}

func (h *Handler) ListIngredients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "ingredients": h.catalog.Ingredients().All()})
}

// Refresh re-pulls the catalog from the store. The terminal calls this on
// demand when a cashier suspects the display has gone stale.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

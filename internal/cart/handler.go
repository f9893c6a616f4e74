package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/pricing"
	"github.com/ramosjarod04-creator/DejaBrew/internal/upstream"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type totalsView struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	VatableAmount  decimal.Decimal `json:"vatable_amount"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

func sessionView(s *Session) gin.H {
	totals := s.Totals().Rounded()
	sel := s.Discount().Current()
	return gin.H{
		"id":        s.ID,
		"items":     s.Lines(),
		"itemCount": s.ItemCount(),
		"totals": totalsView{
			Subtotal:       totals.Subtotal,
			VatableAmount:  totals.VatableAmount,
			VATAmount:      totals.VATAmount,
			DiscountAmount: totals.DiscountAmount,
			Total:          totals.Total,
		},
		"discount": gin.H{
			"kind":    sel.Kind,
			"percent": sel.EffectivePercent(),
		},
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	session := h.service.CreateSession()
	c.JSON(http.StatusCreated, sessionView(session))
}

func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.service.Session(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(session))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// AddItem puts one unit of a product in the cart, or bumps the existing
// line by one.
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	if err := h.service.AddItem(c.Param("id"), req.ProductID); err != nil {
		h.writeCartError(c, err)
		return
	}

	h.writeSession(c)
}

type adjustItemRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

func (h *Handler) AdjustItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req adjustItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta is required"})
		return
	}

	if err := h.service.AdjustItem(c.Param("id"), productID, req.Delta); err != nil {
		h.writeCartError(c, err)
		return
	}

	h.writeSession(c)
}

type setQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

// SetItemQuantity applies a typed-in quantity. The applied value may differ
// from the requested one when the counter stock clamps it, so it is echoed
// back for the display to settle on.
func (h *Handler) SetItemQuantity(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	applied, err := h.service.SetItemQuantity(c.Param("id"), productID, req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	session, err := h.service.Session(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "session": sessionView(session)})
}

// VoidItem removes a line entirely. Routed behind the admin gate.
func (h *Handler) VoidItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	voided, err := h.service.VoidItem(c.Param("id"), productID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	session, err := h.service.Session(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voided": voided, "session": sessionView(session)})
}

type setAddOnsRequest struct {
	AddOnIDs []int64 `json:"add_on_ids"`
}

func (h *Handler) SetAddOns(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req setAddOnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.service.SetAddOns(c.Param("id"), productID, req.AddOnIDs); err != nil {
		h.writeCartError(c, err)
		return
	}

	h.writeSession(c)
}

type applyDiscountRequest struct {
	Kind     string  `json:"kind" binding:"required"`
	Percent  float64 `json:"percent"`
	IDNumber string  `json:"id_number"`
}

// ApplyDiscount sets the session discount. Routed behind the admin gate.
func (h *Handler) ApplyDiscount(c *gin.Context) {
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}

	sel := pricing.Selection{
		Kind:     pricing.DiscountKind(req.Kind),
		Percent:  decimal.NewFromFloat(req.Percent),
		IDNumber: req.IDNumber,
	}
	if err := h.service.ApplyDiscount(c.Param("id"), sel); err != nil {
		h.writeCartError(c, err)
		return
	}

	h.writeSession(c)
}

type setPercentRequest struct {
	Percent float64 `json:"percent"`
}

func (h *Handler) SetDiscountPercent(c *gin.Context) {
	var req setPercentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.service.SetDiscountPercent(c.Param("id"), decimal.NewFromFloat(req.Percent)); err != nil {
		h.writeCartError(c, err)
		return
	}

	h.writeSession(c)
}

func (h *Handler) ClearSession(c *gin.Context) {
	if err := h.service.ClearSession(c.Param("id")); err != nil {
		h.writeCartError(c, err)
		return
	}
	h.writeSession(c)
}

type checkoutRequest struct {
	PaymentMethod  string                   `json:"payment_method" binding:"required"`
	DiningOption   string                   `json:"dining_option"`
	CustomerName   string                   `json:"customer_name"`
	PaymentDetails *upstream.PaymentDetails `json:"payment_details"`
}

// Checkout submits the cart. Digital payments without details answer with a
// prompt id; the caller completes through ConfirmPayment or CancelPayment.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method is required"})
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), c.Param("id"), CheckoutInput{
		PaymentMethod:  req.PaymentMethod,
		DiningOption:   req.DiningOption,
		CustomerName:   req.CustomerName,
		PaymentDetails: req.PaymentDetails,
	})
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	if result.AwaitingPayment {
		c.JSON(http.StatusAccepted, gin.H{"awaiting_payment": true, "prompt_id": result.PromptID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": result.ReceiptHTML})
}

// ConfirmPayment settles a pending digital payment prompt.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var details upstream.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("promptId"), details)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": result.ReceiptHTML})
}

// CancelPayment dismisses a pending prompt, keeping the cart intact.
func (h *Handler) CancelPayment(c *gin.Context) {
	if err := h.service.CancelPayment(c.Param("promptId")); err != nil {
		h.writeCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) writeSession(c *gin.Context) {
	session, err := h.service.Session(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(session))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeCartError(c *gin.Context, err error) {
	var avail *AvailabilityError
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &avail),
		errors.Is(err, ErrExceedsStock),
		errors.Is(err, ErrProductUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func (h *Handler) writeCheckoutError(c *gin.Context, err error) {
	var rejected *upstream.OrderRejectedError
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrPromptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrPromptSettled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rejected.Reason})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

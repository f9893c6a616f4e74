package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
)

// Client talks to the authoritative store API. The terminal never deducts
// stock itself; the store performs the real stock check and deduction at
// order time.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx response that carried a server-reported message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("store api: status %d", e.StatusCode)
}

// OrderRejectedError reports an upstream refusal to process an order, e.g.
// authoritative stock changed since the terminal's snapshot was taken. The
// cart is left intact so the order can be resubmitted.
type OrderRejectedError struct {
	Reason string
}

func (e *OrderRejectedError) Error() string {
	return "order rejected: " + e.Reason
}

// PaymentDetails accompany GCash and Card payments.
type PaymentDetails struct {
	CustomerName    string `json:"cust_name"`
	ReferenceNumber string `json:"ref_num"`
}

// OrderItem is one submitted line. Add-ons ride as separate items at the
// parent line's quantity.
type OrderItem struct {
	ID       int64   `json:"id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderRequest is the process-order payload. Monetary fields are plain JSON
// numbers because that is what the store expects on the wire.
type OrderRequest struct {
	Items          []OrderItem     `json:"items"`
	Total          float64         `json:"total"`
	Discount       float64         `json:"discount"`
	DiscountType   string          `json:"discount_type"`
	DiscountID     string          `json:"discount_id"`
	PaymentMethod  string          `json:"payment_method"`
	DiningOption   string          `json:"dining_option"`
	CustomerName   string          `json:"customer_name"`
	PaymentDetails *PaymentDetails `json:"payment_details"`
}

// OrderResult carries the rendered receipt the store returns on success.
// The terminal passes the HTML through untouched.
type OrderResult struct {
	ReceiptHTML string
}

// Products fetches the catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var payload struct {
		Success  bool              `json:"success"`
		Products []catalog.Product `json:"products"`
		Error    string            `json:"error"`
	}
	if err := c.getJSON(ctx, "/api/products/", &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: payload.Error}
	}
	return payload.Products, nil
}

// Ingredients fetches the inventory snapshot. The endpoint answers either a
// bare array or a paginated {"results": [...]} wrapper; both shapes are
// normalized here so nothing past this boundary branches on response shape.
func (c *Client) Ingredients(ctx context.Context) ([]catalog.Ingredient, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/ingredients/", &raw); err != nil {
		return nil, err
	}

	var list []catalog.Ingredient
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Results []catalog.Ingredient `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return wrapped.Results, nil
}

// ProcessOrder submits the cart. A rejection (non-2xx, or success=false with
// an error string) surfaces as *OrderRejectedError.
func (c *Client) ProcessOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	var payload struct {
		Success     bool   `json:"success"`
		ReceiptHTML string `json:"receipt_html"`
		Error       string `json:"error"`
	}

	status, err := c.postJSON(ctx, "/api/process-order/", req, &payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 || !payload.Success {
		reason := payload.Error
		if reason == "" {
			reason = fmt.Sprintf("status %d", status)
		}
		return nil, &OrderRejectedError{Reason: reason}
	}
	return &OrderResult{ReceiptHTML: payload.ReceiptHTML}, nil
}

// VerifyAdmin checks an admin password with the store. Only an explicit
// success+is_admin answer counts.
func (c *Client) VerifyAdmin(ctx context.Context, password string) (bool, error) {
	var payload struct {
		Success bool `json:"success"`
		IsAdmin bool `json:"is_admin"`
	}
	status, err := c.postJSON(ctx, "/api/verify-admin/", map[string]string{"password": password}, &payload)
	if err != nil {
		return false, err
	}
	if status < 200 || status >= 300 {
		return false, nil
	}
	return payload.Success && payload.IsAdmin, nil
}

// Forecast fetches the demand forecast for the dashboard. The document is
// kept opaque; the terminal only caches and serves it.
func (c *Client) Forecast(ctx context.Context, days int) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/forecasting/api/predict/?days=%d", days)
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) (int, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("store api unreachable: %w", err)
	}
	defer resp.Body.Close()

	// Error bodies still carry JSON; decode best-effort so callers see the
	// server's message alongside the status.
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp.StatusCode, decodeErr
		}
	}
	return resp.StatusCode, nil
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ramosjarod04-creator/DejaBrew/internal/catalog"
	"github.com/ramosjarod04-creator/DejaBrew/internal/confirm"
	"github.com/ramosjarod04-creator/DejaBrew/internal/notify"
	"github.com/ramosjarod04-creator/DejaBrew/internal/pricing"
	"github.com/ramosjarod04-creator/DejaBrew/internal/upstream"
)

// Payment methods the terminal accepts. GCash and Card require reference
// details collected through a payment prompt.
const (
	PaymentCash  = "Cash"
	PaymentGCash = "Gcash"
	PaymentCard  = "Card"
)

const (
	DiningIn  = "dine-in"
	DiningOut = "take-out"
)

const defaultCustomerName = "Walk-in"

var (
	ErrSessionNotFound  = errors.New("cart session not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrPromptNotFound   = errors.New("payment prompt not found")
	ErrPromptSettled    = errors.New("payment prompt already settled")
	ErrInvalidReference = errors.New("reference number must be exactly 13 digits")
	ErrNotAnAddOn       = errors.New("product is not an available add-on")
)

var referencePattern = regexp.MustCompile(`^\d{13}$`)

// Catalog is the snapshot surface the cart reads. The same snapshot serves
// a whole checkout; the store re-validates at submission.
type Catalog interface {
	Product(id int64) (catalog.Product, bool)
	Ingredients() *catalog.IngredientIndex
	AddOns() []catalog.Product
}

// Submitter sends a finished cart to the store.
type Submitter interface {
	ProcessOrder(ctx context.Context, req upstream.OrderRequest) (*upstream.OrderResult, error)
}

// CheckoutInput is everything the operator chose before pressing process.
type CheckoutInput struct {
	PaymentMethod  string
	DiningOption   string
	CustomerName   string
	PaymentDetails *upstream.PaymentDetails
}

// CheckoutResult either carries the receipt, or signals that payment
// details are still being collected through a prompt.
type CheckoutResult struct {
	ReceiptHTML     string
	AwaitingPayment bool
	PromptID        string
}

type pendingCheckout struct {
	sessionID string
	input     CheckoutInput
}

// Service orchestrates cart mutations and checkout over the catalog
// snapshot. Calculators stay pure; this is the only layer that touches the
// store or the prompt registry.
type Service struct {
	catalog   Catalog
	submitter Submitter
	bus       *notify.Bus

	mu       sync.Mutex
	sessions map[string]*Session
	prompts  *confirm.Registry[upstream.PaymentDetails]
	pending  map[string]pendingCheckout // prompt id -> draft
}

func NewService(cat Catalog, submitter Submitter, bus *notify.Bus) *Service {
	return &Service{
		catalog:   cat,
		submitter: submitter,
		bus:       bus,
		sessions:  make(map[string]*Session),
		prompts:   confirm.NewRegistry[upstream.PaymentDetails](),
		pending:   make(map[string]pendingCheckout),
	}
}

// CreateSession opens a fresh cart.
func (s *Service) CreateSession() *Session {
	session := NewSession()
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

func (s *Service) Session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// AddItem validates availability against the current snapshot and adds one
// unit of the product.
func (s *Service) AddItem(sessionID string, productID int64) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	p, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("product %d not found", productID)
	}
	return session.Add(p, s.catalog.Ingredients())
}

// AdjustItem applies a +/- quantity step.
func (s *Service) AdjustItem(sessionID string, productID, delta int64) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	p, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("product %d not found", productID)
	}
	return session.Adjust(productID, delta, p, s.catalog.Ingredients())
}

// SetItemQuantity applies a direct quantity edit, returning the clamped
// quantity actually in effect.
func (s *Service) SetItemQuantity(sessionID string, productID, quantity int64) (int64, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return 0, err
	}
	p, ok := s.catalog.Product(productID)
	if !ok {
		return 0, fmt.Errorf("product %d not found", productID)
	}
	return session.SetQuantity(productID, quantity, p, s.catalog.Ingredients())
}

// VoidItem removes a line. Admin gating happens at the route.
func (s *Service) VoidItem(sessionID string, productID int64) (Line, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return Line{}, err
	}
	return session.Remove(productID)
}

// SetAddOns replaces a line's add-ons with the referenced add-on products.
// Only available products from the add-on category qualify.
func (s *Service) SetAddOns(sessionID string, productID int64, addOnIDs []int64) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}

	available := make(map[int64]catalog.Product)
	for _, p := range s.catalog.AddOns() {
		available[p.ID] = p
	}

	addOns := make([]AddOn, 0, len(addOnIDs))
	for _, id := range addOnIDs {
		p, ok := available[id]
		if !ok {
			return ErrNotAnAddOn
		}
		addOns = append(addOns, AddOn{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return session.SetAddOns(productID, addOns)
}

// ApplyDiscount runs the selection through the session's state machine.
func (s *Service) ApplyDiscount(sessionID string, sel pricing.Selection) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	if session.Empty() {
		return ErrEmptyCart
	}
	session.Discount().Open()
	if err := session.Discount().Apply(sel); err != nil {
		session.Discount().Cancel()
		return err
	}
	return nil
}

// SetDiscountPercent edits the inline regular percentage; refused while a
// statutory discount is locked in.
func (s *Service) SetDiscountPercent(sessionID string, percent decimal.Decimal) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return session.Discount().SetPercent(percent)
}

// ClearSession empties the cart and resets its discount state.
func (s *Service) ClearSession(sessionID string) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	session.Clear()
	return nil
}

// Checkout recomputes the total and submits the order. For GCash and Card
// without collected details it opens a payment prompt instead and leaves
// the cart untouched until the prompt settles.
func (s *Service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Empty() {
		return nil, ErrEmptyCart
	}

	needsDetails := input.PaymentMethod == PaymentGCash || input.PaymentMethod == PaymentCard
	if needsDetails && input.PaymentDetails == nil {
		prompt := s.prompts.Create()
		s.mu.Lock()
		s.pending[prompt.ID()] = pendingCheckout{sessionID: sessionID, input: input}
		s.mu.Unlock()
		return &CheckoutResult{AwaitingPayment: true, PromptID: prompt.ID()}, nil
	}

	if needsDetails {
		if err := validatePaymentDetails(input.PaymentDetails); err != nil {
			return nil, err
		}
	}

	return s.submit(ctx, session, input)
}

// ConfirmPayment settles a pending payment prompt with the entered details
// and completes the suspended checkout.
func (s *Service) ConfirmPayment(ctx context.Context, promptID string, details upstream.PaymentDetails) (*CheckoutResult, error) {
	if err := validatePaymentDetails(&details); err != nil {
		return nil, err
	}

	prompt, ok := s.prompts.Get(promptID)
	if !ok {
		return nil, ErrPromptNotFound
	}
	if !prompt.Confirm(details) {
		return nil, ErrPromptSettled
	}

	// Settled prompts are dropped; the draft carries everything needed to
	// finish the checkout.
	s.prompts.Remove(promptID)

	s.mu.Lock()
	draft, ok := s.pending[promptID]
	delete(s.pending, promptID)
	s.mu.Unlock()
	if !ok {
		return nil, ErrPromptNotFound
	}

	session, err := s.Session(draft.sessionID)
	if err != nil {
		return nil, err
	}

	input := draft.input
	input.PaymentDetails = &details
	return s.submit(ctx, session, input)
}

// CancelPayment abandons a pending payment prompt. The checkout step is
// aborted; the cart stays intact.
func (s *Service) CancelPayment(promptID string) error {
	prompt, ok := s.prompts.Get(promptID)
	if !ok {
		return ErrPromptNotFound
	}
	if !prompt.Cancel() {
		return ErrPromptSettled
	}
	s.prompts.Remove(promptID)

	s.mu.Lock()
	delete(s.pending, promptID)
	s.mu.Unlock()
	return nil
}

func validatePaymentDetails(details *upstream.PaymentDetails) error {
	if !referencePattern.MatchString(details.ReferenceNumber) {
		return ErrInvalidReference
	}
	return nil
}

func (s *Service) submit(ctx context.Context, session *Session, input CheckoutInput) (*CheckoutResult, error) {
	if input.DiningOption == "" {
		input.DiningOption = DiningIn
	}
	if input.CustomerName == "" {
		input.CustomerName = defaultCustomerName
	}

	sel := session.Discount().Current()
	totals := session.Totals().Rounded()

	req := upstream.OrderRequest{
		Items:          flattenLines(session.Lines()),
		Total:          totals.Total.InexactFloat64(),
		Discount:       sel.EffectivePercent().InexactFloat64(),
		DiscountType:   string(sel.Kind),
		DiscountID:     sel.IDNumber,
		PaymentMethod:  input.PaymentMethod,
		DiningOption:   input.DiningOption,
		CustomerName:   input.CustomerName,
		PaymentDetails: input.PaymentDetails,
	}

	result, err := s.submitter.ProcessOrder(ctx, req)
	if err != nil {
		// The cart stays intact for resubmission; sibling terminals are
		// told to refetch since the rejection usually means stock moved.
		var rejected *upstream.OrderRejectedError
		if errors.As(err, &rejected) {
			s.bus.Publish(notify.TopicProducts)
			s.bus.Publish(notify.TopicInventory)
		}
		return nil, err
	}

	log.Printf("✅ order submitted: %d line(s), total %s, discount %s", len(session.Lines()), totals.Total, sel.Kind)

	// The session is spent: clear it for any holders of the pointer and
	// evict it so a long-running terminal does not accumulate carts.
	session.Clear()
	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()

	s.bus.Publish(notify.TopicProducts)
	s.bus.Publish(notify.TopicInventory)

	return &CheckoutResult{ReceiptHTML: result.ReceiptHTML}, nil
}

// flattenLines converts cart lines to the wire shape: each add-on rides as
// its own item at the parent line's quantity.
func flattenLines(lines []Line) []upstream.OrderItem {
	var items []upstream.OrderItem
	for _, line := range lines {
		items = append(items, upstream.OrderItem{
			ID:       line.ProductID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice.InexactFloat64(),
		})
		for _, addOn := range line.AddOns {
			items = append(items, upstream.OrderItem{
				ID:       addOn.ID,
				Quantity: line.Quantity,
				Price:    addOn.Price.InexactFloat64(),
			})
		}
	}
	return items
}

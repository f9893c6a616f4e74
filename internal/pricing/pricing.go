package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DiscountKind selects the discounting regime. Regular applies an arbitrary
// user-entered percentage; Senior and PWD apply the statutory 20% reduction
// with full VAT exemption.
type DiscountKind string

const (
	Regular DiscountKind = "regular"
	Senior  DiscountKind = "senior"
	PWD     DiscountKind = "pwd"
)

var (
	// VAT-inclusive rate applied under the statutory regimes.
	vatRate = decimal.NewFromFloat(0.12)

	// StatutoryPercent is forced onto the percent field when a Senior or
	// PWD discount is applied; manual editing is locked while it holds.
	StatutoryPercent = decimal.NewFromInt(20)

	statutoryFraction = decimal.NewFromFloat(0.20)
	oneHundred        = decimal.NewFromInt(100)
)

var (
	ErrMissingID      = errors.New("id number is required for senior/pwd discount")
	ErrUnknownKind    = errors.New("unknown discount kind")
	ErrPercentLocked  = errors.New("discount percent is locked while a statutory discount is applied")
	ErrInvalidPercent = errors.New("discount percent must be between 0 and 100")
)

// Selection is the single active discount choice of a cart session.
type Selection struct {
	Kind     DiscountKind
	Percent  decimal.Decimal // Regular only; pinned to 20 for Senior/PWD
	IDNumber string          // required for Senior/PWD
}

// NoDiscount is the selection in effect before anything is applied.
func NoDiscount() Selection {
	return Selection{Kind: Regular}
}

// Statutory reports whether the selection is Senior or PWD.
func (s Selection) Statutory() bool {
	return s.Kind == Senior || s.Kind == PWD
}

// Validate rejects a selection before it can become current. Senior/PWD
// require a non-empty ID number; Regular has no such requirement.
func Validate(s Selection) error {
	switch s.Kind {
	case Regular:
		if s.Percent.Sign() < 0 || s.Percent.GreaterThan(oneHundred) {
			return ErrInvalidPercent
		}
		return nil
	case Senior, PWD:
		if s.IDNumber == "" {
			return ErrMissingID
		}
		return nil
	default:
		return ErrUnknownKind
	}
}

// PricedLine is the slice of a cart line the calculator needs: the per-unit
// price captured at add time, the per-unit sum of add-on prices, and the
// quantity.
type PricedLine struct {
	UnitPrice  decimal.Decimal
	AddOnTotal decimal.Decimal
	Quantity   int64
}

// Totals is the breakdown displayed on the cart and transmitted at
// submission. Values carry full precision; Rounded produces the 2-decimal
// display form.
type Totals struct {
	Subtotal       decimal.Decimal
	VatableAmount  decimal.Decimal
	VATAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals derives the cart totals for the given discount selection.
//
// Lines are summed at full precision before any rounding so repeated
// per-line rounding cannot drift the subtotal. Under Regular the discount is
// a straight percentage of the subtotal and no VAT is broken out. Under
// Senior/PWD the subtotal is treated as VAT-inclusive at 12%: the 20%
// discount applies to the VAT-exclusive base and the VAT itself is removed
// from the total.
func ComputeTotals(lines []PricedLine, sel Selection) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		perUnit := line.UnitPrice.Add(line.AddOnTotal)
		subtotal = subtotal.Add(perUnit.Mul(decimal.NewFromInt(line.Quantity)))
	}

	t := Totals{Subtotal: subtotal}

	if sel.Statutory() {
		t.VatableAmount = subtotal.Div(decimal.NewFromInt(1).Add(vatRate))
		t.VATAmount = subtotal.Sub(t.VatableAmount)
		t.DiscountAmount = t.VatableAmount.Mul(statutoryFraction)
		t.Total = subtotal.Sub(t.DiscountAmount).Sub(t.VATAmount)
		return t
	}

	t.DiscountAmount = subtotal.Mul(sel.Percent.Div(oneHundred))
	t.VatableAmount = decimal.Zero
	t.VATAmount = decimal.Zero
	t.Total = subtotal.Sub(t.DiscountAmount)
	return t
}

// Rounded returns the totals at 2 fractional digits for display and wire
// use. Intermediate computation never rounds.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:       t.Subtotal.Round(2),
		VatableAmount:  t.VatableAmount.Round(2),
		VATAmount:      t.VATAmount.Round(2),
		DiscountAmount: t.DiscountAmount.Round(2),
		Total:          t.Total.Round(2),
	}
}

// EffectivePercent is the percent figure transmitted with an order: the
// pinned statutory 20 for Senior/PWD, the user-entered value otherwise.
func (s Selection) EffectivePercent() decimal.Decimal {
	if s.Statutory() {
		return StatutoryPercent
	}
	return s.Percent
}

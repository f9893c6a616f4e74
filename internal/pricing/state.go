package pricing

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// Phase of the per-session discount flow.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseSelecting
	PhaseRegularApplied
	PhaseStatutoryApplied
)

var ErrNotSelecting = errors.New("no discount selection in progress")

// SelectionState is the discount state machine of one cart session:
//
//	None -> Selecting -> RegularApplied | StatutoryApplied -> (reset) None
//
// Applying a Senior/PWD selection pins the percent to 20 and locks manual
// editing until the state resets. The state holding at submission time is
// what gets transmitted upstream. Safe for concurrent use.
type SelectionState struct {
	mu      sync.Mutex
	phase   Phase
	current Selection
}

func NewSelectionState() *SelectionState {
	return &SelectionState{phase: PhaseNone, current: NoDiscount()}
}

func (st *SelectionState) Phase() Phase {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.phase
}

// Current is the selection in effect for totals and submission.
func (st *SelectionState) Current() Selection {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Locked reports whether the percent field is pinned (statutory applied).
func (st *SelectionState) Locked() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.phase == PhaseStatutoryApplied
}

// Open starts a selection. Reopening over an applied discount is allowed;
// cancelling the dialog leaves the previous selection in effect.
func (st *SelectionState) Open() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.phase = PhaseSelecting
}

// Cancel abandons an in-progress selection without touching the current one.
func (st *SelectionState) Cancel() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase != PhaseSelecting {
		return
	}
	if st.current.Statutory() {
		st.phase = PhaseStatutoryApplied
	} else if st.current.Percent.Sign() > 0 {
		st.phase = PhaseRegularApplied
	} else {
		st.phase = PhaseNone
	}
}

// Apply makes a validated selection current. Invalid selections are rejected
// without side effects and the previous selection stays in force.
func (st *SelectionState) Apply(sel Selection) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase != PhaseSelecting {
		return ErrNotSelecting
	}
	if err := Validate(sel); err != nil {
		return err
	}
	if sel.Statutory() {
		sel.Percent = StatutoryPercent
		st.phase = PhaseStatutoryApplied
	} else {
		st.phase = PhaseRegularApplied
	}
	st.current = sel
	return nil
}

// SetPercent edits the regular percentage directly (the inline input on the
// cart panel). Refused while a statutory discount holds.
func (st *SelectionState) SetPercent(percent decimal.Decimal) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase == PhaseStatutoryApplied {
		return ErrPercentLocked
	}
	sel := Selection{Kind: Regular, Percent: percent}
	if err := Validate(sel); err != nil {
		return err
	}
	st.current = sel
	if sel.Percent.Sign() > 0 {
		st.phase = PhaseRegularApplied
	} else {
		st.phase = PhaseNone
	}
	return nil
}

// Reset returns to the initial state; called when the cart is cleared or an
// order submits successfully.
func (st *SelectionState) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.phase = PhaseNone
	st.current = NoDiscount()
}

// Package confirm models user interactions that suspend a flow until exactly
// one answer arrives: the operator confirms with a payload, or cancels.
// Dismissing the dialog is a cancellation, never "proceed with defaults".
// Once settled, a prompt is inert; late confirms and cancels do nothing.
package confirm

import (
	"sync"

	"github.com/google/uuid"
)

// Outcome of a prompt.
type Outcome int

const (
	Pending Outcome = iota
	Confirmed
	Cancelled
)

// Prompt is a single-resolution deferred answer carrying a payload of type T.
type Prompt[T any] struct {
	id string

	mu      sync.Mutex
	outcome Outcome
	payload T
}

func New[T any]() *Prompt[T] {
	return &Prompt[T]{id: uuid.New().String()}
}

func (p *Prompt[T]) ID() string {
	return p.id
}

// Confirm settles the prompt with a payload. Returns false if it was
// already settled; the payload is then discarded.
func (p *Prompt[T]) Confirm(payload T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outcome != Pending {
		return false
	}
	p.outcome = Confirmed
	p.payload = payload
	return true
}

// Cancel settles the prompt without a payload. Returns false if it was
// already settled.
func (p *Prompt[T]) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outcome != Pending {
		return false
	}
	p.outcome = Cancelled
	return true
}

// Result reports the settlement. The payload is only meaningful when the
// outcome is Confirmed.
func (p *Prompt[T]) Result() (T, Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payload, p.outcome
}

// Registry tracks open prompts by id. A prompt stays registered after
// settling until explicitly removed, so late interactions can be answered
// (as no-ops) rather than erroring on a missing id.
type Registry[T any] struct {
	mu      sync.Mutex
	prompts map[string]*Prompt[T]
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{prompts: make(map[string]*Prompt[T])}
}

func (r *Registry[T]) Create() *Prompt[T] {
	p := New[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[p.id] = p
	return p
}

func (r *Registry[T]) Get(id string) (*Prompt[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prompts[id]
	return p, ok
}

func (r *Registry[T]) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prompts, id)
}

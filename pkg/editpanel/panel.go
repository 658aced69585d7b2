// Package editpanel implements the create/update/delete workflow for a single
// remote entity: open a draft or load an existing entity, validate locally,
// save, cancel, or delete after confirmation.
package editpanel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Mode says what the panel was opened for.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "closed"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Target is Closed, Creating, or Editing(id).
type Target struct {
	Mode Mode
	ID   string
}

func Closed() Target { return Target{Mode: ModeClosed} }

func Creating() Target { return Target{Mode: ModeCreating} }

func Editing(id string) Target { return Target{Mode: ModeEditing, ID: id} }

func (t Target) IsClosed() bool { return t.Mode == ModeClosed }

// TargetFor maps an optional id to Creating or Editing.
func TargetFor(id string, missing func(string) bool) Target {
	if missing(id) {
		return Creating()
	}
	return Editing(id)
}

type State int

const (
	StateClosed State = iota
	StateLoading
	StateDraft
	StateLoaded
	StateSaving
	StateValidationFailed
	StateDeleting
)

var stateNames = map[State]string{
	StateClosed:           "closed",
	StateLoading:          "loading",
	StateDraft:            "draft",
	StateLoaded:           "loaded",
	StateSaving:           "saving",
	StateValidationFailed: "validation_failed",
	StateDeleting:         "deleting",
}

func (s State) String() string { return stateNames[s] }

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome tells the parent what to do after an action.
type Outcome int

const (
	// OutcomeOpen means the panel stays open; nothing changed remotely.
	OutcomeOpen Outcome = iota
	// OutcomeSaved means the parent should close the panel and reload its list.
	OutcomeSaved
	// OutcomeDeleted means the parent should close the panel and reload its list.
	OutcomeDeleted
	// OutcomeCancelled means the parent should close the panel; edits are discarded.
	OutcomeCancelled
)

var (
	ErrNotOpen      = errors.New("edit panel is not open")
	ErrBusy         = errors.New("edit panel is busy")
	ErrNotDeletable = errors.New("only an existing entity can be deleted")
	ErrNotConfirmed = errors.New("delete was not confirmed")
	ErrValidation   = errors.New("validation failed")
)

// Store is the remote side of the panel.
type Store[T any] interface {
	Load(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, entity T) error
	Delete(ctx context.Context, id string) error
}

// Behavior holds the entity-specific parts of the workflow.
type Behavior[T any] struct {
	// New returns the defaults for a draft.
	New func() T
	// Validate returns error messages and clears the offending fields.
	Validate func(entity *T) []string
	// Normalize runs after validation succeeds and before the entity is sent.
	Normalize func(entity *T)
}

// Confirmer asks the user a yes/no question synchronously.
type Confirmer func(prompt string) bool

// Confirmed is a Confirmer for callers that already hold the user's answer.
func Confirmed(answer bool) Confirmer {
	return func(string) bool { return answer }
}

type Panel[T any] struct {
	mu       sync.Mutex
	store    Store[T]
	behavior Behavior[T]
	prompt   string

	target Target
	state  State
	entity T
	errors []string
}

func New[T any](store Store[T], behavior Behavior[T], deletePrompt string) *Panel[T] {
	return &Panel[T]{
		store:    store,
		behavior: behavior,
		prompt:   deletePrompt,
	}
}

// Open starts a draft for Creating, or loads the entity for Editing. While the
// load is outstanding the panel is Loading; a failed load leaves it there.
func (p *Panel[T]) Open(ctx context.Context, target Target) error {
	p.mu.Lock()
	p.target = target
	p.errors = nil
	var zero T
	p.entity = zero

	switch target.Mode {
	case ModeClosed:
		p.state = StateClosed
		p.mu.Unlock()
		return nil
	case ModeCreating:
		p.entity = p.behavior.New()
		p.state = StateDraft
		p.mu.Unlock()
		return nil
	}

	p.state = StateLoading
	p.mu.Unlock()

	entity, err := p.store.Load(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("load %s: %w", target.ID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A later Open or Cancel wins over this load.
	if p.target != target || p.state != StateLoading {
		return nil
	}
	p.entity = entity
	p.state = StateLoaded
	return nil
}

// Resume re-enters the editing state for target with a copy of the entity the
// caller already holds, without loading it.
func (p *Panel[T]) Resume(target Target, entity T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = target
	p.entity = entity
	p.errors = nil
	switch target.Mode {
	case ModeCreating:
		p.state = StateDraft
	case ModeEditing:
		p.state = StateLoaded
	default:
		p.state = StateClosed
	}
}

// Update applies a field change to the entity being edited.
func (p *Panel[T]) Update(fn func(entity *T)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.editable() {
		return ErrNotOpen
	}
	fn(&p.entity)
	return nil
}

// Save validates and submits the entity. Invalid input returns OutcomeOpen with
// ErrValidation and never reaches the store. A failed remote write returns the
// error and restores the state the panel had before Save.
func (p *Panel[T]) Save(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	if !p.editable() {
		p.mu.Unlock()
		return OutcomeOpen, ErrNotOpen
	}

	if p.behavior.Validate != nil {
		if errs := p.behavior.Validate(&p.entity); len(errs) > 0 {
			p.errors = errs
			p.state = StateValidationFailed
			p.mu.Unlock()
			return OutcomeOpen, ErrValidation
		}
	}
	p.errors = nil
	if p.behavior.Normalize != nil {
		p.behavior.Normalize(&p.entity)
	}

	previous := p.resting()
	entity := p.entity
	p.state = StateSaving
	p.mu.Unlock()

	if err := p.store.Save(ctx, entity); err != nil {
		p.mu.Lock()
		p.state = previous
		p.mu.Unlock()
		return OutcomeOpen, fmt.Errorf("save: %w", err)
	}

	p.close()
	return OutcomeSaved, nil
}

// Cancel closes the panel and discards unsaved edits.
func (p *Panel[T]) Cancel() Outcome {
	p.close()
	return OutcomeCancelled
}

// Delete asks confirm and, only on a yes, deletes the entity being edited.
func (p *Panel[T]) Delete(ctx context.Context, confirm Confirmer) (Outcome, error) {
	p.mu.Lock()
	if !p.editable() {
		p.mu.Unlock()
		return OutcomeOpen, ErrNotOpen
	}
	if p.target.Mode != ModeEditing {
		p.mu.Unlock()
		return OutcomeOpen, ErrNotDeletable
	}
	p.mu.Unlock()

	if confirm == nil || !confirm(p.prompt) {
		return OutcomeOpen, ErrNotConfirmed
	}

	p.mu.Lock()
	if !p.editable() {
		p.mu.Unlock()
		return OutcomeOpen, ErrBusy
	}
	previous := p.state
	id := p.target.ID
	p.state = StateDeleting
	p.mu.Unlock()

	if err := p.store.Delete(ctx, id); err != nil {
		p.mu.Lock()
		p.state = previous
		p.mu.Unlock()
		return OutcomeOpen, fmt.Errorf("delete %s: %w", id, err)
	}

	p.close()
	return OutcomeDeleted, nil
}

// CanDelete is true only while editing an existing entity.
func (p *Panel[T]) CanDelete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target.Mode == ModeEditing
}

func (p *Panel[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Panel[T]) Target() Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

func (p *Panel[T]) Entity() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entity
}

func (p *Panel[T]) Errors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.errors...)
}

// View is the panel as the page renders it.
type View[T any] struct {
	Mode      Mode     `json:"mode"`
	ID        string   `json:"id,omitempty"`
	State     State    `json:"state"`
	Entity    T        `json:"entity"`
	Errors    []string `json:"errors,omitempty"`
	CanDelete bool     `json:"canDelete"`
}

func (p *Panel[T]) View() View[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View[T]{
		Mode:      p.target.Mode,
		ID:        p.target.ID,
		State:     p.state,
		Entity:    p.entity,
		Errors:    append([]string(nil), p.errors...),
		CanDelete: p.target.Mode == ModeEditing,
	}
}

func (p *Panel[T]) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	p.target = Closed()
	p.state = StateClosed
	p.entity = zero
	p.errors = nil
}

// editable must be called with mu held.
func (p *Panel[T]) editable() bool {
	switch p.state {
	case StateDraft, StateLoaded, StateValidationFailed:
		return true
	}
	return false
}

// resting is the non-error editing state for the current target; mu held.
func (p *Panel[T]) resting() State {
	if p.target.Mode == ModeCreating {
		return StateDraft
	}
	return StateLoaded
}

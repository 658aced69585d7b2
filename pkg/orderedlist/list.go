// Package orderedlist keeps a locally ordered sequence of remote entities and
// reorders it by swapping adjacent elements.
//
// Moves are optimistic: the local order changes immediately and the matching
// remote command runs in the background without being awaited or rolled back.
// Local order is authoritative for rendering until Reconcile replaces it with
// the server's order.
package orderedlist

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Mover issues the remote reorder command for one element.
type Mover interface {
	Move(ctx context.Context, id string, dir Direction) error
}

// MoverFunc adapts a function to Mover.
type MoverFunc func(ctx context.Context, id string, dir Direction) error

func (f MoverFunc) Move(ctx context.Context, id string, dir Direction) error {
	return f(ctx, id, dir)
}

// Failure is a background move the remote side rejected.
type Failure struct {
	ID        string
	Direction Direction
	Err       error
}

// Row is one element as rendered, with the controls it exposes.
type Row[T any] struct {
	Index       int  `json:"index"`
	Item        T    `json:"item"`
	CanMoveUp   bool `json:"canMoveUp"`
	CanMoveDown bool `json:"canMoveDown"`
}

type Option func(*options)

type options struct {
	timeout   time.Duration
	onFailure func(Failure)
}

// WithTimeout bounds each background remote command. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithFailureHandler is called from the background goroutine for every failed
// remote command.
func WithFailureHandler(fn func(Failure)) Option {
	return func(o *options) { o.onFailure = fn }
}

type List[T any] struct {
	mu       sync.Mutex
	items    []T
	idOf     func(T) string
	mover    Mover
	opts     options
	pending  sync.WaitGroup
	failures []Failure
}

func New[T any](items []T, idOf func(T) string, mover Mover, opts ...Option) *List[T] {
	o := options{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return &List[T]{
		items: append([]T(nil), items...),
		idOf:  idOf,
		mover: mover,
		opts:  o,
	}
}

// MoveUp swaps the element at index with the one above it. It returns false
// and does nothing when index is 0 or out of range.
func (l *List[T]) MoveUp(ctx context.Context, index int) bool {
	return l.move(ctx, index, Up)
}

// MoveDown swaps the element at index with the one below it. It returns false
// and does nothing when index is the last position or out of range.
func (l *List[T]) MoveDown(ctx context.Context, index int) bool {
	return l.move(ctx, index, Down)
}

// Move dispatches to MoveUp or MoveDown.
func (l *List[T]) Move(ctx context.Context, index int, dir Direction) bool {
	return l.move(ctx, index, dir)
}

func (l *List[T]) move(ctx context.Context, index int, dir Direction) bool {
	l.mu.Lock()
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if index < 0 || index >= len(l.items) || target < 0 || target >= len(l.items) {
		l.mu.Unlock()
		return false
	}
	moved := l.items[index]
	l.items[index], l.items[target] = l.items[target], moved
	l.pending.Add(1)
	l.mu.Unlock()

	go l.send(context.WithoutCancel(ctx), l.idOf(moved), dir)
	return true
}

func (l *List[T]) send(ctx context.Context, id string, dir Direction) {
	defer l.pending.Done()

	ctx, cancel := context.WithTimeout(ctx, l.opts.timeout)
	defer cancel()

	if err := l.mover.Move(ctx, id, dir); err != nil {
		f := Failure{ID: id, Direction: dir, Err: err}
		l.mu.Lock()
		l.failures = append(l.failures, f)
		l.mu.Unlock()
		if l.opts.onFailure != nil {
			l.opts.onFailure(f)
		}
	}
}

// Items returns a copy of the current local order.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Rows returns the current order with the move controls each position exposes:
// the first row has no up control, the last row has no down control.
func (l *List[T]) Rows() []Row[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]Row[T], len(l.items))
	for i, item := range l.items {
		rows[i] = Row[T]{
			Index:       i,
			Item:        item,
			CanMoveUp:   i > 0,
			CanMoveDown: i < len(l.items)-1,
		}
	}
	return rows
}

// Wait blocks until every background remote command has finished.
func (l *List[T]) Wait() {
	l.pending.Wait()
}

// Failures returns the background commands that failed so far.
func (l *List[T]) Failures() []Failure {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Failure(nil), l.failures...)
}

// Reconcile waits for outstanding remote commands and then replaces the local
// order with the one load returns. On error the local order is kept.
func (l *List[T]) Reconcile(ctx context.Context, load func(ctx context.Context) ([]T, error)) error {
	l.Wait()
	items, err := load(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = append([]T(nil), items...)
	l.mu.Unlock()
	return nil
}

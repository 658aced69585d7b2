package orderedlist

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	ID  string
	Dir Direction
}

type recordingMover struct {
	mu    sync.Mutex
	calls []call
	err   error
	block chan struct{}
}

func (m *recordingMover) Move(ctx context.Context, id string, dir Direction) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{id, dir})
	return m.err
}

func (m *recordingMover) Calls() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]call(nil), m.calls...)
}

func identity(s string) string { return s }

func TestMoveUp(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		index int
		want  []string
		moved bool
		calls []call
	}{
		{"middle", []string{"a", "b", "c", "d"}, 2, []string{"a", "c", "b", "d"}, true, []call{{"c", Up}}},
		{"last", []string{"a", "b", "c"}, 2, []string{"a", "c", "b"}, true, []call{{"c", Up}}},
		{"first is no-op", []string{"a", "b", "c"}, 0, []string{"a", "b", "c"}, false, nil},
		{"out of range", []string{"a", "b"}, 5, []string{"a", "b"}, false, nil},
		{"negative", []string{"a", "b"}, -1, []string{"a", "b"}, false, nil},
		{"single element", []string{"a"}, 0, []string{"a"}, false, nil},
		{"empty", nil, 0, []string{}, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mover := &recordingMover{}
			l := New(tt.items, identity, mover)

			assert.Equal(t, tt.moved, l.MoveUp(context.Background(), tt.index))
			l.Wait()

			assert.ElementsMatch(t, tt.want, l.Items())
			assert.Equal(t, len(tt.want), l.Len())
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, l.Items())
			}
			assert.Equal(t, tt.calls, mover.Calls())
		})
	}
}

func TestMoveDown(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		index int
		want  []string
		moved bool
	}{
		{"first", []string{"a", "b", "c"}, 0, []string{"b", "a", "c"}, true},
		{"middle", []string{"a", "b", "c"}, 1, []string{"a", "c", "b"}, true},
		{"last is no-op", []string{"a", "b", "c"}, 2, []string{"a", "b", "c"}, false},
		{"single element", []string{"a"}, 0, []string{"a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mover := &recordingMover{}
			l := New(tt.items, identity, mover)

			assert.Equal(t, tt.moved, l.MoveDown(context.Background(), tt.index))
			l.Wait()

			assert.Equal(t, tt.want, l.Items())
			if tt.moved {
				assert.Equal(t, []call{{tt.items[tt.index], Down}}, mover.Calls())
			} else {
				assert.Empty(t, mover.Calls())
			}
		})
	}
}

func TestMoveIsOptimistic(t *testing.T) {
	mover := &recordingMover{block: make(chan struct{})}
	l := New([]string{"a", "b", "c"}, identity, mover)

	require.True(t, l.MoveUp(context.Background(), 1))
	// The remote command has not completed yet but local order already changed.
	assert.Equal(t, []string{"b", "a", "c"}, l.Items())
	assert.Empty(t, mover.Calls())

	close(mover.block)
	l.Wait()
	assert.Equal(t, []call{{"b", Up}}, mover.Calls())
}

func TestMoveSurvivesCancelledRequestContext(t *testing.T) {
	var gotErr error
	mover := MoverFunc(func(ctx context.Context, id string, dir Direction) error {
		gotErr = ctx.Err()
		return nil
	})
	l := New([]string{"a", "b"}, identity, mover)

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, l.MoveDown(ctx, 0))
	cancel()
	l.Wait()

	assert.NoError(t, gotErr)
}

func TestFailuresAreNotRolledBack(t *testing.T) {
	var handled []Failure
	var mu sync.Mutex
	mover := &recordingMover{err: errors.New("boom")}
	l := New([]string{"a", "b", "c"}, identity, mover, WithFailureHandler(func(f Failure) {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, f)
	}))

	require.True(t, l.MoveDown(context.Background(), 0))
	l.Wait()

	assert.Equal(t, []string{"b", "a", "c"}, l.Items())
	failures := l.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "a", failures[0].ID)
	assert.Equal(t, Down, failures[0].Direction)
	assert.EqualError(t, failures[0].Err, "boom")
	assert.Len(t, handled, 1)
}

func TestOverlappingMovesKeepLocalOrder(t *testing.T) {
	mover := &recordingMover{}
	l := New([]string{"a", "b", "c", "d"}, identity, mover)

	require.True(t, l.MoveUp(context.Background(), 3))
	require.True(t, l.MoveUp(context.Background(), 2))
	require.True(t, l.MoveUp(context.Background(), 1))
	l.Wait()

	assert.Equal(t, []string{"d", "a", "b", "c"}, l.Items())
	assert.ElementsMatch(t, []call{{"d", Up}, {"d", Up}, {"d", Up}}, mover.Calls())
}

func TestRows(t *testing.T) {
	l := New([]string{"a", "b", "c"}, identity, &recordingMover{})

	rows := l.Rows()
	require.Len(t, rows, 3)
	assert.False(t, rows[0].CanMoveUp)
	assert.True(t, rows[0].CanMoveDown)
	assert.True(t, rows[1].CanMoveUp)
	assert.True(t, rows[1].CanMoveDown)
	assert.True(t, rows[2].CanMoveUp)
	assert.False(t, rows[2].CanMoveDown)

	single := New([]string{"a"}, identity, &recordingMover{}).Rows()
	require.Len(t, single, 1)
	assert.False(t, single[0].CanMoveUp)
	assert.False(t, single[0].CanMoveDown)
}

func TestReconcile(t *testing.T) {
	mover := &recordingMover{}
	l := New([]string{"a", "b", "c"}, identity, mover)
	require.True(t, l.MoveDown(context.Background(), 0))

	err := l.Reconcile(context.Background(), func(ctx context.Context) ([]string, error) {
		assert.Len(t, mover.Calls(), 1, "pending commands finish before reload")
		return []string{"a", "c", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, l.Items())

	err = l.Reconcile(context.Background(), func(ctx context.Context) ([]string, error) {
		return nil, errors.New("offline")
	})
	assert.Error(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, l.Items())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestItemsReturnsCopy(t *testing.T) {
	src := []string{"a", "b"}
	l := New(src, identity, &recordingMover{})
	src[0] = "z"
	items := l.Items()
	items[1] = "y"
	assert.Equal(t, []string{"a", "b"}, l.Items())
}

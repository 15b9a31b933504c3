package input

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubPushWithoutSession(t *testing.T) {
	h := newTestHub()
	assert.ErrorIs(t, h.Push(0, domain.KeyboardUpdate{Text: "x"}), domain.ErrNoKeyboardSession)
}

func TestHubDeliversUpdatesUntilDone(t *testing.T) {
	h := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := h.For(1).Open(ctx, "", domain.KeyboardNumberPad)
	require.NoError(t, err)

	kind, open := h.Session(1)
	assert.True(t, open)
	assert.Equal(t, domain.KeyboardNumberPad, kind)

	require.NoError(t, h.Push(1, domain.KeyboardUpdate{Text: "9"}))
	require.NoError(t, h.Push(1, domain.KeyboardUpdate{Text: "9.5", Done: true}))

	assert.Equal(t, domain.KeyboardUpdate{Text: "9"}, <-updates)
	assert.Equal(t, domain.KeyboardUpdate{Text: "9.5", Done: true}, <-updates)
	_, ok := <-updates
	assert.False(t, ok)

	_, open = h.Session(1)
	assert.False(t, open)
	assert.ErrorIs(t, h.Push(1, domain.KeyboardUpdate{Text: "late"}), domain.ErrNoKeyboardSession)
}

func TestHubNewSessionReplacesOld(t *testing.T) {
	h := newTestHub()
	ctx := context.Background()

	first, err := h.For(0).Open(ctx, "", domain.KeyboardDefault)
	require.NoError(t, err)
	second, err := h.For(0).Open(ctx, "", domain.KeyboardNumberPad)
	require.NoError(t, err)

	_, ok := <-first
	assert.False(t, ok)

	require.NoError(t, h.Push(0, domain.KeyboardUpdate{Text: "1"}))
	assert.Equal(t, "1", (<-second).Text)
}

func TestHubClosesSessionOnContextCancel(t *testing.T) {
	h := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())

	updates, err := h.For(2).Open(ctx, "", domain.KeyboardDefault)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("session was not closed")
	}
	assert.Eventually(t, func() bool {
		_, open := h.Session(2)
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestHubBacklogFull(t *testing.T) {
	h := newTestHub()

	_, err := h.For(0).Open(context.Background(), "", domain.KeyboardDefault)
	require.NoError(t, err)

	for i := 0; i < sessionBuffer; i++ {
		require.NoError(t, h.Push(0, domain.KeyboardUpdate{Text: "a"}))
	}
	assert.ErrorIs(t, h.Push(0, domain.KeyboardUpdate{Text: "a"}), domain.ErrKeyboardBusy)
}

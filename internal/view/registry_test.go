package view

import (
	"context"
	"testing"
	"time"

	"zentra/internal/backend"
	"zentra/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(backend.NewMemoryGateway(zap.NewNop()), usecase.NewService(nil, zap.NewNop()), time.Minute, zap.NewNop())
	t.Cleanup(reg.Close)
	return reg
}

func TestRegistry_Acquire(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	first, err := reg.Acquire(ctx, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, ScreenLanding, first.Router.Snapshot().Screen)

	again, err := reg.Acquire(ctx, first.ID, "")
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := reg.Acquire(ctx, "not-a-uuid", "")
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", other.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_EvictIdle(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	now := time.Now()
	reg.now = func() time.Time { return now }

	stale, err := reg.Acquire(ctx, "", "")
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	fresh, err := reg.Acquire(ctx, "", "")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, reg.Evict())
	assert.True(t, stale.Router.Stopped())
	assert.False(t, fresh.Router.Stopped())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RunClosesOnCancel(t *testing.T) {
	reg := newTestRegistry(t)
	session, err := reg.Acquire(context.Background(), "", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()
	cancel()

	require.NoError(t, <-done)
	assert.True(t, session.Router.Stopped())
	assert.Equal(t, 0, reg.Len())

	_, err = reg.Acquire(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrStopped)
}

func TestRegistry_Release(t *testing.T) {
	reg := newTestRegistry(t)
	session, err := reg.Acquire(context.Background(), "", "")
	require.NoError(t, err)

	reg.Release(session.ID)
	assert.True(t, session.Router.Stopped())
	assert.Equal(t, 0, reg.Len())
}

package backend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type eventLog struct {
	mu     sync.Mutex
	events []AuthEvent
}

func (l *eventLog) record(e AuthEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) kinds() []AuthEventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuthEventKind, len(l.events))
	for i, e := range l.events {
		out[i] = e.Kind
	}
	return out
}

func newSignedUpGateway(t *testing.T) *MemoryGateway {
	t.Helper()
	gw := NewMemoryGateway(zap.NewNop())
	_, err := gw.SignUp(context.Background(), "ada@x.com", "secret1", Metadata{"full_name": "Ada"})
	require.NoError(t, err)
	return gw
}

func TestHandle_EventsDeliveredInOrder(t *testing.T) {
	ctx := context.Background()
	h := NewHandle(newSignedUpGateway(t), "", zap.NewNop())
	defer h.Close()

	var log eventLog
	sub := h.OnAuthStateChange(log.record)
	defer sub.Unsubscribe()

	session, err := h.SignInWithPassword(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, h.Token())

	current, err := h.GetSession(ctx)
	require.NoError(t, err)
	assert.Same(t, session, current)

	require.NoError(t, h.SignOut(ctx))
	assert.Empty(t, h.Token())

	require.Eventually(t, func() bool { return len(log.kinds()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []AuthEventKind{SignedIn, SignedOut}, log.kinds())

	current, err = h.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestHandle_SignOutWithoutSessionEmitsNothing(t *testing.T) {
	h := NewHandle(NewMemoryGateway(zap.NewNop()), "", zap.NewNop())
	defer h.Close()

	var log eventLog
	h.OnAuthStateChange(log.record)

	require.NoError(t, h.SignOut(context.Background()))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, log.kinds())
}

func TestHandle_UnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	h := NewHandle(newSignedUpGateway(t), "", zap.NewNop())
	defer h.Close()

	var log eventLog
	sub := h.OnAuthStateChange(log.record)
	sub.Unsubscribe()
	sub.Unsubscribe()

	_, err := h.SignInWithPassword(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, log.kinds())
}

func TestHandle_RestoresStoredToken(t *testing.T) {
	ctx := context.Background()
	gw := newSignedUpGateway(t)

	session, err := gw.SignIn(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)

	h := NewHandle(gw, session.AccessToken, zap.NewNop())
	restored, err := h.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, session.User.ID, restored.User.ID)
	assert.Equal(t, "Ada", restored.User.Metadata.String("full_name"))
}

func TestHandle_DropsInvalidStoredToken(t *testing.T) {
	ctx := context.Background()
	h := NewHandle(NewMemoryGateway(zap.NewNop()), "stale-token", zap.NewNop())

	session, err := h.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Empty(t, h.Token())
}

func TestHandle_FailedSignInKeepsState(t *testing.T) {
	ctx := context.Background()
	h := NewHandle(newSignedUpGateway(t), "", zap.NewNop())

	_, err := h.SignInWithPassword(ctx, "ada@x.com", "nope-nope")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidCredentials))

	session, err := h.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestHandle_SignInAgainRevokesPreviousToken(t *testing.T) {
	ctx := context.Background()
	gw := newSignedUpGateway(t)
	h := NewHandle(gw, "", zap.NewNop())

	first, err := h.SignInWithPassword(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)
	second, err := h.SignInWithPassword(ctx, "ada@x.com", "secret1")
	require.NoError(t, err)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = gw.User(ctx, first.AccessToken)
	assert.True(t, IsCode(err, CodeSessionNotFound))

	user, err := gw.User(ctx, second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, user.ID)
	assert.Equal(t, second.AccessToken, h.Token())
}

package shared

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "sid", "secret", time.Hour, false), mr
}

func TestSessionRoundTripThroughRedis(t *testing.T) {
	sm, mr := newTestSessions(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.True(t, sess.IsNew())
	assert.False(t, sess.Unlocked())

	sess.MarkUnlocked(time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC))
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	assert.True(t, mr.Exists("quotebook:session:"+sess.ID))
	ttl := mr.TTL("quotebook:session:" + sess.ID)
	assert.Equal(t, time.Hour, ttl)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.True(t, loaded.Unlocked())
	assert.False(t, loaded.IsNew())
}

func TestLockDeletesSessionAndExpiresCookie(t *testing.T) {
	sm, mr := newTestSessions(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.MarkUnlocked(time.Now())
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	sess.Lock()
	assert.False(t, sess.Unlocked())
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	assert.False(t, mr.Exists("quotebook:session:"+sess.ID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestUnlockedIsNilSafe(t *testing.T) {
	var sess *Session
	assert.False(t, sess.Unlocked())
}

func TestMiddlewareCommitsWhenHandlerWritesNothing(t *testing.T) {
	sm, mr := newTestSessions(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var id string
	handler := sm.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		sess.Set("k", "v")
		id = sess.ID
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, mr.Exists("quotebook:session:"+id))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestMiddlewareReportsUnavailableRedis(t *testing.T) {
	sm, mr := newTestSessions(t)
	mr.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := sm.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnlockedFromContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, UnlockedFromContext(ctx))

	sess := &Session{ID: "s1"}
	ctx = ContextWithSession(ctx, sess)
	assert.Same(t, sess, SessionFromContext(ctx))
	assert.False(t, UnlockedFromContext(ctx))

	sess.MarkUnlocked(time.Now())
	assert.True(t, UnlockedFromContext(ctx))
}

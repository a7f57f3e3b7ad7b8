package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/store"
)

func TestSessionFlagsLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.False(t, state.LoggedIn)
	require.False(t, state.OnboardingSeen)

	require.NoError(t, svc.Login(ctx))
	require.NoError(t, svc.FinishOnboarding(ctx))

	state, err = svc.State(ctx)
	require.NoError(t, err)
	require.True(t, state.LoggedIn)
	require.True(t, state.OnboardingSeen)

	require.NoError(t, svc.Logout(ctx))
	state, err = svc.State(ctx)
	require.NoError(t, err)
	require.False(t, state.LoggedIn)
	require.True(t, state.OnboardingSeen)
}

func TestSessionFlagsOnRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(&store.Redis{Client: client})

	require.NoError(t, svc.Login(ctx))
	raw, err := mr.Get("isLoggedIn")
	require.NoError(t, err)
	require.Equal(t, "true", raw)

	mr.Set("onboardingSeen", "nope")
	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.True(t, state.LoggedIn)
	require.False(t, state.OnboardingSeen)
}

func TestSessionHandlers(t *testing.T) {
	h := &Handler{Svc: NewService(store.NewMemory())}

	r := chi.NewRouter()
	r.Get("/api/v1/session", h.State)
	r.Post("/api/v1/session/login", h.Login)
	r.Post("/api/v1/session/logout", h.Logout)
	r.Post("/api/v1/session/onboarding", h.FinishOnboarding)

	do := func(method, path string) State {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data State `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Data
	}

	state := do(http.MethodGet, "/api/v1/session")
	require.False(t, state.LoggedIn)

	state = do(http.MethodPost, "/api/v1/session/login")
	require.True(t, state.LoggedIn)

	state = do(http.MethodPost, "/api/v1/session/onboarding")
	require.True(t, state.OnboardingSeen)

	state = do(http.MethodPost, "/api/v1/session/logout")
	require.False(t, state.LoggedIn)
	require.True(t, state.OnboardingSeen)
}

package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
	"github.com/HarshShiyani/fitness-tracker/internal/persistence/memory"
)

func newResolver(t *testing.T) (*Resolver, *domain.User) {
	t.Helper()
	repos := memory.NewStore().Domain()
	user := &domain.User{Name: "Jane", Email: "jane@example.com", Role: access.RoleUser}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return NewResolver(repos.Users, testTokens), user
}

func TestResolveFromHeader(t *testing.T) {
	resolver, user := newResolver(t)
	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	req.Header.Set(HeaderUserID, "1")

	actor, err := resolver.Resolve(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, access.Actor{ID: user.ID, Role: access.RoleUser}, actor)
}

func TestResolveFromBearerToken(t *testing.T) {
	resolver, user := newResolver(t)
	issued, err := Issue(*user, testTokens, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	req.Header.Set(HeaderUserID, "not-a-number")
	req.Header.Set("Authorization", "Bearer "+issued.Token)

	actor, err := resolver.Resolve(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, user.ID, actor.ID)
}

func TestResolveFailures(t *testing.T) {
	resolver, _ := newResolver(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := resolver.Resolve(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.ErrorIs(t, err, ErrMissingToken)

	req.Header.Set("Authorization", "Basic abc")
	_, err = resolver.Resolve(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "42")
	_, err = resolver.Resolve(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.True(t, IsCredentialFailure(err))
}

func TestMiddlewareStoresActor(t *testing.T) {
	resolver, user := newResolver(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := NewMiddleware(resolver, func(r *http.Request) bool { return r.URL.Path == "/healthz" }, logger)

	var got access.Actor
	var found bool
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set(HeaderUserID, "1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.True(t, found)
	require.Equal(t, user.ID, got.ID)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.False(t, found)
}

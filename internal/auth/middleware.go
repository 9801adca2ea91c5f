package auth

import (
	"log/slog"
	"net/http"
)

// Skipper allows callers to bypass identity resolution for specific requests.
type Skipper func(r *http.Request) bool

// Middleware resolves the actor for every request and stores it on the context.
// Requests without a usable credential continue anonymously; handlers decide
// whether an actor is required.
type Middleware struct {
	Resolver *Resolver
	Skipper  Skipper
	Logger   *slog.Logger
}

// NewMiddleware constructs a middleware with optional skipper.
func NewMiddleware(resolver *Resolver, skipper Skipper, logger *slog.Logger) Middleware {
	return Middleware{Resolver: resolver, Skipper: skipper, Logger: logger}
}

// Wrap wraps an http.Handler with identity resolution.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Skipper != nil && m.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := m.Resolver.Resolve(r.Context(), r)
		if err != nil {
			if IsCredentialFailure(err) {
				m.Logger.Debug("no actor established", "path", r.URL.Path, "reason", err.Error())
			} else {
				m.Logger.Error("resolve actor", "path", r.URL.Path, "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

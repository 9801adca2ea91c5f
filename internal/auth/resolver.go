// Package auth establishes the actor behind a request, either from the trusted
// X-USER-ID header or from a bearer token issued at login.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// HeaderUserID carries a numeric actor id set by a trusted upstream.
const HeaderUserID = "X-USER-ID"

// UserLookup loads the user a credential refers to.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}

// Resolver maps request credentials to an actor. The role always comes from the
// stored user, never from the credential.
type Resolver struct {
	users  UserLookup
	tokens Config
}

// NewResolver constructs a Resolver.
func NewResolver(users UserLookup, tokens Config) *Resolver {
	return &Resolver{users: users, tokens: tokens}
}

// Resolve tries the X-USER-ID header first and falls back to the bearer token.
// It fails with an UnauthenticatedError when neither credential is usable and a
// NotFoundError when the credential names an unknown user.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (access.Actor, error) {
	id, err := credentialUserID(req, r.tokens)
	if err != nil {
		return access.Actor{}, err
	}

	user, err := r.users.Get(ctx, id)
	if err != nil {
		return access.Actor{}, err
	}
	if user == nil {
		return access.Actor{}, &domain.NotFoundError{Message: domain.MsgUserNotFound}
	}
	return access.Actor{ID: user.ID, Role: user.Role}, nil
}

func credentialUserID(req *http.Request, tokens Config) (int64, error) {
	if raw := strings.TrimSpace(req.Header.Get(HeaderUserID)); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}

	header := req.Header.Get("Authorization")
	if header == "" {
		return 0, unauthenticated(ErrMissingToken)
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return 0, unauthenticated(ErrInvalidToken)
	}
	claims, err := Parse(header[len("Bearer "):], tokens)
	if err != nil {
		return 0, unauthenticated(err)
	}
	return claims.UserID, nil
}

func unauthenticated(cause error) error {
	return &credentialError{cause: cause}
}

// credentialError keeps the parse failure for logs while presenting the fixed message.
type credentialError struct {
	cause error
}

func (e *credentialError) Error() string { return domain.MsgAuthRequired + ": " + e.cause.Error() }
func (e *credentialError) Unwrap() []error {
	return []error{e.cause, &domain.UnauthenticatedError{Message: domain.MsgAuthRequired}}
}

// IsCredentialFailure reports whether err means no actor could be established,
// as opposed to a storage failure.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrNotFound)
}

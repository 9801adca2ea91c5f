package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

var testTokens = Config{Secret: "test-secret", Issuer: "fitness-tracker", TTL: time.Hour}

func TestIssueAndParse(t *testing.T) {
	user := domain.User{ID: 7, Email: "john@example.com", Role: access.RoleUser}
	issued, err := Issue(user, testTokens, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	claims, err := Parse(issued.Token, testTokens)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "john@example.com", claims.Email)
	require.Equal(t, []access.Role{access.RoleUser}, claims.Roles)
	require.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issued, err := Issue(domain.User{ID: 1, Role: access.RoleAdmin}, testTokens, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = Parse(issued.Token, testTokens)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuerAndSecret(t *testing.T) {
	issued, err := Issue(domain.User{ID: 1, Role: access.RoleUser}, Config{Secret: "other", Issuer: "fitness-tracker"}, time.Now())
	require.NoError(t, err)
	_, err = Parse(issued.Token, testTokens)
	require.ErrorIs(t, err, ErrInvalidToken)

	issued, err = Issue(domain.User{ID: 1, Role: access.RoleUser}, Config{Secret: "test-secret", Issuer: "someone-else"}, time.Now())
	require.NoError(t, err)
	_, err = Parse(issued.Token, testTokens)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseEmptyToken(t *testing.T) {
	_, err := Parse("  ", testTokens)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)
	hash, err := hasher.Hash("Password@1")
	require.NoError(t, err)
	require.NotEqual(t, "Password@1", hash)
	require.NoError(t, hasher.Compare(hash, "Password@1"))
	require.Error(t, hasher.Compare(hash, "wrong"))
}

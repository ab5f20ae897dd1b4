package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
)

func testTokenConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "wedding-marketplace",
		JWTAudience: "wedding-marketplace-api",
		TokenTTL:    time.Hour,
	}
}

func TestTokenIssuer_Issue(t *testing.T) {
	issuer := NewTokenIssuer(testTokenConfig())
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, expiresAt, err := issuer.Issue(&models.Account{ID: 42, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), expiresAt)

	claims := &TokenClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "wedding-marketplace", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"wedding-marketplace-api"}, claims.Audience)
	assert.Contains(t, strings.Fields(claims.Scope), ScopeWritePackages)
}

func TestScopesFor(t *testing.T) {
	user := strings.Fields(ScopesFor(models.RoleUser))
	assert.Contains(t, user, ScopeWriteBookings)
	assert.NotContains(t, user, ScopeWritePackages)
	assert.NotContains(t, user, ScopeManageBookings)

	admin := strings.Fields(ScopesFor(models.RoleAdmin))
	assert.Contains(t, admin, ScopeManageBookings)
	assert.NotContains(t, admin, ScopeWriteBookings)
}

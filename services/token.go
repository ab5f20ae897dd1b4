package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
)

// Scopes granted to each role. They travel in the token's scope claim.
const (
	ScopeReadPackages   = "read:packages"
	ScopeWritePackages  = "write:packages"
	ScopeWriteBookings  = "write:bookings"
	ScopeManageBookings = "manage:bookings"
	ScopeWriteMessages  = "write:messages"
)

// TokenClaims is the payload of an access token
type TokenClaims struct {
	Role  string `json:"role"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access tokens
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates an issuer from the JWT settings in cfg
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL,
		now:      time.Now,
	}
}

// ScopesFor returns the space separated scopes a role is granted
func ScopesFor(role string) string {
	if role == models.RoleAdmin {
		return strings.Join([]string{ScopeReadPackages, ScopeWritePackages, ScopeManageBookings, ScopeWriteMessages}, " ")
	}
	return strings.Join([]string{ScopeReadPackages, ScopeWriteBookings, ScopeWriteMessages}, " ")
}

// Issue signs a token for account and returns it with its expiry
func (i *TokenIssuer) Issue(account *models.Account) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	claims := TokenClaims{
		Role:  account.Role,
		Scope: ScopesFor(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(account.ID), 10),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

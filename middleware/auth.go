package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
)

// TokenCookieName is the cookie the access token is stored in after login
const TokenCookieName = "token"

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Role  string `json:"role"`
	Scope string `json:"scope"`
}

// Validate rejects tokens that carry an unknown role
func (c CustomClaims) Validate(ctx context.Context) error {
	if !models.ValidRole(c.Role) {
		return errors.New("token carries an unknown role")
	}
	return nil
}

// HasScope checks whether our claims have a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	result := strings.Split(c.Scope, " ")
	for i := range result {
		if result[i] == expectedScope {
			return true
		}
	}

	return false
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// The token is read from the Authorization header, falling back to the token cookie.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
			jwtmiddleware.AuthHeaderTokenExtractor,
			jwtmiddleware.CookieTokenExtractor(TokenCookieName),
		)),
	)

	return func(c *gin.Context) {
		validated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set("user_id", token.RegisteredClaims.Subject)
			c.Set("validated_claims", token)
			c.Request = r
			validated = true

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// the error handler already wrote the response
		if !validated {
			c.Abort()
		}
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetCustomClaims returns the role and scope claims of the validated token
func GetCustomClaims(c *gin.Context) (*CustomClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	customClaims, ok := claims.CustomClaims.(*CustomClaims)
	if !ok || customClaims == nil {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return customClaims, nil
}

// GetIdentity builds the caller's identity from the token subject and role claim
func GetIdentity(c *gin.Context) (services.Identity, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return services.Identity{}, err
	}

	accountID, err := strconv.ParseUint(userID, 10, 64)
	if err != nil || accountID == 0 {
		return services.Identity{}, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a valid account ID"}
	}

	customClaims, err := GetCustomClaims(c)
	if err != nil {
		return services.Identity{}, err
	}

	return services.Identity{AccountID: uint(accountID), Role: customClaims.Role}, nil
}

// RequireScope is a middleware that checks if the token has a specific scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		customClaims, err := GetCustomClaims(c)
		if err != nil {
			abortMissingClaims(c)
			return
		}

		if !customClaims.HasScope(scope) {
			abortForbidden(c, "INSUFFICIENT_SCOPE")
			return
		}

		c.Next()
	}
}

// RequireRole is a middleware that only lets accounts with one of roles through
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		customClaims, err := GetCustomClaims(c)
		if err != nil {
			abortMissingClaims(c)
			return
		}

		for _, role := range roles {
			if customClaims.Role == role {
				c.Next()
				return
			}
		}

		abortForbidden(c, "FORBIDDEN")
	}
}

func abortMissingClaims(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "MISSING_CLAIMS",
			"message": "Could not retrieve token claims",
		},
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, code string) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": "Insufficient permissions to access this resource",
		},
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/middleware"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
	"github.com/weddingbook/marketplace-api/testutil"
	"gorm.io/gorm"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// setupTestDB installs a fresh in-memory database as the shared connection
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testutil.RequireTestEnvironment(t)

	db := testutil.NewTestDB(t)
	previous := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(previous) })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:       "test",
		JWTSecret:   "controller-test-secret",
		JWTIssuer:   "marketplace-api-test",
		JWTAudience: "marketplace-api-test",
		TokenTTL:    time.Hour,
	}
}

func setupTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig()
	previous := config.GetConfig()
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(previous) })
	return cfg
}

// mockAuthMiddleware sets up the context the way EnsureValidToken does for a valid token
func mockAuthMiddleware(accountID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", strconv.FormatUint(uint64(accountID), 10))
		c.Set("validated_claims", &validator.ValidatedClaims{
			CustomClaims: &middleware.CustomClaims{
				Role:  role,
				Scope: services.ScopesFor(role),
			},
		})
		c.Next()
	}
}

func as(account *models.Account) gin.HandlerFunc {
	return mockAuthMiddleware(account.ID, account.Role)
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response body: %s", w.Body.String())
	return response
}

// checkError asserts the error envelope carries code
func checkError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) map[string]interface{} {
	t.Helper()
	require.Equal(t, status, w.Code, "Response body: %s", w.Body.String())
	response := decodeResponse(t, w)
	require.Equal(t, false, response["success"])
	errBody, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "missing error object: %s", w.Body.String())
	require.Equal(t, code, errBody["code"])
	return errBody
}

// checkData asserts the success envelope and returns its data
func checkData(t *testing.T, w *httptest.ResponseRecorder, status int) interface{} {
	t.Helper()
	require.Equal(t, status, w.Code, "Response body: %s", w.Body.String())
	response := decodeResponse(t, w)
	require.Equal(t, true, response["success"])
	return response["data"]
}

// marketplace mirrors the services scenario: users U1 and U2, managers M1 and M2,
// package P1 owned by M1 and U1's Pending booking B1 on P1.
type marketplace struct {
	db *gorm.DB
	u1 *models.Account
	u2 *models.Account
	m1 *models.Account
	m2 *models.Account
	p1 *models.Package
	b1 *models.Booking
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	db := setupTestDB(t)
	w := &marketplace{db: db}
	w.u1 = testutil.CreateAccount(t, db, "Uma", "u1@example.com", models.RoleUser)
	w.u2 = testutil.CreateAccount(t, db, "Ugo", "u2@example.com", models.RoleUser)
	w.m1 = testutil.CreateAccount(t, db, "Mira", "m1@example.com", models.RoleAdmin)
	w.m2 = testutil.CreateAccount(t, db, "Milo", "m2@example.com", models.RoleAdmin)
	w.p1 = testutil.CreatePackage(t, db, w.m1.ID, "Golden Hour Weddings")
	w.b1 = testutil.CreateBooking(t, db, w.u1.ID, w.p1.ID, testutil.UintPtr(w.m1.ID), models.BookingPending)
	return w
}

func withID(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}

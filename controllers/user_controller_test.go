package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weddingbook/marketplace-api/models"
)

func TestGetMyProfile(t *testing.T) {
	w := newMarketplace(t)

	t.Run("Existing account", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", as(w.u1), GetMyProfile)

		data := checkData(t, doJSON(router, http.MethodGet, "/users/me", nil), http.StatusOK).(map[string]interface{})
		assert.Equal(t, "Uma", data["name"])
		assert.Equal(t, "u1@example.com", data["email"])
		assert.Equal(t, models.RoleUser, data["role"])
	})

	t.Run("Deleted account", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware(9999, models.RoleUser), GetMyProfile)

		checkError(t, doJSON(router, http.MethodGet, "/users/me", nil), http.StatusNotFound, "USER_NOT_FOUND")
	})

	t.Run("No claims", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", GetMyProfile)

		checkError(t, doJSON(router, http.MethodGet, "/users/me", nil), http.StatusUnauthorized, "UNAUTHORIZED")
	})
}

func TestUpdateMyProfile(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedCode   string
	}{
		{"Valid update", map[string]string{"name": "Uma Rose", "email": "uma.rose@example.com"}, http.StatusOK, ""},
		{"Same email", map[string]string{"name": "Uma Rose", "email": "u1@example.com"}, http.StatusOK, ""},
		{"Email taken", map[string]string{"name": "Uma", "email": "u2@example.com"}, http.StatusConflict, "EMAIL_EXISTS"},
		{"Invalid email", map[string]string{"name": "Uma", "email": "not-an-email"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Missing name", map[string]string{"email": "u1@example.com"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newMarketplace(t)
			router := setupTestRouter()
			router.PUT("/users/me", as(w.u1), UpdateMyProfile)

			resp := doJSON(router, http.MethodPut, "/users/me", tt.body)

			if tt.expectedCode != "" {
				checkError(t, resp, tt.expectedStatus, tt.expectedCode)
				return
			}
			data := checkData(t, resp, tt.expectedStatus).(map[string]interface{})
			assert.Equal(t, tt.body["name"], data["name"])
			assert.Equal(t, tt.body["email"], data["email"])

			var stored models.Account
			assert.NoError(t, w.db.First(&stored, w.u1.ID).Error)
			assert.Equal(t, tt.body["email"], stored.Email)
		})
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/middleware"
	"github.com/weddingbook/marketplace-api/services"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates a user or admin account
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := services.NewAccountService(config.GetDB()).Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, account)
}

// Login handles POST /api/v1/auth/login - checks credentials and issues an access token.
// The token is returned in the body and set as an HTTP-only cookie.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := services.NewAccountService(config.GetDB()).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	cfg := config.GetConfig()
	token, expiresAt, err := services.NewTokenIssuer(cfg).Issue(account)
	if err != nil {
		respondError(c, services.StorageError("issue token", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", cfg.IsProduction(), true)

	respondData(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       account,
	})
}

// Logout handles POST /api/v1/auth/logout - clears the token cookie
func Logout(c *gin.Context) {
	cfg := config.GetConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", cfg != nil && cfg.IsProduction(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

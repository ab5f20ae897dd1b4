package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/services"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	account, err := services.NewAccountService(config.GetDB()).GetProfile(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, account)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's name and email
func UpdateMyProfile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := services.NewAccountService(config.GetDB()).UpdateProfile(c.Request.Context(), identity, services.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, account)
}

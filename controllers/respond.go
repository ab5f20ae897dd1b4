package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/middleware"
	"github.com/weddingbook/marketplace-api/services"
)

// statusFor maps a service error kind to its HTTP status
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindBusinessRule:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnauthorized:
		return http.StatusForbidden
	case services.KindConflict:
		return http.StatusConflict
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the standard error envelope. Storage causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = services.StorageError("unclassified", err)
	}

	if svcErr.Kind == services.KindStorage {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), svcErr)
	}

	body := gin.H{
		"code":    svcErr.Code,
		"message": svcErr.Message,
	}
	if svcErr.Field != "" {
		body["field"] = svcErr.Field
	}

	c.JSON(statusFor(svcErr.Kind), gin.H{
		"success": false,
		"error":   body,
	})
}

// respondData writes data in the success envelope
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondBindError reports a request body that could not be decoded
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// currentIdentity reads the caller from the validated token, answering 401 when it cannot
func currentIdentity(c *gin.Context) (services.Identity, bool) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return services.Identity{}, false
	}
	return identity, true
}

// idParam parses a positive integer path parameter, answering 400 INVALID_ID otherwise
func idParam(c *gin.Context, name, field, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, services.ValidationError("INVALID_ID", "Valid "+what+" ID is required", field))
		return 0, false
	}
	return uint(id), true
}

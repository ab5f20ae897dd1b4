package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/services"
)

// SendMessageRequest represents the request body for starting a conversation.
// At least one of package_id and booking_id is needed to find the recipient.
type SendMessageRequest struct {
	PackageID *uint  `json:"package_id"`
	BookingID *uint  `json:"booking_id"`
	Content   string `json:"content"`
}

// ReplyMessageRequest represents the request body for answering a message
type ReplyMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/v1/messages - a user writes to a package owner or booking provider
func SendMessage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := services.NewMessageService(config.GetDB()).Send(c.Request.Context(), identity, services.SendMessageInput{
		PackageID: req.PackageID,
		BookingID: req.BookingID,
		Content:   req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, msg)
}

// ReplyMessage handles POST /api/v1/messages/:id/reply - answers a message the caller sent or received
func ReplyMessage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id", "message_id", "Message")
	if !ok {
		return
	}

	var req ReplyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := services.NewMessageService(config.GetDB()).Reply(c.Request.Context(), identity, services.ReplyInput{
		MessageID: id,
		Content:   req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, msg)
}

// DeleteMessage handles DELETE /api/v1/messages/:id - the sender removes a message
func DeleteMessage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id", "message_id", "Message")
	if !ok {
		return
	}

	if err := services.NewMessageService(config.GetDB()).Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message deleted",
	})
}

// GetThread handles GET /api/v1/messages/thread?contact= - the caller's contacts and the selected conversation
func GetThread(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	view, err := services.NewMessageService(config.GetDB()).ListThread(c.Request.Context(), identity, c.Query("contact"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, view)
}

package handlers

import (
	"net/http"

	"chat-api/internal/database"
	"chat-api/internal/models"
	"chat-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendMessageRequest represents the payload for sending a message.
// Image is an opaque string (e.g. a data URL); this layer never processes it.
type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

/*
*
GetMessages handles GET /api/messages/:id
Returns the full conversation between the authenticated user and user :id,
oldest first.
*/
func GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}
	peerID := c.Param("id")

	var messages []models.Message
	err := database.GetDB().
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

/*
*
SendMessage handles POST /api/messages/:id
Persists a direct message to user :id, then pushes it to the receiver's live
connection if they are online. The push is best-effort: an offline receiver
still gets the message from the store on their next fetch.
*/
func SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}
	receiverID := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Text == "" && req.Image == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	db := database.GetDB()

	var receiver models.User
	if err := db.Where("id = ?", receiverID).First(&receiver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		return
	}

	message := models.Message{
		ID:         uuid.NewString(),
		SenderID:   userID,
		ReceiverID: receiverID,
		Text:       req.Text,
		Image:      req.Image,
	}
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	// Live push; an offline receiver is a normal outcome, not a failure
	deliveryRouter().DeliverToUser(receiverID, realtime.EventNewMessage, message)

	c.JSON(http.StatusCreated, message)
}

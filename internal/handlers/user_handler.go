package handlers

import (
	"net/http"

	"chat-api/internal/database"
	"chat-api/internal/models"

	"github.com/gin-gonic/gin"
)

// GetContacts returns every other user, for the chat sidebar (protected)
// GET /api/users
func GetContacts(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	var users []models.User
	err := database.GetDB().
		Where("id <> ?", userID).
		Order("username asc").
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Map to safe response payload
	resp := make([]models.Profile, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.PublicProfile())
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}

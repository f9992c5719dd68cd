package handlers

import (
	"time"

	"chat-api/internal/cache"
	"chat-api/internal/config"
	"chat-api/internal/database"
	"chat-api/internal/models"
	"chat-api/internal/realtime"

	"gorm.io/gorm"
)

var cfg = config.Load()

// profileCache holds public profiles used to enrich outbound message
// payloads, so a burst of group messages does not re-read the sender row
// for every message.
var profileCache = cache.New[string, models.Profile](30 * time.Second)

// senderProfile resolves a user's public profile, via the cache when warm.
func senderProfile(db *gorm.DB, userID string) models.Profile {
	if p, ok := profileCache.Get(userID); ok {
		return p
	}
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		// Sender row missing; fall back to a bare ID so delivery still works
		return models.Profile{ID: userID}
	}
	p := user.PublicProfile()
	profileCache.Set(userID, p)
	return p
}

// deliveryRouter builds a router over the shared hub and the current DB.
// Constructed per request like database.GetDB, so tests that swap the DB
// are always routed against the right one.
func deliveryRouter() *realtime.Router {
	return realtime.NewRouter(
		realtime.GetHub(),
		realtime.NewGroupMembers(database.GetDB()),
		cfg.ExcludeSenderFromGroupFanout,
	)
}

package routes

import (
	"chat-api/internal/config"
	"chat-api/internal/handlers"
	"chat-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	cfg := config.Load()

	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration); the same origin allow-list
	// gates the websocket upgrade
	ginRouter.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if cfg.OriginAllowed(origin) {
			// Echo the origin when one is present; "*" is not valid alongside
			// Allow-Credentials
			allow := origin
			if allow == "" {
				allow = "*"
			}
			c.Writer.Header().Set("Access-Control-Allow-Origin", allow)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Chat API server is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/auth/signup", handlers.Signup)
		api.POST("/auth/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Session / profile endpoints
		protectedRoutes.GET("/auth/check", handlers.Check)
		protectedRoutes.PUT("/auth/profile", handlers.UpdateProfile)

		// Contacts endpoint
		protectedRoutes.GET("/users", handlers.GetContacts)

		// Direct message endpoints
		protectedRoutes.GET("/messages/:id", handlers.GetMessages)
		protectedRoutes.POST("/messages/:id", handlers.SendMessage)

		// Group endpoints
		protectedRoutes.POST("/groups", handlers.CreateGroup)
		protectedRoutes.GET("/groups", handlers.GetGroups)
		protectedRoutes.PUT("/groups/:id", handlers.UpdateGroup)
		protectedRoutes.DELETE("/groups/:id", handlers.DeleteGroup)
		protectedRoutes.DELETE("/groups/:id/leave", handlers.LeaveGroup)
		protectedRoutes.POST("/groups/:id/members", handlers.AddGroupMembers)
		protectedRoutes.DELETE("/groups/:id/members/:memberId", handlers.RemoveGroupMember)
		protectedRoutes.GET("/groups/:id/messages", handlers.GetGroupMessages)
		protectedRoutes.POST("/groups/:id/messages", handlers.SendGroupMessage)

		// Realtime endpoint (token accepted via query param for browsers)
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}

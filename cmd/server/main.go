package main

import (
	"chat-api/internal/config"
	"chat-api/internal/database"
	"chat-api/internal/routes"
	"log"
)

func main() {
	// Load configuration and init database
	cfg := config.Load()
	database.InitDB()

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/auth/check")
	log.Println("  PUT    /api/auth/profile")
	log.Println("  GET    /api/users")
	log.Println("  GET    /api/messages/:id")
	log.Println("  POST   /api/messages/:id")
	log.Println("  POST   /api/groups")
	log.Println("  GET    /api/groups")
	log.Println("  PUT    /api/groups/:id")
	log.Println("  DELETE /api/groups/:id")
	log.Println("  GET    /api/groups/:id/messages")
	log.Println("  POST   /api/groups/:id/messages")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

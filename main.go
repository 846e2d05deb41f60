package main

import (
	"log"
	"os"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/controllers"
	"github.com/astroveda/connect-backend/jobs"
	"github.com/astroveda/connect-backend/routes"
	"github.com/astroveda/connect-backend/utils"
	"github.com/astroveda/connect-backend/ws"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	_, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create sample admin
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Initialize Google OAuth
	config.InitGoogleOAuth()

	// Realtime registries shared across the router
	hub := ws.NewHub()
	rooms := ws.NewRoomRegistry()

	// Set up router
	router := routes.SetupRouter(hub, rooms)

	// Add middleware
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Background settlement sweep
	scheduler := jobs.NewScheduler(config.DB)
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	// Start server
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

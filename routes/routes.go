package routes

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/astroveda/connect-backend/controllers"
	"github.com/astroveda/connect-backend/ws"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(hub *ws.Hub, rooms *ws.RoomRegistry) *gin.Engine {
	router := gin.Default()

	// Session middleware backs the OAuth state cookie
	store := cookie.NewStore([]byte("your-secret-key"))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   false, // Set to true in production with HTTPS
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("astroveda", store))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AstroVeda Connect API is running"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "postgresql"})
	})

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	astrologerCtrl := controllers.NewAstrologerController(hub)
	connectCtrl := controllers.NewConnectController(hub, rooms)

	// WebSocket surfaces
	router.GET("/ws/notifications", connectCtrl.Notifications)
	router.GET("/ws/:session_id/:user_id", connectCtrl.SessionRoom)

	api := router.Group("/api")
	{
		initUserRoutes(api, astrologerCtrl)
		initAdminRoutes(api)
	}

	return router
}

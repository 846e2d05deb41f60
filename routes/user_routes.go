package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/astroveda/connect-backend/controllers"
	"github.com/astroveda/connect-backend/middleware"
)

// initUserRoutes initializes all user-facing routes under /api
func initUserRoutes(router *gin.RouterGroup, astrologerCtrl *controllers.AstrologerController) {
	// Public directory and content routes
	router.GET("/astrologers", astrologerCtrl.List)

	features := router.Group("/features")
	{
		features.GET("/panchang/daily", controllers.GetDailyPanchang)
		features.GET("/horoscope/daily", controllers.GetDailyHoroscope)
		features.GET("/news", controllers.GetNewsFeed)
		features.GET("/reports/available", controllers.GetAvailableReports)
		features.GET("/insights/today", controllers.GetTodayInsights)
		features.GET("/insights/:category", controllers.GetInsights)
		features.POST("/matching/check", controllers.CheckMatching)
		features.POST("/kundli", controllers.GenerateKundli)
		features.POST("/kundli/pdf", controllers.DownloadKundliPDF)
		// legacy clients fetch the catalogue under /features
		features.GET("/shop/items", controllers.ListProducts)
		features.GET("/shop/items/:id", controllers.GetProduct)
	}

	shop := router.Group("/shop")
	{
		shop.GET("/items", controllers.ListProducts)
		shop.GET("/items/:id", controllers.GetProduct)
	}

	router.POST("/chat", controllers.ChatWithGuru)

	// Authenticated routes
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		users := protected.Group("/users")
		{
			users.GET("/me", controllers.GetProfile)
			users.PUT("/me", controllers.UpdateProfile)
			users.POST("/me/image", controllers.UploadProfileImage)
		}

		astrologers := protected.Group("/astrologers")
		{
			astrologers.POST("/apply", astrologerCtrl.Apply)
			astrologers.GET("/me", astrologerCtrl.GetMyProfile)
			astrologers.PUT("/me/status", astrologerCtrl.UpdateStatus)
			astrologers.PUT("/me/rate", astrologerCtrl.UpdateRate)
			astrologers.POST("/me/boost", astrologerCtrl.ToggleBoost)
			astrologers.POST("/me/live", astrologerCtrl.ToggleLive)
			astrologers.GET("/me/sessions", astrologerCtrl.GetMySessions)
			astrologers.GET("/me/earnings", middleware.AstrologerMiddleware(), controllers.GetAstrologerEarnings)
			astrologers.GET("/:id", astrologerCtrl.Get)
			astrologers.GET("/:id/reviews", controllers.ListReviews)
			astrologers.POST("/:id/reviews", controllers.CreateReview)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.POST("/start", controllers.StartSession)
			sessions.POST("/:id/end", controllers.EndSession)
			sessions.GET("/:id", controllers.GetSession)
		}

		wallet := protected.Group("/wallet")
		{
			wallet.GET("/balance", controllers.GetWallet)
			wallet.POST("/add-funds", controllers.AddFunds)
			wallet.POST("/topup/initiate", controllers.InitiateWalletTopup)
			wallet.POST("/topup/verify", controllers.VerifyWalletTopup)
		}

		shopProtected := protected.Group("/shop")
		{
			shopProtected.POST("/purchase", controllers.PurchaseProduct)
			shopProtected.GET("/orders", controllers.ListMyOrders)
		}
		protected.POST("/features/shop/purchase", controllers.PurchaseProduct)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/astroveda/connect-backend/controllers"
	"github.com/astroveda/connect-backend/middleware"
)

// initAdminRoutes initializes all admin routes under /api/admin
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/applications", controllers.ListApplications)
		admin.PUT("/verify/:email", controllers.VerifyAstrologer)
		admin.GET("/stats", controllers.PlatformStats)
		admin.POST("/settlements/run", controllers.RunSettlement)
		admin.GET("/reports/settlements/excel", controllers.DownloadSettlementReportExcel)

		products := admin.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		news := admin.Group("/news")
		{
			news.POST("", controllers.CreateNews)
			news.POST("/:id/image", controllers.UploadNewsImage)
			news.PUT("/:id", controllers.UpdateNews)
			news.DELETE("/:id", controllers.DeleteNews)
		}
	}
}

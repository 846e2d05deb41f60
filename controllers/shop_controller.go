package controllers

import (
	"fmt"
	"time"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProducts returns active shop products, optionally filtered by category
func ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	page, limit, offset := paginationParams(c)

	query := config.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if astrologerID := c.Query("astrologer_id"); astrologerID != "" {
		query = query.Where("astrologer_id = ?", astrologerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", gin.H{"products": products}, total, page, limit)
}

// GetProduct returns a single active product
func GetProduct(c *gin.Context) {
	utils.LogInfo("GetProduct called")

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", c.Param("id"), true).First(&product).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, "Product retrieved successfully", product)
}

// ProductRequest is the payload for product create/update
type ProductRequest struct {
	AstrologerID uint    `json:"astrologer_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required"`
	ImageURL     string  `json:"image_url"`
	Category     string  `json:"category"`
}

// CreateProduct adds a shop product on behalf of an astrologer. Admin only.
func CreateProduct(c *gin.Context) {
	utils.LogInfo("CreateProduct called")

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid product payload", err.Error())
		return
	}
	if req.Price <= 0 {
		utils.BadRequest(c, "Price must be positive", nil)
		return
	}

	var astrologer models.Astrologer
	if err := config.DB.First(&astrologer, req.AstrologerID).Error; err != nil {
		utils.NotFound(c, "Astrologer not found")
		return
	}

	product := models.Product{
		AstrologerID: req.AstrologerID,
		Name:         utils.SanitizeString(req.Name),
		Description:  utils.SanitizeString(req.Description),
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
		IsActive:     true,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.InternalServerError(c, "Failed to create product", err.Error())
		return
	}

	utils.LogInfo("Product %d created for astrologer %d", product.ID, product.AstrologerID)
	utils.Created(c, "Product created successfully", product)
}

// UpdateProduct modifies a product. Admin only.
func UpdateProduct(c *gin.Context) {
	utils.LogInfo("UpdateProduct called")

	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
		Category    *string  `json:"category"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid product payload", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.BadRequest(c, "Price must be positive", nil)
			return
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", err.Error())
		return
	}

	utils.Success(c, "Product updated successfully", product)
}

// DeleteProduct retires a product. Orders referencing it are untouched.
func DeleteProduct(c *gin.Context) {
	utils.LogInfo("DeleteProduct called")

	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	if err := config.DB.Model(&product).Update("is_active", false).Error; err != nil {
		utils.LogError("Failed to deactivate product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to delete product", err.Error())
		return
	}

	utils.Success(c, "Product deleted successfully", nil)
}

// PurchaseRequest is the payload for POST /api/shop/purchase
type PurchaseRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// PurchaseProduct debits the buyer's wallet and records a paid order.
// The platform keeps its fee share; the astrologer's share is held back
// and settled after the settlement window by the scheduled sweep.
func PurchaseProduct(c *gin.Context) {
	utils.LogInfo("PurchaseProduct called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "product_id is required", err.Error())
		return
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		utils.LogError("Product %d not found or inactive: %v", req.ProductID, err)
		utils.NotFound(c, "Product not found")
		return
	}

	totalAmount := product.Price * float64(quantity)
	if user.WalletBalance < totalAmount {
		utils.LogError("Insufficient balance for user %d: have %.2f, need %.2f", user.ID, user.WalletBalance, totalAmount)
		utils.BadRequest(c, "Insufficient balance", gin.H{
			"wallet_balance": user.WalletBalance,
			"required":       totalAmount,
		})
		return
	}

	platformFee, astrologerEarning := utils.SplitPurchaseAmount(totalAmount)

	var order models.ProductOrder
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		description := fmt.Sprintf("Purchase of %s x%d", product.Name, quantity)
		order = models.ProductOrder{
			UserID:                  user.ID,
			AstrologerID:            product.AstrologerID,
			ProductID:               product.ID,
			Quantity:                quantity,
			TotalAmount:             totalAmount,
			PlatformFeeAmount:       platformFee,
			AstrologerEarningAmount: astrologerEarning,
			Status:                  models.OrderStatusPaid,
			SettlementDueDate:       time.Now().UTC().Add(utils.SettlementDelay),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		_, err := utils.DebitUser(tx, user.ID, totalAmount, description,
			fmt.Sprintf("ORDER-%d", order.ID))
		return err
	})
	if err != nil {
		utils.LogError("Failed to record purchase for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to complete purchase", err.Error())
		return
	}

	utils.LogInfo("Order %d placed by user %d: total %.2f (fee %.2f, earning %.2f)",
		order.ID, user.ID, totalAmount, platformFee, astrologerEarning)
	utils.Created(c, "Purchase completed successfully", gin.H{
		"order":               order,
		"platform_fee":        platformFee,
		"astrologer_earning":  astrologerEarning,
		"settlement_due_date": order.SettlementDueDate,
	})
}

// ListMyOrders returns the caller's shop orders
func ListMyOrders(c *gin.Context) {
	utils.LogInfo("ListMyOrders called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit, offset := paginationParams(c)

	var total int64
	if err := config.DB.Model(&models.ProductOrder{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}

	var orders []models.ProductOrder
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{"orders": orders}, total, page, limit)
}

// GetAstrologerEarnings summarizes shop earnings for the calling astrologer
func GetAstrologerEarnings(c *gin.Context) {
	utils.LogInfo("GetAstrologerEarnings called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var astrologer models.Astrologer
	if err := config.DB.Where("user_id = ?", user.ID).First(&astrologer).Error; err != nil {
		utils.NotFound(c, "Astrologer profile not found")
		return
	}

	type earningsRow struct {
		Status string
		Count  int64
		Total  float64
	}
	var rows []earningsRow
	if err := config.DB.Model(&models.ProductOrder{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(astrologer_earning_amount), 0) AS total").
		Where("astrologer_id = ?", astrologer.ID).
		Group("status").
		Scan(&rows).Error; err != nil {
		utils.LogError("Failed to aggregate earnings for astrologer %d: %v", astrologer.ID, err)
		utils.InternalServerError(c, "Failed to fetch earnings", err.Error())
		return
	}

	summary := gin.H{
		"pending_amount": 0.0,
		"pending_orders": int64(0),
		"settled_amount": 0.0,
		"settled_orders": int64(0),
	}
	for _, row := range rows {
		switch row.Status {
		case models.OrderStatusPaid:
			summary["pending_amount"] = row.Total
			summary["pending_orders"] = row.Count
		case models.OrderStatusSettled:
			summary["settled_amount"] = row.Total
			summary["settled_orders"] = row.Count
		}
	}
	summary["session_earnings"] = astrologer.Earnings
	summary["total_calls"] = astrologer.TotalCalls

	utils.Success(c, "Earnings retrieved successfully", summary)
}

package controllers

import (
	"fmt"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWallet returns the caller's balance and recent transactions
func GetWallet(c *gin.Context) {
	utils.LogInfo("GetWallet called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit, offset := paginationParams(c)

	var total int64
	if err := config.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count transactions for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wallet", err.Error())
		return
	}

	var transactions []models.Transaction
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch transactions for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wallet", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Wallet retrieved successfully", gin.H{
		"balance":      user.WalletBalance,
		"transactions": transactions,
	}, total, page, limit)
}

// AddFundsRequest is the payload for POST /api/wallet/add
type AddFundsRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// AddFunds credits the caller's wallet directly. Production top-ups go
// through the razorpay flow; this endpoint backs test and promo credits.
func AddFunds(c *gin.Context) {
	utils.LogInfo("AddFunds called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "amount is required", err.Error())
		return
	}
	if req.Amount <= 0 {
		utils.BadRequest(c, "Amount must be positive", nil)
		return
	}

	var txn *models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = utils.CreditUser(tx, user.ID, req.Amount, "Wallet top-up",
			fmt.Sprintf("TOPUP-%s", uuid.New().String()[:8]))
		return err
	})
	if err != nil {
		utils.LogError("Failed to add funds for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to add funds", err.Error())
		return
	}

	if err := config.DB.First(&user, user.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to reload wallet", err.Error())
		return
	}

	utils.LogInfo("User %d wallet credited %.2f, new balance %.2f", user.ID, req.Amount, user.WalletBalance)
	utils.Success(c, "Funds added successfully", gin.H{
		"balance":     user.WalletBalance,
		"transaction": txn,
	})
}

package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// InitiateWalletTopup creates a Razorpay order for a wallet top-up
func InitiateWalletTopup(c *gin.Context) {
	utils.LogInfo("InitiateWalletTopup called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("Processing wallet topup request for user ID: %d", user.ID)

	var req struct {
		Amount float64 `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Amount is required and must be positive", err.Error())
		return
	}
	utils.LogDebug("Received topup request - User ID: %d, Amount: %.2f", user.ID, req.Amount)

	// Razorpay expects amount in paise
	amountPaise := int(req.Amount * 100)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         "wallet_topup_" + strconv.FormatUint(uint64(user.ID), 10) + "_" + time.Now().Format("20060102150405"),
		"payment_capture": 1,
	}

	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create Razorpay order", err.Error())
		return
	}
	utils.LogDebug("Successfully created Razorpay order - Order ID: %v", rzOrder["id"])

	topupOrder := models.WalletTopupOrder{
		UserID:          user.ID,
		RazorpayOrderID: fmt.Sprintf("%v", rzOrder["id"]),
		Amount:          req.Amount,
		Status:          "pending",
	}
	if err := config.DB.Create(&topupOrder).Error; err != nil {
		utils.LogError("Failed to record wallet topup order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record wallet topup order", err.Error())
		return
	}

	utils.LogInfo("Successfully initiated wallet topup for user ID: %d", user.ID)
	utils.Success(c, "Wallet topup order created successfully", gin.H{
		"razorpay_order_id": rzOrder["id"],
		"amount_display":    "₹" + fmt.Sprintf("%.2f", float64(amountPaise)/100),
		"key":               os.Getenv("RAZORPAY_KEY"),
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
		},
		"wallet_balance": fmt.Sprintf("%.2f", user.WalletBalance),
		"payment_type":   "wallet_topup",
	})
}

// VerifyWalletTopup verifies the Razorpay signature and credits the wallet
func VerifyWalletTopup(c *gin.Context) {
	utils.LogInfo("VerifyWalletTopup called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("Processing wallet topup verification for user ID: %d", user.ID)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogDebug("Received verification request - Order ID: %s, Payment ID: %s", req.RazorpayOrderID, req.RazorpayPaymentID)

	var topupOrder models.WalletTopupOrder
	err := config.DB.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&topupOrder).Error
	if err != nil || topupOrder.Amount <= 0 {
		utils.LogError("Failed to fetch wallet topup order - Order ID: %s: %v", req.RazorpayOrderID, err)
		utils.BadRequest(c, "Unable to fetch wallet topup amount for this order_id", nil)
		return
	}
	if topupOrder.UserID != user.ID {
		utils.LogError("Topup order %s does not belong to user %d", req.RazorpayOrderID, user.ID)
		utils.Forbidden(c, "Not authorized to verify this order")
		return
	}
	if topupOrder.Status == "completed" {
		utils.LogInfo("Topup order %s already completed", req.RazorpayOrderID)
		utils.BadRequest(c, "This topup order has already been processed", nil)
		return
	}
	amount := topupOrder.Amount

	keySecret := os.Getenv("RAZORPAY_SECRET")
	data := req.RazorpayOrderID + "|" + req.RazorpayPaymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	generatedSignature := hex.EncodeToString(h.Sum(nil))
	if generatedSignature != req.RazorpaySignature {
		utils.LogError("Payment verification failed - Order ID: %s", req.RazorpayOrderID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}
	utils.LogDebug("Successfully verified payment signature for order ID: %s", req.RazorpayOrderID)

	reference := fmt.Sprintf("TOPUP-%s", req.RazorpayPaymentID)
	var txn *models.Transaction
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WalletTopupOrder{}).
			Where("id = ? AND status = ?", topupOrder.ID, "pending").
			Update("status", "completed")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("topup order %s already processed", req.RazorpayOrderID)
		}
		var err error
		txn, err = utils.CreditUser(tx, user.ID, amount, "Wallet topup via Razorpay", reference)
		return err
	})
	if err != nil {
		utils.LogError("Failed to credit wallet for order ID: %s: %v", req.RazorpayOrderID, err)
		utils.InternalServerError(c, "Failed to credit wallet", err.Error())
		return
	}

	if err := config.DB.First(&user, user.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to get updated wallet", err.Error())
		return
	}

	utils.LogInfo("Successfully completed wallet topup for user ID: %d", user.ID)
	utils.Success(c, "Money added to wallet successfully!", gin.H{
		"amount_added":     fmt.Sprintf("%.2f", amount),
		"wallet_balance":   fmt.Sprintf("%.2f", user.WalletBalance),
		"transaction_id":   txn.ID,
		"transaction_date": txn.Timestamp.Format("2006-01-02 15:04:05"),
		"reference":        reference,
	})
}

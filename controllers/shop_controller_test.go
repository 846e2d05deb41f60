package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
)

func seedProduct(t *testing.T, db *gorm.DB, astrologerID uint, price float64, active bool) models.Product {
	t.Helper()
	product := models.Product{
		AstrologerID: astrologerID,
		Name:         "Gemstone Ring",
		Price:        price,
		Category:     "Gemstones",
		IsActive:     active,
	}
	require.NoError(t, db.Create(&product).Error)

	var persisted models.Product
	require.NoError(t, db.First(&persisted, product.ID).Error)
	require.Equal(t, active, persisted.IsActive)
	return product
}

func TestPurchaseProductSplitsFeeAndDefersSettlement(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "shopper@example.com", 500)
	astrologer := seedAstrologer(t, db, "vendor@example.com", 10)
	product := seedProduct(t, db, astrologer.ID, 100, true)

	before := time.Now().UTC()
	c, w := newTestContext(t, buyer, http.MethodPost, "/api/shop/purchase", gin.H{
		"product_id": product.ID,
		"quantity":   2,
	})
	PurchaseProduct(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var order models.ProductOrder
	require.NoError(t, db.Where("user_id = ?", buyer.ID).First(&order).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.InDelta(t, 200.0, order.TotalAmount, 1e-9)
	assert.InDelta(t, 40.0, order.PlatformFeeAmount, 1e-9)
	assert.InDelta(t, 160.0, order.AstrologerEarningAmount, 1e-9)
	assert.InDelta(t, order.TotalAmount, order.PlatformFeeAmount+order.AstrologerEarningAmount, 1e-9)

	// Settlement is held back for the full delay window
	assert.False(t, order.SettlementDueDate.Before(before.Add(utils.SettlementDelay).Add(-time.Minute)))

	var wallet models.User
	require.NoError(t, db.First(&wallet, buyer.ID).Error)
	assert.InDelta(t, 300.0, wallet.WalletBalance, 1e-9)

	var ledger []models.Transaction
	require.NoError(t, db.Where("user_id = ?", buyer.ID).Find(&ledger).Error)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.TransactionTypeDebit, ledger[0].Type)
	assert.Equal(t, fmt.Sprintf("ORDER-%d", order.ID), ledger[0].Reference)

	// The astrologer sees nothing until the sweep runs
	var owner models.User
	require.NoError(t, db.First(&owner, astrologer.UserID).Error)
	assert.Zero(t, owner.WalletBalance)
}

func TestPurchaseProductInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "poor@example.com", 10)
	astrologer := seedAstrologer(t, db, "vendor2@example.com", 10)
	product := seedProduct(t, db, astrologer.ID, 100, true)

	c, w := newTestContext(t, buyer, http.MethodPost, "/api/shop/purchase", gin.H{
		"product_id": product.ID,
	})
	PurchaseProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.ProductOrder{}).Count(&count)
	assert.Zero(t, count)

	var wallet models.User
	require.NoError(t, db.First(&wallet, buyer.ID).Error)
	assert.Equal(t, 10.0, wallet.WalletBalance)
}

func TestPurchaseProductInactiveIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "eager@example.com", 500)
	astrologer := seedAstrologer(t, db, "vendor3@example.com", 10)
	product := seedProduct(t, db, astrologer.ID, 100, false)

	c, w := newTestContext(t, buyer, http.MethodPost, "/api/shop/purchase", gin.H{
		"product_id": product.ID,
	})
	PurchaseProduct(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	db.Model(&models.ProductOrder{}).Count(&count)
	assert.Zero(t, count)
}

func TestPurchaseThenSettlementPaysAstrologer(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "patron@example.com", 500)
	astrologer := seedAstrologer(t, db, "vendor4@example.com", 10)
	product := seedProduct(t, db, astrologer.ID, 100, true)

	c, w := newTestContext(t, buyer, http.MethodPost, "/api/shop/purchase", gin.H{
		"product_id": product.ID,
	})
	PurchaseProduct(c)
	require.Equal(t, http.StatusCreated, w.Code)

	// Force the order due and sweep
	require.NoError(t, db.Model(&models.ProductOrder{}).
		Where("user_id = ?", buyer.ID).
		Update("settlement_due_date", time.Now().UTC().Add(-time.Hour)).Error)

	settled, err := utils.SettleDueOrders(db, nil)
	require.NoError(t, err)
	require.Equal(t, 1, settled)

	var owner models.User
	require.NoError(t, db.First(&owner, astrologer.UserID).Error)
	assert.InDelta(t, 80.0, owner.WalletBalance, 1e-9)
}

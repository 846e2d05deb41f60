package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/astroveda/connect-backend/models"
)

func createTestAstrologer(t *testing.T, db *gorm.DB, email string) (models.Astrologer, models.User) {
	t.Helper()
	owner := createTestUser(t, db, email, 0)
	astrologer := models.Astrologer{
		UserID: owner.ID,
		Name:   "Test Astrologer",
		Email:  email,
		Status: models.AstrologerStatusApproved,
		Rate:   10,
	}
	require.NoError(t, db.Create(&astrologer).Error)
	return astrologer, owner
}

func createTestOrder(t *testing.T, db *gorm.DB, buyerID, astrologerID uint, total float64, due time.Time) models.ProductOrder {
	t.Helper()
	fee, earning := SplitPurchaseAmount(total)
	order := models.ProductOrder{
		UserID:                  buyerID,
		AstrologerID:            astrologerID,
		ProductID:               1,
		Quantity:                1,
		TotalAmount:             total,
		PlatformFeeAmount:       fee,
		AstrologerEarningAmount: earning,
		Status:                  models.OrderStatusPaid,
		SettlementDueDate:       due,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestSettleDueOrdersCreditsHeldBackEarning(t *testing.T) {
	db := openTestDB(t)
	buyer := createTestUser(t, db, "buyer@example.com", 0)
	astrologer, owner := createTestAstrologer(t, db, "seller@example.com")

	due := time.Now().UTC().Add(-time.Hour)
	order := createTestOrder(t, db, buyer.ID, astrologer.ID, 100, due)

	settled, err := SettleDueOrders(db, nil)
	require.NoError(t, err)
	require.Equal(t, 1, settled)

	var reloaded models.ProductOrder
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusSettled, reloaded.Status)
	require.NotNil(t, reloaded.SettledAt)

	var ownerUser models.User
	require.NoError(t, db.First(&ownerUser, owner.ID).Error)
	require.InDelta(t, 80.0, ownerUser.WalletBalance, 1e-9)

	// The payout carries its paired ledger row
	var txn models.Transaction
	require.NoError(t, db.Where("user_id = ?", owner.ID).First(&txn).Error)
	require.Equal(t, models.TransactionTypeCredit, txn.Type)
	require.InDelta(t, 80.0, txn.Amount, 1e-9)
}

func TestSettleDueOrdersSkipsFutureAndSettled(t *testing.T) {
	db := openTestDB(t)
	buyer := createTestUser(t, db, "buyer2@example.com", 0)
	astrologer, owner := createTestAstrologer(t, db, "seller2@example.com")

	createTestOrder(t, db, buyer.ID, astrologer.ID, 50, time.Now().UTC().Add(48*time.Hour))

	settled, err := SettleDueOrders(db, nil)
	require.NoError(t, err)
	require.Zero(t, settled)

	var ownerUser models.User
	require.NoError(t, db.First(&ownerUser, owner.ID).Error)
	require.Zero(t, ownerUser.WalletBalance)
}

func TestSettleDueOrdersIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	buyer := createTestUser(t, db, "buyer3@example.com", 0)
	astrologer, owner := createTestAstrologer(t, db, "seller3@example.com")

	createTestOrder(t, db, buyer.ID, astrologer.ID, 100, time.Now().UTC().Add(-time.Minute))

	settled, err := SettleDueOrders(db, nil)
	require.NoError(t, err)
	require.Equal(t, 1, settled)

	// Second sweep finds nothing; the payout happens exactly once.
	settled, err = SettleDueOrders(db, nil)
	require.NoError(t, err)
	require.Zero(t, settled)

	var ownerUser models.User
	require.NoError(t, db.First(&ownerUser, owner.ID).Error)
	require.InDelta(t, 80.0, ownerUser.WalletBalance, 1e-9)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", owner.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSettleDueOrdersScopedToAstrologer(t *testing.T) {
	db := openTestDB(t)
	buyer := createTestUser(t, db, "buyer4@example.com", 0)
	first, firstOwner := createTestAstrologer(t, db, "seller4a@example.com")
	second, secondOwner := createTestAstrologer(t, db, "seller4b@example.com")

	due := time.Now().UTC().Add(-time.Minute)
	createTestOrder(t, db, buyer.ID, first.ID, 100, due)
	createTestOrder(t, db, buyer.ID, second.ID, 200, due)

	settled, err := SettleDueOrders(db, &first.ID)
	require.NoError(t, err)
	require.Equal(t, 1, settled)

	var firstUser, secondUser models.User
	require.NoError(t, db.First(&firstUser, firstOwner.ID).Error)
	require.NoError(t, db.First(&secondUser, secondOwner.ID).Error)
	require.InDelta(t, 80.0, firstUser.WalletBalance, 1e-9)
	require.Zero(t, secondUser.WalletBalance)
}

func TestSettleDueOrdersOrphanedOwnerSettlesWithoutPayout(t *testing.T) {
	db := openTestDB(t)
	buyer := createTestUser(t, db, "buyer5@example.com", 0)

	order := createTestOrder(t, db, buyer.ID, 9999, 100, time.Now().UTC().Add(-time.Minute))

	settled, err := SettleDueOrders(db, nil)
	require.NoError(t, err)
	require.Equal(t, 1, settled)

	var reloaded models.ProductOrder
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderStatusSettled, reloaded.Status)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}

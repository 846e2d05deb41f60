package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astroveda/connect-backend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Astrologer{},
		&models.Review{},
		&models.Session{},
		&models.Transaction{},
		&models.WalletTopupOrder{},
		&models.Product{},
		&models.ProductOrder{},
		&models.News{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, balance float64) models.User {
	t.Helper()
	user := models.User{
		Name:          "Test User",
		Email:         email,
		Password:      "hashed",
		Role:          models.RoleUser,
		WalletBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestCreditUserPairsBalanceAndLedgerRow(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "credit@example.com", 50)

	txn, err := CreditUser(db, user.ID, 25, "Wallet top-up", "TOPUP-1")
	require.NoError(t, err)
	require.Equal(t, models.TransactionTypeCredit, txn.Type)
	require.Equal(t, 25.0, txn.Amount)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 75.0, reloaded.WalletBalance)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDebitUserPairsBalanceAndLedgerRow(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "debit@example.com", 100)

	txn, err := DebitUser(db, user.ID, 30, "Session with Guru", "SESSION-1")
	require.NoError(t, err)
	require.Equal(t, models.TransactionTypeDebit, txn.Type)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 70.0, reloaded.WalletBalance)

	var ledger []models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&ledger).Error)
	require.Len(t, ledger, 1)
	require.Equal(t, "SESSION-1", ledger[0].Reference)
}

func TestLedgerPairRollsBackTogether(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "rollback@example.com", 40)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := CreditUser(tx, user.ID, 60, "doomed credit", "REF-X"); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 40.0, reloaded.WalletBalance)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
}

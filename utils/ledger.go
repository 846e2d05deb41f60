package utils

import (
	"time"

	"github.com/astroveda/connect-backend/models"
	"gorm.io/gorm"
)

// CreditUser adds amount to the user's wallet balance and appends the paired
// credit Transaction row. Runs inside the caller's transaction so the pair
// commits or rolls back as one unit.
func CreditUser(tx *gorm.DB, userID uint, amount float64, description, reference string) (*models.Transaction, error) {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error; err != nil {
		return nil, err
	}

	txn := models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeCredit,
		Description: description,
		Reference:   reference,
		Timestamp:   time.Now().UTC(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// DebitUser subtracts amount from the user's wallet balance and appends the
// paired debit Transaction row. Balance sufficiency is the caller's rule to
// enforce; session billing debits unconditionally once a session has run.
func DebitUser(tx *gorm.DB, userID uint, amount float64, description, reference string) (*models.Transaction, error) {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount)).Error; err != nil {
		return nil, err
	}

	txn := models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeDebit,
		Description: description,
		Reference:   reference,
		Timestamp:   time.Now().UTC(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

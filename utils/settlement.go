package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/astroveda/connect-backend/models"
	"gorm.io/gorm"
)

// SettleDueOrders sweeps paid product orders whose settlement date has
// passed, credits each owning astrologer's user wallet with the held-back
// earning and marks the order settled. Scoped to one astrologer when
// astrologerID is non-nil.
//
// Safe to invoke repeatedly and concurrently with itself: the paid status
// filter (re-checked under the per-order transaction) means a row is settled
// at most once. The first failure aborts the remaining batch; still-paid rows
// are picked up by the next sweep.
func SettleDueOrders(db *gorm.DB, astrologerID *uint) (int, error) {
	query := db.Where("status = ? AND settlement_due_date <= ?", models.OrderStatusPaid, time.Now().UTC())
	if astrologerID != nil {
		query = query.Where("astrologer_id = ?", *astrologerID)
	}

	var orders []models.ProductOrder
	if err := query.Order("settlement_due_date ASC").Find(&orders).Error; err != nil {
		return 0, err
	}

	settled := 0
	for i := range orders {
		if err := settleOrder(db, &orders[i]); err != nil {
			LogError("Settlement aborted at order %d: %v", orders[i].ID, err)
			return settled, err
		}
		settled++
	}

	if settled > 0 {
		LogInfo("Settlement sweep completed: %d orders settled", settled)
	}
	return settled, nil
}

func settleOrder(db *gorm.DB, order *models.ProductOrder) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		// Guarded flip paid -> settled. Zero rows affected means a concurrent
		// sweep already settled this order; nothing left to do.
		res := tx.Model(&models.ProductOrder{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPaid).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusSettled,
				"settled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if order.AstrologerEarningAmount <= 0 {
			return nil
		}

		var astrologer models.Astrologer
		if err := tx.First(&astrologer, order.AstrologerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Owner gone; settle with no ledger effect.
				return nil
			}
			return err
		}

		var owner models.User
		if err := tx.First(&owner, astrologer.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		description := fmt.Sprintf("Settlement for shop order #%d", order.ID)
		reference := fmt.Sprintf("SETTLE-%d", order.ID)
		if _, err := CreditUser(tx, owner.ID, order.AstrologerEarningAmount, description, reference); err != nil {
			return err
		}
		return nil
	})
}

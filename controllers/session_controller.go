package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionStartRequest is the payload for POST /api/sessions/start
type SessionStartRequest struct {
	AstrologerID string `json:"astrologer_id" binding:"required"`
	Type         string `json:"type"`
}

// StartSession opens a consultation. The caller's first-ever session (zero
// prior completed sessions) is flagged as a free trial; otherwise a minimum
// wallet balance is required. The AI astrologer sentinel bypasses
// persistence and returns a synthetic active session.
func StartSession(c *gin.Context) {
	utils.LogInfo("StartSession called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req SessionStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid session start body for user %d: %v", user.ID, err)
		utils.BadRequest(c, "astrologer_id is required", err.Error())
		return
	}

	sessionType := req.Type
	if sessionType != models.SessionTypeChat {
		sessionType = models.SessionTypeCall
	}

	// Free-trial eligibility is decided here, once, and never revoked.
	var completedCount int64
	if err := config.DB.Model(&models.Session{}).
		Where("user_id = ? AND status = ?", user.ID, models.SessionStatusCompleted).
		Count(&completedCount).Error; err != nil {
		utils.LogError("Failed to count completed sessions for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to start session", err.Error())
		return
	}
	isFreeTrial := completedCount == 0

	if !isFreeTrial && user.WalletBalance < utils.MinSessionBalance {
		utils.LogError("Insufficient balance for user %d: %.2f", user.ID, user.WalletBalance)
		utils.BadRequest(c, "Insufficient balance", gin.H{
			"minimum_balance": utils.MinSessionBalance,
			"wallet_balance":  user.WalletBalance,
		})
		return
	}

	resolved, err := resolveAstrologerRef(req.AstrologerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Astrologer not found")
			return
		}
		utils.LogError("Failed to resolve astrologer %s: %v", req.AstrologerID, err)
		utils.InternalServerError(c, "Failed to start session", err.Error())
		return
	}

	if resolved.Synthetic {
		// AI sessions are never persisted, never billed here and never a
		// free trial.
		utils.LogInfo("Synthetic AI session started by user %d", user.ID)
		utils.Success(c, "Session started successfully", gin.H{
			"id":            0,
			"user_id":       user.ID,
			"astrologer_id": 0,
			"start_time":    time.Now().UTC(),
			"status":        models.SessionStatusActive,
			"type":          sessionType,
			"rate":          utils.AIAstrologerRate,
			"duration":      0,
			"cost":          0.0,
			"is_free_trial": false,
		})
		return
	}

	if resolved.Profile.Status != models.AstrologerStatusApproved {
		utils.LogError("User %d attempted session with unapproved astrologer %d", user.ID, resolved.Profile.ID)
		utils.NotFound(c, "Astrologer not found")
		return
	}

	session := models.Session{
		UserID:       user.ID,
		AstrologerID: resolved.Profile.ID,
		StartTime:    time.Now().UTC(),
		Status:       models.SessionStatusActive,
		Type:         sessionType,
		IsFreeTrial:  isFreeTrial,
	}
	if err := config.DB.Create(&session).Error; err != nil {
		utils.LogError("Failed to create session for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to start session", err.Error())
		return
	}

	utils.LogInfo("Session %d started by user %d with astrologer %d (free trial: %t)",
		session.ID, user.ID, resolved.Profile.ID, isFreeTrial)
	utils.Created(c, "Session started successfully", session)
}

// EndSession closes an active session and bills it. Duration is wall-clock
// whole seconds; billable minutes are fractional; a free trial bills only
// the excess over the free window. The status flip, the wallet debit with
// its ledger row and the astrologer counters commit as one transaction. A
// session that is no longer active is returned as-is with no side effects.
func EndSession(c *gin.Context) {
	ref := c.Param("id")
	utils.LogInfo("EndSession called for session %s", ref)
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// A synthetic AI session was never persisted; report it closed.
	if ref == "0" {
		now := time.Now().UTC()
		utils.Success(c, "Session ended successfully", gin.H{
			"id":            0,
			"user_id":       user.ID,
			"astrologer_id": 0,
			"start_time":    now,
			"end_time":      now,
			"status":        models.SessionStatusCompleted,
			"type":          models.SessionTypeChat,
			"rate":          utils.AIAstrologerRate,
			"duration":      60,
			"cost":          utils.AIAstrologerRate,
			"is_free_trial": false,
		})
		return
	}

	sessionID, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid session ID", nil)
		return
	}

	var session models.Session
	if err := config.DB.First(&session, uint(sessionID)).Error; err != nil {
		utils.NotFound(c, "Session not found")
		return
	}

	if session.Status != models.SessionStatusActive {
		utils.LogInfo("EndSession on non-active session %d, returning current state", session.ID)
		utils.Success(c, "Session already closed", session)
		return
	}

	var astrologer models.Astrologer
	rate := 10.0
	haveAstrologer := false
	if err := config.DB.First(&astrologer, session.AstrologerID).Error; err == nil {
		rate = astrologer.Rate
		haveAstrologer = true
	}

	endTime := time.Now().UTC()
	duration := utils.SessionDurationSeconds(session.StartTime, endTime)
	cost := utils.ComputeSessionCost(duration, rate, session.IsFreeTrial)

	closed := false
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		// Guarded terminal transition: only the first concurrent end call
		// sees RowsAffected == 1 and performs the billing side effects.
		res := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", session.ID, models.SessionStatusActive).
			Updates(map[string]interface{}{
				"status":   models.SessionStatusCompleted,
				"end_time": endTime,
				"duration": duration,
				"cost":     cost,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		closed = true

		if cost > 0 {
			kind := "Paid"
			if session.IsFreeTrial {
				kind = "Free Trial + Paid"
			}
			name := "Astrologer"
			if haveAstrologer {
				name = astrologer.Name
			}
			description := fmt.Sprintf("Session with %s (%s)", name, kind)
			reference := fmt.Sprintf("SESSION-%d", session.ID)
			if _, err := utils.DebitUser(tx, user.ID, cost, description, reference); err != nil {
				return err
			}
		}

		if haveAstrologer {
			if err := tx.Model(&models.Astrologer{}).Where("id = ?", astrologer.ID).
				Updates(map[string]interface{}{
					"earnings":    gorm.Expr("earnings + ?", cost),
					"total_calls": gorm.Expr("total_calls + 1"),
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		utils.LogError("Failed to end session %d: %v", session.ID, err)
		utils.InternalServerError(c, "Failed to end session", err.Error())
		return
	}

	if err := config.DB.First(&session, session.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to reload session", err.Error())
		return
	}

	if closed {
		utils.LogInfo("Session %d ended: duration %ds, cost %.2f", session.ID, duration, cost)
		utils.Success(c, "Session ended successfully", session)
		return
	}
	utils.LogInfo("Session %d was closed concurrently, returning current state", session.ID)
	utils.Success(c, "Session already closed", session)
}

// GetSession returns a session to its participants only
func GetSession(c *gin.Context) {
	ref := c.Param("id")
	utils.LogInfo("GetSession called for session %s", ref)
	user, ok := currentUser(c)
	if !ok {
		return
	}

	sessionID, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid session ID", nil)
		return
	}

	var session models.Session
	if err := config.DB.First(&session, uint(sessionID)).Error; err != nil {
		utils.NotFound(c, "Session not found")
		return
	}

	participant := session.UserID == user.ID
	if !participant {
		var astrologer models.Astrologer
		if err := config.DB.First(&astrologer, session.AstrologerID).Error; err == nil {
			participant = astrologer.UserID == user.ID
		}
	}
	if !participant {
		utils.LogError("User %d is not a participant of session %d", user.ID, session.ID)
		utils.Forbidden(c, "Not authorized to view this session")
		return
	}

	utils.Success(c, "Session retrieved successfully", session)
}

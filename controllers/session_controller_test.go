package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestContext(t *testing.T, user models.User, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user", user)
	return c, w
}

func seedUser(t *testing.T, db *gorm.DB, email string, balance float64) models.User {
	t.Helper()
	user := models.User{
		Name:          "Seed User",
		Email:         email,
		Password:      "hashed",
		Role:          models.RoleUser,
		WalletBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedAstrologer(t *testing.T, db *gorm.DB, email string, rate float64) models.Astrologer {
	t.Helper()
	owner := seedUser(t, db, email, 0)
	astrologer := models.Astrologer{
		UserID: owner.ID,
		Name:   "Seed Astrologer",
		Email:  email,
		Status: models.AstrologerStatusApproved,
		Rate:   rate,
	}
	require.NoError(t, db.Create(&astrologer).Error)
	return astrologer
}

func TestStartSessionFirstSessionIsFreeTrial(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "trial@example.com", 0)
	astrologer := seedAstrologer(t, db, "astro1@example.com", 10)

	c, w := newTestContext(t, user, http.MethodPost, "/api/sessions/start", gin.H{
		"astrologer_id": fmt.Sprintf("%d", astrologer.ID),
	})
	StartSession(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var session models.Session
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&session).Error)
	assert.True(t, session.IsFreeTrial)
	assert.Equal(t, models.SessionStatusActive, session.Status)
}

func TestStartSessionRequiresMinimumBalanceAfterTrial(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "broke@example.com", utils.MinSessionBalance-1)
	astrologer := seedAstrologer(t, db, "astro2@example.com", 10)

	// A prior completed session burns the trial
	require.NoError(t, db.Create(&models.Session{
		UserID:       user.ID,
		AstrologerID: astrologer.ID,
		StartTime:    time.Now().UTC().Add(-time.Hour),
		Status:       models.SessionStatusCompleted,
	}).Error)

	c, w := newTestContext(t, user, http.MethodPost, "/api/sessions/start", gin.H{
		"astrologer_id": fmt.Sprintf("%d", astrologer.ID),
	})
	StartSession(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient balance")
}

func TestStartSessionUnknownAstrologer(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "lost@example.com", 100)

	c, w := newTestContext(t, user, http.MethodPost, "/api/sessions/start", gin.H{
		"astrologer_id": "424242",
	})
	StartSession(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)
}

func TestStartSessionAIAstrologerIsNotPersisted(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "ai@example.com", 100)

	c, w := newTestContext(t, user, http.MethodPost, "/api/sessions/start", gin.H{
		"astrologer_id": utils.AIAstrologerRef,
	})
	StartSession(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rate":25`)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)
}

func TestEndSessionBillsWalletAndAstrologer(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "payer@example.com", 100)
	astrologer := seedAstrologer(t, db, "astro3@example.com", 10)

	session := models.Session{
		UserID:       user.ID,
		AstrologerID: astrologer.ID,
		StartTime:    time.Now().UTC().Add(-2 * time.Minute),
		Status:       models.SessionStatusActive,
	}
	require.NoError(t, db.Create(&session).Error)

	c, w := newTestContext(t, user, http.MethodPost, fmt.Sprintf("/api/sessions/%d/end", session.ID), nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", session.ID)}}
	EndSession(c)

	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.Equal(t, models.SessionStatusCompleted, reloaded.Status)
	assert.NotNil(t, reloaded.EndTime)
	assert.GreaterOrEqual(t, reloaded.Duration, 120)
	assert.Greater(t, reloaded.Cost, 0.0)

	var payer models.User
	require.NoError(t, db.First(&payer, user.ID).Error)
	assert.InDelta(t, 100-reloaded.Cost, payer.WalletBalance, 1e-9)

	// Exactly one debit row pairs the balance change
	var ledger []models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&ledger).Error)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.TransactionTypeDebit, ledger[0].Type)
	assert.InDelta(t, reloaded.Cost, ledger[0].Amount, 1e-9)

	var earner models.Astrologer
	require.NoError(t, db.First(&earner, astrologer.ID).Error)
	assert.InDelta(t, reloaded.Cost, earner.Earnings, 1e-9)
	assert.Equal(t, 1, earner.TotalCalls)
}

func TestEndSessionFreeTrialWithinWindowIsFree(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "freebie@example.com", 0)
	astrologer := seedAstrologer(t, db, "astro4@example.com", 10)

	session := models.Session{
		UserID:       user.ID,
		AstrologerID: astrologer.ID,
		StartTime:    time.Now().UTC().Add(-time.Minute),
		Status:       models.SessionStatusActive,
		IsFreeTrial:  true,
	}
	require.NoError(t, db.Create(&session).Error)

	c, w := newTestContext(t, user, http.MethodPost, fmt.Sprintf("/api/sessions/%d/end", session.ID), nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", session.ID)}}
	EndSession(c)

	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.Zero(t, reloaded.Cost)

	// A zero-cost close leaves no ledger row behind
	var count int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)

	var wallet models.User
	require.NoError(t, db.First(&wallet, user.ID).Error)
	assert.Zero(t, wallet.WalletBalance)
}

func TestEndSessionIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "twice@example.com", 100)
	astrologer := seedAstrologer(t, db, "astro5@example.com", 10)

	session := models.Session{
		UserID:       user.ID,
		AstrologerID: astrologer.ID,
		StartTime:    time.Now().UTC().Add(-time.Minute),
		Status:       models.SessionStatusActive,
	}
	require.NoError(t, db.Create(&session).Error)

	idParam := gin.Params{{Key: "id", Value: fmt.Sprintf("%d", session.ID)}}

	c, w := newTestContext(t, user, http.MethodPost, "/end", nil)
	c.Params = idParam
	EndSession(c)
	require.Equal(t, http.StatusOK, w.Code)

	var afterFirst models.User
	require.NoError(t, db.First(&afterFirst, user.ID).Error)

	c2, w2 := newTestContext(t, user, http.MethodPost, "/end", nil)
	c2.Params = idParam
	EndSession(c2)
	require.Equal(t, http.StatusOK, w2.Code)

	// Second end call changes nothing
	var afterSecond models.User
	require.NoError(t, db.First(&afterSecond, user.ID).Error)
	assert.Equal(t, afterFirst.WalletBalance, afterSecond.WalletBalance)

	var count int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetSessionForbiddenForOutsiders(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", 100)
	outsider := seedUser(t, db, "outsider@example.com", 100)
	astrologer := seedAstrologer(t, db, "astro6@example.com", 10)

	session := models.Session{
		UserID:       owner.ID,
		AstrologerID: astrologer.ID,
		StartTime:    time.Now().UTC(),
		Status:       models.SessionStatusActive,
	}
	require.NoError(t, db.Create(&session).Error)

	c, w := newTestContext(t, outsider, http.MethodGet, "/session", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", session.ID)}}
	GetSession(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c2, w2 := newTestContext(t, owner, http.MethodGet, "/session", nil)
	c2.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", session.ID)}}
	GetSession(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroveda/connect-backend/models"
)

func TestCreateReviewRefreshesAggregates(t *testing.T) {
	db := setupTestDB(t)
	astrologer := seedAstrologer(t, db, "rated@example.com", 10)
	first := seedUser(t, db, "fan1@example.com", 0)
	second := seedUser(t, db, "fan2@example.com", 0)

	idParam := gin.Params{{Key: "id", Value: fmt.Sprintf("%d", astrologer.ID)}}

	c, w := newTestContext(t, first, http.MethodPost, "/reviews", gin.H{
		"rating":  5,
		"comment": "Very insightful",
	})
	c.Params = idParam
	CreateReview(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c2, w2 := newTestContext(t, second, http.MethodPost, "/reviews", gin.H{
		"rating": 4,
	})
	c2.Params = idParam
	CreateReview(c2)
	require.Equal(t, http.StatusCreated, w2.Code)

	var reloaded models.Astrologer
	require.NoError(t, db.First(&reloaded, astrologer.ID).Error)
	assert.Equal(t, 2, reloaded.TotalReviews)
	assert.InDelta(t, 4.5, reloaded.Rating, 1e-9)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	db := setupTestDB(t)
	astrologer := seedAstrologer(t, db, "strict@example.com", 10)
	fan := seedUser(t, db, "fan3@example.com", 0)

	c, w := newTestContext(t, fan, http.MethodPost, "/reviews", gin.H{
		"rating": 6,
	})
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", astrologer.ID)}}
	CreateReview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateReviewUnknownAstrologer(t *testing.T) {
	db := setupTestDB(t)
	fan := seedUser(t, db, "fan4@example.com", 0)

	c, w := newTestContext(t, fan, http.MethodPost, "/reviews", gin.H{
		"rating": 5,
	})
	c.Params = gin.Params{{Key: "id", Value: "9999"}}
	CreateReview(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package controllers

import (
	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReviewRequest is the payload for posting an astrologer review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview records a review and refreshes the astrologer's cached
// rating aggregates inside the same transaction.
func CreateReview(c *gin.Context) {
	utils.LogInfo("CreateReview called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var astrologer models.Astrologer
	if err := config.DB.Where("id = ? AND status = ?", c.Param("id"), models.AstrologerStatusApproved).
		First(&astrologer).Error; err != nil {
		utils.NotFound(c, "Astrologer not found")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid review payload from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Rating must be between 1 and 5", err.Error())
		return
	}

	review := models.Review{
		AstrologerID: astrologer.ID,
		UserID:       user.ID,
		Rating:       req.Rating,
		Comment:      utils.SanitizeString(req.Comment),
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return refreshRatingAggregates(tx, astrologer.ID)
	})
	if err != nil {
		utils.LogError("Failed to create review for astrologer %d: %v", astrologer.ID, err)
		utils.InternalServerError(c, "Failed to create review", err.Error())
		return
	}

	utils.LogInfo("Review %d created for astrologer %d by user %d", review.ID, astrologer.ID, user.ID)
	utils.Created(c, "Review submitted successfully", review)
}

// ListReviews returns reviews for an astrologer, newest first
func ListReviews(c *gin.Context) {
	utils.LogInfo("ListReviews called")

	var astrologer models.Astrologer
	if err := config.DB.First(&astrologer, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Astrologer not found")
		return
	}

	page, limit, offset := paginationParams(c)

	var total int64
	if err := config.DB.Model(&models.Review{}).Where("astrologer_id = ?", astrologer.ID).Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("astrologer_id = ?", astrologer.ID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&reviews).Error; err != nil {
		utils.LogError("Failed to fetch reviews for astrologer %d: %v", astrologer.ID, err)
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Reviews retrieved successfully", gin.H{
		"rating":        astrologer.Rating,
		"total_reviews": astrologer.TotalReviews,
		"reviews":       reviews,
	}, total, page, limit)
}

func refreshRatingAggregates(tx *gorm.DB, astrologerID uint) error {
	var agg struct {
		Count int64
		Avg   float64
	}
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("astrologer_id = ?", astrologerID).
		Scan(&agg).Error; err != nil {
		return err
	}
	return tx.Model(&models.Astrologer{}).Where("id = ?", astrologerID).
		Updates(map[string]interface{}{
			"rating":        agg.Avg,
			"total_reviews": agg.Count,
		}).Error
}

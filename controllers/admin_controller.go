package controllers

import (
	"strconv"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
)

// ListApplications returns astrologer applications, filterable by status
func ListApplications(c *gin.Context) {
	utils.LogInfo("ListApplications called")

	page, limit, offset := paginationParams(c)

	query := config.DB.Model(&models.Astrologer{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch applications", err.Error())
		return
	}

	var applications []models.Astrologer
	if err := query.Order("application_date DESC").Limit(limit).Offset(offset).Find(&applications).Error; err != nil {
		utils.LogError("Failed to fetch applications: %v", err)
		utils.InternalServerError(c, "Failed to fetch applications", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Applications retrieved successfully", gin.H{
		"applications": applications,
	}, total, page, limit)
}

// VerifyRequest carries an admin verification decision
type VerifyRequest struct {
	Status string `json:"status" binding:"required"`
}

// VerifyAstrologer approves or rejects an application by applicant email.
// The decision email is best effort; a send failure never fails the call.
func VerifyAstrologer(c *gin.Context) {
	email := c.Param("email")
	utils.LogInfo("VerifyAstrologer called for %s", email)

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "status is required", err.Error())
		return
	}
	if req.Status != models.AstrologerStatusApproved && req.Status != models.AstrologerStatusRejected {
		utils.BadRequest(c, "Status must be 'approved' or 'rejected'", nil)
		return
	}

	var astrologer models.Astrologer
	if err := config.DB.Where("email = ?", email).First(&astrologer).Error; err != nil {
		utils.NotFound(c, "Application not found")
		return
	}

	if err := config.DB.Model(&astrologer).Updates(map[string]interface{}{
		"status":              req.Status,
		"verification_status": req.Status,
	}).Error; err != nil {
		utils.LogError("Failed to update application for %s: %v", email, err)
		utils.InternalServerError(c, "Failed to update application", err.Error())
		return
	}

	if err := utils.SendVerificationDecisionEmail(astrologer.Email, astrologer.Name, req.Status); err != nil {
		utils.LogError("Failed to send decision email to %s: %v", astrologer.Email, err)
	}

	utils.LogInfo("Astrologer %s %s", email, req.Status)
	utils.Success(c, "Application updated successfully", gin.H{
		"email":               astrologer.Email,
		"status":              req.Status,
		"verification_status": req.Status,
	})
}

// PlatformStats returns headline counts and revenue figures for the dashboard
func PlatformStats(c *gin.Context) {
	utils.LogInfo("PlatformStats called")

	var totalUsers, totalAstrologers, pendingApplications, totalSessions, activeSessions int64
	config.DB.Model(&models.User{}).Count(&totalUsers)
	config.DB.Model(&models.Astrologer{}).Where("status = ?", models.AstrologerStatusApproved).Count(&totalAstrologers)
	config.DB.Model(&models.Astrologer{}).Where("status = ?", models.AstrologerStatusPending).Count(&pendingApplications)
	config.DB.Model(&models.Session{}).Count(&totalSessions)
	config.DB.Model(&models.Session{}).Where("status = ?", models.SessionStatusActive).Count(&activeSessions)

	var sessionRevenue float64
	config.DB.Model(&models.Session{}).
		Where("status = ?", models.SessionStatusCompleted).
		Select("COALESCE(SUM(cost), 0)").Scan(&sessionRevenue)

	var shopRevenue, platformFees, pendingSettlement float64
	config.DB.Model(&models.ProductOrder{}).Select("COALESCE(SUM(total_amount), 0)").Scan(&shopRevenue)
	config.DB.Model(&models.ProductOrder{}).Select("COALESCE(SUM(platform_fee_amount), 0)").Scan(&platformFees)
	config.DB.Model(&models.ProductOrder{}).
		Where("status = ?", models.OrderStatusPaid).
		Select("COALESCE(SUM(astrologer_earning_amount), 0)").Scan(&pendingSettlement)

	utils.Success(c, "Platform stats retrieved successfully", gin.H{
		"total_users":          totalUsers,
		"total_astrologers":    totalAstrologers,
		"pending_applications": pendingApplications,
		"total_sessions":       totalSessions,
		"active_sessions":      activeSessions,
		"session_revenue":      sessionRevenue,
		"shop_revenue":         shopRevenue,
		"platform_fees":        platformFees,
		"pending_settlement":   pendingSettlement,
	})
}

// RunSettlement sweeps due shop orders now, optionally for one astrologer.
// The hourly scheduler runs the same sweep; this endpoint exists for manual
// catch-up after an aborted batch.
func RunSettlement(c *gin.Context) {
	utils.LogInfo("RunSettlement called")

	var scope *uint
	if raw := c.Query("astrologer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.BadRequest(c, "Invalid astrologer_id", nil)
			return
		}
		uid := uint(id)
		scope = &uid
	}

	settled, err := utils.SettleDueOrders(config.DB, scope)
	if err != nil {
		utils.LogError("Settlement sweep failed after %d orders: %v", settled, err)
		utils.InternalServerError(c, "Settlement sweep failed", gin.H{
			"settled_before_failure": settled,
			"error":                  err.Error(),
		})
		return
	}

	utils.LogInfo("Settlement sweep completed: %d orders settled", settled)
	utils.Success(c, "Settlement completed successfully", gin.H{
		"settled_orders": settled,
	})
}

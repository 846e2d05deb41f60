package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/astroveda/connect-backend/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AstrologerController serves the astrologer profile endpoints. It carries
// the notification hub so dashboard toggles can be announced site-wide.
type AstrologerController struct {
	Hub *ws.Hub
}

// NewAstrologerController wires the controller with its notification hub
func NewAstrologerController(hub *ws.Hub) *AstrologerController {
	return &AstrologerController{Hub: hub}
}

// resolvedAstrologer is the tagged result of resolving an astrologer
// reference: either a persisted row or the synthetic AI astrologer.
type resolvedAstrologer struct {
	Synthetic bool
	Profile   *models.Astrologer
}

// aiAstrologerProfile returns the fixed synthetic profile behind the
// "ai-astrologer" sentinel. It never touches the database.
func aiAstrologerProfile() *models.Astrologer {
	return &models.Astrologer{
		Name:               "AI Astrologer",
		Email:              "ai@astroveda.com",
		Phone:              "0000000000",
		Experience:         1000,
		Specialties:        []string{"Vedic", "AI"},
		Languages:          []string{"English", "Hindi", "Sanskrit"},
		Bio:                "I am an AI trained on Vedic scriptures.",
		Status:             models.AstrologerStatusApproved,
		VerificationStatus: models.AstrologerStatusApproved,
		Rating:             5.0,
		TotalCalls:         10000,
		Rate:               utils.AIAstrologerRate,
		IsOnline:           true,
	}
}

// resolveAstrologerRef resolves a path/body reference to an astrologer.
// The sentinel maps to the synthetic profile; anything else must be a
// numeric id of an existing row.
func resolveAstrologerRef(ref string) (*resolvedAstrologer, error) {
	if ref == utils.AIAstrologerRef {
		return &resolvedAstrologer{Synthetic: true, Profile: aiAstrologerProfile()}, nil
	}

	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var astrologer models.Astrologer
	if err := config.DB.First(&astrologer, uint(id)).Error; err != nil {
		return nil, err
	}
	return &resolvedAstrologer{Profile: &astrologer}, nil
}

// AstrologerApplication is the payload for POST /api/astrologers/apply
type AstrologerApplication struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required"`
	Phone       string   `json:"phone" binding:"required"`
	Experience  int      `json:"experience"`
	Specialties []string `json:"specialties"`
	Languages   []string `json:"languages"`
	Bio         string   `json:"bio"`
}

// Apply creates a pending astrologer profile for the current user
func (ac *AstrologerController) Apply(c *gin.Context) {
	utils.LogInfo("Astrologer Apply called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AstrologerApplication
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid application body for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Name, email and phone are required", err.Error())
		return
	}

	var fieldErrs utils.FieldValidationErrors
	if err := utils.ValidateName(req.Name); err != nil {
		fieldErrs = append(fieldErrs, *err)
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		fieldErrs = append(fieldErrs, *err)
	}
	if err := utils.ValidatePhone(req.Phone); err != nil {
		fieldErrs = append(fieldErrs, *err)
	}
	if len(fieldErrs) > 0 {
		utils.ValidationError(c, "Validation failed", fieldErrs)
		return
	}

	var existing models.Astrologer
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.LogError("Duplicate astrologer application for email %s", req.Email)
		utils.Conflict(c, "Application already exists", nil)
		return
	}

	astrologer := models.Astrologer{
		UserID:             user.ID,
		Name:               utils.SanitizeString(req.Name),
		Email:              req.Email,
		Phone:              req.Phone,
		Experience:         req.Experience,
		Specialties:        req.Specialties,
		Languages:          req.Languages,
		Bio:                utils.SanitizeString(req.Bio),
		ApplicationDate:    time.Now().UTC(),
		Status:             models.AstrologerStatusPending,
		VerificationStatus: models.AstrologerStatusPending,
		Rate:               10.0,
	}
	if err := config.DB.Create(&astrologer).Error; err != nil {
		utils.LogError("Failed to create astrologer profile for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to submit application", err.Error())
		return
	}

	utils.LogInfo("Astrologer application %d submitted by user %d", astrologer.ID, user.ID)
	utils.Created(c, "Application submitted successfully", astrologer)
}

// myProfile loads the astrologer row owned by the current user
func myProfile(c *gin.Context) (*models.Astrologer, models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, models.User{}, false
	}

	var profile models.Astrologer
	if err := config.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		utils.LogError("Astrologer profile not found for user %d", user.ID)
		utils.NotFound(c, "Astrologer profile not found")
		return nil, user, false
	}
	return &profile, user, true
}

// GetMyProfile returns the current user's astrologer profile
func (ac *AstrologerController) GetMyProfile(c *gin.Context) {
	utils.LogInfo("GetMyProfile called")
	profile, _, ok := myProfile(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile retrieved successfully", profile)
}

// OnlineStatusRequest is the payload for PUT /api/astrologers/me/status
type OnlineStatusRequest struct {
	IsOnline *bool `json:"is_online" binding:"required"`
}

// UpdateStatus flips the astrologer's online flag
func (ac *AstrologerController) UpdateStatus(c *gin.Context) {
	utils.LogInfo("Astrologer UpdateStatus called")
	profile, _, ok := myProfile(c)
	if !ok {
		return
	}

	var req OnlineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "is_online is required", err.Error())
		return
	}

	profile.IsOnline = *req.IsOnline
	if profile.IsOnline {
		now := time.Now().UTC()
		profile.LastOnlineTime = &now
	}
	if err := config.DB.Save(profile).Error; err != nil {
		utils.LogError("Failed to update status for astrologer %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to update status", err.Error())
		return
	}

	utils.Success(c, "Status updated successfully", profile)
}

// RateRequest is the payload for PUT /api/astrologers/me/rate
type RateRequest struct {
	Rate float64 `json:"rate" binding:"required,gt=0"`
}

// UpdateRate sets the astrologer's per-minute rate
func (ac *AstrologerController) UpdateRate(c *gin.Context) {
	utils.LogInfo("Astrologer UpdateRate called")
	profile, _, ok := myProfile(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Rate must be a positive number", err.Error())
		return
	}

	profile.Rate = req.Rate
	if err := config.DB.Save(profile).Error; err != nil {
		utils.LogError("Failed to update rate for astrologer %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to update rate", err.Error())
		return
	}

	utils.Success(c, "Rate updated successfully", profile)
}

// ToggleBoost flips the profile's boosted flag
func (ac *AstrologerController) ToggleBoost(c *gin.Context) {
	utils.LogInfo("Astrologer ToggleBoost called")
	profile, _, ok := myProfile(c)
	if !ok {
		return
	}

	profile.IsBoosted = !profile.IsBoosted
	if err := config.DB.Save(profile).Error; err != nil {
		utils.LogError("Failed to toggle boost for astrologer %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to toggle boost", err.Error())
		return
	}

	utils.Success(c, "Boost toggled successfully", profile)
}

// ToggleLive flips the live flag; going live also marks the astrologer
// online and is announced on the notification channel.
func (ac *AstrologerController) ToggleLive(c *gin.Context) {
	utils.LogInfo("Astrologer ToggleLive called")
	profile, _, ok := myProfile(c)
	if !ok {
		return
	}

	profile.IsLive = !profile.IsLive
	if profile.IsLive {
		profile.IsOnline = true
		now := time.Now().UTC()
		profile.LastOnlineTime = &now
	}
	if err := config.DB.Save(profile).Error; err != nil {
		utils.LogError("Failed to toggle live for astrologer %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to toggle live", err.Error())
		return
	}

	if profile.IsLive && ac.Hub != nil {
		ac.Hub.Broadcast(gin.H{
			"type":          "astrologer_live",
			"astrologer_id": profile.ID,
			"name":          profile.Name,
		})
	}

	utils.Success(c, "Live status toggled successfully", profile)
}

// GetMySessions lists the astrologer's currently active sessions
func (ac *AstrologerController) GetMySessions(c *gin.Context) {
	utils.LogInfo("Astrologer GetMySessions called")
	profile, _, ok := myProfile(c)
	if !ok {
		return
	}

	var sessions []models.Session
	if err := config.DB.Where("astrologer_id = ? AND status = ?", profile.ID, models.SessionStatusActive).
		Find(&sessions).Error; err != nil {
		utils.LogError("Failed to list sessions for astrologer %d: %v", profile.ID, err)
		utils.InternalServerError(c, "Failed to list sessions", err.Error())
		return
	}

	utils.Success(c, "Active sessions retrieved successfully", sessions)
}

// List returns all approved astrologers, boosted profiles first
func (ac *AstrologerController) List(c *gin.Context) {
	utils.LogInfo("Astrologer List called")

	var astrologers []models.Astrologer
	if err := config.DB.Where("status = ?", models.AstrologerStatusApproved).
		Order("is_boosted DESC, rating DESC").
		Find(&astrologers).Error; err != nil {
		utils.LogError("Failed to list astrologers: %v", err)
		utils.InternalServerError(c, "Failed to list astrologers", err.Error())
		return
	}

	utils.Success(c, "Astrologers retrieved successfully", astrologers)
}

// Get returns one astrologer by reference, sentinel-aware
func (ac *AstrologerController) Get(c *gin.Context) {
	ref := c.Param("id")
	utils.LogInfo("Astrologer Get called for ref %s", ref)

	resolved, err := resolveAstrologerRef(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Astrologer not found")
			return
		}
		utils.LogError("Failed to resolve astrologer %s: %v", ref, err)
		utils.InternalServerError(c, "Failed to fetch astrologer", err.Error())
		return
	}

	if resolved.Synthetic {
		utils.Success(c, "Astrologer retrieved successfully", gin.H{
			"id":                  utils.AIAstrologerRef,
			"name":                resolved.Profile.Name,
			"email":               resolved.Profile.Email,
			"phone":               resolved.Profile.Phone,
			"experience":          resolved.Profile.Experience,
			"specialties":         resolved.Profile.Specialties,
			"languages":           resolved.Profile.Languages,
			"bio":                 resolved.Profile.Bio,
			"status":              resolved.Profile.Status,
			"verification_status": resolved.Profile.VerificationStatus,
			"rating":              resolved.Profile.Rating,
			"total_calls":         resolved.Profile.TotalCalls,
			"earnings":            resolved.Profile.Earnings,
			"rate":                resolved.Profile.Rate,
			"is_online":           resolved.Profile.IsOnline,
		})
		return
	}

	utils.Success(c, "Astrologer retrieved successfully", resolved.Profile)
}

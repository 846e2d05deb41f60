package controllers

import (
	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
)

// UserUpdateRequest is the payload for PUT /api/users/me
type UserUpdateRequest struct {
	Name         *string `json:"name"`
	DateOfBirth  *string `json:"date_of_birth"`
	TimeOfBirth  *string `json:"time_of_birth"`
	PlaceOfBirth *string `json:"place_of_birth"`
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	utils.LogInfo("GetProfile called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"role":           user.Role,
		"wallet_balance": user.WalletBalance,
		"date_of_birth":  user.DateOfBirth,
		"time_of_birth":  user.TimeOfBirth,
		"place_of_birth": user.PlaceOfBirth,
		"profile_image":  user.ProfileImage,
		"created_at":     user.CreatedAt,
	})
}

// UpdateProfile updates the mutable profile fields, including the birth
// details used by the kundli and insight endpoints.
func UpdateProfile(c *gin.Context) {
	utils.LogInfo("UpdateProfile called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid profile update body for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if err := utils.ValidateName(*req.Name); err != nil {
			utils.ValidationError(c, "Validation failed", err)
			return
		}
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = utils.SanitizeString(*req.DateOfBirth)
	}
	if req.TimeOfBirth != nil {
		updates["time_of_birth"] = utils.SanitizeString(*req.TimeOfBirth)
	}
	if req.PlaceOfBirth != nil {
		updates["place_of_birth"] = utils.SanitizeString(*req.PlaceOfBirth)
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update profile for user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update profile", err.Error())
			return
		}
	}

	utils.LogInfo("Profile updated for user %d", user.ID)
	utils.Success(c, "Profile updated successfully", gin.H{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"date_of_birth":  user.DateOfBirth,
		"time_of_birth":  user.TimeOfBirth,
		"place_of_birth": user.PlaceOfBirth,
	})
}

// UploadProfileImage accepts a multipart image and stores its hosted URL on the user
func UploadProfileImage(c *gin.Context) {
	utils.LogInfo("UploadProfileImage called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.LogError("No image in profile upload for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Image file is required", err.Error())
		return
	}

	imageURL, err := utils.UploadImage(file)
	if err != nil {
		utils.LogError("Profile image upload failed for user %d: %v", user.ID, err)
		if appErr, ok := err.(*utils.AppError); ok {
			utils.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		utils.BadRequest(c, "Failed to upload image", err.Error())
		return
	}

	if err := config.DB.Model(&user).Update("profile_image", imageURL).Error; err != nil {
		utils.LogError("Failed to save profile image for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to save profile image", err.Error())
		return
	}

	utils.LogInfo("Profile image updated for user %d", user.ID)
	utils.Success(c, "Profile image updated successfully", gin.H{"profile_image": imageURL})
}

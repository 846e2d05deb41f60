package controllers

import (
	"errors"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-gonic/gin"
)

// NewsRequest is the payload for news create/update
type NewsRequest struct {
	Title    string `json:"title" binding:"required"`
	Summary  string `json:"summary"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

// CreateNews publishes a news article. Admin only.
func CreateNews(c *gin.Context) {
	utils.LogInfo("CreateNews called")

	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "title and content are required", err.Error())
		return
	}

	article := models.News{
		Title:    utils.SanitizeString(req.Title),
		Summary:  utils.SanitizeString(req.Summary),
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := config.DB.Create(&article).Error; err != nil {
		utils.LogError("Failed to create news article: %v", err)
		utils.InternalServerError(c, "Failed to create article", err.Error())
		return
	}

	utils.LogInfo("News article %d created", article.ID)
	utils.Created(c, "Article created successfully", article)
}

// UploadNewsImage attaches an uploaded image to an article. Admin only.
func UploadNewsImage(c *gin.Context) {
	utils.LogInfo("UploadNewsImage called")

	var article models.News
	if err := config.DB.First(&article, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Article not found")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "image file is required", err.Error())
		return
	}
	if err := utils.ValidateImageFile(file); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	url, err := utils.UploadImage(file)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			utils.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		utils.LogError("Failed to upload news image: %v", err)
		utils.InternalServerError(c, "Failed to upload image", err.Error())
		return
	}

	if err := config.DB.Model(&article).Update("image_url", url).Error; err != nil {
		utils.InternalServerError(c, "Failed to save image URL", err.Error())
		return
	}

	utils.Success(c, "Image uploaded successfully", gin.H{"image_url": url})
}

// UpdateNews edits an article. Admin only.
func UpdateNews(c *gin.Context) {
	utils.LogInfo("UpdateNews called")

	var article models.News
	if err := config.DB.First(&article, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Article not found")
		return
	}

	var req struct {
		Title    *string `json:"title"`
		Summary  *string `json:"summary"`
		Content  *string `json:"content"`
		ImageURL *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid article payload", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeString(*req.Title)
	}
	if req.Summary != nil {
		updates["summary"] = utils.SanitizeString(*req.Summary)
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&article).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update article %d: %v", article.ID, err)
		utils.InternalServerError(c, "Failed to update article", err.Error())
		return
	}

	utils.Success(c, "Article updated successfully", article)
}

// DeleteNews removes an article. Admin only.
func DeleteNews(c *gin.Context) {
	utils.LogInfo("DeleteNews called")

	var article models.News
	if err := config.DB.First(&article, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Article not found")
		return
	}

	if err := config.DB.Delete(&article).Error; err != nil {
		utils.LogError("Failed to delete article %d: %v", article.ID, err)
		utils.InternalServerError(c, "Failed to delete article", err.Error())
		return
	}

	utils.Success(c, "Article deleted successfully", nil)
}

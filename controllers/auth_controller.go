package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignupRequest is the payload for POST /auth/signup
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// tokenResponse is the shared shape of signup/login responses. The
// verification_status field is only populated for astrologer accounts.
func tokenResponse(token string, user *models.User, verificationStatus interface{}) gin.H {
	return gin.H{
		"access_token":        token,
		"token_type":          "bearer",
		"role":                user.Role,
		"name":                user.Name,
		"id":                  user.ID,
		"verification_status": verificationStatus,
	}
}

// Signup registers a new account and returns a bearer token
func Signup(c *gin.Context) {
	utils.LogInfo("Signup called")

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid signup request body: %v", err)
		utils.BadRequest(c, "Name, email and password are required", err.Error())
		return
	}

	var fieldErrs utils.FieldValidationErrors
	if err := utils.ValidateName(req.Name); err != nil {
		fieldErrs = append(fieldErrs, *err)
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		fieldErrs = append(fieldErrs, *err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		fieldErrs = append(fieldErrs, *err)
	}
	if len(fieldErrs) > 0 {
		utils.LogError("Signup validation failed: %v", fieldErrs)
		utils.ValidationError(c, "Validation failed", fieldErrs)
		return
	}

	role := req.Role
	if role != models.RoleAstrologer {
		role = models.RoleUser
	}

	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.LogError("Signup with already registered email: %s", req.Email)
		utils.Conflict(c, "Email already registered", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	user := models.User{
		Name:     utils.SanitizeString(req.Name),
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user: %v", err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	utils.LogInfo("User %d registered successfully", user.ID)
	utils.Created(c, "Account created successfully", tokenResponse(token, &user, nil))
}

// Login authenticates by email and password and returns a bearer token plus
// the astrologer verification status when applicable.
func Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request body: %v", err)
		utils.BadRequest(c, "Email and password are required", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login failed, no such user: %s", req.Email)
		utils.Unauthorized(c, "Incorrect email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed, wrong password for user %d", user.ID)
		utils.Unauthorized(c, "Incorrect email or password")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	var verificationStatus interface{}
	if user.Role == models.RoleAstrologer {
		var profile models.Astrologer
		if err := config.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			verificationStatus = profile.VerificationStatus
		} else {
			// Applied role without a submitted profile yet
			verificationStatus = models.AstrologerStatusPending
		}
	}

	utils.LogInfo("User %d logged in successfully", user.ID)
	utils.Success(c, "Login successful", tokenResponse(token, &user, verificationStatus))
}

// GoogleUserInfo is the profile returned by Google's userinfo endpoint
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleLogin starts the OAuth flow, keeping the state nonce in the cookie session
func GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save oauth state: %v", err)
		utils.InternalServerError(c, "Failed to start login", err.Error())
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, config.GoogleOAuthConfig.AuthCodeURL(state))
}

// GoogleCallback completes the OAuth flow, provisioning a user account on
// first login, and redirects to the frontend with a bearer token.
func GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	_ = session.Save()

	if savedState == "" || c.Query("state") != savedState {
		utils.LogError("OAuth state mismatch")
		utils.BadRequest(c, "Invalid OAuth state", nil)
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	oauthToken, err := config.GoogleOAuthConfig.Exchange(c, code)
	if err != nil {
		utils.LogError("Failed to exchange OAuth code: %v", err)
		utils.InternalServerError(c, "Failed to exchange token", err.Error())
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + oauthToken.AccessToken)
	if err != nil {
		utils.LogError("Failed to fetch Google user info: %v", err)
		utils.BadGateway(c, "Failed to get user info", err.Error())
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.InternalServerError(c, "Failed to read response", err.Error())
		return
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(data, &googleUser); err != nil {
		utils.InternalServerError(c, "Failed to parse user info", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", googleUser.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.InternalServerError(c, "Failed to look up user", err.Error())
			return
		}

		// First Google login: provision an account with an unusable random password
		hashed, err := utils.HashPassword(uuid.New().String())
		if err != nil {
			utils.InternalServerError(c, "Failed to create account", err.Error())
			return
		}
		googleID := googleUser.ID
		user = models.User{
			Name:         googleUser.Name,
			Email:        googleUser.Email,
			Password:     hashed,
			Role:         models.RoleUser,
			GoogleID:     &googleID,
			ProfileImage: googleUser.Picture,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			utils.LogError("Failed to create Google user: %v", err)
			utils.InternalServerError(c, "Failed to create account", err.Error())
			return
		}
		utils.LogInfo("Provisioned user %d from Google login", user.ID)
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	redirectURL := fmt.Sprintf("%s?token=%s&user=%s",
		os.Getenv("FRONTEND_URL"),
		url.QueryEscape(token),
		url.QueryEscape(fmt.Sprintf(`{"id":%d,"email":"%s","name":"%s","role":"%s"}`,
			user.ID, user.Email, user.Name, user.Role)))

	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

// CreateSampleAdmin seeds the default admin account on first boot
func CreateSampleAdmin() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@astroveda.com"
	}

	var existing models.User
	if err := config.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return nil
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin@" + time.Now().Format("2006")
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Admin",
		Email:    adminEmail,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return err
	}

	utils.LogInfo("Sample admin created: %s", adminEmail)
	return nil
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"workhive-api/internal/apperr"
	"workhive-api/internal/auth"
	"workhive-api/internal/config"
	"workhive-api/internal/middleware"
	"workhive-api/internal/models"
)

// AuthHandler serves account signup, signin and profile management.
type AuthHandler struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
	Cfg    *config.Config
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Tokens: tokens, Cfg: cfg}
}

// SignUpRequest represents the signup request payload
type SignUpRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ProfileImageURL string `json:"profileImageUrl"`
	AdminInviteCode string `json:"adminInviteCode"`
}

// SignInRequest represents the signin request payload
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the sanitized user and its session token.
type AuthResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

const cookieMaxAge = int(7 * 24 * time.Hour / time.Second)

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetCookie("access_token", token, cookieMaxAge, "/", "", false, true)
}

// SignUp handles POST /api/auth/sign-up
// Creates an account; the role is admin only when the invite code matches.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("Name, email and password are required"))
		return
	}

	role := models.RoleMember
	if h.Cfg.AdminInviteCode != "" && req.AdminInviteCode == h.Cfg.AdminInviteCode {
		role = models.RoleAdmin
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, apperr.Validation("Password could not be processed"))
		return
	}

	user := models.User{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Email:           req.Email,
		Password:        hash,
		Role:            role,
		ProfileImageURL: req.ProfileImageURL,
	}

	// The unique index on email is the authority here; a concurrent signup
	// with the same address loses as a Conflict instead of a double insert.
	if err := h.DB.Create(&user).Error; err != nil {
		respondError(c, storeError(err, "User not found"))
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, AuthResponse{Success: true, User: user, Token: token})
}

// SignIn handles POST /api/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("Email and password are required"))
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondError(c, storeError(err, "User not found"))
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		respondError(c, apperr.Validation("Wrong credentials"))
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, AuthResponse{Success: true, User: user, Token: token})
}

// SignOut handles POST /api/auth/sign-out
// Tokens are not revocable server-side; signout only clears the cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User has been logged out successfully",
	})
}

// GetProfile handles GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	var user models.User
	if err := h.DB.Where("id = ?", c.GetString(middleware.ContextUserID)).First(&user).Error; err != nil {
		respondError(c, storeError(err, "User not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfileRequest represents the self-service profile update payload
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var user models.User
	if err := h.DB.Where("id = ?", c.GetString(middleware.ContextUserID)).First(&user).Error; err != nil {
		respondError(c, storeError(err, "User not found"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = *req.Email
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			respondError(c, apperr.Validation("Password could not be processed"))
			return
		}
		user.Password = hash
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperr.Conflict("Email already in use"))
			return
		}
		respondError(c, storeError(err, "User not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

package controllers

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"laptop-request-api/middleware"
	"laptop-request-api/models"
	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// AuthController serves admin signup, login and profile.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Signup creates an admin account
func (ctl *AuthController) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctl.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User profile created successfully.",
		"user":    user,
	})
}

// Login handles admin authentication
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if services.KindOf(err) == services.KindValidation {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User:    *user,
		Message: "Login successful",
	})
}

// GetProfile returns the current admin and the link submitters use.
func (ctl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctl.auth.Profile(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"user":     user,
		"form_url": FormURL(user.UID),
	})
}

// FormURL builds the submitter link (the QR code target) for an admin.
func FormURL(adminID string) string {
	base := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	if base == "" {
		base = "http://localhost:3000"
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/laptop-request"
	query := parsed.Query()
	query.Set("adminId", adminID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

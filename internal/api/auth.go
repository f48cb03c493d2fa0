package api

import (
	"net/http" // HTTP status codes

	"budget_system/internal/apperr"     // Typed errors
	"budget_system/internal/middleware" // Current user lookup
	"budget_system/internal/service"    // Business logic

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for profile settings
type SettingsRequest struct {
	Currency string `json:"currency"` // 3-letter currency code
}

// RegisterHandler creates a user with the default role
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "registration successful"})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		token, user, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindUnauthenticated {
				logrus.WithField("client_ip", c.ClientIP()).Warn("Login failed") // Never log the email or password
			}
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "login successful", // Status message
			"token":   token,              // JWT token
			"user":    user.View(),        // Public user data
		})
	}
}

// ProfileHandler returns the authenticated user
func ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperr.Respond(c, apperr.ErrUnauthenticated)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.View()})
	}
}

// UpdateSettingsHandler changes the authenticated user's currency
func UpdateSettingsHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apperr.Respond(c, apperr.ErrUnauthenticated)
			return
		}
		var req SettingsRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		updated, err := auth.UpdateCurrency(c.Request.Context(), user, req.Currency)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "settings updated", // Status message
			"user":    updated.View(),     // Updated user data
		})
	}
}

package api

import (
	"net/http" // HTTP status codes

	"budget_system/internal/apperr"  // Typed errors
	"budget_system/internal/domain"  // Importing domain models
	"budget_system/internal/service" // Business logic

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UpdateUserRequest represents an admin edit of a user
type UpdateUserRequest struct {
	Username *string `json:"username"` // New username
	Email    *string `json:"email"`    // New email
	Role     *string `json:"role"`     // New role name
}

// ListUsersHandler returns users ordered by id, one page at a time when asked
func ListUsersHandler(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		users, total, err := admin.ListUsers(c.Request.Context(), page)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		// Map users to response format
		views := make([]domain.UserView, len(users))
		for i := range users {
			views[i] = users[i].View()
		}
		resp := gin.H{"users": views}
		addPaging(resp, page, total)
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateUserHandler changes a user's username, email or role
func UpdateUserHandler(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, apperr.ErrUserNotFound)
		if !ok {
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := admin.UpdateUser(c.Request.Context(), id, service.UpdateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Role:     req.Role,
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"actor_id": actor.ID,       // Admin who made the change
			"user_id":  user.ID,        // Updated user
			"role":     user.Role.Name, // Role after the update
		}).Info("User updated")
		c.JSON(http.StatusOK, gin.H{
			"message": "user updated", // Status message
			"user":    user.View(),    // Updated user data
		})
	}
}

// DeleteUserHandler removes a user and their transactions
func DeleteUserHandler(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, apperr.ErrUserNotFound)
		if !ok {
			return
		}
		if err := admin.DeleteUser(c.Request.Context(), actor, id); err != nil {
			apperr.Respond(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"actor_id": actor.ID, // Admin who deleted
			"user_id":  id,       // Deleted user
		}).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}

// ListRolesHandler returns the role names of the registry
func ListRolesHandler(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := admin.ListRoles(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roles": roles})
	}
}

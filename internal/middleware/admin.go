package middleware

import (
	"budget_system/internal/apperr" // Typed errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminRequired lets the request through only for users whose role is admin.
// It must run after JWTAuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c) // Get user from context
		if !ok {
			apperr.Abort(c, apperr.ErrUnauthenticated)
			return
		}
		// A user without a loaded role is never an admin
		if !user.IsAdmin() {
			apperr.Abort(c, apperr.ErrAdminRequired)
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}

package middleware

import (
	"context" // Context for user lookups
	"errors"  // Error inspection
	"strings" // Header parsing

	"budget_system/internal/apperr"     // Typed errors
	"budget_system/internal/domain"     // Importing domain models
	"budget_system/internal/repository" // Repository errors
	"budget_system/internal/utils"      // JWT claims

	"github.com/gin-gonic/gin" // Gin web framework
)

const currentUserKey = "currentUser" // Context key of the authenticated user

// TokenParser verifies a bearer token
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// UserFinder resolves the token subject to a stored user
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// JWTAuthMiddleware validates the bearer token and loads the user it names
func JWTAuthMiddleware(tokens TokenParser, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" {
			apperr.Abort(c, apperr.ErrUnauthenticated)
			return
		}
		// Header must be "<scheme> <value>" with the Bearer scheme
		scheme, value, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			apperr.Abort(c, apperr.ErrBadTokenFormat)
			return
		}
		tokenStr := strings.TrimSpace(value)
		if tokenStr == "" {
			apperr.Abort(c, apperr.ErrUnauthenticated)
			return
		}
		claims, err := tokens.Parse(tokenStr) // Parse the JWT token
		if err != nil {
			apperr.Abort(c, err) // Already ErrInvalidToken or ErrTokenExpired
			return
		}
		user, err := users.FindByID(c.Request.Context(), claims.UserID) // Fetch user with role
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				apperr.Abort(c, apperr.ErrUserNotFound)
				return
			}
			apperr.Abort(c, apperr.Internal(err))
			return
		}
		c.Set(currentUserKey, user) // Store user in context
		c.Next()                    // Proceed to the next handler
	}
}

// CurrentUser returns the user stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

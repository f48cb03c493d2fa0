package utils

import (
	"errors" // Error classification
	"time"   // Time for token expiration

	"budget_system/internal/apperr" // Error taxonomy
	"budget_system/internal/domain" // Domain models

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is the lifetime of an issued token
const TokenTTL = 24 * time.Hour

// JWT Claims
type Claims struct {
	jwt.RegisteredClaims // Standard JWT claims (iat, exp)

	UserID   uint     `json:"user_id"`  // Subject user ID
	Username string   `json:"username"` // Username at issue time
	Roles    []string `json:"roles"`    // Zero or one role names
	Currency string   `json:"currency"` // Currency preference at issue time
}

// TokenManager issues and verifies HS256 tokens with a process-wide secret
type TokenManager struct {
	secret []byte           // Signing secret
	ttl    time.Duration    // Token lifetime
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenManager creates a token manager for secret
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// WithClock returns a copy of m that reads time from now
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	c := *m
	c.now = now
	return &c
}

// Generate creates a signed token for user
func (m *TokenManager) Generate(user *domain.User) (string, error) {
	issuedAt := m.now().UTC()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
		Currency: user.Currency,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)), // Token expires in 24 hours
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(m.secret)                        // Sign the token with the secret
}

// Parse verifies tokenStr and returns its claims. Errors are apperr.ErrTokenExpired
// or apperr.ErrInvalidToken.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Fixed algorithm
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.ErrTokenExpired, err)
		}
		return nil, apperr.Wrap(apperr.ErrInvalidToken, err)
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}

package api

import (
	"budget_system/internal/middleware" // Auth, logging and rate limiting
	"budget_system/internal/service"    // Business logic
	"budget_system/internal/utils"      // Rate limiter

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps is everything the router wires into handlers
type Deps struct {
	Auth           *service.AuthService        // Registration, login and profile
	Transactions   *service.TransactionService // Ledger queries and mutations
	Admin          *service.AdminService       // User management
	Tokens         middleware.TokenParser      // Bearer token verification
	Users          middleware.UserFinder       // Token subject lookup
	Limiter        utils.RateLimiter           // Login/register brute-force guard
	CORSOrigins    []string                    // Allowed browser origins
	HealthChecks   map[string]HealthCheck      // Dependency probes for /healthz
	TrustedProxies []string                    // Proxies whose forwarding headers are trusted
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.CORS(d.CORSOrigins))

	r.GET("/healthz", HealthHandler(d.HealthChecks)) // Health endpoint

	apiGroup := r.Group("/api")

	// Auth routes (rate limited)
	authLimit := middleware.RateLimit(d.Limiter, "auth")
	apiGroup.POST("/register", authLimit, RegisterHandler(d.Auth)) // Registration endpoint
	apiGroup.POST("/login", authLimit, LoginHandler(d.Auth))       // Login endpoint

	// Routes protected by JWT
	protected := apiGroup.Group("")
	protected.Use(middleware.JWTAuthMiddleware(d.Tokens, d.Users))
	protected.GET("/profile", ProfileHandler())                                     // Profile endpoint
	protected.PUT("/profile/settings", UpdateSettingsHandler(d.Auth))               // Currency setting endpoint
	protected.GET("/transactions", ListTransactionsHandler(d.Transactions))         // Transaction list endpoint
	protected.POST("/transactions", CreateTransactionHandler(d.Transactions))       // Create transaction endpoint
	protected.PUT("/transactions/:id", UpdateTransactionHandler(d.Transactions))    // Update transaction endpoint
	protected.DELETE("/transactions/:id", DeleteTransactionHandler(d.Transactions)) // Delete transaction endpoint
	protected.GET("/categories", CategoriesHandler(d.Transactions))                 // Category list endpoint
	protected.GET("/stats", StatsHandler(d.Transactions))                           // Stats endpoint

	// Admin routes (JWT and admin role)
	admin := protected.Group("")
	admin.Use(middleware.AdminRequired())
	admin.GET("/transactions/all", ListAllTransactionsHandler(d.Transactions)) // All transactions endpoint
	admin.GET("/roles", ListRolesHandler(d.Admin))                             // Role list endpoint
	admin.GET("/admin/users", ListUsersHandler(d.Admin))                       // List users endpoint
	admin.PUT("/admin/users/:id", UpdateUserHandler(d.Admin))                  // Update user endpoint
	admin.DELETE("/admin/users/:id", DeleteUserHandler(d.Admin))               // Delete user endpoint

	return r, nil
}

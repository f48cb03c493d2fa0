package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Startup probe timeout

	"budget_system/internal/api"               // Custom package for API handlers
	"budget_system/internal/config"            // Custom package for configuration
	"budget_system/internal/db"                // Custom package for migrations and seeding
	"budget_system/internal/repository"        // Custom package for gorm repositories
	"budget_system/internal/repository/memory" // In-memory repositories
	"budget_system/internal/service"           // Custom package for business logic
	"budget_system/internal/utils"             // Token manager and rate limiter

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// userStore is what the services and the admin seeder need from the credential store
type userStore interface {
	service.UserStore
	db.AdminSeeder
}

// roleStore is what the services and the role seeder need from the role registry
type roleStore interface {
	service.RoleStore
	db.RoleSeeder
}

// stores is the repository set the services run on
type stores struct {
	users        userStore                  // Credential store
	roles        roleStore                  // Role registry
	transactions service.TransactionStore   // Transaction ledger
	checks       map[string]api.HealthCheck // Health probes of the backing services
}

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	st := openStores(cfg)

	// Seed roles and the optional bootstrap admin
	if err := db.SeedRoles(ctx, st.roles); err != nil {
		logrus.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.SeedAdmin() {
		account := db.AdminAccount{Email: cfg.AdminEmail, Username: cfg.AdminUsername, Password: cfg.AdminPassword}
		if err := db.SeedAdmin(ctx, st.roles, st.users, account); err != nil {
			logrus.Fatalf("failed to seed admin: %v", err)
		}
	}

	limiter := newLimiter(ctx, cfg, st.checks)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret)
	r, err := api.NewRouter(api.Deps{
		Auth:           service.NewAuthService(st.users, st.roles, tokens),
		Transactions:   service.NewTransactionService(st.transactions),
		Admin:          service.NewAdminService(st.users, st.roles),
		Tokens:         tokens,
		Users:          st.users,
		Limiter:        limiter,
		CORSOrigins:    cfg.CORSOrigins,
		HealthChecks:   st.checks,
		TrustedProxies: []string{"127.0.0.1"},
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":   cfg.AppPort,  // Listening port
		"driver": cfg.DBDriver, // Storage driver
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// setupLogger configures the logrus formatter and level
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// openStores connects the configured storage driver and migrates it
func openStores(cfg *config.Config) stores {
	if cfg.DBDriver == config.DriverMemory {
		logrus.Warn("Using the in-memory store, data is lost on restart")
		store := memory.NewStore()
		return stores{
			users:        store.Users(),
			roles:        store.Roles(),
			transactions: store.Transactions(),
			checks:       map[string]api.HealthCheck{},
		}
	}

	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd && cfg.LogLevel == "debug")
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		logrus.Fatalf("failed to get DB handle: %v", err)
	}
	return stores{
		users:        repository.NewUserRepository(gdb),
		roles:        repository.NewRoleRepository(gdb),
		transactions: repository.NewTransactionRepository(gdb),
		checks:       map[string]api.HealthCheck{"database": sqlDB.PingContext},
	}
}

// newLimiter uses Redis when REDIS_ADDR is set and an in-process limiter otherwise
func newLimiter(ctx context.Context, cfg *config.Config, checks map[string]api.HealthCheck) utils.RateLimiter {
	if cfg.RedisAddr == "" {
		logrus.Info("REDIS_ADDR not set, rate limiting in process")
		return utils.NewMemoryRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	return utils.NewRedisRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow)
}

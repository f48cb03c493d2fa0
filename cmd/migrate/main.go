package main

import (
	"context" // Context for seeding

	"budget_system/internal/config"     // Custom import path (Config)
	"budget_system/internal/db"         // Custom import path (Database)
	"budget_system/internal/repository" // Custom import path (Repositories)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg.DSN(), false)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}

	ctx := context.Background()
	roles := repository.NewRoleRepository(gdb)
	if err := db.SeedRoles(ctx, roles); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	if cfg.SeedAdmin() {
		account := db.AdminAccount{Email: cfg.AdminEmail, Username: cfg.AdminUsername, Password: cfg.AdminPassword}
		if err := db.SeedAdmin(ctx, roles, repository.NewUserRepository(gdb), account); err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
	}
}

// Command seed-admin creates the first SUPER_ADMIN account, or resets the
// password and role of an existing one with the same email.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/config"
	"studyabroad-backend/internal/db"
	"studyabroad-backend/internal/logging"
	"studyabroad-backend/internal/repositories"

	"go.uber.org/zap"
)

const minPasswordLength = 8

func main() {
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "Account email (SEED_ADMIN_EMAIL)")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "Account password (SEED_ADMIN_PASSWORD)")
	name := flag.String("name", envOr("SEED_ADMIN_NAME", "Super Admin"), "Display name (SEED_ADMIN_NAME)")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed-admin -email you@example.com -password <secret> [-name \"Jane Doe\"]")
		os.Exit(2)
	}
	if len(*password) < minPasswordLength {
		fmt.Fprintf(os.Stderr, "password must be at least %d characters\n", minPasswordLength)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	created, err := repositories.NewAdminRepository(pool).UpsertSuperAdmin(ctx, *email, hash, strings.TrimSpace(*name))
	if err != nil {
		log.Fatal("upsert super admin", zap.Error(err))
	}
	if created {
		log.Info("super admin created", zap.String("email", strings.ToLower(*email)))
	} else {
		log.Info("super admin updated", zap.String("email", strings.ToLower(*email)))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

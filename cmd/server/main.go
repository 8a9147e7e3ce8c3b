package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/cache"
	"studyabroad-backend/internal/config"
	"studyabroad-backend/internal/database"
	"studyabroad-backend/internal/db"
	"studyabroad-backend/internal/handlers"
	"studyabroad-backend/internal/health"
	h "studyabroad-backend/internal/http"
	"studyabroad-backend/internal/logging"
	"studyabroad-backend/internal/middleware"
	"studyabroad-backend/internal/realtime"
	"studyabroad-backend/internal/repositories"
	"studyabroad-backend/internal/services"
	"studyabroad-backend/internal/storage"
	"studyabroad-backend/internal/timeutil"
	"studyabroad-backend/migrations"

	"go.uber.org/zap"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrateOnly := flag.Bool("migrate-only", false, "Apply database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log, err := logging.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log, *migrateOnly); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, migrateOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeutil.SetLocation(cfg.App.Timezone)
	if cfg.ConfigFileUsed != "" {
		log.Info("loaded config file", zap.String("path", cfg.ConfigFileUsed))
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.NewMigrator(pool, migrations.FS, log).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if migrateOnly {
		return nil
	}

	// Redis is optional: without it sessions cannot be revoked early, nothing
	// is cached and the contact form is not rate limited.
	store, err := cache.New(cfg)
	if err != nil {
		log.Warn("redis unavailable, running without cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	defer store.Close()

	var objects services.ObjectStore
	if storage.Configured(cfg) {
		client, err := storage.New(ctx, cfg)
		if err != nil {
			return err
		}
		objects = client
		log.Info("lead exports enabled", zap.String("bucket", client.Bucket()))
	}

	// Repositories
	adminRepo := repositories.NewAdminRepository(pool)
	leadRepo := repositories.NewLeadRepository(pool)
	noteRepo := repositories.NewNoteRepository(pool)
	clockRepo := repositories.NewClockRepository(pool)
	blogRepo := repositories.NewBlogRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)
	actionLogRepo := repositories.NewAdminActionLogRepository(pool)

	// Live lead feed
	hub := realtime.NewHub(cfg.Server.CorsAllowedOrigins, log.Named("feed"))
	go hub.Run(ctx)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	auditor := services.NewAuditor(actionLogRepo, log)
	authService := services.NewAuthService(adminRepo, loginLogRepo, store, jwtManager, log)
	leadService := services.NewLeadService(leadRepo, noteRepo, adminRepo, auditor, auth.ParseTriageScope(cfg.Policy.OperatorTriageScope), log)
	adminService := services.NewAdminService(adminRepo, auditor, log)
	clockService := services.NewClockService(clockRepo, log)
	blogService := services.NewBlogService(blogRepo, store, auditor, log)
	contactService := services.NewContactService(leadRepo, store, hub, cfg.Contact.RateLimitPerHour, log)
	exportService := services.NewExportService(leadRepo, objects, auditor, log)

	proxies, err := middleware.NewTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	// Handlers
	secure := cfg.Server.SecureCookies
	authMiddleware := middleware.NewAuthMiddleware(authService, clockService, cfg.Policy.OperatorRequiresClockIn, log)
	router := h.NewRouter(
		handlers.NewAuthHandler(authService, secure, log),
		handlers.NewLeadHandler(leadService, exportService, log),
		handlers.NewAdminHandler(adminService, log),
		handlers.NewClockHandler(clockService, authService, secure, log),
		handlers.NewBlogHandler(blogService, log),
		handlers.NewContactHandler(contactService),
		handlers.NewAdminActionLogHandler(auditor, log),
		handlers.NewHealthHandler(health.NewHealthChecker(pool, store)),
		hub.ServeWS,
		authMiddleware,
		log,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.NewCORS(cfg)(proxies.RealIP(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

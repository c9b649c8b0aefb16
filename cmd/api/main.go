package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/background"
	"github.com/BradenHooton/complaintbox/internal/config"
	"github.com/BradenHooton/complaintbox/internal/database"
	"github.com/BradenHooton/complaintbox/internal/events"
	"github.com/BradenHooton/complaintbox/internal/handlers"
	"github.com/BradenHooton/complaintbox/internal/repositories"
	"github.com/BradenHooton/complaintbox/internal/routes"
	"github.com/BradenHooton/complaintbox/internal/services"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
	pkglogger "github.com/BradenHooton/complaintbox/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env), slog.String("session_store", cfg.Session.Store))

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Initialize database
	db, err := database.NewConnection(startupCtx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(startupCtx); err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	complaintRepo := repositories.NewComplaintRepository(db)

	if err := services.EnsureDefaultAdmin(startupCtx, adminRepo, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, logger); err != nil {
		logger.Error("failed to ensure default admin", slog.Any("error", err))
		os.Exit(1)
	}

	// Session store
	var sessionStore auth.SessionStore
	var sweeper *background.SessionSweeper
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redisClient, err := auth.NewRedisClient(startupCtx, cfg.Redis)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		sessionStore = auth.NewRedisSessionStore(redisClient)
	default:
		memoryStore := auth.NewMemorySessionStore()
		sweeper = background.NewSessionSweeper(memoryStore, logger, cfg.Session.SweepInterval)
		sessionStore = memoryStore
		logger.Warn("using in-memory session store; sessions are lost on restart")
	}

	sessions := auth.NewSessionManager(sessionStore, cfg.Session.TTL, auth.CookieConfig{
		Name:     cfg.Session.CookieName,
		Secure:   cfg.Session.CookieSecure,
		SameSite: cfg.Session.SameSite,
	}, logger)

	// Event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.AMQPURL != "" {
		amqpPublisher := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, logger)
		if err := amqpPublisher.Connect(); err != nil {
			// the publisher reconnects on the next publish
			logger.Warn("event broker unavailable at startup", slog.Any("error", err))
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	// Initialize services
	auditLogger := pkglogger.NewAuditLogger(logger)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay: time.Duration(cfg.Auth.FailureDelayMs) * time.Millisecond,
		Jitter:    time.Duration(cfg.Auth.FailureDelayJitterMs) * time.Millisecond,
	})

	authService := services.NewAuthService(userRepo, adminRepo, timingDelay, logger, auditLogger)
	userService := services.NewUserService(userRepo, logger, auditLogger)
	complaintService := services.NewComplaintService(complaintRepo, publisher, logger, auditLogger)
	statsService := services.NewStatsService(complaintRepo, logger)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, userService, sessions, ipConfig, logger, cfg.Server.Env),
		Complaints: handlers.NewComplaintHandler(complaintService, logger, cfg.Server.Env),
		Admin:      handlers.NewAdminHandler(complaintService, statsService, logger, cfg.Server.Env),
		Health:     handlers.NewHealthHandler(db, logger),
	}

	router := routes.NewRouter(h, sessions, logger, routes.Options{
		Env:                     cfg.Server.Env,
		AllowedOrigins:          cfg.Server.AllowedOrigins,
		IPConfig:                ipConfig,
		AuthRateLimitPerMinute:  cfg.Auth.RateLimitPerMinute,
		WriteRateLimitPerMinute: cfg.Auth.WriteRateLimitPerMinute,
		RequestTimeout:          60 * time.Second,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start session sweeper
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	if sweeper != nil {
		go sweeper.Start(sweepCtx)
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	_ "github.com/lib/pq"

	httpapi "github.com/PatrickVM/in-house-open-sub001/internal/api/http"
	"github.com/PatrickVM/in-house-open-sub001/internal/config"
	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
	"github.com/PatrickVM/in-house-open-sub001/internal/metrics"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository/postgres"
	"github.com/PatrickVM/in-house-open-sub001/internal/security"
	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting membership verification backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	m := metrics.New(prometheus.DefaultRegisterer)
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	operational := security.NewOperationalTokenVerifier(cfg.Enforcement.OperationalTokenHash)

	dispatcher := service.NewSendGridDispatcher(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	templates := service.Templates{
		MembershipApproved: cfg.SendGrid.TemplateMembershipApproved,
		MembershipRejected: cfg.SendGrid.TemplateMembershipRejected,
		EnforcementWarning: cfg.SendGrid.TemplateEnforcementWarning,
		AccountDisabled:    cfg.SendGrid.TemplateAccountDisabled,
	}

	consensus := service.NewConsensusEvaluator(
		store.MemberVerificationRepository,
		cfg.Enforcement.VoterMinVerifiedDays,
		nil,
	)
	verificationSvc := service.NewVerificationService(
		store.UserRepository,
		store.ChurchRepository,
		store.VerificationRequestRepository,
		store.MemberVerificationRepository,
		consensus,
		dispatcher,
		templates,
		m,
		nil,
	)
	enforcementSvc := service.NewEnforcementService(
		store.UserRepository,
		dispatcher,
		templates,
		service.EnforcementConfig{
			WarnAfter:       time.Duration(cfg.Enforcement.WarningAfterDays) * 24 * time.Hour,
			DisableAfter:    time.Duration(cfg.Enforcement.DisableAfterDays) * 24 * time.Hour,
			SupportEmail:    cfg.Enforcement.SupportEmail,
			ReactivationURL: cfg.Enforcement.ReactivationURL,
		},
		m,
		nil,
	)
	adminSvc := service.NewAdminService(store.UserRepository, store.ChurchRepository)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Verification: verificationSvc,
		Enforcement:  enforcementSvc,
		Admin:        adminSvc,
		Tokens:       tokenManager,
		Operational:  operational,
		DB:           db,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

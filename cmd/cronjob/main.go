package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	_ "github.com/lib/pq"

	"github.com/PatrickVM/in-house-open-sub001/internal/config"
	"github.com/PatrickVM/in-house-open-sub001/internal/jobs"
	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
	"github.com/PatrickVM/in-house-open-sub001/internal/metrics"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository/postgres"
	"github.com/PatrickVM/in-house-open-sub001/internal/scheduler"
	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run the enforcement cycle once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting enforcement cron runner...", "run_once", *runOnce)

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

	store := postgres.NewStore(db)
	m := metrics.New(prometheus.DefaultRegisterer)

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

	jobRunner := jobs.NewJobRunner(enforcementSvc, cfg)

	if *runOnce {
		jobRunner.RunEnforcementCycle()
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
}

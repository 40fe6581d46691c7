package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-compliance/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-compliance/internal/handler/http"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-compliance/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-compliance/internal/service/compliance"
	notificationService "github.com/cmlabs-hris/attendance-compliance/internal/service/notification"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	logger.Init(cfg.App.LogLevel, "app", "attendance-compliance", "env", cfg.App.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	thresholds, err := compliance.LoadThresholds(cfg.Compliance.RulesFile)
	if err != nil {
		return err
	}

	punchRepo := postgresql.NewPunchRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	vacationRepo := postgresql.NewVacationRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	alarmRepo := postgresql.NewAlarmRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHubWithBuffer(cfg.Notification.SSEBuffer)
	notifService := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
	})
	defer notifService.Stop()

	evaluator := compliance.NewEvaluator(compliance.Sources{
		Punches:   punchRepo,
		Vacations: vacationRepo,
		Contracts: contractRepo,
	}, compliance.Options{
		Thresholds:  &thresholds,
		Location:    cfg.Compliance.Location,
		Locale:      compliance.ParseLocale(cfg.Compliance.Locale),
		ReadTimeout: cfg.Compliance.ReadTimeout,
	})
	orchestrator := compliance.NewOrchestrator(scheduleRepo, evaluator)
	complianceService := compliance.NewComplianceService(orchestrator, employeeRepo, alarmRepo, notifService, cfg.Compliance.Workers)

	scheduler := cron.NewScheduler()
	cron.NewComplianceJobs(
		complianceService,
		cfg.Compliance.Location,
		cfg.Compliance.RunHour,
		cfg.Compliance.LookbackDays,
		nil,
	).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: cfg.App.Env, Version: version, AllowedOrigins: cfg.App.AllowedOrigins},
		JWTService,
		appHTTP.NewComplianceHandler(complianceService),
		appHTTP.NewNotificationHandler(notifService, JWTService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoKV(ctx, "server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.InfoKV(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

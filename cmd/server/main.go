// @title VetCare API
// @version 1.0
// @description Multi-tenant veterinary clinic backend.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcare/internal/ai/gemini"
	"vetcare/internal/auth/session"
	"vetcare/internal/config"
	"vetcare/internal/email/noop"
	"vetcare/internal/email/ses"
	"vetcare/internal/handler"
	"vetcare/internal/logging"
	"vetcare/internal/metrics"
	"vetcare/internal/notify"
	"vetcare/internal/port"
	"vetcare/internal/repository/postgres"
	"vetcare/internal/resource"
	"vetcare/internal/router"
	"vetcare/internal/scheduler"
	"vetcare/internal/service"
	s3storage "vetcare/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.Init(cfg.Log, cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	errFiles, err := logging.NewErrorFiles(cfg.Log.Dir)
	if err != nil {
		return fmt.Errorf("failed to open error logs: %w", err)
	}
	defer func() { _ = errFiles.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	resourceRepo := postgres.NewResourceRepo(db)
	saleRepo := postgres.NewSaleRepo(db)
	inventoryRepo := postgres.NewInventoryRepo(db)
	patientRecordRepo := postgres.NewPatientRecordRepo(db)
	reminderRepo := postgres.NewReminderRepo(db)
	analyticsRepo := postgres.NewAnalyticsRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	// Initialize adapters
	storage, err := s3storage.New(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		logger.Info("email provider: SES", zap.String("from", cfg.Email.FromAddress))
	} else {
		emailSender = noop.NewNoopSender(cfg.Email.FrontendURL)
		logger.Info("email provider: noop (emails will be logged only)")
	}

	notifier, closeNotifier, err := notify.New(cfg.Notify, emailSender)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	defer closeNotifier()

	var generator port.TextGenerator
	if cfg.AI.APIKey != "" {
		generator = gemini.NewClient(&cfg.AI)
	} else {
		logger.Warn("API_KEY not set; AI endpoints return placeholder text")
	}

	// Initialize services
	registry := resource.NewRegistry()
	audit := service.NewAuditRecorder(auditRepo)
	authSvc := service.NewAuthService(userRepo, tenantRepo, clientRepo, cfg.JWT)
	registrationSvc := service.NewTenantRegistrationService(tenantRepo, authSvc)
	passwordResetSvc := service.NewPasswordResetService(userRepo, emailSender, cfg.JWT)
	resourceSvc := service.NewResourceService(registry, resourceRepo, clientRepo, audit)
	saleSvc := service.NewSaleService(saleRepo, audit, errFiles.Sale)
	syncSvc := service.NewSyncService(registry, resourceRepo, errFiles.Sync)
	patientSvc := service.NewPatientRecordService(patientRecordRepo, resourceRepo, registry, storage, audit, &cfg.S3)
	aiSvc := service.NewAIService(generator)
	billingSvc := service.NewBillingService(tenantRepo, audit, nil)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)

	// Initialize handlers
	cookie := session.NewTokenCookie(cfg.Cookie, cfg.JWT.AccessTokenExpiry)
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, registrationSvc, passwordResetSvc, cookie),
		Resource:  handler.NewResourceHandler(resourceSvc),
		Sale:      handler.NewSaleHandler(saleSvc),
		Sync:      handler.NewSyncHandler(syncSvc),
		Patient:   handler.NewPatientRecordHandler(patientSvc),
		AI:        handler.NewAIHandler(aiSvc),
		Billing:   handler.NewBillingHandler(billingSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Health:    handler.NewHealthHandler(map[string]handler.Pinger{"database": db}),
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()
	r := router.Setup(router.Options{
		Validator: authSvc,
		Cookie:    cookie,
		CORS:      cfg.CORS,
		StaticDir: cfg.Server.StaticDir,
		ServerLog: errFiles.Server,
	}, handlers)

	// Background jobs
	sched, err := scheduler.New(cfg.Scheduler)
	if err != nil {
		return err
	}
	if err := sched.Add("appointment-reminders", cfg.Scheduler.ReminderSchedule,
		service.NewReminderJob(reminderRepo, notifier, cfg.Scheduler.ReminderWorkers)); err != nil {
		return err
	}
	if err := sched.Add("stock-reconcile", cfg.Scheduler.ReconcileSchedule,
		service.NewReconcileJob(inventoryRepo)); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	sched.Start()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler stop", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

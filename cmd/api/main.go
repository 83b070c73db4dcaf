package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinibook/clinic-booking-platform/internal/api/router"
	"github.com/clinibook/clinic-booking-platform/internal/appointments"
	"github.com/clinibook/clinic-booking-platform/internal/availability"
	"github.com/clinibook/clinic-booking-platform/internal/clients"
	appconfig "github.com/clinibook/clinic-booking-platform/internal/config"
	"github.com/clinibook/clinic-booking-platform/internal/doctors"
	"github.com/clinibook/clinic-booking-platform/internal/notifications"
	"github.com/clinibook/clinic-booking-platform/internal/observability/metrics"
	"github.com/clinibook/clinic-booking-platform/internal/realtime"
	"github.com/clinibook/clinic-booking-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(reg)

	// Storage. With DATABASE_URL set everything runs on Postgres; without it
	// the server falls back to in-memory repositories for local development.
	var (
		doctorRepo       doctors.Repository
		clientRepo       clients.Repository
		apptRepo         appointments.Repository
		blackoutRepo     availability.Repository
		notificationRepo notifications.Repository
	)
	if cfg.DatabaseURL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			logger.Error("invalid DATABASE_URL", "error", err)
			os.Exit(1)
		}
		if cfg.DBMaxConns > 0 {
			poolCfg.MaxConns = int32(cfg.DBMaxConns)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to reach database", "error", err)
			os.Exit(1)
		}

		doctorRepo = doctors.NewPostgresRepository(pool)
		clientRepo = clients.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		blackoutRepo = availability.NewPostgresRepository(pool)
		notificationRepo = notifications.NewPostgresRepository(pool)
		logger.Info("using postgres storage")
	} else {
		dr := doctors.NewInMemoryRepository()
		cr := clients.NewInMemoryRepository()
		doctorRepo = dr
		clientRepo = cr
		apptRepo = appointments.NewInMemoryRepository(dr, cr)
		blackoutRepo = availability.NewInMemoryRepository()
		notificationRepo = notifications.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	emailSender := buildEmailSender(ctx, cfg, logger)
	emitter := notifications.NewEmitter(notificationRepo, doctorRepo, emailSender, logger)

	index := availability.NewIndex(blackoutRepo, apptRepo)
	bookingService := appointments.NewService(apptRepo, index, emitter, bookingMetrics, logger)

	// Realtime layer.
	hub := realtime.NewHub(bookingMetrics, logger)
	events := realtime.NewRouter(hub, bookingMetrics, logger)
	gateway := realtime.NewGateway(hub, logger)

	// Handlers.
	doctorsHandler := doctors.NewHandler(doctorRepo, logger)
	clientsHandler := clients.NewHandler(clientRepo, logger)
	appointmentsHandler := appointments.NewHandler(bookingService, events, logger)
	availabilityHandler := availability.NewHandler(blackoutRepo, events, logger)
	notificationsHandler := notifications.NewHandler(notificationRepo, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		DoctorsHandler:       doctorsHandler,
		ClientsHandler:       clientsHandler,
		AppointmentsHandler:  appointmentsHandler,
		AvailabilityHandler:  availabilityHandler,
		NotificationsHandler: notificationsHandler,
		Gateway:              gateway,
		MetricsHandler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender wires the configured email provider, or nothing when the
// relay is disabled.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notifications.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		s := notifications.NewSendGridSender(notifications.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if s == nil {
			logger.Warn("sendgrid provider selected but SENDGRID_API_KEY is empty")
			return nil
		}
		logger.Info("email relay enabled", "provider", "sendgrid")
		return s
	case "ses":
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, email relay disabled", "error", err)
			return nil
		}
		s := notifications.NewSESSender(sesv2.NewFromConfig(awsCfg), notifications.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if s == nil {
			return nil
		}
		logger.Info("email relay enabled", "provider", "ses")
		return s
	case "", "none":
		return nil
	default:
		logger.Warn("unknown email provider, relay disabled", "provider", cfg.EmailProvider)
		return nil
	}
}

// loadAWSConfig centralizes AWS SDK initialization for the SES relay.
func loadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}

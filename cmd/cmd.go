package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/config"
	"medalarm-backend/internal/handlers"
	"medalarm-backend/internal/repository"
	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	medRepo := repository.NewMedicationRepository(db)
	alarmRepo := repository.NewAlarmRepository(db)
	logRepo := repository.NewAlarmLogRepository(db)
	trialRepo := repository.NewTrialRepository(db)

	// Attachment store: S3 when a bucket is configured, inline otherwise
	var attachments services.AttachmentStore = services.InlineAttachmentStore{}
	if cfg.S3.Bucket != "" {
		s3Store, err := services.NewS3AttachmentStore(cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create attachment store")
		}
		attachments = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 attachment store enabled")
	}

	// Initialize services
	clk := clock.NewSystem()
	profileService := services.NewProfileService(profileRepo, profileCascade{
		meds:   medRepo,
		alarms: alarmRepo,
		logs:   logRepo,
		trials: trialRepo,
	}, clk)
	medService := services.NewMedicationService(medRepo, attachments, clk)
	alarmService := services.NewAlarmService(alarmRepo, logRepo, clk)
	logService := services.NewAlarmLogService(logRepo, medRepo, clk)
	trialService := services.NewTrialService(trialRepo, clk, cfg.Trial.DefaultDays)
	statsService := services.NewStatsService(medRepo, alarmRepo, logRepo)

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(profileService)
	medHandler := handlers.NewMedicationHandler(medService)
	alarmHandler := handlers.NewAlarmHandler(alarmService)
	logHandler := handlers.NewAlarmLogHandler(logService)
	trialHandler := handlers.NewTrialHandler(trialService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/profiles", profileHandler.CreateProfile)
		r.Get("/profiles", profileHandler.ListProfiles)
		r.Get("/profiles/{profile_id}", profileHandler.GetProfile)
		r.Delete("/profiles/{profile_id}", profileHandler.DeleteProfile)

		r.Post("/medications", medHandler.CreateMedication)
		r.Get("/medications", medHandler.ListMedications)
		r.Get("/medications/{medication_id}", medHandler.GetMedication)
		r.Put("/medications/{medication_id}", medHandler.UpdateMedication)
		r.Delete("/medications/{medication_id}", medHandler.DeleteMedication)

		r.Post("/alarms", alarmHandler.CreateAlarm)
		r.Get("/alarms", alarmHandler.ListAlarms)
		r.Get("/alarms/{alarm_id}", alarmHandler.GetAlarm)
		r.Put("/alarms/{alarm_id}", alarmHandler.UpdateAlarm)
		r.Delete("/alarms/{alarm_id}", alarmHandler.DeleteAlarm)
		r.Get("/alarms/{alarm_id}/next", alarmHandler.GetNextOccurrence)
		r.Post("/alarms/{alarm_id}/check", alarmHandler.CheckFiring)

		r.Post("/alarm-logs", logHandler.CreateAlarmLog)
		r.Get("/alarm-logs", logHandler.ListAlarmLogs)
		r.Delete("/alarm-logs/{profile_id}", logHandler.ClearAlarmLogs)

		r.Post("/premium-trial", trialHandler.CreateTrial)
		r.Get("/premium-trial/{profile_id}", trialHandler.GetTrial)

		r.Get("/stats/{profile_id}", statsHandler.GetStats)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// profileCascade fans a profile delete out to the owned-record repositories
type profileCascade struct {
	meds   *repository.MedicationRepository
	alarms *repository.AlarmRepository
	logs   *repository.AlarmLogRepository
	trials *repository.TrialRepository
}

func (c profileCascade) DeleteMedicationsByProfile(ctx context.Context, profileID string) error {
	return c.meds.DeleteByProfile(ctx, profileID)
}

func (c profileCascade) DeleteAlarmsByProfile(ctx context.Context, profileID string) error {
	return c.alarms.DeleteByProfile(ctx, profileID)
}

func (c profileCascade) DeleteAlarmLogsByProfile(ctx context.Context, profileID string) (int64, error) {
	return c.logs.DeleteByProfile(ctx, profileID)
}

func (c profileCascade) DeleteTrialByProfile(ctx context.Context, profileID string) error {
	return c.trials.DeleteByProfile(ctx, profileID)
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

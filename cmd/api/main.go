package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/A-bd-1999/medical-agent/internal/application"
	appanalysis "github.com/A-bd-1999/medical-agent/internal/application/analysis"
	appchatbot "github.com/A-bd-1999/medical-agent/internal/application/chatbot"
	"github.com/A-bd-1999/medical-agent/internal/config"
	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/analysislog"
	"github.com/A-bd-1999/medical-agent/internal/domain/chatbot"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
	mysqlp "github.com/A-bd-1999/medical-agent/internal/infra/db/mysql"
	postgresp "github.com/A-bd-1999/medical-agent/internal/infra/db/postgres"
	"github.com/A-bd-1999/medical-agent/internal/infra/httpserver"
	openaipred "github.com/A-bd-1999/medical-agent/internal/infra/inference/openai"
	stubpred "github.com/A-bd-1999/medical-agent/internal/infra/inference/stub"
	minioStore "github.com/A-bd-1999/medical-agent/internal/infra/storage"
	"github.com/A-bd-1999/medical-agent/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	ctx := context.Background()

	// connect record store
	db, patientRepo, logRepo, err := connectStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("record store connect error")
	}
	defer db.Close()

	// init X-ray image store
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("minio init error")
	}

	// build predictor registry once; read-only from here on
	registry := buildRegistry(cfg, logger)
	logger.Info().Any("exam_types", registry.Available()).Msg("model registry built")

	analysisSvc := &appanalysis.Service{
		Registry: registry,
		Patients: patientRepo,
		Logs:     logRepo,
		Clock:    application.SystemClock{},
		Logger:   logger,
	}
	chatbotSvc := &appchatbot.Service{
		Patients: patientRepo,
		Glossary: chatbot.DefaultGlossary(),
		Logger:   logger,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(logger))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.RateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	if cfg.Auth.APIKey != "" {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKey))
	}

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Mount("/", httpserver.NewRouter(analysisSvc, chatbotSvc, store))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // inference calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Logging.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

func connectStore(ctx context.Context, cfg *config.Config) (*sql.DB, patients.Repository, analysislog.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db, postgresp.NewPatientRepository(db), postgresp.NewLogRepository(db), nil
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db, mysqlp.NewPatientRepository(db), mysqlp.NewLogRepository(db), nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// buildRegistry registers one predictor per configured exam type. Exam types
// without configuration get the offline stub so the fixed enumeration is
// always fully served.
func buildRegistry(cfg *config.Config, logger zerolog.Logger) domain.Registry {
	registry := make(domain.Registry, len(domain.ExamTypes))
	for _, exam := range domain.ExamTypes {
		mc := cfg.Models[string(exam)]
		switch mc.Provider {
		case "openai":
			if cfg.OpenAI.APIKey == "" {
				logger.Warn().Str("exam_type", string(exam)).Msg("openai provider configured without api key, falling back to stub")
				registry[exam] = stubpred.NewPredictor(exam, mc.WeightsPath)
				continue
			}
			registry[exam] = openaipred.NewPredictor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, exam)
		default:
			registry[exam] = stubpred.NewPredictor(exam, mc.WeightsPath)
		}
	}
	return registry
}

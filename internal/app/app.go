package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/haneulclass/saengibu-backend/internal/assemble"
	"github.com/haneulclass/saengibu-backend/internal/batch"
	"github.com/haneulclass/saengibu-backend/internal/compliance"
	"github.com/haneulclass/saengibu-backend/internal/config"
	"github.com/haneulclass/saengibu-backend/internal/db"
	"github.com/haneulclass/saengibu-backend/internal/generation"
	"github.com/haneulclass/saengibu-backend/internal/handlers"
	"github.com/haneulclass/saengibu-backend/internal/keyword"
	"github.com/haneulclass/saengibu-backend/internal/logger"
	"github.com/haneulclass/saengibu-backend/internal/neis"
	"github.com/haneulclass/saengibu-backend/internal/observation"
	"github.com/haneulclass/saengibu-backend/internal/progress"
	"github.com/haneulclass/saengibu-backend/internal/prompt"
	"github.com/haneulclass/saengibu-backend/internal/repos"
	"github.com/haneulclass/saengibu-backend/internal/server"
	"github.com/haneulclass/saengibu-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	Cfg    *config.Config
	DB     *gorm.DB
	Router *gin.Engine

	bus progress.Bus
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	catalog, err := keyword.Load()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load keyword catalog: %w", err)
	}
	rules := neis.DefaultRules()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	sessionRepo := repos.NewObservationSessionRepo(theDB, log)
	runRepo := repos.NewBatchRunRepo(theDB, log)
	logRepo := repos.NewGenerationLogRepo(theDB, log)

	aggregator := observation.NewAggregator(catalog, log)
	assembler := assemble.NewAssembler(aggregator, rules)

	composer, err := prompt.NewComposer(rules)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("compile prompt templates: %w", err)
	}

	client, err := generation.New(cfg.Engine)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init generation client: %w", err)
	}

	validator := compliance.NewValidator(rules)
	throttle := batch.NewThrottle(cfg.Batch.Delay.Duration)
	orchestrator := batch.NewOrchestrator(assembler, composer, client, validator, throttle, log)

	recordService := services.NewRecordService(assembler, composer, client, validator, logRepo, cfg.Engine.Model, log)

	var bus progress.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		bus, err = progress.NewBus(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init progress bus: %w", err)
		}
	}

	router := server.NewRouter(server.RouterConfig{
		RecordHandler:      handlers.NewRecordHandler(recordService, orchestrator, runRepo, bus, log),
		ObservationHandler: handlers.NewObservationHandler(sessionRepo, log),
		KeywordHandler:     handlers.NewKeywordHandler(catalog),
	})

	return &App{
		Log:    log,
		Cfg:    cfg,
		DB:     theDB,
		Router: router,
		bus:    bus,
	}, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	defer a.Log.Sync()

	srv := &http.Server{
		Addr:              a.Cfg.HTTP.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: a.Cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       a.Cfg.HTTP.IdleTimeout.Duration,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	return nil
}

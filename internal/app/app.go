package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/domain/valuation"
	"github.com/scoutlens/scoutlens/internal/infrastructure/ingest"
	"github.com/scoutlens/scoutlens/internal/infrastructure/repository/memory"
	"github.com/scoutlens/scoutlens/internal/infrastructure/uistate"
	"github.com/scoutlens/scoutlens/internal/interfaces/httpapi"
	"github.com/scoutlens/scoutlens/internal/platform/cache"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
	"github.com/scoutlens/scoutlens/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	appLogger := logging.Default()

	state, err := uistate.Open(cfg.StateFilePath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	rebuild := func(overlay []byte) (valuation.Config, error) {
		return config.LoadValuation(cfg.ValueConfigFile, overlay)
	}
	valuationCfg, err := restoreValuationConfig(state, rebuild, appLogger)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if !cfg.GameDate.IsZero() {
		gameDate := cfg.GameDate
		now = func() time.Time { return gameDate }
	}

	repo := memory.NewDatasetRepository()
	loader := ingest.NewLoader(appLogger)

	datasetSvc := usecase.NewDatasetService(repo, loader, store, appLogger)
	analysisSvc := usecase.NewAnalysisService(repo, store, appLogger)
	squadSvc := usecase.NewSquadService(analysisSvc, appLogger)
	valuationSvc := usecase.NewValuationService(
		analysisSvc,
		state,
		store,
		valuationCfg,
		rebuild,
		cfg.AnchoringEnabled,
		now,
		appLogger,
	)
	transferSvc := usecase.NewTransferService(analysisSvc, valuationSvc, squadSvc, cfg.TransferScanWorkers, appLogger)
	stateSvc := usecase.NewUIStateService(state)

	handler := httpapi.NewHandler(
		datasetSvc,
		analysisSvc,
		valuationSvc,
		squadSvc,
		transferSvc,
		stateSvc,
		cfg.MaxUploadBytes,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// restoreValuationConfig rebuilds the valuation config with any overlay saved
// from a previous run. A corrupt saved overlay falls back to the base config
// rather than blocking startup.
func restoreValuationConfig(state *uistate.Store, rebuild usecase.RebuildConfigFunc, logger *logging.Logger) (valuation.Config, error) {
	ctx := context.Background()

	overlay, ok, err := state.Get(ctx, usecase.StateKeyValueConfig)
	if err != nil {
		return valuation.Config{}, fmt.Errorf("read saved value config: %w", err)
	}
	if ok {
		cfg, err := rebuild(overlay)
		if err == nil {
			return cfg, nil
		}
		logger.Warn("saved value config overlay is invalid, using base config", "error", err)
	}

	cfg, err := rebuild(nil)
	if err != nil {
		return valuation.Config{}, fmt.Errorf("load valuation config: %w", err)
	}
	return cfg, nil
}

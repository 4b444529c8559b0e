package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianfp/checkup/internal/clients/marketdata"
	"github.com/meridianfp/checkup/internal/config"
	"github.com/meridianfp/checkup/internal/database"
	"github.com/meridianfp/checkup/internal/modules/clientdata"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
	"github.com/meridianfp/checkup/internal/modules/history"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/metrics"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
	"github.com/meridianfp/checkup/internal/modules/returns"
	"github.com/meridianfp/checkup/internal/modules/settings"
	"github.com/meridianfp/checkup/internal/modules/snapshots"
	"github.com/meridianfp/checkup/internal/scheduler"
	"github.com/meridianfp/checkup/internal/server"
	"github.com/meridianfp/checkup/internal/services"
	"github.com/meridianfp/checkup/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting checkup service")

	// Operational database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Standalone price history database
	historyStore, err := history.NewStore(cfg.HistoryDBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history database")
	}
	defer historyStore.Close()

	// Repositories
	clientDataRepo := clientdata.NewRepository(db.Conn(), log)
	settingsRepo := settings.NewRepository(db.Conn(), log)
	snapshotsRepo := snapshots.NewRepository(db.Conn(), log)

	if err := settingsRepo.SeedDefaults(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default settings")
	}

	// An on-disk scoring config overrides whatever is stored; a broken
	// file aborts startup rather than scoring with stale thresholds.
	if cfg.ScoringConfigPath != "" {
		scoring, err := diagnostics.NewConfigLoader(log).LoadFromFile(cfg.ScoringConfigPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load scoring config file")
		}
		if err := settingsRepo.SaveScoringConfig(*scoring); err != nil {
			log.Fatal().Err(err).Msg("Failed to persist scoring config")
		}
	}

	assumptions, err := settingsRepo.Assumptions()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load assumptions")
	}

	// Engine components, configured from the stored assumptions
	returnsCfg := returns.DefaultConfig()
	returnsCfg.TradingDays = assumptions.TradingDays
	returnsCfg.IntraClassCorrelation = assumptions.IntraClassCorrelation

	returnsSim := returns.NewSimulator(returnsCfg, log)
	corrEngine := correlation.NewEngine(assumptions.HighCorrelationThreshold, log)
	metricsCalc := metrics.NewCalculator(assumptions.TradingDays, assumptions.RiskFreeRate, log)
	goalSim := montecarlo.NewSimulator(montecarlo.DefaultScenarioBands(), log)
	incomeProj := income.NewProjector(assumptions.TerminalAge, log)

	analysisService := services.NewAnalysisService(
		returnsSim,
		corrEngine,
		metricsCalc,
		goalSim,
		incomeProj,
		metrics.DefaultThresholds(),
		assumptions.TradingDays,
		log,
	)

	// Background jobs
	sched := scheduler.New(log)
	marketClient := marketdata.NewClient(cfg.MarketDataURL, log)

	priceSync := scheduler.NewPriceSyncJob(marketClient, historyStore, clientDataRepo, "1y", log)
	analysisRefresh := scheduler.NewAnalysisRefreshJob(analysisService, clientDataRepo, settingsRepo, snapshotsRepo, historyStore, 180, log)
	healthCheck := scheduler.NewHealthCheckJob(db, historyStore, snapshotsRepo, log)

	if err := sched.AddJob("30 2 * * *", priceSync); err != nil {
		log.Fatal().Err(err).Msg("Failed to register price sync job")
	}
	if err := sched.AddJob("0 3 * * *", analysisRefresh); err != nil {
		log.Fatal().Err(err).Msg("Failed to register analysis refresh job")
	}
	if err := sched.AddJob("@every 6h", healthCheck); err != nil {
		log.Fatal().Err(err).Msg("Failed to register health check job")
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DB:      db,
		DevMode: cfg.DevMode,

		Analysis:   analysisService,
		GoalSim:    goalSim,
		CorrEngine: corrEngine,
		IncomeProj: incomeProj,

		ClientData: clientDataRepo,
		Settings:   settingsRepo,
		Snapshots:  snapshotsRepo,
		History:    historyStore,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/adapter/repo"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/http/handlers"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/http/httpapi"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra/credentials"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra/geoip"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider/getimg"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider/qwen"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider/runway"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/storage"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/tracker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.Migrate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	jobs := repo.NewJobRepository(runner)
	analytics := repo.NewAnalyticsRepository(runner)

	svc := tracker.NewService(tracker.Options{
		Repo:           jobs,
		Analytics:      analytics,
		Logger:         logger,
		PollInterval:   cfg.PollInterval,
		MaxPollsPerJob: cfg.MaxPollsPerJob,
	})
	registerProviders(ctx, svc, credentials.NewStore(runner), cfg, logger)

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable")
		resolver = nil
	}

	app := &handlers.App{
		Tracker:   svc,
		Jobs:      jobs,
		Analytics: analytics,
		Files:     files,
		Config:    cfg,
		Logger:    logger,
	}
	router := httpapi.NewRouter(app, resolver)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// registerProviders wires every generation client whose API key is available,
// either from the environment or the credentials store. A kind with no
// configured client rejects submissions at validation time.
func registerProviders(ctx context.Context, svc *tracker.Service, creds *credentials.Store, cfg *infra.Config, logger infra.Logger) {
	resolveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if key := resolveKey(resolveCtx, creds, credentials.ProviderQwen, cfg.QwenAPIKey, logger); key != "" {
		svc.Register(domain.JobKindImageGeneration, qwen.NewClient(qwen.Options{
			BaseURL: cfg.QwenBaseURL,
			APIKey:  key,
		}))
	}
	if key := resolveKey(resolveCtx, creds, credentials.ProviderGetimg, cfg.GetimgAPIKey, logger); key != "" {
		svc.Register(domain.JobKindImageGeneration, getimg.NewClient(getimg.Options{
			BaseURL: cfg.GetimgBaseURL,
			APIKey:  key,
		}))
	}
	if key := resolveKey(resolveCtx, creds, credentials.ProviderRunway, cfg.RunwayAPIKey, logger); key != "" {
		svc.Register(domain.JobKindVideoGeneration, runway.NewClient(runway.Options{
			BaseURL: cfg.RunwayBaseURL,
			APIKey:  key,
		}))
	}
}

func resolveKey(ctx context.Context, creds *credentials.Store, provider, envValue string, logger infra.Logger) string {
	key, err := creds.Resolve(ctx, provider, envValue)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("failed to resolve api key")
		return ""
	}
	if key == "" {
		logger.Warn().Str("provider", provider).Msg("api key missing, provider disabled")
	}
	return key
}

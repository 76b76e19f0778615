package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/adapter/repo"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra/credentials"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider/getimg"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider/qwen"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider/runway"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/storage"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/tracker"
)

// maxAssetBytes caps a single mirrored download.
const maxAssetBytes = 64 << 20

// pollDaemon sweeps pending jobs, polls their upstream tasks and mirrors the
// assets of newly succeeded jobs onto local storage.
type pollDaemon struct {
	ctx      context.Context
	svc      *tracker.Service
	jobs     domain.JobRepository
	store    *storage.FileStore
	client   *http.Client
	logger   infra.Logger
	interval time.Duration
	batch    int
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("poller: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	jobsRepo := repo.NewJobRepository(runner)
	analytics := repo.NewAnalyticsRepository(runner)

	svc := tracker.NewService(tracker.Options{
		Repo:           jobsRepo,
		Analytics:      analytics,
		Logger:         logger,
		PollInterval:   cfg.PollInterval,
		MaxPollsPerJob: cfg.MaxPollsPerJob,
	})
	registerProviders(ctx, svc, credentials.NewStore(runner), cfg, logger)

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("poller: failed to configure storage")
	}

	daemon := &pollDaemon{
		ctx:      ctx,
		svc:      svc,
		jobs:     jobsRepo,
		store:    fileStore,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
		interval: cfg.PollInterval,
		batch:    cfg.PollBatchSize,
	}
	if err := daemon.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("poller: stopped with error")
	}
	logger.Info().Msg("poller: stopped")
}

func registerProviders(ctx context.Context, svc *tracker.Service, creds *credentials.Store, cfg *infra.Config, logger infra.Logger) {
	resolveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resolve := func(provider, envValue string) string {
		key, err := creds.Resolve(resolveCtx, provider, envValue)
		if err != nil {
			logger.Warn().Err(err).Str("provider", provider).Msg("poller: failed to resolve api key")
			return ""
		}
		return key
	}

	if key := resolve(credentials.ProviderQwen, cfg.QwenAPIKey); key != "" {
		svc.Register(domain.JobKindImageGeneration, qwen.NewClient(qwen.Options{BaseURL: cfg.QwenBaseURL, APIKey: key}))
	}
	if key := resolve(credentials.ProviderGetimg, cfg.GetimgAPIKey); key != "" {
		svc.Register(domain.JobKindImageGeneration, getimg.NewClient(getimg.Options{BaseURL: cfg.GetimgBaseURL, APIKey: key}))
	}
	if key := resolve(credentials.ProviderRunway, cfg.RunwayAPIKey); key != "" {
		svc.Register(domain.JobKindVideoGeneration, runway.NewClient(runway.Options{BaseURL: cfg.RunwayBaseURL, APIKey: key}))
	}
}

func (d *pollDaemon) Run() error {
	d.logger.Info().Dur("interval", d.interval).Msg("poller: started")
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return d.ctx.Err()
		case <-ticker.C:
		}
		d.sweep()
	}
}

// sweep polls one batch of due jobs. Jobs whose round fails stay pending and
// are picked up again on a later sweep.
func (d *pollDaemon) sweep() {
	cutoff := time.Now().Add(-d.interval)
	due, err := d.jobs.ListPollDue(d.ctx, cutoff, d.batch)
	if err != nil {
		d.logger.Error().Err(err).Msg("poller: list due jobs failed")
		return
	}
	for i := range due {
		job := &due[i]
		fresh, err := d.svc.PollOnce(d.ctx, job)
		if err != nil {
			d.logger.Warn().Err(err).Str("job_id", job.ID).Msg("poller: poll round failed")
			continue
		}
		if fresh.Status == domain.JobStatusSucceeded {
			d.mirrorAssets(fresh)
		}
	}
}

// mirrorAssets downloads the job's result URLs into local storage so archives
// survive upstream URL expiry. Already mirrored jobs are skipped.
func (d *pollDaemon) mirrorAssets(job *domain.Job) {
	existing, err := d.store.List("jobs/" + job.ID)
	if err != nil {
		d.logger.Warn().Err(err).Str("job_id", job.ID).Msg("poller: list stored assets failed")
		return
	}
	if len(existing) > 0 {
		return
	}
	for idx, rawURL := range job.ResultURLs {
		data, err := d.download(rawURL)
		if err != nil {
			d.logger.Warn().Err(err).Str("job_id", job.ID).Str("url", rawURL).Msg("poller: asset download failed")
			continue
		}
		key := fmt.Sprintf("jobs/%s/result-%02d%s", job.ID, idx+1, extensionFor(job.Kind))
		if _, err := d.store.Write(d.ctx, key, data); err != nil {
			d.logger.Error().Err(err).Str("job_id", job.ID).Msg("poller: asset write failed")
		}
	}
}

func (d *pollDaemon) download(rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(d.ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
}

func extensionFor(kind domain.JobKind) string {
	if kind == domain.JobKindVideoGeneration {
		return ".mp4"
	}
	return ".png"
}

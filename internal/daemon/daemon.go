// Package daemon assembles the long-running service: config, logger,
// recipe store, parse pipeline, reminder scheduler, and the HTTP API,
// with flock-based locking so only one instance runs per data
// directory.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"cooked/internal/config"
	"cooked/internal/entitlement"
	"cooked/internal/extract"
	"cooked/internal/images"
	"cooked/internal/library"
	"cooked/internal/normalize"
	"cooked/internal/notifications"
	"cooked/internal/ocr"
	"cooked/internal/pipeline"
	"cooked/internal/server"
	"cooked/internal/services/anthropic"
	"cooked/internal/services/assemblyai"
	"cooked/internal/services/gemini"
	"cooked/internal/services/openai"
	"cooked/internal/services/transcriptapi"
	"cooked/internal/transcript"
)

// Daemon owns the service lifecycle.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *library.Store
	server *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs the daemon and every component it serves. Vendors
// without credentials are wired but skipped at request time.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	store, err := library.Open(cfg)
	if err != nil {
		return nil, err
	}

	chain := extract.NewChain(logger,
		extract.NewProvider("anthropic", anthropicClient(cfg.Providers.Anthropic)),
		extract.NewProvider("openai", openaiClient(cfg.Providers.OpenAI)),
		extract.NewProvider("gemini", geminiClient(cfg.Providers.Gemini)),
	)

	captions := transcriptapi.NewClient(cfg.Captions.APIKey,
		transcriptapi.WithBaseURL(cfg.Captions.BaseURL))
	transcription := assemblyai.NewClient(cfg.Transcription.APIKey,
		assemblyai.WithBaseURL(cfg.Transcription.BaseURL))

	pipe := pipeline.New(
		normalize.New(ocr.Unavailable{}, normalize.WithLogger(logger)),
		chain,
		images.NewPreparer(cfg.Images.MaxBytes, logger),
		transcript.New(captions, transcription, cfg, transcript.WithLogger(logger)),
		logger,
	)

	var checker entitlement.Checker = entitlement.Unlimited{}
	if cfg.Library.FreeRecipeLimit > 0 {
		checker = entitlement.NewFreeTier(cfg.Library.FreeRecipeLimit)
	}

	scheduler := notifications.NewScheduler(cfg, logger)
	srv := server.New(cfg, store, pipe, scheduler, checker, logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "cookedd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		server:   srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cooked daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("cooked daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Addr returns the API listen address once started.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// Stop halts the API server and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.running.Store(false)
	d.logger.Info("cooked daemon stopped")
}

// Close stops the daemon and closes the recipe store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

func anthropicClient(p config.Provider) *anthropic.Client {
	opts := []anthropic.Option{}
	if p.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(p.BaseURL))
	}
	if p.Model != "" {
		opts = append(opts, anthropic.WithModel(p.Model))
	}
	if p.TimeoutSeconds > 0 {
		opts = append(opts, anthropic.WithHTTPClient(vendorHTTPClient(p.TimeoutSeconds)))
	}
	return anthropic.NewClient(p.APIKey, opts...)
}

func openaiClient(p config.Provider) *openai.Client {
	opts := []openai.Option{}
	if p.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(p.BaseURL))
	}
	if p.Model != "" {
		opts = append(opts, openai.WithModel(p.Model))
	}
	if p.TimeoutSeconds > 0 {
		opts = append(opts, openai.WithHTTPClient(vendorHTTPClient(p.TimeoutSeconds)))
	}
	return openai.NewClient(p.APIKey, opts...)
}

func geminiClient(p config.Provider) *gemini.Client {
	opts := []gemini.Option{}
	if p.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(p.BaseURL))
	}
	if p.Model != "" {
		opts = append(opts, gemini.WithModel(p.Model))
	}
	if p.TimeoutSeconds > 0 {
		opts = append(opts, gemini.WithHTTPClient(vendorHTTPClient(p.TimeoutSeconds)))
	}
	return gemini.NewClient(p.APIKey, opts...)
}

func vendorHTTPClient(timeoutSeconds int) *http.Client {
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}

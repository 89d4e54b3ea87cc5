// Package transcript acquires a text transcript for a user-submitted
// video URL. YouTube links are served from existing caption tracks
// when possible; everything else (and caption misses) goes through an
// asynchronous transcription job that is polled until it completes,
// errors, or runs out of wall-clock budget.
package transcript

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cooked/internal/apperr"
	"cooked/internal/config"
	"cooked/internal/logging"
	"cooked/internal/services/assemblyai"
)

// Source values reported alongside an acquired transcript.
const (
	SourceCaptions      = "transcriptapi"
	SourceTranscription = "assemblyai"
)

const (
	unavailableMsg = "Transcript unavailable. Please paste recipe text manually."
	timeoutMsg     = "Transcript timed out. Please try again or paste recipe text manually."
)

// Result is an acquired transcript and where it came from.
type Result struct {
	Text   string
	Source string
}

type captionClient interface {
	Configured() bool
	Transcript(ctx context.Context, videoURL string) (string, error)
}

type transcriptionClient interface {
	Configured() bool
	Submit(ctx context.Context, audioURL string) (string, error)
	Poll(ctx context.Context, jobID string) (assemblyai.Job, error)
}

// Acquirer drives the acquisition state machine.
type Acquirer struct {
	captions      captionClient
	transcription transcriptionClient
	minCaptionLen int
	pollInterval  time.Duration
	pollTimeout   time.Duration
	now           func() time.Time
	sleeper       func(time.Duration)
	logger        *slog.Logger
}

// Option customizes an Acquirer.
type Option func(*Acquirer)

// WithClock overrides how the poll deadline reads time (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(a *Acquirer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithSleeper overrides how poll waits are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(a *Acquirer) {
		a.sleeper = sleeper
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Acquirer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an Acquirer from the transcription/caption settings in cfg.
func New(captions captionClient, transcription transcriptionClient, cfg *config.Config, opts ...Option) *Acquirer {
	a := &Acquirer{
		captions:      captions,
		transcription: transcription,
		minCaptionLen: cfg.Captions.MinCaptionLength,
		pollInterval:  time.Duration(cfg.Transcription.PollIntervalSeconds) * time.Second,
		pollTimeout:   time.Duration(cfg.Transcription.PollTimeoutSeconds) * time.Second,
		now:           time.Now,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire validates the URL and runs the acquisition state machine.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return Result{}, err
	}

	if IsYouTubeURL(rawURL) && a.captions != nil && a.captions.Configured() {
		text, err := a.captions.Transcript(ctx, rawURL)
		if err == nil {
			text = strings.TrimSpace(text)
			if len(text) >= a.minCaptionLen {
				return Result{Text: text, Source: SourceCaptions}, nil
			}
			a.logger.Info("caption track too short, falling back to transcription",
				slog.Int("length", len(text)))
		} else {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			a.logger.Warn("caption fetch failed, falling back to transcription",
				slog.String("error", err.Error()))
		}
	}

	if a.transcription == nil || !a.transcription.Configured() {
		return Result{}, apperr.Misconfigured("transcription api key is not set")
	}

	jobID, err := a.transcription.Submit(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, apperr.Wrap(http.StatusUnprocessableEntity, err, unavailableMsg)
	}
	text, err := a.wait(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Source: SourceTranscription}, nil
}

// wait polls the job at the configured interval until it completes,
// errors, or the wall-clock deadline passes.
func (a *Acquirer) wait(ctx context.Context, jobID string) (string, error) {
	deadline := a.now().Add(a.pollTimeout)
	for a.now().Before(deadline) {
		job, err := a.transcription.Poll(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", apperr.Wrap(http.StatusUnprocessableEntity, err, unavailableMsg)
		}
		switch job.Status {
		case assemblyai.StatusCompleted:
			text := strings.TrimSpace(job.Text)
			if text == "" {
				return "", apperr.Unavailable(unavailableMsg)
			}
			return text, nil
		case assemblyai.StatusError:
			return "", apperr.Unavailable(unavailableMsg)
		}
		if err := a.sleep(ctx, a.pollInterval); err != nil {
			return "", err
		}
	}
	return "", apperr.Timeout(timeoutMsg)
}

func (a *Acquirer) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if a.sleeper != nil {
		a.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ValidateURL rejects non-http(s) schemes and hostnames that address
// internal networks, before any network traffic happens.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apperr.BadInput("invalid URL format")
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return apperr.BadInput("only http and https URLs are supported")
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return apperr.BadInput("invalid URL format")
	}
	if isPrivateHost(host) {
		return apperr.BadInput("URLs pointing to internal or private addresses are not allowed")
	}
	return nil
}

func isPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() || ip.IsUnspecified()
	}
	return false
}

// IsYouTubeURL reports whether the URL points at a YouTube host.
func IsYouTubeURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

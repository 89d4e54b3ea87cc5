// Package notifications delivers cook-day reminders via ntfy.
//
// A reminder is an in-process timer that fires a push at the
// configured hour on the recipe's cook date. When no ntfy topic is
// configured the scheduler degrades to a no-op, so flows that set
// cookDate never fail on notification plumbing.
package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cooked/internal/config"
	"cooked/internal/logging"
)

const userAgent = "cooked/0.1.0"

// cookDate values arrive as calendar dates without a time component.
const cookDateLayout = "2006-01-02"

// Scheduler schedules cook-day reminder pushes. Schedule returns an
// empty handle when nothing was scheduled (past date, noop backend).
type Scheduler interface {
	Schedule(recipeID, title, cookDate string) (string, error)
	Cancel(handle string)
	Close()
}

// NewScheduler builds a Scheduler backed by ntfy when a topic is
// configured, and a no-op otherwise.
func NewScheduler(cfg *config.Config, logger *slog.Logger) Scheduler {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopScheduler{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyScheduler{
		endpoint:       topic,
		client:         &http.Client{Timeout: timeout},
		requestTimeout: timeout,
		reminderHour:   cfg.Notifications.ReminderHour,
		now:            time.Now,
		timers:         make(map[string]*time.Timer),
		logger:         logger.With(slog.String(logging.FieldComponent, "notifications")),
	}
}

type ntfyScheduler struct {
	endpoint       string
	client         *http.Client
	requestTimeout time.Duration
	reminderHour   int
	now            func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
	logger *slog.Logger
}

func (s *ntfyScheduler) Schedule(recipeID, title, cookDate string) (string, error) {
	day, err := time.ParseInLocation(cookDateLayout, cookDate, time.Local)
	if err != nil {
		return "", fmt.Errorf("parse cook date: %w", err)
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), s.reminderHour, 0, 0, 0, time.Local)
	delay := at.Sub(s.now())
	if delay <= 0 {
		return "", nil
	}

	handle := uuid.NewString()
	timer := time.AfterFunc(delay, func() {
		s.fire(handle, recipeID, title)
	})
	s.mu.Lock()
	s.timers[handle] = timer
	s.mu.Unlock()
	return handle, nil
}

func (s *ntfyScheduler) Cancel(handle string) {
	s.mu.Lock()
	timer, ok := s.timers[handle]
	if ok {
		delete(s.timers, handle)
	}
	s.mu.Unlock()
	if ok {
		timer.Stop()
	}
}

func (s *ntfyScheduler) Close() {
	s.mu.Lock()
	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
	}
	s.mu.Unlock()
}

func (s *ntfyScheduler) fire(handle, recipeID, title string) {
	s.mu.Lock()
	delete(s.timers, handle)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()
	message := fmt.Sprintf("Your recipe %q is scheduled for today.", title)
	if err := s.push(ctx, "Time to cook!", message); err != nil {
		s.logger.Warn("reminder push failed",
			slog.String(logging.FieldRecipeID, recipeID),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Info("reminder delivered", slog.String(logging.FieldRecipeID, recipeID))
}

func (s *ntfyScheduler) push(ctx context.Context, title, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", title)
	req.Header.Set("Tags", "cooked,reminder")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopScheduler struct{}

func (noopScheduler) Schedule(string, string, string) (string, error) { return "", nil }
func (noopScheduler) Cancel(string)                                   {}
func (noopScheduler) Close()                                          {}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Vendor API keys are
// deliberately not required: an absent key soft-disables that vendor.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateProviders() error {
	for name, provider := range map[string]Provider{
		"anthropic": c.Providers.Anthropic,
		"openai":    c.Providers.OpenAI,
		"gemini":    c.Providers.Gemini,
	} {
		if err := validateBaseURL(fmt.Sprintf("providers.%s.base_url", name), provider.BaseURL); err != nil {
			return err
		}
		if provider.TimeoutSeconds < 0 {
			return fmt.Errorf("providers.%s.timeout_seconds must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if err := validateBaseURL("transcription.base_url", c.Transcription.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("captions.base_url", c.Captions.BaseURL); err != nil {
		return err
	}
	if c.Transcription.PollIntervalSeconds <= 0 {
		return errors.New("transcription.poll_interval_seconds must be positive")
	}
	if c.Transcription.PollTimeoutSeconds <= c.Transcription.PollIntervalSeconds {
		return errors.New("transcription.poll_timeout_seconds must exceed the poll interval")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.ReminderHour < 0 || c.Notifications.ReminderHour > 23 {
		return errors.New("notifications.reminder_hour must be between 0 and 23")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func validateBaseURL(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s must be set", field)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %q", field, value)
	}
	return nil
}

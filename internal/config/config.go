package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Provider holds connection settings for one extraction vendor. An
// empty APIKey means the provider is skipped by the chain.
type Provider struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Providers groups the extraction backends in chain priority order.
type Providers struct {
	Anthropic Provider `toml:"anthropic"`
	OpenAI    Provider `toml:"openai"`
	Gemini    Provider `toml:"gemini"`
}

// Transcription configures the AssemblyAI transcription job service.
type Transcription struct {
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollTimeoutSeconds  int    `toml:"poll_timeout_seconds"`
}

// Captions configures the TranscriptAPI caption retrieval service.
type Captions struct {
	APIKey           string `toml:"api_key"`
	BaseURL          string `toml:"base_url"`
	MinCaptionLength int    `toml:"min_caption_length"`
}

// Images configures photo payload preparation.
type Images struct {
	MaxBytes int64 `toml:"max_bytes"`
}

// OCR configures the image text extraction capability. The capability
// itself is not yet implemented; the key is read so the stub can report
// whether configuration or implementation is the missing piece.
type OCR struct {
	APIKey string `toml:"api_key"`
}

// Library configures recipe collection behavior.
type Library struct {
	// FreeRecipeLimit caps how many recipes can be added before the
	// entitlement check refuses. Zero means unlimited.
	FreeRecipeLimit int `toml:"free_recipe_limit"`
}

// Notifications contains configuration for ntfy cook-day reminders.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	ReminderHour   int    `toml:"reminder_hour"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Cooked.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - Providers: extraction backends in chain priority order
//   - Transcription: AssemblyAI job submission and polling
//   - Captions: TranscriptAPI caption retrieval
//   - Images: photo payload size ceiling
//   - OCR: image text extraction credential (stubbed capability)
//   - Library: recipe collection limits
//   - Notifications: ntfy cook-day reminders
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Providers     Providers     `toml:"providers"`
	Transcription Transcription `toml:"transcription"`
	Captions      Captions      `toml:"captions"`
	Images        Images        `toml:"images"`
	OCR           OCR           `toml:"ocr"`
	Library       Library       `toml:"library"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cooked/config.toml")
}

// Load locates, parses, and validates a configuration file. The
// returned config has paths expanded, environment credentials applied,
// and defaults filled in. The second return is the resolved path and
// the third reports whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	// A .env alongside the working directory wins over nothing but
	// loses to real environment variables.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv fills vendor credentials from the environment when the
// config file left them blank.
func (c *Config) applyEnv() {
	fillFromEnv(&c.Providers.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	fillFromEnv(&c.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	fillFromEnv(&c.Providers.Gemini.APIKey, "GEMINI_API_KEY")
	fillFromEnv(&c.Transcription.APIKey, "ASSEMBLYAI_API_KEY")
	fillFromEnv(&c.Captions.APIKey, "TRANSCRIPTAPI_API_KEY")
	fillFromEnv(&c.OCR.APIKey, "OCR_API_KEY")
}

func fillFromEnv(target *string, key string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cooked.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path, failing
// if a file already exists there.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// normalize expands paths and fills zero values with defaults.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if c.Transcription.PollIntervalSeconds <= 0 {
		c.Transcription.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Transcription.PollTimeoutSeconds <= 0 {
		c.Transcription.PollTimeoutSeconds = defaultPollTimeoutSeconds
	}
	if c.Captions.MinCaptionLength <= 0 {
		c.Captions.MinCaptionLength = defaultMinCaptionLength
	}
	if c.Images.MaxBytes <= 0 {
		c.Images.MaxBytes = defaultImageMaxBytes
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.ReminderHour <= 0 {
		c.Notifications.ReminderHour = defaultReminderHour
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}

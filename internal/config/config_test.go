package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if resolved != path {
		t.Fatalf("resolved = %q", resolved)
	}
	if cfg.Paths.APIBind != defaultAPIBind {
		t.Fatalf("api bind = %q", cfg.Paths.APIBind)
	}
	if cfg.Transcription.PollIntervalSeconds != defaultPollIntervalSeconds {
		t.Fatalf("poll interval = %d", cfg.Transcription.PollIntervalSeconds)
	}
	if cfg.Images.MaxBytes != defaultImageMaxBytes {
		t.Fatalf("image ceiling = %d", cfg.Images.MaxBytes)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
api_bind = "127.0.0.1:0"

[providers.openai]
api_key = "from-file"

[transcription]
poll_interval_seconds = 1
poll_timeout_seconds = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to be found")
	}
	if cfg.Providers.OpenAI.APIKey != "from-file" {
		t.Fatalf("openai key = %q", cfg.Providers.OpenAI.APIKey)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data dir not absolute: %q", cfg.Paths.DataDir)
	}
	if cfg.Transcription.PollTimeoutSeconds != 10 {
		t.Fatalf("poll timeout = %d", cfg.Transcription.PollTimeoutSeconds)
	}
}

func TestEnvFillsMissingCredentials(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")
	t.Setenv("ASSEMBLYAI_API_KEY", "env-assembly")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.Anthropic.APIKey != "env-anthropic" {
		t.Fatalf("anthropic key = %q", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.Transcription.APIKey != "env-assembly" {
		t.Fatalf("assembly key = %q", cfg.Transcription.APIKey)
	}
}

func TestFileCredentialWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[providers.openai]\napi_key = \"file-openai\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "file-openai" {
		t.Fatalf("openai key = %q", cfg.Providers.OpenAI.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Run("bad timeout ordering", func(t *testing.T) {
		cfg := Default()
		cfg.Transcription.PollIntervalSeconds = 30
		cfg.Transcription.PollTimeoutSeconds = 10
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "poll_timeout_seconds") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("bad log format", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Format = "yaml"
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("bad reminder hour", func(t *testing.T) {
		cfg := Default()
		cfg.Notifications.ReminderHour = 27
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "reminder_hour") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("missing key is fine", func(t *testing.T) {
		cfg := Default()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("absent vendor keys must validate: %v", err)
		}
	})
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if _, _, exists, err := Load(path); err != nil || !exists {
		t.Fatalf("embedded sample failed to load: exists=%v err=%v", exists, err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

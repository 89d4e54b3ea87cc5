package config

const (
	defaultDataDir              = "~/.local/share/cooked"
	defaultLogDir               = "~/.local/share/cooked/logs"
	defaultAPIBind              = "127.0.0.1:3001"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultPollIntervalSeconds  = 3
	defaultPollTimeoutSeconds   = 300
	defaultMinCaptionLength     = 40
	defaultImageMaxBytes        = 5 * 1024 * 1024
	defaultNotifyRequestTimeout = 10
	defaultReminderHour         = 9
	defaultFreeRecipeLimit      = 10

	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-sonnet-4-20250514"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultGeminiBaseURL    = "https://generativelanguage.googleapis.com"
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultAssemblyBaseURL  = "https://api.assemblyai.com/v2"
	defaultCaptionsBaseURL  = "https://transcriptapi.com/api/v2"

	defaultProviderTimeoutSeconds = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Providers: Providers{
			Anthropic: Provider{
				BaseURL:        defaultAnthropicBaseURL,
				Model:          defaultAnthropicModel,
				TimeoutSeconds: defaultProviderTimeoutSeconds,
			},
			OpenAI: Provider{
				BaseURL:        defaultOpenAIBaseURL,
				Model:          defaultOpenAIModel,
				TimeoutSeconds: defaultProviderTimeoutSeconds,
			},
			Gemini: Provider{
				BaseURL:        defaultGeminiBaseURL,
				Model:          defaultGeminiModel,
				TimeoutSeconds: defaultProviderTimeoutSeconds,
			},
		},
		Transcription: Transcription{
			BaseURL:             defaultAssemblyBaseURL,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			PollTimeoutSeconds:  defaultPollTimeoutSeconds,
		},
		Captions: Captions{
			BaseURL:          defaultCaptionsBaseURL,
			MinCaptionLength: defaultMinCaptionLength,
		},
		Images: Images{
			MaxBytes: defaultImageMaxBytes,
		},
		Library: Library{
			FreeRecipeLimit: defaultFreeRecipeLimit,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			ReminderHour:   defaultReminderHour,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

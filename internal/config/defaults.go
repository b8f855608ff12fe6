package config

const (
	defaultDataDir             = "~/.local/share/slate"
	defaultLogDir              = "~/.local/share/slate/logs"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMReferer          = "https://github.com/slate-analysis/slate"
	defaultLLMTitle            = "Slate Production Analysis"
	defaultLLMTimeoutSeconds   = 60
	defaultStageTimeoutSeconds = 90
	defaultRetryMaxAttempts    = 3
	defaultSceneCap            = 20
	defaultTimeOfDay           = "DAY"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		LLM: LLM{
			BaseURL:             defaultLLMBaseURL,
			Model:               defaultLLMModel,
			Referer:             defaultLLMReferer,
			Title:               defaultLLMTitle,
			TimeoutSeconds:      defaultLLMTimeoutSeconds,
			StageTimeoutSeconds: defaultStageTimeoutSeconds,
			RetryMaxAttempts:    defaultRetryMaxAttempts,
		},
		Analysis: Analysis{
			SceneCap:         defaultSceneCap,
			DefaultTimeOfDay: defaultTimeOfDay,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.StageTimeoutSeconds <= 0 {
		c.LLM.StageTimeoutSeconds = defaultStageTimeoutSeconds
	}
	if c.LLM.RetryMaxAttempts <= 0 {
		c.LLM.RetryMaxAttempts = defaultRetryMaxAttempts
	}

	if c.Analysis.SceneCap <= 0 {
		c.Analysis.SceneCap = defaultSceneCap
	}
	c.Analysis.DefaultTimeOfDay = strings.ToUpper(strings.TrimSpace(c.Analysis.DefaultTimeOfDay))
	if c.Analysis.DefaultTimeOfDay == "" {
		c.Analysis.DefaultTimeOfDay = defaultTimeOfDay
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir must not be empty")
	}
	if c.Paths.LogDir == "" {
		return fmt.Errorf("paths.log_dir must not be empty")
	}
	if !strings.HasPrefix(c.LLM.BaseURL, "http://") && !strings.HasPrefix(c.LLM.BaseURL, "https://") {
		return fmt.Errorf("llm.base_url must be an http(s) URL, got %q", c.LLM.BaseURL)
	}
	if c.Analysis.SceneCap > 200 {
		return fmt.Errorf("analysis.scene_cap %d exceeds the supported maximum of 200", c.Analysis.SceneCap)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q not recognized", c.Logging.Level)
	}
	return nil
}

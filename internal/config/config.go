// Package config provides configuration management for the Pitch Prophet
// betting analyst.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Provider   ProviderConfig   `mapstructure:"provider" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	SeasonData SeasonDataConfig `mapstructure:"season_data" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig represents statistics-provider configuration
type ProviderConfig struct {
	BaseURL              string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds       int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	FetchTimeoutSeconds  int     `mapstructure:"fetch_timeout_seconds" validate:"required,gt=0"`
	MaxRetries           int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond   float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	MaxConcurrentFetches int     `mapstructure:"max_concurrent_fetches" validate:"required,gt=0"`
	CacheTTLSeconds      int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// LLMConfig represents hosted generative-text service configuration
type LLMConfig struct {
	Provider         string  `mapstructure:"provider" validate:"required,llmprovider"`
	APIKey           string  `mapstructure:"api_key" validate:"required"`
	SummaryModel     string  `mapstructure:"summary_model" validate:"required"`
	AnalystModel     string  `mapstructure:"analyst_model" validate:"required"`
	Temperature      float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxSummaryTokens int     `mapstructure:"max_summary_tokens" validate:"gte=0"`
}

// SeasonDataConfig represents bookmaker season file configuration
type SeasonDataConfig struct {
	IndexURL        string `mapstructure:"index_url" validate:"required,url"`
	LeaguePrefix    string `mapstructure:"league_prefix"`
	DataDir         string `mapstructure:"data_dir" validate:"required"`
	DownloadLimit   int    `mapstructure:"download_limit" validate:"gte=0"`
	RefreshCron     string `mapstructure:"refresh_cron"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// AnalysisConfig represents fixture analysis defaults
type AnalysisConfig struct {
	HistoryLimit int    `mapstructure:"history_limit" validate:"required,gt=0"`
	League       string `mapstructure:"league" validate:"required"`
}

// MetricsConfig represents metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// FetchTimeout returns the per-fetch timeout as a duration
func (c *ProviderConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns the season-table cache TTL as a duration
func (c *ProviderConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CacheTTL returns the season-file cache TTL as a duration
func (c *SeasonDataConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// String returns a redacted summary suitable for logging
func (c *LLMConfig) String() string {
	return fmt.Sprintf("provider=%s summary_model=%s analyst_model=%s", c.Provider, c.SummaryModel, c.AnalystModel)
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PITCH_PROPHET"

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR_NAME})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for optional fields; a
// missing config file is not an error and leaves defaults plus environment
// variables in effect
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pitch-prophet")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("provider.fetch_timeout_seconds", 30)
	v.SetDefault("provider.max_retries", 4)
	v.SetDefault("provider.rate_limit_per_second", 5.0)
	v.SetDefault("provider.max_concurrent_fetches", 4)
	v.SetDefault("provider.cache_ttl_seconds", 3600)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.max_summary_tokens", 800)

	v.SetDefault("season_data.index_url", "https://www.football-data.co.uk/englandm.php")
	v.SetDefault("season_data.league_prefix", "E")
	v.SetDefault("season_data.data_dir", "data")
	v.SetDefault("season_data.download_limit", 5)
	v.SetDefault("season_data.cache_ttl_seconds", 86400)

	v.SetDefault("analysis.history_limit", 5)
	v.SetDefault("analysis.league", "EPL")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9090")
}

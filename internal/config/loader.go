// Package config provides configuration management for the Sports Edge scanner.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "SPORTS_EDGE"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers the documented defaults of the scanning engine
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sports-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "markets")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.markets_table", "markets")

	v.SetDefault("redis.stream_prefix", "opportunities.ranked")
	v.SetDefault("redis.stream_max_len", 1000)
	v.SetDefault("redis.latest_key", "opportunities:latest")

	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("matching.default_yes_side", "home")

	v.SetDefault("model.pre_game_weight", 0.10)
	v.SetDefault("model.period_weights", []float64{0.25, 0.50, 0.70, 0.95})
	v.SetDefault("model.halftime_weight", 0.50)
	v.SetDefault("model.final_weight", 0.95)
	v.SetDefault("model.sport_periods", map[string]int{
		"nfl": 4, "ncaaf": 4, "nba": 4, "ncaab": 2, "wnba": 4, "nhl": 3, "mlb": 9, "soccer": 2, "mls": 2, "epl": 2,
	})

	v.SetDefault("edge.min_edge", 0.02)
	v.SetDefault("edge.kelly_multiplier", 0.25)
	v.SetDefault("edge.kelly_cap", 0.25)
	v.SetDefault("edge.bankroll", 1000)
	v.SetDefault("edge.tiers", []map[string]interface{}{
		{"name": "HIGH", "min_edge": 0.15, "min_confidence": 75},
		{"name": "MEDIUM", "min_edge": 0.08, "min_confidence": 60},
	})

	v.SetDefault("ranking.edge_weight", 0.4)
	v.SetDefault("ranking.ev_weight", 40)
	v.SetDefault("ranking.confidence_weight", 20)

	v.SetDefault("scan.workers", 8)
	v.SetDefault("scan.sports", []string{"nfl", "nba"})

	v.SetDefault("event_feed.base_url", "https://site.api.espn.com/apis/site/v2/sports")
	v.SetDefault("event_feed.timeout_seconds", 15)
	v.SetDefault("event_feed.max_retries", 3)
	v.SetDefault("event_feed.rate_limit", 5.0)

	v.SetDefault("schedule.polling_interval_seconds", 60)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", "8080")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// Package config provides configuration management for the Sports Edge scanner.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Matching  MatchingConfig  `mapstructure:"matching" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Edge      EdgeConfig      `mapstructure:"edge" validate:"required"`
	Ranking   RankingConfig   `mapstructure:"ranking" validate:"required"`
	Scan      ScanConfig      `mapstructure:"scan" validate:"required"`
	EventFeed EventFeedConfig `mapstructure:"event_feed" validate:"required"`
	Schedule  ScheduleConfig  `mapstructure:"schedule" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MarketsTable   string `mapstructure:"markets_table" validate:"required"`
}

// RedisConfig represents the opportunity publisher connection
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Addr         string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db" validate:"gte=0"`
	StreamPrefix string `mapstructure:"stream_prefix"`
	StreamMaxLen int64  `mapstructure:"stream_max_len" validate:"gte=0"`
	LatestKey    string `mapstructure:"latest_key"`
}

// CacheConfig represents the market snapshot cache
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
}

// TTL returns the cache time-to-live as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// MatchingConfig represents event-to-market matching policy
type MatchingConfig struct {
	DefaultYesSide string `mapstructure:"default_yes_side" validate:"required,side"`
}

// ModelConfig represents the probability model's time weighting
type ModelConfig struct {
	PreGameWeight  float64        `mapstructure:"pre_game_weight" validate:"gte=0,lte=1"`
	PeriodWeights  []float64      `mapstructure:"period_weights" validate:"required,len=4,dive,gte=0,lte=1"`
	HalftimeWeight float64        `mapstructure:"halftime_weight" validate:"gte=0,lte=1"`
	FinalWeight    float64        `mapstructure:"final_weight" validate:"gte=0,lte=1"`
	SportPeriods   map[string]int `mapstructure:"sport_periods" validate:"dive,gt=0"`
}

// EdgeConfig represents edge filtering and stake sizing
type EdgeConfig struct {
	MinEdge         float64      `mapstructure:"min_edge" validate:"gte=0,lt=1"`
	KellyMultiplier float64      `mapstructure:"kelly_multiplier" validate:"required,gt=0,lte=1"`
	KellyCap        float64      `mapstructure:"kelly_cap" validate:"required,gt=0,lte=0.25"`
	Bankroll        float64      `mapstructure:"bankroll" validate:"gte=0"`
	Tiers           []TierConfig `mapstructure:"tiers" validate:"required,min=1,tiers,dive"`
}

// TierConfig is one row of the confidence tier decision table
type TierConfig struct {
	Name          string  `mapstructure:"name" validate:"required,oneof=HIGH MEDIUM"`
	MinEdge       float64 `mapstructure:"min_edge" validate:"gte=0,lte=1"`
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
}

// RankingConfig represents the combined-score weights
type RankingConfig struct {
	EdgeWeight       float64 `mapstructure:"edge_weight" validate:"gte=0"`
	EVWeight         float64 `mapstructure:"ev_weight" validate:"gte=0"`
	ConfidenceWeight float64 `mapstructure:"confidence_weight" validate:"gte=0"`
}

// ScanConfig represents the per-cycle pipeline settings
type ScanConfig struct {
	Workers int      `mapstructure:"workers" validate:"required,gt=0,lte=64"`
	Sports  []string `mapstructure:"sports" validate:"required,min=1,dive,required"`
}

// EventFeedConfig represents the live event feed client
type EventFeedConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ScheduleConfig represents scan scheduling
type ScheduleConfig struct {
	PollingIntervalSeconds int `mapstructure:"polling_interval_seconds" validate:"required,gte=5"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health/metrics HTTP server
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

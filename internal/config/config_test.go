// Package config provides configuration management for the Sports Edge scanner.
package config

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath        = "testdata/valid_config.yaml"
	expansionConfigPath    = "testdata/expansion_config.yaml"
	nonexistentConfigPath  = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg     = "expected no error, got %v"
	expectedValidationErr  = "expected validation error"
	sportsEdgeName         = "sports-edge"
	developmentEnv         = "development"
	localhostHost          = "localhost"
	postgresPort           = 5432
	testAppName            = "test-app"
	testDBPassword         = "TEST_DB_PASSWORD"
	expandedSecretValue    = "expanded_secret_value"
	defaultCacheTTLSeconds = 300
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != sportsEdgeName {
		t.Errorf("expected app name '%s', got '%s'", sportsEdgeName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}
	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
	if len(cfg.Edge.Tiers) != 2 || cfg.Edge.Tiers[0].Name != "HIGH" {
		t.Errorf("expected HIGH tier first, got %+v", cfg.Edge.Tiers)
	}
	if cfg.Model.SportPeriods["nhl"] != 3 {
		t.Errorf("expected nhl to have 3 periods, got %d", cfg.Model.SportPeriods["nhl"])
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("SPORTS_EDGE_APP_NAME", testAppName)

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}
	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a config file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Cache.TTLSeconds != defaultCacheTTLSeconds {
		t.Errorf("expected default ttl %d, got %d", defaultCacheTTLSeconds, cfg.Cache.TTLSeconds)
	}
	if cfg.Edge.MinEdge != 0.02 {
		t.Errorf("expected default min edge 0.02, got %v", cfg.Edge.MinEdge)
	}
	if cfg.Matching.DefaultYesSide != "home" {
		t.Errorf("expected default yes side 'home', got '%s'", cfg.Matching.DefaultYesSide)
	}
	for _, sport := range []string{"mls", "epl"} {
		if cfg.Model.SportPeriods[sport] != 2 {
			t.Errorf("expected %s to have 2 periods, got %d", sport, cfg.Model.SportPeriods[sport])
		}
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestValidateRejections covers the custom and numeric validation rules
func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.App.Environment = "invalid" },
			wantMsg: "Environment",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.App.LogLevel = "verbose" },
			wantMsg: "LogLevel",
		},
		{
			name:    "invalid default side",
			mutate:  func(c *Config) { c.Matching.DefaultYesSide = "draw" },
			wantMsg: "DefaultYesSide",
		},
		{
			name:    "kelly cap above quarter",
			mutate:  func(c *Config) { c.Edge.KellyCap = 0.5 },
			wantMsg: "KellyCap",
		},
		{
			name: "tiers out of order",
			mutate: func(c *Config) {
				c.Edge.Tiers = []TierConfig{
					{Name: "MEDIUM", MinEdge: 0.08, MinConfidence: 60},
					{Name: "HIGH", MinEdge: 0.15, MinConfidence: 75},
				}
			},
			wantMsg: "Tiers",
		},
		{
			name: "duplicate tiers",
			mutate: func(c *Config) {
				c.Edge.Tiers = []TierConfig{
					{Name: "HIGH", MinEdge: 0.15, MinConfidence: 75},
					{Name: "HIGH", MinEdge: 0.08, MinConfidence: 60},
				}
			},
			wantMsg: "Tiers",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Scan.Workers = 0 },
			wantMsg: "Workers",
		},
		{
			name:    "invalid feed url",
			mutate:  func(c *Config) { c.EventFeed.BaseURL = "not a url" },
			wantMsg: "BaseURL",
		},
		{
			name: "redis enabled without address",
			mutate: func(c *Config) {
				c.Redis.Enabled = true
				c.Redis.Addr = ""
			},
			wantMsg: "Addr",
		},
		{
			name:    "production without ssl",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantMsg: "SSL",
		},
		{
			name: "all ranking weights zero",
			mutate: func(c *Config) {
				c.Ranking = RankingConfig{}
			},
			wantMsg: "ranking weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal(expectedValidationErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error to mention '%s', got %v", tt.wantMsg, err)
			}
		})
	}
}

// TestValidateEnvironmentPlaceholderCredential tests production credential checks
func TestValidateEnvironmentPlaceholderCredential(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.Database.Password = "YOUR_PASSWORD"

	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected placeholder credential to be rejected in production")
	}

	cfg.Database.Password = "s3cr3t-value"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestGetDatabaseDSN tests DSN construction
func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db",
			Port:     5433,
			Name:     "markets",
			User:     "edge",
			Password: "pw",
			SSLMode:  "require",
		},
	}

	want := "postgres://edge:pw@db:5433/markets?sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("expected DSN '%s', got '%s'", want, got)
	}
}

// TestEnvironmentHelpers tests IsDevelopment and IsProduction
func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development environment")
	}

	cfg.App.Environment = "production"
	if cfg.IsDevelopment() || !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

// TestCacheTTL tests the ttl conversion
func TestCacheTTL(t *testing.T) {
	c := CacheConfig{TTLSeconds: 300}
	if c.TTL().Minutes() != 5 {
		t.Errorf("expected 5 minutes, got %v", c.TTL())
	}
}

// TestParseSecretDataAndOverlay tests secret parsing and overlay onto config
func TestParseSecretDataAndOverlay(t *testing.T) {
	out := &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"db-secret","redis_password":"redis-secret"}`),
	}

	secrets, err := parseSecretData(out)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg := loadValid(t)
	cfg.Database.User = "postgres"
	overlaySecretsOnConfig(cfg, secrets)

	if cfg.Database.Password != "db-secret" {
		t.Errorf("expected database password overlay, got '%s'", cfg.Database.Password)
	}
	if cfg.Redis.Password != "redis-secret" {
		t.Errorf("expected redis password overlay, got '%s'", cfg.Redis.Password)
	}
	if cfg.Database.User != "postgres" {
		t.Errorf("expected empty secret to leave user unchanged, got '%s'", cfg.Database.User)
	}

	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err == nil {
		t.Error("expected error for empty secret payload")
	}
}

// Package main provides the edge-scanner CLI: one-shot scans and the scheduled scan service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sports-edge/internal/cache"
	"github.com/yourusername/sports-edge/internal/config"
	"github.com/yourusername/sports-edge/internal/database"
	"github.com/yourusername/sports-edge/internal/datasource"
	"github.com/yourusername/sports-edge/internal/logger"
	"github.com/yourusername/sports-edge/internal/metrics"
	"github.com/yourusername/sports-edge/internal/repository"
	"github.com/yourusername/sports-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "edge-scanner",
	Short: "Correlate live sports events with prediction markets and rank value opportunities",
	Long: `edge-scanner matches live and scheduled games from the event feed to open
prediction markets, estimates win probabilities from the game state and
ranks the sides whose model probability beats the market price.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "edge-scanner %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if logLevel != "" {
		cfg.App.LogLevel = strings.ToLower(logLevel)
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	// stdout carries command output
	appLog.SetOutput(os.Stderr)

	logger.NewAuditLogger(appLog).LogConfigLoaded(cfg.App.Environment, cfg.Edge.MinEdge,
		cfg.Edge.KellyMultiplier, cfg.Edge.KellyCap, cfg.Cache.TTL())

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	return nil
}

// pipeline bundles the components shared by scan and serve
type pipeline struct {
	db      *database.DB
	cache   *cache.MarketCache
	scanner *service.Scanner
	feed    *datasource.ESPNFeed
}

func (p *pipeline) Close() {
	if p.db != nil {
		p.db.Close()
	}
}

func buildPipeline(ctx context.Context, sports []string) (*pipeline, error) {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db, cfg.Database.MarketsTable)
	if err != nil {
		db.Close()
		return nil, err
	}

	feed, err := datasource.NewEventFeed(&cfg.EventFeed, sports, appLog)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event feed: %w", err)
	}

	marketCache := cache.NewMarketCache(repos.Market, cfg.Cache.TTL(), appLog)

	return &pipeline{
		db:      db,
		cache:   marketCache,
		scanner: service.NewScannerFromConfig(cfg, marketCache, appLog),
		feed:    feed,
	}, nil
}

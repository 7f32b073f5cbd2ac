// Package main provides the entry point for the betting analyst CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitch-prophet/internal/aggregate"
	"github.com/yourusername/pitch-prophet/internal/bettor"
	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/health"
	"github.com/yourusername/pitch-prophet/internal/llm"
	applogger "github.com/yourusername/pitch-prophet/internal/logger"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/prompt"
	"github.com/yourusername/pitch-prophet/internal/provider"
	"github.com/yourusername/pitch-prophet/internal/scheduler"
	"github.com/yourusername/pitch-prophet/internal/seasonfile"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	homeTeam   string
	awayTeam   string
	matchDate  string
	season     string
	league     string
	limit      int

	appLog     *logrus.Logger
	cfg        *config.Config
	httpClient *provider.RateLimitedHTTPClient
	analyst    *bettor.Bettor
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	for _, cmd := range []*cobra.Command{analyzeCmd, promptCmd} {
		cmd.Flags().StringVar(&homeTeam, "home", "", "Home team name (required)")
		cmd.Flags().StringVar(&awayTeam, "away", "", "Away team name (required)")
		cmd.Flags().StringVar(&matchDate, "date", "", "Fixture date, YYYY-MM-DD (required)")
		cmd.Flags().StringVar(&season, "season", "", "Season start year, e.g. 2024 (required)")
		cmd.Flags().StringVar(&league, "league", "", "League code (defaults to analysis.league)")
		cmd.Flags().IntVar(&limit, "limit", 0, "Historical matches per lens (defaults to analysis.history_limit)")
		for _, required := range []string{"home", "away", "date", "season"} {
			_ = cmd.MarkFlagRequired(required)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "bettor",
	Short: "Compose data-grounded betting briefings and recommendations",
	Long: `Pitch Prophet aggregates season statistics, recent match history and
shot-level data for a fixture, composes a layered analysis prompt, and asks a
hosted language model for a betting recommendation.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupDependencies()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if httpClient != nil {
			_ = httpClient.Close()
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full pipeline and print the betting recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := fixtureRequest()
		recommendation, err := analyst.AnalyzeBet(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println(recommendation)
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Compose and print the analysis prompt without the final analyst call",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := fixtureRequest()
		composed, err := analyst.ComposePrompt(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println(composed)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the latest bookmaker season files once",
	RunE: func(cmd *cobra.Command, args []string) error {
		downloader := seasonfile.NewDownloader(
			cfg.SeasonData.IndexURL,
			cfg.SeasonData.LeaguePrefix,
			cfg.SeasonData.DataDir,
			httpClient,
			appLog,
		)
		count, err := downloader.Run(cmd.Context(), cfg.SeasonData.DownloadLimit)
		if err != nil {
			return fmt.Errorf("season file refresh failed: %w", err)
		}
		fmt.Printf("Downloaded %d season files to %s\n", count, cfg.SeasonData.DataDir)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled season-file refresher and metrics endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(analyzeCmd, promptCmd, refreshCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
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

	return config.Validate(cfg)
}

func setupDependencies() {
	appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"llm":         cfg.LLM.String(),
	}).Info("Pitch Prophet starting")

	metrics.InitRegistry()

	httpCfg := provider.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.Provider.MaxRetries
	httpCfg.RateLimit = cfg.Provider.RateLimitPerSecond
	httpClient = provider.NewRateLimitedHTTPClient(httpCfg, appLog)

	stats := provider.NewCachedProvider(
		provider.NewHTTPProvider(cfg.Provider.BaseURL, httpClient, appLog),
		cfg.Provider.CacheTTL(),
		appLog,
	)

	aggregator := aggregate.NewAggregator(stats, aggregate.Config{
		FetchTimeout:         cfg.Provider.FetchTimeout(),
		MaxConcurrentFetches: cfg.Provider.MaxConcurrentFetches,
	}, appLog)

	composer := prompt.NewComposer(
		newSummarizer(cfg.LLM.SummaryModel),
		appLog,
		prompt.WithTemperature(cfg.LLM.Temperature),
		prompt.WithMaxSummaryTokens(cfg.LLM.MaxSummaryTokens),
	)

	records := seasonfile.NewLoader(cfg.SeasonData.DataDir, cfg.SeasonData.CacheTTL(), appLog)

	analyst = bettor.New(
		aggregator,
		composer,
		newSummarizer(cfg.LLM.AnalystModel),
		appLog,
		bettor.WithAnalystTemperature(cfg.LLM.Temperature),
		bettor.WithSeasonRecords(records),
	)
}

// newSummarizer builds a client for the configured hosted service. The
// provider value is validated at config load, so anything else is a bug.
func newSummarizer(model string) llm.Summarizer {
	switch cfg.LLM.Provider {
	case "groq":
		return llm.NewGroqClient(cfg.LLM.APIKey, model, appLog)
	default:
		return llm.NewGeminiClient(cfg.LLM.APIKey, model, appLog)
	}
}

func fixtureRequest() *models.FixtureRequest {
	if league == "" {
		league = cfg.Analysis.League
	}
	if limit == 0 {
		limit = cfg.Analysis.HistoryLimit
	}
	return &models.FixtureRequest{
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		Date:     matchDate,
		Season:   season,
		League:   league,
		Limit:    limit,
	}
}

func runServe(ctx context.Context) error {
	downloader := seasonfile.NewDownloader(
		cfg.SeasonData.IndexURL,
		cfg.SeasonData.LeaguePrefix,
		cfg.SeasonData.DataDir,
		httpClient,
		appLog,
	)
	loader := seasonfile.NewLoader(cfg.SeasonData.DataDir, cfg.SeasonData.CacheTTL(), appLog)

	healthServer := health.NewServer(health.Config{
		ServiceName: "pitch-prophet",
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		Checks: map[string]health.Check{
			"season_data": func(ctx context.Context) error {
				info, err := os.Stat(cfg.SeasonData.DataDir)
				if err != nil {
					return err
				}
				if !info.IsDir() {
					return fmt.Errorf("%s is not a directory", cfg.SeasonData.DataDir)
				}
				return nil
			},
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	defer healthServer.Shutdown()

	refresher := scheduler.NewRefresher(downloader, loader, cfg.SeasonData.DownloadLimit, appLog)
	if cfg.SeasonData.RefreshCron != "" {
		if err := refresher.Schedule(cfg.SeasonData.RefreshCron); err != nil {
			return fmt.Errorf("invalid refresh schedule: %w", err)
		}
		if err := refresher.Start(); err != nil {
			return fmt.Errorf("failed to start refresher: %w", err)
		}
		defer refresher.Stop()
	} else {
		appLog.Info("No refresh schedule configured; season files will not auto-refresh")
	}
	healthServer.SetReady(true)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer = &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			appLog.WithField("address", cfg.Metrics.Address).Info("Metrics endpoint listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case <-ctx.Done():
		appLog.Info("Context cancelled, shutting down")
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown failed")
		}
	}

	appLog.Info("Pitch Prophet shut down")
	return nil
}

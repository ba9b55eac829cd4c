package command

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"bookden/internal/client"
	"bookden/internal/collection"
	"bookden/internal/config"
	"bookden/internal/logger"
	"bookden/internal/store"
)

var apiURL string // overrides BOOKDEN_API_URL when set

var rootCmd = &cobra.Command{
	Use:   "bookden",
	Short: "bookden - personal reading tracker",
	Long: `bookden keeps your book collection in sync with its backend: catalog
books, group them into sagas, and move each book through its reading
lifecycle (pending, reading, finished).

Use "bookden [command] --help" to see the available commands.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "backend API URL (default from BOOKDEN_API_URL)")
}

// newSession loads config, builds the HTTP client and an empty store, and
// performs the initial collection load. Each CLI invocation is one session.
func newSession(ctx context.Context) (*collection.Controller, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.For(ctx).WithError(err).Warn("metrics endpoint stopped")
			}
		}()
	}

	base := cfg.APIURL
	if apiURL != "" {
		base = apiURL
	}
	httpClient := client.NewHTTPClient(base,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithSearchRate(cfg.SearchRate, cfg.SearchBurst),
	)

	ctrl := collection.New(httpClient, httpClient, httpClient, httpClient, store.New())
	if err := ctrl.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("could not load your collection: %w", err)
	}
	return ctrl, nil
}

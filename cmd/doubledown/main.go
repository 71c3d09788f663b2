package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "doubledown",
	Short: "Replay daily prices through a double-on-loss betting strategy",
	Long: `DoubleDown fetches daily OHLCV data for a stock code and date range, replays it
step by step while doubling the bet after every losing day, and charts the
total asset over time.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		levelStr, err := cmd.Flags().GetString("log-level")
		if err != nil {
			log.Fatalf("error getting log-level: %v", err)
		}
		level, err := log.ParseLevel(levelStr)
		if err != nil {
			log.Fatalf("error parsing log-level: %v", err)
		}
		log.SetLevel(level)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error.")

	rootCmd.AddCommand(serveCmd, runCmd, fetchCmd, stateCmd)
	cobra.CheckErr(rootCmd.Execute())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newFetcher picks the data source. A non-empty url always selects the remote
// stock data endpoint.
func newFetcher(cfg *config.Config, url string) collector.Fetcher {
	var fetcher collector.Fetcher
	switch {
	case url != "":
		fetcher = collector.NewStockDataClient(url, cfg.Proxy, cfg.Timeout())
	case cfg.DataSource.Provider == "remote":
		fetcher = collector.NewStockDataClient(cfg.DataSource.BaseURL, cfg.Proxy, cfg.Timeout())
	case cfg.DataSource.Provider == "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	default:
		fetcher = collector.NewCSVFetcher(cfg.DataSource.CSVDir)
	}
	log.Infof("data source: %s", fetcher.Name())
	return fetcher
}

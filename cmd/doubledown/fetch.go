package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/config"
	"DoubleDown/internal/export"
	"DoubleDown/internal/table"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch daily bars and print them as a table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		fetchArgs, err := readFetchArgs(cmd)
		if err != nil {
			log.Fatal(err)
		}
		if err := runFetch(cmd.Context(), cfg, fetchArgs, os.Stdout); err != nil {
			log.Fatalf("fetch: %v", err)
		}
	},
}

// FetchArgs selects the series to load.
type FetchArgs struct {
	Request collector.Request
	URL     string
	Out     string
}

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Stock code, e.g. sh.600000. This flag is required.")
	cmd.Flags().StringP("start", "s", "", "Start date (YYYY-MM-DD). Defaults to the end date.")
	cmd.Flags().StringP("end", "e", "", "End date (YYYY-MM-DD). Defaults to today after 17:30, otherwise yesterday.")
	cmd.Flags().String("url", "", "Base URL of a stock data endpoint, overriding the configured provider.")
	cmd.MarkFlagRequired("code")
}

func readFetchArgs(cmd *cobra.Command) (FetchArgs, error) {
	var a FetchArgs
	var err error
	if a.Request.Code, err = cmd.Flags().GetString("code"); err != nil {
		return a, fmt.Errorf("error getting code: %w", err)
	}
	if a.Request.StartDate, err = cmd.Flags().GetString("start"); err != nil {
		return a, fmt.Errorf("error getting start: %w", err)
	}
	if a.Request.EndDate, err = cmd.Flags().GetString("end"); err != nil {
		return a, fmt.Errorf("error getting end: %w", err)
	}
	if a.URL, err = cmd.Flags().GetString("url"); err != nil {
		return a, fmt.Errorf("error getting url: %w", err)
	}
	if cmd.Flags().Lookup("out") != nil {
		if a.Out, err = cmd.Flags().GetString("out"); err != nil {
			return a, fmt.Errorf("error getting out: %w", err)
		}
	}
	a.Request.StartDate, a.Request.EndDate = collector.ResolveDates(a.Request.StartDate, a.Request.EndDate, time.Now())
	return a, nil
}

func runFetch(ctx context.Context, cfg *config.Config, a FetchArgs, out io.Writer) error {
	col := collector.NewCollector(newFetcher(cfg, a.URL), 0)
	bars, err := col.Fetch(ctx, a.Request)
	if err != nil {
		return err
	}
	table.Render(out, bars)

	if a.Out != "" {
		if err := export.ToFile(a.Out, func(w io.Writer) error { return export.WriteBars(w, bars) }); err != nil {
			return fmt.Errorf("export bars: %w", err)
		}
		log.Infof("%d bars written to %s", len(bars), a.Out)
	}
	return nil
}

func init() {
	addFetchFlags(fetchCmd)
	fetchCmd.Flags().StringP("out", "o", "", "Also write the bars to this CSV file.")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"DoubleDown/internal/chart"
	"DoubleDown/internal/collector"
	"DoubleDown/internal/config"
	"DoubleDown/internal/export"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
	"DoubleDown/internal/notifier"
	"DoubleDown/internal/recorder"
	"DoubleDown/internal/replay"
	"DoubleDown/internal/table"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a series through the doubling strategy in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		runArgs, err := readRunArgs(cmd, cfg)
		if err != nil {
			log.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err := runReplay(ctx, cfg, runArgs, os.Stdout); err != nil {
			log.Fatalf("run: %v", err)
		}
	},
}

// RunArgs configures one terminal replay.
type RunArgs struct {
	FetchArgs
	Params    model.Params
	Verbose   bool
	ShowTable bool
	Record    bool
	StepsCSV  string
	PointsCSV string
	StateOut  string
}

func readRunArgs(cmd *cobra.Command, cfg *config.Config) (RunArgs, error) {
	fetchArgs, err := readFetchArgs(cmd)
	if err != nil {
		return RunArgs{}, err
	}
	a := RunArgs{FetchArgs: fetchArgs, Params: cfg.Params()}
	flags := cmd.Flags()

	if flags.Changed("funds") {
		if a.Params.TotalFunds, err = flags.GetFloat64("funds"); err != nil {
			return a, fmt.Errorf("error getting funds: %w", err)
		}
	}
	if flags.Changed("count") {
		if a.Params.InitialStockCount, err = flags.GetInt("count"); err != nil {
			return a, fmt.Errorf("error getting count: %w", err)
		}
	}
	if flags.Changed("strategy") {
		s, err := flags.GetString("strategy")
		if err != nil {
			return a, fmt.Errorf("error getting strategy: %w", err)
		}
		a.Params.Strategy = model.ParsePriceField(s)
	}
	if flags.Changed("interval") {
		if a.Params.Interval, err = flags.GetDuration("interval"); err != nil {
			return a, fmt.Errorf("error getting interval: %w", err)
		}
	}
	if a.Verbose, err = flags.GetBool("verbose"); err != nil {
		return a, fmt.Errorf("error getting verbose: %w", err)
	}
	if a.ShowTable, err = flags.GetBool("table"); err != nil {
		return a, fmt.Errorf("error getting table: %w", err)
	}
	if a.Record, err = flags.GetBool("record"); err != nil {
		return a, fmt.Errorf("error getting record: %w", err)
	}
	if a.StepsCSV, err = flags.GetString("steps-csv"); err != nil {
		return a, fmt.Errorf("error getting steps-csv: %w", err)
	}
	if a.PointsCSV, err = flags.GetString("points-csv"); err != nil {
		return a, fmt.Errorf("error getting points-csv: %w", err)
	}
	if a.StateOut, err = flags.GetString("state-out"); err != nil {
		return a, fmt.Errorf("error getting state-out: %w", err)
	}
	return a, nil
}

// runReplay fetches the series, replays it at the configured cadence and
// writes the requested outputs.
func runReplay(ctx context.Context, cfg *config.Config, a RunArgs, out io.Writer) (*model.Result, error) {
	renderers := chart.Multi{chart.NewTerminal(out, a.Verbose)}
	if a.Record {
		rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open recorder: %w", err)
		}
		defer rec.Close()
		renderers = append(renderers, recorder.NewChartRecorder(rec, recorder.RunRecord{
			Code:              a.Request.Code,
			StartDate:         a.Request.StartDate,
			EndDate:           a.Request.EndDate,
			Strategy:          a.Params.Strategy,
			TotalFunds:        a.Params.TotalFunds,
			InitialStockCount: a.Params.InitialStockCount,
		}))
	}

	n := notifier.NewLogNotifier()
	player := replay.NewPlayer(renderers)
	player.OnFinish(func(res *model.Result) { n.Notify(notifier.Finished(res)) })

	var view replay.DataView
	if a.ShowTable {
		view = table.Writer{Out: out}
	}
	session := replay.NewSession(collector.NewCollector(newFetcher(cfg, a.URL), 0), player, n, view)

	if err := session.Start(ctx, a.Request, a.Params); err != nil {
		return nil, err
	}
	switch session.Status() {
	case model.StatusReady, model.StatusFetchFailed:
		return nil, errors.New("no data loaded")
	}

	res, err := player.Wait(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, notifier.FormatSummary(res))

	if a.StepsCSV != "" {
		steps := player.Steps()
		if err := export.ToFile(a.StepsCSV, func(w io.Writer) error { return export.WriteSteps(w, steps) }); err != nil {
			return res, fmt.Errorf("export steps: %w", err)
		}
	}
	if a.PointsCSV != "" {
		points := player.Points()
		if err := export.ToFile(a.PointsCSV, func(w io.Writer) error { return export.WritePoints(w, points) }); err != nil {
			return res, fmt.Errorf("export points: %w", err)
		}
	}
	if a.StateOut != "" {
		snap := &fund.Snapshot{
			Code:   a.Request.Code,
			Start:  a.Request.StartDate,
			End:    a.Request.EndDate,
			State:  player.State(),
			Result: res,
		}
		if err := fund.SaveSnapshot(a.StateOut, snap); err != nil {
			return res, fmt.Errorf("save state: %w", err)
		}
	}
	return res, nil
}

func init() {
	addFetchFlags(runCmd)
	runCmd.Flags().Float64("funds", 0, "Total funds, overriding simulation.total_funds.")
	runCmd.Flags().Int("count", 0, "Initial share count, overriding simulation.initial_stock_count.")
	runCmd.Flags().String("strategy", "", "Price field: open, high, low, close or avg.")
	runCmd.Flags().Duration("interval", 0, "Step cadence, e.g. 100ms.")
	runCmd.Flags().BoolP("verbose", "v", false, "Print every step.")
	runCmd.Flags().Bool("table", false, "Print the fetched bars before replaying.")
	runCmd.Flags().Bool("record", false, "Save the run to the SQLite database.")
	runCmd.Flags().String("steps-csv", "", "Write every step to this CSV file.")
	runCmd.Flags().String("points-csv", "", "Write the equity curve to this CSV file.")
	runCmd.Flags().String("state-out", "", "Write the final simulation state to this JSON file.")
}

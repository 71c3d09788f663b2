package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"DoubleDown/internal/chart"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/notifier"
)

var stateCmd = &cobra.Command{
	Use:   "state <file>",
	Short: "Show a replay snapshot saved with run --state-out",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := fund.LoadSnapshot(args[0])
		if err != nil {
			log.Fatalf("load state: %v", err)
		}
		printSnapshot(os.Stdout, snap)
	},
}

func printSnapshot(out io.Writer, snap *fund.Snapshot) {
	s := snap.State
	p := message.NewPrinter(language.English)
	fmt.Fprintf(out, "%s %s..%s saved %s\n", snap.Code, snap.Start, snap.End, snap.SavedAt.Format("2006-01-02 15:04:05"))
	t := tablewriter.NewWriter(out)
	t.SetHeader([]string{"Field", "Value"})
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.AppendBulk([][]string{
		{"Strategy", string(s.Strategy)},
		{"Total funds", p.Sprintf("%.2f", s.TotalFunds)},
		{"Opening cost", p.Sprintf("%.2f", s.InitialFundsCalc)},
		{"Remaining funds", p.Sprintf("%.2f", s.RemainingFunds)},
		{"Held stocks", p.Sprintf("%d", s.HeldStocks)},
		{"Initial count", p.Sprintf("%d", s.InitialStockCount)},
		{"Next bet", p.Sprintf("%d", s.CurrentStockCount)},
		{"Steps", p.Sprintf("%d", len(s.History))},
	})
	t.Render()

	if len(s.History) > 0 {
		fmt.Fprintln(out, chart.Sparkline(s.History, 60))
	}
	if snap.Result != nil {
		fmt.Fprintln(out, notifier.FormatResult(snap.Result))
	}
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jmlandry/tracker"
	"github.com/jmlandry/tracker/render"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "whole-portfolio summary report" }
func (*summaryCmd) Usage() string {
	return `stt summary [-d <date>]

  Rolls realized gains, unrealized gains and dividends into a per-instrument
  and portfolio-level summary as of the given date. Instruments with missing
  market data are reported as warnings; their recorded figures still count.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", tracker.Today().String(), "Report date")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	ledger, gains, records, err := replay(cfg, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying history: %v\n", err)
		return subcommands.ExitFailure
	}
	rates, err := st.Rates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	events, err := st.Dividends()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	dividends, errs := tracker.NewDividends(cfg.Currency, rates.Rate).ReceivedAll(ledger, events)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	prices, err := st.Prices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	summary := tracker.NewAggregator(ledger, gains, prices.Price).Summarize(on, records, dividends)
	printMarkdown(render.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}

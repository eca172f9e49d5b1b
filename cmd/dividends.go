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

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct{}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "dividends received report" }
func (*dividendsCmd) Usage() string {
	return `stt dividends

  Reports the dividend earned for every recorded declaration, computed from
  the quantity held at each ex-date, in the reporting currency.
`
}

func (*dividendsCmd) SetFlags(*flag.FlagSet) {}

func (c *dividendsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	ledger, _, _, err := replay(cfg, st)
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

	records, errs := tracker.NewDividends(cfg.Currency, rates.Rate).ReceivedAll(ledger, events)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	printMarkdown(render.DividendsMarkdown(records, cfg.Currency))
	return subcommands.ExitSuccess
}

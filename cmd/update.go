package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jmlandry/tracker"
	"github.com/jmlandry/tracker/quote"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch the latest prices for every held instrument" }
func (*updateCmd) Usage() string {
	return `stt update

  Fetches the latest price of every instrument still held and records it
  under today's date. Instruments that cannot be resolved are reported and
  skipped.
`
}

func (*updateCmd) SetFlags(*flag.FlagSet) {}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	client := quote.New(cfg.Quote.BaseURL)
	today := tracker.Today()
	updated := 0
	for instrument := range ledger.Instruments() {
		if !ledger.Remaining(instrument).IsPositive() {
			continue
		}
		price, err := client.Latest(instrument)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning, skipping %v: %v\n", instrument, err)
			continue
		}
		if err := st.AddPrice(instrument, today, price); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording price for %v: %v\n", instrument, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s: %s\n", instrument, price)
		updated++
	}
	fmt.Printf("Updated %d prices for %s\n", updated, today)
	return subcommands.ExitSuccess
}

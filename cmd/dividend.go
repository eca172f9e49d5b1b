package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jmlandry/tracker"
)

// dividendCmd holds the flags for the 'dividend' subcommand.
type dividendCmd struct {
	exDate     string
	instrument string
	amount     string
	currency   string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a per-unit cash dividend declaration" }
func (*dividendCmd) Usage() string {
	return `stt dividend -d <ex-date> -i <TICKER.EXCHANGE> -amount <per-unit> -c <currency>

  Records a dividend declaration. The amount is per unit; what the portfolio
  actually earned is computed at report time from the quantity held at the
  ex-date.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exDate, "d", "", "Ex-date of the dividend")
	f.StringVar(&c.instrument, "i", "", "Instrument, TICKER.EXCHANGE notation")
	f.StringVar(&c.amount, "amount", "", "Dividend amount per unit")
	f.StringVar(&c.currency, "c", "", "Currency of the amount")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	exDate, err := tracker.ParseDate(c.exDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing ex-date: %v\n", err)
		return subcommands.ExitUsageError
	}
	instrument, err := tracker.ParseInstrument(c.instrument)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing instrument: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := tracker.ParseMoney(c.amount, c.currency)
	if err != nil || c.currency == "" {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q %q: %v\n", c.amount, c.currency, err)
		return subcommands.ExitUsageError
	}

	_, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	if err := st.AddDividend(tracker.DividendEvent{Instrument: instrument, ExDate: exDate, Amount: amount}); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording dividend: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded dividend of %s per unit of %s at ex-date %s\n", amount, instrument, exDate)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jmlandry/tracker"
)

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct {
	date  string
	base  string
	quote string
	rate  string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "record an exchange-rate observation" }
func (*rateCmd) Usage() string {
	return `stt rate -d <date> -base <currency> -quote <currency> -rate <value>

  Records that one unit of the base currency was worth <value> units of the
  quote currency on the given date. Reports resolve the inverse pair
  automatically.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", tracker.Today().String(), "Date of the observation")
	f.StringVar(&c.base, "base", "", "Base currency, e.g. USD")
	f.StringVar(&c.quote, "quote", "", "Quote currency, e.g. EUR")
	f.StringVar(&c.rate, "rate", "", "Units of quote currency per unit of base")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if len(c.base) != 3 || len(c.quote) != 3 {
		fmt.Fprintln(os.Stderr, "-base and -quote must be 3-letter currency codes")
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil || !rate.IsPositive() {
		fmt.Fprintf(os.Stderr, "Error parsing rate %q: %v\n", c.rate, err)
		return subcommands.ExitUsageError
	}

	_, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	if err := st.AddRate(on, c.base, c.quote, rate); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording rate: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s/%s = %s on %s\n", c.base, c.quote, rate, on)
	return subcommands.ExitSuccess
}

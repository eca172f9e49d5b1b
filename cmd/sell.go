package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jmlandry/tracker"
)

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	date       string
	instrument string
	quantity   string
	proceeds   string
	currency   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of a quantity of an instrument" }
func (*sellCmd) Usage() string {
	return `stt sell -d <date> -i <TICKER.EXCHANGE> -q <quantity> -amount <proceeds> -c <currency>

  Records a sale. Proceeds are the total received for the whole sale, in the
  instrument's quotation currency. The sale is validated against the
  replayed ledger before it is recorded: selling more than is held fails.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", tracker.Today().String(), "Date of the sale")
	f.StringVar(&c.instrument, "i", "", "Instrument sold, TICKER.EXCHANGE notation")
	f.StringVar(&c.quantity, "q", "", "Quantity sold")
	f.StringVar(&c.proceeds, "amount", "", "Total proceeds for the whole sale")
	f.StringVar(&c.currency, "c", "", "Currency of the proceeds")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	instrument, err := tracker.ParseInstrument(c.instrument)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing instrument: %v\n", err)
		return subcommands.ExitUsageError
	}
	quantity, err := tracker.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	proceeds, err := tracker.ParseMoney(c.proceeds, c.currency)
	if err != nil || c.currency == "" {
		fmt.Fprintf(os.Stderr, "Error parsing proceeds %q %q: %v\n", c.proceeds, c.currency, err)
		return subcommands.ExitUsageError
	}

	cfg, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	disposal := tracker.Disposal{Instrument: instrument, On: on, Quantity: quantity, Proceeds: proceeds}

	// Dry-run the disposal against the replayed history before recording it.
	rates, err := st.Rates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	events, err := st.Events()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	events.Disposals = append(events.Disposals, disposal)
	if _, _, err := tracker.Replay(events, tracker.NewGains(cfg.Currency, rates.Rate)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := st.AddDisposal(disposal); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording sale: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded sale of %s %s on %s\n", quantity, instrument, on)
	return subcommands.ExitSuccess
}

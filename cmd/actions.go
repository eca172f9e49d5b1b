package cmd

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/oklog/ulid/v2"

	"github.com/jmlandry/tracker"
)

// The corporate-action subcommands share the same shape: parse the action,
// dry-run the full replayed history with it appended, then append it to the
// action log.

func newActionID() string { return ulid.MustNew(ulid.Now(), rand.Reader).String() }

// record dry-runs and stores one corporate action.
func record(action tracker.CorporateAction) subcommands.ExitStatus {
	cfg, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

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
	events.Actions = append(events.Actions, action)
	if _, _, err := tracker.Replay(events, tracker.NewGains(cfg.Currency, rates.Rate)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := st.AddAction(action); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording action: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s action %s effective %s\n", action.What(), action.ID(), action.When())
	return subcommands.ExitSuccess
}

// splitCmd holds the flags for the 'split' subcommand.
type splitCmd struct {
	date       string
	instrument string
	num, den   int64
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "record a stock split" }
func (*splitCmd) Usage() string {
	return `stt split -d <date> -i <TICKER.EXCHANGE> -num <n> -den <d>

  Records an n-for-d stock split: quantities multiply by n/d, unit prices
  divide accordingly, total cost basis is unchanged.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Effective date of the split")
	f.StringVar(&c.instrument, "i", "", "Instrument, TICKER.EXCHANGE notation")
	f.Int64Var(&c.num, "num", 0, "Split ratio numerator")
	f.Int64Var(&c.den, "den", 1, "Split ratio denominator")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	return record(tracker.NewSplit(newActionID(), on, instrument, c.num, c.den))
}

// mergerCmd holds the flags for the 'merger' subcommand.
type mergerCmd struct {
	date     string
	from, to string
	num, den int64
	cash     string
	currency string
}

func (*mergerCmd) Name() string     { return "merger" }
func (*mergerCmd) Synopsis() string { return "record a merger or acquisition" }
func (*mergerCmd) Usage() string {
	return `stt merger -d <date> -from <TICKER.EXCHANGE> -to <TICKER.EXCHANGE> -num <n> -den <d> [-cash <amount> -c <currency>]

  Records a merger: every held lot of the acquired instrument converts into
  the acquirer at the n/d exchange ratio. An optional cash component is the
  total received for the position; it reduces the carried basis and any
  excess over basis is realized immediately.
`
}

func (c *mergerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Effective date of the merger")
	f.StringVar(&c.from, "from", "", "Acquired instrument, TICKER.EXCHANGE notation")
	f.StringVar(&c.to, "to", "", "Acquiring instrument, TICKER.EXCHANGE notation")
	f.Int64Var(&c.num, "num", 0, "Exchange ratio numerator")
	f.Int64Var(&c.den, "den", 1, "Exchange ratio denominator")
	f.StringVar(&c.cash, "cash", "0", "Total cash component for the position")
	f.StringVar(&c.currency, "c", "", "Currency of the cash component")
}

func (c *mergerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	from, err := tracker.ParseInstrument(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := tracker.ParseInstrument(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	cash, err := tracker.ParseMoney(c.cash, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing cash: %v\n", err)
		return subcommands.ExitUsageError
	}
	return record(tracker.NewMerger(newActionID(), on, from, to, c.num, c.den, cash))
}

// delistCmd holds the flags for the 'delist' subcommand.
type delistCmd struct {
	date       string
	instrument string
	settlement string
	currency   string
}

func (*delistCmd) Name() string     { return "delist" }
func (*delistCmd) Synopsis() string { return "record a de-listing with cash settlement" }
func (*delistCmd) Usage() string {
	return `stt delist -d <date> -i <TICKER.EXCHANGE> -amount <per-unit> -c <currency>

  Records a de-listing: the whole remaining position is disposed at the
  per-unit settlement price, realizing the gain or loss.
`
}

func (c *delistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Effective date of the de-listing")
	f.StringVar(&c.instrument, "i", "", "Instrument, TICKER.EXCHANGE notation")
	f.StringVar(&c.settlement, "amount", "0", "Settlement price per unit")
	f.StringVar(&c.currency, "c", "", "Currency of the settlement")
}

func (c *delistCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	settlement, err := tracker.ParseMoney(c.settlement, c.currency)
	if err != nil || c.currency == "" {
		fmt.Fprintf(os.Stderr, "Error parsing settlement %q %q: %v\n", c.settlement, c.currency, err)
		return subcommands.ExitUsageError
	}
	return record(tracker.NewDelisting(newActionID(), on, instrument, settlement))
}

// remapCmd holds the flags for the 'remap' subcommand.
type remapCmd struct {
	date     string
	from, to string
	num, den int64
}

func (*remapCmd) Name() string     { return "remap" }
func (*remapCmd) Synopsis() string { return "record a cross-exchange remapping" }
func (*remapCmd) Usage() string {
	return `stt remap -d <date> -from <TICKER.EXCHANGE> -to <TICKER.EXCHANGE> [-num <n> -den <d>]

  Relabels every held lot to another quotation venue, rescaling quantity and
  price by n/d. The economic position is unchanged: no taxable event.
`
}

func (c *remapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Effective date of the remap")
	f.StringVar(&c.from, "from", "", "Current instrument, TICKER.EXCHANGE notation")
	f.StringVar(&c.to, "to", "", "New instrument, TICKER.EXCHANGE notation")
	f.Int64Var(&c.num, "num", 1, "Quantity ratio numerator")
	f.Int64Var(&c.den, "den", 1, "Quantity ratio denominator")
}

func (c *remapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tracker.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	from, err := tracker.ParseInstrument(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := tracker.ParseInstrument(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	return record(tracker.NewRemap(newActionID(), on, from, to, c.num, c.den))
}

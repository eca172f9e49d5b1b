// Package cmd implements the CLI application to manage a portfolio.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/jmlandry/tracker"
	"github.com/jmlandry/tracker/config"
	"github.com/jmlandry/tracker/store"
)

// Register the subcommands.
// A main package calls Register() to declare them, and Execute() on the
// user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "recording")
	c.Register(&sellCmd{}, "recording")
	c.Register(&dividendCmd{}, "recording")

	c.Register(&splitCmd{}, "corporate actions")
	c.Register(&mergerCmd{}, "corporate actions")
	c.Register(&delistCmd{}, "corporate actions")
	c.Register(&remapCmd{}, "corporate actions")

	c.Register(&updateCmd{}, "market data")
	c.Register(&rateCmd{}, "market data")

	c.Register(&gainsCmd{}, "reports")
	c.Register(&dividendsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
}

// As a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.
var configFile = flag.String("config", "tracker.yaml", "Path to the configuration file")

// openStore loads the configuration and opens the database it points to.
func openStore() (*config.Config, *store.Store, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open database %q: %w", cfg.DBPath, err)
	}
	return cfg, st, nil
}

// replay rebuilds the ledger and the realized gain records from the full
// recorded history.
func replay(cfg *config.Config, st *store.Store) (*tracker.Ledger, *tracker.Gains, []tracker.GainRecord, error) {
	rates, err := st.Rates()
	if err != nil {
		return nil, nil, nil, err
	}
	events, err := st.Events()
	if err != nil {
		return nil, nil, nil, err
	}
	gains := tracker.NewGains(cfg.Currency, rates.Rate)
	ledger, records, err := tracker.Replay(events, gains)
	if err != nil {
		return nil, nil, nil, err
	}
	return ledger, gains, records, nil
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err == nil {
		if out, rerr := r.Render(md); rerr == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

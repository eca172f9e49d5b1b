package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jmlandry/tracker/render"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct{}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gains report" }
func (*gainsCmd) Usage() string {
	return `stt gains

  Replays the recorded history and reports every realized gain: sales,
  de-listings and merger cash components, in the reporting currency.
`
}

func (*gainsCmd) SetFlags(*flag.FlagSet) {}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	_, _, records, err := replay(cfg, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying history: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(render.GainsMarkdown(records, cfg.Currency))
	return subcommands.ExitSuccess
}

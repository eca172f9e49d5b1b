package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/jmlandry/tracker/cmd"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion wires shell completion. It exits the process when called by the
// shell completion machinery and is a no-op otherwise.
func completion() {
	none := predict.Nothing
	cmd := &complete.Command{
		Flags: map[string]complete.Predictor{"config": predict.Files("*.yaml")},
		Sub: map[string]*complete.Command{
			"import":    {Flags: map[string]complete.Predictor{"file": predict.Files("*.csv")}},
			"sell":      {Flags: map[string]complete.Predictor{"d": none, "i": none, "q": none, "amount": none, "c": none}},
			"dividend":  {Flags: map[string]complete.Predictor{"d": none, "i": none, "amount": none, "c": none}},
			"split":     {Flags: map[string]complete.Predictor{"d": none, "i": none, "num": none, "den": none}},
			"merger":    {Flags: map[string]complete.Predictor{"d": none, "from": none, "to": none, "num": none, "den": none, "cash": none, "c": none}},
			"delist":    {Flags: map[string]complete.Predictor{"d": none, "i": none, "amount": none, "c": none}},
			"remap":     {Flags: map[string]complete.Predictor{"d": none, "from": none, "to": none, "num": none, "den": none}},
			"update":    {},
			"rate":      {Flags: map[string]complete.Predictor{"d": none, "base": none, "quote": none, "rate": none}},
			"gains":     {},
			"dividends": {},
			"summary":   {Flags: map[string]complete.Predictor{"d": none}},
		},
	}
	cmd.Complete("stt")
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jmlandry/tracker"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import purchase orders from a CSV file" }
func (*importCmd) Usage() string {
	return `stt import -file <orders.csv>

  Imports purchase orders into the database. The file must start with the
  header "date,ticker,exchange,quantity,price,fee,currency". Malformed rows
  are reported and skipped; valid rows are imported.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "CSV file containing purchase orders")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	orders, err := tracker.ImportOrders(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning, some rows were skipped:\n%v\n", err)
	}
	if len(orders) == 0 {
		fmt.Fprintln(os.Stderr, "No valid orders found.")
		return subcommands.ExitFailure
	}

	_, st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	for _, order := range orders {
		if err := st.AddOrder(order); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording order %s %v: %v\n", order.On, order.Instrument, err)
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Imported %d orders from %s\n", len(orders), c.file)
	return subcommands.ExitSuccess
}

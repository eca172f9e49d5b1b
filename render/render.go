// Package render formats engine output as markdown reports.
package render

import (
	"fmt"
	"strings"

	"github.com/jmlandry/tracker"
)

// SummaryMarkdown renders the portfolio summary as a markdown report.
func SummaryMarkdown(s *tracker.PortfolioSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Summary on %s (%s)\n\n", s.On, s.Currency)

	fmt.Fprintln(&b, "| Instrument | Quantity | Cost Basis | Market Value | Realized | Unrealized | Dividends | Total Return | Return % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, i := range s.Instruments {
		if i.Quantity.IsZero() && i.Realized.IsZero() && i.Dividends.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			i.Instrument,
			i.Quantity,
			i.CostBasis,
			i.MarketValue,
			i.Realized.SignedString(),
			i.Unrealized.SignedString(),
			i.Dividends.SignedString(),
			i.TotalReturn.SignedString(),
			i.TotalReturnPercent.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | |\n",
		"Total",
		s.CostBasis,
		s.MarketValue,
		s.Realized.SignedString(),
		s.Unrealized.SignedString(),
		s.Dividends.SignedString(),
		s.TotalReturn.SignedString(),
	)

	if len(s.Errors) > 0 {
		fmt.Fprint(&b, "\n## Warnings\n\n")
		for _, err := range s.Errors {
			fmt.Fprintf(&b, "- %v\n", err)
		}
	}
	return b.String()
}

// GainsMarkdown renders realized gain records as a markdown report.
func GainsMarkdown(records []tracker.GainRecord, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Realized Gains (%s)\n\n", currency)
	fmt.Fprintln(&b, "| Date | Instrument | Event | Quantity | Proceeds | Cost Basis | Fees | Gain |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|")

	total := tracker.M(0, currency)
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.On,
			r.Instrument,
			r.Kind,
			r.Quantity,
			r.Proceeds,
			r.CostBasis,
			r.Fees,
			r.Gain.SignedString(),
		)
		total = total.Add(r.Gain)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | **%s** |\n", total.SignedString())
	return b.String()
}

// DividendsMarkdown renders dividend records as a markdown report.
func DividendsMarkdown(records []tracker.DividendRecord, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dividends (%s)\n\n", currency)
	fmt.Fprintln(&b, "| Ex-Date | Instrument | Eligible Quantity | Amount |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")

	total := tracker.M(0, currency)
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.ExDate, r.Instrument, r.Quantity, r.Amount)
		total = total.Add(r.Amount)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", total)
	return b.String()
}

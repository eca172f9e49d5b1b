package tracker

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

// InstrumentSummary rolls one instrument's records into totals, in the
// reporting currency.
type InstrumentSummary struct {
	Instrument         Instrument
	Quantity           Quantity // quantity still held
	CostBasis          Money    // cost of the still-held quantity
	MarketValue        Money
	Realized           Money
	Unrealized         Money
	Dividends          Money
	TotalReturn        Money   // Realized + Unrealized + Dividends
	CapitalGainPercent Percent // relative to the total cost paid, consumed lots included
	TotalReturnPercent Percent
}

// PortfolioSummary is the portfolio-level roll-up: per-instrument summaries
// plus their totals. It is fully derived from the gain and dividend records
// and the ledger state, with no hidden state: recomputing it with the same
// inputs yields the same summary.
//
// Errors collects the instruments whose computation failed (for example a
// missing price); their realized and dividend figures still contribute, so
// one bad feed does not abort the whole portfolio.
type PortfolioSummary struct {
	On          Date
	Currency    string
	Instruments []InstrumentSummary
	CostBasis   Money
	MarketValue Money
	Realized    Money
	Unrealized  Money
	Dividends   Money
	TotalReturn Money
	Errors      []error
}

// Err joins the per-instrument errors, or returns nil if all instruments
// computed cleanly.
func (s *PortfolioSummary) Err() error { return errors.Join(s.Errors...) }

// Aggregator computes portfolio summaries. Independent instruments are
// computed concurrently (each instrument's lots are read by exactly one
// worker, and the price feed is read-only) while the final reduction is
// single-threaded and deterministic.
type Aggregator struct {
	ledger *Ledger
	gains  *Gains
	prices PriceFunc
}

// NewAggregator creates an aggregator over a ledger whose mutations (orders,
// disposals, corporate actions) are already fully applied.
func NewAggregator(ledger *Ledger, gains *Gains, prices PriceFunc) *Aggregator {
	return &Aggregator{ledger: ledger, gains: gains, prices: prices}
}

// Summarize rolls the given gain and dividend records, plus the
// mark-to-market state of the ledger as of 'on', into a portfolio summary.
func (a *Aggregator) Summarize(on Date, gains []GainRecord, dividends []DividendRecord) *PortfolioSummary {
	currency := a.gains.Currency()

	realized := make(map[Instrument]Money)
	consumed := make(map[Instrument]Money)
	for _, r := range gains {
		realized[r.Instrument] = realized[r.Instrument].Add(r.Gain)
		consumed[r.Instrument] = consumed[r.Instrument].Add(r.CostBasis).Add(r.Fees)
	}
	received := make(map[Instrument]Money)
	for _, r := range dividends {
		received[r.Instrument] = received[r.Instrument].Add(r.Amount)
	}

	instruments := a.universe(realized, received)

	summaries := make([]InstrumentSummary, len(instruments))
	failures := make([]error, len(instruments))
	var wg sync.WaitGroup
	for i, instrument := range instruments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summaries[i], failures[i] = a.summarize(instrument, on, realized[instrument], received[instrument], consumed[instrument])
		}()
	}
	wg.Wait()

	// Single-threaded reduction.
	summary := &PortfolioSummary{
		On:          on,
		Currency:    currency,
		CostBasis:   M(0, currency),
		MarketValue: M(0, currency),
		Realized:    M(0, currency),
		Unrealized:  M(0, currency),
		Dividends:   M(0, currency),
		TotalReturn: M(0, currency),
	}
	for i := range summaries {
		if failures[i] != nil {
			summary.Errors = append(summary.Errors, failures[i])
		}
		s := summaries[i]
		summary.Instruments = append(summary.Instruments, s)
		summary.CostBasis = summary.CostBasis.Add(s.CostBasis)
		summary.MarketValue = summary.MarketValue.Add(s.MarketValue)
		summary.Realized = summary.Realized.Add(s.Realized)
		summary.Unrealized = summary.Unrealized.Add(s.Unrealized)
		summary.Dividends = summary.Dividends.Add(s.Dividends)
		summary.TotalReturn = summary.TotalReturn.Add(s.TotalReturn)
	}
	return summary
}

// summarize computes one instrument's summary. On a missing price the
// realized and dividend figures are kept and the error is reported.
func (a *Aggregator) summarize(instrument Instrument, on Date, realized, dividends, consumed Money) (InstrumentSummary, error) {
	currency := a.gains.Currency()
	zero := M(0, currency)
	s := InstrumentSummary{
		Instrument:  instrument,
		Quantity:    a.ledger.Remaining(instrument),
		CostBasis:   zero,
		MarketValue: zero,
		Realized:    zero.Add(realized),
		Unrealized:  zero,
		Dividends:   zero.Add(dividends),
	}

	var err error
	if s.Quantity.IsPositive() {
		s.Unrealized, err = a.gains.Unrealized(a.ledger, instrument, on, a.prices)
		if err != nil {
			err = &InstrumentError{Instrument: instrument, Err: err}
			s.Unrealized = zero
		} else {
			basis, value := make(subtotals), make(subtotals)
			price, _ := a.prices(instrument, on)
			for lot := range a.ledger.LotsFor(instrument, on) {
				basis.add(lot.CostBasis())
				value.add(price.Mul(lot.Remaining))
			}
			if s.CostBasis, err = basis.converted(currency, on, a.gains.rates); err == nil {
				s.MarketValue, err = value.converted(currency, on, a.gains.rates)
			}
			if err != nil {
				err = &InstrumentError{Instrument: instrument, Err: err}
			}
		}
	}

	s.TotalReturn = s.Realized.Add(s.Unrealized).Add(s.Dividends)
	capitalGain := s.Realized.Add(s.Unrealized)
	// Percentages are relative to the total cost paid: the cost of what is
	// still held plus the cost consumed by past disposals, so a fully sold
	// position keeps a meaningful figure.
	costPaid := s.CostBasis.Add(consumed)
	s.CapitalGainPercent = percentOf(capitalGain, costPaid)
	s.TotalReturnPercent = percentOf(s.TotalReturn, costPaid)
	return s, err
}

// universe returns every instrument that has lots or records, sorted.
func (a *Aggregator) universe(realized, received map[Instrument]Money) []Instrument {
	seen := make(map[Instrument]struct{})
	var instruments []Instrument
	add := func(instrument Instrument) {
		if _, ok := seen[instrument]; !ok {
			seen[instrument] = struct{}{}
			instruments = append(instruments, instrument)
		}
	}
	for instrument := range a.ledger.Instruments() {
		add(instrument)
	}
	for instrument := range realized {
		add(instrument)
	}
	for instrument := range received {
		add(instrument)
	}
	slices.SortFunc(instruments, func(x, y Instrument) int {
		if c := strings.Compare(x.Ticker, y.Ticker); c != 0 {
			return c
		}
		return strings.Compare(x.Exchange, y.Exchange)
	})
	return instruments
}

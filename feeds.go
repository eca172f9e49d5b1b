package tracker

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// The engines never perform I/O: prices, exchange rates and event feeds are
// resolved up front by collaborators and handed over as immutable snapshots
// behind these two function types.

// PriceFunc resolves the price of one unit of an instrument on a date.
type PriceFunc func(instrument Instrument, on Date) (Money, error)

// RateFunc resolves the exchange rate from one currency to another on a
// date: one unit of 'from' is worth 'rate' units of 'to'.
type RateFunc func(on Date, from, to string) (decimal.Decimal, error)

// datedValue is one observation in a feed history.
type datedValue struct {
	on    Date
	value decimal.Decimal
}

// asOf returns the last observation on or before the given date.
func asOf(history []datedValue, on Date) (decimal.Decimal, bool) {
	// history is sorted by date; scan backwards for the last known value.
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].on.After(on) {
			return history[i].value, true
		}
	}
	return decimal.Decimal{}, false
}

func insertDated(history []datedValue, on Date, value decimal.Decimal) []datedValue {
	i, found := slices.BinarySearchFunc(history, on, func(v datedValue, d Date) int {
		return v.on.Compare(d)
	})
	if found {
		history[i].value = value
		return history
	}
	return slices.Insert(history, i, datedValue{on: on, value: value})
}

// PriceTable is an immutable-once-built price snapshot: per-instrument daily
// closing prices, answered with last-known-on-or-before semantics.
type PriceTable struct {
	prices     map[Instrument][]datedValue
	currencies map[Instrument]string
}

// NewPriceTable creates an empty price table.
func NewPriceTable() *PriceTable {
	return &PriceTable{
		prices:     make(map[Instrument][]datedValue),
		currencies: make(map[Instrument]string),
	}
}

// Add records the price of an instrument on a date.
func (t *PriceTable) Add(instrument Instrument, on Date, price Money) {
	t.prices[instrument] = insertDated(t.prices[instrument], on, price.value)
	t.currencies[instrument] = price.cur
}

// Price resolves the last known price of an instrument on or before a date.
// It satisfies PriceFunc.
func (t *PriceTable) Price(instrument Instrument, on Date) (Money, error) {
	value, ok := asOf(t.prices[instrument], on)
	if !ok {
		return Money{}, &MissingPriceError{Instrument: instrument, On: on}
	}
	return Money{value: value, cur: t.currencies[instrument]}, nil
}

// RateTable is an immutable-once-built exchange-rate snapshot keyed by
// currency pair. When a direct pair is unknown the inverse pair is tried.
type RateTable struct {
	rates map[string][]datedValue // keyed by "FROMTO", e.g. "USDEUR"
}

// NewRateTable creates an empty rate table.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[string][]datedValue)}
}

// Add records that on the given date one unit of 'from' was worth 'rate'
// units of 'to'.
func (t *RateTable) Add(on Date, from, to string, rate decimal.Decimal) {
	pair := from + to
	t.rates[pair] = insertDated(t.rates[pair], on, rate)
}

// Rate resolves the exchange rate for a currency pair on a date. It satisfies
// RateFunc.
func (t *RateTable) Rate(on Date, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := asOf(t.rates[from+to], on); ok {
		return rate, nil
	}
	// Fall back to the inverse pair.
	if rate, ok := asOf(t.rates[to+from], on); ok && !rate.IsZero() {
		return decimal.NewFromInt(1).Div(rate), nil
	}
	return decimal.Decimal{}, &MissingRateError{From: from, To: to, On: on}
}

// subtotals accumulates amounts per native currency. Lots of one instrument
// can carry different purchase currencies after a cross-exchange remap, so
// sums that feed a conversion must be kept apart per currency.
type subtotals map[string]Money

func (s subtotals) add(m Money) {
	if m.IsZero() {
		return
	}
	s[m.cur] = s[m.cur].Add(m)
}

// converted converts every native subtotal at the given date's rate and sums
// the results in the target currency.
func (s subtotals) converted(target string, on Date, rates RateFunc) (Money, error) {
	total := M(0, target)
	for _, cur := range slices.Sorted(maps.Keys(s)) {
		c, err := convert(s[cur], target, on, rates)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(c)
	}
	return total, nil
}

// convert converts an amount into the target currency at the given date's
// rate. Conversion is applied on already-summed subtotals, never per unit, to
// bound rounding error.
func convert(amount Money, target string, on Date, rates RateFunc) (Money, error) {
	if amount.cur == target || amount.cur == "" {
		return Money{value: amount.value, cur: target}, nil
	}
	rate, err := rates(on, amount.cur, target)
	if err != nil {
		return Money{}, err
	}
	return Money{value: amount.value.Mul(rate), cur: target}, nil
}

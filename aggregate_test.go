package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAggregator_Summarize(t *testing.T) {
	abc := NewInstrument("ABC", "NYSE")
	l := NewLedger()
	g := usdGains()
	buy(t, l, NewDate(2024, time.January, 10), 10, 100)
	if _, err := l.AddLot(Order{Instrument: abc, On: NewDate(2024, time.February, 1), Quantity: Q(20), Price: USD(10), Fee: USD(0)}); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}

	// Sell half of XYZ at 120.
	ev := Disposal{Instrument: xyz, On: NewDate(2024, time.April, 1), Quantity: Q(5), Proceeds: USD(600)}
	consumptions, err := l.Dispose(ev)
	if err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	realized, err := g.Realized(ev, consumptions)
	if err != nil {
		t.Fatalf("Realized() error = %v", err)
	}

	on := NewDate(2024, time.June, 30)
	prices := NewPriceTable()
	prices.Add(xyz, on, USD(130))
	prices.Add(abc, on, USD(12))

	dividends := []DividendRecord{{Instrument: abc, ExDate: NewDate(2024, time.May, 1), Quantity: Q(20), Amount: USD(8)}}

	summary := NewAggregator(l, g, prices.Price).Summarize(on, []GainRecord{realized}, dividends)
	if err := summary.Err(); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(summary.Instruments) != 2 {
		t.Fatalf("Summarize() returned %d instruments, want 2", len(summary.Instruments))
	}

	// Sorted lexically: ABC first.
	abcSummary, xyzSummary := summary.Instruments[0], summary.Instruments[1]
	if abcSummary.Instrument != abc || xyzSummary.Instrument != xyz {
		t.Fatalf("instruments out of order: %v, %v", abcSummary.Instrument, xyzSummary.Instrument)
	}

	if !abcSummary.Unrealized.Equal(USD(40)) {
		t.Errorf("ABC unrealized = %v, want 40 USD", abcSummary.Unrealized)
	}
	if !abcSummary.Dividends.Equal(USD(8)) {
		t.Errorf("ABC dividends = %v, want 8 USD", abcSummary.Dividends)
	}
	if !abcSummary.TotalReturn.Equal(USD(48)) {
		t.Errorf("ABC total return = %v, want 48 USD", abcSummary.TotalReturn)
	}

	if !xyzSummary.Realized.Equal(USD(100)) {
		t.Errorf("XYZ realized = %v, want 100 USD", xyzSummary.Realized)
	}
	if !xyzSummary.Unrealized.Equal(USD(150)) {
		t.Errorf("XYZ unrealized = %v, want 150 USD", xyzSummary.Unrealized)
	}
	if !xyzSummary.CostBasis.Equal(USD(500)) {
		t.Errorf("XYZ cost basis = %v, want 500 USD", xyzSummary.CostBasis)
	}
	if !xyzSummary.MarketValue.Equal(USD(650)) {
		t.Errorf("XYZ market value = %v, want 650 USD", xyzSummary.MarketValue)
	}

	// Portfolio totals are the sums of the instrument summaries.
	if !summary.MarketValue.Equal(USD(890)) {
		t.Errorf("portfolio market value = %v, want 890 USD", summary.MarketValue)
	}
	if !summary.TotalReturn.Equal(USD(298)) {
		t.Errorf("portfolio total return = %v, want 298 USD", summary.TotalReturn)
	}

	// Recomputing with the same inputs yields the same summary.
	again := NewAggregator(l, g, prices.Price).Summarize(on, []GainRecord{realized}, dividends)
	if !again.TotalReturn.Equal(summary.TotalReturn) || len(again.Instruments) != len(summary.Instruments) {
		t.Errorf("Summarize() is not deterministic: %v then %v", summary.TotalReturn, again.TotalReturn)
	}
}

func TestAggregator_Percentages(t *testing.T) {
	l := NewLedger()
	g := usdGains()
	buy(t, l, NewDate(2024, time.January, 10), 10, 100)

	on := NewDate(2024, time.June, 30)
	prices := NewPriceTable()
	prices.Add(xyz, on, USD(110))

	summary := NewAggregator(l, g, prices.Price).Summarize(on, nil, nil)
	s := summary.Instruments[0]
	if !s.CapitalGainPercent.Equal(10) {
		t.Errorf("capital gain percent = %v, want 10%%", s.CapitalGainPercent)
	}
	if !s.TotalReturnPercent.Equal(10) {
		t.Errorf("total return percent = %v, want 10%%", s.TotalReturnPercent)
	}
}

func TestAggregator_MixedCurrencyBucket(t *testing.T) {
	// A remap moves an EUR-bought lot next to a USD-bought lot under the same
	// instrument; basis and value still convert per native subtotal.
	rates := NewRateTable()
	rates.Add(NewDate(2024, time.June, 1), "EUR", "USD", decimal.RequireFromString("1.25"))

	sap := NewInstrument("SAP", "XETRA")
	sapNYSE := NewInstrument("SAP", "NYSE")
	l := NewLedger()
	g := NewGains("USD", rates.Rate)
	if _, err := l.AddLot(Order{Instrument: sap, On: NewDate(2024, time.January, 10), Quantity: Q(10), Price: EUR(100), Fee: EUR(0)}); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	if _, err := l.AddLot(Order{Instrument: sapNYSE, On: NewDate(2024, time.February, 1), Quantity: Q(10), Price: USD(120), Fee: USD(0)}); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}
	if _, err := NewActionEngine(l, g).Apply(NewRemap("a1", NewDate(2024, time.March, 1), sap, sapNYSE, 1, 1)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	on := NewDate(2024, time.June, 30)
	prices := NewPriceTable()
	prices.Add(sapNYSE, on, USD(140))

	summary := NewAggregator(l, g, prices.Price).Summarize(on, nil, nil)
	if err := summary.Err(); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(summary.Instruments) != 1 {
		t.Fatalf("Summarize() returned %d instruments, want 1", len(summary.Instruments))
	}
	s := summary.Instruments[0]
	// 1000 EUR×1.25 + 1200 USD.
	if !s.CostBasis.Equal(USD(2450)) {
		t.Errorf("cost basis = %v, want 2450 USD", s.CostBasis)
	}
	if !s.MarketValue.Equal(USD(2800)) {
		t.Errorf("market value = %v, want 2800 USD", s.MarketValue)
	}
	if !s.Unrealized.Equal(USD(350)) {
		t.Errorf("unrealized = %v, want 350 USD", s.Unrealized)
	}
}

func TestAggregator_Percentages_FullyDisposed(t *testing.T) {
	// A fully sold position keeps meaningful percentages: the base is the
	// total cost paid, not the cost of what is still held.
	l := NewLedger()
	g := usdGains()
	buy(t, l, NewDate(2024, time.January, 10), 10, 100)

	ev := Disposal{Instrument: xyz, On: NewDate(2024, time.March, 1), Quantity: Q(10), Proceeds: USD(1250)}
	consumptions, err := l.Dispose(ev)
	if err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	realized, err := g.Realized(ev, consumptions)
	if err != nil {
		t.Fatalf("Realized() error = %v", err)
	}

	summary := NewAggregator(l, g, NewPriceTable().Price).Summarize(NewDate(2024, time.June, 30), []GainRecord{realized}, nil)
	if err := summary.Err(); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	s := summary.Instruments[0]
	if !s.Realized.Equal(USD(250)) {
		t.Errorf("realized = %v, want 250 USD", s.Realized)
	}
	// 250 gained over 1000 paid.
	if !s.CapitalGainPercent.Equal(25) {
		t.Errorf("capital gain percent = %v, want 25%%", s.CapitalGainPercent)
	}
	if !s.TotalReturnPercent.Equal(25) {
		t.Errorf("total return percent = %v, want 25%%", s.TotalReturnPercent)
	}
}

func TestAggregator_MissingPriceDoesNotAbort(t *testing.T) {
	// One instrument without a price still reports its realized figures, and
	// the other instruments are unaffected.
	abc := NewInstrument("ABC", "NYSE")
	l := NewLedger()
	g := usdGains()
	buy(t, l, NewDate(2024, time.January, 10), 10, 100)
	if _, err := l.AddLot(Order{Instrument: abc, On: NewDate(2024, time.February, 1), Quantity: Q(20), Price: USD(10), Fee: USD(0)}); err != nil {
		t.Fatalf("AddLot() error = %v", err)
	}

	on := NewDate(2024, time.June, 30)
	prices := NewPriceTable()
	prices.Add(xyz, on, USD(130))

	gains := []GainRecord{{Instrument: abc, Kind: GainDisposal, Gain: USD(33)}}
	summary := NewAggregator(l, g, prices.Price).Summarize(on, gains, nil)

	var ierr *InstrumentError
	if err := summary.Err(); !errors.As(err, &ierr) {
		t.Fatalf("Summarize() error = %v, want InstrumentError", err)
	}
	if ierr.Instrument != abc {
		t.Errorf("failing instrument = %v, want %v", ierr.Instrument, abc)
	}

	abcSummary := summary.Instruments[0]
	if !abcSummary.Realized.Equal(USD(33)) {
		t.Errorf("ABC realized = %v, want 33 USD despite the missing price", abcSummary.Realized)
	}
	if !summary.Instruments[1].Unrealized.Equal(USD(300)) {
		t.Errorf("XYZ unrealized = %v, want 300 USD", summary.Instruments[1].Unrealized)
	}
}

package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlandry/tracker"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOrders_RoundTrip(t *testing.T) {
	s := open(t)
	first := tracker.Order{
		Instrument: tracker.NewInstrument("XYZ", "NYSE"),
		On:         tracker.NewDate(2024, time.January, 10),
		Quantity:   tracker.Q(10),
		Price:      tracker.M(100.50, "USD"),
		Fee:        tracker.M(5, "USD"),
	}
	second := tracker.Order{
		Instrument: tracker.NewInstrument("SAP", "XETRA"),
		On:         tracker.NewDate(2024, time.January, 10),
		Quantity:   tracker.Q(2.5),
		Price:      tracker.M(120, "EUR"),
		Fee:        tracker.M(0, "EUR"),
	}
	require.NoError(t, s.AddOrder(first))
	require.NoError(t, s.AddOrder(second))

	orders, err := s.Orders()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Same-day orders preserve insertion order.
	assert.Equal(t, first.Instrument, orders[0].Instrument)
	assert.True(t, orders[0].Price.Equal(first.Price), "price %v", orders[0].Price)
	assert.True(t, orders[0].Quantity.Equal(first.Quantity))
	assert.Equal(t, second.Instrument, orders[1].Instrument)
	assert.True(t, orders[1].Quantity.Equal(tracker.Q(2.5)))
}

func TestAddOrder_Invalid(t *testing.T) {
	s := open(t)
	err := s.AddOrder(tracker.Order{
		Instrument: tracker.NewInstrument("XYZ", "NYSE"),
		On:         tracker.NewDate(2024, time.January, 10),
		Quantity:   tracker.Q(0),
		Price:      tracker.M(1, "USD"),
		Fee:        tracker.M(0, "USD"),
	})
	assert.Error(t, err)
}

func TestDisposals_RoundTrip(t *testing.T) {
	s := open(t)
	d := tracker.Disposal{
		Instrument: tracker.NewInstrument("XYZ", "NYSE"),
		On:         tracker.NewDate(2024, time.March, 1),
		Quantity:   tracker.Q(5),
		Proceeds:   tracker.M(600, "USD"),
	}
	require.NoError(t, s.AddDisposal(d))

	disposals, err := s.Disposals()
	require.NoError(t, err)
	require.Len(t, disposals, 1)
	assert.Equal(t, d.Instrument, disposals[0].Instrument)
	assert.True(t, disposals[0].Proceeds.Equal(d.Proceeds))
}

func TestActions_RoundTrip(t *testing.T) {
	s := open(t)
	xyz := tracker.NewInstrument("XYZ", "NYSE")
	abc := tracker.NewInstrument("ABC", "NYSE")
	require.NoError(t, s.AddAction(tracker.NewMerger("m1", tracker.NewDate(2024, time.June, 1), xyz, abc, 1, 2, tracker.M(20, "USD"))))
	require.NoError(t, s.AddAction(tracker.NewSplit("s1", tracker.NewDate(2024, time.February, 1), xyz, 2, 1)))
	require.NoError(t, s.AddAction(tracker.NewDelisting("d1", tracker.NewDate(2024, time.October, 1), abc, tracker.M(9.75, "USD"))))
	require.NoError(t, s.AddAction(tracker.NewRemap("r1", tracker.NewDate(2024, time.August, 1), abc, tracker.NewInstrument("ABC", "LSE"), 1, 1)))

	actions, err := s.Actions()
	require.NoError(t, err)
	require.Len(t, actions, 4)

	// Ordered by effective date, payloads fully reconstructed.
	split, ok := actions[0].(tracker.Split)
	require.True(t, ok, "first action is %T", actions[0])
	assert.Equal(t, "s1", split.ID())
	assert.Equal(t, int64(2), split.Numerator)
	assert.Equal(t, xyz, split.Instrument)

	merger, ok := actions[1].(tracker.Merger)
	require.True(t, ok, "second action is %T", actions[1])
	assert.True(t, merger.Cash.Equal(tracker.M(20, "USD")), "cash %v", merger.Cash)
	assert.Equal(t, abc, merger.To)

	remap, ok := actions[2].(tracker.Remap)
	require.True(t, ok, "third action is %T", actions[2])
	assert.Equal(t, "r1", remap.ID())

	delisting, ok := actions[3].(tracker.Delisting)
	require.True(t, ok, "fourth action is %T", actions[3])
	assert.True(t, delisting.Settlement.Equal(tracker.M(9.75, "USD")))
}

func TestAddAction_AppendOnce(t *testing.T) {
	s := open(t)
	xyz := tracker.NewInstrument("XYZ", "NYSE")
	split := tracker.NewSplit("s1", tracker.NewDate(2024, time.February, 1), xyz, 2, 1)
	require.NoError(t, s.AddAction(split))
	require.NoError(t, s.AddAction(split))

	actions, err := s.Actions()
	require.NoError(t, err)
	assert.Len(t, actions, 1)
}

func TestDividends_RoundTrip(t *testing.T) {
	s := open(t)
	xyz := tracker.NewInstrument("XYZ", "NYSE")
	ev := tracker.DividendEvent{
		Instrument: xyz,
		ExDate:     tracker.NewDate(2024, time.June, 1),
		Amount:     tracker.M(0.52, "USD"),
	}
	require.NoError(t, s.AddDividend(ev))
	// Re-declaring the same day replaces the amount.
	ev.Amount = tracker.M(0.55, "USD")
	require.NoError(t, s.AddDividend(ev))

	events, err := s.Dividends()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Amount.Equal(tracker.M(0.55, "USD")), "amount %v", events[0].Amount)
}

func TestRates_RoundTrip(t *testing.T) {
	s := open(t)
	on := tracker.NewDate(2024, time.June, 1)
	require.NoError(t, s.AddRate(on, "USD", "EUR", decimal.RequireFromString("0.9234")))

	table, err := s.Rates()
	require.NoError(t, err)
	rate, err := table.Rate(on, "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.9234")), "rate %v", rate)
}

func TestPrices_RoundTrip(t *testing.T) {
	s := open(t)
	xyz := tracker.NewInstrument("XYZ", "NYSE")
	on := tracker.NewDate(2024, time.June, 1)
	require.NoError(t, s.AddPrice(xyz, on, tracker.M(123.45, "USD")))

	table, err := s.Prices()
	require.NoError(t, err)
	price, err := table.Price(xyz, on.Add(10))
	require.NoError(t, err)
	assert.True(t, price.Equal(tracker.M(123.45, "USD")), "price %v", price)
}

func TestEvents_ReplayEndToEnd(t *testing.T) {
	s := open(t)
	xyz := tracker.NewInstrument("XYZ", "NYSE")
	require.NoError(t, s.AddOrder(tracker.Order{
		Instrument: xyz,
		On:         tracker.NewDate(2024, time.January, 10),
		Quantity:   tracker.Q(10),
		Price:      tracker.M(100, "USD"),
		Fee:        tracker.M(5, "USD"),
	}))
	require.NoError(t, s.AddAction(tracker.NewSplit("s1", tracker.NewDate(2024, time.February, 1), xyz, 2, 1)))
	require.NoError(t, s.AddDisposal(tracker.Disposal{
		Instrument: xyz,
		On:         tracker.NewDate(2024, time.March, 1),
		Quantity:   tracker.Q(20),
		Proceeds:   tracker.M(1200, "USD"),
	}))

	events, err := s.Events()
	require.NoError(t, err)
	ledger, records, err := tracker.Replay(events, tracker.NewGains("USD", nil))
	require.NoError(t, err)
	assert.True(t, ledger.Remaining(xyz).IsZero())
	require.Len(t, records, 1)
	assert.True(t, records[0].Gain.Equal(tracker.M(195, "USD")), "gain %v", records[0].Gain)
}

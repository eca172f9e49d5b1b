package tracker

import (
	"fmt"
	"slices"
)

// Events is the full recorded history of a portfolio: purchases, sales and
// corporate actions. Replaying it deterministically rebuilds the ledger.
type Events struct {
	Orders    []Order
	Disposals []Disposal
	Actions   []CorporateAction
}

// Replay rebuilds a ledger from recorded events, applying them in
// chronological order. Within one day purchases come first, then sales, then
// corporate actions: a same-day sale sells what was bought that morning, and
// a split effective that day applies to the closing position.
//
// It returns the rebuilt ledger and the realized gain records (sales,
// de-listings and merger cash components) in the replayed order.
func Replay(ev Events, gains *Gains) (*Ledger, []GainRecord, error) {
	type step struct {
		on   Date
		kind int // 0 order, 1 disposal, 2 action
		i    int
	}
	steps := make([]step, 0, len(ev.Orders)+len(ev.Disposals)+len(ev.Actions))
	for i, o := range ev.Orders {
		steps = append(steps, step{on: o.On, kind: 0, i: i})
	}
	for i, d := range ev.Disposals {
		steps = append(steps, step{on: d.On, kind: 1, i: i})
	}
	for i, a := range ev.Actions {
		steps = append(steps, step{on: a.When(), kind: 2, i: i})
	}
	// Stable: events recorded the same day with the same kind keep their
	// recorded order, which the FIFO tie-break depends on.
	slices.SortStableFunc(steps, func(a, b step) int {
		if c := a.on.Compare(b.on); c != 0 {
			return c
		}
		return a.kind - b.kind
	})

	ledger := NewLedger()
	engine := NewActionEngine(ledger, gains)
	var records []GainRecord
	for _, s := range steps {
		switch s.kind {
		case 0:
			o := ev.Orders[s.i]
			if _, err := ledger.AddLot(o); err != nil {
				return nil, nil, fmt.Errorf("order %s %v: %w", o.On, o.Instrument, err)
			}
		case 1:
			d := ev.Disposals[s.i]
			consumptions, err := ledger.Dispose(d)
			if err != nil {
				return nil, nil, fmt.Errorf("disposal %s %v: %w", d.On, d.Instrument, err)
			}
			record, err := gains.Realized(d, consumptions)
			if err != nil {
				return nil, nil, fmt.Errorf("disposal %s %v: %w", d.On, d.Instrument, err)
			}
			records = append(records, record)
		case 2:
			applied, err := engine.Apply(ev.Actions[s.i])
			if err != nil {
				return nil, nil, err
			}
			records = append(records, applied...)
		}
	}
	return ledger, records, nil
}

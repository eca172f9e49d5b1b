package tracker

import (
	"crypto/rand"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Disposal is a sale of a quantity of an instrument for given proceeds. It
// consumes lots oldest-first (FIFO) until the quantity is satisfied.
type Disposal struct {
	Instrument Instrument
	On         Date
	Quantity   Quantity
	Proceeds   Money // total proceeds for the whole disposal
}

// Consumption records how much one lot contributed to a disposal, with the
// cost basis it carried. The gains engine turns consumptions into realized
// gain figures.
type Consumption struct {
	LotID    string
	Acquired Date
	Quantity Quantity // quantity consumed from this lot
	Cost     Money    // consumed quantity × price paid per unit
	Fee      Money    // purchase fee share, pro-rated by quantity
}

// Ledger owns every lot of the portfolio, grouped by instrument. It is the
// single owner of the lot arena for its lifetime: corporate actions and
// disposals mutate lots only through it, and lots are never deleted so the
// full acquisition/disposal history stays replayable.
//
// The ledger is not safe for concurrent mutation; events must be applied in
// effective-date order anyway. Concurrent reads are fine once mutation stops.
type Ledger struct {
	lots map[Instrument][]*Lot
	byID map[string]*Lot
	seq  int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		lots: make(map[Instrument][]*Lot),
		byID: make(map[string]*Lot),
	}
}

// AddLot creates a new lot from a validated purchase order. The remaining
// quantity starts equal to the purchased quantity.
func (l *Ledger) AddLot(o Order) (*Lot, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	lot := &Lot{
		ID:         ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Instrument: o.Instrument,
		Acquired:   o.On,
		Quantity:   o.Quantity,
		Remaining:  o.Quantity,
		Price:      o.Price,
		Fee:        o.Fee,
		acquired:   o.Quantity,
		seq:        l.seq,
	}
	l.seq++
	l.lots[o.Instrument] = append(l.lots[o.Instrument], lot)
	l.byID[lot.ID] = lot
	return lot, nil
}

// Lot returns the lot with the given id, or nil if unknown.
func (l *Ledger) Lot(id string) *Lot { return l.byID[id] }

// Remaining returns the total remaining quantity held for an instrument.
func (l *Ledger) Remaining(instrument Instrument) Quantity {
	var total Quantity
	for _, lot := range l.lots[instrument] {
		total = total.Add(lot.Remaining)
	}
	return total
}

// Dispose consumes lots of the event's instrument oldest-first until the
// disposed quantity is satisfied, and returns one consumption per touched
// lot. Lots acquired on the same day are consumed in insertion order.
//
// If the total remaining quantity is short of the requested one, Dispose
// fails with InsufficientLotsError and leaves every lot untouched: a partial
// disposal would hide an upstream data gap.
func (l *Ledger) Dispose(ev Disposal) ([]Consumption, error) {
	if !ev.Quantity.IsPositive() {
		return nil, &ValidationError{Field: "disposal quantity", Reason: "must be positive"}
	}
	if available := l.Remaining(ev.Instrument); available.LessThan(ev.Quantity) {
		return nil, &InsufficientLotsError{
			Instrument: ev.Instrument,
			On:         ev.On,
			Requested:  ev.Quantity,
			Available:  available,
		}
	}

	var consumptions []Consumption
	need := ev.Quantity
	for _, lot := range l.fifo(ev.Instrument) {
		if need.IsZero() {
			break
		}
		if lot.Disposed() {
			continue
		}
		take := lot.Remaining.Min(need)
		lot.consume(ev.On, take)
		need = need.Sub(take)
		consumptions = append(consumptions, Consumption{
			LotID:    lot.ID,
			Acquired: lot.Acquired,
			Quantity: take,
			Cost:     lot.Price.Mul(take),
			Fee:      lot.Fee.Mul(take).Div(lot.Quantity),
		})
	}
	return consumptions, nil
}

// LotsFor returns a lazy sequence over the lots of an instrument that still
// have a remaining quantity and were acquired on or before the given date, in
// FIFO order. Each range over the sequence takes a fresh snapshot of the
// ledger state.
func (l *Ledger) LotsFor(instrument Instrument, asOf Date) iter.Seq[Lot] {
	return func(yield func(Lot) bool) {
		for _, lot := range l.fifo(instrument) {
			if lot.Disposed() || lot.Acquired.After(asOf) {
				continue
			}
			if !yield(*lot) {
				return
			}
		}
	}
}

// AllLots iterates over every lot of an instrument, disposed ones included,
// in FIFO order. Dividend eligibility and audit trails need the full history.
func (l *Ledger) AllLots(instrument Instrument) iter.Seq[Lot] {
	return func(yield func(Lot) bool) {
		for _, lot := range l.fifo(instrument) {
			if !yield(*lot) {
				return
			}
		}
	}
}

// Instruments iterates over all instruments that have at least one lot, in
// lexical order.
func (l *Ledger) Instruments() iter.Seq[Instrument] {
	return func(yield func(Instrument) bool) {
		instruments := slices.Collect(maps.Keys(l.lots))
		slices.SortFunc(instruments, func(a, b Instrument) int {
			if c := strings.Compare(a.Ticker, b.Ticker); c != 0 {
				return c
			}
			return strings.Compare(a.Exchange, b.Exchange)
		})
		for _, instrument := range instruments {
			if len(l.lots[instrument]) == 0 {
				continue
			}
			if !yield(instrument) {
				return
			}
		}
	}
}

// fifo returns the lots of an instrument sorted by acquisition date, oldest
// first. The sort is stable on insertion order, which makes the same-day
// tie-break deterministic.
func (l *Ledger) fifo(instrument Instrument) []*Lot {
	sorted := slices.Clone(l.lots[instrument])
	slices.SortStableFunc(sorted, func(a, b *Lot) int {
		if c := a.Acquired.Compare(b.Acquired); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
	return sorted
}

// relabel moves a lot to another instrument bucket, keeping track of the name
// it was held under until now.
func (l *Ledger) relabel(lot *Lot, on Date, to Instrument) {
	bucket := l.lots[lot.Instrument]
	if i := slices.Index(bucket, lot); i >= 0 {
		l.lots[lot.Instrument] = slices.Delete(bucket, i, i+1)
	}
	lot.formerly = append(lot.formerly, relabel{on: on, instrument: lot.Instrument})
	lot.Instrument = to
	l.lots[to] = append(l.lots[to], lot)
}

// addDerived inserts a lot created by a corporate action (merger) into the
// arena, preserving the original acquisition date for FIFO purposes.
func (l *Ledger) addDerived(lot *Lot) {
	lot.seq = l.seq
	l.seq++
	l.lots[lot.Instrument] = append(l.lots[lot.Instrument], lot)
	l.byID[lot.ID] = lot
}

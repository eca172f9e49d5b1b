package tracker

import (
	"slices"

	"github.com/shopspring/decimal"
)

// change is one append-only transformation of a lot's quantity. Disposals
// append a negative delta, corporate actions append a scale factor. Replaying
// the chain reconstructs the lot's remaining quantity at any past date.
type change struct {
	on     Date
	action string          // corporate action id, empty for disposals
	scale  decimal.Decimal // multiplicative factor, zero means "no scaling"
	delta  Quantity        // additive change, negative for consumptions
}

// Lot records a single purchase of an instrument and tracks how much of it is
// still held. A lot is created once per imported order and never deleted:
// fully-disposed lots are retained for dividend eligibility and realized-gain
// history. Only the ledger and the corporate-action engine mutate it.
type Lot struct {
	ID          string
	Instrument  Instrument
	Acquired    Date
	Quantity    Quantity // original quantity, at the current split scale
	Remaining   Quantity
	Price       Money    // price paid per unit, at the current split scale
	Fee         Money    // purchase fee, never rescaled
	Provenance  []string // corporate action ids that touched this lot, in order
	DerivedInto string   // lot id this lot was merged into, if any

	acquired Quantity  // quantity as originally purchased, before any action
	history  []change
	formerly []relabel // instruments this lot traded under before remaps
	seq      int       // insertion order, tie-break for same-day acquisitions
}

// relabel records the instrument a lot was held under before a
// cross-exchange remap took effect.
type relabel struct {
	on         Date // effective date of the remap
	instrument Instrument
}

// Disposed reports whether the lot has been fully consumed.
func (l *Lot) Disposed() bool { return l.Remaining.IsZero() }

// CostBasis returns the cost of the still-held quantity, excluding the fee.
func (l *Lot) CostBasis() Money { return l.Price.Mul(l.Remaining) }

// touched reports whether the given corporate action already processed this lot.
func (l *Lot) touched(actionID string) bool {
	return slices.Contains(l.Provenance, actionID)
}

// consume reduces the remaining quantity. The caller guarantees q ≤ Remaining.
func (l *Lot) consume(on Date, q Quantity) {
	l.Remaining = l.Remaining.Sub(q)
	l.history = append(l.history, change{on: on, delta: Q(0).Sub(q)})
}

// rescale multiplies quantities by num/den and divides the unit price
// accordingly, so the total cost basis is unchanged.
func (l *Lot) rescale(on Date, actionID string, num, den int64) {
	n, d := Q(num), Q(den)
	l.Quantity = l.Quantity.Mul(n).Div(d)
	l.Remaining = l.Remaining.Mul(n).Div(d)
	l.Price = l.Price.Mul(d).Div(n)
	l.history = append(l.history, change{on: on, action: actionID, scale: newDecimal(num).Div(newDecimal(den))})
	l.Provenance = append(l.Provenance, actionID)
}

// InstrumentAt returns the instrument this lot was held under at the end of
// the given date, accounting for cross-exchange remaps applied since.
func (l *Lot) InstrumentAt(on Date) Instrument {
	for _, r := range l.formerly {
		if r.on.After(on) {
			return r.instrument
		}
	}
	return l.Instrument
}

// RemainingAt replays the lot's transformation chain and returns the quantity
// still held at the end of the given date, expressed at that date's split
// scale. Dividend eligibility is evaluated against this, not against the
// current remaining quantity.
func (l *Lot) RemainingAt(on Date) Quantity {
	if l.Acquired.After(on) {
		return Q(0)
	}
	q := l.acquired
	for _, c := range l.history {
		if c.on.After(on) {
			continue
		}
		if !c.scale.IsZero() {
			q = Quantity{value: q.value.Mul(c.scale)}
		}
		q = q.Add(c.delta)
	}
	return q
}

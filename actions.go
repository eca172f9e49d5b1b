package tracker

import (
	"crypto/rand"
	"fmt"
	"log"
	"slices"

	"github.com/oklog/ulid/v2"
)

// ActionType is a typed string identifying corporate-action variants.
type ActionType string

const (
	ActionSplit     ActionType = "split"
	ActionMerger    ActionType = "merger"
	ActionDelisting ActionType = "delisting"
	ActionRemap     ActionType = "remap"
)

// CorporateAction is an external event altering lots without a purchase or a
// sale: a split, a merger, a de-listing, or a cross-exchange remap. Each
// action carries a unique identifier and an effective date, and must be
// applied in non-decreasing effective-date order.
type CorporateAction interface {
	ID() string
	What() ActionType
	When() Date
	// fingerprint is compared when an action id is replayed: same id with a
	// different fingerprint means the action log is corrupted.
	fingerprint() string
}

type baseAction struct {
	Ident string `json:"id"`
	Date  Date   `json:"date"`
}

func (a baseAction) ID() string { return a.Ident }
func (a baseAction) When() Date { return a.Date }

// Split multiplies quantities of an instrument by Numerator/Denominator and
// divides the unit price accordingly. A 2-for-1 split is Numerator 2,
// Denominator 1. The total cost basis of every lot is unchanged.
type Split struct {
	baseAction
	Instrument  Instrument `json:"instrument"`
	Numerator   int64      `json:"numerator"`
	Denominator int64      `json:"denominator"`
}

// NewSplit creates a split action.
func NewSplit(id string, on Date, instrument Instrument, numerator, denominator int64) Split {
	return Split{
		baseAction:  baseAction{Ident: id, Date: on},
		Instrument:  instrument,
		Numerator:   numerator,
		Denominator: denominator,
	}
}

func (Split) What() ActionType { return ActionSplit }

func (a Split) fingerprint() string {
	return fmt.Sprintf("split|%s|%s|%d/%d", a.Date, a.Instrument, a.Numerator, a.Denominator)
}

// Merger converts every held lot of From into a derived lot of To at
// Numerator/Denominator exchange ratio. Cash is the total cash component
// received for the position; it reduces the carried basis and the excess
// over basis is realized immediately.
type Merger struct {
	baseAction
	From        Instrument `json:"from"`
	To          Instrument `json:"to"`
	Numerator   int64      `json:"numerator"`
	Denominator int64      `json:"denominator"`
	Cash        Money      `json:"cash"`
}

// NewMerger creates a merger action.
func NewMerger(id string, on Date, from, to Instrument, numerator, denominator int64, cash Money) Merger {
	return Merger{
		baseAction:  baseAction{Ident: id, Date: on},
		From:        from,
		To:          to,
		Numerator:   numerator,
		Denominator: denominator,
		Cash:        cash,
	}
}

func (Merger) What() ActionType { return ActionMerger }

func (a Merger) fingerprint() string {
	return fmt.Sprintf("merger|%s|%s|%s|%d/%d|%v", a.Date, a.From, a.To, a.Numerator, a.Denominator, a.Cash)
}

// Delisting forces the disposal of all remaining quantity at the settlement
// price, realizing the gain or loss.
type Delisting struct {
	baseAction
	Instrument Instrument `json:"instrument"`
	Settlement Money      `json:"settlement"` // per unit
}

// NewDelisting creates a delisting action.
func NewDelisting(id string, on Date, instrument Instrument, settlement Money) Delisting {
	return Delisting{
		baseAction: baseAction{Ident: id, Date: on},
		Instrument: instrument,
		Settlement: settlement,
	}
}

func (Delisting) What() ActionType { return ActionDelisting }

func (a Delisting) fingerprint() string {
	return fmt.Sprintf("delisting|%s|%s|%v", a.Date, a.Instrument, a.Settlement)
}

// Remap relabels lots from one quotation venue to another, rescaling quantity
// and price by Numerator/Denominator. The economic position is unchanged, so
// no taxable event is triggered: this is the one adjustment that is not a
// disposal.
type Remap struct {
	baseAction
	From        Instrument `json:"from"`
	To          Instrument `json:"to"`
	Numerator   int64      `json:"numerator"`
	Denominator int64      `json:"denominator"`
}

// NewRemap creates a cross-exchange remap action.
func NewRemap(id string, on Date, from, to Instrument, numerator, denominator int64) Remap {
	return Remap{
		baseAction:  baseAction{Ident: id, Date: on},
		From:        from,
		To:          to,
		Numerator:   numerator,
		Denominator: denominator,
	}
}

func (Remap) What() ActionType { return ActionRemap }

func (a Remap) fingerprint() string {
	return fmt.Sprintf("remap|%s|%s|%s|%d/%d", a.Date, a.From, a.To, a.Numerator, a.Denominator)
}

// ActionEngine applies corporate actions to the ledger's lots without
// changing their economic substance (de-listings and merger cash components
// excepted, which realize gains through the gains engine).
//
// Actions are processed strictly in effective-date order across the whole
// instrument universe, not per instrument: a merger can create lots in a
// target instrument that must then see that target's own later actions.
type ActionEngine struct {
	ledger  *Ledger
	gains   *Gains
	applied map[string]string // action id → fingerprint
	last    Date
}

// NewActionEngine creates an action engine bound to a ledger and a gains
// engine for realized-gain records.
func NewActionEngine(ledger *Ledger, gains *Gains) *ActionEngine {
	return &ActionEngine{
		ledger:  ledger,
		gains:   gains,
		applied: make(map[string]string),
	}
}

// Apply processes a stream of corporate actions in effective-date order and
// returns the gain records realized by de-listings and merger cash
// components. Replaying an already-applied action id is a no-op; replaying it
// with different parameters fails with IdempotencyError.
func (e *ActionEngine) Apply(actions ...CorporateAction) ([]GainRecord, error) {
	sorted := slices.Clone(actions)
	slices.SortStableFunc(sorted, func(a, b CorporateAction) int {
		return a.When().Compare(b.When())
	})

	var records []GainRecord
	for _, action := range sorted {
		applied, err := e.apply(action)
		if err != nil {
			return records, fmt.Errorf("applying %s action %s on %s: %w", action.What(), action.ID(), action.When(), err)
		}
		records = append(records, applied...)
	}
	return records, nil
}

func (e *ActionEngine) apply(action CorporateAction) ([]GainRecord, error) {
	if fp, seen := e.applied[action.ID()]; seen {
		if fp != action.fingerprint() {
			return nil, &IdempotencyError{ActionID: action.ID()}
		}
		log.Printf("%s: skip already applied %s action %s", action.When(), action.What(), action.ID())
		return nil, nil
	}
	if action.When().Before(e.last) {
		return nil, &ValidationError{Field: "effective date", Reason: fmt.Sprintf("%s is before already applied %s", action.When(), e.last)}
	}

	var records []GainRecord
	var err error
	switch v := action.(type) {
	case Split:
		if err := checkRatio(v.Numerator, v.Denominator); err != nil {
			return nil, err
		}
		e.applySplit(v)
	case Merger:
		if err := checkRatio(v.Numerator, v.Denominator); err != nil {
			return nil, err
		}
		records, err = e.applyMerger(v)
	case Delisting:
		if v.Settlement.IsNegative() {
			return nil, &ValidationError{Field: "settlement", Reason: "must not be negative"}
		}
		records, err = e.applyDelisting(v)
	case Remap:
		if err := checkRatio(v.Numerator, v.Denominator); err != nil {
			return nil, err
		}
		e.applyRemap(v)
	default:
		return nil, &ValidationError{Field: "action", Reason: fmt.Sprintf("unsupported type %T", action)}
	}
	if err != nil {
		return nil, err
	}
	e.applied[action.ID()] = action.fingerprint()
	e.last = action.When()
	return records, nil
}

func checkRatio(num, den int64) error {
	if num <= 0 || den <= 0 {
		return &ValidationError{Field: "ratio", Reason: fmt.Sprintf("must be positive, got %d/%d", num, den)}
	}
	return nil
}

func (e *ActionEngine) applySplit(a Split) {
	for _, lot := range e.ledger.lots[a.Instrument] {
		if lot.Disposed() || lot.touched(a.ID()) || lot.Acquired.After(a.When()) {
			continue
		}
		lot.rescale(a.When(), a.ID(), a.Numerator, a.Denominator)
	}
}

func (e *ActionEngine) applyMerger(a Merger) ([]GainRecord, error) {
	held := e.affected(a.From, a.ID(), a.When())
	if len(held) == 0 {
		return nil, nil
	}
	total := Q(0)
	for _, lot := range held {
		total = total.Add(lot.Remaining)
	}

	var records []GainRecord
	for _, lot := range held {
		oldRemaining := lot.Remaining
		basis := lot.Price.Mul(oldRemaining)
		feeShare := lot.Fee.Mul(oldRemaining).Div(lot.Quantity)
		cashShare := a.Cash.Mul(oldRemaining).Div(total)

		// The cash component is a return of capital up to the carried basis;
		// only the excess is realized now.
		absorbed := cashShare
		if absorbed.GreaterThan(basis) {
			absorbed = basis
		}
		carried := basis.Sub(absorbed)

		quantity := oldRemaining.Mul(Q(a.Numerator)).Div(Q(a.Denominator))
		derived := &Lot{
			ID:         ulid.MustNew(ulid.Now(), rand.Reader).String(),
			Instrument: a.To,
			Acquired:   lot.Acquired,
			Quantity:   quantity,
			Remaining:  quantity,
			Price:      carried.Div(quantity),
			Fee:        feeShare,
			Provenance: []string{a.ID()},
			// The derived lot exists only from the merger date on.
			acquired: Q(0),
			history:  []change{{on: a.When(), action: a.ID(), delta: quantity}},
		}
		e.ledger.addDerived(derived)

		lot.consume(a.When(), oldRemaining)
		lot.Provenance = append(lot.Provenance, a.ID())
		lot.DerivedInto = derived.ID

		if !cashShare.IsZero() {
			record, err := e.gains.realized(GainMergerCash, Disposal{
				Instrument: a.From,
				On:         a.When(),
				Quantity:   oldRemaining,
				Proceeds:   cashShare,
			}, []Consumption{{
				LotID:    lot.ID,
				Acquired: lot.Acquired,
				Quantity: oldRemaining,
				Cost:     absorbed,
				Fee:      M(0, absorbed.Currency()),
			}})
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func (e *ActionEngine) applyDelisting(a Delisting) ([]GainRecord, error) {
	held := e.affected(a.Instrument, a.ID(), a.When())
	if len(held) == 0 {
		return nil, nil
	}
	remaining := Q(0)
	for _, lot := range held {
		remaining = remaining.Add(lot.Remaining)
		lot.Provenance = append(lot.Provenance, a.ID())
	}

	ev := Disposal{
		Instrument: a.Instrument,
		On:         a.When(),
		Quantity:   remaining,
		Proceeds:   a.Settlement.Mul(remaining),
	}
	consumptions, err := e.ledger.Dispose(ev)
	if err != nil {
		return nil, err
	}
	record, err := e.gains.realized(GainDelisting, ev, consumptions)
	if err != nil {
		return nil, err
	}
	return []GainRecord{record}, nil
}

func (e *ActionEngine) applyRemap(a Remap) {
	for _, lot := range e.affected(a.From, a.ID(), a.When()) {
		e.ledger.relabel(lot, a.When(), a.To)
		lot.rescale(a.When(), a.ID(), a.Numerator, a.Denominator)
	}
}

// affected returns the lots of an instrument still held at the action date
// and not yet touched by the action id.
func (e *ActionEngine) affected(instrument Instrument, actionID string, on Date) []*Lot {
	var held []*Lot
	for _, lot := range e.ledger.fifo(instrument) {
		if lot.Disposed() || lot.touched(actionID) || lot.Acquired.After(on) {
			continue
		}
		held = append(held, lot)
	}
	return held
}

package tracker

import "fmt"

// ValidationError reports a malformed input record (order or corporate
// action). It aborts only the offending record, not the whole computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientLotsError reports a disposal that exceeds the tracked remaining
// quantity for an instrument. It signals a data gap upstream (for example a
// missing corporate action) and is never silently clamped: the ledger is left
// untouched.
type InsufficientLotsError struct {
	Instrument Instrument
	On         Date
	Requested  Quantity
	Available  Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("on %s, cannot dispose %v of %s, only %v remaining",
		e.On, e.Requested, e.Instrument, e.Available)
}

// MissingPriceError reports that the price feed has no price for an
// instrument on a required date.
type MissingPriceError struct {
	Instrument Instrument
	On         Date
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s as of %s", e.Instrument, e.On)
}

// MissingRateError reports that the rate feed has no exchange rate for a
// currency pair on a required date.
type MissingRateError struct {
	From, To string
	On       Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s/%s as of %s", e.From, e.To, e.On)
}

// IdempotencyError reports a corporate action whose identifier was already
// processed but whose parameters differ. The action log is corrupted; this is
// fatal.
type IdempotencyError struct {
	ActionID string
}

func (e *IdempotencyError) Error() string {
	return fmt.Sprintf("corporate action %s replayed with different parameters", e.ActionID)
}

// InstrumentError attaches an instrument to the error that aborted its
// computation, so the aggregator can report partial results alongside the
// failures.
type InstrumentError struct {
	Instrument Instrument
	Err        error
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Instrument, e.Err)
}

func (e *InstrumentError) Unwrap() error { return e.Err }

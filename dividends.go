package tracker

// DividendEvent is a per-unit cash dividend declared on an instrument,
// payable to holders at the ex-date.
type DividendEvent struct {
	Instrument Instrument
	ExDate     Date
	Amount     Money // amount per unit
}

// DividendRecord is the dividend earned by the portfolio for one event,
// expressed in the reporting currency. Pure output, safe to recompute.
type DividendRecord struct {
	Instrument Instrument
	ExDate     Date
	Quantity   Quantity // quantity held at the ex-date
	Amount     Money
}

// Dividends computes dividends received per lot. Eligibility is evaluated
// against the quantity a lot still held at the ex-date, reconstructed from
// its transformation chain: a lot disposed before the ex-date earns nothing
// on the disposed portion, whatever its current remaining quantity is.
type Dividends struct {
	currency string
	rates    RateFunc
}

// NewDividends creates a dividend engine reporting in the given currency.
func NewDividends(reportingCurrency string, rates RateFunc) *Dividends {
	return &Dividends{currency: reportingCurrency, rates: rates}
}

// Received computes the dividend earned for one event: for every lot of the
// instrument acquired on or before the ex-date, remaining-at-ex-date ×
// amount per unit, converted to the reporting currency at the ex-date rate.
func (d *Dividends) Received(ledger *Ledger, ev DividendEvent) (DividendRecord, error) {
	// Lots are matched by the instrument they were held under at the ex-date,
	// so cross-exchange remaps around the ex-date neither earn twice nor
	// forfeit the dividend.
	var quantity Quantity
	for instrument := range ledger.Instruments() {
		for lot := range ledger.AllLots(instrument) {
			if lot.Acquired.After(ev.ExDate) || lot.InstrumentAt(ev.ExDate) != ev.Instrument {
				continue
			}
			quantity = quantity.Add(lot.RemainingAt(ev.ExDate))
		}
	}

	amount, err := convert(ev.Amount.Mul(quantity), d.currency, ev.ExDate, d.rates)
	if err != nil {
		return DividendRecord{}, err
	}
	return DividendRecord{
		Instrument: ev.Instrument,
		ExDate:     ev.ExDate,
		Quantity:   quantity,
		Amount:     amount,
	}, nil
}

// ReceivedAll computes the dividend records for a whole event feed, skipping
// events the portfolio never held, and keeps going past per-event errors.
func (d *Dividends) ReceivedAll(ledger *Ledger, events []DividendEvent) ([]DividendRecord, []error) {
	var records []DividendRecord
	var errs []error
	for _, ev := range events {
		record, err := d.Received(ledger, ev)
		if err != nil {
			errs = append(errs, &InstrumentError{Instrument: ev.Instrument, Err: err})
			continue
		}
		if record.Quantity.IsZero() {
			continue
		}
		records = append(records, record)
	}
	return records, errs
}

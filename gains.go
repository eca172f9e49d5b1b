package tracker

// GainKind tells what kind of event realized a gain.
type GainKind string

const (
	// GainDisposal is an ordinary sale.
	GainDisposal GainKind = "disposal"
	// GainDelisting is the forced disposal of a de-listed instrument at its
	// settlement price.
	GainDelisting GainKind = "delisting"
	// GainMergerCash is the cash component of a merger, recognized against
	// the basis it absorbs.
	GainMergerCash GainKind = "merger-cash"
)

// GainRecord is the realized outcome of one disposal event, expressed in the
// reporting currency. It is pure output: fully derived, safe to recompute.
type GainRecord struct {
	Instrument   Instrument
	On           Date
	Kind         GainKind
	Quantity     Quantity
	Proceeds     Money
	CostBasis    Money
	Fees         Money
	Gain         Money // Proceeds − CostBasis − Fees
	Consumptions []Consumption
}

// Gains computes realized and unrealized capital gains in a single reporting
// currency. All arithmetic is decimal; currency conversion is applied last,
// on summed native-currency subtotals.
type Gains struct {
	currency string
	rates    RateFunc
}

// NewGains creates a gains engine reporting in the given currency.
func NewGains(reportingCurrency string, rates RateFunc) *Gains {
	return &Gains{currency: reportingCurrency, rates: rates}
}

// Currency returns the reporting currency.
func (g *Gains) Currency() string { return g.currency }

// Realized turns the consumptions of one disposal into a gain record. Per
// consumed lot, the gain is its share of the proceeds minus the cost basis it
// carried minus its pro-rated purchase fee; shares sum exactly to the event
// totals. Conversion to the reporting currency uses the disposal date, once
// per summed native subtotal: lots bought in another currency than the
// proceeds (after a cross-exchange remap) convert instead of failing.
func (g *Gains) Realized(ev Disposal, consumptions []Consumption) (GainRecord, error) {
	return g.realized(GainDisposal, ev, consumptions)
}

func (g *Gains) realized(kind GainKind, ev Disposal, consumptions []Consumption) (GainRecord, error) {
	cost, fees := make(subtotals), make(subtotals)
	var quantity Quantity
	for _, c := range consumptions {
		cost.add(c.Cost)
		fees.add(c.Fee)
		quantity = quantity.Add(c.Quantity)
	}

	record := GainRecord{
		Instrument:   ev.Instrument,
		On:           ev.On,
		Kind:         kind,
		Quantity:     quantity,
		Consumptions: consumptions,
	}
	var err error
	if record.Proceeds, err = convert(ev.Proceeds, g.currency, ev.On, g.rates); err != nil {
		return GainRecord{}, err
	}
	if record.CostBasis, err = cost.converted(g.currency, ev.On, g.rates); err != nil {
		return GainRecord{}, err
	}
	if record.Fees, err = fees.converted(g.currency, ev.On, g.rates); err != nil {
		return GainRecord{}, err
	}
	record.Gain = record.Proceeds.Sub(record.CostBasis).Sub(record.Fees)
	return record, nil
}

// Unrealized computes the mark-to-market gain on the still-held quantity of
// an instrument: market value minus the cost of what is still held, summed
// per native currency and converted at the asOf rate. No FIFO ordering is
// involved since nothing is consumed. Lots whose purchase currency differs
// from the quote currency (after a cross-exchange remap) convert instead of
// failing.
func (g *Gains) Unrealized(ledger *Ledger, instrument Instrument, asOf Date, prices PriceFunc) (Money, error) {
	price, err := prices(instrument, asOf)
	if err != nil {
		return Money{}, err
	}
	value, basis := make(subtotals), make(subtotals)
	for lot := range ledger.LotsFor(instrument, asOf) {
		value.add(price.Mul(lot.Remaining))
		basis.add(lot.CostBasis())
	}
	v, err := value.converted(g.currency, asOf, g.rates)
	if err != nil {
		return Money{}, err
	}
	b, err := basis.converted(g.currency, asOf, g.rates)
	if err != nil {
		return Money{}, err
	}
	return v.Sub(b), nil
}

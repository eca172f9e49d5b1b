// Package store persists the portfolio history (orders, disposals, corporate
// actions, dividends) and the market feeds (prices, exchange rates) in a
// SQLite database. The engines never touch it: the CLI loads everything into
// in-memory snapshots and hands those over.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jmlandry/tracker"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at the given path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// AddOrder records one purchase order.
func (s *Store) AddOrder(o tracker.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO orders (day, ticker, exchange, quantity, price, fee, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.On.String(), o.Instrument.Ticker, o.Instrument.Exchange,
		o.Quantity.String(), o.Price.Amount().String(), o.Fee.Amount().String(), o.Price.Currency(),
	)
	return err
}

// Orders returns every recorded order, oldest first. Same-day orders keep
// their insertion order, which the FIFO tie-break relies on.
func (s *Store) Orders() ([]tracker.Order, error) {
	rows, err := s.db.Query(`
		SELECT day, ticker, exchange, quantity, price, fee, currency
		FROM orders ORDER BY day, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []tracker.Order
	for rows.Next() {
		var day, ticker, exchange, quantity, price, fee, currency string
		if err := rows.Scan(&day, &ticker, &exchange, &quantity, &price, &fee, &currency); err != nil {
			return nil, err
		}
		o, err := parseOrder(day, ticker, exchange, quantity, price, fee, currency)
		if err != nil {
			return nil, fmt.Errorf("corrupt order row: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func parseOrder(day, ticker, exchange, quantity, price, fee, currency string) (tracker.Order, error) {
	on, err := tracker.ParseDate(day)
	if err != nil {
		return tracker.Order{}, err
	}
	q, err := tracker.ParseQuantity(quantity)
	if err != nil {
		return tracker.Order{}, err
	}
	p, err := tracker.ParseMoney(price, currency)
	if err != nil {
		return tracker.Order{}, err
	}
	f, err := tracker.ParseMoney(fee, currency)
	if err != nil {
		return tracker.Order{}, err
	}
	return tracker.Order{
		Instrument: tracker.NewInstrument(ticker, exchange),
		On:         on,
		Quantity:   q,
		Price:      p,
		Fee:        f,
	}, nil
}

// AddDisposal records one sale.
func (s *Store) AddDisposal(d tracker.Disposal) error {
	_, err := s.db.Exec(`
		INSERT INTO disposals (day, ticker, exchange, quantity, proceeds, currency)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.On.String(), d.Instrument.Ticker, d.Instrument.Exchange,
		d.Quantity.String(), d.Proceeds.Amount().String(), d.Proceeds.Currency(),
	)
	return err
}

// Disposals returns every recorded sale, oldest first.
func (s *Store) Disposals() ([]tracker.Disposal, error) {
	rows, err := s.db.Query(`
		SELECT day, ticker, exchange, quantity, proceeds, currency
		FROM disposals ORDER BY day, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disposals []tracker.Disposal
	for rows.Next() {
		var day, ticker, exchange, quantity, proceeds, currency string
		if err := rows.Scan(&day, &ticker, &exchange, &quantity, &proceeds, &currency); err != nil {
			return nil, err
		}
		on, err := tracker.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("corrupt disposal row: %w", err)
		}
		q, err := tracker.ParseQuantity(quantity)
		if err != nil {
			return nil, fmt.Errorf("corrupt disposal row: %w", err)
		}
		p, err := tracker.ParseMoney(proceeds, currency)
		if err != nil {
			return nil, fmt.Errorf("corrupt disposal row: %w", err)
		}
		disposals = append(disposals, tracker.Disposal{
			Instrument: tracker.NewInstrument(ticker, exchange),
			On:         on,
			Quantity:   q,
			Proceeds:   p,
		})
	}
	return disposals, rows.Err()
}

// AddAction records one corporate action, keyed by its id. Recording the same
// id again is a no-op: the action log is append-once.
func (s *Store) AddAction(a tracker.CorporateAction) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO actions (id, day, type, payload)
		VALUES (?, ?, ?, ?)`,
		a.ID(), a.When().String(), string(a.What()), string(payload),
	)
	return err
}

// Actions returns every recorded corporate action in effective-date order.
func (s *Store) Actions() ([]tracker.CorporateAction, error) {
	rows, err := s.db.Query(`SELECT type, payload FROM actions ORDER BY day, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []tracker.CorporateAction
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, err
		}
		action, err := decodeAction(tracker.ActionType(kind), []byte(payload))
		if err != nil {
			return nil, fmt.Errorf("corrupt action row: %w", err)
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func decodeAction(kind tracker.ActionType, payload []byte) (tracker.CorporateAction, error) {
	switch kind {
	case tracker.ActionSplit:
		var a tracker.Split
		return a, json.Unmarshal(payload, &a)
	case tracker.ActionMerger:
		var a tracker.Merger
		return a, json.Unmarshal(payload, &a)
	case tracker.ActionDelisting:
		var a tracker.Delisting
		return a, json.Unmarshal(payload, &a)
	case tracker.ActionRemap:
		var a tracker.Remap
		return a, json.Unmarshal(payload, &a)
	default:
		return nil, fmt.Errorf("unknown action type %q", kind)
	}
}

// AddDividend records one per-unit dividend declaration. The latest record
// for a (day, instrument) pair wins.
func (s *Store) AddDividend(ev tracker.DividendEvent) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO dividends (day, ticker, exchange, amount, currency)
		VALUES (?, ?, ?, ?, ?)`,
		ev.ExDate.String(), ev.Instrument.Ticker, ev.Instrument.Exchange,
		ev.Amount.Amount().String(), ev.Amount.Currency(),
	)
	return err
}

// Dividends returns every recorded dividend event, oldest first.
func (s *Store) Dividends() ([]tracker.DividendEvent, error) {
	rows, err := s.db.Query(`
		SELECT day, ticker, exchange, amount, currency
		FROM dividends ORDER BY day, ticker, exchange`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []tracker.DividendEvent
	for rows.Next() {
		var day, ticker, exchange, amount, currency string
		if err := rows.Scan(&day, &ticker, &exchange, &amount, &currency); err != nil {
			return nil, err
		}
		on, err := tracker.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("corrupt dividend row: %w", err)
		}
		m, err := tracker.ParseMoney(amount, currency)
		if err != nil {
			return nil, fmt.Errorf("corrupt dividend row: %w", err)
		}
		events = append(events, tracker.DividendEvent{
			Instrument: tracker.NewInstrument(ticker, exchange),
			ExDate:     on,
			Amount:     m,
		})
	}
	return events, rows.Err()
}

// AddRate records an exchange-rate observation: one unit of 'base' was worth
// 'rate' units of 'target' that day.
func (s *Store) AddRate(on tracker.Date, base, target string, rate decimal.Decimal) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO fx_rates (day, base, target, rate)
		VALUES (?, ?, ?, ?)`,
		on.String(), base, target, rate.String(),
	)
	return err
}

// Rates loads the whole exchange-rate history into a RateTable snapshot.
func (s *Store) Rates() (*tracker.RateTable, error) {
	rows, err := s.db.Query(`SELECT day, base, target, rate FROM fx_rates ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := tracker.NewRateTable()
	for rows.Next() {
		var day, base, target, rate string
		if err := rows.Scan(&day, &base, &target, &rate); err != nil {
			return nil, err
		}
		on, err := tracker.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("corrupt fx_rates row: %w", err)
		}
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("corrupt fx_rates row: %w", err)
		}
		table.Add(on, base, target, r)
	}
	return table, rows.Err()
}

// AddPrice records a closing price observation.
func (s *Store) AddPrice(instrument tracker.Instrument, on tracker.Date, price tracker.Money) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO prices (day, ticker, exchange, price, currency)
		VALUES (?, ?, ?, ?, ?)`,
		on.String(), instrument.Ticker, instrument.Exchange,
		price.Amount().String(), price.Currency(),
	)
	return err
}

// Prices loads the whole price history into a PriceTable snapshot.
func (s *Store) Prices() (*tracker.PriceTable, error) {
	rows, err := s.db.Query(`SELECT day, ticker, exchange, price, currency FROM prices ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := tracker.NewPriceTable()
	for rows.Next() {
		var day, ticker, exchange, price, currency string
		if err := rows.Scan(&day, &ticker, &exchange, &price, &currency); err != nil {
			return nil, err
		}
		on, err := tracker.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("corrupt prices row: %w", err)
		}
		m, err := tracker.ParseMoney(price, currency)
		if err != nil {
			return nil, fmt.Errorf("corrupt prices row: %w", err)
		}
		table.Add(tracker.NewInstrument(ticker, exchange), on, m)
	}
	return table, rows.Err()
}

// Events loads the full recorded history, ready for tracker.Replay.
func (s *Store) Events() (tracker.Events, error) {
	orders, err := s.Orders()
	if err != nil {
		return tracker.Events{}, err
	}
	disposals, err := s.Disposals()
	if err != nil {
		return tracker.Events{}, err
	}
	actions, err := s.Actions()
	if err != nil {
		return tracker.Events{}, err
	}
	return tracker.Events{Orders: orders, Disposals: disposals, Actions: actions}, nil
}

package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Order is one validated purchase: a quantity of an instrument bought on a
// date at a per-unit price, plus the broker fee.
type Order struct {
	Instrument Instrument
	On         Date
	Quantity   Quantity
	Price      Money // price paid per unit
	Fee        Money
}

// Validate checks the order for correctness before it becomes a lot.
func (o Order) Validate() error {
	if o.Instrument.IsZero() {
		return &ValidationError{Field: "instrument", Reason: "missing"}
	}
	if o.On.IsZero() {
		return &ValidationError{Field: "date", Reason: "missing"}
	}
	if !o.Quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be positive, got %v", o.Quantity)}
	}
	if o.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: fmt.Sprintf("must not be negative, got %v", o.Price)}
	}
	if o.Fee.IsNegative() {
		return &ValidationError{Field: "fee", Reason: fmt.Sprintf("must not be negative, got %v", o.Fee)}
	}
	return nil
}

// orderColumns is the header of the order import format:
//
//	date,ticker,exchange,quantity,price,fee,currency
var orderColumns = []string{"date", "ticker", "exchange", "quantity", "price", "fee", "currency"}

// ImportOrders reads purchase orders from 'r' in CSV format. A malformed row
// aborts only that row: good orders are returned along with the joined
// per-row errors, so one bad record does not lose the rest of the file.
func ImportOrders(r io.Reader) ([]Order, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read order header: %w", err)
	}
	for i, col := range orderColumns {
		if i >= len(header) || !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("unexpected order header %v: want %v", header, orderColumns)
		}
	}

	var orders []Order
	var errs error
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		order, err := parseOrder(record)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		orders = append(orders, order)
	}
	return orders, errs
}

func parseOrder(record []string) (Order, error) {
	if len(record) != len(orderColumns) {
		return Order{}, &ValidationError{Field: "row", Reason: fmt.Sprintf("want %d columns, got %d", len(orderColumns), len(record))}
	}
	on, err := ParseDate(record[0])
	if err != nil {
		return Order{}, &ValidationError{Field: "date", Reason: err.Error()}
	}
	quantity, err := ParseQuantity(record[3])
	if err != nil {
		return Order{}, &ValidationError{Field: "quantity", Reason: err.Error()}
	}
	currency := strings.ToUpper(strings.TrimSpace(record[6]))
	if currency == "" {
		return Order{}, &ValidationError{Field: "currency", Reason: "missing"}
	}
	price, err := ParseMoney(record[4], currency)
	if err != nil {
		return Order{}, &ValidationError{Field: "price", Reason: err.Error()}
	}
	fee, err := ParseMoney(record[5], currency)
	if err != nil {
		return Order{}, &ValidationError{Field: "fee", Reason: err.Error()}
	}
	order := Order{
		Instrument: NewInstrument(record[1], record[2]),
		On:         on,
		Quantity:   quantity,
		Price:      price,
		Fee:        fee,
	}
	if record[1] == "" || record[2] == "" {
		return Order{}, &ValidationError{Field: "instrument", Reason: "ticker and exchange are required"}
	}
	return order, order.Validate()
}

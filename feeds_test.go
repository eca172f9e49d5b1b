package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPriceTable_LastKnownOnOrBefore(t *testing.T) {
	prices := NewPriceTable()
	// Out-of-order inserts are fine, the history stays sorted.
	prices.Add(xyz, NewDate(2024, time.March, 1), USD(110))
	prices.Add(xyz, NewDate(2024, time.January, 1), USD(100))

	got, err := prices.Price(xyz, NewDate(2024, time.February, 15))
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if !got.Equal(USD(100)) {
		t.Errorf("Price(Feb 15) = %v, want the January observation 100 USD", got)
	}

	got, err = prices.Price(xyz, NewDate(2024, time.March, 1))
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if !got.Equal(USD(110)) {
		t.Errorf("Price(Mar 1) = %v, want 110 USD", got)
	}

	_, err = prices.Price(xyz, NewDate(2023, time.December, 31))
	var merr *MissingPriceError
	if !errors.As(err, &merr) {
		t.Fatalf("Price(before history) error = %v, want MissingPriceError", err)
	}
}

func TestRateTable_InversePair(t *testing.T) {
	rates := NewRateTable()
	rates.Add(NewDate(2024, time.January, 1), "USD", "EUR", decimal.RequireFromString("0.8"))

	rate, err := rates.Rate(NewDate(2024, time.June, 1), "EUR", "USD")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("Rate(EUR→USD) = %v, want 1.25 from the inverse pair", rate)
	}
}

func TestRateTable_Identity(t *testing.T) {
	rate, err := NewRateTable().Rate(NewDate(2024, time.June, 1), "USD", "USD")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Rate(USD→USD) = %v, want 1", rate)
	}
}

func TestRateTable_Missing(t *testing.T) {
	_, err := NewRateTable().Rate(NewDate(2024, time.June, 1), "USD", "JPY")
	var merr *MissingRateError
	if !errors.As(err, &merr) {
		t.Fatalf("Rate() error = %v, want MissingRateError", err)
	}
}

func TestConvert(t *testing.T) {
	rates := NewRateTable()
	rates.Add(NewDate(2024, time.January, 1), "USD", "EUR", decimal.RequireFromString("0.9"))
	on := NewDate(2024, time.June, 1)

	got, err := convert(USD(100), "EUR", on, rates.Rate)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}
	if !got.Equal(EUR(90)) {
		t.Errorf("convert(100 USD→EUR) = %v, want 90 EUR", got)
	}

	// Currency-less money takes the target currency as-is.
	got, err = convert(M(42, ""), "EUR", on, nil)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}
	if !got.Equal(EUR(42)) {
		t.Errorf("convert(42 →EUR) = %v, want 42 EUR", got)
	}
}

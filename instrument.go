package tracker

import (
	"fmt"
	"strings"
)

// Instrument identifies a traded security by its ticker and the exchange it
// is quoted on. The same economic position can exist under different
// instruments (see cross-exchange remaps).
type Instrument struct {
	Ticker   string
	Exchange string
}

// NewInstrument creates an Instrument from a ticker and exchange code.
func NewInstrument(ticker, exchange string) Instrument {
	return Instrument{Ticker: strings.ToUpper(ticker), Exchange: strings.ToUpper(exchange)}
}

// ParseInstrument parses the "TICKER.EXCHANGE" notation.
func ParseInstrument(s string) (Instrument, error) {
	ticker, exchange, ok := strings.Cut(s, ".")
	if !ok || ticker == "" || exchange == "" {
		return Instrument{}, fmt.Errorf("invalid instrument %q: want TICKER.EXCHANGE", s)
	}
	return NewInstrument(ticker, exchange), nil
}

// String formats the instrument in the "TICKER.EXCHANGE" notation.
func (i Instrument) String() string { return i.Ticker + "." + i.Exchange }

// IsZero returns true if the instrument is the zero value.
func (i Instrument) IsZero() bool { return i.Ticker == "" && i.Exchange == "" }

// MarshalText implements encoding.TextMarshaler so Instrument can key JSON maps.
func (i Instrument) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Instrument) UnmarshalText(text []byte) error {
	parsed, err := ParseInstrument(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

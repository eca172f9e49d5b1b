// Package quote fetches market data over HTTP and feeds it to the engines as
// immutable snapshots. It speaks the Yahoo-style chart API: one JSON document
// per instrument with meta and daily closes.
package quote

import (
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"

	"github.com/jmlandry/tracker"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client resolves instrument prices from the chart endpoint.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a client for the given endpoint; an empty baseURL selects the
// public one. Responses are cached on disk with a daily expiry.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{http: daily(), baseURL: baseURL}
}

// symbol maps the instrument onto the provider's ticker notation: the plain
// ticker for US exchanges, ticker.suffix elsewhere.
var exchangeSuffix = map[string]string{
	"NYSE":   "",
	"NASDAQ": "",
	"XETRA":  ".DE",
	"LSE":    ".L",
	"PAR":    ".PA",
	"TSE":    ".T",
}

func symbol(instrument tracker.Instrument) string {
	suffix, ok := exchangeSuffix[instrument.Exchange]
	if !ok {
		return instrument.String()
	}
	return instrument.Ticker + suffix
}

// Latest returns the most recent price of an instrument, in its quotation
// currency.
func (c *Client) Latest(instrument tracker.Instrument) (tracker.Money, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol(instrument))
	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return tracker.Money{}, fmt.Errorf("cannot retrieve %v: %w", instrument, err)
	}

	price, err := jfloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return tracker.Money{}, fmt.Errorf("cannot read price for %v: %w", instrument, err)
	}
	currency, err := jstring(jobj, "$.chart.result[0].meta.currency")
	if err != nil {
		return tracker.Money{}, fmt.Errorf("cannot read currency for %v: %w", instrument, err)
	}
	return tracker.M(price, currency), nil
}

// Fill fetches the latest price for each instrument and records it in the
// table under the given date. The first error is returned after trying every
// instrument.
func (c *Client) Fill(table *tracker.PriceTable, on tracker.Date, instruments ...tracker.Instrument) error {
	var firstErr error
	for _, instrument := range instruments {
		price, err := c.Latest(instrument)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		table.Add(instrument, on, price)
	}
	return firstErr
}

// jfloat extracts a float from a JSON document by jsonpath expression.
func jfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", path, err)
	}
	// jsonpath sometimes wraps a single answer in a list; keep the first.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q: not a number: %v", path, jval)
	}
	return val, nil
}

// jstring extracts a string from a JSON document by jsonpath expression.
func jstring(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("%q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q: not a string: %v", path, jval)
	}
	return val, nil
}

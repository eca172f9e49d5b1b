package tracker

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestImportOrders(t *testing.T) {
	in := `date,ticker,exchange,quantity,price,fee,currency
2024-01-10,XYZ,NYSE,10,100,5,USD
2024-02-01,sap,xetra,2.5,120.40,0,eur
`
	orders, err := ImportOrders(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportOrders() error = %v", err)
	}
	want := []Order{
		{Instrument: xyz, On: NewDate(2024, time.January, 10), Quantity: Q(10), Price: USD(100), Fee: USD(5)},
		{Instrument: NewInstrument("SAP", "XETRA"), On: NewDate(2024, time.February, 1), Quantity: Q(2.5), Price: EUR(120.40), Fee: EUR(0)},
	}
	if diff := cmp.Diff(want, orders, cmpEqualer); diff != "" {
		t.Errorf("ImportOrders() mismatch (-want +got):\n%s", diff)
	}
}

func TestImportOrders_KeepsGoodRows(t *testing.T) {
	in := `date,ticker,exchange,quantity,price,fee,currency
2024-01-10,XYZ,NYSE,10,100,5,USD
not-a-date,XYZ,NYSE,10,100,5,USD
2024-02-01,XYZ,NYSE,-3,100,5,USD
2024-03-01,XYZ,NYSE,7,99,0,USD
`
	orders, err := ImportOrders(strings.NewReader(in))
	if err == nil {
		t.Fatal("ImportOrders() error = nil, want per-row errors")
	}
	if len(orders) != 2 {
		t.Fatalf("ImportOrders() kept %d orders, want 2: %+v", len(orders), orders)
	}
	for _, line := range []string{"line 3", "line 4"} {
		if !strings.Contains(err.Error(), line) {
			t.Errorf("ImportOrders() error %q does not mention %s", err, line)
		}
	}
}

func TestImportOrders_RejectsUnknownHeader(t *testing.T) {
	in := "when,what,how much\n2024-01-10,XYZ,10\n"
	if _, err := ImportOrders(strings.NewReader(in)); err == nil {
		t.Fatal("ImportOrders() error = nil, want header error")
	}
}

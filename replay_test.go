package tracker

import (
	"testing"
	"time"
)

func TestReplay(t *testing.T) {
	// Buy, split, sell, recorded out of order: replay sorts by date.
	ev := Events{
		Disposals: []Disposal{
			{Instrument: xyz, On: NewDate(2024, time.March, 1), Quantity: Q(20), Proceeds: USD(1200)},
		},
		Actions: []CorporateAction{
			NewSplit("s1", NewDate(2024, time.February, 1), xyz, 2, 1),
		},
		Orders: []Order{
			{Instrument: xyz, On: NewDate(2024, time.January, 10), Quantity: Q(10), Price: USD(100), Fee: USD(5)},
		},
	}
	ledger, records, err := Replay(ev, usdGains())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !ledger.Remaining(xyz).IsZero() {
		t.Errorf("Remaining() = %v, want 0", ledger.Remaining(xyz))
	}
	if len(records) != 1 {
		t.Fatalf("Replay() returned %d gain records, want 1", len(records))
	}
	if !records[0].Gain.Equal(USD(195)) {
		t.Errorf("replayed gain = %v, want 195 USD", records[0].Gain)
	}
}

func TestReplay_SameDayOrderBeforeDisposal(t *testing.T) {
	on := NewDate(2024, time.April, 1)
	ev := Events{
		Disposals: []Disposal{{Instrument: xyz, On: on, Quantity: Q(5), Proceeds: USD(550)}},
		Orders:    []Order{{Instrument: xyz, On: on, Quantity: Q(10), Price: USD(100), Fee: USD(0)}},
	}
	ledger, _, err := Replay(ev, usdGains())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !ledger.Remaining(xyz).Equal(Q(5)) {
		t.Errorf("Remaining() = %v, want 5", ledger.Remaining(xyz))
	}
}

func TestReplay_FailsOnOversell(t *testing.T) {
	ev := Events{
		Orders:    []Order{{Instrument: xyz, On: NewDate(2024, time.January, 1), Quantity: Q(5), Price: USD(10), Fee: USD(0)}},
		Disposals: []Disposal{{Instrument: xyz, On: NewDate(2024, time.February, 1), Quantity: Q(6), Proceeds: USD(70)}},
	}
	if _, _, err := Replay(ev, usdGains()); err == nil {
		t.Fatal("Replay() error = nil, want insufficient lots failure")
	}
}

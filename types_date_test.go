package tracker

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		{"2025-7-1", NewDate(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_Add_Normalizes(t *testing.T) {
	d := NewDate(2024, time.January, 31)
	if got := d.Add(1); got != NewDate(2024, time.February, 1) {
		t.Errorf("Add(1) = %v, want 2024-02-01", got)
	}
	if got := d.Add(-31); got != NewDate(2023, time.December, 31) {
		t.Errorf("Add(-31) = %v, want 2023-12-31", got)
	}
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := NewDate(2024, time.March, 2)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare() ordering broken for %v and %v", a, b)
	}
	if !a.Before(b) || !b.After(a) {
		t.Errorf("Before/After ordering broken for %v and %v", a, b)
	}
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name string
		date Date
		json string
	}{
		{"zero date", Date{}, `""`},
		{"regular date", NewDate(2024, time.May, 21), `"2024-05-21"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.date)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(got) != tt.json {
				t.Errorf("json.Marshal() = %s, want %s", got, tt.json)
			}
			var back Date
			if err := json.Unmarshal(got, &back); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if back != tt.date {
				t.Errorf("round-trip = %v, want %v", back, tt.date)
			}
		})
	}

	var d Date
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Error("json.Unmarshal(not-a-date) error = nil, want error")
	}
}

package tracker

import "github.com/google/go-cmp/cmp"

// cmpEqualer compares Quantity and Money values by their Equal methods, so
// tests care about numeric equality rather than decimal representation.
var cmpEqualer = cmp.Options{
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Date) bool { return a.Compare(b) == 0 }),
}

// USD is a helper for tests to create dollar money from a const.
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for tests to create euro money from a const.
func EUR(v float64) Money { return M(v, "EUR") }

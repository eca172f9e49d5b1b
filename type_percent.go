package tracker

import "fmt"

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// percentOf returns part/whole as a Percent, or zero when whole is zero.
func percentOf(part, whole Money) Percent {
	if whole.IsZero() {
		return 0
	}
	ratio, _ := part.value.Div(whole.value).Mul(newDecimal(100)).Float64()
	return Percent(ratio)
}

package bond

import "fmt"

// Percent is a rate expressed in percent (5.0 means 5%).
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

// String renders the rate rounded to two decimals; the underlying value
// keeps its full precision.
func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

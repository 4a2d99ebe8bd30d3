package sweep

import "fmt"

var ErrInvalidArgument = fmt.Errorf("invalid argument")

// FixierungValues returns the Fixierung slider values worth visiting for
// a given Laufzeit: 0 (fully variable), then multiples of step up to and
// including the Laufzeit. The Fixierung can never exceed the Laufzeit.
//
//	FixierungValues(20, 5) = [0 5 10 15 20]
//	FixierungValues(17, 5) = [0 5 10 15]
func FixierungValues(laufzeitJahre, stepJahre int) ([]int, error) {
	if laufzeitJahre < 0 {
		return nil, fmt.Errorf("%w: laufzeit %d is negative", ErrInvalidArgument, laufzeitJahre)
	}
	if stepJahre <= 0 {
		return nil, fmt.Errorf("%w: step %d must be positive", ErrInvalidArgument, stepJahre)
	}

	values := []int{0}
	for v := stepJahre; v <= laufzeitJahre; v += stepJahre {
		values = append(values, v)
	}
	return values, nil
}

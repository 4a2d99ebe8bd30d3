package sweep

import "fmt"

type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomePartiallyCompleted
	OutcomeAborted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "Completed"
	case OutcomePartiallyCompleted:
		return "PartiallyCompleted"
	case OutcomeAborted:
		return "Aborted"
	}
	return "Unknown"
}

// Outcome describes how processing one Laufzeit went.
type Outcome struct {
	LaufzeitJahre      int
	Kind               OutcomeKind
	Variations         int
	SkippedFixierungen []int
	// numeric fields that degraded to unparsed sentinels across the run
	UnparsedFields int
	// run id assigned by the store, 0 when the run was aborted or
	// persistence failed
	RunId    int64
	StoreErr error
}

// Describe renders the outcome for the run-end report, e.g.
// "PartiallyCompleted(1 skipped)".
func (o Outcome) Describe() string {
	if o.Kind == OutcomePartiallyCompleted {
		return fmt.Sprintf("%s(%d skipped)", o.Kind, len(o.SkippedFixierungen))
	}
	return o.Kind.String()
}

// Summary is the run-level report over a whole session plan.
type Summary struct {
	Outcomes []Outcome

	Attempted       int
	Succeeded       int
	TotalVariations int
	UnparsedFields  int
	StorageFailures int
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.Attempted++
	if o.Kind != OutcomeAborted && o.StoreErr == nil {
		s.Succeeded++
	}
	s.TotalVariations += o.Variations
	s.UnparsedFields += o.UnparsedFields
	if o.StoreErr != nil {
		s.StorageFailures++
	}
}

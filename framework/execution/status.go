package execution

// Status is the state of the test that is currently running in a Context.
//
// The only transitions are Passed to Skipped (by a skip request) and anything to Failed (by a
// failed check or a fault). Failed is terminal.
type Status int

const (
	Passed Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Counters are the assertion totals accumulated by one test run.
type Counters struct {
	Assertions       int
	FailedAssertions int
	IgnoredFailures  int
}

// Add returns the sum of two sets of counters.
func (c Counters) Add(other Counters) Counters {
	return Counters{
		Assertions:       c.Assertions + other.Assertions,
		FailedAssertions: c.FailedAssertions + other.FailedAssertions,
		IgnoredFailures:  c.IgnoredFailures + other.IgnoredFailures,
	}
}

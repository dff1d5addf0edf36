package runner

import (
	"strings"
	"time"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Status     execution.Status
	Counters   execution.Counters
	SkipReason string
	Records    []check.Record
	Duration   time.Duration
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Totals adds up the counters of every test that was run.
func (r Results) Totals() execution.Counters {
	var total execution.Counters
	for _, t := range r.Tests {
		total = total.Add(t.Counters)
	}
	return total
}

// Failed returns true if the test ended in the Failed status.
func (r TestResult) Failed() bool {
	return r.Status == execution.Failed
}

// TestID is the full name of a test: the names of its enclosing suites, outermost first,
// followed by the test's own name.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

// Package helpers contains waiting helpers for tests whose checks depend on work done by other
// goroutines.
//
// Checks must be recorded on the goroutine that runs the test: an aborting check raised on
// any other goroutine would not be caught by the test's guard chain. These helpers therefore
// do all of their waiting on the calling goroutine.
package helpers

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

// TestContext is a minimal interface for types like *testing.T and *execution.Context
// representing a test that can fail.
//
// When it is an *execution.Context, a failed wait is recorded as a structured check result
// naming the wait, its timeout and what was observed; any other TestContext only receives
// the failure message.
type TestContext interface {
	Errorf(msgFormat string, msgArgs ...interface{})
	FailNow()
	Helper()
}

func report(t TestContext, result *check.Result, aborting bool, msgFormat string, msgArgs ...interface{}) {
	t.Helper()
	result.AppendMessage(msgFormat, msgArgs...)
	if ctx, ok := t.(*execution.Context); ok {
		ctx.Record(result, aborting)
		return
	}
	t.Errorf(msgFormat, msgArgs...)
	if aborting {
		t.FailNow()
	}
}

// waitFailure starts the result of a wait that did not end the way the test expected.
func waitFailure(name string, timeout time.Duration) *check.Result {
	return check.Fail().Named(name).Predicate("timeout", milliseconds(timeout))
}

// milliseconds renders durations the same way descriptor configuration declares timeouts.
func milliseconds(d time.Duration) ldvalue.Value {
	return ldvalue.Float64(float64(d) / float64(time.Millisecond))
}

package helpers

import (
	"time"
)

// AssertEventually calls condition at intervals on the calling goroutine until it returns true.
// If the timeout elapses first, it records a failed "eventually" check carrying the timeout and
// the number of times the condition was evaluated, and returns false.
func AssertEventually(
	t TestContext,
	condition func() bool,
	timeout time.Duration,
	interval time.Duration,
	failureMsgFormat string,
	failureMsgArgs ...interface{},
) bool {
	t.Helper()
	return eventually(t, condition, timeout, interval, false, failureMsgFormat, failureMsgArgs...)
}

// RequireEventually is the same as AssertEventually, except that if the timeout elapses the
// current lifecycle phase ends immediately.
func RequireEventually(
	t TestContext,
	condition func() bool,
	timeout time.Duration,
	interval time.Duration,
	failureMsgFormat string,
	failureMsgArgs ...interface{},
) {
	t.Helper()
	eventually(t, condition, timeout, interval, true, failureMsgFormat, failureMsgArgs...)
}

func eventually(
	t TestContext,
	condition func() bool,
	timeout time.Duration,
	interval time.Duration,
	aborting bool,
	failureMsgFormat string,
	failureMsgArgs ...interface{},
) bool {
	t.Helper()
	attempts, ok := poll(condition, timeout, interval)
	if ok {
		return true
	}
	result := waitFailure("eventually", timeout).
		Predicate("interval", milliseconds(interval)).
		DiagnosticOf("attempts", attempts)
	report(t, result, aborting, failureMsgFormat, failureMsgArgs...)
	return false
}

// poll evaluates condition once immediately and then on every tick until it returns true or the
// deadline passes. It returns how many evaluations were made.
func poll(condition func() bool, timeout, interval time.Duration) (attempts int, ok bool) {
	attempts++
	if condition() {
		return attempts, true
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case <-deadline.C:
			return attempts, false
		case <-ticker.C:
			attempts++
			if condition() {
				return attempts, true
			}
		}
	}
}

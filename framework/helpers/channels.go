package helpers

import (
	"fmt"
	"time"

	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

// TryReceive waits up to timeout for a value from ch. The result is empty if none arrived, or
// if ch was closed.
func TryReceive[V any](ch <-chan V, timeout time.Duration) o.Maybe[V] {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			return o.None[V]()
		}
		return o.Some(value)
	case <-deadline.C:
		return o.None[V]()
	}
}

// RequireValue waits for a value from ch and returns it. If none arrives within the timeout, it
// records a failed "requireValue" check naming the expected type, and the current lifecycle
// phase ends.
func RequireValue[V any](t TestContext, ch <-chan V, timeout time.Duration) V {
	t.Helper()
	var empty V
	return RequireValueWithMessage(t, ch, timeout, "timed out waiting for value of type %T", empty)
}

// RequireValueWithMessage is the same as RequireValue, but with a custom failure message.
func RequireValueWithMessage[V any](
	t TestContext,
	ch <-chan V,
	timeout time.Duration,
	msgFormat string,
	msgArgs ...interface{},
) V {
	t.Helper()
	value, ok := TryReceive(ch, timeout).Get()
	if !ok {
		var empty V
		result := waitFailure("requireValue", timeout).
			DiagnosticOf("type", fmt.Sprintf("%T", empty))
		report(t, result, true, msgFormat, msgArgs...)
	}
	return value
}

// RequireNoMoreValues fails the test and ends the current lifecycle phase if ch delivers a value
// within the timeout. The failed "noMoreValues" check carries the unexpected value.
func RequireNoMoreValues[V any](t TestContext, ch <-chan V, timeout time.Duration) {
	t.Helper()
	if value, ok := TryReceive(ch, timeout).Get(); ok {
		result := waitFailure("noMoreValues", timeout).DiagnosticOf("value", value)
		report(t, result, true, "received unexpected extra value of type %T", value)
	}
}

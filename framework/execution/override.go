package execution

import (
	"github.com/launchdarkly/unit-test-engine/framework/check"
	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

// Override is a scoped replacement of a Context's current frame. While it is in effect, all
// checks, skips and faults go to a fresh frame with its own status, counters and Sink.
//
// Overrides follow a stack discipline: restore them in the reverse order they were created,
// normally with defer:
//
//	ov := ctx.Override(sink)
//	defer ov.Restore()
type Override struct {
	ctx      *Context
	saved    *frame
	frame    *frame
	restored bool
}

// Override installs a fresh frame whose records go to sink, and returns the scope that will
// restore the previous one.
func (c *Context) Override(sink check.Sink) *Override {
	ov := &Override{ctx: c, saved: c.current, frame: newFrame(sink)}
	c.current = ov.frame
	return ov
}

// Restore reinstalls the frame that was current when the Override was created. Calling it
// more than once has no further effect.
func (ov *Override) Restore() {
	if ov.restored {
		return
	}
	ov.restored = true
	ov.ctx.current = ov.saved
}

// Status returns the status accumulated inside the override.
func (ov *Override) Status() Status { return ov.frame.status }

// Counters returns the counters accumulated inside the override.
func (ov *Override) Counters() Counters { return ov.frame.counters }

// Sandbox runs action inside an Override and reports what it accumulated, without affecting
// the current test. Abort and skip signals raised by action are absorbed; any other panic is
// propagated after the previous frame has been restored.
func (c *Context) Sandbox(sink check.Sink, action func()) (Status, Counters) {
	ov := c.Override(sink)
	func() {
		defer func() {
			ov.Restore()
			if r := recover(); r != nil && !IsAbort(r) && !IsSkip(r) {
				panic(r)
			}
		}()
		action()
	}()
	return ov.Status(), ov.Counters()
}

// capturingSink keeps the first assertion record it receives and forwards log entries.
type capturingSink struct {
	outer  check.Sink
	record o.Maybe[check.Record]
}

func (s *capturingSink) Log(entry check.LogEntry) {
	s.outer.Log(entry)
}

func (s *capturingSink) Assertion(record check.Record) {
	if !s.record.IsDefined() {
		s.record = o.Some(record)
	}
}

// IgnoreFailure runs action with its failures ignored, and checks that it did fail.
//
// Inside the scope, checks are recorded on a separate frame. When the scope ends, if that
// frame is not Passed, its failed-assertion count is added to the ignored-failure count of
// the enclosing test (not to its failed count) and the first record it produced is forwarded
// to the enclosing Sink with Ignored set. Finally a check is recorded on the enclosing test
// asserting that the wrapped checks failed; if they all passed, that check fails like any
// other. A failed aborting check inside the scope ends only the scope. It returns the result
// of that final check.
func (c *Context) IgnoreFailure(action func()) bool {
	capture := &capturingSink{outer: c.current.sink}
	ov := c.Override(capture)
	func() {
		defer func() {
			ov.Restore()
			r := recover()
			if r == nil || IsAbort(r) {
				return
			}
			if IsSkip(r) {
				c.current.skip(ov.frame.skipReason)
			}
			panic(r)
		}()
		action()
	}()

	inner := ov.frame
	if inner.status != Passed {
		c.current.counters.IgnoredFailures += inner.counters.FailedAssertions
		if record, ok := capture.record.Get(); ok {
			record.Ignored = true
			c.current.sink.Assertion(record)
		}
	}
	return c.Check(check.New(inner.status == Failed).
		Named("ignored failure").
		AppendMessage("expected the wrapped check to fail"))
}

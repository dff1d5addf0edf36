package execution

import (
	"fmt"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

type frame struct {
	status     Status
	counters   Counters
	sink       check.Sink
	skipReason string
}

func newFrame(sink check.Sink) *frame {
	if sink == nil {
		sink = check.NullSink()
	}
	return &frame{sink: sink}
}

func (f *frame) recordCheck(passed bool) {
	f.counters.Assertions++
	if !passed {
		f.counters.FailedAssertions++
		f.status = Failed
	}
}

func (f *frame) skip(reason string) {
	if f.status == Passed {
		f.status = Skipped
		f.skipReason = reason
	}
}

// Context is the execution context of one goroutine. It holds the status and counters of
// the test currently running on that goroutine, plus the Sink that receives its log entries
// and assertion records.
//
// Checks are recorded with Check (a failure is recorded and execution continues) or Require
// (a failure is recorded and the current lifecycle phase ends immediately). Context also
// implements the assert.TestingT and require.TestingT interfaces from testify, so
// testify assertions can be used directly inside a test.
type Context struct {
	current   *frame
	helperFns map[string]struct{}
}

// NewContext creates a Context whose records go to the given Sink. A nil Sink discards
// everything.
func NewContext(sink check.Sink) *Context {
	return &Context{current: newFrame(sink)}
}

// Begin starts a new test status: Passed with zeroed counters. The Sink is unchanged.
func (c *Context) Begin() {
	c.current.status = Passed
	c.current.counters = Counters{}
	c.current.skipReason = ""
}

// SetSink replaces the Sink of the currently installed frame.
func (c *Context) SetSink(sink check.Sink) {
	if sink == nil {
		sink = check.NullSink()
	}
	c.current.sink = sink
}

// Sink returns the Sink of the currently installed frame.
func (c *Context) Sink() check.Sink { return c.current.sink }

// Status returns the status of the current test.
func (c *Context) Status() Status { return c.current.status }

// Counters returns the assertion counters of the current test.
func (c *Context) Counters() Counters { return c.current.counters }

// SkipReason returns the reason given to SkipWithReason, if the test was skipped.
func (c *Context) SkipReason() string { return c.current.skipReason }

// Record counts a check result. If it did not pass, the test becomes Failed and an assertion
// Record located at the caller is sent to the Sink; if aborting is also true, Record then
// unwinds the current lifecycle phase. It returns true if the result passed.
func (c *Context) Record(result *check.Result, aborting bool) bool {
	passed := result == nil || result.Passed()
	f := c.current
	f.recordCheck(passed)
	if passed {
		return true
	}
	f.sink.Assertion(check.Record{
		Kind:     check.AssertionRecord,
		Location: c.callerLocation(),
		Detail:   result.Clone(),
	})
	if aborting {
		panic(abortSignal{})
	}
	return false
}

// Check records a non-aborting check.
func (c *Context) Check(result *check.Result) bool {
	return c.Record(result, false)
}

// Require records an aborting check: if it fails, the current lifecycle phase ends.
func (c *Context) Require(result *check.Result) {
	c.Record(result, true)
}

// Skip marks a passing test as skipped and ends the current lifecycle phase. If the test has
// already failed it stays failed.
func (c *Context) Skip() {
	c.SkipWithReason("")
}

// SkipWithReason is equivalent to Skip but provides a message.
func (c *Context) SkipWithReason(reason string) {
	c.current.skip(reason)
	panic(skipSignal{})
}

// Fail forces the test to the Failed status without counting an assertion, and logs the
// message as an error.
func (c *Context) Fail(format string, args ...interface{}) {
	c.current.status = Failed
	c.Log(ldlog.Error, format, args...)
}

// RecordFault reports an unexpected fault, such as a panic caught by a guard chain. The
// test becomes Failed and a fault Record is sent to the Sink. Faults are not counted as
// assertions.
func (c *Context) RecordFault(kind string, location o.Maybe[check.Location], detail *check.Result) {
	if detail == nil {
		detail = check.Fail()
	}
	c.current.status = Failed
	c.current.sink.Assertion(check.Record{
		Kind:      check.FaultRecord,
		FaultKind: kind,
		Location:  location,
		Detail:    detail.SetFailed().Clone(),
	})
}

// Log sends a log entry to the Sink, formatted with fmt.Sprintf if there are any args.
func (c *Context) Log(level ldlog.LogLevel, format string, args ...interface{}) {
	if len(args) != 0 {
		format = fmt.Sprintf(format, args...)
	}
	c.current.sink.Log(check.LogEntry{Time: time.Now(), Level: level, Message: format})
}

// Debug writes a debug-level log entry for the current test.
func (c *Context) Debug(format string, args ...interface{}) {
	c.Log(ldlog.Debug, format, args...)
}

package runner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/unit-test-engine/framework"
	"github.com/launchdarkly/unit-test-engine/framework/check"
)

var consoleTestErrorColor = color.New(color.FgYellow)                //nolint:gochecknoglobals
var consoleTestIgnoredColor = color.New(color.Faint, color.FgYellow) //nolint:gochecknoglobals
var consoleTestFailedColor = color.New(color.FgRed)                  //nolint:gochecknoglobals
var consoleTestSkippedColor = color.New(color.Faint, color.FgBlue)   //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)                 //nolint:gochecknoglobals
var allTestsPassedColor = color.New(color.FgGreen)                   //nolint:gochecknoglobals

// TestLogger receives status information about each test as the run progresses.
type TestLogger interface {
	TestStarted(id TestID)
	TestRecord(id TestID, record check.Record)
	TestLog(id TestID, entry check.LogEntry)
	TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput)
	TestSkipped(id TestID, reason string)
	EndLog(results Results) error
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                                        {}
func (n nullTestLogger) TestRecord(TestID, check.Record)                           {}
func (n nullTestLogger) TestLog(TestID, check.LogEntry)                            {}
func (n nullTestLogger) TestFinished(TestID, TestResult, framework.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                                {}
func (n nullTestLogger) EndLog(Results) error                                      { return nil }

// ConsoleTestLogger writes a human-readable account of the run. Failure records are printed
// as they happen; captured debug output is printed at the end of each test if enabled.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c ConsoleTestLogger) TestStarted(id TestID) {
	fmt.Fprintf(c.out(), "[%s]\n", id)
}

func (c ConsoleTestLogger) TestRecord(id TestID, record check.Record) {
	textColor := consoleTestErrorColor
	if record.Ignored {
		textColor = consoleTestIgnoredColor
	}
	for _, line := range strings.Split(record.String(), "\n") {
		_, _ = textColor.Fprintf(c.out(), "  %s\n", line)
	}
}

func (c ConsoleTestLogger) TestLog(id TestID, entry check.LogEntry) {
	if entry.Level >= ldlog.Error {
		_, _ = consoleTestErrorColor.Fprintf(c.out(), "  %s\n", entry.Message)
	}
}

func (c ConsoleTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	failed := result.Failed()
	if failed {
		_, _ = consoleTestFailedColor.Fprintf(c.out(), "  FAILED: %s (%d of %d checks failed)\n",
			id, result.Counters.FailedAssertions, result.Counters.Assertions)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Fprintln(c.out(), debugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	if reason == "" {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "  SKIPPED: %s\n", id)
	} else {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c ConsoleTestLogger) EndLog(results Results) error {
	return nil
}

// MultiTestLogger forwards every event to each of its Loggers in turn.
type MultiTestLogger struct {
	Loggers []TestLogger
}

func (m *MultiTestLogger) TestStarted(id TestID) {
	for _, l := range m.Loggers {
		l.TestStarted(id)
	}
}

func (m *MultiTestLogger) TestRecord(id TestID, record check.Record) {
	for _, l := range m.Loggers {
		l.TestRecord(id, record)
	}
}

func (m *MultiTestLogger) TestLog(id TestID, entry check.LogEntry) {
	for _, l := range m.Loggers {
		l.TestLog(id, entry)
	}
}

func (m *MultiTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	for _, l := range m.Loggers {
		l.TestFinished(id, result, debugOutput)
	}
}

func (m *MultiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m.Loggers {
		l.TestSkipped(id, reason)
	}
}

// EndLog calls EndLog on every logger, and returns the first error.
func (m *MultiTestLogger) EndLog(results Results) error {
	var firstErr error
	for _, l := range m.Loggers {
		if err := l.EndLog(results); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func PrintResults(w io.Writer, results Results) {
	totals := results.Totals()
	if results.OK() {
		_, _ = allTestsPassedColor.Fprintf(w, "All tests passed (%d tests, %d checks, %d ignored failures)\n",
			len(results.Tests), totals.Assertions, totals.IgnoredFailures)
	} else {
		_, _ = consoleTestFailedColor.Fprintf(w, "FAILED TESTS (%d):\n", len(results.Failures))
		for _, f := range results.Failures {
			_, _ = consoleTestFailedColor.Fprintf(w, "  * %s\n", f.TestID)
		}
	}
}

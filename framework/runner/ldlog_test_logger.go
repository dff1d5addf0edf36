package runner

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/unit-test-engine/framework"
	"github.com/launchdarkly/unit-test-engine/framework/check"
)

// LdlogTestLogger reports test events through an ldlog.Loggers. Failure records are logged at
// Error level (Warn if ignored), test log entries at their own level, and progress at Info or
// Debug level.
type LdlogTestLogger struct {
	Loggers ldlog.Loggers
}

func (l LdlogTestLogger) TestStarted(id TestID) {
	l.Loggers.Debugf("[%s] started", id)
}

func (l LdlogTestLogger) TestRecord(id TestID, record check.Record) {
	if record.Ignored {
		l.Loggers.Warnf("[%s] ignored failure: %s", id, record.Detail.JSONString())
		return
	}
	l.Loggers.Errorf("[%s] %s: %s", id, describeRecordKind(record), record.Detail.JSONString())
}

func (l LdlogTestLogger) TestLog(id TestID, entry check.LogEntry) {
	switch entry.Level {
	case ldlog.Debug:
		l.Loggers.Debugf("[%s] %s", id, entry.Message)
	case ldlog.Info:
		l.Loggers.Infof("[%s] %s", id, entry.Message)
	case ldlog.Warn:
		l.Loggers.Warnf("[%s] %s", id, entry.Message)
	case ldlog.Error:
		l.Loggers.Errorf("[%s] %s", id, entry.Message)
	}
}

func (l LdlogTestLogger) TestFinished(id TestID, result TestResult, _ framework.CapturedOutput) {
	if result.Failed() {
		l.Loggers.Errorf("[%s] FAILED (%d of %d checks failed)", id,
			result.Counters.FailedAssertions, result.Counters.Assertions)
		return
	}
	l.Loggers.Infof("[%s] passed (%d checks)", id, result.Counters.Assertions)
}

func (l LdlogTestLogger) TestSkipped(id TestID, reason string) {
	l.Loggers.Infof("[%s] skipped %s", id, reason)
}

func (l LdlogTestLogger) EndLog(results Results) error {
	totals := results.Totals()
	l.Loggers.Infof("%d tests, %d failed, %d checks, %d ignored failures",
		len(results.Tests), len(results.Failures), totals.Assertions, totals.IgnoredFailures)
	return nil
}

func describeRecordKind(record check.Record) string {
	if record.Kind == check.FaultRecord {
		return "fault (" + record.FaultKind + ")"
	}
	return string(record.Kind)
}

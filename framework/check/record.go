package check

import (
	"fmt"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

// RecordKind says whether a Record came from a failed check or from an unexpected fault.
type RecordKind string

const (
	// AssertionRecord is produced by a check that did not pass.
	AssertionRecord RecordKind = "assertion"
	// FaultRecord is produced when a guarded call panicked or a destructor failed.
	FaultRecord RecordKind = "fault"
)

// Location is the source position that produced a Record.
type Location struct {
	File     string
	Line     int
	Function string
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Record is a located, kinded wrapping of a Result, created when a failing or faulting check
// is recorded and handed immediately to a Sink.
type Record struct {
	Kind RecordKind
	// FaultKind is the category assigned by the guard chain, such as "error" or "unknown".
	// It is empty for assertion records.
	FaultKind string
	Location  o.Maybe[Location]
	Detail    Result
	// Ignored is set when the failure happened inside an ignore-failure scope.
	Ignored bool
}

func (r Record) String() string {
	header := string(r.Kind)
	if r.FaultKind != "" {
		header += " (" + r.FaultKind + ")"
	}
	if loc, ok := r.Location.Get(); ok {
		header += " at " + loc.String()
	}
	if r.Ignored {
		header += " [ignored]"
	}
	detail := r.Detail.String()
	if detail == "" {
		return header
	}
	return header + "\n" + detail
}

// LogEntry is a free-form message emitted while a test runs.
type LogEntry struct {
	Time    time.Time
	Level   ldlog.LogLevel
	Message string
}

// Sink receives the log entries and assertion records produced by a running test. Drivers
// implement it; so does the ignore-failure scope of the execution context.
type Sink interface {
	Log(entry LogEntry)
	Assertion(record Record)
}

type nullSink struct{}

func (nullSink) Log(LogEntry)     {}
func (nullSink) Assertion(Record) {}

// NullSink returns a Sink that discards everything.
func NullSink() Sink { return nullSink{} }

// RecordingSink is a Sink that keeps everything it receives. It is safe for concurrent use.
type RecordingSink struct {
	logs    []LogEntry
	records []Record
	lock    sync.Mutex
}

func (s *RecordingSink) Log(entry LogEntry) {
	s.lock.Lock()
	s.logs = append(s.logs, entry)
	s.lock.Unlock()
}

func (s *RecordingSink) Assertion(record Record) {
	s.lock.Lock()
	s.records = append(s.records, record)
	s.lock.Unlock()
}

// Logs returns a copy of the log entries received so far.
func (s *RecordingSink) Logs() []LogEntry {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]LogEntry(nil), s.logs...)
}

// Records returns a copy of the records received so far.
func (s *RecordingSink) Records() []Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Record(nil), s.records...)
}

package check

import (
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

// EntryType distinguishes the two sides of a data entry in a Result.
type EntryType string

const (
	// PredicateEntry describes what the check expected.
	PredicateEntry EntryType = "predicate"
	// DiagnosticEntry describes what the check actually observed.
	DiagnosticEntry EntryType = "diagnostic"
)

// Entry is a single named value attached to a Result.
type Entry struct {
	Type  EntryType
	Name  string
	Value ldvalue.Value
}

// Composite is a named sub-result that was folded into a parent Result.
type Composite struct {
	Name   string
	Result Result
}

// Result is the structured outcome of one predicate evaluation.
//
// The zero value is a passed result with no content. Builder methods modify the receiver and
// return it, so a failure can be described in a single expression:
//
//	r := check.Fail().Named("equal").PredicateOf("expected", 5).DiagnosticOf("actual", 3)
type Result struct {
	failed     bool
	name       o.Maybe[string]
	messages   []string
	data       []Entry
	composites []Composite
}

// Pass returns a new passed Result.
func Pass() *Result { return &Result{} }

// Fail returns a new failed Result.
func Fail() *Result { return &Result{failed: true} }

// New returns a new Result whose status is passed if and only if passed is true.
func New(passed bool) *Result { return &Result{failed: !passed} }

// Passed returns true if the check passed.
func (r *Result) Passed() bool { return !r.failed }

// Name returns the predicate name, if one was set.
func (r *Result) Name() o.Maybe[string] { return r.name }

// Messages returns a copy of the message list.
func (r *Result) Messages() []string { return append([]string(nil), r.messages...) }

// Data returns a copy of the data entries in insertion order.
func (r *Result) Data() []Entry { return append([]Entry(nil), r.data...) }

// Composites returns a copy of the composite sub-results in insertion order.
func (r *Result) Composites() []Composite { return append([]Composite(nil), r.composites...) }

// Named sets the predicate name.
func (r *Result) Named(name string) *Result {
	r.name = o.Some(name)
	return r
}

// SetFailed marks the result as failed. A failed result never reverts to passed.
func (r *Result) SetFailed() *Result {
	r.failed = true
	return r
}

// AppendMessage adds a message, formatted with fmt.Sprintf if there are any args.
func (r *Result) AppendMessage(format string, args ...interface{}) *Result {
	if len(args) != 0 {
		format = fmt.Sprintf(format, args...)
	}
	r.messages = append(r.messages, format)
	return r
}

// Predicate adds an expected-side entry.
func (r *Result) Predicate(name string, value ldvalue.Value) *Result {
	r.data = append(r.data, Entry{Type: PredicateEntry, Name: name, Value: value})
	return r
}

// Diagnostic adds an actual-side entry.
func (r *Result) Diagnostic(name string, value ldvalue.Value) *Result {
	r.data = append(r.data, Entry{Type: DiagnosticEntry, Name: name, Value: value})
	return r
}

// PredicateOf is like Predicate but converts an arbitrary Go value with
// ldvalue.CopyArbitraryValue.
func (r *Result) PredicateOf(name string, value interface{}) *Result {
	return r.Predicate(name, ldvalue.CopyArbitraryValue(value))
}

// DiagnosticOf is like Diagnostic but converts an arbitrary Go value with
// ldvalue.CopyArbitraryValue.
func (r *Result) DiagnosticOf(name string, value interface{}) *Result {
	return r.Diagnostic(name, ldvalue.CopyArbitraryValue(value))
}

// Compose folds a sub-result into this one.
//
// If this result is currently passed, it takes on the status of sub; otherwise its status is
// unchanged. The sub-result is kept as a named composite only if it did not pass, so passing
// sub-checks leave no trace in the report.
func (r *Result) Compose(name string, sub *Result) *Result {
	if sub == nil {
		return r
	}
	if !r.failed {
		r.failed = sub.failed
	}
	if sub.failed {
		r.composites = append(r.composites, Composite{Name: name, Result: sub.Clone()})
	}
	return r
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() Result {
	ret := Result{
		failed:   r.failed,
		name:     r.name,
		messages: append([]string(nil), r.messages...),
		data:     append([]Entry(nil), r.data...),
	}
	if len(r.composites) != 0 {
		ret.composites = make([]Composite, 0, len(r.composites))
		for _, c := range r.composites {
			ret.composites = append(ret.composites, Composite{Name: c.Name, Result: c.Result.Clone()})
		}
	}
	return ret
}

package helpers

import (
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

func newTestContext() (*execution.Context, *check.RecordingSink) {
	sink := &check.RecordingSink{}
	return execution.NewContext(sink), sink
}

// runPhase runs an action and reports whether it ended early with an abort signal.
func runPhase(action func()) (aborted bool) {
	defer func() {
		if r := recover(); r != nil {
			if !execution.IsAbort(r) {
				panic(r)
			}
			aborted = true
		}
	}()
	action()
	return false
}

func onlyRecord(sink *check.RecordingSink) check.Record {
	records := sink.Records()
	if len(records) != 1 {
		panic(fmt.Sprintf("expected exactly one record, got %d", len(records)))
	}
	return records[0]
}

func entry(r check.Result, name string) ldvalue.Value {
	for _, e := range r.Data() {
		if e.Name == name {
			return e.Value
		}
	}
	return ldvalue.Null()
}

// plainTestContext stands in for a TestContext that is not an execution.Context.
type plainTestContext struct {
	errors     []string
	terminated bool
}

func (p *plainTestContext) Errorf(msgFormat string, msgArgs ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(msgFormat, msgArgs...))
}

func (p *plainTestContext) FailNow() { p.terminated = true }

func (p *plainTestContext) Helper() {}

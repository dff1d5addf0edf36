package runner

import (
	"time"

	"github.com/launchdarkly/unit-test-engine/framework"
	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/guard"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

// Config contains options for the entire test run.
type Config struct {
	// Filter is an optional Filter for determining which tests to run based on their names.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Groups, if not empty, restricts the run to tests tagged with at least one of these groups.
	Groups framework.Groups

	// Handlers are added to the guard chain of every test, after the base handler.
	Handlers []guard.Handler

	// IncludeOrphans causes suites that were never attached to the tree to be run after it.
	IncludeOrphans bool
}

// Run runs every test in the registry, one at a time on the calling goroutine. Suites are
// visited depth-first starting from the top suite, and tests within a suite run before its
// nested suites, both in the order they were added.
func Run(registry *suite.Registry, config Config) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	chain := guard.New()
	for _, h := range config.Handlers {
		chain.Add(h)
	}
	r := &run{
		config: config,
		chain:  chain,
		ctx:    execution.NewContext(nil),
	}
	r.runSuite(registry.Top(), nil)
	if config.IncludeOrphans {
		for _, orphan := range registry.Orphans() {
			r.runSuite(orphan, TestID{orphan.Name()})
		}
	}
	return r.results
}

type run struct {
	config  Config
	chain   *guard.Chain
	ctx     *execution.Context
	results Results
}

func (r *run) runSuite(s suite.Suite, id TestID) {
	if len(id) != 0 && !r.matches(id) {
		return
	}
	for i := 0; i < s.TestCaseCount(); i++ {
		d := s.TestCaseAt(i)
		r.runTest(d, id.Plus(d.Name()))
	}
	for i := 0; i < s.NestedSuiteCount(); i++ {
		nested := s.NestedSuiteAt(i)
		r.runSuite(nested, id.Plus(nested.Name()))
	}
}

func (r *run) matches(id TestID) bool {
	return r.config.Filter == nil || r.config.Filter.Match(id)
}

func (r *run) runTest(d *suite.Descriptor, id TestID) {
	logger := r.config.TestLogger
	logger.TestStarted(id)
	if !r.matches(id) {
		logger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	if len(r.config.Groups) != 0 && !d.Config().Groups().HasAny(r.config.Groups...) {
		logger.TestSkipped(id, "not in any of the selected groups")
		return
	}

	sink := &testSink{id: id, logger: logger}
	r.ctx.SetSink(sink)
	start := time.Now()
	d.RunTestWith(r.ctx, r.chain)

	result := TestResult{
		TestID:     id,
		Status:     r.ctx.Status(),
		Counters:   r.ctx.Counters(),
		SkipReason: r.ctx.SkipReason(),
		Records:    sink.records,
		Duration:   time.Since(start),
	}
	r.ctx.SetSink(nil)

	if result.Failed() {
		r.results.Failures = append(r.results.Failures, result)
	}
	r.results.Tests = append(r.results.Tests, result)
	if result.Status == execution.Skipped {
		logger.TestSkipped(id, result.SkipReason)
	} else {
		logger.TestFinished(id, result, sink.debug.Output())
	}
}

// testSink forwards the records and log entries of one test to the TestLogger, keeping a copy
// of the records for the results and of the log entries for the debug output.
type testSink struct {
	id      TestID
	logger  TestLogger
	records []check.Record
	debug   framework.CapturingLogger
}

func (s *testSink) Log(entry check.LogEntry) {
	s.debug.Capture(framework.CapturedMessage{Time: entry.Time, Level: entry.Level, Message: entry.Message})
	s.logger.TestLog(s.id, entry)
}

func (s *testSink) Assertion(record check.Record) {
	s.records = append(s.records, record)
	s.logger.TestRecord(s.id, record)
}

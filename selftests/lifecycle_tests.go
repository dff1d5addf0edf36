package selftests

import (
	"errors"

	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

// phases is a Runnable that keeps track of which of its phases ran.
type phases struct {
	setUp  func(ctx *execution.Context)
	run    func(ctx *execution.Context)
	called []string
	closed bool
}

func (p *phases) SetUp(ctx *execution.Context) {
	p.called = append(p.called, "setUp")
	if p.setUp != nil {
		p.setUp(ctx)
	}
}

func (p *phases) Run(ctx *execution.Context) {
	p.called = append(p.called, "run")
	if p.run != nil {
		p.run(ctx)
	}
}

func (p *phases) TearDown(ctx *execution.Context) {
	p.called = append(p.called, "tearDown")
	ctx.True(true)
}

func (p *phases) Close() error {
	p.closed = true
	return nil
}

func registerLifecycleTests(s suite.Suite) {
	fast := suite.WithGroups("lifecycle", "fast")
	s.Add(
		suite.Func("aborting failure in setUp", testAbortInSetUp, fast),
		suite.Func("checking failure in setUp", testCheckInSetUp, fast),
		suite.Func("fault in run", testFaultInRun, fast),
		suite.Func("factory failure", testFactoryFailure, fast),
		suite.NewDescriptor("phases of this test", func() (suite.Runnable, error) {
			return &phases{run: func(ctx *execution.Context) { ctx.True(true) }}, nil
		}, fast),
	)
}

// runNested runs a descriptor on ctx as a nested test, without disturbing the enclosing one.
func runNested(ctx *execution.Context, d *suite.Descriptor) (bool, sandboxed) {
	var ok bool
	result := sandbox(ctx, func() { ok = d.RunTest(ctx) })
	return ok, result
}

func testAbortInSetUp(ctx *execution.Context) {
	p := &phases{setUp: func(ctx *execution.Context) { ctx.RequireTrue(false) }}
	ok, result := runNested(ctx, suite.NewDescriptor("nested", func() (suite.Runnable, error) { return p, nil }))

	ctx.False(ok)
	ctx.Equal([]string{"setUp"}, p.called)
	ctx.True(p.closed, "instance was not closed")
	ctx.Equal(execution.Failed, result.status)
}

func testCheckInSetUp(ctx *execution.Context) {
	p := &phases{
		setUp: func(ctx *execution.Context) { ctx.True(false) },
		run:   func(ctx *execution.Context) { ctx.True(true) },
	}
	ok, result := runNested(ctx, suite.NewDescriptor("nested", func() (suite.Runnable, error) { return p, nil }))

	ctx.False(ok)
	ctx.Equal([]string{"setUp", "run", "tearDown"}, p.called)
	ctx.Equal(execution.Counters{Assertions: 3, FailedAssertions: 1}, result.counters)
}

func testFaultInRun(ctx *execution.Context) {
	p := &phases{run: func(ctx *execution.Context) { panic(errors.New("unexpected")) }}
	ok, result := runNested(ctx, suite.NewDescriptor("nested", func() (suite.Runnable, error) { return p, nil }))

	ctx.False(ok)
	ctx.Equal([]string{"setUp", "run", "tearDown"}, p.called)
	ctx.Equal([]string{"fault:error"}, result.records())
}

func testFactoryFailure(ctx *execution.Context) {
	ok, result := runNested(ctx, suite.NewDescriptor("nested", func() (suite.Runnable, error) {
		return nil, errors.New("cannot build")
	}))

	ctx.False(ok)
	ctx.Equal(execution.Failed, result.status)
	logs := result.sink.Logs()
	if ctx.Equal(1, len(logs)) {
		ctx.Equal(`test "nested" could not be instantiated: cannot build`, logs[0].Message)
	}
}

package suite

import (
	"errors"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/guard"
)

// phaseRecorder is a Runnable that remembers which of its phases were called.
type phaseRecorder struct {
	setUp, run, tearDown func(ctx *execution.Context)
	calls                []string
	closeErr             error
	closed               bool
}

func (p *phaseRecorder) SetUp(ctx *execution.Context) {
	p.calls = append(p.calls, "setUp")
	if p.setUp != nil {
		p.setUp(ctx)
	}
}

func (p *phaseRecorder) Run(ctx *execution.Context) {
	p.calls = append(p.calls, "run")
	if p.run != nil {
		p.run(ctx)
	}
}

func (p *phaseRecorder) TearDown(ctx *execution.Context) {
	p.calls = append(p.calls, "tearDown")
	if p.tearDown != nil {
		p.tearDown(ctx)
	}
}

func (p *phaseRecorder) Close() error {
	p.closed = true
	return p.closeErr
}

func descriptorFor(p *phaseRecorder) *Descriptor {
	return NewDescriptor("test", func() (Runnable, error) { return p, nil })
}

func newContext() (*execution.Context, *check.RecordingSink) {
	sink := &check.RecordingSink{}
	return execution.NewContext(sink), sink
}

func TestAllPhasesRunInOrder(t *testing.T) {
	ctx, sink := newContext()
	p := &phaseRecorder{run: func(ctx *execution.Context) { ctx.True(true) }}

	assert.True(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp", "run", "tearDown"}, p.calls)
	assert.True(t, p.closed)
	assert.Equal(t, execution.Passed, ctx.Status())
	assert.Equal(t, 1, ctx.Counters().Assertions)
	assert.Len(t, sink.Records(), 0)
}

func TestAbortingFailureInSetUpSkipsRemainingPhases(t *testing.T) {
	ctx, sink := newContext()
	p := &phaseRecorder{setUp: func(ctx *execution.Context) { ctx.RequireTrue(false) }}

	assert.False(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp"}, p.calls)
	assert.True(t, p.closed)
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, check.AssertionRecord, sink.Records()[0].Kind)
}

func TestCheckingFailureInSetUpContinues(t *testing.T) {
	ctx, _ := newContext()
	p := &phaseRecorder{
		setUp:    func(ctx *execution.Context) { ctx.True(false) },
		run:      func(ctx *execution.Context) { ctx.True(true) },
		tearDown: func(ctx *execution.Context) { ctx.True(true) },
	}

	assert.False(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp", "run", "tearDown"}, p.calls)
	assert.Equal(t, execution.Counters{Assertions: 3, FailedAssertions: 1}, ctx.Counters())
}

func TestTearDownRunsAfterFaultInRun(t *testing.T) {
	ctx, sink := newContext()
	p := &phaseRecorder{run: func(ctx *execution.Context) { panic("boom") }}

	assert.False(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp", "run", "tearDown"}, p.calls)
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, check.FaultRecord, sink.Records()[0].Kind)
	assert.Equal(t, guard.KindPanic, sink.Records()[0].FaultKind)
}

func TestTearDownRunsAfterAbortInRun(t *testing.T) {
	ctx, _ := newContext()
	p := &phaseRecorder{run: func(ctx *execution.Context) { ctx.RequireEqual(1, 2) }}

	assert.False(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp", "run", "tearDown"}, p.calls)
}

func TestFaultInSetUpSkipsRemainingPhases(t *testing.T) {
	ctx, sink := newContext()
	p := &phaseRecorder{setUp: func(ctx *execution.Context) { panic(errors.New("no database")) }}

	assert.False(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp"}, p.calls)
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, guard.KindError, sink.Records()[0].FaultKind)
}

func TestSkipInSetUp(t *testing.T) {
	ctx, sink := newContext()
	p := &phaseRecorder{setUp: func(ctx *execution.Context) { ctx.SkipWithReason("not supported") }}

	assert.True(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp"}, p.calls)
	assert.Equal(t, execution.Skipped, ctx.Status())
	assert.Equal(t, "not supported", ctx.SkipReason())
	assert.Len(t, sink.Records(), 0)
}

func TestSkipInRunStillTearsDown(t *testing.T) {
	ctx, _ := newContext()
	p := &phaseRecorder{run: func(ctx *execution.Context) { ctx.Skip() }}

	assert.True(t, descriptorFor(p).RunTest(ctx))
	assert.Equal(t, []string{"setUp", "run", "tearDown"}, p.calls)
	assert.Equal(t, execution.Skipped, ctx.Status())
}

func TestFactoryError(t *testing.T) {
	ctx, sink := newContext()
	d := NewDescriptor("broken", func() (Runnable, error) { return nil, errors.New("no luck") })

	assert.False(t, d.RunTest(ctx))
	assert.Equal(t, execution.Failed, ctx.Status())
	require.Len(t, sink.Logs(), 1)
	assert.Equal(t, ldlog.Error, sink.Logs()[0].Level)
	assert.Equal(t, `test "broken" could not be instantiated: no luck`, sink.Logs()[0].Message)
}

func TestFactoryReturnsTypedNil(t *testing.T) {
	ctx, sink := newContext()
	d := NewDescriptor("nil", func() (Runnable, error) {
		var p *phaseRecorder
		return p, nil
	})

	assert.False(t, d.RunTest(ctx))
	require.Len(t, sink.Logs(), 1)
	assert.Equal(t, `test "nil" could not be instantiated`, sink.Logs()[0].Message)
}

func TestFactoryPanicIsReportedOnce(t *testing.T) {
	ctx, sink := newContext()
	d := NewDescriptor("panicky", func() (Runnable, error) { panic("constructor failed") })

	assert.False(t, d.RunTest(ctx))
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, check.FaultRecord, sink.Records()[0].Kind)
	assert.Len(t, sink.Logs(), 0)
}

func TestCloseErrorIsFault(t *testing.T) {
	ctx, sink := newContext()
	p := &phaseRecorder{closeErr: errors.New("leaked handle")}

	assert.False(t, descriptorFor(p).RunTest(ctx))
	require.Len(t, sink.Records(), 1)
	r := sink.Records()[0]
	assert.Equal(t, check.FaultRecord, r.Kind)
	assert.Equal(t, guard.KindError, r.FaultKind)
	assert.Equal(t, []string{"leaked handle"}, r.Detail.Messages())
}

type panickyCloser struct{ Funcs }

func (panickyCloser) Close() error { panic("close exploded") }

func TestClosePanicIsCaught(t *testing.T) {
	ctx, sink := newContext()
	d := NewDescriptor("closer", func() (Runnable, error) { return panickyCloser{}, nil })

	assert.False(t, d.RunTest(ctx))
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, guard.KindPanic, sink.Records()[0].FaultKind)
}

func TestRunTestResetsStatus(t *testing.T) {
	ctx, _ := newContext()
	ctx.True(false)

	assert.True(t, Func("fine", func(ctx *execution.Context) { ctx.True(true) }).RunTest(ctx))
	assert.Equal(t, execution.Counters{Assertions: 1}, ctx.Counters())
}

type customPanic struct{ reason string }

func TestRunTestWithCustomHandler(t *testing.T) {
	ctx, sink := newContext()
	chain := guard.New()
	chain.Add(guard.Recognize("custom", func(p customPanic) string { return p.reason }))
	d := Func("custom", func(ctx *execution.Context) { panic(customPanic{"bad input"}) })

	assert.False(t, d.RunTestWith(ctx, chain))
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, "custom", sink.Records()[0].FaultKind)
	assert.Equal(t, []string{"bad input"}, sink.Records()[0].Detail.Messages())
}

func TestDescriptorAccessors(t *testing.T) {
	d := Func("named", nil, WithDescription("does things"), WithGroups("a", "b"))
	assert.Equal(t, "named", d.Name())
	assert.Equal(t, "does things", d.Config().Description())
	assert.Equal(t, []string{"a", "b"}, []string(d.Config().Groups()))
}

package selftests

import (
	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

func registerExecutionTests(s suite.Suite) {
	fast := suite.WithGroups("execution", "fast")
	s.Add(
		configured("counters", "counters.yaml", testCounters),
		suite.Func("failed then passed", testFailedThenPassed, fast),
		suite.Func("failed is terminal", testFailedIsTerminal, fast),
		suite.Func("skip only from passed", testSkipOnlyFromPassed, fast),
		suite.Func("aborting check unwinds", testAbortingCheckUnwinds, fast),
		suite.Func("ignore failure of failing check", testIgnoreFailingCheck, fast),
		suite.Func("ignore failure of passing check", testIgnorePassingCheck, fast),
		suite.Func("override restores outer status", testOverrideRestores, fast),
	)
}

func testCounters(ctx *execution.Context, c suite.Config) {
	data := c.Data()
	sequences := data.GetByKey("sequences")
	for i := 0; i < sequences.Count(); i++ {
		seq := sequences.GetByIndex(i)
		passed, failed := 0, 0
		result := sandbox(ctx, func() {
			for j := 0; j < seq.Count(); j++ {
				ok := seq.GetByIndex(j).BoolValue()
				ctx.Check(check.New(ok))
				if ok {
					passed++
				} else {
					failed++
				}
			}
		})
		ctx.Equal(passed+failed, result.counters.Assertions, "sequence %d", i)
		ctx.Equal(failed, result.counters.FailedAssertions, "sequence %d", i)
		ctx.Equal(failed, len(result.sink.Records()), "sequence %d", i)
	}
}

func testFailedThenPassed(ctx *execution.Context) {
	result := sandbox(ctx, func() {
		ctx.Check(check.New(false))
		ctx.Check(check.New(true))
	})
	ctx.Equal(execution.Failed, result.status)
	ctx.Equal(execution.Counters{Assertions: 2, FailedAssertions: 1}, result.counters)
}

func testFailedIsTerminal(ctx *execution.Context) {
	result := sandbox(ctx, func() {
		ctx.Check(check.New(false))
		ctx.Skip()
	})
	ctx.Equal(execution.Failed, result.status)
}

func testSkipOnlyFromPassed(ctx *execution.Context) {
	reached := false
	result := sandbox(ctx, func() {
		ctx.Check(check.New(true))
		ctx.SkipWithReason("skipping")
		reached = true
	})
	ctx.Equal(execution.Skipped, result.status)
	ctx.False(reached, "skip did not unwind")

	result = sandbox(ctx, func() {
		ctx.SkipWithReason("skipping")
	})
	ctx.Equal(execution.Skipped, result.status)
	ctx.Equal(0, result.counters.Assertions)
}

func testAbortingCheckUnwinds(ctx *execution.Context) {
	reached := false
	result := sandbox(ctx, func() {
		ctx.Require(check.Fail().AppendMessage("stop here"))
		reached = true
	})
	ctx.False(reached, "aborting check did not unwind")
	ctx.Equal(execution.Failed, result.status)
	ctx.Equal([]string{"assertion"}, result.records())
}

func testIgnoreFailingCheck(ctx *execution.Context) {
	result := sandbox(ctx, func() {
		ctx.IgnoreFailure(func() {
			ctx.Check(check.New(false))
			ctx.Check(check.New(false))
		})
	})
	ctx.Equal(execution.Passed, result.status)
	ctx.Equal(execution.Counters{Assertions: 1, IgnoredFailures: 2}, result.counters)
	ctx.Equal([]string{"assertion:ignored"}, result.records())
}

func testIgnorePassingCheck(ctx *execution.Context) {
	result := sandbox(ctx, func() {
		ctx.IgnoreFailure(func() {
			ctx.Check(check.New(true))
		})
	})
	ctx.Equal(execution.Failed, result.status)
	ctx.Equal(execution.Counters{Assertions: 1, FailedAssertions: 1}, result.counters)
	ctx.Equal([]string{"assertion"}, result.records())
}

func testOverrideRestores(ctx *execution.Context) {
	before := ctx.Counters()
	ov := ctx.Override(nil)
	ctx.Check(check.New(false))
	ov.Restore()
	ov.Restore()

	ctx.Equal(execution.Failed, ov.Status())
	ctx.Equal(before.Assertions+1, ctx.Counters().Assertions)
	ctx.Equal(execution.Passed, ctx.Status())
}

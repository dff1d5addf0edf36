package selftests

import (
	"errors"
	"fmt"

	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/guard"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

type opaque struct{ code int }

type overloaded struct{ reason string }

func registerGuardTests(s suite.Suite) {
	c := loadConfig("guard.json")
	s.Add(
		suite.Func("panic categories", testPanicCategories, suite.WithConfig(c)),
		suite.Func("abort is not reported twice", testAbortNotReportedTwice, suite.WithConfig(c)),
		suite.Func("custom handler", testCustomHandler, suite.WithConfig(c)),
	)
}

func testPanicCategories(ctx *execution.Context) {
	cases := []struct {
		value interface{}
		kind  string
	}{
		{opaque{1}, guard.KindUnknown},
		{errors.New("bad"), guard.KindError},
		{"text", guard.KindPanic},
		{fmt.Errorf("wrapped: %w", errors.New("inner")), guard.KindError},
		{42, guard.KindUnknown},
	}
	for _, tc := range cases {
		var protected bool
		value := tc.value
		result := sandbox(ctx, func() {
			protected = guard.New().Protect(ctx, func() { panic(value) })
		})
		ctx.False(protected, "Protect returned true for %T", value)
		ctx.Equal([]string{"fault:" + tc.kind}, result.records(), "panic with %T", value)
		ctx.Equal(execution.Failed, result.status)
	}
}

func testAbortNotReportedTwice(ctx *execution.Context) {
	var protected bool
	result := sandbox(ctx, func() {
		protected = guard.New().Protect(ctx, func() { ctx.RequireTrue(false) })
	})
	ctx.False(protected)
	ctx.Equal([]string{"assertion"}, result.records())
}

func testCustomHandler(ctx *execution.Context) {
	chain := guard.New()
	chain.Add(guard.Recognize("overloaded", func(o overloaded) string { return o.reason }))
	ctx.Equal(2, chain.Len())

	result := sandbox(ctx, func() {
		chain.Protect(ctx, func() { panic(overloaded{"too many requests"}) })
		chain.Protect(ctx, func() { panic("not handled by the custom handler") })
	})
	ctx.Equal([]string{"fault:overloaded", "fault:" + guard.KindPanic}, result.records())
	records := result.sink.Records()
	if ctx.Equal(2, len(records)) {
		ctx.Equal([]string{"too many requests"}, records[0].Detail.Messages())
	}

	chain.RemoveLastAdded()
	ctx.Equal(1, chain.Len())
}

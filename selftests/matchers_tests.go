package selftests

import (
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	m "github.com/launchdarkly/unit-test-engine/framework/matchers"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

func registerMatcherTests(s suite.Suite) {
	fast := suite.WithGroups("matchers", "fast")
	s.Add(
		suite.Func("equal", testMatcherEqual, fast),
		suite.Func("combinators", testMatcherCombinators, fast),
		suite.Func("require that", testRequireThat, fast),
	)
}

func testMatcherEqual(ctx *execution.Context) {
	m.AssertThat(ctx, 3, m.Equal(3))
	m.AssertThat(ctx, []string{"b", "a"}, m.ItemsInAnyOrder(m.Equal("a"), m.Equal("b")))

	result := sandbox(ctx, func() {
		m.AssertThat(ctx, 4, m.Equal(3))
	})
	records := result.sink.Records()
	if ctx.Equal(1, len(records)) {
		entries := records[0].Detail.Data()
		if ctx.Equal(2, len(entries)) {
			ctx.Equal("expected", entries[0].Name)
			ctx.Equal(`"equal to 3"`, entries[0].Value.JSONString())
			ctx.Equal("actual", entries[1].Name)
			ctx.Equal(`"4"`, entries[1].Value.JSONString())
		}
	}
}

func testMatcherCombinators(ctx *execution.Context) {
	positive := m.Transform("sign", func(v interface{}) interface{} { return v.(int) > 0 }).
		EnsureInputValueType(0).Should(m.Equal(true))
	even := m.Transform("parity", func(v interface{}) interface{} { return v.(int) % 2 }).
		EnsureInputValueType(0).Should(m.Equal(0))

	m.AssertThat(ctx, 4, m.AllOf(positive, even))
	m.AssertThat(ctx, 3, m.AnyOf(positive, even))
	m.AssertThat(ctx, -3, m.Not(m.AnyOf(positive, even)))

	r := m.AllOf(positive, even).Evaluate(-3)
	ctx.False(r.Passed())
	ctx.Equal(2, len(r.Composites()))
	r = m.AllOf(positive, even).Evaluate(3)
	ctx.Equal(1, len(r.Composites()))
}

func testRequireThat(ctx *execution.Context) {
	reached := false
	result := sandbox(ctx, func() {
		m.RequireThat(ctx, "a", m.Equal("b"))
		reached = true
	})
	ctx.False(reached, "RequireThat did not unwind")
	ctx.Equal(execution.Failed, result.status)
}

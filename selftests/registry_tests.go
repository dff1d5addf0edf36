package selftests

import (
	"bytes"
	"fmt"
	"time"

	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/helpers"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

func registerRegistryTests(s suite.Suite) {
	fast := suite.WithGroups("registry", "fast")
	s.Add(
		suite.Func("nested suite with one test", testNestedSuite, fast),
		suite.Func("reparent orphan", testReparentOrphan, fast),
		suite.Func("self parenting is misuse", testSelfParenting, fast),
		suite.Func("dump", testDump, fast),
		suite.Func("registration from another goroutine", testRegistrationFromAnotherGoroutine, fast),
		configured("concurrent registration", "concurrency.yaml", testConcurrentRegistration),
	)
}

func testNestedSuite(ctx *execution.Context) {
	r := suite.NewRegistry()
	root := r.AddRootSuite("")
	root.MakeNestedSuite("Math").Add(suite.Func("add", nil))

	if ctx.Equal(1, root.NestedSuiteCount()) {
		math := root.NestedSuiteAt(0)
		ctx.Equal("Math", math.Name())
		if ctx.Equal(1, math.TestCaseCount()) {
			ctx.Equal("add", math.TestCaseAt(0).Name())
		}
	}
}

func testReparentOrphan(ctx *execution.Context) {
	r := suite.NewRegistry()
	p := r.AddRootSuite("p")
	o := r.CreateOrphanedSuite("o")
	_, hasParent := o.Parent()
	ctx.False(hasParent)
	ctx.Equal(1, len(r.Orphans()))

	r.Reparent(p, o)

	parent, hasParent := o.Parent()
	ctx.RequireTrue(hasParent)
	ctx.Equal(p.ID(), parent.ID())
	ctx.Equal(0, len(r.Orphans()))
	ctx.Equal(1, p.NestedSuiteCount())
	ctx.Equal("p/o", o.Path())
}

func testSelfParenting(ctx *execution.Context) {
	r := suite.NewRegistry()
	s := r.AddRootSuite("s")
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		r.Reparent(s, s)
	}()
	_, isMisuse := recovered.(suite.MisuseError)
	ctx.True(isMisuse, "expected a MisuseError, got %v", recovered)
	_, hasParent := s.Parent()
	ctx.True(hasParent)
}

func testDump(ctx *execution.Context) {
	r := suite.NewRegistry()
	r.AddRootSuite("a/b").Add(suite.Func("t", nil))

	var buf bytes.Buffer
	ctx.RequireNoError(r.Dump(&buf))
	ctx.Equal("suite:/\n  suite:a/\n    suite:a/b/\n      test: a/b/t\n", buf.String())
}

func testRegistrationFromAnotherGoroutine(ctx *execution.Context) {
	r := suite.NewRegistry()
	target := r.AddRootSuite("target")
	go func() {
		target.Add(suite.Func("late", nil))
	}()
	helpers.RequireEventually(ctx, func() bool { return target.TestCaseCount() == 1 },
		time.Second, time.Millisecond, "test added on another goroutine never became visible")
	ctx.Equal("late", target.TestCaseAt(0).Name())
}

func testConcurrentRegistration(ctx *execution.Context, c suite.Config) {
	goroutines := c.Data().GetByKey("goroutines").IntValue()
	perGoroutine := c.Data().GetByKey("suitesPerGoroutine").IntValue()

	r := suite.NewRegistry()
	done := make(chan int, goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			for j := 0; j < perGoroutine; j++ {
				r.AddRootSuite("shared").Add(suite.Func(fmt.Sprintf("t%d-%d", i, j), nil))
				o := r.CreateOrphanedSuite(fmt.Sprintf("o%d-%d", i, j))
				r.Reparent(r.AddRootSuite("shared"), o)
			}
			done <- i
		}(i)
	}
	for i := 0; i < goroutines; i++ {
		helpers.RequireValueWithMessage(ctx, done, c.Timeout(), "timed out waiting for registering goroutines")
	}
	helpers.RequireNoMoreValues(ctx, done, time.Millisecond)

	shared := r.AddRootSuite("shared")
	ctx.Equal(goroutines*perGoroutine, shared.TestCaseCount())
	ctx.Equal(goroutines*perGoroutine, shared.NestedSuiteCount())
	ctx.Equal(0, len(r.Orphans()))
}

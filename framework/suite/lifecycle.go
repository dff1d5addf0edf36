package suite

import (
	"io"
	"reflect"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/guard"
	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

// RunTest runs the test with a guard chain containing only the base handler. See RunTestWith.
func (d *Descriptor) RunTest(ctx *execution.Context) bool {
	return d.RunTestWith(ctx, guard.New())
}

// RunTestWith runs one instance of the test on ctx, protecting every call into test code with
// chain. The status and counters of ctx are reset first, and hold the outcome afterward.
//
// The phases are: create the instance; SetUp; if SetUp completed, Run and then TearDown
// (TearDown runs even if Run failed); close the instance. A failed non-aborting check in SetUp
// does not stop the later phases, but a failed aborting check, a skip or a panic does.
//
// It returns true unless the test failed; a skipped test returns true.
func (d *Descriptor) RunTestWith(ctx *execution.Context, chain *guard.Chain) bool {
	ctx.Begin()

	var instance Runnable
	var factoryErr error
	chain.Protect(ctx, func() {
		instance, factoryErr = d.factory()
	})
	if factoryErr != nil || isNilRunnable(instance) {
		if ctx.Status() != execution.Failed {
			if factoryErr != nil {
				ctx.Fail("test %q could not be instantiated: %s", d.name, factoryErr)
			} else {
				ctx.Fail("test %q could not be instantiated", d.name)
			}
		}
		return false
	}

	initialized := chain.Protect(ctx, func() { instance.SetUp(ctx) })
	if initialized {
		chain.Protect(ctx, func() { instance.Run(ctx) })
		chain.Protect(ctx, func() { instance.TearDown(ctx) })
	}

	if closer, ok := instance.(io.Closer); ok {
		chain.Protect(ctx, func() {
			if err := closer.Close(); err != nil {
				ctx.RecordFault(guard.KindError, o.None[check.Location](),
					check.Fail().Named("close").AppendMessage(err.Error()))
			}
		})
	}

	return ctx.Status() != execution.Failed
}

func isNilRunnable(r Runnable) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

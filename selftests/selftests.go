package selftests

import (
	"embed"
	"fmt"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

//go:embed configs
var configFiles embed.FS

// Register adds every self-test suite to the registry, under a suite named "engine".
func Register(r *suite.Registry) {
	engine := r.AddRootSuite("engine")
	registerCheckTests(engine.MakeNestedSuite("check"))
	registerExecutionTests(engine.MakeNestedSuite("execution"))
	registerGuardTests(engine.MakeNestedSuite("guard"))
	registerLifecycleTests(engine.MakeNestedSuite("lifecycle"))
	registerMatcherTests(engine.MakeNestedSuite("matchers"))

	// The registry suites are built detached and attached at the end, the same way a test
	// package that cannot know its final location would do it.
	registryTests := r.CreateOrphanedSuite("registry")
	registerRegistryTests(registryTests)
	r.Reparent(engine, registryTests)
}

// loadConfig loads one of the embedded configuration files. They are part of the binary, so a
// malformed one is a programming error.
func loadConfig(name string) suite.Config {
	data, err := configFiles.ReadFile("configs/" + name)
	if err != nil {
		panic(fmt.Errorf("missing self-test configuration %q: %w", name, err))
	}
	c, err := suite.ParseConfig(data)
	if err != nil {
		panic(fmt.Errorf("bad self-test configuration %q: %w", name, err))
	}
	return c
}

// configured creates a test whose configuration comes from an embedded file, and whose body
// receives that configuration.
func configured(
	name, configFile string,
	fn func(ctx *execution.Context, c suite.Config),
) *suite.Descriptor {
	c := loadConfig(configFile)
	return suite.Func(name, func(ctx *execution.Context) {
		fn(ctx, c)
	}, suite.WithConfig(c))
}

// sandbox runs action with a fresh status on ctx, and returns what it accumulated along with
// everything it reported.
type sandboxed struct {
	status   execution.Status
	counters execution.Counters
	sink     *check.RecordingSink
}

func sandbox(ctx *execution.Context, action func()) sandboxed {
	sink := &check.RecordingSink{}
	status, counters := ctx.Sandbox(sink, action)
	return sandboxed{status: status, counters: counters, sink: sink}
}

// records returns the kinds of the records that were reported, with the fault kind for faults.
func (s sandboxed) records() []string {
	var ret []string
	for _, r := range s.sink.Records() {
		kind := string(r.Kind)
		if r.FaultKind != "" {
			kind += ":" + r.FaultKind
		}
		if r.Ignored {
			kind += ":ignored"
		}
		ret = append(ret, kind)
	}
	return ret
}

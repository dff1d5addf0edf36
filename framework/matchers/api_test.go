package matchers

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

type decoratedString string

func (s decoratedString) String() string { return decorate(string(s)) }

func decorate(value interface{}) string { return fmt.Sprintf("Hi, I'm '%s'", value.(string)) }

func assertPasses(t *testing.T, value interface{}, m Matcher) {
	pass, desc := m.Test(value)
	assert.True(t, pass)
	assert.Equal(t, "", desc)
}

func assertFails(t *testing.T, value interface{}, m Matcher, expectedDesc string) {
	pass, desc := m.Test(value)
	assert.False(t, pass)
	assert.Equal(t, expectedDesc, desc)
}

func TestSimpleMatcher(t *testing.T) {
	m := New(
		func(value interface{}) bool { return value == "good" },
		func(interface{}, DescribeValueFunc) string { return "should be good" },
	)
	assertPasses(t, "good", m)
	assertFails(t, "bad", m, "expected: should be good\nactual value was: bad")
}

func TestMatcherValueDescriptionUsesStringer(t *testing.T) {
	m := New(
		func(value interface{}) bool { return value == decoratedString("good") },
		func(interface{}, DescribeValueFunc) string { return "should be good" },
	)
	assertFails(t, decoratedString("bad"), m,
		fmt.Sprintf("expected: should be good\nactual value was: %s", decorate("bad")))
}

func newContext() (*execution.Context, *check.RecordingSink) {
	sink := &check.RecordingSink{}
	return execution.NewContext(sink), sink
}

func TestAssertThat(t *testing.T) {
	ctx1, sink1 := newContext()
	assert.True(t, AssertThat(ctx1, 2, Equal(2)))
	assert.Equal(t, execution.Passed, ctx1.Status())
	assert.Len(t, sink1.Records(), 0)

	ctx2, sink2 := newContext()
	assert.False(t, AssertThat(ctx2, 3, Equal(2)))
	assert.False(t, AssertThat(ctx2, 4, Equal(2)))
	assert.Equal(t, execution.Counters{Assertions: 2, FailedAssertions: 2}, ctx2.Counters())
	records := sink2.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "check: equal\npredicate expected: \"equal to 2\"\ndiagnostic actual: \"3\"",
		records[0].Detail.String())
	assert.Contains(t, records[1].Detail.String(), `diagnostic actual: "4"`)

	location, ok := records[0].Location.Get()
	require.True(t, ok)
	assert.Equal(t, "api_test.go", filepath.Base(location.File))
}

func TestRequireThat(t *testing.T) {
	ctx, sink := newContext()
	defer func() {
		r := recover()
		require.True(t, execution.IsAbort(r))
		require.Len(t, sink.Records(), 1)
		assert.Contains(t, sink.Records()[0].Detail.String(), `diagnostic actual: "3"`)
		assert.Equal(t, 1, ctx.Counters().Assertions)
	}()
	RequireThat(ctx, 3, Equal(2))
	RequireThat(ctx, 4, Equal(2))
	t.Fatal("should have aborted")
}

func TestEvaluate(t *testing.T) {
	assert.True(t, Equal(3).Evaluate(3).Passed())

	r := Equal(3).Evaluate(4)
	assert.False(t, r.Passed())
	assert.JSONEq(t, `{
		"name": "equal",
		"message": [],
		"data": [
			{"type": "predicate", "name": "expected", "value": "equal to 3"},
			{"type": "diagnostic", "name": "actual", "value": "4"}
		],
		"composite": []
	}`, r.JSONString())
}

func TestEnsureType(t *testing.T) {
	m := New(
		func(value interface{}) bool { return value == "good" },
		func(interface{}, DescribeValueFunc) string { return "should be good" },
	)
	assertPasses(t, "good", m)
	assertFails(t, 3, m, "expected: should be good\nactual value was: 3")

	m1 := m.EnsureType("example string")
	assertPasses(t, "good", m1)
	assertFails(t, "bad", m1, "expected: should be good\nactual value was: bad")
	assertFails(t, 3, m1, "expected: value of type string, was int\nactual value was: 3")

	m2 := m.EnsureType(nil) // no-op
	assertPasses(t, "good", m2)
	assertFails(t, 3, m2, "expected: should be good\nactual value was: 3")
}

func TestWithValueDescription(t *testing.T) {
	m := New(
		func(value interface{}) bool { return value == "good" },
		func(value interface{}, desc DescribeValueFunc) string {
			return fmt.Sprintf("should be %s", desc("good"))
		},
	).WithValueDescription(decorate)

	assertPasses(t, "good", m)
	assertFails(t, "bad", m,
		fmt.Sprintf("expected: should be %s\nactual value was: %s", decorate("good"), decorate("bad")))
}

func TestEnsureTypeKeepsStructuredResult(t *testing.T) {
	longerThan := func(n int) Matcher {
		return New(
			func(value interface{}) bool { return len(value.(string)) > n },
			func(interface{}, DescribeValueFunc) string { return fmt.Sprintf("longer than %d", n) },
		)
	}

	t.Run("allOf", func(t *testing.T) {
		m := AllOf(longerThan(1), longerThan(5)).EnsureType("")

		r := m.Evaluate("abc")
		assert.False(t, r.Passed())
		assert.Equal(t, "allOf", r.Name().Value())
		composites := r.Composites()
		require.Len(t, composites, 1)
		assert.Equal(t, "1", composites[0].Name)

		wrongType := m.Evaluate(3)
		assert.False(t, wrongType.Passed())
		assert.Equal(t, "allOf", wrongType.Name().Value())
		assert.Len(t, wrongType.Composites(), 0)
		assert.Contains(t, wrongType.String(), "value of type string, was int")
	})

	t.Run("itemsInAnyOrder", func(t *testing.T) {
		m := ItemsInAnyOrder(Equal(1), Equal(3)).EnsureType([]int{})

		r := m.Evaluate([]int{1, 2})
		assert.Equal(t, "itemsInAnyOrder", r.Name().Value())
		data := r.Data()
		require.Len(t, data, 4)
		assert.Equal(t, "unmatched", data[3].Name)
		assert.Equal(t, "[1]", data[3].Value.JSONString())

		assert.Len(t, m.Evaluate([]string{"1", "3"}).Data(), 2)
	})

	t.Run("not", func(t *testing.T) {
		m := Not(Equal(3)).EnsureType(0)
		assert.Equal(t, "not", m.Evaluate(3).Name().Value())
		assertPasses(t, 4, m)
	})

	t.Run("value description", func(t *testing.T) {
		m := Equal("good").WithValueDescription(decorate).EnsureType("")
		r := m.Evaluate("bad")
		assert.Contains(t, r.String(), decorate("bad"))
	})
}

// Package matchers provides a flexible test assertion API similar to Java's Hamcrest. Matchers are
// constructed separately from the values being tested, and can then be applied to any value, or
// negated, or combined in various ways.
//
// Evaluating a matcher produces a check.Result: a failure carries the expectation as an
// "expected" predicate entry and the tested value as an "actual" diagnostic entry, and the
// failures of combined matchers are kept as composite sub-results. Use AssertThat or
// RequireThat to record the result on an execution.Context.
//
// All matchers take values of type interface{} and must explicitly cast the type if needed. The
// simplest way to provide type safety is to use Matcher.EnsureType().
package matchers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

// TestFunc is a function used in defining a new Matcher. It returns true if the value passes
// the test or false for failure.
type TestFunc func(value interface{}) bool

// DescribeFailureFunc is a function used in defining a new Matcher. Given the value that was
// tested, and assuming that the test failed, it returns a descriptive string.
//
// For simple conditions, this can just be a description of the test expectation (like, "equal
// to 3"); a description of the actual value will always be appended automatically. But it can
// use the value parameter if that will help to narrow down the nature of the failure.
//
// The second parameter is the function to use for making a string description of a value of
// the expected type.
type DescribeFailureFunc func(value interface{}, describeValueFunc DescribeValueFunc) string

// DescribeValueFunc is a function that can optionally be added to a Matcher. It returns a
// string description of the value. If you don't provide one, the default logic is
// DefaultDescription.
type DescribeValueFunc func(value interface{}) string

// Matcher is a general mechanism for declaring expectations about a value. Expectations can be combined,
// and they self-describe on failure.
type Matcher struct {
	name                 string
	maybeTest            TestFunc
	maybeDescribeFailure DescribeFailureFunc
	maybeDescribeValue   DescribeValueFunc
	parts                []Matcher
	detail               func(value interface{}, r *check.Result)
	expectedTypes        []interface{}
}

// New creates a Matcher.
func New(test TestFunc, describeFailure DescribeFailureFunc) Matcher {
	return Matcher{maybeTest: test, maybeDescribeFailure: describeFailure}
}

// Test executes the expectation for a specific value. It returns true if the value passes the
// test or false for failure, plus a string describing the expectation that failed.
func (m Matcher) Test(value interface{}) (pass bool, failDescription string) {
	if m.test(value) {
		return true, ""
	}
	testDesc := m.describeFailure(value, m.describeValue)
	return false, fmt.Sprintf("expected: %s\nactual value was: %s", testDesc, m.describeValue(value))
}

// Evaluate executes the expectation for a specific value and describes the outcome as a
// check.Result. For a combined matcher, the results of the parts that failed are included as
// composite sub-results named by their position.
func (m Matcher) Evaluate(value interface{}) *check.Result {
	if m.test(value) {
		return check.Pass()
	}
	r := check.Fail().
		Predicate("expected", ldvalue.String(m.describeFailure(value, m.describeValue))).
		Diagnostic("actual", ldvalue.String(m.describeValue(value)))
	if m.name != "" {
		r.Named(m.name)
	}
	if m.wrongType(value) {
		return r
	}
	for i, part := range m.parts {
		r.Compose(strconv.Itoa(i), part.Evaluate(value))
	}
	if m.detail != nil {
		m.detail(value, r)
	}
	return r
}

// wrongType reports whether value fails any type guard added with EnsureType. The parts and
// detail of such a matcher are not evaluated, since they may cast the value.
func (m Matcher) wrongType(value interface{}) bool {
	for _, t := range m.expectedTypes {
		if reflect.TypeOf(value) != reflect.TypeOf(t) {
			return true
		}
	}
	return false
}

// Named sets the predicate name reported when the matcher fails.
func (m Matcher) Named(name string) Matcher {
	ret := m
	ret.name = name
	return ret
}

// withDetail adds a function that contributes extra entries or sub-results to a failed
// evaluation.
func (m Matcher) withDetail(detail func(value interface{}, r *check.Result)) Matcher {
	ret := m
	ret.detail = detail
	return ret
}

func (m Matcher) test(value interface{}) bool {
	if m.maybeTest == nil {
		return true
	}
	return m.maybeTest(value)
}

func (m Matcher) describeFailure(value interface{}, describeValue DescribeValueFunc) string {
	if m.maybeDescribeFailure == nil {
		return "no test description given"
	}
	return m.maybeDescribeFailure(value, describeValue)
}

func (m Matcher) describeValue(value interface{}) string {
	if m.maybeDescribeValue != nil {
		return m.maybeDescribeValue(value)
	}
	return DefaultDescription(value)
}

// Assert is for use with the testify/assert package (or any API with a compatible interface). It
// tests a value and, on failure, calls assert.Fail with the appropriate message.
func (m Matcher) Assert(t assert.TestingT, value interface{}) bool {
	if pass, desc := m.Test(value); !pass {
		assert.Fail(t, desc)
		return false
	}
	return true
}

// Require is for use with the testify/require package (or any API with a compatible interface). It
// tests a value and, on failure, calls require.Fail with the appropriate message.
func (m Matcher) Require(t require.TestingT, value interface{}) bool {
	if pass, desc := m.Test(value); !pass {
		require.Fail(t, desc)
		return false
	}
	return true
}

// AssertThat tests a value and records the outcome on ctx as a non-aborting check. It returns
// true if the value passed.
func AssertThat(ctx *execution.Context, value interface{}, m Matcher) bool {
	ctx.Helper()
	return ctx.Check(m.Evaluate(value))
}

// RequireThat tests a value and records the outcome on ctx as an aborting check: if the value
// fails, the current lifecycle phase ends.
func RequireThat(ctx *execution.Context, value interface{}, m Matcher) {
	ctx.Helper()
	ctx.Require(m.Evaluate(value))
}

// EnsureType adds type safety to a matcher. The valueOfType parameter should be any value of the
// expected type. The returned Matcher will guarantee that the value is of that type before calling
// the original test function, so it is safe for the test function to cast the value.
func (m Matcher) EnsureType(valueOfType interface{}) Matcher {
	if valueOfType == nil {
		return m
	}
	ret := m
	ret.maybeTest = func(value interface{}) bool {
		if reflect.TypeOf(value) != reflect.TypeOf(valueOfType) {
			return false
		}
		return m.test(value)
	}
	ret.maybeDescribeFailure = func(value interface{}, _ DescribeValueFunc) string {
		if reflect.TypeOf(value) != reflect.TypeOf(valueOfType) {
			return fmt.Sprintf("value of type %T, was %T", valueOfType, value)
		}
		return m.describeFailure(value, m.describeValue)
	}
	ret.expectedTypes = append(append([]interface{}(nil), m.expectedTypes...), valueOfType)
	return ret
}

// WithValueDescription adds custom behavior for rendering the input value as a string in
// failure messages. If not specified, the default behavior is DefaultDescription. Another
// useful behavior is JSONDescription.
func (m Matcher) WithValueDescription(describeValue DescribeValueFunc) Matcher {
	ret := m
	ret.maybeDescribeValue = describeValue
	return ret
}

// DefaultDescription is the default behavior for rendering an input value as a string in
// failure messages. It checks whether the value implements the fmt.Stringer interface, and
// if so, calls its String method. If not, it calls fmt.Sprintf with the "%+v" format.
func DefaultDescription(value interface{}) string {
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%+v", value)
}

// JSONDescription is an optional behavior that can be passed to WithValueDescription. It
// renders the input value by calling JSON.Marshal on it.
func JSONDescription(value interface{}) string {
	data, _ := json.Marshal(value)
	return string(data)
}

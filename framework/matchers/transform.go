package matchers

import (
	"github.com/launchdarkly/unit-test-engine/framework/check"
)

// MatcherTransform is a combinator that allows an input value to be transformed to some
// other value (possibly of a different type) before being tested by other Matchers.
//
// For instance, this could be used to access a field inside a struct. Assuming there is a
// struct type S with a field F:
//
//	SF := matchers.Transform("F",
//	    func(value interface{}) interface{} { return value.(S).F })
//	matchers.AssertThat(ctx, someInstanceOfS, SF.Should(Equal(3)))
//
// If someInstanceOfS.F was really 4, the failure describes the expectation as "F equal to 3"
// with the whole input value as the actual value, and the result of Equal(3) on the field is
// attached as a composite sub-result named "F".
type MatcherTransform struct {
	name                string
	getValue            func(interface{}) interface{}
	expectedType        interface{}
	describeInputValue  DescribeValueFunc
	describeOutputValue DescribeValueFunc
}

// Transform creates a MatcherTransform. The name is a brief description of the output value
// in relation to the input value, such as a field name; it is prefixed to the description of
// any Matcher used with Should().
func Transform(
	name string,
	getValue func(interface{}) interface{},
) MatcherTransform {
	return MatcherTransform{name: name, getValue: getValue}
}

// EnsureInputValueType is the equivalent of Matcher.EnsureType for the input value.
//
//	stringLength := matchers.Transform("string length",
//	    func(value interface{}) interface{} { return len(value.(string)) }).
//	    EnsureInputValueType("")
func (mt MatcherTransform) EnsureInputValueType(valueOfType interface{}) MatcherTransform {
	mt.expectedType = valueOfType
	return mt
}

// WithInputValueDescription sets the formatting of the original value in failure messages.
func (mt MatcherTransform) WithInputValueDescription(desc DescribeValueFunc) MatcherTransform {
	mt.describeInputValue = desc
	return mt
}

// WithOutputValueDescription sets the formatting of the transformed value in failure messages.
func (mt MatcherTransform) WithOutputValueDescription(desc DescribeValueFunc) MatcherTransform {
	mt.describeOutputValue = desc
	return mt
}

// Should applies a Matcher to the transformed value. That is, assuming that this MatcherTransform
// converts an A value into a B value, mt.Should(Equal(3)) returns a Matcher that takes A,
// converts it to B, and applies Equal(3) to B.
func (mt MatcherTransform) Should(matcher Matcher) Matcher {
	if mt.getValue == nil {
		mt.getValue = func(value interface{}) interface{} { return value }
	}
	if mt.name == "" {
		mt.name = "[unspecified name - wrong use of matchers.MatcherTransform]"
	}
	inner := matcher
	if mt.describeOutputValue != nil {
		inner = inner.WithValueDescription(mt.describeOutputValue)
	}
	return New(
		func(value interface{}) bool {
			return matcher.test(mt.getValue(value))
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return mt.name + " " + matcher.describeFailure(mt.getValue(value), inner.describeValue)
		},
	).EnsureType(mt.expectedType).
		WithValueDescription(mt.describeInputValue).
		Named("transform").
		withDetail(func(value interface{}, r *check.Result) {
			r.Compose(mt.name, inner.Evaluate(mt.getValue(value)))
		})
}

package execution

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/launchdarkly/unit-test-engine/framework/check"
)

var errorTraceInMessageRegex = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

// Errorf records a failed non-aborting check with the given message. It is part of this
// type's implementation of assert.TestingT, allowing testify assertions to report through
// the engine; any stacktrace that testify adds to the message is stripped, since records are
// located by the engine itself.
func (c *Context) Errorf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if strings.Contains(message, "Error Trace:") {
		message = strings.TrimSpace(errorTraceInMessageRegex.ReplaceAllLiteralString(message, ""))
	}
	c.Record(check.Fail().AppendMessage(message), false)
}

// FailNow forces the test to Failed and ends the current lifecycle phase. It is part of this
// type's implementation of require.TestingT.
func (c *Context) FailNow() {
	c.current.status = Failed
	panic(abortSignal{})
}

var _ assert.TestingT = (*Context)(nil)

// True checks that value is true.
func (c *Context) True(value bool, msgAndArgs ...interface{}) bool {
	return c.Check(boolResult(true, value, msgAndArgs))
}

// RequireTrue is the aborting form of True.
func (c *Context) RequireTrue(value bool, msgAndArgs ...interface{}) {
	c.Require(boolResult(true, value, msgAndArgs))
}

// False checks that value is false.
func (c *Context) False(value bool, msgAndArgs ...interface{}) bool {
	return c.Check(boolResult(false, value, msgAndArgs))
}

// RequireFalse is the aborting form of False.
func (c *Context) RequireFalse(value bool, msgAndArgs ...interface{}) {
	c.Require(boolResult(false, value, msgAndArgs))
}

// Equal checks that two values are equal according to testify's ObjectsAreEqual.
func (c *Context) Equal(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	return c.Check(EqualResult(expected, actual, msgAndArgs...))
}

// RequireEqual is the aborting form of Equal.
func (c *Context) RequireEqual(expected, actual interface{}, msgAndArgs ...interface{}) {
	c.Require(EqualResult(expected, actual, msgAndArgs...))
}

// NoError checks that err is nil.
func (c *Context) NoError(err error, msgAndArgs ...interface{}) bool {
	return c.Check(noErrorResult(err, msgAndArgs))
}

// RequireNoError is the aborting form of NoError.
func (c *Context) RequireNoError(err error, msgAndArgs ...interface{}) {
	c.Require(noErrorResult(err, msgAndArgs))
}

// EqualResult evaluates an equality check without recording it.
func EqualResult(expected, actual interface{}, msgAndArgs ...interface{}) *check.Result {
	r := check.New(assert.ObjectsAreEqual(expected, actual)).Named("equal")
	if !r.Passed() {
		r.PredicateOf("expected", expected).DiagnosticOf("actual", actual)
		appendUserMessage(r, msgAndArgs)
	}
	return r
}

func boolResult(expected, actual bool, msgAndArgs []interface{}) *check.Result {
	r := check.New(expected == actual).Named(fmt.Sprintf("%t", expected))
	if !r.Passed() {
		r.PredicateOf("expected", expected).DiagnosticOf("actual", actual)
		appendUserMessage(r, msgAndArgs)
	}
	return r
}

func noErrorResult(err error, msgAndArgs []interface{}) *check.Result {
	r := check.New(err == nil).Named("no error")
	if err != nil {
		r.DiagnosticOf("error", err.Error())
		appendUserMessage(r, msgAndArgs)
	}
	return r
}

func appendUserMessage(r *check.Result, msgAndArgs []interface{}) {
	if len(msgAndArgs) == 0 {
		return
	}
	if format, ok := msgAndArgs[0].(string); ok {
		r.AppendMessage(format, msgAndArgs[1:]...)
		return
	}
	r.AppendMessage(fmt.Sprint(msgAndArgs...))
}

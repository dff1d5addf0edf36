// Package guard implements the chain of panic-translating handlers that protects every call
// the engine makes into test code.
package guard

import (
	"fmt"
	"runtime/debug"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

// Fault kinds assigned by the base handler.
const (
	// KindError is used when the panic value is an error.
	KindError = "error"
	// KindPanic is used when the panic value is a string or a fmt.Stringer.
	KindPanic = "panic"
	// KindUnknown is used for any other panic value.
	KindUnknown = "unknown"
)

// Handler is one element of a Chain. A handler must either call call.ChainCall() to pass
// control to the next handler (or, at the end of the chain, to the protected operation), or
// translate a panic it recognizes by recovering it and calling call.SetExceptionFault. A
// panic it does not recognize should be raised again so that outer handlers can see it.
type Handler func(call *Call)

// Chain is an ordered stack of handlers. The base handler is always present in the outermost
// position; handlers added later sit closer to the protected operation.
//
// A Chain is not safe for concurrent mutation. Handlers must be removed in the reverse order
// they were added.
type Chain struct {
	handlers []Handler
}

// New creates a Chain containing only the base handler.
func New() *Chain {
	return &Chain{handlers: []Handler{Base}}
}

// Add pushes a new innermost handler.
func (ch *Chain) Add(h Handler) {
	ch.handlers = append(ch.handlers, h)
}

// RemoveLastAdded pops the innermost handler. Removing the base handler is a programming
// error and panics.
func (ch *Chain) RemoveLastAdded() {
	if len(ch.handlers) <= 1 {
		panic("guard: RemoveLastAdded called with no added handlers")
	}
	ch.handlers = ch.handlers[:len(ch.handlers)-1]
}

// Len returns the number of handlers, including the base handler.
func (ch *Chain) Len() int {
	return len(ch.handlers)
}

// Protect runs op through the chain, recording faults on ctx. It returns true if op returned
// normally and no fault was recorded; it returns false if op panicked for any reason,
// including the abort and skip signals of the execution context.
func (ch *Chain) Protect(ctx *execution.Context, op func()) bool {
	call := &Call{
		handlers: append([]Handler(nil), ch.handlers...),
		ctx:      ctx,
		op:       op,
	}
	call.ChainCall()
	return call.completed && !call.faulted
}

// Call is the state of one protected invocation as it travels through a Chain.
type Call struct {
	handlers  []Handler
	next      int
	ctx       *execution.Context
	op        func()
	completed bool
	faulted   bool
	handled   bool
	skipped   bool
}

// Context returns the execution context that faults are recorded on.
func (c *Call) Context() *execution.Context { return c.ctx }

// ChainCall delegates to the next handler, or runs the protected operation if every handler
// has been entered.
func (c *Call) ChainCall() {
	if c.next < len(c.handlers) {
		h := c.handlers[c.next]
		c.next++
		h(c)
		return
	}
	c.op()
	c.completed = true
}

// SetExceptionFault records a translated panic as a fault. It should be called from the
// deferred function that recovered the panic, so that the location of the panic and the
// stack trace can still be captured.
func (c *Call) SetExceptionFault(kind, message string) {
	c.faulted = true
	detail := check.Fail().Named(kind).AppendMessage(message).
		DiagnosticOf("stacktrace", string(debug.Stack()))
	c.ctx.RecordFault(kind, execution.PanicLocation(), detail)
}

// Faulted returns true if a fault has been recorded for this call.
func (c *Call) Faulted() bool { return c.faulted }

// Aborted returns true if the operation was unwound by a failed aborting check.
func (c *Call) Aborted() bool { return c.handled }

// Skipped returns true if the operation was unwound by a skip request.
func (c *Call) Skipped() bool { return c.skipped }

// Base is the outermost handler of every Chain. It recognizes the engine's own signals (an
// aborting check that has already been reported, or a skip) and otherwise records a fault
// whose kind depends on the panic value.
func Base(call *Call) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch {
		case execution.IsAbort(r):
			call.handled = true
		case execution.IsSkip(r):
			call.skipped = true
		default:
			kind, message := Classify(r)
			call.SetExceptionFault(kind, message)
		}
	}()
	call.ChainCall()
}

// Classify returns the fault kind and message the base handler uses for a panic value.
func Classify(recovered interface{}) (kind, message string) {
	switch v := recovered.(type) {
	case error:
		return KindError, v.Error()
	case string:
		return KindPanic, v
	case fmt.Stringer:
		return KindPanic, v.String()
	default:
		return KindUnknown, fmt.Sprintf("panic with value of unrecognized type %T", recovered)
	}
}

// Recognize returns a Handler that translates panics whose value has type T into faults of
// the given kind, and raises any other panic again for the outer handlers.
func Recognize[T any](kind string, describe func(T) string) Handler {
	return func(call *Call) {
		defer func() {
			if r := recover(); r != nil {
				if v, ok := r.(T); ok {
					call.SetExceptionFault(kind, describe(v))
					return
				}
				panic(r)
			}
		}()
		call.ChainCall()
	}
}

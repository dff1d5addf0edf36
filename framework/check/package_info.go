// Package check contains the structured result model shared by every part of the engine.
//
// A Result is the outcome of evaluating one predicate. It carries ordered messages and
// ordered data entries, each tagged as either the predicate (expected) side or the
// diagnostic (actual) side, and it can be composed from named sub-results. When a check
// fails, the execution context wraps its Result in a Record and delivers it to a Sink.
package check

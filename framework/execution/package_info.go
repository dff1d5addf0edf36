// Package execution contains the per-goroutine execution context of a running test: its
// status state machine, its assertion counters, the sink that receives its records, and the
// scoped overrides used to sandbox self-tests and to ignore expected failures.
//
// A Context is not safe for concurrent use. Each goroutine that runs tests owns its own
// Context; tests running on different goroutines never share status or counters.
package execution

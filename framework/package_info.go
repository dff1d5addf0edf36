// Package framework contains the shared pieces of the unit-test execution engine: the Logger
// abstraction used for per-test debug output, and group tags used to select tests.
//
// The engine itself is split into subpackages:
//
// 1. check describes the outcome of a single check as a structured Result, and the records
// and log entries that are delivered to a reporting Sink.
//
// 2. execution holds the per-goroutine Context that tracks the status and counters of the
// test being run, and the signals used to end a lifecycle phase early.
//
// 3. guard runs operations inside a chain of handlers that turn unexpected panics into
// faults.
//
// 4. suite defines test descriptors, their lifecycle, and the registry of suites.
//
// 5. runner walks a registry and reports the outcome of every test to one or more
// TestLoggers.
package framework

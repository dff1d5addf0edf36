// Package suite contains the registry of test suites and the descriptors of the tests they
// hold, along with the lifecycle that runs one test.
//
// Suites form a tree rooted at a registry's top suite. Tests are usually registered from
// package init functions, possibly concurrently and in any order; every registry mutation is
// a single short critical section. A process-wide default registry is available through the
// package-level functions, but an explicit Registry can be created for isolation.
package suite

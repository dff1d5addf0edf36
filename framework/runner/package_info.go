// Package runner walks a suite registry and runs its tests, reporting progress and results
// to a TestLogger. It is one possible driver for the engine; the engine itself imposes no
// order or scheduling.
package runner

package execution

// The engine unwinds the current lifecycle phase by panicking with one of these values. They
// are never reported as faults; the guard chain recognizes them with IsAbort and IsSkip.

type abortSignal struct{}

type skipSignal struct{}

// IsAbort returns true if a recovered panic value is the signal raised by a failed aborting
// check. The failure has already been recorded when the signal is raised.
func IsAbort(recovered interface{}) bool {
	_, ok := recovered.(abortSignal)
	return ok
}

// IsSkip returns true if a recovered panic value is the signal raised by Skip.
func IsSkip(recovered interface{}) bool {
	_, ok := recovered.(skipSignal)
	return ok
}

package suite

import "sync"

var (
	defaultLock     sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide Registry, creating it on first use.
func Default() *Registry {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// Init replaces the process-wide Registry with an empty one. It is only needed to start over
// after Teardown.
func Init() {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	defaultRegistry = NewRegistry()
}

// Teardown tears down the process-wide Registry. Until Init is called again, any use of it
// panics with a MisuseError.
func Teardown() {
	Default().Teardown()
}

// AddRootSuite calls AddRootSuite on the process-wide Registry.
func AddRootSuite(path string) Suite {
	return Default().AddRootSuite(path)
}

// CreateOrphanedSuite calls CreateOrphanedSuite on the process-wide Registry.
func CreateOrphanedSuite(name string) Suite {
	return Default().CreateOrphanedSuite(name)
}

// Register adds test descriptors to the suite at path in the process-wide Registry. It is
// meant to be called from init functions:
//
//	func init() {
//		suite.Register("math/arithmetic",
//			suite.Func("add", testAdd),
//			suite.Func("subtract", testSubtract),
//		)
//	}
func Register(path string, descriptors ...*Descriptor) Suite {
	return Default().AddRootSuite(path).Add(descriptors...)
}

package suite

import (
	"github.com/launchdarkly/unit-test-engine/framework/execution"
)

// Runnable is one instance of a test. A new instance is created for every run, and each of
// its methods is called at most once. If the instance also implements io.Closer, Close is
// called after TearDown, even if an earlier phase failed.
type Runnable interface {
	SetUp(ctx *execution.Context)
	Run(ctx *execution.Context)
	TearDown(ctx *execution.Context)
}

// Factory creates a fresh Runnable. Returning an error or a nil Runnable fails the test.
type Factory func() (Runnable, error)

// Funcs adapts plain functions to the Runnable interface. Any of them may be nil.
type Funcs struct {
	SetUpFn    func(ctx *execution.Context)
	RunFn      func(ctx *execution.Context)
	TearDownFn func(ctx *execution.Context)
}

func (f Funcs) SetUp(ctx *execution.Context) {
	if f.SetUpFn != nil {
		f.SetUpFn(ctx)
	}
}

func (f Funcs) Run(ctx *execution.Context) {
	if f.RunFn != nil {
		f.RunFn(ctx)
	}
}

func (f Funcs) TearDown(ctx *execution.Context) {
	if f.TearDownFn != nil {
		f.TearDownFn(ctx)
	}
}

// Descriptor describes a runnable test: a name, a configuration, and the factory that
// creates instances of it. A Descriptor is immutable once created, and can be shared between
// goroutines; every run gets its own instance.
type Descriptor struct {
	name    string
	config  Config
	factory Factory
}

// NewDescriptor creates a Descriptor.
func NewDescriptor(name string, factory Factory, options ...Option) *Descriptor {
	d := &Descriptor{name: name, factory: factory}
	for _, opt := range options {
		opt(&d.config)
	}
	return d
}

// Func creates a Descriptor for a test that has no setup or teardown.
func Func(name string, fn func(ctx *execution.Context), options ...Option) *Descriptor {
	return NewDescriptor(name, func() (Runnable, error) {
		return Funcs{RunFn: fn}, nil
	}, options...)
}

func (d *Descriptor) Name() string { return d.name }

func (d *Descriptor) Config() Config { return d.config }

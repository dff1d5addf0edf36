package execution

import (
	"runtime"
	"strings"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	o "github.com/launchdarkly/unit-test-engine/framework/opt"
)

// Helper marks the function that calls it as a test helper, so that records are located at
// the helper's caller instead. Equivalent to Go's testing.T.Helper().
func (c *Context) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	if c.helperFns == nil {
		c.helperFns = make(map[string]struct{})
	}
	c.helperFns[f.Name()] = struct{}{}
}

// callerLocation finds the first stack frame outside of this package that is not a
// registered helper.
func (c *Context) callerLocation() o.Maybe[check.Location] {
	currentPackage := currentPackageName()
	for i := 1; ; i++ { // start at 1 because 0 would just be callerLocation itself
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		f := runtime.FuncForPC(pc)
		if f == nil {
			break
		}
		fullFunctionName := f.Name()
		packageName, functionName := parsePackageAndFunctionName(fullFunctionName)
		if packageName == currentPackage {
			continue
		}
		if _, isHelper := c.helperFns[fullFunctionName]; isHelper {
			continue
		}
		return o.Some(makeLocation(file, line, packageName, functionName))
	}
	return o.None[check.Location]()
}

// PanicLocation returns the location of the code that raised the panic currently being
// recovered. If a handler recovered a panic and raised it again, the original site is
// returned. It must be called from a deferred function while the panicking stack is still
// intact; otherwise it returns no location.
func PanicLocation() o.Maybe[check.Location] {
	pcs := make([]uintptr, 128)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	ret := o.None[check.Location]()
	afterPanic := false
	for {
		frame, more := frames.Next()
		switch {
		case frame.Function == "runtime.gopanic":
			afterPanic = true
			ret = o.None[check.Location]()
		case afterPanic && !strings.HasPrefix(frame.Function, "runtime."):
			packageName, functionName := parsePackageAndFunctionName(frame.Function)
			ret = o.Some(makeLocation(frame.File, frame.Line, packageName, functionName))
			afterPanic = false
		}
		if !more {
			break
		}
	}
	return ret
}

func makeLocation(file string, line int, packageName, functionName string) check.Location {
	parts := strings.Split(file, "/")
	return check.Location{
		File:     parts[len(parts)-1],
		Line:     line,
		Function: packageName + "." + functionName,
	}
}

func currentPackageName() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return "?"
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "?"
	}
	packageName, _ := parsePackageAndFunctionName(f.Name())
	return packageName
}

func parsePackageAndFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	firstDotAfterSlash := strings.Index(fullName[lastSlash+1:], ".")
	if firstDotAfterSlash < 0 {
		return fullName, ""
	}
	packageName := fullName[0 : lastSlash+firstDotAfterSlash+1]
	functionName := fullName[len(packageName)+1:]
	return packageName, functionName
}

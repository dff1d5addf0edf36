package suite

import "fmt"

// MisuseError is the panic value raised when the registry is used in a way that can only be a
// programming error, such as making a suite its own parent or registering tests after the
// registry has been torn down.
type MisuseError struct {
	Operation string
	Message   string
}

func (e MisuseError) Error() string {
	return fmt.Sprintf("suite registry misuse in %s: %s", e.Operation, e.Message)
}

func misuse(operation, format string, args ...interface{}) MisuseError {
	return MisuseError{Operation: operation, Message: fmt.Sprintf(format, args...)}
}

// Package selftests contains suites that exercise the engine through its own public API. Each
// test drives engine behavior inside a sandboxed execution context and then checks what was
// recorded, so a failure here means the engine itself is misbehaving.
package selftests

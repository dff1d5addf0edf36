package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/runner"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

func makeRegistry() *suite.Registry {
	r := suite.NewRegistry()
	r.AddRootSuite("a").Add(
		suite.Func("good", func(ctx *execution.Context) { ctx.True(true) }),
		suite.Func("bad (1)", func(ctx *execution.Context) { ctx.True(false) }),
	)
	return r
}

func TestRecordFailuresThenSkipThem(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	failuresFile := filepath.Join(dir, "failures.txt")

	var out bytes.Buffer
	results, err := run(makeRegistry(), commandParams{recordFailures: failuresFile}, &out)
	require.NoError(t, err)
	assert.False(t, results.OK())

	data, err := os.ReadFile(failuresFile)
	require.NoError(t, err)
	assert.Equal(t, "a/bad (1)\n", string(data))

	out.Reset()
	results, err = run(makeRegistry(), commandParams{skipFile: failuresFile}, &out)
	require.NoError(t, err)
	assert.True(t, results.OK())
	assert.Len(t, results.Tests, 1)
	assert.Contains(t, out.String(), "SKIPPED: a/bad (1) (excluded by filter parameters)")
	assert.Contains(t, out.String(), "All tests passed")
}

func TestJUnitOutput(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "out.xml")

	var out bytes.Buffer
	_, err := run(makeRegistry(), commandParams{jUnitFile: path}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testsuite tests="2" failures="1" skipped="0"`)
	assert.Contains(t, out.String(), "Writing JUnit data to "+path)
}

func TestMissingSuppressionFile(t *testing.T) {
	_, err := run(makeRegistry(), commandParams{skipFile: filepath.Join(t.TempDir(), "none")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSuppressionPattern(t *testing.T) {
	assert.Equal(t, `^a$/^b \(1\)$`, suppressionPattern("a/b (1)"))
}

func TestReadParams(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"prog", "-run", "engine", "-group", "fast,slow", "-debug", "-dump"}))
	assert.True(t, p.filters.MustMatch.IsDefined())
	assert.Equal(t, []string{"fast", "slow"}, []string(p.groups))
	assert.True(t, p.debug)
	assert.True(t, p.dump)
}

func TestRecordFailuresReportsWriteErrors(t *testing.T) {
	color.NoColor = true
	// A directory cannot be created as a file.
	_, err := run(makeRegistry(), commandParams{recordFailures: t.TempDir()}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot create suppression file")
}

func TestWriteFailuresToFullDevice(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	results := runner.Run(makeRegistry(), runner.Config{})
	require.Len(t, results.Failures, 1)

	err := writeFailures("/dev/full", results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot write suppression file")
}

func TestRunMainExitCodes(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	assert.Equal(t, 0, runMain([]string{"prog", "-dump"}, &out))
	assert.Contains(t, out.String(), "suite:engine/")
	assert.False(t, suite.Default().Valid())

	out.Reset()
	assert.Equal(t, 0, runMain([]string{"prog", "-run", "engine/check"}, &out))
	assert.Contains(t, out.String(), "All tests passed")
	assert.False(t, suite.Default().Valid())

	out.Reset()
	assert.Equal(t, 1, runMain([]string{"prog", "unexpected"}, &out))
}

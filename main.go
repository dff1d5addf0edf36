package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/unit-test-engine/framework"
	"github.com/launchdarkly/unit-test-engine/framework/runner"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
	"github.com/launchdarkly/unit-test-engine/selftests"
)

const versionString = "1.0.0"

func main() {
	os.Exit(runMain(os.Args, os.Stdout))
}

// runMain does the work of main and returns the process exit code, so that the default
// registry is torn down on every path.
func runMain(args []string, out io.Writer) int {
	fmt.Fprintf(out, "unit-test-engine v%s\n", versionString)

	var params commandParams
	if !params.Read(args) {
		return 1
	}

	suite.Init()
	selftests.Register(suite.Default())
	defer suite.Teardown()

	if params.dump {
		if err := suite.Default().Dump(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	results, err := run(suite.Default(), params, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !results.OK() {
		return 1
	}
	return 0
}

func run(registry *suite.Registry, params commandParams, out io.Writer) (*runner.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	runner.PrintFilterDescription(out, params.filters, framework.Groups(params.groups))

	var testLoggers []runner.TestLogger
	testLoggers = append(testLoggers, runner.ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	})
	if params.jUnitFile != "" {
		testLoggers = append(testLoggers,
			runner.NewJUnitTestLogger(params.jUnitFile, params.filters, framework.Groups(params.groups)))
	}
	if params.ldlog {
		loggers := ldlog.NewDefaultLoggers()
		if params.debugAll {
			loggers.SetMinLevel(ldlog.Debug)
		}
		testLoggers = append(testLoggers, runner.LdlogTestLogger{Loggers: loggers})
	}
	testLogger := &runner.MultiTestLogger{Loggers: testLoggers}

	results := runner.Run(registry, runner.Config{
		Filter:         params.filters,
		TestLogger:     testLogger,
		Groups:         framework.Groups(params.groups),
		IncludeOrphans: params.orphans,
	})

	fmt.Fprintln(out)
	runner.PrintResults(out, results)
	if params.jUnitFile != "" {
		fmt.Fprintf(out, "Writing JUnit data to %s\n", params.jUnitFile)
	}
	if err := testLogger.EndLog(results); err != nil {
		return nil, fmt.Errorf("error writing log: %v", err)
	}

	if params.recordFailures != "" {
		if err := writeFailures(params.recordFailures, results); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

// writeFailures writes the ID of each failed test on its own line, in the format read back
// by -skip-from.
func writeFailures(path string, results runner.Results) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create suppression file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("cannot write suppression file: %w", closeErr)
		}
	}()
	w := bufio.NewWriter(f)
	for _, test := range results.Failures {
		if _, err := fmt.Fprintln(w, test.TestID); err != nil {
			return fmt.Errorf("cannot write suppression file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("cannot write suppression file: %w", err)
	}
	return nil
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %v", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := params.filters.MustNotMatch.Set(suppressionPattern(line)); err != nil {
			return fmt.Errorf("cannot parse suppression: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %v", err)
	}
	return nil
}

// suppressionPattern turns a test ID into a pattern matching exactly that test. Each path
// component is quoted and anchored separately, since "/" separates the components of a
// pattern.
func suppressionPattern(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = "^" + regexp.QuoteMeta(p) + "$"
	}
	return strings.Join(parts, "/")
}

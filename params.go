package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/launchdarkly/unit-test-engine/framework/runner"
)

type commandParams struct {
	filters        runner.RegexFilters
	groups         runner.GroupList
	debug          bool
	debugAll       bool
	jUnitFile      string
	recordFailures string
	skipFile       string
	dump           bool
	orphans        bool
	ldlog          bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.Var(&c.groups, "group", "only run tests in these groups (comma-separated, repeatable)")
	fs.BoolVar(&c.debug, "debug", false, "show captured log output for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show captured log output for all tests")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed tests to the specified file")
	fs.StringVar(&c.skipFile, "skip-from", "", "skip the tests whose IDs are listed in the specified file")
	fs.BoolVar(&c.dump, "dump", false, "print the suite tree and exit without running tests")
	fs.BoolVar(&c.orphans, "orphans", false, "also run suites that were never attached to the tree")
	fs.BoolVar(&c.ldlog, "ldlog", false, "also report test events through the standard logger")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return false
	}
	return true
}

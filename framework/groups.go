package framework

import (
	"golang.org/x/exp/slices"
)

// Groups is a list of group tags attached to a test. Drivers use them to select which tests
// to run; the engine itself attaches no meaning to them.
type Groups []string

// Has returns true if the specified group appears in the list.
func (gs Groups) Has(name string) bool {
	return slices.Contains(gs, name)
}

// HasAny returns true if any of the specified groups appears in the list.
func (gs Groups) HasAny(names ...string) bool {
	for _, n := range names {
		if gs.Has(n) {
			return true
		}
	}
	return false
}

// HasAll returns true if every one of the specified groups appears in the list.
func (gs Groups) HasAll(names ...string) bool {
	for _, n := range names {
		if !gs.Has(n) {
			return false
		}
	}
	return true
}

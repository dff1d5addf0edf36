package suite

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// SuiteID identifies a suite within its Registry. IDs are stable for the registry's lifetime.
type SuiteID int

const noSuite SuiteID = -1

type node struct {
	name   string
	parent SuiteID
	suites []SuiteID
	tests  []*Descriptor
}

// Registry is a tree of suites. Every suite is either the top suite, a descendant of it, or
// an orphan: a parentless suite created with CreateOrphanedSuite and waiting to be attached
// with Reparent.
//
// All methods are safe for concurrent use. Each mutation happens in one critical section, so
// no goroutine ever observes a suite with no owner.
type Registry struct {
	lock        sync.Mutex
	nodes       []node
	top         SuiteID
	defaultRoot SuiteID
	orphans     []SuiteID
	closed      bool
}

// Suite is a handle to one suite of a Registry. It is a small value that can be copied
// freely; the suite itself is owned by the Registry.
type Suite struct {
	registry *Registry
	id       SuiteID
}

// NewRegistry creates a Registry containing only an unnamed top suite.
func NewRegistry() *Registry {
	r := &Registry{defaultRoot: noSuite}
	r.top = r.newNode("", noSuite)
	return r
}

func (r *Registry) newNode(name string, parent SuiteID) SuiteID {
	r.nodes = append(r.nodes, node{name: name, parent: parent})
	return SuiteID(len(r.nodes) - 1)
}

func (r *Registry) checkOpen(operation string) {
	if r.closed {
		panic(misuse(operation, "registry has been torn down"))
	}
}

// Top returns the top suite.
func (r *Registry) Top() Suite {
	return Suite{registry: r, id: r.top}
}

// SetDefaultRoot makes AddRootSuite resolve paths starting from s rather than from the top
// suite.
func (r *Registry) SetDefaultRoot(s Suite) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checkOpen("SetDefaultRoot")
	r.checkOwned("SetDefaultRoot", s)
	r.defaultRoot = s.id
}

// AddRootSuite finds or creates the suite at a "/"-separated path, starting from the default
// root if one was set or from the top suite otherwise. Empty path segments are ignored, so an
// empty path returns the starting suite itself.
func (r *Registry) AddRootSuite(path string) Suite {
	segments := splitPath(path)
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checkOpen("AddRootSuite")
	id := r.top
	if r.defaultRoot != noSuite {
		id = r.defaultRoot
	}
	for _, name := range segments {
		id = r.findOrCreateChild(id, name)
	}
	return Suite{registry: r, id: id}
}

// CreateOrphanedSuite creates a parentless suite that is not part of the tree until it is
// attached with Reparent.
func (r *Registry) CreateOrphanedSuite(name string) Suite {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checkOpen("CreateOrphanedSuite")
	id := r.newNode(name, noSuite)
	r.orphans = append(r.orphans, id)
	return Suite{registry: r, id: id}
}

// Orphans returns the suites that are still waiting to be attached, in creation order.
func (r *Registry) Orphans() []Suite {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checkOpen("Orphans")
	ret := make([]Suite, 0, len(r.orphans))
	for _, id := range r.orphans {
		ret = append(ret, Suite{registry: r, id: id})
	}
	return ret
}

// Reparent detaches s from its current owner (its parent, or the orphan set) and appends it
// to the nested suites of newParent, in one step. Making a suite its own parent, or moving the
// top suite, panics with a MisuseError. Attaching a suite under one of its own descendants is
// not detected.
func (r *Registry) Reparent(newParent, s Suite) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checkOpen("Reparent")
	r.checkOwned("Reparent", newParent)
	r.checkOwned("Reparent", s)
	if newParent.id == s.id {
		panic(misuse("Reparent", "suite %q cannot be its own parent", r.nodes[s.id].name))
	}
	if s.id == r.top {
		panic(misuse("Reparent", "the top suite cannot be moved"))
	}

	n := &r.nodes[s.id]
	if n.parent == noSuite {
		if i := slices.Index(r.orphans, s.id); i >= 0 {
			r.orphans = slices.Delete(r.orphans, i, i+1)
		}
	} else {
		old := &r.nodes[n.parent]
		if i := slices.Index(old.suites, s.id); i >= 0 {
			old.suites = slices.Delete(old.suites, i, i+1)
		}
	}
	n.parent = newParent.id
	r.nodes[newParent.id].suites = append(r.nodes[newParent.id].suites, s.id)
}

// Teardown releases the tree. Any later use of the Registry or its suites panics with a
// MisuseError.
func (r *Registry) Teardown() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.closed = true
	r.nodes = nil
	r.orphans = nil
}

// Valid returns false once the Registry has been torn down.
func (r *Registry) Valid() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return !r.closed
}

type dumpLine struct {
	depth int
	text  string
}

// Dump writes an indented outline of the tree, followed by any orphaned suites. The format is
// meant for people to read and may change.
func (r *Registry) Dump(w io.Writer) error {
	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		panic(misuse("Dump", "registry has been torn down"))
	}
	var lines []dumpLine
	r.outline(r.top, "", 0, &lines)
	for _, id := range r.orphans {
		r.outline(id, "", 0, &lines)
	}
	r.lock.Unlock()

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", line.depth), line.text); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) outline(id SuiteID, parentPath string, depth int, lines *[]dumpLine) {
	n := r.nodes[id]
	path := parentPath + n.name + "/"
	label := path
	if id == r.top {
		path, label = "", "/"
	}
	*lines = append(*lines, dumpLine{depth, "suite:" + label})
	for _, d := range n.tests {
		*lines = append(*lines, dumpLine{depth + 1, "test: " + path + d.name})
	}
	for _, child := range n.suites {
		r.outline(child, path, depth+1, lines)
	}
}

// findOrCreateChild must be called with the lock held.
func (r *Registry) findOrCreateChild(parent SuiteID, name string) SuiteID {
	for _, child := range r.nodes[parent].suites {
		if r.nodes[child].name == name {
			return child
		}
	}
	id := r.newNode(name, parent)
	r.nodes[parent].suites = append(r.nodes[parent].suites, id)
	return id
}

// checkOwned must be called with the lock held.
func (r *Registry) checkOwned(operation string, s Suite) {
	if s.registry != r || s.id < 0 || int(s.id) >= len(r.nodes) {
		panic(misuse(operation, "suite does not belong to this registry"))
	}
}

func splitPath(path string) []string {
	var ret []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			ret = append(ret, segment)
		}
	}
	return ret
}

// Valid returns true if the handle refers to a suite of a registry that has not been torn
// down.
func (s Suite) Valid() bool {
	return s.registry != nil && s.registry.Valid()
}

func (s Suite) ID() SuiteID { return s.id }

// Name returns the suite's own name; the top suite's name is empty.
func (s Suite) Name() string {
	var name string
	s.with("Name", func(r *Registry) { name = r.nodes[s.id].name })
	return name
}

// Path returns the names of the suite and its ancestors joined with "/", not including the
// top suite. For an orphan, or a descendant of one, the path starts at the parentless
// ancestor.
func (s Suite) Path() string {
	var names []string
	s.with("Path", func(r *Registry) {
		for id := s.id; id != noSuite && id != r.top; id = r.nodes[id].parent {
			names = append([]string{r.nodes[id].name}, names...)
		}
	})
	return strings.Join(names, "/")
}

// Parent returns the suite's parent. The second value is false for the top suite and for
// orphans.
func (s Suite) Parent() (Suite, bool) {
	parent := noSuite
	s.with("Parent", func(r *Registry) { parent = r.nodes[s.id].parent })
	if parent == noSuite {
		return Suite{}, false
	}
	return Suite{registry: s.registry, id: parent}, true
}

// MakeNestedSuite finds or creates the nested suite with the given name.
func (s Suite) MakeNestedSuite(name string) Suite {
	var id SuiteID
	s.with("MakeNestedSuite", func(r *Registry) { id = r.findOrCreateChild(s.id, name) })
	return Suite{registry: s.registry, id: id}
}

// Add appends test descriptors to the suite, and returns the suite so calls can be chained.
func (s Suite) Add(descriptors ...*Descriptor) Suite {
	s.with("Add", func(r *Registry) {
		for _, d := range descriptors {
			if d != nil {
				r.nodes[s.id].tests = append(r.nodes[s.id].tests, d)
			}
		}
	})
	return s
}

func (s Suite) NestedSuiteCount() int {
	var count int
	s.with("NestedSuiteCount", func(r *Registry) { count = len(r.nodes[s.id].suites) })
	return count
}

// NestedSuiteAt returns the nested suite at index i, in insertion order.
func (s Suite) NestedSuiteAt(i int) Suite {
	var id SuiteID
	s.with("NestedSuiteAt", func(r *Registry) { id = r.nodes[s.id].suites[i] })
	return Suite{registry: s.registry, id: id}
}

func (s Suite) TestCaseCount() int {
	var count int
	s.with("TestCaseCount", func(r *Registry) { count = len(r.nodes[s.id].tests) })
	return count
}

// TestCaseAt returns the test descriptor at index i, in insertion order.
func (s Suite) TestCaseAt(i int) *Descriptor {
	var d *Descriptor
	s.with("TestCaseAt", func(r *Registry) { d = r.nodes[s.id].tests[i] })
	return d
}

func (s Suite) with(operation string, fn func(r *Registry)) {
	r := s.registry
	if r == nil {
		panic(misuse(operation, "zero Suite handle"))
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.checkOpen(operation)
	r.checkOwned(operation, s)
	fn(r)
}

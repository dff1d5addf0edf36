package suite

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop() *Descriptor {
	return Func("noop", nil)
}

// checkOwnership verifies that every suite reachable from the top or from the orphan set has
// a consistent parent, and that each one is owned exactly once.
func checkOwnership(t *testing.T, r *Registry) {
	t.Helper()
	seen := make(map[SuiteID]int)
	var visit func(s Suite)
	visit = func(s Suite) {
		seen[s.ID()]++
		for i := 0; i < s.NestedSuiteCount(); i++ {
			child := s.NestedSuiteAt(i)
			parent, ok := child.Parent()
			require.True(t, ok)
			assert.Equal(t, s.ID(), parent.ID())
			visit(child)
		}
	}
	visit(r.Top())
	_, hasParent := r.Top().Parent()
	assert.False(t, hasParent)
	for _, o := range r.Orphans() {
		_, hasParent := o.Parent()
		assert.False(t, hasParent)
		visit(o)
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "suite %d owned more than once", id)
	}
}

func TestNestedSuiteWithOneTest(t *testing.T) {
	r := NewRegistry()
	root := r.AddRootSuite("")
	root.MakeNestedSuite("Math").Add(Func("add", nil))

	require.Equal(t, 1, root.NestedSuiteCount())
	math := root.NestedSuiteAt(0)
	assert.Equal(t, "Math", math.Name())
	require.Equal(t, 1, math.TestCaseCount())
	assert.Equal(t, "add", math.TestCaseAt(0).Name())
}

func TestAddRootSuiteIgnoresEmptySegments(t *testing.T) {
	r := NewRegistry()
	a := r.AddRootSuite("/a//b/")
	b := r.AddRootSuite("a/b")

	assert.Equal(t, a.ID(), b.ID())
	assert.Equal(t, "a/b", a.Path())
	assert.Equal(t, "b", a.Name())
	assert.Equal(t, r.Top().ID(), r.AddRootSuite("//").ID())
}

func TestMakeNestedSuiteFindsExisting(t *testing.T) {
	r := NewRegistry()
	s := r.AddRootSuite("x")
	first := s.MakeNestedSuite("y")
	second := s.MakeNestedSuite("y")
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, 1, s.NestedSuiteCount())
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	r := NewRegistry()
	s := r.AddRootSuite("ordered")
	for _, name := range []string{"c", "a", "b"} {
		s.MakeNestedSuite(name)
		s.Add(Func(name, nil))
	}
	var suites, tests []string
	for i := 0; i < s.NestedSuiteCount(); i++ {
		suites = append(suites, s.NestedSuiteAt(i).Name())
	}
	for i := 0; i < s.TestCaseCount(); i++ {
		tests = append(tests, s.TestCaseAt(i).Name())
	}
	assert.Equal(t, []string{"c", "a", "b"}, suites)
	assert.Equal(t, []string{"c", "a", "b"}, tests)
}

func TestDefaultRoot(t *testing.T) {
	r := NewRegistry()
	base := r.AddRootSuite("project")
	r.SetDefaultRoot(base)

	s := r.AddRootSuite("module")
	parent, ok := s.Parent()
	require.True(t, ok)
	assert.Equal(t, base.ID(), parent.ID())
	assert.Equal(t, "project/module", s.Path())
}

func TestOrphanedSuite(t *testing.T) {
	r := NewRegistry()
	o := r.CreateOrphanedSuite("floating")

	_, ok := o.Parent()
	assert.False(t, ok)
	require.Len(t, r.Orphans(), 1)
	assert.Equal(t, o.ID(), r.Orphans()[0].ID())
	assert.Equal(t, 0, r.Top().NestedSuiteCount())
	assert.Equal(t, "floating", o.Path())
	checkOwnership(t, r)
}

func TestReparentOrphan(t *testing.T) {
	r := NewRegistry()
	p := r.AddRootSuite("p")
	o := r.CreateOrphanedSuite("o")
	o.MakeNestedSuite("inner").Add(noop())

	r.Reparent(p, o)

	parent, ok := o.Parent()
	require.True(t, ok)
	assert.Equal(t, p.ID(), parent.ID())
	require.Equal(t, 1, p.NestedSuiteCount())
	assert.Equal(t, o.ID(), p.NestedSuiteAt(0).ID())
	assert.Len(t, r.Orphans(), 0)
	assert.Equal(t, "p/o/inner", o.NestedSuiteAt(0).Path())
	checkOwnership(t, r)
}

func TestReparentAttachedSuite(t *testing.T) {
	r := NewRegistry()
	a := r.AddRootSuite("a")
	b := r.AddRootSuite("b")
	moved := a.MakeNestedSuite("moved")
	a.MakeNestedSuite("stays")

	r.Reparent(b, moved)

	require.Equal(t, 1, a.NestedSuiteCount())
	assert.Equal(t, "stays", a.NestedSuiteAt(0).Name())
	require.Equal(t, 1, b.NestedSuiteCount())
	assert.Equal(t, moved.ID(), b.NestedSuiteAt(0).ID())
	assert.Equal(t, "b/moved", moved.Path())
	checkOwnership(t, r)
}

func TestReparentToSelfPanics(t *testing.T) {
	r := NewRegistry()
	s := r.AddRootSuite("s")
	assert.PanicsWithValue(t,
		MisuseError{Operation: "Reparent", Message: `suite "s" cannot be its own parent`},
		func() { r.Reparent(s, s) })
	checkOwnership(t, r)
}

func TestReparentTopPanics(t *testing.T) {
	r := NewRegistry()
	s := r.AddRootSuite("s")
	assert.Panics(t, func() { r.Reparent(s, r.Top()) })
}

func TestSuiteFromOtherRegistryPanics(t *testing.T) {
	r1, r2 := NewRegistry(), NewRegistry()
	s := r2.AddRootSuite("s")
	assert.Panics(t, func() { r1.Reparent(r1.Top(), s) })
}

func TestUseAfterTeardownPanics(t *testing.T) {
	r := NewRegistry()
	s := r.AddRootSuite("s")
	r.Teardown()

	assert.False(t, r.Valid())
	assert.False(t, s.Valid())
	assert.Panics(t, func() { r.AddRootSuite("t") })
	assert.Panics(t, func() { s.Add(noop()) })
	assert.Panics(t, func() { s.NestedSuiteCount() })
	assert.Panics(t, func() { r.CreateOrphanedSuite("o") })
	assert.Panics(t, func() { _ = r.Dump(&bytes.Buffer{}) })

	defer func() {
		err, ok := recover().(MisuseError)
		require.True(t, ok)
		assert.Contains(t, err.Error(), "torn down")
	}()
	s.Name()
}

func TestZeroSuiteHandlePanics(t *testing.T) {
	assert.False(t, Suite{}.Valid())
	assert.Panics(t, func() { Suite{}.Name() })
}

func TestConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s := r.AddRootSuite(fmt.Sprintf("shared/s%d", j%5))
				s.Add(Func(fmt.Sprintf("t%d-%d", i, j), nil))
				o := r.CreateOrphanedSuite(fmt.Sprintf("o%d-%d", i, j))
				r.Reparent(s, o)
			}
		}(i)
	}
	wg.Wait()

	shared := r.AddRootSuite("shared")
	require.Equal(t, 5, shared.NestedSuiteCount())
	total, nested := 0, 0
	for i := 0; i < shared.NestedSuiteCount(); i++ {
		total += shared.NestedSuiteAt(i).TestCaseCount()
		nested += shared.NestedSuiteAt(i).NestedSuiteCount()
	}
	assert.Equal(t, 1000, total)
	assert.Equal(t, 1000, nested)
	assert.Len(t, r.Orphans(), 0)
	checkOwnership(t, r)
}

func TestDump(t *testing.T) {
	r := NewRegistry()
	r.AddRootSuite("Math").Add(Func("add", nil), Func("subtract", nil))
	r.AddRootSuite("Math/Trig").Add(Func("sin", nil))
	r.CreateOrphanedSuite("Loose").Add(Func("x", nil))

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf))
	assert.Equal(t, `suite:/
  suite:Math/
    test: Math/add
    test: Math/subtract
    suite:Math/Trig/
      test: Math/Trig/sin
suite:Loose/
  test: Loose/x
`, buf.String())
}

func TestDefaultRegistry(t *testing.T) {
	Init()
	defer Init()

	s := Register("pkg/feature", noop(), noop())
	assert.Equal(t, 2, s.TestCaseCount())
	assert.Equal(t, s.ID(), AddRootSuite("pkg/feature").ID())
	assert.Same(t, Default(), Default())

	o := CreateOrphanedSuite("later")
	assert.Len(t, Default().Orphans(), 1)
	assert.Equal(t, o.ID(), Default().Orphans()[0].ID())

	Teardown()
	assert.False(t, s.Valid())
	assert.Panics(t, func() { AddRootSuite("x") })

	Init()
	assert.True(t, AddRootSuite("x").Valid())
}

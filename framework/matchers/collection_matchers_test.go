package matchers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsInAnyOrder(t *testing.T) {
	slice := []string{"y", "z", "x"}

	assertPasses(t, slice, ItemsInAnyOrder(Equal("y"), Equal("z"), Equal("x")))
	assertPasses(t, [2]int{6, 2}, ItemsInAnyOrder(Equal(2), Equal(6)))

	assertFails(t, slice, ItemsInAnyOrder(Equal("x"), Equal("y")),
		"expected: should have 2 item(s) (had 3)\nactual value was: [y z x]")

	assertFails(t, slice, ItemsInAnyOrder(Equal("x"), Equal("a"), Equal("z")),
		"expected: contains in any order: (equal to x), (equal to a), (equal to z)"+
			"\nactual value was: [y z x]")

	assertFails(t, slice, ItemsInAnyOrder(Equal("x"), Equal("y"), Equal("x")),
		"expected: contains in any order: (equal to x), (equal to y), (equal to x)"+
			"\nactual value was: [y z x]")

	assertFails(t, "xyz", ItemsInAnyOrder(Equal("x")), "expected: a slice\nactual value was: xyz")
	assertFails(t, nil, ItemsInAnyOrder(Equal("x")), "expected: a slice\nactual value was: <nil>")
}

func TestItemsInAnyOrderEvaluate(t *testing.T) {
	r := ItemsInAnyOrder(Equal("x"), Equal("a"), Equal("b")).Evaluate([]string{"y", "z", "x"})

	assert.False(t, r.Passed())
	assert.JSONEq(t, `{
		"name": "itemsInAnyOrder",
		"message": [],
		"data": [
			{"type": "predicate", "name": "expected",
				"value": "contains in any order: (equal to x), (equal to a), (equal to b)"},
			{"type": "diagnostic", "name": "actual", "value": "[y z x]"},
			{"type": "diagnostic", "name": "length", "value": 3},
			{"type": "diagnostic", "name": "unmatched", "value": [1, 2]}
		],
		"composite": []
	}`, r.JSONString())

	assert.True(t, ItemsInAnyOrder(Equal("x")).Evaluate([]string{"x"}).Passed())
}

func TestItemsInAnyOrderUsesEachItemOnce(t *testing.T) {
	assertFails(t, []int{2, 6}, ItemsInAnyOrder(Equal(2), Equal(2)),
		"expected: contains in any order: (equal to 2), (equal to 2)\nactual value was: [2 6]")
	assertPasses(t, []int{2, 2}, ItemsInAnyOrder(Equal(2), Equal(2)))

	r := ItemsInAnyOrder(Equal(2), Equal(2)).Evaluate([]int{2, 6})
	data := r.Data()
	require.Len(t, data, 4)
	assert.Equal(t, "[1]", data[3].Value.JSONString())

	// The first matcher accepts either item, so it has to give up 1 for the second one.
	lessThan := func(n int) Matcher {
		return New(
			func(value interface{}) bool { return value.(int) < n },
			func(interface{}, DescribeValueFunc) string { return fmt.Sprintf("less than %d", n) },
		)
	}
	assertPasses(t, []int{1, 5}, ItemsInAnyOrder(lessThan(10), lessThan(2)))
}

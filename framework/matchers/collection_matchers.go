package matchers

import (
	"fmt"
	"reflect"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/unit-test-engine/framework/check"
)

// ItemsInAnyOrder is a matcher for a slice value. It tests that the slice contains the same number of
// elements as the number of parameters, and that each parameter is a matcher that matches a different
// item in the slice.
//
//	s := []int{6,2}
//	matchers.ItemsInAnyOrder(matchers.Equal(2), matchers.Equal(6)).Test(s) // pass
//
// When evaluated, a failure lists the positions of the matchers that found no item as an
// "unmatched" diagnostic.
func ItemsInAnyOrder(matchers ...Matcher) Matcher {
	return New(
		func(value interface{}) bool {
			items, ok := sliceItems(value)
			if !ok || len(items) != len(matchers) {
				return false
			}
			return len(unmatchedItems(matchers, items)) == 0
		},
		func(value interface{}, desc DescribeValueFunc) string {
			items, ok := sliceItems(value)
			if !ok {
				return "a slice"
			}
			if len(items) != len(matchers) {
				return fmt.Sprintf("should have %d item(s) (had %d)", len(matchers), len(items))
			}
			return "contains in any order: " + describeMatchersList(matchers, value, ", ")
		},
	).Named("itemsInAnyOrder").withDetail(func(value interface{}, r *check.Result) {
		items, ok := sliceItems(value)
		if !ok {
			return
		}
		r.Diagnostic("length", ldvalue.Int(len(items)))
		unmatched := ldvalue.ArrayBuild()
		for _, i := range unmatchedItems(matchers, items) {
			unmatched.Add(ldvalue.Int(i))
		}
		r.Diagnostic("unmatched", unmatched.Build())
	})
}

func sliceItems(value interface{}) ([]interface{}, bool) {
	if value == nil {
		return nil, false
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items, true
}

// unmatchedItems pairs each matcher with a distinct item, and returns the indexes of the
// matchers left without one. An item can satisfy more than one matcher, so a matcher may take
// over an item from an earlier one when that one can be moved to another item.
func unmatchedItems(matchers []Matcher, items []interface{}) []int {
	accepts := make([][]bool, len(matchers))
	for i, m := range matchers {
		accepts[i] = make([]bool, len(items))
		for j, item := range items {
			accepts[i][j] = m.test(item)
		}
	}
	owner := make([]int, len(items))
	for j := range owner {
		owner[j] = -1
	}
	var assign func(i int, visited []bool) bool
	assign = func(i int, visited []bool) bool {
		for j := range items {
			if !accepts[i][j] || visited[j] {
				continue
			}
			visited[j] = true
			if owner[j] < 0 || assign(owner[j], visited) {
				owner[j] = i
				return true
			}
		}
		return false
	}
	var ret []int
	for i := range matchers {
		if !assign(i, make([]bool, len(items))) {
			ret = append(ret, i)
		}
	}
	return ret
}

package matchers

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	assertPasses(t, 3, Equal(3))
	assertFails(t, 4, Equal(3), "expected: equal to 3\nactual value was: 4")

	assertPasses(t, map[string]interface{}{"a": []int{1, 2}},
		Equal(map[string]interface{}{"a": []int{1, 2}}))
}

func TestEqualDiagnosticValues(t *testing.T) {
	assertPasses(t, ldvalue.ArrayOf(ldvalue.Int(1)), Equal(ldvalue.ArrayOf(ldvalue.Int(1))))

	r := Equal(ldvalue.String("a")).Evaluate(ldvalue.String("b"))
	assert.False(t, r.Passed())
	assert.Equal(t, "equal", r.Name().Value())
	assert.Equal(t, ldvalue.String("equal to "+ldvalue.String("a").String()), r.Data()[0].Value)
}

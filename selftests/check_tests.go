package selftests

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/unit-test-engine/framework/check"
	"github.com/launchdarkly/unit-test-engine/framework/execution"
	"github.com/launchdarkly/unit-test-engine/framework/suite"
)

func registerCheckTests(s suite.Suite) {
	s.Add(
		configured("compose keeps failures only", "compose.yaml", testComposeKeepsFailures),
		suite.Func("compose never reverts to passed", testComposeNeverReverts,
			suite.WithGroups("check", "fast")),
		suite.Func("report document keeps entry order", testReportOrder,
			suite.WithDescription("data entries serialize in the order they were added"),
			suite.WithGroups("check", "fast")),
	)
}

func testComposeKeepsFailures(ctx *execution.Context, c suite.Config) {
	data := c.Data()
	expected := data.GetByKey("expected")
	actual := data.GetByKey("actual")

	r := check.Pass()
	r.Compose("x", check.Fail().Diagnostic("actual", actual).Predicate("expected", expected))
	r.Compose("y", check.Pass())

	ctx.False(r.Passed(), "composed result should have failed")
	composites := r.Composites()
	if ctx.Equal(1, len(composites)) {
		ctx.Equal("x", composites[0].Name)
	}
	doc := r.Value()
	ctx.Equal(1, doc.GetByKey("composite").Count())
	ctx.True(doc.GetByKey("composite").GetByIndex(0).GetByKey("y").IsNull(), "passing sub-result was kept")
	ctx.Equal(actual.IntValue(), doc.GetByKey("composite").GetByIndex(0).GetByKey("x").
		GetByKey("data").GetByIndex(0).GetByKey("value").IntValue())
}

func testComposeNeverReverts(ctx *execution.Context) {
	r := check.Fail()
	r.Compose("ok", check.Pass())
	ctx.False(r.Passed())
	ctx.Equal(0, len(r.Composites()))
}

func testReportOrder(ctx *execution.Context) {
	r := check.Fail().Named("ordering").
		Predicate("z", ldvalue.Int(1)).
		Diagnostic("a", ldvalue.Int(2)).
		Predicate("m", ldvalue.Int(3))
	r.AppendMessage("first")
	r.AppendMessage("second %d", 2)

	ctx.Equal(`{"name":"ordering","message":["first","second 2"],"data":[`+
		`{"type":"predicate","name":"z","value":1},`+
		`{"type":"diagnostic","name":"a","value":2},`+
		`{"type":"predicate","name":"m","value":3}],"composite":[]}`,
		r.JSONString())
}

package check

import (
	"strings"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Property names of the failure report document.
const (
	nameProperty      = "name"
	messageProperty   = "message"
	dataProperty      = "data"
	compositeProperty = "composite"
	typeProperty      = "type"
	valueProperty     = "value"
)

// Value returns the failure report document for this result:
//
//	{ "name": string?, "message": [...], "data": [{"type", "name", "value"}, ...],
//	  "composite": [{"<subName>": <same shape>}, ...] }
//
// The "data" and "composite" arrays preserve insertion order. Object property order is not
// significant in an ldvalue.Value; use WriteToJSONWriter or JSONString when the rendering
// itself must be stable.
func (r *Result) Value() ldvalue.Value {
	obj := ldvalue.ObjectBuild()
	if name, ok := r.name.Get(); ok {
		obj.Set(nameProperty, ldvalue.String(name))
	}
	messages := ldvalue.ArrayBuild()
	for _, m := range r.messages {
		messages.Add(ldvalue.String(m))
	}
	obj.Set(messageProperty, messages.Build())
	data := ldvalue.ArrayBuild()
	for _, e := range r.data {
		data.Add(ldvalue.ObjectBuild().
			Set(typeProperty, ldvalue.String(string(e.Type))).
			Set(nameProperty, ldvalue.String(e.Name)).
			Set(valueProperty, e.Value).
			Build())
	}
	obj.Set(dataProperty, data.Build())
	composites := ldvalue.ArrayBuild()
	for _, c := range r.composites {
		composites.Add(ldvalue.ObjectBuild().Set(c.Name, c.Result.Value()).Build())
	}
	obj.Set(compositeProperty, composites.Build())
	return obj.Build()
}

// WriteToJSONWriter renders the report document with properties in the fixed order name,
// message, data, composite and all entries in insertion order.
func (r *Result) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	if name, ok := r.name.Get(); ok {
		obj.Name(nameProperty).String(name)
	}
	messages := obj.Name(messageProperty).Array()
	for _, m := range r.messages {
		w.String(m)
	}
	messages.End()
	data := obj.Name(dataProperty).Array()
	for _, e := range r.data {
		entry := w.Object()
		entry.Name(typeProperty).String(string(e.Type))
		entry.Name(nameProperty).String(e.Name)
		e.Value.WriteToJSONWriter(entry.Name(valueProperty))
		entry.End()
	}
	data.End()
	composites := obj.Name(compositeProperty).Array()
	for _, c := range r.composites {
		wrapper := w.Object()
		c.Result.WriteToJSONWriter(wrapper.Name(c.Name))
		wrapper.End()
	}
	composites.End()
	obj.End()
}

// MarshalJSON implements json.Marshaler using WriteToJSONWriter.
func (r *Result) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	r.WriteToJSONWriter(&w)
	return w.Bytes(), w.Error()
}

// JSONString returns the stable JSON rendering of the report document.
func (r *Result) JSONString() string {
	data, _ := r.MarshalJSON()
	return string(data)
}

// String returns a human-readable multi-line description of the result, in the same order
// as the report document.
func (r *Result) String() string {
	var b strings.Builder
	r.describe(&b, "")
	return strings.TrimRight(b.String(), "\n")
}

func (r *Result) describe(b *strings.Builder, indent string) {
	if name, ok := r.name.Get(); ok {
		b.WriteString(indent + "check: " + name + "\n")
	}
	for _, m := range r.messages {
		for _, line := range strings.Split(m, "\n") {
			b.WriteString(indent + line + "\n")
		}
	}
	for _, e := range r.data {
		b.WriteString(indent + string(e.Type) + " " + e.Name + ": " + e.Value.JSONString() + "\n")
	}
	for _, c := range r.composites {
		b.WriteString(indent + c.Name + ":\n")
		c.Result.describe(b, indent+"  ")
	}
}

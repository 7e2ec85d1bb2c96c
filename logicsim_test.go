package logicsim_test

import (
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func check(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
}

func pin(id ls.ID, i int) ls.PinRef { return ls.PinRef{Component: id, Index: i} }

// build adds components given as id:kind pairs and wires given as
// (from, to) pairs to a new circuit.
func build(t *testing.T, reg *ls.Registry, comps []ls.ComponentSpec, wires ...[2]ls.PinRef) *ls.Circuit {
	t.Helper()
	c := ls.NewCircuit(reg, nil)
	for _, s := range comps {
		var err error
		if s.Kind == ls.Composite {
			_, err = c.AddComposite(s.ID, s.Template)
		} else {
			_, err = c.Add(s.ID, s.Kind)
		}
		check(t, err)
	}
	for _, w := range wires {
		check(t, c.Connect(w[0], w[1]))
	}
	return c
}

func level(t *testing.T, c *ls.Circuit, id ls.ID) bool {
	t.Helper()
	cp := c.Component(id)
	if cp == nil {
		t.Fatalf("no component %q", id)
	}
	return cp.Level
}

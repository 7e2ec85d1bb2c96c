// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pkglib

import (
	"strconv"

	ls "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

// bus returns the pin names of buses of the given width:
//
//	bus(2, "a", "b") // []string{"a[0]", "a[1]", "b[0]", "b[1]"}
//
func bus(bits int, names ...string) []string {
	out := make([]string, 0, bits*len(names))
	for _, n := range names {
		for i := 0; i < bits; i++ {
			out = append(out, n+"["+strconv.Itoa(i)+"]")
		}
	}
	return out
}

func tw(from string, fi int, to string, ti int) ls.WireTemplate {
	return ls.WireTemplate{
		From: ls.TemplatePin{Component: from, Index: fi},
		To:   ls.TemplatePin{Component: to, Index: ti},
	}
}

func idx(prefix string, i int) string { return prefix + strconv.Itoa(i) }

// AdderNDef returns a ripple carry adder of the given width built from
// FullAdder packages. FullAdder must be registered before the returned
// definition.
//
//	Inputs: a[bits], b[bits]
//	Outputs: s[bits], c
//
func AdderNDef(bits int) (*ls.Definition, error) {
	if bits < 1 {
		return nil, errors.Wrapf(ls.ErrInvalidDefinition, "adder width %d", bits)
	}
	var cs comps
	for _, p := range []string{"a", "b"} {
		for i := 0; i < bits; i++ {
			cs = cs.add(ls.PortIn, idx(p, i))
		}
	}
	cs = cs.add(ls.Gnd, "gnd")
	for i := 0; i < bits; i++ {
		cs = append(cs, ls.ComponentTemplate{ID: idx("fa", i), Kind: ls.Composite, Template: FullAdder})
	}
	for i := 0; i < bits; i++ {
		cs = cs.add(ls.PortOut, idx("s", i))
	}
	cs = cs.add(ls.PortOut, "c")

	// FullAdder pins: A, B, Cin, S, Cout
	ws := []ls.WireTemplate{tw("gnd", 0, "fa0", 2)}
	for i := 0; i < bits; i++ {
		fa := idx("fa", i)
		ws = append(ws,
			tw(idx("a", i), 0, fa, 0),
			tw(idx("b", i), 0, fa, 1),
			tw(fa, 3, idx("s", i), 0))
		if i > 0 {
			ws = append(ws, tw(idx("fa", i-1), 4, fa, 2))
		}
	}
	ws = append(ws, tw(idx("fa", bits-1), 4, "c", 0))

	return &ls.Definition{
		ID:         "Adder" + strconv.Itoa(bits),
		Name:       strconv.Itoa(bits) + " bit adder",
		Inputs:     bus(bits, "a", "b"),
		Outputs:    append(bus(bits, "s"), "c"),
		Components: cs,
		Wires:      ws,
	}, nil
}

// GateNWayDef returns an N-way AND, OR or XOR gate built as a chain of two
// input gates.
//
//	Inputs: in[ways]
//	Outputs: out
//	Function: out = in[0] op in[1] op ... op in[ways-1]
//
func GateNWayDef(k ls.Kind, ways int) (*ls.Definition, error) {
	switch k {
	case ls.And, ls.Or, ls.Xor:
	default:
		return nil, errors.Wrapf(ls.ErrInvalidKind, "%s is not associative", k)
	}
	if ways < 2 {
		return nil, errors.Wrapf(ls.ErrInvalidDefinition, "%d way gate", ways)
	}
	var cs comps
	for i := 0; i < ways; i++ {
		cs = cs.add(ls.PortIn, idx("in", i))
	}
	for i := 1; i < ways; i++ {
		cs = cs.add(k, idx("g", i))
	}
	cs = cs.add(ls.PortOut, "out")

	// gate pins: in1, in2, out
	ws := []ls.WireTemplate{tw("in0", 0, "g1", 0)}
	for i := 1; i < ways; i++ {
		ws = append(ws, tw(idx("in", i), 0, idx("g", i), 1))
		if i > 1 {
			ws = append(ws, tw(idx("g", i-1), 2, idx("g", i), 0))
		}
	}
	ws = append(ws, tw(idx("g", ways-1), 2, "out", 0))

	return &ls.Definition{
		ID:         k.String() + strconv.Itoa(ways) + "Way",
		Inputs:     bus(ways, "in"),
		Outputs:    []string{"out"},
		Components: cs,
		Wires:      ws,
	}, nil
}

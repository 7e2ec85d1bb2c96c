// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pkglib provides the built-in package definitions for logicsim.
//
package pkglib

import (
	ls "github.com/db47h/logicsim"
)

// Built-in definition ids.
//
const (
	HalfAdder = "HalfAdder"
	FullAdder = "FullAdder"
	SRLatch   = "SRLatch"
	DFlipFlop = "DFlipFlop"
)

type comps []ls.ComponentTemplate

func (cs comps) add(k ls.Kind, ids ...string) comps {
	for _, id := range ids {
		cs = append(cs, ls.ComponentTemplate{ID: id, Kind: k})
	}
	return cs
}

func def(id, name string, in, out []string, cs comps, wires string) *ls.Definition {
	return &ls.Definition{
		ID:         id,
		Name:       name,
		Inputs:     in,
		Outputs:    out,
		Components: cs,
		Wires:      ls.MustWires(cs, wires),
	}
}

// HalfAdderDef returns the half adder definition.
//
//	Inputs: A, B
//	Outputs: S, C
//	Function: S = A xor B
//	          C = A and B
//
func HalfAdderDef() *ls.Definition {
	cs := comps{}.
		add(ls.PortIn, "a", "b").
		add(ls.Xor, "xor").
		add(ls.And, "and").
		add(ls.PortOut, "s", "c")
	return def(HalfAdder, "Half Adder", []string{"A", "B"}, []string{"S", "C"}, cs,
		`a.out>xor.in1>and.in1, b.out>xor.in2>and.in2,
		xor.out>s.in, and.out>c.in`)
}

// FullAdderDef returns the full adder definition.
//
//	Inputs: A, B, Cin
//	Outputs: S, Cout
//	Function: S = lsb(A + B + Cin)
//	          Cout = msb(A + B + Cin)
//
func FullAdderDef() *ls.Definition {
	cs := comps{}.
		add(ls.PortIn, "a", "b", "cin").
		add(ls.Xor, "x1", "x2").
		add(ls.And, "a1", "a2").
		add(ls.Or, "or").
		add(ls.PortOut, "s", "cout")
	return def(FullAdder, "Full Adder", []string{"A", "B", "Cin"}, []string{"S", "Cout"}, cs,
		`a.out>x1.in1>a1.in1, b.out>x1.in2>a1.in2,
		x1.out>x2.in1>a2.in1, cin.out>x2.in2>a2.in2,
		a1.out>or.in1, a2.out>or.in2,
		x2.out>s.in, or.out>cout.in`)
}

// SRLatchDef returns a set/reset latch built from cross-coupled NOR gates.
//
//	Inputs: S, R
//	Outputs: Q, Qn
//	Function: S sets Q, R resets Q, Q is held while both are low.
//
func SRLatchDef() *ls.Definition {
	cs := comps{}.
		add(ls.PortIn, "s", "r").
		add(ls.Nor, "nor1", "nor2").
		add(ls.PortOut, "q", "qn")
	return def(SRLatch, "SR Latch", []string{"S", "R"}, []string{"Q", "Qn"}, cs,
		`r.out>nor1.in1, nor2.out>nor1.in2,
		s.out>nor2.in1, nor1.out>nor2.in2,
		nor1.out>q.in, nor2.out>qn.in`)
}

// DFlipFlopDef returns a rising edge triggered D flip-flop built as two NAND
// gated latches in a master/slave configuration.
//
//	Inputs: D, CLK
//	Outputs: Q, Qn
//	Function: Q takes the value of D on the rising edge of CLK.
//
func DFlipFlopDef() *ls.Definition {
	cs := comps{}.
		add(ls.PortIn, "d", "clk").
		add(ls.Not, "nclk").
		add(ls.Nand, "ms", "mr", "mq", "mqn").
		add(ls.Nand, "ss", "sr", "sq", "sqn").
		add(ls.PortOut, "q", "qn")
	return def(DFlipFlop, "D Flip-Flop", []string{"D", "CLK"}, []string{"Q", "Qn"}, cs,
		`clk.out>nclk.in1>ss.in2>sr.in2,
		d.out>ms.in1, nclk.out>ms.in2>mr.in2,
		ms.out>mr.in1>mq.in1, mr.out>mqn.in1,
		mqn.out>mq.in2, mq.out>mqn.in2,
		mq.out>ss.in1, ss.out>sr.in1>sq.in1, sr.out>sqn.in1,
		sqn.out>sq.in2, sq.out>sqn.in2,
		sq.out>q.in, sqn.out>qn.in`)
}

// Definitions returns all built-in definitions.
//
func Definitions() []*ls.Definition {
	return []*ls.Definition{
		HalfAdderDef(),
		FullAdderDef(),
		SRLatchDef(),
		DFlipFlopDef(),
	}
}

// Register adds the built-in definitions to r.
//
func Register(r *ls.Registry) error {
	for _, d := range Definitions() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a new registry holding the built-in definitions.
//
func NewRegistry() *ls.Registry {
	r := ls.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

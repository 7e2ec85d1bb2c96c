// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "strconv"

// ID identifies a component within a circuit.
//
type ID string

// Direction is the direction of a pin.
//
type Direction int

// Pin directions.
//
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "out"
	}
	return "in"
}

// PinRef addresses a pin by owner and ordinal.
//
type PinRef struct {
	Component ID
	Index     int
}

func (p PinRef) String() string {
	return string(p.Component) + "." + strconv.Itoa(p.Index)
}

// A Wire is a point to point connection between two pins.
//
type Wire struct {
	From PinRef
	To   PinRef
}

func (w Wire) same(o Wire) bool {
	return w == o || (w.From == o.To && w.To == o.From)
}

// A Pin is a connection point on a component.
//
// Output pins assert Level onto their net. Input pins hold the level they read
// during the last evaluation.
//
type Pin struct {
	Owner ID
	Name  string
	Dir   Direction
	Index int
	Level bool
}

// Ref returns the address of p.
//
func (p *Pin) Ref() PinRef { return PinRef{p.Owner, p.Index} }

// A Component is a node in a circuit.
//
type Component struct {
	ID   ID
	Kind Kind
	// Level is the primary level of the component: the output for gates and
	// sources, the displayed level for sinks, the sampled clock for counters.
	Level bool
	// PrevLevel holds the value of Level before its last change.
	PrevLevel bool
	Pins      []*Pin

	// Template is the package definition id of a Composite component.
	Template string
	// Instance is the private internal graph of a Composite component.
	Instance *Instance
	// Value is the count of a Counter, the digit shown by a SevenSegment or
	// the key held by a Keypad.
	Value int

	// init is the power-on level of sources, restored by reset.
	init bool
}

func newComponent(id ID, k Kind, inputs, outputs []string) *Component {
	c := &Component{ID: id, Kind: k, Pins: make([]*Pin, 0, len(inputs)+len(outputs))}
	for _, n := range inputs {
		c.Pins = append(c.Pins, &Pin{Owner: id, Name: n, Dir: Input, Index: len(c.Pins)})
	}
	for _, n := range outputs {
		c.Pins = append(c.Pins, &Pin{Owner: id, Name: n, Dir: Output, Index: len(c.Pins)})
	}
	return c
}

// Pin returns the pin with the given name or nil.
//
func (c *Component) Pin(name string) *Pin {
	for _, p := range c.Pins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Inputs returns the input pins of c in order.
//
func (c *Component) Inputs() []*Pin { return c.pins(Input) }

// Outputs returns the output pins of c in order.
//
func (c *Component) Outputs() []*Pin { return c.pins(Output) }

func (c *Component) pins(d Direction) []*Pin {
	var ps []*Pin
	for _, p := range c.Pins {
		if p.Dir == d {
			ps = append(ps, p)
		}
	}
	return ps
}

// setLevel updates c.Level and tracks the previous value. It returns true if
// the level changed.
//
func (c *Component) setLevel(v bool) bool {
	if c.Level == v {
		return false
	}
	c.PrevLevel = c.Level
	c.Level = v
	return true
}

// powerOn sets the level that Switch, Clock and PortIn components take when
// added and after a reset. It is a no-op for other kinds.
//
func (c *Component) powerOn(l bool) {
	switch c.Kind {
	case Switch, Clock, PortIn:
		c.init = l
		c.Level = l
	}
}

func (c *Component) reset() {
	c.Level = c.Kind == Vcc || c.init
	c.PrevLevel = false
	c.Value = 0
	for _, p := range c.Pins {
		p.Level = false
	}
	if c.Instance != nil {
		c.Instance.reset()
	}
}

// Segment bits as returned by Segments.
//
const (
	SegA = 1 << iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
	SegDP
)

// hexadecimal digits 0-9, A, b, C, d, E, F.
var digits = [16]uint8{
	SegA | SegB | SegC | SegD | SegE | SegF,
	SegB | SegC,
	SegA | SegB | SegD | SegE | SegG,
	SegA | SegB | SegC | SegD | SegG,
	SegB | SegC | SegF | SegG,
	SegA | SegC | SegD | SegF | SegG,
	SegA | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC,
	SegA | SegB | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC | SegD | SegF | SegG,
	SegA | SegB | SegC | SegE | SegF | SegG,
	SegC | SegD | SegE | SegF | SegG,
	SegA | SegD | SegE | SegF,
	SegB | SegC | SegD | SegE | SegG,
	SegA | SegD | SegE | SegF | SegG,
	SegA | SegE | SegF | SegG,
}

// Segments returns the lit segments of a SevenSegment component, or 0 for
// other kinds.
//
func (c *Component) Segments() uint8 {
	if c.Kind != SevenSegment {
		return 0
	}
	s := digits[c.Value&15]
	if c.Level {
		s |= SegDP
	}
	return s
}

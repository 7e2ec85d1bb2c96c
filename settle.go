// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

// Status is the outcome of Settle.
//
type Status int

// Settle outcomes.
//
const (
	// Stable means that a full pass completed without any change.
	Stable Status = iota
	// Unstable means that the iteration cap was reached while levels were
	// still changing, as in an oscillating feedback loop. The last computed
	// levels are kept.
	Unstable
)

func (s Status) String() string {
	if s == Unstable {
		return "unstable"
	}
	return "stable"
}

// MarshalText implements encoding.TextMarshaler.
//
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Result reports on a call to Settle.
//
type Result struct {
	Status     Status `yaml:"status"`
	Iterations int    `yaml:"iterations"`
	// Changes counts component state changes over all passes.
	Changes int `yaml:"changes"`
}

// Settle propagates levels through the circuit until it reaches a fixed point
// or maxIterations passes have run. If maxIterations <= 0, the MaxIterations
// option is used.
//
// Each pass recomputes all net levels, then evaluates every component in
// insertion order. When the outputs of a component change, the nets it drives
// are updated at once so that components evaluated later in the same pass see
// the new levels.
//
// Settle never fails. Calling Settle from an observer or otherwise while
// another Settle of the same circuit is in progress panics.
//
func (c *Circuit) Settle(maxIterations int) Result {
	if c.settling {
		panic("logicsim: re-entrant call to Settle")
	}
	c.settling = true
	r := c.settle(maxIterations)
	c.settling = false
	c.notify(Event{Type: EventSettled, Result: r})
	return r
}

func (c *Circuit) settle(limit int) Result {
	if limit <= 0 {
		limit = c.opts.MaxIterations
	}
	c.buildNets()
	var r Result
	for r.Iterations < limit {
		r.Iterations++
		for _, n := range c.nets {
			n.update()
		}
		changes := 0
		for _, cp := range c.comps {
			if c.eval(cp) {
				changes++
			}
		}
		r.Changes += changes
		if changes == 0 {
			return r
		}
	}
	r.Status = Unstable
	c.opts.Logger.Debug("circuit did not settle", "iterations", r.Iterations, "changes", r.Changes)
	return r
}

// read returns the level of the net of input pin p and records it in p.
//
func (c *Circuit) read(p *Pin) bool {
	l := false
	if n := c.netOf[p.Ref()]; n != nil {
		l = n.Level
	}
	p.Level = l
	return l
}

// drive sets the level of output pin p and updates its net. It returns true
// if the level changed.
//
func (c *Circuit) drive(p *Pin, l bool) bool {
	if p.Level == l {
		return false
	}
	p.Level = l
	if n := c.netOf[p.Ref()]; n != nil {
		n.update()
	}
	return true
}

// output drives the single output pin p of cp and sets its level.
//
func (c *Circuit) output(cp *Component, p *Pin, v bool) bool {
	d := c.drive(p, v)
	l := cp.setLevel(v)
	return d || l
}

func gate(k Kind, a, b bool) bool {
	switch k {
	case And:
		return a && b
	case Or:
		return a || b
	case Not:
		return !a
	case Nand:
		return !(a && b)
	case Nor:
		return !(a || b)
	case Xor:
		return a != b
	case Xnor:
		return a == b
	}
	panic("logicsim: not a gate: " + k.String())
}

// eval evaluates a single component. It returns true if any of its outputs or
// its level changed.
//
func (c *Circuit) eval(cp *Component) bool {
	ps := cp.Pins
	switch cp.Kind {
	case Not:
		v := gate(Not, c.read(ps[0]), false)
		return c.output(cp, ps[1], v)
	case And, Or, Nand, Nor, Xor, Xnor:
		v := gate(cp.Kind, c.read(ps[0]), c.read(ps[1]))
		return c.output(cp, ps[2], v)
	case NMOS, PMOS:
		base, col := c.read(ps[0]), c.read(ps[1])
		if cp.Kind == PMOS {
			base = !base
		}
		v := base && col
		return c.output(cp, ps[2], v)
	case Vcc:
		cp.Level = true
		return c.drive(ps[0], true)
	case Gnd:
		cp.Level = false
		return c.drive(ps[0], false)
	case Switch, Clock, PortIn:
		return c.drive(ps[0], cp.Level)
	case Led, PortOut, Joint:
		return cp.setLevel(c.read(ps[0]))
	case Counter:
		return c.evalCounter(cp)
	case SevenSegment:
		return c.evalSevenSegment(cp)
	case Keypad:
		changed := false
		for i, p := range ps[:4] {
			changed = c.drive(p, cp.Level && cp.Value&(1<<uint(i)) != 0) || changed
		}
		return c.drive(ps[4], cp.Level) || changed
	case Composite:
		return c.evalComposite(cp)
	}
	return false
}

// evalCounter implements a 4 bit counter that increments on the rising edge of
// clk. A high rst clears the count and inhibits counting.
//
func (c *Circuit) evalCounter(cp *Component) bool {
	ps := cp.Pins
	clk, rst := c.read(ps[0]), c.read(ps[1])
	changed := false
	if cp.setLevel(clk) {
		changed = true
		if cp.Level && !cp.PrevLevel && !rst {
			cp.Value = (cp.Value + 1) % 16
		}
	}
	if rst && cp.Value != 0 {
		cp.Value = 0
		changed = true
	}
	for i, p := range ps[2:] {
		if c.drive(p, cp.Value&(1<<uint(i)) != 0) {
			changed = true
		}
	}
	return changed
}

// evalSevenSegment latches d0..d3 as a value in [0, 15] and dp as the level.
//
func (c *Circuit) evalSevenSegment(cp *Component) bool {
	ps := cp.Pins
	v := 0
	for i, p := range ps[:4] {
		if c.read(p) {
			v |= 1 << uint(i)
		}
	}
	changed := cp.Value != v
	cp.Value = v
	return cp.setLevel(c.read(ps[4])) || changed
}

func (c *Circuit) evalComposite(cp *Component) bool {
	if cp.Instance == nil {
		changed := false
		for _, p := range cp.Outputs() {
			changed = c.drive(p, false) || changed
		}
		return cp.setLevel(false) || changed
	}
	ins := cp.Inputs()
	in := make([]bool, len(ins))
	for i, p := range ins {
		in[i] = c.read(p)
	}
	out := cp.Instance.Evaluate(in)
	changed, high := false, false
	for i, p := range cp.Outputs() {
		v := i < len(out) && out[i]
		changed = c.drive(p, v) || changed
		high = high || v
	}
	return cp.setLevel(high) || changed
}

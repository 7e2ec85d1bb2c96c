// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Default iteration caps.
//
const (
	DefaultMaxIterations       = 50
	DefaultCompositeIterations = 15
)

// Options configures a Circuit.
//
type Options struct {
	// MaxIterations bounds the number of passes of Settle when called with
	// a non-positive cap. Defaults to DefaultMaxIterations.
	MaxIterations int
	// CompositeIterations bounds the internal settle of composite instances.
	// Defaults to DefaultCompositeIterations.
	CompositeIterations int
	// Logger receives debug messages. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var r Options
	if o != nil {
		r = *o
	}
	if r.MaxIterations <= 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if r.CompositeIterations <= 0 {
		r.CompositeIterations = DefaultCompositeIterations
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return r
}

// internal returns the options of a composite instance's internal circuit.
//
func (o Options) internal() Options {
	o.MaxIterations = o.CompositeIterations
	return o
}

// Circuit is a simulated circuit: an arena of components addressed by ID, the
// wires between their pins and the nets derived from those wires.
//
// A Circuit is not safe for concurrent use. Independent circuits share no
// state and may be used from different goroutines.
//
type Circuit struct {
	opts  Options
	reg   *Registry
	comps []*Component
	byID  map[ID]*Component
	wires []Wire

	nets  []*Net
	netOf map[PinRef]*Net
	dirty bool

	settling  bool
	ticks     uint64
	observers []subscriber
	nextObs   int
}

// NewCircuit returns a new empty circuit. reg is used to instantiate composite
// components and may be nil if the circuit does not use any.
//
func NewCircuit(reg *Registry, opts *Options) *Circuit {
	return newCircuit(reg, opts.withDefaults())
}

func newCircuit(reg *Registry, opts Options) *Circuit {
	return &Circuit{
		opts:  opts,
		reg:   reg,
		byID:  make(map[ID]*Component),
		netOf: make(map[PinRef]*Net),
	}
}

// Registry returns the package registry of c.
//
func (c *Circuit) Registry() *Registry { return c.reg }

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.comps) }

// Component returns the component with the given id or nil.
//
func (c *Circuit) Component(id ID) *Component { return c.byID[id] }

// Components returns the components of c in insertion order. The returned
// slice must not be modified.
//
func (c *Circuit) Components() []*Component { return c.comps }

// Wires returns a copy of the wire list.
//
func (c *Circuit) Wires() []Wire {
	return append([]Wire(nil), c.wires...)
}

// Ticks returns the number of clock ticks since the circuit was created or
// last reset.
//
func (c *Circuit) Ticks() uint64 { return c.ticks }

// Add adds a new component of kind k. Composite components must be added
// with AddComposite.
//
func (c *Circuit) Add(id ID, k Kind) (*Component, error) {
	if k == Composite {
		return nil, errors.Wrap(ErrInvalidKind, "use AddComposite for packages")
	}
	if k <= Invalid || int(k) >= len(kindNames) {
		return nil, errors.Wrapf(ErrInvalidKind, "%d", int(k))
	}
	if c.byID[id] != nil {
		return nil, errors.Wrapf(ErrDuplicateID, "component %q", id)
	}
	ins, outs := k.PinNames()
	cp := newComponent(id, k, ins, outs)
	cp.reset()
	c.insert(cp)
	c.notify(Event{Type: EventAdded, Component: id})
	return cp, nil
}

// AddComposite instantiates the package definition templateID from the
// circuit's registry and adds it as a component.
//
func (c *Circuit) AddComposite(id ID, templateID string) (*Component, error) {
	if c.reg == nil {
		return nil, ErrNoRegistry
	}
	if c.byID[id] != nil {
		return nil, errors.Wrapf(ErrDuplicateID, "component %q", id)
	}
	inst, err := c.reg.Instantiate(templateID, InstanceOptions{ID: id, Options: &c.opts})
	if err != nil {
		return nil, err
	}
	cp := newCompositeComponent(id, inst)
	c.insert(cp)
	c.notify(Event{Type: EventAdded, Component: id})
	return cp, nil
}

func newCompositeComponent(id ID, inst *Instance) *Component {
	cp := newComponent(id, Composite, inst.inputNames, inst.outputNames)
	cp.Template = inst.template
	cp.Instance = inst
	return cp
}

func (c *Circuit) insert(cp *Component) {
	c.comps = append(c.comps, cp)
	c.byID[cp.ID] = cp
	c.dirty = true
}

// Remove removes a component and all wires attached to its pins.
//
func (c *Circuit) Remove(id ID) error {
	cp := c.byID[id]
	if cp == nil {
		return errors.Wrapf(ErrNoComponent, "%q", id)
	}
	delete(c.byID, id)
	for i, x := range c.comps {
		if x == cp {
			c.comps = append(c.comps[:i], c.comps[i+1:]...)
			break
		}
	}
	ws := c.wires[:0]
	for _, w := range c.wires {
		if w.From.Component != id && w.To.Component != id {
			ws = append(ws, w)
		}
	}
	c.wires = ws
	c.dirty = true
	c.notify(Event{Type: EventRemoved, Component: id})
	return nil
}

func (c *Circuit) pin(r PinRef) (*Pin, error) {
	cp := c.byID[r.Component]
	if cp == nil {
		return nil, errors.Wrapf(ErrNoComponent, "%q", r.Component)
	}
	if r.Index < 0 || r.Index >= len(cp.Pins) {
		return nil, errors.Wrapf(ErrNoPin, "%s", r)
	}
	return cp.Pins[r.Index], nil
}

// Connect adds a wire between two pins. Connecting two pins that are already
// wired together is a no-op.
//
func (c *Circuit) Connect(from, to PinRef) error {
	if _, err := c.pin(from); err != nil {
		return err
	}
	if _, err := c.pin(to); err != nil {
		return err
	}
	w := Wire{from, to}
	for _, x := range c.wires {
		if x.same(w) {
			return nil
		}
	}
	c.wires = append(c.wires, w)
	c.dirty = true
	c.notify(Event{Type: EventConnected, Wire: w})
	return nil
}

// Disconnect removes the wire between two pins, in either direction.
//
func (c *Circuit) Disconnect(from, to PinRef) error {
	w := Wire{from, to}
	for i, x := range c.wires {
		if x.same(w) {
			c.wires = append(c.wires[:i], c.wires[i+1:]...)
			c.dirty = true
			c.notify(Event{Type: EventDisconnected, Wire: x})
			return nil
		}
	}
	return errors.Wrapf(ErrNoWire, "%s-%s", from, to)
}

func (c *Circuit) source(id ID) (*Component, error) {
	cp := c.byID[id]
	if cp == nil {
		return nil, errors.Wrapf(ErrNoComponent, "%q", id)
	}
	switch cp.Kind {
	case Switch, Clock, PortIn:
		return cp, nil
	}
	return nil, errors.Wrapf(ErrInvalidKind, "cannot set level of %s %q", cp.Kind, id)
}

// SetLevel sets the level of a Switch, Clock or PortIn component. The new
// level propagates on the next call to Settle or Tick.
//
func (c *Circuit) SetLevel(id ID, level bool) error {
	cp, err := c.source(id)
	if err != nil {
		return err
	}
	if cp.setLevel(level) {
		c.notify(Event{Type: EventLevel, Component: id, Level: level})
	}
	return nil
}

// Toggle flips the level of a Switch, Clock or PortIn component.
//
func (c *Circuit) Toggle(id ID) error {
	cp, err := c.source(id)
	if err != nil {
		return err
	}
	return c.SetLevel(id, !cp.Level)
}

// Press holds down key (0-15) on Keypad id. It replaces any key already held.
// The new outputs propagate on the next call to Settle or Tick.
//
func (c *Circuit) Press(id ID, key int) error {
	cp, err := c.keypad(id)
	if err != nil {
		return err
	}
	if key < 0 || key > 15 {
		return errors.Errorf("keypad %q: invalid key %d", id, key)
	}
	if cp.Level && cp.Value == key {
		return nil
	}
	cp.Value = key
	cp.setLevel(true)
	c.notify(Event{Type: EventLevel, Component: id, Level: true})
	return nil
}

// Release releases the key held on Keypad id, if any. The outputs of a
// released keypad are all low.
//
func (c *Circuit) Release(id ID) error {
	cp, err := c.keypad(id)
	if err != nil {
		return err
	}
	if cp.setLevel(false) {
		c.notify(Event{Type: EventLevel, Component: id})
	}
	return nil
}

func (c *Circuit) keypad(id ID) (*Component, error) {
	cp := c.byID[id]
	if cp == nil {
		return nil, errors.Wrapf(ErrNoComponent, "%q", id)
	}
	if cp.Kind != Keypad {
		return nil, errors.Wrapf(ErrInvalidKind, "%s %q is not a keypad", cp.Kind, id)
	}
	return cp, nil
}

// ComponentSpec describes a component for Load.
//
type ComponentSpec struct {
	ID       ID     `yaml:"id"`
	Kind     Kind   `yaml:"kind"`
	Template string `yaml:"template,omitempty"`
	Level    bool   `yaml:"level,omitempty"`
}

// Load replaces the contents of c with the given components and wires and
// clears the tick count. Wires are not checked: wires referencing unknown pins
// are simply ignored when nets are built. Level sets the power-on level of
// Switch, Clock and PortIn components and is ignored for other kinds. On
// error, c is left unchanged.
//
func (c *Circuit) Load(specs []ComponentSpec, wires []Wire) error {
	nc := newCircuit(c.reg, c.opts)
	for _, s := range specs {
		var (
			cp  *Component
			err error
		)
		if s.Kind == Composite {
			cp, err = nc.AddComposite(s.ID, s.Template)
		} else {
			cp, err = nc.Add(s.ID, s.Kind)
		}
		if err != nil {
			return errors.Wrapf(err, "load component %q", s.ID)
		}
		if s.Level {
			cp.powerOn(true)
		}
	}
	c.comps, c.byID = nc.comps, nc.byID
	c.wires = append([]Wire(nil), wires...)
	c.nets, c.netOf = nil, nil
	c.dirty = true
	c.ticks = 0
	c.notify(Event{Type: EventLoaded})
	return nil
}

// Nets returns the current nets of c, rebuilding them if the circuit changed.
//
func (c *Circuit) Nets() []*Net {
	c.buildNets()
	return c.nets
}

// NetOf returns the net a pin belongs to, or nil if the pin is floating.
//
func (c *Circuit) NetOf(r PinRef) *Net {
	c.buildNets()
	return c.netOf[r]
}

// LevelOf returns the level read by pin r: the level of its net, or false if
// the pin is floating.
//
func (c *Circuit) LevelOf(r PinRef) bool {
	if n := c.NetOf(r); n != nil {
		return n.Level
	}
	return false
}

func (c *Circuit) buildNets() {
	if !c.dirty {
		return
	}
	c.nets, c.netOf = BuildNets(c.comps, c.wires)
	c.dirty = false
}

// State is a snapshot of the levels of a circuit.
//
type State struct {
	Ticks  uint64      `yaml:"ticks"`
	Levels map[ID]bool `yaml:"levels"`
	Values map[ID]int  `yaml:"values,omitempty"`
}

// State returns a snapshot of the component levels and of the values of
// counters, seven segment displays and keypads.
//
func (c *Circuit) State() State {
	s := State{Ticks: c.ticks, Levels: make(map[ID]bool, len(c.comps))}
	for _, cp := range c.comps {
		s.Levels[cp.ID] = cp.Level
		switch cp.Kind {
		case Counter, SevenSegment, Keypad:
			if s.Values == nil {
				s.Values = make(map[ID]int)
			}
			s.Values[cp.ID] = cp.Value
		}
	}
	return s
}

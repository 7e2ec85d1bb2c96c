// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Registry holds package definitions. It is safe for concurrent use.
//
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry returns an empty registry.
//
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a new definition. The registry keeps its own copy of d.
//
// Register fails with ErrDuplicateID if a definition with the same id exists,
// ErrNotFound if d uses an unknown definition, ErrCircularReference if d
// contains itself, directly or not, and ErrInvalidDefinition if d is
// malformed.
//
func (r *Registry) Register(d *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defs[d.ID] != nil {
		return errors.Wrapf(ErrDuplicateID, "definition %q", d.ID)
	}
	return r.set(d)
}

// Replace replaces an existing definition. Instances created before the call
// keep their internal graph until refreshed with Circuit.Refresh.
//
func (r *Registry) Replace(d *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defs[d.ID] == nil {
		return errors.Wrapf(ErrNotFound, "%q", d.ID)
	}
	return r.set(d)
}

func (r *Registry) set(d *Definition) error {
	if err := d.check(r.lookup); err != nil {
		return err
	}
	for _, ref := range d.References() {
		if r.contains(ref, d.ID, make(map[string]bool)) {
			return errors.Wrapf(ErrCircularReference, "%s uses %s", d.ID, ref)
		}
	}
	r.defs[d.ID] = d.Clone()
	return nil
}

func (r *Registry) lookup(id string) *Definition { return r.defs[id] }

// contains returns true if definition id is target or uses it, directly or
// through nested packages.
//
func (r *Registry) contains(id, target string, visited map[string]bool) bool {
	if id == target {
		return true
	}
	if visited[id] {
		return false
	}
	visited[id] = true
	d := r.defs[id]
	if d == nil {
		return false
	}
	for _, ref := range d.References() {
		if r.contains(ref, target, visited) {
			return true
		}
	}
	return false
}

// Definition returns a copy of the definition with the given id.
//
func (r *Registry) Definition(id string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d := r.defs[id]
	if d == nil {
		return nil, false
	}
	return d.Clone(), true
}

// IDs returns the sorted ids of all registered definitions.
//
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckReference returns ErrCircularReference if placing an instance of
// candidate inside the definition being edited would make that definition
// contain itself. It returns ErrNotFound if candidate does not exist.
//
func (r *Registry) CheckReference(editing, candidate string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checkReference(editing, candidate)
}

func (r *Registry) checkReference(editing, candidate string) error {
	if r.defs[candidate] == nil {
		return errors.Wrapf(ErrNotFound, "%q", candidate)
	}
	if editing != "" && r.contains(candidate, editing, make(map[string]bool)) {
		return errors.Wrapf(ErrCircularReference, "%s in %s", candidate, editing)
	}
	return nil
}

// InstanceOptions configures Instantiate.
//
type InstanceOptions struct {
	// ID of the instance. A random id is used if empty.
	ID ID
	// Editing is the id of the definition being authored, if any. Instantiate
	// fails if the new instance would contain it.
	Editing string
	// Options of the enclosing circuit. The internal circuit settles with
	// Options.CompositeIterations.
	Options *Options
}

// Instantiate creates an isolated instance of the definition templateID.
//
func (r *Registry) Instantiate(templateID string, opts InstanceOptions) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.checkReference(opts.Editing, templateID); err != nil {
		return nil, err
	}
	id := opts.ID
	if id == "" {
		id = ID(uuid.NewString())
	}
	o := opts.Options.withDefaults()
	inst, err := r.instantiate(r.defs[templateID], id, o.internal())
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("package instantiated", "template", templateID, "id", id, "components", inst.circuit.Size())
	return inst, nil
}

func (r *Registry) instantiate(d *Definition, id ID, opts Options) (*Instance, error) {
	inst := &Instance{
		id:          id,
		template:    d.ID,
		salt:        uuid.NewString()[:8],
		inputNames:  append([]string(nil), d.Inputs...),
		outputNames: append([]string(nil), d.Outputs...),
		ids:         make(map[string]ID, len(d.Components)),
		circuit:     newCircuit(r, opts),
	}
	ic := inst.circuit
	for _, ct := range d.Components {
		nid := ID(string(id) + "_" + ct.ID + "_" + inst.salt)
		var cp *Component
		if ct.Kind == Composite {
			nd := r.defs[ct.Template]
			if nd == nil {
				return nil, errors.Wrapf(ErrNotFound, "%q in %s", ct.Template, d.ID)
			}
			sub, err := r.instantiate(nd, nid, opts)
			if err != nil {
				return nil, err
			}
			cp = newCompositeComponent(nid, sub)
		} else {
			ins, outs := ct.Kind.PinNames()
			cp = newComponent(nid, ct.Kind, ins, outs)
			cp.reset()
			cp.powerOn(ct.Level)
		}
		ic.insert(cp)
		inst.ids[ct.ID] = nid
		switch ct.Kind {
		case PortIn:
			inst.inputs = append(inst.inputs, cp)
		case PortOut:
			inst.outputs = append(inst.outputs, cp)
		}
	}
	for _, w := range d.Wires {
		ic.wires = append(ic.wires, Wire{
			From: PinRef{inst.ids[w.From.Component], w.From.Index},
			To:   PinRef{inst.ids[w.To.Component], w.To.Index},
		})
	}
	return inst, nil
}

// An Instance is the private internal graph of a package placed in a circuit.
// Instances share no state with each other or with their definition.
//
type Instance struct {
	id          ID
	template    string
	salt        string
	inputNames  []string
	outputNames []string
	ids         map[string]ID
	circuit     *Circuit
	inputs      []*Component
	outputs     []*Component
	last        Result
}

// ID returns the instance id.
//
func (i *Instance) ID() ID { return i.id }

// Template returns the id of the definition i was created from.
//
func (i *Instance) Template() string { return i.template }

// Circuit returns the internal circuit of i.
//
func (i *Instance) Circuit() *Circuit { return i.circuit }

// Component returns the internal component created from the component
// template with the given id, or nil.
//
func (i *Instance) Component(templateCompID string) *Component {
	id, ok := i.ids[templateCompID]
	if !ok {
		return nil
	}
	return i.circuit.Component(id)
}

// LastResult returns the result of the internal settle run by the last call
// to Evaluate.
//
func (i *Instance) LastResult() Result { return i.last }

// Evaluate sets the i-th PortIn to inputs[i], settles the internal circuit and
// returns the levels of the PortOut components in order. Missing inputs are
// low.
//
func (i *Instance) Evaluate(inputs []bool) []bool {
	for n, p := range i.inputs {
		p.setLevel(n < len(inputs) && inputs[n])
	}
	i.last = i.circuit.Settle(0)
	out := make([]bool, len(i.outputs))
	for n, p := range i.outputs {
		out[n] = p.Level
	}
	return out
}

// uses returns true if i was built from templateID or contains an instance
// that was.
//
func (i *Instance) uses(templateID string) bool {
	if i.template == templateID {
		return true
	}
	for _, cp := range i.circuit.comps {
		if cp.Instance != nil && cp.Instance.uses(templateID) {
			return true
		}
	}
	return false
}

func (i *Instance) reset() {
	for _, cp := range i.circuit.comps {
		cp.reset()
	}
	i.circuit.dirty = true
	i.last = Result{}
}

// Refresh rebuilds every composite component of c built from templateID, or
// containing such a package, from the current registry definitions. Wires
// attached to pins that no longer exist are dropped. It returns the number of
// refreshed components.
//
func (c *Circuit) Refresh(templateID string) (int, error) {
	if c.reg == nil {
		return 0, ErrNoRegistry
	}
	n := 0
	for _, cp := range c.comps {
		if cp.Instance == nil || !cp.Instance.uses(templateID) {
			continue
		}
		inst, err := c.reg.Instantiate(cp.Template, InstanceOptions{ID: cp.ID, Options: &c.opts})
		if err != nil {
			return n, errors.Wrapf(err, "refresh %q", cp.ID)
		}
		nc := newCompositeComponent(cp.ID, inst)
		*cp = *nc
		n++
		c.notify(Event{Type: EventRefreshed, Component: cp.ID})
	}
	if n > 0 {
		ws := c.wires[:0]
		for _, w := range c.wires {
			if _, err := c.pin(w.From); err != nil {
				continue
			}
			if _, err := c.pin(w.To); err != nil {
				continue
			}
			ws = append(ws, w)
		}
		c.wires = ws
		c.dirty = true
		c.opts.Logger.Debug("packages refreshed", "template", templateID, "count", n)
	}
	return n, nil
}

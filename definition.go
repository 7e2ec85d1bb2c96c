package logicsim

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ComponentTemplate describes a component inside a package definition.
//
type ComponentTemplate struct {
	ID   string `yaml:"id" validate:"required"`
	Kind Kind   `yaml:"kind" validate:"required"`
	// Template is the id of the nested definition when Kind is Composite.
	Template string `yaml:"template,omitempty"`
	// Level is the power-on level of sources.
	Level bool `yaml:"level,omitempty"`
}

// TemplatePin addresses a pin of a component template.
//
type TemplatePin struct {
	Component string `yaml:"component" validate:"required"`
	Index     int    `yaml:"index" validate:"min=0"`
}

// WireTemplate is a wire between two pins of a package definition.
//
type WireTemplate struct {
	From TemplatePin `yaml:"from"`
	To   TemplatePin `yaml:"to"`
}

// A Definition is the blueprint of a package: a sub-circuit with ordered input
// and output ports.
//
// The i-th input of a package instance drives the i-th PortIn component of the
// definition, in the order they appear in Components. The same applies to
// outputs and PortOut components. Inputs and Outputs only name the package
// pins.
//
type Definition struct {
	ID         string              `yaml:"id" validate:"required"`
	Name       string              `yaml:"name,omitempty"`
	Inputs     []string            `yaml:"inputs" validate:"dive,required"`
	Outputs    []string            `yaml:"outputs" validate:"min=1,dive,required"`
	Components []ComponentTemplate `yaml:"components" validate:"min=1,dive"`
	Wires      []WireTemplate      `yaml:"wires" validate:"dive"`
}

// Clone returns a deep copy of d.
//
func (d *Definition) Clone() *Definition {
	n := *d
	n.Inputs = append([]string(nil), d.Inputs...)
	n.Outputs = append([]string(nil), d.Outputs...)
	n.Components = append([]ComponentTemplate(nil), d.Components...)
	n.Wires = append([]WireTemplate(nil), d.Wires...)
	return &n
}

// References returns the ids of the definitions directly used by d, sorted.
//
func (d *Definition) References() []string {
	set := make(map[string]struct{})
	for _, ct := range d.Components {
		if ct.Kind == Composite {
			set[ct.Template] = struct{}{}
		}
	}
	refs := make([]string, 0, len(set))
	for id := range set {
		refs = append(refs, id)
	}
	sort.Strings(refs)
	return refs
}

var validate = validator.New()

// check verifies the structure of d. lookup resolves nested definitions.
//
func (d *Definition) check(lookup func(id string) *Definition) error {
	if err := validate.Struct(d); err != nil {
		return errors.Wrapf(ErrInvalidDefinition, "%s: %v", d.ID, err)
	}
	pins := make(map[string]int, len(d.Components))
	var nIn, nOut int
	for _, ct := range d.Components {
		if _, ok := pins[ct.ID]; ok {
			return errors.Wrapf(ErrInvalidDefinition, "%s: duplicate component id %q", d.ID, ct.ID)
		}
		switch ct.Kind {
		case Composite:
			if ct.Template == d.ID {
				return errors.Wrapf(ErrCircularReference, "%s contains itself", d.ID)
			}
			nd := lookup(ct.Template)
			if nd == nil {
				return errors.Wrapf(ErrNotFound, "%s: component %q uses %q", d.ID, ct.ID, ct.Template)
			}
			pins[ct.ID] = len(nd.Inputs) + len(nd.Outputs)
			continue
		case PortIn:
			nIn++
		case PortOut:
			nOut++
		}
		if ct.Kind <= Invalid || int(ct.Kind) >= len(kindNames) {
			return errors.Wrapf(ErrInvalidDefinition, "%s: component %q has invalid kind", d.ID, ct.ID)
		}
		ins, outs := ct.Kind.PinNames()
		pins[ct.ID] = len(ins) + len(outs)
	}
	if nIn != len(d.Inputs) || nOut != len(d.Outputs) {
		return errors.Wrapf(ErrInvalidDefinition, "%s: %d inputs and %d outputs for %d PORT_IN and %d PORT_OUT",
			d.ID, len(d.Inputs), len(d.Outputs), nIn, nOut)
	}
	for _, w := range d.Wires {
		for _, p := range [...]TemplatePin{w.From, w.To} {
			n, ok := pins[p.Component]
			if !ok {
				return errors.Wrapf(ErrInvalidDefinition, "%s: wire to unknown component %q", d.ID, p.Component)
			}
			if p.Index >= n {
				return errors.Wrapf(ErrInvalidDefinition, "%s: wire to unknown pin %s.%d", d.ID, p.Component, p.Index)
			}
		}
	}
	return nil
}

package logicsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseWires parses a wiring description for the given component templates
// into wire templates.
//
// The description is a comma separated list of connections of the form
// "from>to" where from and to are pin addresses "component.pin". The pin is
// either a pin name for the component's kind or a pin ordinal. Composite
// components only accept ordinals. For example, a half adder:
//
//	a.out>xor.in1, b.out>xor.in2, a.out>and.in1, b.out>and.in2,
//	xor.out>s.in, and.out>c.in
//
// Several targets may share a source: "a.out>xor.in1>and.in1".
//
func ParseWires(components []ComponentTemplate, s string) ([]WireTemplate, error) {
	kinds := make(map[string]Kind, len(components))
	for _, ct := range components {
		kinds[ct.ID] = ct.Kind
	}
	var ws []WireTemplate
	for _, conn := range strings.Split(s, ",") {
		conn = strings.TrimSpace(conn)
		if conn == "" {
			continue
		}
		parts := strings.Split(conn, ">")
		if len(parts) < 2 {
			return nil, errors.Errorf("invalid connection %q", conn)
		}
		from, err := parsePin(kinds, parts[0])
		if err != nil {
			return nil, errors.Wrapf(err, "connection %q", conn)
		}
		for _, p := range parts[1:] {
			to, err := parsePin(kinds, p)
			if err != nil {
				return nil, errors.Wrapf(err, "connection %q", conn)
			}
			ws = append(ws, WireTemplate{From: from, To: to})
		}
	}
	return ws, nil
}

// MustWires is like ParseWires but panics on error.
//
func MustWires(components []ComponentTemplate, s string) []WireTemplate {
	ws, err := ParseWires(components, s)
	if err != nil {
		panic(err)
	}
	return ws
}

func parsePin(kinds map[string]Kind, s string) (TemplatePin, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return TemplatePin{}, errors.Errorf("invalid pin address %q", s)
	}
	comp, name := s[:i], s[i+1:]
	k, ok := kinds[comp]
	if !ok {
		return TemplatePin{}, errors.Wrapf(ErrNoComponent, "%q", comp)
	}
	if n, err := strconv.Atoi(name); err == nil {
		return TemplatePin{comp, n}, nil
	}
	ins, outs := k.PinNames()
	for i, n := range append(append([]string(nil), ins...), outs...) {
		if n == name {
			return TemplatePin{comp, i}, nil
		}
	}
	return TemplatePin{}, errors.Wrapf(ErrNoPin, "%s has no pin %q", k, name)
}

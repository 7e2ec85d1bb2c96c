// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the type of a component.
//
type Kind int

// Component kinds.
//
const (
	Invalid Kind = iota
	And
	Or
	Not
	Nand
	Nor
	Xor
	Xnor
	Switch
	Clock
	Vcc
	Gnd
	Led
	NMOS
	PMOS
	Joint
	PortIn
	PortOut
	Composite
	Counter
	SevenSegment
	Keypad
)

var kindNames = [...]string{
	Invalid:      "INVALID",
	And:          "AND",
	Or:           "OR",
	Not:          "NOT",
	Nand:         "NAND",
	Nor:          "NOR",
	Xor:          "XOR",
	Xnor:         "XNOR",
	Switch:       "SWITCH",
	Clock:        "CLOCK",
	Vcc:          "VCC",
	Gnd:          "GND",
	Led:          "LED",
	NMOS:         "NMOS",
	PMOS:         "PMOS",
	Joint:        "JOINT",
	PortIn:       "PORT_IN",
	PortOut:      "PORT_OUT",
	Composite:    "PACKAGE",
	Counter:      "COUNTER",
	SevenSegment: "SEVEN_SEGMENT",
	Keypad:       "KEYPAD_4X4",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind returns the Kind with the given name, as returned by Kind.String.
//
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if k != int(Invalid) && n == s {
			return Kind(k), nil
		}
	}
	return Invalid, errors.Wrapf(ErrInvalidKind, "%q", s)
}

// MarshalText implements encoding.TextMarshaler.
//
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsGate returns true for the two-input and single input logic gates.
//
func (k Kind) IsGate() bool { return k >= And && k <= Xnor }

// IsSource returns true for components with no inputs that drive a level.
//
func (k Kind) IsSource() bool { return k >= Switch && k <= Gnd || k == Keypad }

// IsSink returns true for display-only components.
//
func (k Kind) IsSink() bool { return k == Led || k == SevenSegment }

// pin names per kind, inputs then outputs.
var (
	gatePins  = [2][]string{{"in1", "in2"}, {"out"}}
	notPins   = [2][]string{{"in1"}, {"out"}}
	srcPins   = [2][]string{nil, {"out"}}
	sinkPins  = [2][]string{{"in"}, nil}
	fetPins   = [2][]string{{"base", "col"}, {"emit"}}
	jointPins = [2][]string{{"node"}, nil}
	cntPins   = [2][]string{{"clk", "rst"}, {"q0", "q1", "q2", "q3"}}
	segPins   = [2][]string{{"d0", "d1", "d2", "d3", "dp"}, nil}
	keyPins   = [2][]string{nil, {"d0", "d1", "d2", "d3", "key"}}
)

// PinNames returns the input and output pin names of a component of kind k.
// Composite pins depend on their definition and are not returned here.
//
func (k Kind) PinNames() (inputs, outputs []string) {
	var p [2][]string
	switch {
	case k == Not:
		p = notPins
	case k.IsGate():
		p = gatePins
	case k == Keypad:
		p = keyPins
	case k.IsSource(), k == PortIn:
		p = srcPins
	case k == Led, k == PortOut:
		p = sinkPins
	case k == NMOS, k == PMOS:
		p = fetPins
	case k == Joint:
		p = jointPins
	case k == Counter:
		p = cntPins
	case k == SevenSegment:
		p = segPins
	}
	return p[0], p[1]
}

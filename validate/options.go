package validate

import ls "github.com/db47h/logicsim"

// Options holds the delay and power tables and the warning thresholds.
//
// Tables are keyed by kind name (ls.Kind.String()) or, for composites, by
// definition id.
//
type Options struct {
	// Delays in ns.
	Delays map[string]float64
	// DefaultDelay applies to kinds and packages missing from Delays.
	DefaultDelay float64
	// Power in μW.
	Power map[string]float64
	// CompositePower applies to packages missing from Power. Other kinds
	// missing from Power draw nothing.
	CompositePower float64
	// StaticFactor is the share of the base power drawn by idle components.
	StaticFactor float64
	// MaxDelay is the critical path delay above which a warning is issued.
	MaxDelay float64
	// MaxPower is the total power above which a warning is issued.
	MaxPower float64
}

// DefaultOptions returns the default tables and thresholds.
//
func DefaultOptions() *Options {
	return &Options{
		Delays: map[string]float64{
			"AND": 2, "OR": 2,
			"NOT":  1,
			"NAND": 1.5, "NOR": 1.5,
			"XOR": 3, "XNOR": 3,
			"SWITCH": 0, "LED": 0, "CLOCK": 0,
			"VCC": 0, "GND": 0, "JOINT": 0, "PORT_IN": 0, "PORT_OUT": 0,
			"SEVEN_SEGMENT": 0, "KEYPAD_4X4": 0,
			"HalfAdder": 5,
			"FullAdder": 7,
			"SRLatch":   4,
			"DFlipFlop": 5,
		},
		DefaultDelay: 10,
		Power: map[string]float64{
			"AND": 0.5, "OR": 0.5,
			"NOT":  0.3,
			"NAND": 0.4, "NOR": 0.4,
			"XOR": 0.8, "XNOR": 0.8,
			"SWITCH":    0.1,
			"LED":       5,
			"CLOCK":     1,
			"HalfAdder": 2,
			"FullAdder": 3,
			"SRLatch":   1.5,
			"DFlipFlop": 2,

			// 8 segments at LED power.
			"SEVEN_SEGMENT": 40,
			"KEYPAD_4X4":    0.1,
		},
		CompositePower: 5,
		StaticFactor:   0.1,
		MaxDelay:       100,
		MaxPower:       1000,
	}
}

func key(cp *ls.Component) string {
	if cp.Kind == ls.Composite {
		return cp.Template
	}
	return cp.Kind.String()
}

func (o *Options) delay(cp *ls.Component) float64 {
	if d, ok := o.Delays[key(cp)]; ok {
		return d
	}
	return o.DefaultDelay
}

func (o *Options) power(cp *ls.Component) float64 {
	if p, ok := o.Power[key(cp)]; ok {
		return p
	}
	if cp.Kind == ls.Composite {
		return o.CompositePower
	}
	return 0
}

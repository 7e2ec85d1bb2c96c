// Package validate implements static analysis of logicsim circuits:
// structural checks, critical path timing and power estimation.
//
// Validation never modifies the circuit and can run between ticks.
//
package validate

import (
	"fmt"
	"strings"

	ls "github.com/db47h/logicsim"
)

// Finding kinds.
//
const (
	UnconnectedPin   = "unconnected_pin"
	MultipleDrivers  = "multiple_drivers"
	CycleDetected    = "cycle_detected"
	NoSignalSource   = "no_signal_source"
	HighDelay        = "high_delay"
	HighPower        = "high_power"
	DoubleInverter   = "double_inverter"
	UnusedComponent  = "unused_component"
	SimplifiableGate = "simplifiable_gates"
)

// Severity of a finding.
//
type Severity int

// Severities.
//
const (
	Error Severity = iota
	Warning
	Suggestion
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	}
	return "suggestion"
}

// MarshalText implements encoding.TextMarshaler.
//
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// A Finding is a single validation result.
//
type Finding struct {
	Kind       string   `yaml:"kind"`
	Severity   Severity `yaml:"severity"`
	Message    string   `yaml:"message"`
	Components []ls.ID  `yaml:"components,omitempty"`
}

// Timing is the result of the critical path analysis. Delays are in ns.
//
type Timing struct {
	CriticalPath []ls.ID `yaml:"critical_path"`
	MaxDelay     float64 `yaml:"max_delay_ns"`
	// MaxFrequency in MHz, 0 if MaxDelay is 0.
	MaxFrequency float64 `yaml:"max_frequency_mhz"`
	// TotalPaths is the number of distinct source to sink paths.
	TotalPaths int `yaml:"total_paths"`
}

// Power is the power estimate in μW.
//
type Power struct {
	Static         float64 `yaml:"static_uw"`
	Dynamic        float64 `yaml:"dynamic_uw"`
	Total          float64 `yaml:"total_uw"`
	ComponentCount int     `yaml:"component_count"`
}

// Report is the result of Run. It is never nil.
//
type Report struct {
	Errors      []Finding `yaml:"errors"`
	Warnings    []Finding `yaml:"warnings"`
	Suggestions []Finding `yaml:"suggestions"`
	Timing      Timing    `yaml:"timing"`
	Power       Power     `yaml:"power"`
}

// Valid returns true if the report has no errors.
//
func (r *Report) Valid() bool { return len(r.Errors) == 0 }

// CycleDetected returns true if a structural cycle was found.
//
func (r *Report) CycleDetected() bool { return len(r.Find(CycleDetected)) > 0 }

// Find returns all findings of the given kind.
//
func (r *Report) Find(kind string) []Finding {
	var fs []Finding
	for _, l := range [][]Finding{r.Errors, r.Warnings, r.Suggestions} {
		for _, f := range l {
			if f.Kind == kind {
				fs = append(fs, f)
			}
		}
	}
	return fs
}

func (r *Report) add(f Finding) {
	switch f.Severity {
	case Error:
		r.Errors = append(r.Errors, f)
	case Warning:
		r.Warnings = append(r.Warnings, f)
	default:
		r.Suggestions = append(r.Suggestions, f)
	}
}

// Run analyses c. If opts is nil, DefaultOptions() is used.
//
// Run does not modify c: nets are built from the current components and
// wires, whether or not c has been settled since its last change. Concurrent
// calls to Run on the same circuit are safe as long as nothing else modifies
// it.
//
func Run(c *ls.Circuit, opts *Options) *Report {
	if opts == nil {
		opts = DefaultOptions()
	}
	r := new(Report)
	nets, netOf := ls.BuildNets(c.Components(), c.Wires())
	g := newGraph(c.Components(), nets)
	checkPins(c, netOf, r)
	checkDrivers(nets, r)
	if len(c.Components()) > 0 && !hasSource(c) {
		r.add(Finding{Kind: NoSignalSource, Severity: Warning,
			Message: "circuit has no switch, clock or keypad"})
	}
	back := g.cycles(r)
	r.Timing = g.timing(opts, back)
	if r.Timing.MaxDelay > opts.MaxDelay {
		r.add(Finding{Kind: HighDelay, Severity: Warning,
			Message:    fmt.Sprintf("critical path delay %.1fns exceeds %.1fns", r.Timing.MaxDelay, opts.MaxDelay),
			Components: r.Timing.CriticalPath})
	}
	r.Power = power(c, opts)
	if r.Power.Total > opts.MaxPower {
		r.add(Finding{Kind: HighPower, Severity: Warning,
			Message: fmt.Sprintf("power consumption %.1fμW exceeds %.1fμW", r.Power.Total, opts.MaxPower)})
	}
	suggest(c, g, netOf, r)
	return r
}

func hasSource(c *ls.Circuit) bool {
	for _, cp := range c.Components() {
		switch cp.Kind {
		case ls.Switch, ls.Clock, ls.Keypad:
			return true
		}
	}
	return false
}

func checkPins(c *ls.Circuit, netOf map[ls.PinRef]*ls.Net, r *Report) {
	for _, cp := range c.Components() {
		if cp.Kind.IsSource() || cp.Kind.IsSink() {
			continue
		}
		for _, p := range cp.Pins {
			if netOf[p.Ref()] == nil {
				r.add(Finding{Kind: UnconnectedPin, Severity: Warning,
					Message:    fmt.Sprintf("%s %s: pin %s is not connected", cp.Kind, cp.ID, p.Name),
					Components: []ls.ID{cp.ID}})
			}
		}
	}
}

func checkDrivers(nets []*ls.Net, r *Report) {
	for _, n := range nets {
		ds := n.Drivers()
		if len(ds) < 2 {
			continue
		}
		ids := make([]ls.ID, len(ds))
		names := make([]string, len(ds))
		for i, p := range ds {
			ids[i] = p.Owner
			names[i] = p.Ref().String()
		}
		r.add(Finding{Kind: MultipleDrivers, Severity: Error,
			Message:    fmt.Sprintf("net %d has %d drivers: %s", n.ID, len(ds), strings.Join(names, ", ")),
			Components: ids})
	}
}

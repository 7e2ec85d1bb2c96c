// Command logicsim runs one of the built-in demo circuits and prints the
// signal traces and the analysis report.
//
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/config"
	"github.com/db47h/logicsim/metrics"
	"github.com/db47h/logicsim/pkglib"
	"github.com/db47h/logicsim/validate"
	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	"gopkg.in/yaml.v3"
)

func p(id ls.ID, i int) ls.PinRef { return ls.PinRef{Component: id, Index: i} }

func wire(from, to ls.PinRef) ls.Command { return ls.Connect{From: from, To: to} }

// counter pins
const (
	cntClk = iota
	cntRst
	cntQ0
	cntQ1
	cntQ2
	cntQ3
)

// clocked returns the commands for a clock driving a 4 bit counter. The
// counter outputs are used as test patterns.
//
func clocked() []ls.Command {
	return []ls.Command{
		ls.AddComponent{ID: "clk", Kind: ls.Clock},
		ls.AddComponent{ID: "cnt", Kind: ls.Counter},
		wire(p("clk", 0), p("cnt", cntClk)),
	}
}

func leds(src ls.ID, first int, ids ...ls.ID) []ls.Command {
	var cmds []ls.Command
	for i, id := range ids {
		cmds = append(cmds,
			ls.AddComponent{ID: id, Kind: ls.Led},
			wire(p(src, first+i), p(id, 0)))
	}
	return cmds
}

var demos = map[string]func() []ls.Command{
	"halfadder": func() []ls.Command {
		cmds := append(clocked(),
			ls.AddComponent{ID: "ha", Kind: ls.Composite, Template: pkglib.HalfAdder},
			wire(p("cnt", cntQ0), p("ha", 0)),
			wire(p("cnt", cntQ1), p("ha", 1)))
		return append(cmds, leds("ha", 2, "s", "c")...)
	},
	"fulladder": func() []ls.Command {
		cmds := append(clocked(),
			ls.AddComponent{ID: "fa", Kind: ls.Composite, Template: pkglib.FullAdder},
			wire(p("cnt", cntQ0), p("fa", 0)),
			wire(p("cnt", cntQ1), p("fa", 1)),
			wire(p("cnt", cntQ2), p("fa", 2)))
		return append(cmds, leds("fa", 3, "s", "cout")...)
	},
	"srlatch": func() []ls.Command {
		cmds := append(clocked(),
			ls.AddComponent{ID: "sr", Kind: ls.Composite, Template: pkglib.SRLatch},
			wire(p("cnt", cntQ1), p("sr", 0)),
			wire(p("cnt", cntQ3), p("sr", 1)))
		return append(cmds, leds("sr", 2, "q", "qn")...)
	},
	"dff": func() []ls.Command {
		cmds := append(clocked(),
			ls.AddComponent{ID: "ff", Kind: ls.Composite, Template: pkglib.DFlipFlop},
			wire(p("cnt", cntQ1), p("ff", 0)),
			wire(p("clk", 0), p("ff", 1)))
		return append(cmds, leds("ff", 2, "q", "qn")...)
	},
	"counter": func() []ls.Command {
		cmds := append(clocked(), ls.AddComponent{ID: "rst", Kind: ls.Switch},
			wire(p("rst", 0), p("cnt", cntRst)))
		return append(cmds, leds("cnt", cntQ0, "q0", "q1", "q2", "q3")...)
	},
	"ring": func() []ls.Command {
		return []ls.Command{
			ls.AddComponent{ID: "n1", Kind: ls.Not},
			ls.AddComponent{ID: "n2", Kind: ls.Not},
			ls.AddComponent{ID: "n3", Kind: ls.Not},
			ls.AddComponent{ID: "out", Kind: ls.Led},
			wire(p("n1", 1), p("n2", 0)),
			wire(p("n2", 1), p("n3", 0)),
			wire(p("n3", 1), p("n1", 0)),
			wire(p("n3", 1), p("out", 0)),
		}
	},
}

func demoNames() string {
	names := make([]string, 0, len(demos))
	for n := range demos {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func main() {
	var (
		cfgPath = flag.String("config", "", "configuration `file`")
		libPath = flag.String("lib", "", "package library `file` to load")
		demo    = flag.String("demo", "fulladder", "demo circuit: "+demoNames())
		ticks   = flag.Int("ticks", 32, "number of clock ticks")
		verbose = flag.Bool("v", false, "verbose output")
		dump    = flag.Bool("metrics", false, "print simulation metrics")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *cfgPath, *libPath, *demo, *ticks, *dump); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfgPath, libPath, demo string, ticks int, dump bool) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	build, ok := demos[demo]
	if !ok {
		return errors.Errorf("unknown demo %q, want one of %s", demo, demoNames())
	}

	reg := pkglib.NewRegistry()
	if libPath != "" {
		ids, err := pkglib.LoadFile(reg, libPath)
		if err != nil {
			return err
		}
		logger.Info("package library loaded", "path", libPath, "packages", ids)
	}

	c := ls.NewCircuit(reg, cfg.EngineOptions(logger))
	scope := ls.NewScope(cfg.Scope.History)
	rec := metrics.NewRecorder(nil)
	c.Subscribe(scope)
	c.Subscribe(rec)
	c.Subscribe(ls.ObserverFunc(func(_ *ls.Circuit, e ls.Event) {
		if e.Type == ls.EventSettled && e.Result.Status == ls.Unstable {
			logger.Warn("circuit did not settle", "iterations", e.Result.Iterations)
		}
	}))

	if err := c.Dispatch(build()...); err != nil {
		return errors.Wrapf(err, "build %s", demo)
	}
	logger.Debug("circuit built", "demo", demo, "components", c.Size(), "nets", len(c.Nets()))
	if err := c.Dispatch(ls.Tick{Count: ticks}); err != nil {
		return err
	}

	fmt.Printf("%s: %d ticks\n", demo, c.Ticks())
	for _, ch := range scope.Channels() {
		fmt.Printf("%-6s %-8s %s\n", ch.ID, ch.Kind, ch)
	}

	report := validate.Run(c, cfg.ValidatorOptions())
	fmt.Println()
	if err := yaml.NewEncoder(os.Stdout).Encode(report); err != nil {
		return errors.Wrap(err, "encode report")
	}

	if dump {
		mfs, err := rec.Registry().Gather()
		if err != nil {
			return errors.Wrap(err, "gather metrics")
		}
		fmt.Println()
		for _, mf := range mfs {
			printFamily(mf)
		}
	}
	return nil
}

func printFamily(mf *dto.MetricFamily) {
	for _, m := range mf.GetMetric() {
		var labels []string
		for _, l := range m.GetLabel() {
			labels = append(labels, l.GetName()+"="+l.GetValue())
		}
		name := mf.GetName()
		if len(labels) > 0 {
			name += "{" + strings.Join(labels, ",") + "}"
		}
		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			fmt.Printf("%s %g\n", name, m.GetCounter().GetValue())
		case dto.MetricType_HISTOGRAM:
			h := m.GetHistogram()
			fmt.Printf("%s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
		}
	}
}

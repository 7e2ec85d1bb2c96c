package logicsim_test

import (
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/pkglib"
)

func counterCircuit(t *testing.T) *ls.Circuit {
	t.Helper()
	comps := []ls.ComponentSpec{
		{ID: "clk", Kind: ls.Clock},
		{ID: "rst", Kind: ls.Switch},
		{ID: "cnt", Kind: ls.Counter},
	}
	wires := [][2]ls.PinRef{
		{pin("clk", 0), pin("cnt", 0)},
		{pin("rst", 0), pin("cnt", 1)},
	}
	for i := 0; i < 4; i++ {
		id := ls.ID("q" + string(rune('0'+i)))
		comps = append(comps, ls.ComponentSpec{ID: id, Kind: ls.Led})
		wires = append(wires, [2]ls.PinRef{pin("cnt", 2+i), pin(id, 0)})
	}
	return build(t, nil, comps, wires...)
}

func leds(t *testing.T, c *ls.Circuit) int {
	v := 0
	for i := 0; i < 4; i++ {
		if level(t, c, ls.ID("q"+string(rune('0'+i)))) {
			v |= 1 << uint(i)
		}
	}
	return v
}

func TestCounter(t *testing.T) {
	c := counterCircuit(t)
	c.Settle(0)
	for i := 1; i <= 20; i++ {
		// rising edge
		c.Tick()
		if v := leds(t, c); v != i%16 {
			t.Fatalf("tick %d: expected %d, got %d", 2*i-1, i%16, v)
		}
		// falling edge, no change
		c.Tick()
		if v := leds(t, c); v != i%16 {
			t.Fatalf("tick %d: expected %d, got %d", 2*i, i%16, v)
		}
		// settling again must not count the same edge twice
		c.Settle(0)
		if v := c.Component("cnt").Value; v != i%16 {
			t.Fatalf("settle after tick %d: expected %d, got %d", 2*i, i%16, v)
		}
	}
	if c.Ticks() != 40 {
		t.Fatalf("expected 40 ticks, got %d", c.Ticks())
	}

	check(t, c.SetLevel("rst", true))
	c.Settle(0)
	if v := leds(t, c); v != 0 {
		t.Fatalf("reset: got %d", v)
	}
	c.TickTock(3)
	if v := leds(t, c); v != 0 {
		t.Fatalf("counting while reset: got %d", v)
	}
	check(t, c.SetLevel("rst", false))
	c.TickTock(2)
	if v := leds(t, c); v != 2 {
		t.Fatalf("after reset: expected 2, got %d", v)
	}
}

func TestTick_clock_levels(t *testing.T) {
	c := build(t, nil, []ls.ComponentSpec{
		{ID: "clk", Kind: ls.Clock},
		{ID: "led", Kind: ls.Led},
	}, [2]ls.PinRef{pin("clk", 0), pin("led", 0)})
	for i := 0; i < 6; i++ {
		r := c.Tick()
		if r.Status != ls.Stable {
			t.Fatalf("tick %d: %+v", i, r)
		}
		exp := i%2 == 0
		if level(t, c, "led") != exp || level(t, c, "clk") != exp {
			t.Fatalf("tick %d: expected %v", i, exp)
		}
		if cp := c.Component("clk"); cp.PrevLevel == cp.Level {
			t.Fatalf("tick %d: PrevLevel not updated", i)
		}
	}
}

func TestTick_dflipflop(t *testing.T) {
	c := build(t, pkglib.NewRegistry(), []ls.ComponentSpec{
		{ID: "clk", Kind: ls.Clock},
		{ID: "d", Kind: ls.Switch},
		{ID: "dff", Kind: ls.Composite, Template: pkglib.DFlipFlop},
		{ID: "q", Kind: ls.Led},
	},
		[2]ls.PinRef{pin("d", 0), pin("dff", 0)},
		[2]ls.PinRef{pin("clk", 0), pin("dff", 1)},
		[2]ls.PinRef{pin("dff", 2), pin("q", 0)})
	c.Settle(0)
	for i, d := range []bool{true, false, false, true, true, false} {
		check(t, c.SetLevel("d", d))
		c.Settle(0)
		c.Tick() // rising
		if level(t, c, "q") != d {
			t.Fatalf("cycle %d: expected Q=%v", i, d)
		}
		check(t, c.SetLevel("d", !d))
		c.Tick() // falling
		if level(t, c, "q") != d {
			t.Fatalf("cycle %d: Q changed on falling edge", i)
		}
	}
}

func TestReset(t *testing.T) {
	c := counterCircuit(t)
	c.Add("vcc", ls.Vcc)
	c.TickTock(5)
	check(t, c.SetLevel("rst", true))
	check(t, c.SetLevel("rst", false))
	r := c.Reset()
	if r.Status != ls.Stable {
		t.Fatalf("reset: %+v", r)
	}
	if c.Ticks() != 0 {
		t.Fatalf("ticks not reset: %d", c.Ticks())
	}
	for _, cp := range c.Components() {
		if cp.Level != (cp.Kind == ls.Vcc) {
			t.Errorf("%s: level %v after reset", cp.ID, cp.Level)
		}
	}
	if v := leds(t, c); v != 0 {
		t.Fatalf("counter not reset: %d", v)
	}
	st := c.State()
	if !st.Levels["vcc"] || st.Values["cnt"] != 0 {
		t.Fatalf("bad state %+v", st)
	}
}

// Power-on levels of package internals survive a reset.
func TestReset_power_on(t *testing.T) {
	cs := []ls.ComponentTemplate{
		{ID: "in", Kind: ls.PortIn},
		{ID: "hi", Kind: ls.Switch, Level: true},
		{ID: "and", Kind: ls.And},
		{ID: "out", Kind: ls.PortOut},
	}
	reg := ls.NewRegistry()
	check(t, reg.Register(&ls.Definition{
		ID:         "BUF",
		Inputs:     []string{"in"},
		Outputs:    []string{"out"},
		Components: cs,
		Wires:      ls.MustWires(cs, "in.out>and.in1, hi.out>and.in2, and.out>out.in"),
	}))
	c := build(t, reg, []ls.ComponentSpec{
		{ID: "a", Kind: ls.Switch},
		{ID: "buf", Kind: ls.Composite, Template: "BUF"},
		{ID: "led", Kind: ls.Led},
	},
		[2]ls.PinRef{pin("a", 0), pin("buf", 0)},
		[2]ls.PinRef{pin("buf", 1), pin("led", 0)})

	for i := 0; i < 2; i++ {
		check(t, c.SetLevel("a", true))
		c.Settle(0)
		if !level(t, c, "led") {
			t.Fatalf("run %d: BUF(1) = 0", i)
		}
		check(t, c.SetLevel("a", false))
		c.Settle(0)
		if level(t, c, "led") {
			t.Fatalf("run %d: BUF(0) = 1", i)
		}
		c.Reset()
		if !c.Component("buf").Instance.Component("hi").Level {
			t.Fatalf("run %d: internal switch low after reset", i)
		}
	}
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

// Tick advances the simulation by one clock tick: it flips the level of every
// Clock component, then settles the circuit with the default iteration cap.
// A full clock cycle takes two ticks.
//
func (c *Circuit) Tick() Result {
	for _, cp := range c.comps {
		if cp.Kind == Clock {
			cp.setLevel(!cp.Level)
		}
	}
	c.ticks++
	r := c.Settle(0)
	c.notify(Event{Type: EventTick, Result: r, Tick: c.ticks})
	return r
}

// TickTock runs n full clock cycles and returns the result of the last tick.
//
func (c *Circuit) TickTock(n int) Result {
	var r Result
	for i := 0; i < 2*n; i++ {
		r = c.Tick()
	}
	return r
}

// Reset returns every component to its power-on state. Levels are low except
// for Vcc and for sources added with a high power-on level. Counters are
// cleared, keypads released and composite internals reset. The tick counter
// is zeroed and the circuit is settled.
//
func (c *Circuit) Reset() Result {
	for _, cp := range c.comps {
		cp.reset()
	}
	c.ticks = 0
	c.dirty = true
	c.notify(Event{Type: EventReset})
	return c.Settle(0)
}

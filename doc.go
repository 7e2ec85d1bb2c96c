/*
Package logicsim implements a discrete boolean logic simulator.

A Circuit is an arena of components (gates, switches, clocks, LEDs,
transistors, joints, packages, counters, seven segment displays and keypads)
whose pins are connected by wires. Pins
connected through wires form nets. A net carries a single level, the OR of
all the output pins connected to it. Floating nets are low.

Levels are propagated by Settle, which iterates over all components until no
output changes or an iteration cap is reached. Feedback loops such as latches
are legal: they are iterated like any other component. An oscillating circuit
simply reports an Unstable result.

	c := logicsim.NewCircuit(nil, nil)
	c.Add("a", logicsim.Switch)
	c.Add("b", logicsim.Switch)
	c.Add("and", logicsim.And)
	c.Add("led", logicsim.Led)
	c.Connect(logicsim.PinRef{"a", 0}, logicsim.PinRef{"and", 0})
	c.Connect(logicsim.PinRef{"b", 0}, logicsim.PinRef{"and", 1})
	c.Connect(logicsim.PinRef{"and", 2}, logicsim.PinRef{"led", 0})
	c.SetLevel("a", true)
	c.SetLevel("b", true)
	c.Settle(0) // led is now high

Packages are sub-circuits described by a Definition and stored in a Registry.
Each placed package owns a private Instance of its definition, with ids
remapped so that no state is shared between instances.

Tick flips all clocks and settles the circuit. Changes applied to a circuit
are reported to observers, and may be applied as Commands through Dispatch.

The validate sub-package runs structural, timing and power checks on a
circuit.
*/
package logicsim

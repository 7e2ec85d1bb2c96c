package logicsim

import "github.com/pkg/errors"

// A Command is a change request applied to a circuit by Dispatch.
//
type Command interface {
	// apply applies the command and reports whether the circuit needs to be
	// settled afterwards.
	apply(c *Circuit) (settle bool, err error)
}

// AddComponent adds a component. Template is required for composites.
//
type AddComponent struct {
	ID       ID
	Kind     Kind
	Template string
	Level    bool
}

func (a AddComponent) apply(c *Circuit) (bool, error) {
	var (
		cp  *Component
		err error
	)
	if a.Kind == Composite {
		cp, err = c.AddComposite(a.ID, a.Template)
	} else {
		cp, err = c.Add(a.ID, a.Kind)
	}
	if err != nil {
		return false, err
	}
	if a.Level {
		cp.powerOn(true)
	}
	return true, nil
}

// RemoveComponent removes a component and its wires.
//
type RemoveComponent struct{ ID ID }

func (r RemoveComponent) apply(c *Circuit) (bool, error) { return true, c.Remove(r.ID) }

// Connect wires two pins together.
//
type Connect struct{ From, To PinRef }

func (w Connect) apply(c *Circuit) (bool, error) { return true, c.Connect(w.From, w.To) }

// Disconnect removes a wire.
//
type Disconnect struct{ From, To PinRef }

func (w Disconnect) apply(c *Circuit) (bool, error) { return true, c.Disconnect(w.From, w.To) }

// Toggle flips a switch or clock.
//
type Toggle struct{ ID ID }

func (t Toggle) apply(c *Circuit) (bool, error) { return true, c.Toggle(t.ID) }

// SetLevel sets the level of a switch or clock.
//
type SetLevel struct {
	ID    ID
	Level bool
}

func (s SetLevel) apply(c *Circuit) (bool, error) { return true, c.SetLevel(s.ID, s.Level) }

// Press holds down a key on a keypad.
//
type Press struct {
	ID  ID
	Key int
}

func (p Press) apply(c *Circuit) (bool, error) { return true, c.Press(p.ID, p.Key) }

// Release releases the key held on a keypad.
//
type Release struct{ ID ID }

func (r Release) apply(c *Circuit) (bool, error) { return true, c.Release(r.ID) }

// Tick runs Count clock ticks, or one if Count is 0.
//
type Tick struct{ Count int }

func (t Tick) apply(c *Circuit) (bool, error) {
	n := t.Count
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		c.Tick()
	}
	return false, nil
}

// Reset resets the circuit to its power-on state.
//
type Reset struct{}

func (Reset) apply(c *Circuit) (bool, error) {
	c.Reset()
	return false, nil
}

// Dispatch applies commands in order. Changes are settled before the next
// Tick or Reset command, and once all commands are applied, so that a batch
// behaves like the same commands dispatched one at a time. Dispatch stops at
// the first failing command; commands applied before it are kept and the
// circuit is still settled.
//
func (c *Circuit) Dispatch(cmds ...Command) error {
	pending := false
	var err error
	for i, cmd := range cmds {
		switch cmd.(type) {
		case Tick, Reset:
			if pending {
				c.Settle(0)
				pending = false
			}
		}
		var s bool
		if s, err = cmd.apply(c); err != nil {
			err = errors.Wrapf(err, "command #%d (%T)", i, cmd)
			break
		}
		pending = s
	}
	if pending {
		c.Settle(0)
	}
	return err
}

package logicsim_test

import (
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/pkglib"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	c := ls.NewCircuit(nil, nil)
	var events []ls.EventType
	cancel := c.Subscribe(ls.ObserverFunc(func(_ *ls.Circuit, e ls.Event) {
		events = append(events, e.Type)
	}))

	err := c.Dispatch(
		ls.AddComponent{ID: "a", Kind: ls.Switch, Level: true},
		ls.AddComponent{ID: "n", Kind: ls.Not},
		ls.AddComponent{ID: "led", Kind: ls.Led},
		ls.Connect{From: pin("a", 0), To: pin("n", 0)},
		ls.Connect{From: pin("n", 1), To: pin("led", 0)},
	)
	require.NoError(t, err)
	assert.False(t, level(t, c, "led"))
	assert.Equal(t, []ls.EventType{
		ls.EventAdded, ls.EventAdded, ls.EventAdded,
		ls.EventConnected, ls.EventConnected,
		ls.EventSettled,
	}, events)

	events = nil
	require.NoError(t, c.Dispatch(ls.Toggle{ID: "a"}))
	assert.True(t, level(t, c, "led"))
	assert.Equal(t, []ls.EventType{ls.EventLevel, ls.EventSettled}, events)

	events = nil
	require.NoError(t, c.Dispatch(ls.SetLevel{ID: "a", Level: false}, ls.Tick{Count: 2}))
	assert.Equal(t, []ls.EventType{
		ls.EventLevel, ls.EventSettled,
		ls.EventSettled, ls.EventTick,
		ls.EventSettled, ls.EventTick,
	}, events)
	assert.Equal(t, uint64(2), c.Ticks())

	events = nil
	err = c.Dispatch(
		ls.Disconnect{From: pin("led", 0), To: pin("n", 1)},
		ls.RemoveComponent{ID: "missing"},
		ls.RemoveComponent{ID: "a"},
	)
	require.Error(t, err)
	assert.Equal(t, ls.ErrNoComponent, errors.Cause(err))
	assert.Equal(t, []ls.EventType{ls.EventDisconnected, ls.EventSettled}, events)
	assert.NotNil(t, c.Component("a"), "commands after a failure must not be applied")
	assert.Nil(t, c.NetOf(pin("led", 0)))

	cancel()
	events = nil
	require.NoError(t, c.Dispatch(ls.Reset{}))
	assert.Empty(t, events)
}

// Inputs changed in the same batch as a Tick must be settled before the clock
// edge, as if they had been dispatched on their own.
func TestDispatch_tick(t *testing.T) {
	newDFF := func() *ls.Circuit {
		c := build(t, pkglib.NewRegistry(), []ls.ComponentSpec{
			{ID: "d", Kind: ls.Switch},
			{ID: "clk", Kind: ls.Clock},
			{ID: "ff", Kind: ls.Composite, Template: pkglib.DFlipFlop},
			{ID: "q", Kind: ls.Led},
		},
			[2]ls.PinRef{pin("d", 0), pin("ff", 0)},
			[2]ls.PinRef{pin("clk", 0), pin("ff", 1)},
			[2]ls.PinRef{pin("ff", 2), pin("q", 0)})
		c.Settle(0)
		// capture D=0
		require.NoError(t, c.Dispatch(ls.Tick{Count: 2}))
		require.False(t, level(t, c, "q"))
		return c
	}

	single := newDFF()
	require.NoError(t, single.Dispatch(ls.SetLevel{ID: "d", Level: true}))
	require.NoError(t, single.Dispatch(ls.Tick{}))

	batch := newDFF()
	require.NoError(t, batch.Dispatch(ls.SetLevel{ID: "d", Level: true}, ls.Tick{}))

	for _, c := range []*ls.Circuit{single, batch} {
		assert.True(t, level(t, c, "clk"))
		assert.True(t, level(t, c, "q"))
	}
	assert.Equal(t, single.State(), batch.State())

	var events []ls.EventType
	batch.Subscribe(ls.ObserverFunc(func(_ *ls.Circuit, e ls.Event) {
		events = append(events, e.Type)
	}))
	require.NoError(t, batch.Dispatch(ls.SetLevel{ID: "d", Level: false}, ls.Reset{}))
	assert.Equal(t, []ls.EventType{
		ls.EventLevel, ls.EventSettled,
		ls.EventReset, ls.EventSettled,
	}, events)
	assert.Equal(t, uint64(0), batch.Ticks())
}

func TestCircuit_errors(t *testing.T) {
	c := ls.NewCircuit(nil, nil)
	_, err := c.Add("a", ls.Switch)
	require.NoError(t, err)

	_, err = c.Add("a", ls.Led)
	assert.Equal(t, ls.ErrDuplicateID, errors.Cause(err))
	_, err = c.Add("p", ls.Composite)
	assert.Equal(t, ls.ErrInvalidKind, errors.Cause(err))
	_, err = c.Add("x", ls.Kind(100))
	assert.Equal(t, ls.ErrInvalidKind, errors.Cause(err))
	_, err = c.AddComposite("p", "HalfAdder")
	assert.Equal(t, ls.ErrNoRegistry, errors.Cause(err))
	assert.Equal(t, ls.ErrNoPin, errors.Cause(c.Connect(pin("a", 0), pin("a", 1))))
	assert.Equal(t, ls.ErrNoComponent, errors.Cause(c.Connect(pin("a", 0), pin("b", 0))))
	assert.Equal(t, ls.ErrNoWire, errors.Cause(c.Disconnect(pin("a", 0), pin("a", 0))))
	assert.Equal(t, ls.ErrNoComponent, errors.Cause(c.Remove("b")))
	assert.Equal(t, ls.ErrNoComponent, errors.Cause(c.Toggle("b")))
	_, err = c.Refresh("x")
	assert.Equal(t, ls.ErrNoRegistry, errors.Cause(err))
}

func TestLoad(t *testing.T) {
	c := ls.NewCircuit(nil, nil)
	err := c.Load([]ls.ComponentSpec{
		{ID: "a", Kind: ls.Switch, Level: true},
		{ID: "b", Kind: ls.Switch, Level: true},
		{ID: "and", Kind: ls.And},
		{ID: "led", Kind: ls.Led},
	}, []ls.Wire{
		{From: pin("a", 0), To: pin("and", 0)},
		{From: pin("b", 0), To: pin("and", 1)},
		{From: pin("and", 2), To: pin("led", 0)},
		{From: pin("ghost", 0), To: pin("led", 0)}, // ignored
		{From: pin("and", 9), To: pin("led", 0)},   // ignored
	})
	require.NoError(t, err)
	c.Settle(0)
	assert.True(t, level(t, c, "led"))
	assert.Len(t, c.Nets(), 3)

	// failed loads leave the circuit untouched.
	err = c.Load([]ls.ComponentSpec{{ID: "x", Kind: ls.Not}, {ID: "x", Kind: ls.Not}}, nil)
	assert.Equal(t, ls.ErrDuplicateID, errors.Cause(err))
	assert.Equal(t, 4, c.Size())

	// loading starts a new simulation.
	require.NoError(t, c.Dispatch(ls.Tick{Count: 3}))
	require.Equal(t, uint64(3), c.Ticks())
	require.NoError(t, c.Load([]ls.ComponentSpec{
		{ID: "clk", Kind: ls.Clock},
		{ID: "led", Kind: ls.Led},
	}, []ls.Wire{{From: pin("clk", 0), To: pin("led", 0)}}))
	assert.Equal(t, uint64(0), c.Ticks())
	assert.Equal(t, uint64(0), c.State().Ticks)
	assert.Nil(t, c.NetOf(pin("and", 2)))
	assert.Len(t, c.Nets(), 1)
	c.Tick()
	assert.True(t, level(t, c, "led"))
	assert.Equal(t, uint64(1), c.State().Ticks)
}

func TestLoad_reset(t *testing.T) {
	c := ls.NewCircuit(nil, nil)
	require.NoError(t, c.Load([]ls.ComponentSpec{
		{ID: "hi", Kind: ls.Switch, Level: true},
		{ID: "clk", Kind: ls.Clock, Level: true},
		{ID: "lo", Kind: ls.Switch},
		{ID: "and", Kind: ls.And, Level: true}, // ignored
		{ID: "led", Kind: ls.Led},
	}, []ls.Wire{{From: pin("hi", 0), To: pin("led", 0)}}))
	c.Settle(0)
	assert.True(t, level(t, c, "led"))
	assert.False(t, level(t, c, "and"))

	require.NoError(t, c.SetLevel("hi", false))
	require.NoError(t, c.SetLevel("lo", true))
	c.Settle(0)
	assert.False(t, level(t, c, "led"))

	c.Reset()
	for id, exp := range map[ls.ID]bool{"hi": true, "clk": true, "lo": false, "led": true} {
		assert.Equal(t, exp, level(t, c, id), "%s after reset", id)
	}
}

func TestKind(t *testing.T) {
	for k := ls.And; k <= ls.Keypad; k++ {
		p, err := ls.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, p)
	}
	_, err := ls.ParseKind("INVALID")
	assert.Equal(t, ls.ErrInvalidKind, errors.Cause(err))
	assert.Equal(t, "Kind(42)", ls.Kind(42).String())
}

func TestScope(t *testing.T) {
	c := build(t, nil, []ls.ComponentSpec{
		{ID: "clk", Kind: ls.Clock},
		{ID: "n", Kind: ls.Not},
		{ID: "led", Kind: ls.Led},
	},
		[2]ls.PinRef{pin("clk", 0), pin("n", 0)},
		[2]ls.PinRef{pin("n", 1), pin("led", 0)})
	s := ls.NewScope(4)
	c.Subscribe(s)
	for i := 0; i < 6; i++ {
		c.Tick()
	}
	chs := s.Channels()
	require.Len(t, chs, 2)
	assert.Equal(t, ls.ID("clk"), chs[0].ID)
	assert.Equal(t, ls.ID("led"), chs[1].ID)
	assert.Equal(t, 4, chs[0].Len())
	assert.Equal(t, []bool{true, false, true, false}, chs[0].Trace())
	assert.Equal(t, "_#_#", s.Channel("led").String())

	require.NoError(t, c.Remove("led"))
	assert.Nil(t, s.Channel("led"))
	c.Reset()
	assert.Empty(t, s.Channels())
}

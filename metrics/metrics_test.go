package metrics

import (
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNewRecorder(t *testing.T) {
	r := NewRecorder(nil)
	require.NotNil(t, r.Registry())
	assert.NotNil(t, r.Ticks)
	assert.NotNil(t, r.Events)
	assert.NotNil(t, r.SettleUnstable)
	assert.NotNil(t, r.SettleIterations)

	reg := prometheus.NewRegistry()
	assert.Same(t, reg, NewRecorder(reg).Registry())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(nil)
	c := ls.NewCircuit(nil, nil)
	c.Subscribe(r)

	_, err := c.Add("clk", ls.Clock)
	require.NoError(t, err)
	_, err = c.Add("led", ls.Led)
	require.NoError(t, err)
	require.NoError(t, c.Connect(ls.PinRef{Component: "clk"}, ls.PinRef{Component: "led"}))
	c.TickTock(2)

	assert.Equal(t, 4.0, counterValue(t, r.Ticks))
	assert.Equal(t, 2.0, counterValue(t, r.Events.WithLabelValues("added")))
	assert.Equal(t, 1.0, counterValue(t, r.Events.WithLabelValues("connected")))
	assert.Equal(t, 4.0, counterValue(t, r.Events.WithLabelValues("settled")))
	assert.Equal(t, 4.0, counterValue(t, r.Events.WithLabelValues("tick")))
	assert.Zero(t, counterValue(t, r.SettleUnstable))

	mfs, err := r.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "logicsim_settle_iterations" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			assert.Equal(t, uint64(4), h.GetSampleCount())
		}
	}
	assert.True(t, found)
}

func TestRecorder_unstable(t *testing.T) {
	r := NewRecorder(nil)
	c := ls.NewCircuit(nil, nil)
	c.Subscribe(r)
	_, err := c.Add("n", ls.Not)
	require.NoError(t, err)
	require.NoError(t, c.Connect(ls.PinRef{Component: "n", Index: 1}, ls.PinRef{Component: "n", Index: 0}))

	res := c.Settle(5)
	require.Equal(t, ls.Unstable, res.Status)
	assert.Equal(t, 1.0, counterValue(t, r.SettleUnstable))
}

package logicsim

// A Net is a set of pins connected through wires and joints. It carries a
// single level: the OR of its output pins (wired-OR). A net without drivers
// is low.
//
type Net struct {
	ID      int
	Pins    []PinRef
	Level   bool
	drivers []*Pin
	readers []*Pin
}

// Drivers returns the output pins asserting onto n.
//
func (n *Net) Drivers() []*Pin { return n.drivers }

// Readers returns the input pins reading n.
//
func (n *Net) Readers() []*Pin { return n.readers }

// update recomputes n.Level from its drivers. Returns true if the level changed.
//
func (n *Net) update() bool {
	l := false
	for _, p := range n.drivers {
		if p.Level {
			l = true
			break
		}
	}
	if l == n.Level {
		return false
	}
	n.Level = l
	return true
}

// union-find over pin slots.
type disjoint []int

func (d disjoint) find(i int) int {
	for d[i] != i {
		d[i] = d[d[i]]
		i = d[i]
	}
	return i
}

func (d disjoint) union(a, b int) {
	a, b = d.find(a), d.find(b)
	if a == b {
		return
	}
	if b < a {
		a, b = b, a
	}
	d[b] = a
}

// BuildNets groups the pins of components into nets. Wires referencing
// unknown components or pins are ignored. All wires attached to the pin of a
// Joint end up in the same net. Pins not attached to any wire are floating
// and are not part of any net.
//
// The returned map indexes nets by pin. Net levels are computed from the
// current pin levels.
//
func BuildNets(components []*Component, wires []Wire) ([]*Net, map[PinRef]*Net) {
	slot := make(map[PinRef]int)
	var pins []*Pin
	for _, c := range components {
		for _, p := range c.Pins {
			slot[p.Ref()] = len(pins)
			pins = append(pins, p)
		}
	}

	d := make(disjoint, len(pins))
	for i := range d {
		d[i] = i
	}
	wired := make([]bool, len(pins))
	for _, w := range wires {
		a, ok := slot[w.From]
		if !ok {
			continue
		}
		b, ok := slot[w.To]
		if !ok {
			continue
		}
		wired[a], wired[b] = true, true
		d.union(a, b)
	}
	var nets []*Net
	byRoot := make(map[int]*Net)
	index := make(map[PinRef]*Net)
	for i, p := range pins {
		if !wired[i] {
			continue
		}
		r := d.find(i)
		n := byRoot[r]
		if n == nil {
			n = &Net{ID: len(nets)}
			byRoot[r] = n
			nets = append(nets, n)
		}
		ref := p.Ref()
		n.Pins = append(n.Pins, ref)
		if p.Dir == Output {
			n.drivers = append(n.drivers, p)
		} else {
			n.readers = append(n.readers, p)
		}
		index[ref] = n
	}
	for _, n := range nets {
		n.update()
	}
	return nets, index
}

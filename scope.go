package logicsim

import "strings"

// DefaultHistory is the default number of samples kept per scope channel.
//
const DefaultHistory = 1000

// A Scope records the level of switches, clocks, LEDs and output ports after
// every clock tick. Each channel keeps the last History samples.
//
// A Scope is an Observer; register it with Circuit.Subscribe.
//
type Scope struct {
	history  int
	channels map[ID]*Channel
	order    []ID
}

// NewScope returns a new scope keeping history samples per channel. If
// history <= 0, DefaultHistory is used.
//
func NewScope(history int) *Scope {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Scope{history: history, channels: make(map[ID]*Channel)}
}

func probed(k Kind) bool {
	switch k {
	case Switch, Clock, Led, PortOut:
		return true
	}
	return false
}

// Notify implements Observer.
//
func (s *Scope) Notify(c *Circuit, e Event) {
	switch e.Type {
	case EventTick:
		for _, cp := range c.Components() {
			if probed(cp.Kind) {
				s.channel(cp).push(cp.Level)
			}
		}
	case EventRemoved:
		if _, ok := s.channels[e.Component]; ok {
			delete(s.channels, e.Component)
			for i, id := range s.order {
				if id == e.Component {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		}
	case EventReset, EventLoaded:
		s.Clear()
	}
}

func (s *Scope) channel(cp *Component) *Channel {
	ch := s.channels[cp.ID]
	if ch == nil {
		ch = &Channel{ID: cp.ID, Kind: cp.Kind, buf: make([]bool, s.history)}
		s.channels[cp.ID] = ch
		s.order = append(s.order, cp.ID)
	}
	return ch
}

// Clear drops all channels.
//
func (s *Scope) Clear() {
	s.channels = make(map[ID]*Channel)
	s.order = nil
}

// Channels returns the channels in the order they were first sampled.
//
func (s *Scope) Channels() []*Channel {
	chs := make([]*Channel, len(s.order))
	for i, id := range s.order {
		chs[i] = s.channels[id]
	}
	return chs
}

// Channel returns the channel of component id or nil.
//
func (s *Scope) Channel(id ID) *Channel { return s.channels[id] }

// A Channel is the sample history of a single component, stored in a ring
// buffer.
//
type Channel struct {
	ID    ID
	Kind  Kind
	buf   []bool
	start int
	n     int
}

func (ch *Channel) push(v bool) {
	if ch.n < len(ch.buf) {
		ch.buf[(ch.start+ch.n)%len(ch.buf)] = v
		ch.n++
		return
	}
	ch.buf[ch.start] = v
	ch.start = (ch.start + 1) % len(ch.buf)
}

// Len returns the number of samples held.
//
func (ch *Channel) Len() int { return ch.n }

// Trace returns the samples, oldest first.
//
func (ch *Channel) Trace() []bool {
	t := make([]bool, ch.n)
	for i := range t {
		t[i] = ch.buf[(ch.start+i)%len(ch.buf)]
	}
	return t
}

// String renders the trace using '_' for low and '#' for high samples.
//
func (ch *Channel) String() string {
	var b strings.Builder
	for _, v := range ch.Trace() {
		if v {
			b.WriteByte('#')
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

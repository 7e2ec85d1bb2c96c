package logicsim

// EventType identifies a change notification.
//
type EventType int

// Event types.
//
const (
	EventAdded EventType = iota
	EventRemoved
	EventConnected
	EventDisconnected
	EventLevel
	EventLoaded
	EventSettled
	EventTick
	EventReset
	EventRefreshed
)

var eventNames = [...]string{
	EventAdded:        "added",
	EventRemoved:      "removed",
	EventConnected:    "connected",
	EventDisconnected: "disconnected",
	EventLevel:        "level",
	EventLoaded:       "loaded",
	EventSettled:      "settled",
	EventTick:         "tick",
	EventReset:        "reset",
	EventRefreshed:    "refreshed",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// An Event describes a change applied to a circuit. Only the fields relevant
// to its Type are set.
//
type Event struct {
	Type      EventType
	Component ID     // Added, Removed, Level, Refreshed
	Wire      Wire   // Connected, Disconnected
	Level     bool   // Level
	Result    Result // Settled, Tick
	Tick      uint64 // Tick
}

// An Observer is notified of changes applied to a circuit. Notify is called
// synchronously once the change is complete.
//
type Observer interface {
	Notify(c *Circuit, e Event)
}

// ObserverFunc adapts a function to the Observer interface.
//
type ObserverFunc func(c *Circuit, e Event)

// Notify calls f(c, e).
//
func (f ObserverFunc) Notify(c *Circuit, e Event) { f(c, e) }

// Subscribe registers an observer. The returned function unregisters it.
//
func (c *Circuit) Subscribe(o Observer) (cancel func()) {
	c.nextObs++
	id := c.nextObs
	c.observers = append(c.observers, subscriber{id, o})
	return func() {
		for i, s := range c.observers {
			if s.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

type subscriber struct {
	id int
	o  Observer
}

func (c *Circuit) notify(e Event) {
	for _, s := range c.observers {
		s.o.Notify(c, e)
	}
}

package events

import (
	"sync"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/l"
)

type Type int

const (
	DomainsLoaded Type = iota + 1
	DomainsEvicted
	MinDateReached
	MinDateNotReached
	MaxDateReached
	MaxDateNotReached
	AfterLoadNext
	AfterLoadPrevious
	Filled
)

var typeNames = map[Type]string{
	DomainsLoaded:     "domainsLoaded",
	DomainsEvicted:    "domainsEvicted",
	MinDateReached:    "minDateReached",
	MinDateNotReached: "minDateNotReached",
	MaxDateReached:    "maxDateReached",
	MaxDateNotReached: "maxDateNotReached",
	AfterLoadNext:     "afterLoadNext",
	AfterLoadPrevious: "afterLoadPrevious",
	Filled:            "filled",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "unknown"
}

type Event struct {
	Type    Type
	Domains []time.Time
	// Count is the number of cells written by a Filled event.
	Count int
}

type Handler func(e Event)

type subscriber struct {
	id      uint64
	types   map[Type]bool
	handler Handler
}

func (s *subscriber) wants(t Type) bool {
	return len(s.types) == 0 || s.types[t]
}

// Bus delivers events synchronously, in subscription order. An empty type list subscribes to
// everything.
type Bus struct {
	logger l.Wrapper

	lock sync.RWMutex
	subs []*subscriber
}

func NewBus(logger l.Wrapper) *Bus {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &Bus{
		logger: logger.WithFields(l.StringField(l.ClsKey, "Bus")),
	}
}

func (bus *Bus) Subscribe(handler Handler, types ...Type) uint64 {
	if handler == nil {
		return 0
	}

	sub := &subscriber{
		id:      snowflake.ID(),
		types:   make(map[Type]bool, len(types)),
		handler: handler,
	}

	for _, t := range types {
		sub.types[t] = true
	}

	bus.lock.Lock()
	bus.subs = append(bus.subs, sub)
	bus.lock.Unlock()

	return sub.id
}

func (bus *Bus) Unsubscribe(id uint64) bool {
	bus.lock.Lock()
	defer bus.lock.Unlock()

	for idx, sub := range bus.subs {
		if sub.id == id {
			bus.subs = append(bus.subs[:idx], bus.subs[idx+1:]...)

			return true
		}
	}

	return false
}

// Chan subscribes a buffered channel. Delivery never blocks the publisher: when the buffer is
// full the event is dropped. Call cancel to unsubscribe; the channel is not closed.
func (bus *Bus) Chan(size int, types ...Type) (ch <-chan Event, cancel func()) {
	c := make(chan Event, size)

	id := bus.Subscribe(func(e Event) {
		select {
		case c <- e:
		default:
			bus.logger.WithFields(l.StringField("event", e.Type.String())).Error("subscriber channel full, event dropped")
		}
	}, types...)

	return c, func() {
		bus.Unsubscribe(id)
	}
}

func (bus *Bus) Publish(e Event) {
	bus.lock.RLock()
	subs := append([]*subscriber(nil), bus.subs...)
	bus.lock.RUnlock()

	for _, sub := range subs {
		if sub.wants(e.Type) {
			sub.handler(e)
		}
	}
}

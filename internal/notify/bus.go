package notify

import "sync"

// Topics published by the terminal. A notification tells subscribers to
// reload their own snapshot; it carries no payload and makes no ordering or
// atomicity promise between terminals.
const (
	TopicProducts  = "products"
	TopicInventory = "inventory"
)

// Bus is an in-process invalidate-and-refetch channel, decoupled from any
// storage mechanism. Signals coalesce: a subscriber that has not drained a
// pending signal does not accumulate more.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

// Subscription receives coalesced invalidation signals on C until cancelled.
type Subscription struct {
	bus   *Bus
	topic string
	C     chan struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[*Subscription]struct{})}
}

func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{bus: b, topic: topic, C: make(chan struct{}, 1)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	return sub
}

// Publish signals every subscriber of the topic. Never blocks.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[topic] {
		select {
		case sub.C <- struct{}{}:
		default:
		}
	}
}

// Cancel removes the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs[s.topic], s)
}

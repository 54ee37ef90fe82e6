package dashboard

import "sync"

// EventKind names what happened to the collection.
type EventKind string

const (
	EventLoaded      EventKind = "loaded"
	EventCreated     EventKind = "created"
	EventUpdated     EventKind = "updated"
	EventDeleted     EventKind = "deleted"
	EventFailed      EventKind = "failed"
	EventAuthExpired EventKind = "auth_expired"
)

// Event is a user-facing notification about an engine operation. How long it
// stays on screen is up to the subscriber.
type Event struct {
	Kind    EventKind
	TaskID  string
	Message string
	Err     error
}

// broker fans events out to subscribers synchronously, outside engine locks.
type broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func newBroker() *broker {
	return &broker{subs: make(map[int]func(Event))}
}

func (b *broker) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *broker) publish(ev Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

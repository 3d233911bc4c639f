// Package notify is the typed event bus that replaces ad-hoc toast state.
// The entry service publishes one event per mutation; presentation layers
// subscribe and decide how to show them.
package notify

import (
	"sync"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/timecalc"
)

type Kind string

const (
	KindAdded    Kind = "added"
	KindUpdated  Kind = "updated"
	KindDeleted  Kind = "deleted"
	KindRestored Kind = "restored"
)

const (
	DefaultTTL  = 5 * time.Second
	DeletedTTL  = 8 * time.Second
	RestoredTTL = 3 * time.Second
)

type Event struct {
	ID          uint64           `json:"id"`
	Kind        Kind             `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Entry       models.TimeEntry `json:"entry"`
	UndoToken   string           `json:"undoToken,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	TTL         time.Duration    `json:"-"`
}

var titles = map[Kind]string{
	KindAdded:    "Time entry added",
	KindUpdated:  "Time entry updated",
	KindDeleted:  "Time entry deleted",
	KindRestored: "Time entry restored",
}

// NewEvent builds the event for kind with the standard title, description and TTL.
func NewEvent(kind Kind, entry models.TimeEntry) Event {
	ttl := DefaultTTL
	switch kind {
	case KindDeleted:
		ttl = DeletedTTL
	case KindRestored:
		ttl = RestoredTTL
	}
	return Event{
		Kind:        kind,
		Title:       titles[kind],
		Description: entry.ProjectName + ": " + timecalc.FormatHMS(entry.Duration),
		Entry:       entry,
		CreatedAt:   time.Now(),
		TTL:         ttl,
	}
}

// Bus delivers events synchronously to subscribers in publish order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func(Event)
	pubMu  sync.Mutex
	seq    uint64
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish stamps ev with a sequence number and hands it to every subscriber.
// Concurrent publishers are serialized so all subscribers see one order.
func (b *Bus) Publish(ev Event) Event {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.seq++
	ev.ID = b.seq
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	b.mu.RLock()
	subs := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
	return ev
}

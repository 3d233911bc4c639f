package notify

import (
	"sync"
	"time"
)

// Feed keeps published events until their TTL runs out, so pollers can show
// the currently visible notifications.
type Feed struct {
	mu     sync.Mutex
	events []Event
	limit  int
	now    func() time.Time
}

// NewFeed keeps at most limit live events; older ones are dropped first.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 20
	}
	return &Feed{limit: limit, now: time.Now}
}

// Attach subscribes the feed to bus and returns the unsubscribe function.
func (f *Feed) Attach(bus *Bus) func() {
	return bus.Subscribe(f.push)
}

func (f *Feed) push(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, ev)
	if len(f.events) > f.limit {
		f.events = f.events[len(f.events)-f.limit:]
	}
}

// Dismiss removes the event with the given id.
func (f *Feed) Dismiss(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, ev := range f.events {
		if ev.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return
		}
	}
}

// Active returns the unexpired events, newest first.
func (f *Feed) Active() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	live := f.events[:0]
	for _, ev := range f.events {
		if now.Before(ev.CreatedAt.Add(ev.TTL)) {
			live = append(live, ev)
		}
	}
	f.events = live

	out := make([]Event, len(live))
	for i, ev := range live {
		out[len(live)-1-i] = ev
	}
	return out
}

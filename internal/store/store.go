// Package store owns the canonical, most-recent-first list of time entries.
// Every mutation is persisted as one JSON document through a storage.Storage
// adapter and announced on a notify.Bus.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"Mansoor88-6/time-tracker/internal/models"
	"Mansoor88-6/time-tracker/internal/notify"
	"Mansoor88-6/time-tracker/internal/storage"
	"Mansoor88-6/time-tracker/internal/ttlcache"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKey is the storage key holding the serialized entry list.
const DefaultKey = "time-entries"

// DefaultUndoWindow is how long a deleted entry can be restored.
const DefaultUndoWindow = 8 * time.Second

var (
	ErrNotFound    = errors.New("time entry not found")
	ErrDuplicateID = errors.New("time entry id already exists")
	ErrUndoExpired = errors.New("undo window expired")
)

// UndoToken identifies one deletion that may still be reverted.
type UndoToken string

// Check inspects the current entries before a write and vetoes it by
// returning an error. It runs under the store lock.
type Check func(current []models.TimeEntry) error

// Options configures a Store. Zero values use the defaults.
type Options struct {
	Key        string
	UndoWindow time.Duration
}

// Store is the in-memory entry list backed by a storage adapter.
type Store struct {
	mu        sync.RWMutex
	entries   []models.TimeEntry
	lastSaved []byte

	storage storage.Storage
	key     string
	undo    *ttlcache.Cache[UndoToken, models.TimeEntry]
	bus     *notify.Bus
	logger  *zap.Logger

	watchCancel context.CancelFunc
}

// New loads the persisted entries from st. A missing key starts an empty list.
func New(ctx context.Context, st storage.Storage, opts Options, bus *notify.Bus, logger *zap.Logger) (*Store, error) {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	if bus == nil {
		bus = notify.NewBus()
	}

	s := &Store{
		storage: st,
		key:     opts.Key,
		bus:     bus,
		logger:  logger,
		undo:    ttlcache.New[UndoToken, models.TimeEntry](opts.UndoWindow, opts.UndoWindow, logger),
	}

	if err := s.Reload(ctx); err != nil {
		s.undo.Stop()
		return nil, err
	}

	logger.Info("Entry store loaded",
		zap.String("key", s.key),
		zap.Int("entries", len(s.entries)),
		zap.Duration("undo_window", opts.UndoWindow),
	)
	return s, nil
}

// Reload replaces the in-memory list with the persisted one.
func (s *Store) Reload(ctx context.Context) error {
	raw, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	var entries []models.TimeEntry
	if ok && len(bytes.TrimSpace(raw)) > 0 {
		if err := sonic.ConfigStd.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("failed to decode entries: %w", err)
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.lastSaved = raw
	s.mu.Unlock()
	return nil
}

// Watch follows external changes when the storage adapter supports it.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.storage.(storage.Watcher)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.watchCancel = cancel
	s.mu.Unlock()

	return w.Watch(ctx, s.key, func() {
		raw, ok, err := s.storage.GetItem(ctx, s.key)
		if err != nil || !ok {
			return
		}
		s.mu.RLock()
		same := bytes.Equal(raw, s.lastSaved)
		s.mu.RUnlock()
		if same {
			return
		}
		if err := s.Reload(ctx); err != nil {
			s.logger.Warn("Failed to reload entries after external change", zap.Error(err))
			return
		}
		s.logger.Info("Entries reloaded after external change")
	})
}

// Subscribe registers fn for every mutation event.
func (s *Store) Subscribe(fn func(notify.Event)) func() {
	return s.bus.Subscribe(fn)
}

// List returns a copy of all entries, most recent first.
func (s *Store) List() []models.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TimeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Page returns up to limit entries starting at offset.
func (s *Store) Page(limit, offset int) []models.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.entries) {
		return []models.TimeEntry{}
	}
	end := len(s.entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]models.TimeEntry, end-offset)
	copy(out, s.entries[offset:end])
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.TimeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return models.TimeEntry{}, false
}

// Add inserts entry at the head of the list.
func (s *Store) Add(ctx context.Context, entry models.TimeEntry) error {
	return s.AddChecked(ctx, entry, nil)
}

// AddChecked inserts entry at the head after check accepts the current list.
func (s *Store) AddChecked(ctx context.Context, entry models.TimeEntry, check Check) error {
	s.mu.Lock()
	if s.indexOf(entry.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
	}
	if check != nil {
		if err := check(s.entries); err != nil {
			s.mu.Unlock()
			return err
		}
	}

	next := make([]models.TimeEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	next = append(next, s.entries...)
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.Publish(notify.NewEvent(notify.KindAdded, entry))
	return nil
}

// Update replaces the entry with the same id, keeping its position.
func (s *Store) Update(ctx context.Context, entry models.TimeEntry) error {
	return s.UpdateChecked(ctx, entry, nil)
}

// UpdateChecked replaces the entry after check accepts the current list.
func (s *Store) UpdateChecked(ctx context.Context, entry models.TimeEntry, check Check) error {
	s.mu.Lock()
	i := s.indexOf(entry.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	}
	if check != nil {
		if err := check(s.entries); err != nil {
			s.mu.Unlock()
			return err
		}
	}

	next := make([]models.TimeEntry, len(s.entries))
	copy(next, s.entries)
	next[i] = entry
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.Publish(notify.NewEvent(notify.KindUpdated, entry))
	return nil
}

// Delete removes the entry and opens the undo window for it.
func (s *Store) Delete(ctx context.Context, id string) (UndoToken, models.TimeEntry, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return "", models.TimeEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := s.entries[i]
	next := make([]models.TimeEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:i]...)
	next = append(next, s.entries[i+1:]...)
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return "", models.TimeEntry{}, err
	}

	token := UndoToken(uuid.NewString())
	s.undo.Set(token, removed)

	ev := notify.NewEvent(notify.KindDeleted, removed)
	ev.UndoToken = string(token)
	s.bus.Publish(ev)
	return token, removed, nil
}

// Restore puts the exact deleted value back at the head of the list. Any
// entry that has since taken the same id is replaced.
func (s *Store) Restore(ctx context.Context, token UndoToken) (models.TimeEntry, error) {
	entry, ok := s.undo.Take(token)
	if !ok {
		return models.TimeEntry{}, ErrUndoExpired
	}

	s.mu.Lock()
	next := make([]models.TimeEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	for _, e := range s.entries {
		if e.ID != entry.ID {
			next = append(next, e)
		}
	}
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		s.undo.Set(token, entry)
		return models.TimeEntry{}, err
	}

	s.bus.Publish(notify.NewEvent(notify.KindRestored, entry))
	return entry, nil
}

// Close stops background work owned by the store.
func (s *Store) Close() {
	s.mu.Lock()
	cancel := s.watchCancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.undo.Stop()
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []models.TimeEntry) error {
	raw, err := sonic.ConfigStd.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to persist entries: %w", err)
	}
	s.entries = next
	s.lastSaved = raw
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

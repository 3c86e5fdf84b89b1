package favorites

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/kv"
	"github.com/five82/shelf/internal/notify"
)

const (
	// DefaultKey is the storage key holding the JSON array of favorite ids.
	DefaultKey = "product-favorites"
	// DefaultAutoClose is how long favorites toasts stay visible.
	DefaultAutoClose = 700 * time.Millisecond

	clearedMessage = "All favorites cleared."
)

// Item identifies a product for toggling.
type Item struct {
	ID   string
	Name string
}

// Store is the process-wide favorites set. It loads from the backing store on
// first use and writes the full set back after every mutation. Storage
// failures are logged and never returned; the in-memory set stays correct.
type Store struct {
	backing   kv.Store
	notifier  notify.Notifier
	logger    *zap.Logger
	key       string
	autoClose time.Duration

	mu     sync.Mutex
	loaded bool
	ids    []string
	index  map[string]struct{}
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithAutoClose overrides the toast duration.
func WithAutoClose(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.autoClose = d
		}
	}
}

// New builds a Store. A nil notifier discards toasts.
func New(backing kv.Store, notifier notify.Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Store{
		backing:   backing,
		notifier:  notifier,
		logger:    zap.NewNop(),
		key:       DefaultKey,
		autoClose: DefaultAutoClose,
		index:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	_, ok := s.index[id]
	return ok
}

// Add inserts id and announces it. It reports whether the set changed.
func (s *Store) Add(id, name string) bool {
	s.mu.Lock()
	s.ensureLoaded()
	if _, ok := s.index[id]; ok {
		s.mu.Unlock()
		return false
	}
	s.addLocked(id)
	s.persist()
	s.mu.Unlock()

	s.toast(addedMessage(name))
	return true
}

// Remove deletes id and announces it. It reports whether the set changed.
func (s *Store) Remove(id, name string) bool {
	s.mu.Lock()
	s.ensureLoaded()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return false
	}
	s.removeLocked(id)
	s.persist()
	s.mu.Unlock()

	s.toast(removedMessage(name))
	return true
}

// Toggle removes the item if present, otherwise adds it. It returns the new
// membership.
func (s *Store) Toggle(item Item) bool {
	s.mu.Lock()
	s.ensureLoaded()
	_, present := s.index[item.ID]
	if present {
		s.removeLocked(item.ID)
	} else {
		s.addLocked(item.ID)
	}
	s.persist()
	s.mu.Unlock()

	if present {
		s.toast(removedMessage(item.Name))
		return false
	}
	s.toast(addedMessage(item.Name))
	return true
}

// ClearAll empties the set.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.ensureLoaded()
	s.ids = nil
	s.index = make(map[string]struct{})
	s.persist()
	s.mu.Unlock()

	s.toast(clearedMessage)
}

// IDs returns the favorite ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return len(s.ids)
}

// FavoriteProducts keeps the products that are favorites, in their given order.
func (s *Store) FavoriteProducts(products []catalog.Product) []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	out := make([]catalog.Product, 0, len(s.ids))
	for _, p := range products {
		if _, ok := s.index[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) addLocked(id string) {
	s.ids = append(s.ids, id)
	s.index[id] = struct{}{}
}

func (s *Store) removeLocked(id string) {
	delete(s.index, id)
	kept := s.ids[:0]
	for _, existing := range s.ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.ids = kept
}

func addedMessage(name string) string {
	return fmt.Sprintf("%s added to favorites.", name)
}

func removedMessage(name string) string {
	return fmt.Sprintf("%s removed from favorites.", name)
}

// ensureLoaded must be called with s.mu held.
func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.backing == nil {
		return
	}

	raw, ok, err := s.backing.Get(s.key)
	if err != nil {
		s.logger.Error("error loading favorites", zap.String("key", s.key), zap.Error(err))
		return
	}
	if !ok || raw == "" {
		return
	}
	ids, err := decodeIDs(raw)
	if err != nil {
		s.logger.Error("error parsing favorites", zap.String("key", s.key), zap.Error(err))
		return
	}
	for _, id := range ids {
		if _, dup := s.index[id]; dup || id == "" {
			continue
		}
		s.ids = append(s.ids, id)
		s.index[id] = struct{}{}
	}
	s.logger.Debug("favorites loaded", zap.Int("count", len(s.ids)))
}

// persist must be called with s.mu held.
func (s *Store) persist() {
	if s.backing == nil {
		return
	}
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		s.logger.Error("error encoding favorites", zap.Error(err))
		return
	}
	if err := s.backing.Set(s.key, string(payload)); err != nil {
		s.logger.Error("error persisting favorites", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) toast(message string) {
	s.notifier.Notify(notify.Toast{
		Message:   message,
		Theme:     notify.ThemeAuto,
		Kind:      notify.KindDefault,
		AutoClose: s.autoClose,
	})
}

// decodeIDs accepts a JSON array of id strings, or an array of product
// objects carrying an "id" field as written by older releases.
func decodeIDs(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids, nil
	}
	var records []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	ids = make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

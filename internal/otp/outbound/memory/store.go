// Package memory keeps OTP records in process memory. Records do not survive
// a restart.
package memory

import (
	"sync"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/spaolacci/murmur3"
	"go.uber.org/atomic"
)

const stripeCount = 64

// Store is a keyed record map with per-key mutual exclusion. Operations on
// the same key are serialized by a lock stripe chosen by hashing the key;
// the map itself is guarded separately so different keys proceed in parallel.
type Store struct {
	stripes [stripeCount]sync.Mutex

	mu      sync.RWMutex
	records map[entity.Key]entity.Record
	size    atomic.Int64
}

func NewStore() *Store {
	return &Store{records: make(map[entity.Key]entity.Record)}
}

func (s *Store) stripe(key entity.Key) *sync.Mutex {
	h := murmur3.New32()
	_, _ = h.Write([]byte(key.Phone))
	_, _ = h.Write([]byte{0, byte(key.Purpose)})
	return &s.stripes[h.Sum32()%stripeCount]
}

// Put stores rec under its key, replacing any existing record.
func (s *Store) Put(rec entity.Record) {
	key := rec.Key()
	lock := s.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	s.save(key, rec)
}

// Get returns a copy of the record for key.
func (s *Store) Get(key entity.Key) (entity.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	return rec, ok
}

// Delete removes key and reports whether a record existed.
func (s *Store) Delete(key entity.Key) bool {
	lock := s.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	return s.remove(key)
}

// Apply runs fn with the key's lock held. fn receives a copy of the record,
// or nil when there is none, and decides whether the (possibly modified)
// copy is saved, deleted or left alone.
func (s *Store) Apply(key entity.Key, fn func(rec *entity.Record) entity.Mutation) {
	lock := s.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	var ptr *entity.Record
	if rec, ok := s.Get(key); ok {
		ptr = &rec
	}

	switch fn(ptr) {
	case entity.MutationSave:
		if ptr != nil {
			s.save(key, *ptr)
		}
	case entity.MutationDelete:
		s.remove(key)
	case entity.MutationNone:
	}
}

// Keys returns a snapshot of the current keys.
func (s *Store) Keys() []entity.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]entity.Key, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	return keys
}

// Records returns a snapshot copy of every record.
func (s *Store) Records() []entity.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

func (s *Store) Len() int {
	return int(s.size.Load())
}

func (s *Store) save(key entity.Key, rec entity.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; !exists {
		s.size.Inc()
	}
	s.records[key] = rec
}

func (s *Store) remove(key entity.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; !exists {
		return false
	}
	delete(s.records, key)
	s.size.Dec()
	return true
}

package reference

import (
	"sync"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Store holds the external reference system's field data. Writers replace
// the whole mapping atomically; readers always see a consistent snapshot.
type Store struct {
	mu   sync.RWMutex
	data models.ReferenceData
}

func NewStore() *Store {
	return &Store{
		data: models.ReferenceData{},
	}
}

// Replace swaps in a full copy of the given mapping. Callers merging
// partial updates must read-modify-write themselves.
func (s *Store) Replace(data models.ReferenceData) {
	next := make(models.ReferenceData, len(data))
	for docType, entry := range data {
		next[docType] = entry
	}

	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
}

// Snapshot returns the current mapping. The returned map is never mutated
// after Replace swaps it in, so callers may read it without holding a lock.
func (s *Store) Snapshot() models.ReferenceData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

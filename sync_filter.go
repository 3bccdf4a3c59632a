package bloom

import "sync"

// SyncFilter serializes mutation of a BloomFilter against concurrent queries.
// Test calls share a read lock; Add, Union and Intersection take the write
// lock.
type SyncFilter struct {
	mu sync.RWMutex
	f  BloomFilter
}

// NewSyncFilter wraps f. The caller must stop using f directly.
func NewSyncFilter(f BloomFilter) *SyncFilter {
	return &SyncFilter{f: f}
}

func (s *SyncFilter) Add(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Add(data)
}

func (s *SyncFilter) Test(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Test(data)
}

func (s *SyncFilter) TestOrAdd(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestOrAdd(data)
}

// Union merges g into the wrapped filter. g must not be mutated concurrently.
func (s *SyncFilter) Union(g BloomFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Union(g)
}

// Intersection intersects the wrapped filter with g. g must not be mutated
// concurrently.
func (s *SyncFilter) Intersection(g BloomFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Intersection(g)
}

// Encode serializes a consistent snapshot of the wrapped filter.
func (s *SyncFilter) Encode(compress bool) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(s.f, compress)
}

// Snapshot returns an independent copy of the wrapped filter.
func (s *SyncFilter) Snapshot() BloomFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newFilter(s.f.N(), s.f.P(), s.f.Cap(), s.f.K(), s.f.Generator(), s.f.BitSet().Clone())
}

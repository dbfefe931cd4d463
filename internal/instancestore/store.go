package instancestore

import (
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/paintworklet/internal/script"
)

// Store maps paint names to their constructed instances.
//
// Access normally comes from a single worklet scope goroutine, but the
// store is safe for concurrent use so that inspection (Len, Get) from
// other goroutines does not race with draws.
type Store struct {
	instances sync.Map // Key: paint name, Value: script.Value
	count     atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Get returns the instance stored for name.
func (s *Store) Get(name string) (script.Value, bool) {
	v, ok := s.instances.Load(name)
	if !ok {
		return nil, false
	}
	return v.(script.Value), true
}

// Put stores instance under name unless an instance is already present,
// and returns whichever instance the store holds afterwards. stored
// reports whether instance was the one kept.
func (s *Store) Put(name string, instance script.Value) (actual script.Value, stored bool) {
	v, loaded := s.instances.LoadOrStore(name, instance)
	if !loaded {
		s.count.Add(1)
	}
	return v.(script.Value), !loaded
}

// Len returns the number of stored instances.
func (s *Store) Len() int {
	return int(s.count.Load())
}

package input

import (
	"slices"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// KeySet is the set of keys currently held down.
type KeySet struct {
	keys map[core.Key]struct{}
}

// NewKeySet returns an empty set.
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[core.Key]struct{})}
}

// Press marks key as held. It reports true only on an up-to-down
// transition; pressing an already held key (auto-repeat) returns false.
func (s *KeySet) Press(key core.Key) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Release marks key as up. It reports true only if key was held.
func (s *KeySet) Release(key core.Key) bool {
	if _, ok := s.keys[key]; !ok {
		return false
	}
	delete(s.keys, key)
	return true
}

// Has reports whether key is held.
func (s *KeySet) Has(key core.Key) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of held keys.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// Keys returns the held keys in sorted order.
func (s *KeySet) Keys() []core.Key {
	out := make([]core.Key, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Clear releases every key.
func (s *KeySet) Clear() {
	clear(s.keys)
}

// ABOUTME: Remembered set of old-generation objects that may reference young objects
// ABOUTME: Serves as the extra root set that lets minor GC skip scanning the old generation

package barrier

import (
	"sort"

	"github.com/prateek/gengc/heap"
)

// RememberedSet tracks old-generation handles whose objects may hold
// references into the young generation. Membership is checked only at
// insertion time; the coordinator clears the set after every minor
// collection before stale entries could be read as roots.
// Not safe for concurrent use.
type RememberedSet struct {
	entries map[heap.Handle]struct{}
}

// NewRememberedSet creates an empty remembered set
func NewRememberedSet() *RememberedSet {
	return &RememberedSet{
		entries: make(map[heap.Handle]struct{}),
	}
}

// Add records an old-generation handle. Handles issued by other spaces
// are ignored: only old objects can hold the cross-generational
// references this set exists to track.
func (rs *RememberedSet) Add(h heap.Handle) {
	if h.Space != heap.SpaceOld {
		return
	}
	rs.entries[h] = struct{}{}
}

// Remove drops a handle from the set; removing an absent handle is a no-op
func (rs *RememberedSet) Remove(h heap.Handle) {
	delete(rs.entries, h)
}

// Contains reports whether h is in the set
func (rs *RememberedSet) Contains(h heap.Handle) bool {
	_, ok := rs.entries[h]
	return ok
}

// Clear empties the set
func (rs *RememberedSet) Clear() {
	rs.entries = make(map[heap.Handle]struct{})
}

// Len returns the number of remembered handles
func (rs *RememberedSet) Len() int {
	return len(rs.entries)
}

// Handles returns the current membership in a stable order
func (rs *RememberedSet) Handles() []heap.Handle {
	out := make([]heap.Handle, 0, len(rs.entries))
	for h := range rs.entries {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

// ABOUTME: JSON snapshot of the collector's heap state for debugging and inspection
// ABOUTME: Writes spaces, object records, roots, and the remembered set; reads them back

package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/prateek/gengc/gc"
	"github.com/prateek/gengc/heap"
)

// Snapshot is the decoded form of a heap-state dump. It is an inspection
// aid only: reading a snapshot does not reconstruct a collector.
type Snapshot struct {
	Version string  `json:"version"`
	Spaces  []Space `json:"spaces"`
	Roots   []Ref   `json:"roots"`
	// Remembered lists the remembered set at snapshot time
	Remembered []Ref `json:"remembered,omitempty"`
}

// Space is one space's records in a snapshot
type Space struct {
	Name      string   `json:"name"`
	UsedBytes uint64   `json:"used_bytes"`
	Capacity  uint64   `json:"capacity,omitempty"`
	Objects   []Object `json:"objects"`
}

// Object is a single object record in a snapshot
type Object struct {
	Index uint64 `json:"index"`
	Size  uint64 `json:"size"`
	Age   uint32 `json:"age,omitempty"`
}

// Ref is a handle in snapshot form
type Ref struct {
	Space string `json:"space"`
	Index uint64 `json:"index"`
}

func ref(h heap.Handle) Ref {
	return Ref{Space: h.Space.String(), Index: h.Index}
}

// Write serializes the collector's current heap state as JSON
func Write(w io.Writer, c *gc.GenerationalGC) error {
	snap := Snapshot{Version: "1"}

	young := Space{
		Name:      heap.SpaceYoung.String(),
		UsedBytes: c.Young().UsedBytes(),
		Capacity:  c.Young().Capacity(),
		Objects:   []Object{},
	}
	c.Young().ForEachObject(func(h heap.Handle, size uint64, age uint32) {
		young.Objects = append(young.Objects, Object{Index: h.Index, Size: size, Age: age})
	})

	old := Space{
		Name:      heap.SpaceOld.String(),
		UsedBytes: c.Old().UsedBytes(),
		Capacity:  c.Old().Capacity(),
		Objects:   []Object{},
	}
	c.Old().ForEachObject(func(h heap.Handle, size uint64) {
		old.Objects = append(old.Objects, Object{Index: h.Index, Size: size})
	})

	large := Space{
		Name:      heap.SpaceLarge.String(),
		UsedBytes: c.Large().UsedBytes(),
		Objects:   []Object{},
	}
	c.Large().ForEachObject(func(h heap.Handle, size uint64) {
		large.Objects = append(large.Objects, Object{Index: h.Index, Size: size})
	})

	for _, sp := range []*Space{&young, &old, &large} {
		sort.Slice(sp.Objects, func(i, j int) bool {
			return sp.Objects[i].Index < sp.Objects[j].Index
		})
	}
	snap.Spaces = []Space{young, old, large}

	snap.Roots = make([]Ref, 0)
	for _, h := range c.Roots() {
		snap.Roots = append(snap.Roots, ref(h))
	}
	for _, h := range c.WriteBarrier().RememberedPointers() {
		snap.Remembered = append(snap.Remembered, ref(h))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Read decodes and validates a snapshot produced by Write
func Read(r io.Reader) (*Snapshot, error) {
	var snap Snapshot

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	known := map[string]bool{
		heap.SpaceYoung.String(): true,
		heap.SpaceOld.String():   true,
		heap.SpaceLarge.String(): true,
	}
	for _, sp := range snap.Spaces {
		if !known[sp.Name] {
			return nil, fmt.Errorf("unknown space %q", sp.Name)
		}
		var sum uint64
		for i, obj := range sp.Objects {
			if obj.Size == 0 {
				return nil, fmt.Errorf("space %q: object at index %d has zero size", sp.Name, i)
			}
			sum += obj.Size
		}
		if sum != sp.UsedBytes {
			return nil, fmt.Errorf("space %q: object sizes sum to %d but used_bytes is %d", sp.Name, sum, sp.UsedBytes)
		}
	}
	for _, rt := range snap.Roots {
		if !known[rt.Space] {
			return nil, fmt.Errorf("root references unknown space %q", rt.Space)
		}
	}

	return &snap, nil
}

// SpaceByName returns the named space's records, or nil if absent
func (s *Snapshot) SpaceByName(name string) *Space {
	for i := range s.Spaces {
		if s.Spaces[i].Name == name {
			return &s.Spaces[i]
		}
	}
	return nil
}

// ABOUTME: GenerationalGC coordinator: allocation routing, scavenge, major GC, and roots
// ABOUTME: The only component that mutates the root list or crosses space boundaries

package gc

import (
	"errors"
	"sort"
	"time"

	"github.com/prateek/gengc/barrier"
	"github.com/prateek/gengc/heap"
)

// Configuration defaults and the fixed large-object threshold.
const (
	// DefaultYoungCapacity is the default nursery size (8 MiB)
	DefaultYoungCapacity = 8 << 20
	// DefaultOldCapacity is the default tenured-space size (64 MiB)
	DefaultOldCapacity = 64 << 20
	// LargeObjectThreshold routes allocations of this size or more to the
	// large object space (64 KiB)
	LargeObjectThreshold = 64 << 10
	// DefaultPromotionAge is the number of minor collections an object
	// must survive before promotion
	DefaultPromotionAge = 3
)

// ErrInvalidPromotionAge is returned when setting a zero promotion age
var ErrInvalidPromotionAge = errors.New("promotion age must be positive")

// Config configures a collector. Zero fields take the defaults above.
type Config struct {
	YoungCapacity uint64 // Nursery capacity in bytes
	OldCapacity   uint64 // Tenured-space capacity in bytes
	PromotionAge  uint32 // Minor collections survived before promotion
}

// MinorResult reports what a single scavenge pass did
type MinorResult struct {
	BytesFreed        uint64        // Nursery bytes actually reclaimed
	ObjectsPromoted   int           // Survivors moved into the old generation
	ObjectsSurvived   int           // Survivors copied into the fresh nursery
	PromotionFailures int           // Survivors kept young because the old generation was full
	Pause             time.Duration // Wall time of the pass
}

// MajorResult reports what a single major collection did
type MajorResult struct {
	BytesFreed   uint64        // Bytes reclaimed across old and large spaces
	ObjectsFreed int           // Objects reclaimed across old and large spaces
	Pause        time.Duration // Wall time of the pass
}

// GenerationalGC coordinates the three spaces, the write barrier, and the
// externally supplied root list. Reachability is shallow throughout: an
// object is live iff its handle appears in the roots (plus, for minor GC,
// the remembered set); object fields are never traced.
//
// The collector has no internal synchronization. Every call must happen
// while mutator threads are paused, or all calls must be serialized by
// the embedding runtime.
type GenerationalGC struct {
	young        *heap.YoungGeneration
	old          *heap.OldGeneration
	large        *heap.LargeObjectSpace
	barrier      *barrier.WriteBarrier
	roots        map[heap.Handle]struct{}
	promotionAge uint32
	stats        Stats
}

// New creates a collector from cfg, applying defaults for zero fields
func New(cfg Config) *GenerationalGC {
	if cfg.YoungCapacity == 0 {
		cfg.YoungCapacity = DefaultYoungCapacity
	}
	if cfg.OldCapacity == 0 {
		cfg.OldCapacity = DefaultOldCapacity
	}
	if cfg.PromotionAge == 0 {
		cfg.PromotionAge = DefaultPromotionAge
	}
	return &GenerationalGC{
		young:        heap.NewYoungGeneration(cfg.YoungCapacity),
		old:          heap.NewOldGeneration(cfg.OldCapacity),
		large:        heap.NewLargeObjectSpace(),
		barrier:      barrier.NewWriteBarrier(),
		roots:        make(map[heap.Handle]struct{}),
		promotionAge: cfg.PromotionAge,
	}
}

// Allocate routes an allocation to the right space: sizes at or above
// LargeObjectThreshold go to the large object space, everything else to
// the nursery. When the nursery is out of space and full enough to
// collect, one minor collection runs and the allocation is retried
// exactly once. A remaining ErrNoSpace is a normal result; the caller may
// run a major collection and try again.
func (c *GenerationalGC) Allocate(size uint64) (heap.Handle, error) {
	if size == 0 {
		return heap.Handle{}, heap.ErrInvalidSize
	}

	if size >= LargeObjectThreshold {
		h, err := c.large.Allocate(size)
		if err != nil {
			return heap.Handle{}, err
		}
		c.stats.BytesAllocated += size
		return h, nil
	}

	h, err := c.young.Allocate(size)
	if errors.Is(err, heap.ErrNoSpace) && c.ShouldTriggerMinorGC() {
		c.MinorGC()
		h, err = c.young.Allocate(size)
	}
	if err != nil {
		return heap.Handle{}, err
	}
	c.stats.BytesAllocated += size
	return h, nil
}

// AddRoot marks a handle as externally reachable; adding a handle that is
// already a root is a no-op
func (c *GenerationalGC) AddRoot(h heap.Handle) {
	if !h.IsValid() {
		return
	}
	c.roots[h] = struct{}{}
}

// RemoveRoot drops a handle from the root list; removing an absent handle
// is a no-op
func (c *GenerationalGC) RemoveRoot(h heap.Handle) {
	delete(c.roots, h)
}

// IsRoot reports whether h is currently on the root list
func (c *GenerationalGC) IsRoot(h heap.Handle) bool {
	_, ok := c.roots[h]
	return ok
}

// Roots returns a sorted snapshot of the external root list
func (c *GenerationalGC) Roots() []heap.Handle {
	out := make([]heap.Handle, 0, len(c.roots))
	for h := range c.roots {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Space != out[j].Space {
			return out[i].Space < out[j].Space
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// survivor is a rooted young object carried across a nursery reset
type survivor struct {
	orig heap.Handle
	size uint64
	age  uint32
}

// MinorGC runs one scavenge pass. Roots for the pass are the external
// root list plus the remembered set. Rooted young objects old enough are
// promoted into the old generation; the rest are aged and copied into the
// fresh nursery after the unconditional reset. Either way the root list
// is rewritten to the replacement handles. Everything not rooted is
// discarded with the reset, and the remembered set is cleared.
func (c *GenerationalGC) MinorGC() MinorResult {
	start := time.Now()
	usedBefore := c.young.UsedBytes()

	var result MinorResult
	var survivors []survivor

	passRoots := append(c.Roots(), c.barrier.RememberedPointers()...)
	seen := make(map[heap.Handle]struct{}, len(passRoots))
	for _, h := range passRoots {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if !c.young.Contains(h) {
			continue
		}

		age, _ := c.young.ObjectAge(h)
		size, _ := c.young.ObjectSize(h)

		if age >= c.promotionAge {
			newH, err := c.old.Promote(size)
			if err == nil {
				c.replaceRoot(h, newH)
				result.ObjectsPromoted++
				continue
			}
			// Old generation is full; keep the object young with its
			// age intact and let the caller decide about a major GC.
			result.PromotionFailures++
			survivors = append(survivors, survivor{orig: h, size: size, age: age})
			continue
		}
		survivors = append(survivors, survivor{orig: h, size: size, age: age + 1})
	}

	c.young.Reset()

	var survivorBytes uint64
	for _, s := range survivors {
		// Survivors always fit: their sizes sum to at most the usage of
		// the nursery they came from.
		newH, err := c.young.Allocate(s.size)
		if err != nil {
			continue
		}
		c.young.SetAge(newH, s.age)
		c.replaceRoot(s.orig, newH)
		survivorBytes += s.size
		result.ObjectsSurvived++
	}

	c.barrier.Clear()

	result.BytesFreed = usedBefore - survivorBytes
	result.Pause = time.Since(start)

	c.stats.MinorCollections++
	c.stats.BytesFreed += result.BytesFreed
	c.stats.recordPause(result.Pause)
	return result
}

// MajorGC runs mark-sweep over the old generation and the large object
// space independently, using only the external root list. The remembered
// set is not consulted: it exists for minor collections.
func (c *GenerationalGC) MajorGC() MajorResult {
	start := time.Now()
	roots := c.Roots()

	oldSwept := c.old.MarkSweep(roots)
	largeSwept := c.large.MarkSweep(roots)

	result := MajorResult{
		BytesFreed:   oldSwept.BytesFreed + largeSwept.BytesFreed,
		ObjectsFreed: oldSwept.ObjectsFreed + largeSwept.ObjectsFreed,
		Pause:        time.Since(start),
	}

	c.stats.MajorCollections++
	c.stats.BytesFreed += result.BytesFreed
	c.stats.recordPause(result.Pause)
	return result
}

// ShouldTriggerMinorGC reports whether the nursery is full enough to
// collect. This is the predicate Allocate consults before its automatic
// collect-and-retry.
func (c *GenerationalGC) ShouldTriggerMinorGC() bool {
	return c.young.IsFull()
}

// ShouldTriggerMajorGC reports whether old-generation pressure warrants a
// major collection. Nothing triggers one automatically; callers check
// and invoke MajorGC themselves.
func (c *GenerationalGC) ShouldTriggerMajorGC() bool {
	return c.old.NeedsMajorGC()
}

// SetPromotionAge changes how many minor collections an object must
// survive before promotion
func (c *GenerationalGC) SetPromotionAge(age uint32) error {
	if age == 0 {
		return ErrInvalidPromotionAge
	}
	c.promotionAge = age
	return nil
}

// PromotionAge returns the current promotion age
func (c *GenerationalGC) PromotionAge() uint32 {
	return c.promotionAge
}

// WriteBarrier returns the collector's write barrier. The hosting runtime
// must invoke it on every pointer store that could create an old-to-young
// reference.
func (c *GenerationalGC) WriteBarrier() *barrier.WriteBarrier {
	return c.barrier
}

// Young returns the young generation
func (c *GenerationalGC) Young() *heap.YoungGeneration {
	return c.young
}

// Old returns the old generation
func (c *GenerationalGC) Old() *heap.OldGeneration {
	return c.old
}

// Large returns the large object space
func (c *GenerationalGC) Large() *heap.LargeObjectSpace {
	return c.large
}

// Stats returns a snapshot of the cumulative collection statistics
func (c *GenerationalGC) Stats() Stats {
	return c.stats
}

// ObserveMutatorTime adds mutator (non-pause) time to the elapsed total,
// letting an embedding runtime make ThroughputPercent meaningful
func (c *GenerationalGC) ObserveMutatorTime(d time.Duration) {
	if d > 0 {
		c.stats.TotalElapsed += d
	}
}

// replaceRoot swaps a root-list entry for the replacement handle issued
// during promotion or survivor copying. Handles reachable only through
// the remembered set have no root entry to rewrite.
func (c *GenerationalGC) replaceRoot(orig, repl heap.Handle) {
	if _, ok := c.roots[orig]; !ok {
		return
	}
	delete(c.roots, orig)
	c.roots[repl] = struct{}{}
}

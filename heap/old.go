// ABOUTME: Old generation (tenured space) for objects promoted out of the nursery
// ABOUTME: Sequential allocation, mark-sweep collection, and the major-GC pressure check

package heap

// oldPressureThreshold is the utilization above which the tenured space
// asks for a major collection.
const oldPressureThreshold = 0.75

// OldGeneration is the tenured space. Objects enter only by promotion from
// the young generation and leave only when a mark-sweep pass finds their
// handle absent from the roots. Not safe for concurrent use.
type OldGeneration struct {
	markSweepSpace
}

// NewOldGeneration creates a tenured space with the given byte capacity
func NewOldGeneration(capacity uint64) *OldGeneration {
	return &OldGeneration{newMarkSweepSpace(SpaceOld, capacity)}
}

// Promote allocates room for a surviving young object and returns its new
// old-generation handle. It returns ErrInvalidSize for a zero size and
// ErrNoSpace when the tenured space cannot fit the object; the caller
// decides what to do with an unpromotable survivor.
func (o *OldGeneration) Promote(size uint64) (Handle, error) {
	return o.allocate(size)
}

// NeedsMajorGC reports whether utilization has crossed the pressure
// threshold. The check is advisory: nothing triggers a major collection
// automatically.
func (o *OldGeneration) NeedsMajorGC() bool {
	if o.capacity == 0 {
		return false
	}
	return float64(o.used)/float64(o.capacity) > oldPressureThreshold
}

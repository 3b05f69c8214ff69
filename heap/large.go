// ABOUTME: Large object space for allocations at or above the large-object threshold
// ABOUTME: Bypasses both generations; collected independently by mark-sweep

package heap

// LargeObjectSpace holds objects too big for the generational spaces.
// Objects here are never scavenged, never promoted, and never aged; the
// space has no capacity bound and is reclaimed only by mark-sweep.
// Not safe for concurrent use.
type LargeObjectSpace struct {
	markSweepSpace
}

// NewLargeObjectSpace creates an unbounded large object space
func NewLargeObjectSpace() *LargeObjectSpace {
	return &LargeObjectSpace{newMarkSweepSpace(SpaceLarge, 0)}
}

// Allocate places a large object, extending the used-byte counter. It
// fails only on a zero size; there is no capacity to exhaust.
func (l *LargeObjectSpace) Allocate(size uint64) (Handle, error) {
	return l.allocate(size)
}

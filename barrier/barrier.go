// ABOUTME: Write barrier recording old-to-young references at mutation time
// ABOUTME: Feeds the remembered set so minor GC never scans the whole old generation

package barrier

import "github.com/prateek/gengc/heap"

// WriteBarrier must be invoked by the hosting runtime on every pointer
// store that might create an old-to-young reference. Recording such
// references eagerly at mutation time is what spares minor collections a
// full scan of the old generation. Not safe for concurrent use.
type WriteBarrier struct {
	remembered *RememberedSet
}

// NewWriteBarrier creates a write barrier over a fresh remembered set
func NewWriteBarrier() *WriteBarrier {
	return &WriteBarrier{remembered: NewRememberedSet()}
}

// Execute records obj in the remembered set when a store into obj would
// create a cross-generational reference, i.e. when obj lives in the old
// generation and value lives in the young generation. Any other store is
// a no-op. The caller supplies the two placement flags; the barrier does
// not consult the spaces itself.
func (wb *WriteBarrier) Execute(obj, value heap.Handle, objIsOld, valueIsYoung bool) {
	if !objIsOld || !valueIsYoung {
		return
	}
	wb.remembered.Add(obj)
}

// RememberedPointers returns the remembered handles for use as extra
// minor-GC roots
func (wb *WriteBarrier) RememberedPointers() []heap.Handle {
	return wb.remembered.Handles()
}

// RememberedSet exposes the underlying set
func (wb *WriteBarrier) RememberedSet() *RememberedSet {
	return wb.remembered
}

// Clear empties the remembered set; the coordinator calls this at the end
// of every minor collection
func (wb *WriteBarrier) Clear() {
	wb.remembered.Clear()
}

// ABOUTME: Shared mark-sweep machinery embedded by the old generation and large object space
// ABOUTME: Marks handles present verbatim in the supplied roots, then frees everything unmarked

package heap

import "time"

// tenuredObject is the per-object record kept by mark-sweep spaces
type tenuredObject struct {
	size   uint64
	marked bool
}

// SweepResult reports what a single mark-sweep pass reclaimed
type SweepResult struct {
	ObjectsFreed int           // Records removed by the sweep
	BytesFreed   uint64        // Bytes reclaimed by the sweep
	Duration     time.Duration // Wall time of the whole pass
}

// markSweepSpace is a sequential allocator whose objects are reclaimed by
// mark-sweep. Liveness is shallow: an object is reachable iff its handle
// appears verbatim in the roots given to MarkSweep; object fields are
// never traced. A zero capacity means the space is unbounded.
type markSweepSpace struct {
	space     SpaceID
	capacity  uint64
	used      uint64
	nextIndex uint64
	objects   map[uint64]*tenuredObject
}

func newMarkSweepSpace(space SpaceID, capacity uint64) markSweepSpace {
	return markSweepSpace{
		space:    space,
		capacity: capacity,
		objects:  make(map[uint64]*tenuredObject),
	}
}

// allocate places an object of the given size sequentially, identical in
// mechanics to the nursery's bump pointer
func (s *markSweepSpace) allocate(size uint64) (Handle, error) {
	if size == 0 {
		return Handle{}, ErrInvalidSize
	}
	if s.capacity != 0 && s.used+size > s.capacity {
		return Handle{}, ErrNoSpace
	}

	idx := s.nextIndex
	s.nextIndex++
	s.objects[idx] = &tenuredObject{size: size}
	s.used += size

	return Handle{Space: s.space, Index: idx}, nil
}

// MarkSweep clears all mark bits, marks every object whose handle appears
// in roots, then frees every unmarked object. Handles tagged for other
// spaces, and stale handles, are ignored.
func (s *markSweepSpace) MarkSweep(roots []Handle) SweepResult {
	start := time.Now()

	for _, obj := range s.objects {
		obj.marked = false
	}

	for _, h := range roots {
		if h.Space != s.space {
			continue
		}
		if obj, ok := s.objects[h.Index]; ok {
			obj.marked = true
		}
	}

	var result SweepResult
	for idx, obj := range s.objects {
		if obj.marked {
			continue
		}
		delete(s.objects, idx)
		s.used -= obj.size
		result.ObjectsFreed++
		result.BytesFreed += obj.size
	}

	result.Duration = time.Since(start)
	return result
}

// Contains reports whether h denotes a live object in this space
func (s *markSweepSpace) Contains(h Handle) bool {
	if h.Space != s.space {
		return false
	}
	_, ok := s.objects[h.Index]
	return ok
}

// ObjectSize returns the recorded size of the object behind h
func (s *markSweepSpace) ObjectSize(h Handle) (uint64, error) {
	obj, err := s.lookup(h)
	if err != nil {
		return 0, err
	}
	return obj.size, nil
}

// Marked reports whether the object behind h survived the last mark phase
func (s *markSweepSpace) Marked(h Handle) (bool, error) {
	obj, err := s.lookup(h)
	if err != nil {
		return false, err
	}
	return obj.marked, nil
}

// UsedBytes returns the bytes currently allocated in this space
func (s *markSweepSpace) UsedBytes() uint64 {
	return s.used
}

// Capacity returns the space's byte capacity; 0 means unbounded
func (s *markSweepSpace) Capacity() uint64 {
	return s.capacity
}

// NumObjects returns the number of live objects in this space
func (s *markSweepSpace) NumObjects() int {
	return len(s.objects)
}

// ForEachObject iterates over all live objects in no particular order
func (s *markSweepSpace) ForEachObject(fn func(h Handle, size uint64)) {
	for idx, obj := range s.objects {
		fn(Handle{Space: s.space, Index: idx}, obj.size)
	}
}

func (s *markSweepSpace) lookup(h Handle) (*tenuredObject, error) {
	if h.Space != s.space {
		return nil, ErrUnknownHandle
	}
	obj, ok := s.objects[h.Index]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return obj, nil
}

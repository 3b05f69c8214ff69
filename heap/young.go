// ABOUTME: Young generation (nursery) with bump-pointer allocation and age tracking
// ABOUTME: Collected by scavenging; Reset is the only way its objects are destroyed

package heap

// youngFullThreshold is the utilization at which the nursery reports full,
// a soft limit meant to trigger a minor collection before hard exhaustion.
const youngFullThreshold = 0.90

// youngObject is the per-object record kept by the nursery
type youngObject struct {
	size uint64
	age  uint32
}

// YoungGeneration is the nursery: a bump-pointer space for new allocations.
// Freed space is never reused within a generation's lifetime; the whole
// space is reclaimed at once by Reset. Not safe for concurrent use.
type YoungGeneration struct {
	capacity  uint64
	used      uint64
	nextIndex uint64
	objects   map[uint64]*youngObject
}

// NewYoungGeneration creates a nursery with the given byte capacity
func NewYoungGeneration(capacity uint64) *YoungGeneration {
	return &YoungGeneration{
		capacity: capacity,
		objects:  make(map[uint64]*youngObject),
	}
}

// Allocate places an object of the given size by advancing the bump
// pointer. It returns ErrInvalidSize for a zero size and ErrNoSpace when
// the object does not fit; a failed allocation changes nothing.
func (y *YoungGeneration) Allocate(size uint64) (Handle, error) {
	if size == 0 {
		return Handle{}, ErrInvalidSize
	}
	if y.used+size > y.capacity {
		return Handle{}, ErrNoSpace
	}

	idx := y.nextIndex
	y.nextIndex++
	y.objects[idx] = &youngObject{size: size}
	y.used += size

	return Handle{Space: SpaceYoung, Index: idx}, nil
}

// Contains reports whether h denotes a live object in this nursery
func (y *YoungGeneration) Contains(h Handle) bool {
	if h.Space != SpaceYoung {
		return false
	}
	_, ok := y.objects[h.Index]
	return ok
}

// ObjectSize returns the recorded size of the object behind h
func (y *YoungGeneration) ObjectSize(h Handle) (uint64, error) {
	obj, err := y.lookup(h)
	if err != nil {
		return 0, err
	}
	return obj.size, nil
}

// ObjectAge returns the number of minor collections the object has survived
func (y *YoungGeneration) ObjectAge(h Handle) (uint32, error) {
	obj, err := y.lookup(h)
	if err != nil {
		return 0, err
	}
	return obj.age, nil
}

// IncrementAge bumps the object's age by one
func (y *YoungGeneration) IncrementAge(h Handle) error {
	obj, err := y.lookup(h)
	if err != nil {
		return err
	}
	obj.age++
	return nil
}

// SetAge overwrites the object's age. The scavenger uses this to carry
// ages across a copy into a fresh nursery.
func (y *YoungGeneration) SetAge(h Handle, age uint32) error {
	obj, err := y.lookup(h)
	if err != nil {
		return err
	}
	obj.age = age
	return nil
}

// IsFull reports whether utilization has reached the collection threshold
func (y *YoungGeneration) IsFull() bool {
	if y.capacity == 0 {
		return true
	}
	return float64(y.used)/float64(y.capacity) >= youngFullThreshold
}

// Reset unconditionally clears every object record and the bump pointer,
// reclaiming all nursery bytes. This is the only way young objects are
// destroyed; every previously issued young handle becomes invalid.
// Allocation indices are never reused, so a stale handle can not alias an
// object allocated after the reset.
func (y *YoungGeneration) Reset() {
	y.objects = make(map[uint64]*youngObject)
	y.used = 0
}

// UsedBytes returns the bytes currently allocated in the nursery
func (y *YoungGeneration) UsedBytes() uint64 {
	return y.used
}

// Capacity returns the nursery's byte capacity
func (y *YoungGeneration) Capacity() uint64 {
	return y.capacity
}

// NumObjects returns the number of live nursery objects
func (y *YoungGeneration) NumObjects() int {
	return len(y.objects)
}

// ForEachObject iterates over all live nursery objects in no particular order
func (y *YoungGeneration) ForEachObject(fn func(h Handle, size uint64, age uint32)) {
	for idx, obj := range y.objects {
		fn(Handle{Space: SpaceYoung, Index: idx}, obj.size, obj.age)
	}
}

func (y *YoungGeneration) lookup(h Handle) (*youngObject, error) {
	if h.Space != SpaceYoung {
		return nil, ErrUnknownHandle
	}
	obj, ok := y.objects[h.Index]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return obj, nil
}

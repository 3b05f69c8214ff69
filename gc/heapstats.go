// ABOUTME: Per-space usage snapshots aggregated by the coordinator
// ABOUTME: Reports used bytes, capacity, object counts, and utilization per space

package gc

// SpaceStats is a usage snapshot of a single space
type SpaceStats struct {
	UsedBytes   uint64  // Bytes currently allocated
	Capacity    uint64  // Byte capacity; 0 means unbounded
	Objects     int     // Live object count
	Utilization float64 // UsedBytes / Capacity, 0 for unbounded spaces
}

// HeapStats is a usage snapshot across all three spaces
type HeapStats struct {
	Young SpaceStats
	Old   SpaceStats
	Large SpaceStats
}

// TotalUsedBytes sums the used bytes of all spaces
func (h HeapStats) TotalUsedBytes() uint64 {
	return h.Young.UsedBytes + h.Old.UsedBytes + h.Large.UsedBytes
}

// HeapStats returns a per-space usage snapshot
func (c *GenerationalGC) HeapStats() HeapStats {
	return HeapStats{
		Young: SpaceStats{
			UsedBytes:   c.young.UsedBytes(),
			Capacity:    c.young.Capacity(),
			Objects:     c.young.NumObjects(),
			Utilization: utilization(c.young.UsedBytes(), c.young.Capacity()),
		},
		Old: SpaceStats{
			UsedBytes:   c.old.UsedBytes(),
			Capacity:    c.old.Capacity(),
			Objects:     c.old.NumObjects(),
			Utilization: utilization(c.old.UsedBytes(), c.old.Capacity()),
		},
		Large: SpaceStats{
			UsedBytes: c.large.UsedBytes(),
			Objects:   c.large.NumObjects(),
		},
	}
}

func utilization(used, capacity uint64) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(used) / float64(capacity)
}

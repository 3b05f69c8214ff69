// ABOUTME: Cumulative collection statistics and the derived throughput metric
// ABOUTME: A pure data sink fed by the coordinator after every collection pass

package gc

import "time"

// Stats accumulates collection counters. The coordinator records every
// pause into both PauseTime and TotalElapsed; only observed time counts,
// so until a host also reports mutator time (ObserveMutatorTime on the
// coordinator) the elapsed total is exactly the pause total.
type Stats struct {
	MinorCollections uint64        // Completed minor (scavenge) passes
	MajorCollections uint64        // Completed major (mark-sweep) passes
	BytesAllocated   uint64        // Bytes handed out by Allocate
	BytesFreed       uint64        // Bytes reclaimed by all collections
	PauseTime        time.Duration // Accumulated stop-the-world time
	TotalElapsed     time.Duration // Accumulated observed time, pauses included
}

// Collections returns the total number of completed collection passes
func (s Stats) Collections() uint64 {
	return s.MinorCollections + s.MajorCollections
}

// ThroughputPercent returns the share of observed time spent outside
// collection pauses, as a percentage. Before anything has been observed
// it is 100.
func (s Stats) ThroughputPercent() float64 {
	if s.TotalElapsed <= 0 {
		return 100
	}
	return float64(s.TotalElapsed-s.PauseTime) / float64(s.TotalElapsed) * 100
}

// recordPause accounts one collection pause
func (s *Stats) recordPause(d time.Duration) {
	s.PauseTime += d
	s.TotalElapsed += d
}

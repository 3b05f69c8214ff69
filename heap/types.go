// ABOUTME: Core types for heap spaces: tagged handles, space identifiers, and errors
// ABOUTME: Defines Handle, SpaceID, and the shared error values for all spaces

package heap

import (
	"errors"
	"fmt"
)

// SpaceID identifies which space issued a handle
type SpaceID uint8

const (
	// SpaceInvalid is the zero SpaceID; no real handle carries it
	SpaceInvalid SpaceID = iota
	// SpaceYoung tags handles issued by the young generation
	SpaceYoung
	// SpaceOld tags handles issued by the old generation
	SpaceOld
	// SpaceLarge tags handles issued by the large object space
	SpaceLarge
)

// String returns a short name for the space
func (s SpaceID) String() string {
	switch s {
	case SpaceYoung:
		return "young"
	case SpaceOld:
		return "old"
	case SpaceLarge:
		return "large"
	default:
		return "invalid"
	}
}

// Handle identifies an allocated object. The space tag makes handles from
// different spaces distinct values, so a young handle can never be confused
// with an old one carrying the same index. Handles are invalidated when
// their object is freed, reset, or promoted; a promotion issues a fresh
// handle in the old generation.
type Handle struct {
	Space SpaceID // Space that issued the handle
	Index uint64  // Allocation index within that space
}

// IsValid reports whether h was issued by a space (the zero Handle is not)
func (h Handle) IsValid() bool {
	return h.Space != SpaceInvalid
}

// String returns a readable form like "old:42"
func (h Handle) String() string {
	return fmt.Sprintf("%s:%d", h.Space, h.Index)
}

var (
	// ErrInvalidSize is returned when an allocation size is zero.
	// This is a caller bug, not a capacity failure.
	ErrInvalidSize = errors.New("allocation size must be positive")

	// ErrNoSpace is returned when a space cannot fit an allocation.
	// It is a normal result: callers may collect and retry.
	ErrNoSpace = errors.New("insufficient space")

	// ErrUnknownHandle is returned when querying a handle the space never
	// issued or has already freed. It indicates a use-after-free or a
	// cross-space handle mix-up in the caller.
	ErrUnknownHandle = errors.New("unknown handle")
)

// ABOUTME: Tests for the JSON heap-state snapshot writer and reader
// ABOUTME: Validates round-tripping and rejection of malformed snapshots

package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prateek/gengc/gc"
	"github.com/prateek/gengc/heap"
)

func TestWriteReadRoundTrip(t *testing.T) {
	c := gc.New(gc.Config{YoungCapacity: 1000})

	h1, err := c.Allocate(100)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if _, err := c.Allocate(200); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	large, err := c.Allocate(100 * 1024)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	c.AddRoot(h1)
	c.AddRoot(large)
	c.WriteBarrier().Execute(heap.Handle{Space: heap.SpaceOld, Index: 5},
		h1, true, true)

	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	snap, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if snap.Version != "1" {
		t.Errorf("Expected version 1, got %q", snap.Version)
	}

	young := snap.SpaceByName("young")
	if young == nil {
		t.Fatal("Snapshot missing the young space")
	}
	if young.UsedBytes != 300 {
		t.Errorf("Expected 300 young bytes, got %d", young.UsedBytes)
	}
	if len(young.Objects) != 2 {
		t.Errorf("Expected 2 young objects, got %d", len(young.Objects))
	}

	largeSpace := snap.SpaceByName("large")
	if largeSpace == nil {
		t.Fatal("Snapshot missing the large space")
	}
	if largeSpace.UsedBytes != 100*1024 {
		t.Errorf("Expected %d large bytes, got %d", 100*1024, largeSpace.UsedBytes)
	}

	if len(snap.Roots) != 2 {
		t.Errorf("Expected 2 roots, got %v", snap.Roots)
	}
	if len(snap.Remembered) != 1 || snap.Remembered[0].Space != "old" || snap.Remembered[0].Index != 5 {
		t.Errorf("Expected remembered [old:5], got %v", snap.Remembered)
	}
}

func TestReadRejectsUnknownSpace(t *testing.T) {
	in := `{"version":"1","spaces":[{"name":"permgen","used_bytes":0,"objects":[]}],"roots":[]}`

	_, err := Read(strings.NewReader(in))
	if err == nil {
		t.Fatal("Expected an error for an unknown space name")
	}
}

func TestReadRejectsInconsistentUsedBytes(t *testing.T) {
	in := `{"version":"1","spaces":[{"name":"young","used_bytes":50,"objects":[{"index":0,"size":100}]}],"roots":[]}`

	_, err := Read(strings.NewReader(in))
	if err == nil {
		t.Fatal("Expected an error when object sizes disagree with used_bytes")
	}
}

func TestReadRejectsZeroSizeObject(t *testing.T) {
	in := `{"version":"1","spaces":[{"name":"old","used_bytes":0,"objects":[{"index":3,"size":0}]}],"roots":[]}`

	_, err := Read(strings.NewReader(in))
	if err == nil {
		t.Fatal("Expected an error for a zero-size object record")
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("Expected a decode error")
	}
}

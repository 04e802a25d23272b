package state

import (
	"testing"
	"time"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := Snapshot{
		Cycle:   3,
		Counter: 7,
		Visible: []VisibleItem{{ID: 1, Name: "Item 1"}, {ID: 2, Name: "Item 2"}},
		Network: NetworkStats{Titles: []string{"a"}},
		Complex: ComplexStats{UserLines: []string{"User 1 - 2 posts"}, LastUpdated: &stamp},
	}

	before := time.Now()
	s.Update(snap)

	// Mutating the caller's copy must not leak into the store.
	snap.Visible[0].Name = "changed"
	stamp = stamp.Add(time.Hour)

	got := s.Snapshot()
	if got.Cycle != 3 || got.Counter != 7 {
		t.Fatalf("snapshot = cycle %d counter %d, want 3 and 7", got.Cycle, got.Counter)
	}
	if got.Visible[0].Name != "Item 1" {
		t.Fatalf("Update should clone visible rows; got %q", got.Visible[0].Name)
	}
	if got.Complex.LastUpdated.Hour() != 3 {
		t.Fatalf("Update should clone LastUpdated; got %v", got.Complex.LastUpdated)
	}
	if got.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", got.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	got.Network.Titles[0] = "mutated"
	if again := s.Snapshot(); again.Network.Titles[0] != "a" {
		t.Fatalf("Snapshot should clone titles; got %q", again.Network.Titles[0])
	}
	if s.Updates() != 1 {
		t.Fatalf("Updates = %d, want 1", s.Updates())
	}
}

func TestStore_ZeroValue(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Cycle != 0 || snap.Visible != nil || snap.Complex.LastUpdated != nil {
		t.Fatalf("zero store snapshot = %#v, want zero value", snap)
	}
}

package accum

import (
	"strings"
	"testing"
	"time"
)

func TestGenerate_AddsExactlyOneBatch(t *testing.T) {
	a := New(WithPayloadLen(2))
	if a.Batch() != DefaultBatch {
		t.Fatalf("Batch = %d, want %d", a.Batch(), DefaultBatch)
	}

	var items []BigItem
	for i := 1; i <= 3; i++ {
		prevLen := len(items)
		items = a.Generate(items)
		if len(items) != prevLen+DefaultBatch {
			t.Fatalf("generate #%d: len = %d, want %d", i, len(items), prevLen+DefaultBatch)
		}
	}

	items = a.Clear()
	if len(items) != 0 {
		t.Fatalf("len after Clear = %d, want 0", len(items))
	}
}

func TestGenerate_DoesNotModifyPrevious(t *testing.T) {
	a := New(WithBatch(3), WithPayloadLen(1))
	first := a.Generate(nil)
	second := a.Generate(first)
	if len(first) != 3 || len(second) != 6 {
		t.Fatalf("len(first)=%d len(second)=%d, want 3 and 6", len(first), len(second))
	}
	second[0].Description = "changed"
	if first[0].Description == "changed" {
		t.Fatalf("Generate should copy the previous items into a new slice")
	}
}

func TestGenerate_ItemShape(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	a := New(WithBatch(2), WithPayloadLen(DefaultPayloadLen), WithClock(func() time.Time { return now }))
	items := a.Generate(nil)

	if len(items[1].Payload) != DefaultPayloadLen {
		t.Fatalf("payload len = %d, want %d", len(items[1].Payload), DefaultPayloadLen)
	}
	if items[1].ID != now.UnixMilli()+1 {
		t.Fatalf("ID = %d, want %d", items[1].ID, now.UnixMilli()+1)
	}
	if !items[0].Timestamp.Equal(now) {
		t.Fatalf("Timestamp = %v, want %v", items[0].Timestamp, now)
	}
	if strings.Count(items[1].Description, "Large data item 1") != 50 {
		t.Fatalf("description should repeat the label 50 times")
	}
}

func TestFootprint_GrowsWithItems(t *testing.T) {
	a := New(WithBatch(10), WithPayloadLen(100))
	if got := Footprint(nil); got != "0 B" {
		t.Fatalf("Footprint(nil) = %q, want 0 B", got)
	}
	items := a.Generate(nil)
	if ApproxBytes(items) < 10*100*8 {
		t.Fatalf("ApproxBytes = %d, want at least the payload size", ApproxBytes(items))
	}
}

package errclass

import (
	"testing"
)

func record(status string) Record {
	return NewRecord(nil, CategoryOther, status, "GET", "https://gmc.example.com/", nil)
}

func TestRing_BelowCapacity(t *testing.T) {
	r := newRing(3)
	r.Add(record("500"))
	r.Add(record("502"))

	items := r.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Status() != "500" || items[1].Status() != "502" {
		t.Errorf("expected oldest-first order, got %q then %q", items[0].Status(), items[1].Status())
	}
	if r.Len() != 2 {
		t.Errorf("expected Len 2, got %d", r.Len())
	}
}

func TestRing_OverwritesOldest(t *testing.T) {
	r := newRing(3)
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		r.Add(record(s))
	}

	items := r.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"3", "4", "5"} {
		if items[i].Status() != want {
			t.Errorf("item %d: expected %q, got %q", i, want, items[i].Status())
		}
	}
}

func TestRing_MinimumCapacity(t *testing.T) {
	r := newRing(0)
	if r.Cap() != 1 {
		t.Fatalf("expected capacity clamped to 1, got %d", r.Cap())
	}
	r.Add(record("500"))
	r.Add(record("503"))
	items := r.Items()
	if len(items) != 1 || items[0].Status() != "503" {
		t.Errorf("expected single most recent item, got %v", items)
	}
}

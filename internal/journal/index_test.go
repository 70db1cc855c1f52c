package journal

import (
	"testing"
	"time"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func entryAt(id string, day Day, offset time.Duration) Entry {
	return Entry{ID: id, OwnerID: 1, Day: day, CreatedAt: base.Add(offset)}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestEntriesForDay(t *testing.T) {
	d1 := Day{2024, time.May, 1}
	d2 := d1.AddDays(1)
	all := []Entry{
		entryAt("a", d1, 0),
		entryAt("b", d2, time.Hour),
		entryAt("c", d1, 2*time.Hour),
		entryAt("d", d1, time.Hour),
	}

	got := ids(EntriesForDay(all, d1))
	want := []string{"c", "d", "a"}
	if len(got) != len(want) {
		t.Fatalf("EntriesForDay() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EntriesForDay() = %v, want %v", got, want)
		}
	}

	if got := EntriesForDay(all, d1.AddDays(5)); len(got) != 0 {
		t.Errorf("EntriesForDay(empty day) = %v", ids(got))
	}
}

func TestEntriesForDay_DifferentOffsetsSameLocalDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	la := time.FixedZone("PDT", -7*3600)
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, tokyo)
	evening := time.Date(2024, 3, 10, 20, 0, 0, 0, la)

	all := []Entry{
		{ID: "tokyo", Day: DayOf(morning), CreatedAt: morning},
		{ID: "la", Day: DayOf(evening), CreatedAt: evening},
	}
	bucket := EntriesForDay(all, Day{2024, time.March, 10})
	if len(bucket) != 2 {
		t.Fatalf("bucket = %v, want both entries", ids(bucket))
	}
}

func TestCurrentEntry(t *testing.T) {
	d := Day{2024, time.May, 1}
	bucket := EntriesForDay([]Entry{
		entryAt("old", d, 0),
		entryAt("new", d, time.Hour),
	}, d)

	t.Run("no selection picks newest", func(t *testing.T) {
		if got := CurrentEntry(bucket, ""); got == nil || got.ID != "new" {
			t.Errorf("CurrentEntry() = %v, want new", got)
		}
	})

	t.Run("explicit selection", func(t *testing.T) {
		if got := CurrentEntry(bucket, "old"); got == nil || got.ID != "old" {
			t.Errorf("CurrentEntry() = %v, want old", got)
		}
	})

	t.Run("vanished selection is no entry", func(t *testing.T) {
		if got := CurrentEntry(bucket, "deleted"); got != nil {
			t.Errorf("CurrentEntry() = %v, want nil", got.ID)
		}
	})

	t.Run("empty bucket", func(t *testing.T) {
		if got := CurrentEntry(nil, ""); got != nil {
			t.Errorf("CurrentEntry(nil) = %v", got.ID)
		}
	})
}

func TestSelection_Reconcile(t *testing.T) {
	d := Day{2024, time.May, 1}
	a := entryAt("a", d, 0)
	b := entryAt("b", d, time.Hour)

	var s Selection
	if got := s.Reconcile(d, []Entry{b, a}); got != "b" {
		t.Errorf("Reconcile(no selection) = %q, want newest b", got)
	}

	s.Select(d, "a")
	if got := s.Reconcile(d, []Entry{b, a}); got != "a" {
		t.Errorf("Reconcile keeps present selection: got %q", got)
	}

	// a deleted
	if got := s.Reconcile(d, []Entry{b}); got != "b" {
		t.Errorf("Reconcile after delete = %q, want b", got)
	}

	// everything deleted
	if got := s.Reconcile(d, nil); got != "" {
		t.Errorf("Reconcile(empty) = %q, want empty", got)
	}
	if s.Selected(d) != "" {
		t.Errorf("selection not cleared: %q", s.Selected(d))
	}

	var nilSel *Selection
	if nilSel.Selected(d) != "" {
		t.Error("nil Selection should select nothing")
	}
}

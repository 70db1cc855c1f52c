package journal

import (
	"testing"
	"time"
)

func TestCurrentStreak(t *testing.T) {
	today := Day{2024, time.June, 15}
	tests := []struct {
		name string
		days []Day
		want int
	}{
		{"no entries", nil, 0},
		{"only today", []Day{today}, 1},
		{"three through today", []Day{today.AddDays(-2), today.AddDays(-1), today}, 3},
		{"today missing", []Day{today.AddDays(-2), today.AddDays(-1)}, 2},
		{"today and yesterday missing", []Day{today.AddDays(-3), today.AddDays(-2)}, 0},
		{"gap in the past", []Day{today.AddDays(-5), today.AddDays(-1), today}, 2},
		{"duplicates", []Day{today, today, today.AddDays(-1)}, 2},
		{"future days ignored", []Day{today.AddDays(1), today}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.days, today); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_AcrossMonthAndYear(t *testing.T) {
	today := Day{2024, time.January, 1}
	days := []Day{{2023, time.December, 30}, {2023, time.December, 31}, today}
	if got := CurrentStreak(days, today); got != 3 {
		t.Errorf("CurrentStreak() = %d, want 3", got)
	}
}

func TestLongestStreak(t *testing.T) {
	d := Day{2024, time.February, 27}
	tests := []struct {
		name string
		days []Day
		want int
	}{
		{"none", nil, 0},
		{"single", []Day{d}, 1},
		{"run broken by gap", []Day{d, d.AddDays(1), d.AddDays(2), d.AddDays(5), d.AddDays(6)}, 3},
		{"unsorted input", []Day{d.AddDays(6), d, d.AddDays(5), d.AddDays(2), d.AddDays(1)}, 3},
		{"leap day run", []Day{d, d.AddDays(1), d.AddDays(2), d.AddDays(3)}, 4},
		{"duplicates", []Day{d, d, d.AddDays(1)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.days); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	table := []Milestone{{Days: 3, Label: "three"}, {Days: 7, Label: "seven"}}

	t.Run("between tiers", func(t *testing.T) {
		cur, next, pct := Progress(5, table)
		if cur == nil || cur.Days != 3 || next == nil || next.Days != 7 {
			t.Fatalf("Progress(5) = %v, %v", cur, next)
		}
		if pct != 50 {
			t.Errorf("pct = %v, want 50", pct)
		}
	})

	t.Run("before first tier", func(t *testing.T) {
		cur, next, pct := Progress(0, table)
		if cur != nil || next == nil || next.Days != 3 || pct != 0 {
			t.Errorf("Progress(0) = %v, %v, %v", cur, next, pct)
		}
		_, _, pct = Progress(1, table)
		if pct < 33.3 || pct > 33.4 {
			t.Errorf("Progress(1) pct = %v", pct)
		}
	})

	t.Run("exactly on a tier", func(t *testing.T) {
		cur, next, pct := Progress(3, table)
		if cur == nil || cur.Days != 3 || next.Days != 7 || pct != 0 {
			t.Errorf("Progress(3) = %v, %v, %v", cur, next, pct)
		}
	})

	t.Run("past the last tier", func(t *testing.T) {
		cur, next, pct := Progress(40, table)
		if cur == nil || cur.Days != 7 || next != nil || pct != 100 {
			t.Errorf("Progress(40) = %v, %v, %v", cur, next, pct)
		}
	})
}

func TestComputeStreak(t *testing.T) {
	today := Day{2024, time.June, 15}

	t.Run("zero entries", func(t *testing.T) {
		r := ComputeStreak(nil, today, nil)
		if r.Current != 0 || r.Longest != 0 || r.CurrentMilestone != nil {
			t.Errorf("report = %+v", r)
		}
		if r.NextMilestone == nil || r.NextMilestone.Days != DefaultMilestones[0].Days {
			t.Errorf("next = %v, want first default milestone", r.NextMilestone)
		}
	})

	t.Run("mixed history", func(t *testing.T) {
		days := []Day{today.AddDays(-10), today.AddDays(-9), today.AddDays(-8), today.AddDays(-7), today.AddDays(-1), today}
		r := ComputeStreak(days, today, nil)
		if r.Current != 2 || r.Longest != 4 || r.TotalDays != 6 || !r.WroteToday {
			t.Errorf("report = %+v", r)
		}
	})

	t.Run("reached milestones", func(t *testing.T) {
		got := Reached(8, DefaultMilestones)
		if len(got) != 2 || got[1].Days != 7 {
			t.Errorf("Reached(8) = %v", got)
		}
	})
}

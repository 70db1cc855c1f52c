package journal

import "sort"

// newestFirst orders by CreatedAt descending; ID breaks ties so the order is stable.
func newestFirst(entries []Entry) {
	sort.SliceStable(entries, func(a, b int) bool {
		if !entries[a].CreatedAt.Equal(entries[b].CreatedAt) {
			return entries[a].CreatedAt.After(entries[b].CreatedAt)
		}
		return entries[a].ID > entries[b].ID
	})
}

// EntriesForDay returns the day bucket for day, newest first.
func EntriesForDay(all []Entry, day Day) []Entry {
	out := make([]Entry, 0)
	for _, e := range all {
		if e.Day == day {
			out = append(out, e)
		}
	}
	newestFirst(out)
	return out
}

// CurrentEntry picks the entry to show for a day bucket. With an explicit
// selection it returns that entry or nil; it never substitutes another
// entry for a selection that has gone away. Without a selection it returns
// the newest entry.
func CurrentEntry(dayEntries []Entry, selectedID string) *Entry {
	if selectedID != "" {
		for i := range dayEntries {
			if dayEntries[i].ID == selectedID {
				return &dayEntries[i]
			}
		}
		return nil
	}
	if len(dayEntries) == 0 {
		return nil
	}
	newest := 0
	for i := 1; i < len(dayEntries); i++ {
		e, n := dayEntries[i], dayEntries[newest]
		if e.CreatedAt.After(n.CreatedAt) || (e.CreatedAt.Equal(n.CreatedAt) && e.ID > n.ID) {
			newest = i
		}
	}
	return &dayEntries[newest]
}

// Selection is the per-session "selected entry for day" state.
// The zero value is ready to use.
type Selection struct {
	byDay map[Day]string
}

func (s *Selection) Selected(day Day) string {
	if s == nil {
		return ""
	}
	return s.byDay[day]
}

func (s *Selection) Select(day Day, id string) {
	if s.byDay == nil {
		s.byDay = map[Day]string{}
	}
	s.byDay[day] = id
}

func (s *Selection) Clear(day Day) {
	delete(s.byDay, day)
}

// Reconcile applies the auto-selection policy after the day's entries
// changed: a selection that is still present is kept, otherwise the newest
// entry is selected, or the selection is cleared when the day is empty.
// It returns the resulting selected id.
func (s *Selection) Reconcile(day Day, dayEntries []Entry) string {
	cur := s.Selected(day)
	if cur != "" && CurrentEntry(dayEntries, cur) != nil {
		return cur
	}
	newest := CurrentEntry(dayEntries, "")
	if newest == nil {
		s.Clear(day)
		return ""
	}
	s.Select(day, newest.ID)
	return newest.ID
}

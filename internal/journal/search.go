package journal

import (
	"sort"
	"strings"
)

// Search returns the entries whose plain text contains query, case
// insensitively, newest first. The query is matched literally, "#" included.
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(query)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !strings.Contains(strings.ToLower(PlainText(e.Content)), q) {
			continue
		}
		out = append(out, e)
	}
	newestFirst(out)
	return out
}

// WithTag keeps the entries carrying tag. The tag is normalized first, so
// "#Run" and "run" select the same entries.
func WithTag(entries []Entry, tag string) []Entry {
	want := NormalizeTags([]string{tag})
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if len(want) == 1 && e.Tags.Has(want[0]) {
			out = append(out, e)
		}
	}
	return out
}

// TagCount is how many of an owner's entries carry a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// SummarizeTags counts tag usage, most used first, then by name.
func SummarizeTags(entries []Entry, explicit map[string]string, palette []string) []TagCount {
	counts := map[string]int{}
	for _, e := range entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n, Color: ColorFor(t, explicit, palette)})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Tag < out[b].Tag
	})
	return out
}

// MoodCount is how often a mood was logged in a range.
type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

// MoodSummary counts moods of entries whose day lies in [from, to].
// A zero from or to leaves that side open.
func MoodSummary(entries []Entry, from, to Day) []MoodCount {
	counts := map[Mood]int{}
	for _, e := range entries {
		if e.Mood == nil {
			continue
		}
		if !from.IsZero() && e.Day.Before(from) {
			continue
		}
		if !to.IsZero() && to.Before(e.Day) {
			continue
		}
		counts[*e.Mood]++
	}
	out := make([]MoodCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MoodCount{Mood: m, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Mood < out[b].Mood
	})
	return out
}

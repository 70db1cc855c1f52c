package journal

import (
	"strings"
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	d := Day{2024, time.May, 1}
	a := entryAt("a", d, 0)
	a.Content = "<p>Walked the <b>dog</b> in the park</p>"
	a.Tags = TagList{"outside"}
	b := entryAt("b", d, time.Hour)
	b.Content = "Rainy day, DOG stayed in"
	c := entryAt("c", d, 2*time.Hour)
	c.Content = "Nothing here"
	c.Tags = TagList{"outside", "work"}
	g := entryAt("g", d, 3*time.Hour)
	g.Content = "<p>Feeling #grateful today</p>"
	all := []Entry{a, b, c, g}

	tests := []struct {
		query string
		want  []string
	}{
		{"dog", []string{"b", "a"}},
		{"Dog In", []string{"a"}},
		{"", []string{"g", "c", "b", "a"}},
		{"#grateful", []string{"g"}},
		{"Feeling #GRATEFUL", []string{"g"}},
		{"grateful today", []string{"g"}},
		// tags are not content
		{"#outside", []string{}},
		{"cat", []string{}},
	}
	for _, tt := range tests {
		got := ids(Search(all, tt.query))
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestWithTag(t *testing.T) {
	d := Day{2024, time.May, 1}
	a := entryAt("a", d, 0)
	a.Tags = TagList{"run"}
	b := entryAt("b", d, time.Hour)
	b.Tags = TagList{"run", "work"}
	c := entryAt("c", d, 2*time.Hour)
	all := []Entry{a, b, c}

	tests := []struct {
		tag  string
		want []string
	}{
		{"run", []string{"a", "b"}},
		{"#Run", []string{"a", "b"}},
		{"work", []string{"b"}},
		{"swim", []string{}},
		{"#", []string{}},
	}
	for _, tt := range tests {
		got := ids(WithTag(all, tt.tag))
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("WithTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestSummarizeTags(t *testing.T) {
	d := Day{2024, time.May, 1}
	a := entryAt("a", d, 0)
	a.Tags = TagList{"work", "gym"}
	b := entryAt("b", d, 0)
	b.Tags = TagList{"work"}

	got := SummarizeTags([]Entry{a, b}, map[string]string{"gym": "#123456"}, nil)
	if len(got) != 2 || got[0].Tag != "work" || got[0].Count != 2 {
		t.Fatalf("SummarizeTags() = %+v", got)
	}
	if got[1].Color != "#123456" {
		t.Errorf("explicit color = %q", got[1].Color)
	}
	if got[0].Color != ColorFor("work", nil, nil) {
		t.Errorf("palette color = %q", got[0].Color)
	}
}

func TestMoodSummary(t *testing.T) {
	d := Day{2024, time.May, 1}
	mood := func(m Mood) *Mood { return &m }
	entries := []Entry{
		{ID: "1", Day: d, Mood: mood(MoodHappy)},
		{ID: "2", Day: d.AddDays(1), Mood: mood(MoodHappy)},
		{ID: "3", Day: d.AddDays(1), Mood: mood(MoodCalm)},
		{ID: "4", Day: d.AddDays(5), Mood: mood(MoodSad)},
		{ID: "5", Day: d.AddDays(1)},
	}

	got := MoodSummary(entries, d, d.AddDays(2))
	if len(got) != 2 || got[0].Mood != MoodHappy || got[0].Count != 2 || got[1].Mood != MoodCalm {
		t.Errorf("MoodSummary() = %+v", got)
	}
	if all := MoodSummary(entries, Day{}, Day{}); len(all) != 3 {
		t.Errorf("open range = %+v", all)
	}
}

package journal

import (
	"fmt"
	"strings"
)

type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodGrateful    Mood = "grateful"
	MoodExcited     Mood = "excited"
	MoodCalm        Mood = "calm"
	MoodContent     Mood = "content"
	MoodHopeful     Mood = "hopeful"
	MoodProud       Mood = "proud"
	MoodLoved       Mood = "loved"
	MoodInspired    Mood = "inspired"
	MoodEnergetic   Mood = "energetic"
	MoodNeutral     Mood = "neutral"
	MoodTired       Mood = "tired"
	MoodBored       Mood = "bored"
	MoodConfused    Mood = "confused"
	MoodAnxious     Mood = "anxious"
	MoodStressed    Mood = "stressed"
	MoodSad         Mood = "sad"
	MoodLonely      Mood = "lonely"
	MoodAngry       Mood = "angry"
	MoodFrustrated  Mood = "frustrated"
	MoodOverwhelmed Mood = "overwhelmed"
)

// Moods is the fixed vocabulary in display order.
var Moods = []Mood{
	MoodHappy, MoodGrateful, MoodExcited, MoodCalm, MoodContent, MoodHopeful, MoodProud,
	MoodLoved, MoodInspired, MoodEnergetic, MoodNeutral, MoodTired, MoodBored, MoodConfused,
	MoodAnxious, MoodStressed, MoodSad, MoodLonely, MoodAngry, MoodFrustrated, MoodOverwhelmed,
}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

// ParseMood accepts any casing. An empty string means "no mood" and yields nil.
func ParseMood(s string) (*Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	m := Mood(s)
	if !m.Valid() {
		return nil, fmt.Errorf("unknown mood %q", s)
	}
	return &m, nil
}

package config

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"inkwell/internal/journal"
)

// Journal holds the tunables of the journal engine that can be overridden
// from a TOML file. Empty fields mean "use the built-in defaults".
type Journal struct {
	Milestones []Milestone `toml:"milestones"`
	Palette    []string    `toml:"palette"`
}

// Milestone is one row of the streak milestone table.
type Milestone struct {
	Days        int    `toml:"days"`
	Label       string `toml:"label"`
	Description string `toml:"description"`
}

func DefaultJournal() Journal { return Journal{} }

// ReadJournal decodes and validates a journal overlay.
func ReadJournal(r io.Reader) (Journal, error) {
	var j Journal
	if _, err := toml.NewDecoder(r).Decode(&j); err != nil {
		return Journal{}, fmt.Errorf("failed to decode journal config: %w", err)
	}
	if err := j.validate(); err != nil {
		return Journal{}, err
	}
	sort.SliceStable(j.Milestones, func(a, b int) bool { return j.Milestones[a].Days < j.Milestones[b].Days })
	return j, nil
}

func ReadJournalFile(path string) (Journal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Journal{}, fmt.Errorf("failed to open journal config: %w", err)
	}
	defer f.Close()

	j, err := ReadJournal(f)
	if err != nil {
		return Journal{}, fmt.Errorf("reading journal config from %s: %w", path, err)
	}
	return j, nil
}

func (j Journal) validate() error {
	seen := map[int]bool{}
	for _, m := range j.Milestones {
		if m.Days <= 0 {
			return fmt.Errorf("milestone %q: days must be positive", m.Label)
		}
		if m.Label == "" {
			return fmt.Errorf("milestone at %d days: label required", m.Days)
		}
		if seen[m.Days] {
			return fmt.Errorf("duplicate milestone at %d days", m.Days)
		}
		seen[m.Days] = true
	}
	for _, c := range j.Palette {
		if !journal.ValidColor(c) {
			return fmt.Errorf("palette color %q is not #rrggbb", c)
		}
	}
	return nil
}

// JournalMilestones converts the overlay table; nil means the defaults.
func (j Journal) JournalMilestones() []journal.Milestone {
	if len(j.Milestones) == 0 {
		return nil
	}
	out := make([]journal.Milestone, 0, len(j.Milestones))
	for _, m := range j.Milestones {
		out = append(out, journal.Milestone{Days: m.Days, Label: m.Label, Description: m.Description})
	}
	return out
}

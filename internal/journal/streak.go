package journal

import "sort"

// Milestone is a named streak-length threshold.
type Milestone struct {
	Days        int    `json:"days"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DefaultMilestones is ordered by Days ascending.
var DefaultMilestones = []Milestone{
	{Days: 3, Label: "First Spark", Description: "Three days in a row."},
	{Days: 7, Label: "One Week", Description: "A full week of writing."},
	{Days: 14, Label: "Fortnight", Description: "Two weeks without a gap."},
	{Days: 21, Label: "Habit Formed", Description: "Three weeks of daily pages."},
	{Days: 30, Label: "One Month", Description: "A month of entries."},
	{Days: 50, Label: "Fifty Days", Description: "Fifty consecutive days."},
	{Days: 75, Label: "Seventy-Five", Description: "Seventy-five days and counting."},
	{Days: 100, Label: "Centurion", Description: "One hundred days straight."},
	{Days: 180, Label: "Half Year", Description: "Six months of daily writing."},
	{Days: 365, Label: "Full Circle", Description: "A whole year, every day."},
}

// Report is the derived streak state for one owner.
type Report struct {
	Today            Day        `json:"today"`
	Current          int        `json:"current"`
	Longest          int        `json:"longest"`
	TotalDays        int        `json:"total_days"`
	WroteToday       bool       `json:"wrote_today"`
	CurrentMilestone *Milestone `json:"current_milestone"`
	NextMilestone    *Milestone `json:"next_milestone"`
	Progress         float64    `json:"progress"`
}

func daySet(days []Day) map[Day]struct{} {
	set := make(map[Day]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// CurrentStreak counts consecutive written days ending today. A day without
// an entry yet for today does not break the streak; counting then starts
// from yesterday.
func CurrentStreak(days []Day, today Day) int {
	set := daySet(days)
	cursor := today
	if _, ok := set[cursor]; !ok {
		cursor = today.AddDays(-1)
	}
	n := 0
	for {
		if _, ok := set[cursor]; !ok {
			return n
		}
		n++
		cursor = cursor.AddDays(-1)
	}
}

// LongestStreak is the longest run of consecutive calendar days in days.
func LongestStreak(days []Day) int {
	set := daySet(days)
	if len(set) == 0 {
		return 0
	}
	sorted := make([]Day, 0, len(set))
	for d := range set {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Before(sorted[b]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Progress places streak within table (ordered by Days ascending). current
// is the highest milestone reached, next the lowest not yet reached. pct is
// the percentage of the way from current to next; 100 once every milestone
// is reached.
func Progress(streak int, table []Milestone) (current, next *Milestone, pct float64) {
	for _, m := range table {
		m := m
		if m.Days <= streak {
			current = &m
			continue
		}
		next = &m
		break
	}
	if next == nil {
		if current == nil {
			return nil, nil, 0
		}
		return current, nil, 100
	}
	base := 0
	if current != nil {
		base = current.Days
	}
	pct = float64(streak-base) / float64(next.Days-base) * 100
	return current, next, pct
}

// ComputeStreak derives the full streak report from the distinct written days.
func ComputeStreak(days []Day, today Day, table []Milestone) Report {
	if len(table) == 0 {
		table = DefaultMilestones
	}
	set := daySet(days)
	_, wrote := set[today]
	r := Report{
		Today:      today,
		Current:    CurrentStreak(days, today),
		Longest:    LongestStreak(days),
		TotalDays:  len(set),
		WroteToday: wrote,
	}
	r.CurrentMilestone, r.NextMilestone, r.Progress = Progress(r.Current, table)
	return r
}

// Reached returns every milestone in table whose threshold is at most streak.
func Reached(streak int, table []Milestone) []Milestone {
	var out []Milestone
	for _, m := range table {
		if m.Days <= streak {
			out = append(out, m)
		}
	}
	return out
}

// Package progress implements the milestone, mood, daily-reset and
// rate-limit rules behind the cactus gauge. All functions are pure:
// they take a record plus the current time and return a new record,
// leaving persistence to the caller.
package progress

import "fmt"

// Mood is a display/behavioral label derived from milestone tier or
// from the honesty score.
type Mood string

const (
	MoodOverwhelmed Mood = "overwhelmed"
	MoodSad         Mood = "sad"
	MoodNeutral     Mood = "neutral"
	MoodEnergized   Mood = "energized"
	MoodExcited     Mood = "excited"
	MoodHappy       Mood = "happy"
)

// IsValid reports whether m is one of the known moods.
func (m Mood) IsValid() bool {
	switch m {
	case MoodOverwhelmed, MoodSad, MoodNeutral, MoodEnergized, MoodExcited, MoodHappy:
		return true
	}
	return false
}

// ParseMood maps a user-submitted label to a known mood.
func ParseMood(input string) (Mood, error) {
	m := Mood(input)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown mood %q", input)
	}
	return m, nil
}

// Milestone is one tier of the lifetime progression: the inclusive
// lower bound on the all-time completion count, the mood shown while
// in the tier, and the gauge ceiling for the tier.
type Milestone struct {
	Threshold int
	Mood      Mood
	MaxValue  int
}

// milestones is ordered by ascending threshold and always starts at 0,
// so every non-negative count resolves to exactly one tier.
var milestones = []Milestone{
	{Threshold: 0, Mood: MoodOverwhelmed, MaxValue: 10},
	{Threshold: 10, Mood: MoodNeutral, MaxValue: 15},
	{Threshold: 25, Mood: MoodEnergized, MaxValue: 20},
	{Threshold: 45, Mood: MoodExcited, MaxValue: 25},
}

// ResolveMilestone returns the tier with the greatest threshold that
// does not exceed allTimeCompleted. Negative input is treated as 0.
func ResolveMilestone(allTimeCompleted int) Milestone {
	if allTimeCompleted < 0 {
		allTimeCompleted = 0
	}
	for i := len(milestones) - 1; i > 0; i-- {
		if milestones[i].Threshold <= allTimeCompleted {
			return milestones[i]
		}
	}
	return milestones[0]
}

// Milestones returns a copy of the tier table, lowest tier first.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

// GaugeValue caps a counter at the tier ceiling so the gauge never
// renders past 100%, even when the underlying count has outgrown the
// tier between completions.
func GaugeValue(counter, maxValue int) int {
	if counter < 0 {
		return 0
	}
	if counter > maxValue {
		return maxValue
	}
	return counter
}

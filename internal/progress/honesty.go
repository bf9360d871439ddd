package progress

import "math"

// HonestyMetrics are the four normalized behavioral sub-metrics behind
// the trust score. Each is expected in [0,1]; out-of-range inputs are
// clamped before weighting so the score contract holds.
type HonestyMetrics struct {
	TaskUpdateFrequency float64
	StatusVariety       float64
	TimelyUpdates       float64
	ConsistentCheckins  float64
}

// Fixed weights, summing to 1.0. Kept exact for behavioral
// compatibility with existing scores.
const (
	weightUpdateFrequency = 0.30
	weightStatusVariety   = 0.30
	weightTimelyUpdates   = 0.20
	weightCheckins        = 0.20
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeHonestyScore folds the four sub-metrics into a single integer
// score in [0,100].
func ComputeHonestyScore(m HonestyMetrics) int {
	weighted := weightUpdateFrequency*clamp01(m.TaskUpdateFrequency) +
		weightStatusVariety*clamp01(m.StatusVariety) +
		weightTimelyUpdates*clamp01(m.TimelyUpdates) +
		weightCheckins*clamp01(m.ConsistentCheckins)

	return int(math.Round(100 * weighted))
}

// MoodFromHonesty maps a score onto the three-tier trust mood.
// Boundaries are inclusive on the lower edge: 70 is happy, 40 is
// neutral, 39 is sad.
func MoodFromHonesty(score int) Mood {
	switch {
	case score >= 70:
		return MoodHappy
	case score >= 40:
		return MoodNeutral
	default:
		return MoodSad
	}
}

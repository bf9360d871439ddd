package progress

import "testing"

func TestResolveMilestone(t *testing.T) {
	tests := []struct {
		name          string
		allTime       int
		wantMood      Mood
		wantMaxValue  int
		wantThreshold int
	}{
		{"fresh record", 0, MoodOverwhelmed, 10, 0},
		{"just under first boundary", 9, MoodOverwhelmed, 10, 0},
		{"exact first boundary", 10, MoodNeutral, 15, 10},
		{"inside second tier", 24, MoodNeutral, 15, 10},
		{"exact second boundary", 25, MoodEnergized, 20, 25},
		{"exact top boundary", 45, MoodExcited, 25, 45},
		{"far past top tier", 1000, MoodExcited, 25, 45},
		{"negative treated as zero", -3, MoodOverwhelmed, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveMilestone(tt.allTime)
			if got.Mood != tt.wantMood {
				t.Errorf("ResolveMilestone(%d).Mood = %s, want %s", tt.allTime, got.Mood, tt.wantMood)
			}
			if got.MaxValue != tt.wantMaxValue {
				t.Errorf("ResolveMilestone(%d).MaxValue = %d, want %d", tt.allTime, got.MaxValue, tt.wantMaxValue)
			}
			if got.Threshold != tt.wantThreshold {
				t.Errorf("ResolveMilestone(%d).Threshold = %d, want %d", tt.allTime, got.Threshold, tt.wantThreshold)
			}
		})
	}
}

func TestResolveMilestoneIsGreatestThresholdNotExceeding(t *testing.T) {
	// Exhaustive sweep over a range covering every boundary.
	for n := 0; n <= 100; n++ {
		got := ResolveMilestone(n)
		if got.Threshold > n {
			t.Fatalf("ResolveMilestone(%d) returned threshold %d > input", n, got.Threshold)
		}
		for _, m := range Milestones() {
			if m.Threshold <= n && m.Threshold > got.Threshold {
				t.Fatalf("ResolveMilestone(%d) returned threshold %d, but %d also fits", n, got.Threshold, m.Threshold)
			}
		}
	}
}

func TestGaugeValue(t *testing.T) {
	tests := []struct {
		name     string
		counter  int
		maxValue int
		want     int
	}{
		{"under ceiling", 7, 10, 7},
		{"at ceiling", 10, 10, 10},
		{"past ceiling stays capped", 30, 25, 25},
		{"negative floors to zero", -1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GaugeValue(tt.counter, tt.maxValue); got != tt.want {
				t.Errorf("GaugeValue(%d, %d) = %d, want %d", tt.counter, tt.maxValue, got, tt.want)
			}
		})
	}
}

package progress

import "testing"

func TestComputeHonestyScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics HonestyMetrics
		want    int
	}{
		{
			name:    "all ones",
			metrics: HonestyMetrics{1, 1, 1, 1},
			want:    100,
		},
		{
			name:    "all point one",
			metrics: HonestyMetrics{0.1, 0.1, 0.1, 0.1},
			want:    10,
		},
		{
			name:    "only the heavy metrics",
			metrics: HonestyMetrics{1, 1, 0, 0},
			want:    60,
		},
		{
			name:    "only the light metrics",
			metrics: HonestyMetrics{0, 0, 1, 1},
			want:    40,
		},
		{
			name:    "all zero",
			metrics: HonestyMetrics{},
			want:    0,
		},
		{
			name:    "out of range clamps high",
			metrics: HonestyMetrics{2.5, 1, 1, 1},
			want:    100,
		},
		{
			name:    "out of range clamps low",
			metrics: HonestyMetrics{-1, -1, -1, -1},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeHonestyScore(tt.metrics); got != tt.want {
				t.Errorf("ComputeHonestyScore(%+v) = %d, want %d", tt.metrics, got, tt.want)
			}
		})
	}
}

func TestMoodFromHonesty(t *testing.T) {
	tests := []struct {
		score int
		want  Mood
	}{
		{100, MoodHappy},
		{70, MoodHappy},
		{69, MoodNeutral},
		{40, MoodNeutral},
		{39, MoodSad},
		{0, MoodSad},
	}

	for _, tt := range tests {
		if got := MoodFromHonesty(tt.score); got != tt.want {
			t.Errorf("MoodFromHonesty(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

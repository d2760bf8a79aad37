package domain

import (
	"testing"
	"time"
)

var kyiv = time.FixedZone("EET", 2*60*60)

// week of 2025-01-06 (Monday) .. 2025-01-12 (Sunday)
func day(d int) time.Time {
	return time.Date(2025, time.January, d, 15, 0, 0, 0, kyiv)
}

func TestAppliesEveryWednesdayAllWeekdays(t *testing.T) {
	schedules := []string{"Every Wednesday", "every wednesday", "Tech talks every Wednesday evening"}
	now := day(6)

	for _, s := range schedules {
		for d := 6; d <= 12; d++ {
			ref := day(d)
			want := ref.Weekday() == time.Wednesday
			if got := Applies(s, ref, now); got != want {
				t.Errorf("Applies(%q, %s) = %v, want %v", s, ref.Weekday(), got, want)
			}
		}
	}
}

func TestAppliesEmptyScheduleAlwaysTrue(t *testing.T) {
	for d := 6; d <= 12; d++ {
		for _, s := range []string{"", "   ", "\n"} {
			if !Applies(s, day(d), day(6)) {
				t.Errorf("Applies(%q, %s) = false, want true", s, day(d).Weekday())
			}
		}
	}
}

func TestApplies(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		ref      time.Time
		now      time.Time
		expected bool
	}{
		{"today", "Today", day(9), day(6), true},
		{"daily uppercase", "DAILY", day(12), day(6), true},
		{"tomorrow matches next day", "Tomorrow", day(9), day(8), true},
		{"tomorrow same day", "tomorrow", day(8), day(8), false},
		{"tomorrow two days later", "tomorrow", day(10), day(8), false},
		{
			name:     "tomorrow compares dates not times",
			schedule: "Tomorrow",
			ref:      time.Date(2025, time.January, 9, 0, 5, 0, 0, kyiv),
			now:      time.Date(2025, time.January, 8, 23, 55, 0, 0, kyiv),
			expected: true,
		},
		{"weekend on friday", "This Weekend", day(10), day(6), true},
		{"weekend on saturday", "this weekend", day(11), day(6), true},
		{"weekend on sunday", "This Weekend", day(12), day(6), false},
		{"friday & saturday on saturday", "Friday & Saturday", day(11), day(6), true},
		{"friday & saturday on thursday", "Friday & Saturday", day(9), day(6), false},
		{"every thursday on thursday", "Every Thursday", day(9), day(6), true},
		{"every thursday on friday", "Every Thursday", day(10), day(6), false},
		{"first named day wins", "Every Friday and Saturday", day(11), day(6), false},
		{"wednesday beats weekend", "every wednesday and on the weekend", day(10), day(6), false},
		{"wednesday beats weekend on wednesday", "every wednesday and on the weekend", day(8), day(6), true},
		{"every sunday", "Every Sunday", day(12), day(6), true},
		{"every sunday on monday", "Every Sunday", day(6), day(6), false},
		{"every monday", "every  monday", day(6), day(12), true},
		{"every tuesday on wednesday", "Every Tuesday", day(8), day(6), false},
		{"every non weekday", "Every month", day(7), day(6), true},
		{"unrecognized", "Whenever the moon is full", day(7), day(6), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Applies(tt.schedule, tt.ref, tt.now); got != tt.expected {
				t.Errorf("Applies(%q, %s) = %v, want %v", tt.schedule, tt.ref.Format(time.DateOnly), got, tt.expected)
			}
		})
	}
}

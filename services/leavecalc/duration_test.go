package leavecalc

import (
	"testing"
	"time"

	"leavehub_go/models"
)

func leaveDays(start, end time.Time) models.LeaveRequest {
	return models.LeaveRequest{StartDate: start, EndDate: end}
}

func leaveHours(start, end string) models.LeaveRequest {
	day := date(2024, time.March, 5)
	return models.LeaveRequest{
		StartDate: day,
		EndDate:   day,
		StartTime: strPtr(start),
		EndTime:   strPtr(end),
	}
}

func TestDuration(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name     string
		req      models.LeaveRequest
		expDays  int
		expHours float64
	}{
		{
			name:    "single day",
			req:     leaveDays(date(2024, time.March, 5), date(2024, time.March, 5)),
			expDays: 1,
		},
		{
			name:    "inclusive span",
			req:     leaveDays(date(2024, time.January, 1), date(2024, time.January, 3)),
			expDays: 3,
		},
		{
			name:    "reversed dates clamp to one day",
			req:     leaveDays(date(2024, time.March, 5), date(2024, time.March, 1)),
			expDays: 1,
		},
		{
			name:     "hour range",
			req:      leaveHours("09:00", "12:00"),
			expHours: 3,
		},
		{
			name:     "half hour",
			req:      leaveHours("13:00", "16:30"),
			expHours: 3.5,
		},
		{
			name:     "reversed times clamp to zero",
			req:      leaveHours("17:00", "09:00"),
			expHours: 0,
		},
		{
			name:     "unparsable times clamp to zero",
			req:      leaveHours("morning", "noon"),
			expHours: 0,
		},
		{
			name:    "neither dates nor times defaults to one day",
			req:     models.LeaveRequest{},
			expDays: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			d := svc.Duration(&tc.req)
			if d.Days != tc.expDays || d.Hours != tc.expHours {
				t.Fatalf("expected %dd %.2fh, got %dd %.2fh", tc.expDays, tc.expHours, d.Days, d.Hours)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name     string
		days     int
		hours    float64
		expDays  int
		expHours float64
	}{
		{"no overflow", 2, 3, 2, 3},
		{"exact boundary", 0, 9, 1, 0},
		{"overflow with remainder", 2, 10, 3, 1},
		{"double overflow", 0, 21, 2, 3},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			days, hours := svc.Normalize(tc.days, tc.hours)
			if days != tc.expDays || hours != tc.expHours {
				t.Fatalf("expected %dd %.2fh, got %dd %.2fh", tc.expDays, tc.expHours, days, hours)
			}
		})
	}
}

func TestTotalHours(t *testing.T) {
	d := Duration{Days: 8, Hours: 3}
	if got := d.TotalHours(9); got != 75 {
		t.Fatalf("expected 75 hours, got %.2f", got)
	}
}

func TestParseHourMinute(t *testing.T) {
	tests := []struct {
		input      string
		expMinutes int
	}{
		{"08:30", 510},
		{"00:00", 0},
		{"13:45:00", 825},
		{"23:59", 1439},
	}
	for _, tc := range tests {
		got, err := parseHourMinute(tc.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.input, err)
		}
		if got != tc.expMinutes {
			t.Fatalf("%s: expected %d minutes, got %d", tc.input, tc.expMinutes, got)
		}
	}

	for _, invalid := range []string{"invalid", "25:00", "10:75", "10"} {
		if _, err := parseHourMinute(invalid); err == nil {
			t.Fatalf("expected error for %q", invalid)
		}
	}
}

package leavecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"leavehub_go/config"
	"leavehub_go/models"
)

// Service performs the leave accounting: durations, usage totals,
// quota balances and the annual reset. All database access goes
// through the injected handle.
type Service struct {
	db  *gorm.DB
	cfg config.BusinessConfig
	now func() time.Time
}

// New creates a Service bound to db with the given business rules.
func New(db *gorm.DB, cfg config.BusinessConfig) *Service {
	if cfg.WorkingHoursPerDay <= 0 {
		cfg.WorkingHoursPerDay = 9
	}
	return &Service{db: db, cfg: cfg, now: time.Now}
}

// Duration is a leave length in whole days plus fractional hours.
type Duration struct {
	Days  int     `json:"days"`
	Hours float64 `json:"hours"`
}

// TotalHours converts the duration into hours at the working-day rate.
func (d Duration) TotalHours(workingHoursPerDay int) float64 {
	return float64(d.Days*workingHoursPerDay) + d.Hours
}

// Duration computes the canonical length of a leave request.
//
// Requests with both StartTime and EndTime are hour-based: hours are
// the HH:MM difference rounded to 2 decimals, clamped to zero.
// An end time at or before the start time counts as zero hours; leave
// slices never cross midnight in this product, so a reversed range is
// treated as input error rather than an overnight span.
// Date-only requests count days inclusive of both endpoints. A request
// with neither a usable time nor date range counts as one day.
func (s *Service) Duration(req *models.LeaveRequest) Duration {
	if req.StartTime != nil && req.EndTime != nil && *req.StartTime != "" && *req.EndTime != "" {
		startMin, err1 := parseHourMinute(*req.StartTime)
		endMin, err2 := parseHourMinute(*req.EndTime)
		if err1 != nil || err2 != nil {
			return Duration{Hours: 0}
		}
		diff := float64(endMin-startMin) / 60.0
		if diff < 0 {
			diff = 0
		}
		return Duration{Hours: round2(diff)}
	}

	if !req.StartDate.IsZero() && !req.EndDate.IsZero() {
		span := req.EndDate.Sub(req.StartDate)
		days := int(math.Ceil(span.Hours()/24)) + 1
		if days < 1 {
			days = 1
		}
		return Duration{Days: days}
	}

	return Duration{Days: 1}
}

// Normalize folds overflowing hours into days at the working-day
// boundary: 2 days + 10 hours at 9h/day becomes 3 days + 1 hour.
func (s *Service) Normalize(days int, hours float64) (int, float64) {
	whpd := float64(s.cfg.WorkingHoursPerDay)
	if hours >= whpd {
		days += int(hours / whpd)
		hours = math.Mod(hours, whpd)
	}
	return days, round2(hours)
}

// parseHourMinute parses "HH:MM" (seconds tolerated) into minutes
// since midnight.
func parseHourMinute(v string) (int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1][:min(2, len(parts[1]))]))
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time out of range %q", v)
	}
	return h*60 + m, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package leavecalc

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"leavehub_go/models"
)

// Usage is a normalized used total: whole days plus leftover hours
// below the working-day boundary.
type Usage struct {
	UsedDays  int     `json:"used_days"`
	UsedHours float64 `json:"used_hours"`
}

// TotalHours converts the usage into hours at the working-day rate.
func (u Usage) TotalHours(workingHoursPerDay int) float64 {
	return float64(u.UsedDays*workingHoursPerDay) + u.UsedHours
}

// TypeUsage is the per-leave-type breakdown returned to dashboards.
// Deleted marks soft-removed leave types; callers prefix the display
// name at the boundary.
type TypeUsage struct {
	LeaveTypeID uint    `json:"leave_type_id"`
	NameTh      string  `json:"name_th"`
	NameEn      string  `json:"name_en"`
	Deleted     bool    `json:"deleted"`
	UsedDays    int     `json:"used_days"`
	UsedHours   float64 `json:"used_hours"`
}

// UsageForUser recomputes a user's approved usage for the year from
// the LeaveRequest rows rather than trusting the LeaveUsed cache, so
// deletions are reflected immediately. A request belongs to the year
// of its start date. leaveTypeID narrows to one type when non-nil.
func (s *Service) UsageForUser(userID uint, year int, leaveTypeID *uint) (Usage, error) {
	tx := s.db.Model(&models.LeaveRequest{}).
		Where("user_id = ? AND status = ?", userID, models.LeaveStatusApproved).
		Where("start_date >= ? AND start_date < ?", yearStart(year), yearStart(year+1))
	if leaveTypeID != nil {
		tx = tx.Where("leave_type_id = ?", *leaveTypeID)
	}

	var requests []models.LeaveRequest
	if err := tx.Find(&requests).Error; err != nil {
		return Usage{}, err
	}

	return s.sumRequests(requests), nil
}

// UsageBreakdown returns per-type usage for the year, keeping types
// that have been soft-deleted since the leave was taken.
func (s *Service) UsageBreakdown(userID uint, year int) ([]TypeUsage, error) {
	var requests []models.LeaveRequest
	err := s.db.
		Where("user_id = ? AND status = ?", userID, models.LeaveStatusApproved).
		Where("start_date >= ? AND start_date < ?", yearStart(year), yearStart(year+1)).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	byType := make(map[uint][]models.LeaveRequest)
	order := make([]uint, 0)
	for _, r := range requests {
		if _, seen := byType[r.LeaveTypeID]; !seen {
			order = append(order, r.LeaveTypeID)
		}
		byType[r.LeaveTypeID] = append(byType[r.LeaveTypeID], r)
	}

	out := make([]TypeUsage, 0, len(order))
	for _, typeID := range order {
		// Unscoped so historical rows of deleted types keep a name
		var lt models.LeaveType
		if err := s.db.Unscoped().First(&lt, typeID).Error; err != nil {
			return nil, err
		}
		u := s.sumRequests(byType[typeID])
		out = append(out, TypeUsage{
			LeaveTypeID: typeID,
			NameTh:      lt.NameTh,
			NameEn:      lt.NameEn,
			Deleted:     lt.DeletedAt.Valid || !lt.Active,
			UsedDays:    u.UsedDays,
			UsedHours:   u.UsedHours,
		})
	}
	return out, nil
}

// RecordApproved adds an approved request's duration to the LeaveUsed
// cache row, creating it when absent. Runs in the caller's tx.
func (s *Service) RecordApproved(req *models.LeaveRequest) error {
	d := s.Duration(req)

	var used models.LeaveUsed
	err := s.db.Where("user_id = ? AND leave_type_id = ?", req.UserID, req.LeaveTypeID).
		First(&used).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		used = models.LeaveUsed{UserID: req.UserID, LeaveTypeID: req.LeaveTypeID}
	}

	days, hours := s.Normalize(used.Days+d.Days, used.Hours+d.Hours)
	used.Days = days
	used.Hours = hours
	return s.db.Save(&used).Error
}

func (s *Service) sumRequests(requests []models.LeaveRequest) Usage {
	days := 0
	hours := 0.0
	for i := range requests {
		d := s.Duration(&requests[i])
		days += d.Days
		hours += d.Hours
	}
	days, hours = s.Normalize(days, hours)
	return Usage{UsedDays: days, UsedHours: hours}
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

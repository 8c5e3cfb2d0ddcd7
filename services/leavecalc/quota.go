package leavecalc

import (
	"errors"

	"gorm.io/gorm"

	"leavehub_go/models"
)

// QuotaStatus combines the quota table with recomputed usage.
// Deleted marks soft-removed or deactivated leave types; callers
// prefix the display name at the boundary.
type QuotaStatus struct {
	LeaveTypeID   uint    `json:"leave_type_id"`
	LeaveTypeTh   string  `json:"leave_type_th"`
	LeaveTypeEn   string  `json:"leave_type_en"`
	Deleted       bool    `json:"deleted,omitempty"`
	QuotaDays     int     `json:"quota_days"`
	UsedDays      int     `json:"used_days"`
	UsedHours     float64 `json:"used_hours"`
	RemainingDays float64 `json:"remaining_days"`
}

// QuotaStatus resolves one (user, leave type) balance for the given
// year. Remaining is computed in hours and never goes negative:
// remaining = max(0, quota*whpd - used) / whpd.
func (s *Service) QuotaStatus(userID, leaveTypeID uint, year int) (*QuotaStatus, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var quota models.LeaveQuota
	err := s.db.Where("position_id = ? AND leave_type_id = ?", user.PositionID, leaveTypeID).
		First(&quota).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotaNotAssigned
		}
		return nil, err
	}

	var lt models.LeaveType
	if err := s.db.Unscoped().First(&lt, leaveTypeID).Error; err != nil {
		return nil, err
	}

	usage, err := s.UsageForUser(userID, year, &leaveTypeID)
	if err != nil {
		return nil, err
	}

	return s.buildStatus(&lt, quota.Quota, usage), nil
}

// QuotaStatusAll returns the balance for every leave type quota
// assigned to the user's position, for the given year (the
// /leave-quota/me payload). Types preload Unscoped so rows of
// soft-deleted types keep their identity.
func (s *Service) QuotaStatusAll(userID uint, year int) ([]QuotaStatus, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var quotas []models.LeaveQuota
	err := s.db.Preload("LeaveType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("position_id = ?", user.PositionID).
		Order("leave_type_id").
		Find(&quotas).Error
	if err != nil {
		return nil, err
	}

	out := make([]QuotaStatus, 0, len(quotas))
	for i := range quotas {
		typeID := quotas[i].LeaveTypeID
		usage, err := s.UsageForUser(userID, year, &typeID)
		if err != nil {
			return nil, err
		}
		out = append(out, *s.buildStatus(&quotas[i].LeaveType, quotas[i].Quota, usage))
	}
	return out, nil
}

// CheckSubmission validates a new request of duration d against the
// user's quota. The designated emergency type bypasses the check; a
// missing quota row rejects the submission.
//
// NOTE: check and insert are not serialized per user, so two
// concurrent submissions can both pass. Accepted risk for now.
func (s *Service) CheckSubmission(user *models.User, leaveTypeID uint, d Duration) error {
	var lt models.LeaveType
	if err := s.db.First(&lt, leaveTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveTypeInactive
		}
		return err
	}
	if !lt.Active {
		return ErrLeaveTypeInactive
	}

	if s.cfg.MaxLeaveDays > 0 && d.Days > s.cfg.MaxLeaveDays {
		return ErrMaxLeaveDays
	}

	if lt.NameEn == s.cfg.EmergencyLeaveType {
		return nil
	}

	var quota models.LeaveQuota
	err := s.db.Where("position_id = ? AND leave_type_id = ?", user.PositionID, leaveTypeID).
		First(&quota).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotaNotAssigned
		}
		return err
	}

	usage, err := s.UsageForUser(user.ID, s.now().Year(), &leaveTypeID)
	if err != nil {
		return err
	}

	whpd := s.cfg.WorkingHoursPerDay
	totalQuotaHours := float64(quota.Quota * whpd)
	if usage.TotalHours(whpd)+d.TotalHours(whpd) > totalQuotaHours {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *Service) buildStatus(lt *models.LeaveType, quotaDays int, usage Usage) *QuotaStatus {
	whpd := s.cfg.WorkingHoursPerDay
	remainingHours := float64(quotaDays*whpd) - usage.TotalHours(whpd)
	if remainingHours < 0 {
		remainingHours = 0
	}
	return &QuotaStatus{
		LeaveTypeID:   lt.ID,
		LeaveTypeTh:   lt.NameTh,
		LeaveTypeEn:   lt.NameEn,
		Deleted:       lt.DeletedAt.Valid || !lt.Active,
		QuotaDays:     quotaDays,
		UsedDays:      usage.UsedDays,
		UsedHours:     usage.UsedHours,
		RemainingDays: round2(remainingHours / float64(whpd)),
	}
}

// WorkingHoursPerDay exposes the configured conversion factor.
func (s *Service) WorkingHoursPerDay() int {
	return s.cfg.WorkingHoursPerDay
}

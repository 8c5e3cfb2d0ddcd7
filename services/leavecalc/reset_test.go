package leavecalc

import (
	"errors"
	"testing"
	"time"

	"leavehub_go/models"
)

func seedUsed(t *testing.T, svc *Service, userID, typeID uint, days int, hours float64) {
	t.Helper()
	mustCreate(t, svc.db, &models.LeaveUsed{
		UserID:      userID,
		LeaveTypeID: typeID,
		Days:        days,
		Hours:       hours,
	})
}

func TestResetRefusedOutsideJanuaryFirst(t *testing.T) {
	svc := newTestService(t) // clock pinned to 2024-06-15

	_, err := svc.Reset(ResetParams{})
	if !errors.Is(err, ErrResetWindow) {
		t.Fatalf("expected ErrResetWindow, got %v", err)
	}
}

func TestResetAllowedOnJanuaryFirst(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time {
		return time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	}

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})
	seedUsed(t, svc, user.ID, sick.ID, 4, 2)

	result, err := svc.Reset(ResetParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UsersAffected != 1 || result.RowsAffected != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestResetZeroStrategyKeepsRows(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	target := seedUser(t, svc, map[uint]int{sick.ID: 10})
	other := seedUser(t, svc, map[uint]int{sick.ID: 10})
	seedUsed(t, svc, target.ID, sick.ID, 4, 2)
	seedUsed(t, svc, other.ID, sick.ID, 3, 1)

	result, err := svc.Reset(ResetParams{
		UserIDs:  []uint{target.ID},
		Force:    true,
		Strategy: StrategyZero,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UsersAffected != 1 || result.RowsAffected != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var count int64
	svc.db.Model(&models.LeaveUsed{}).Count(&count)
	if count != 2 {
		t.Fatalf("zero strategy must keep rows, have %d", count)
	}

	var reset models.LeaveUsed
	if err := svc.db.Where("user_id = ?", target.ID).First(&reset).Error; err != nil {
		t.Fatalf("load reset row: %v", err)
	}
	if reset.Days != 0 || reset.Hours != 0 {
		t.Fatalf("targeted row not zeroed: %dd %.2fh", reset.Days, reset.Hours)
	}

	var untouched models.LeaveUsed
	if err := svc.db.Where("user_id = ?", other.ID).First(&untouched).Error; err != nil {
		t.Fatalf("load other row: %v", err)
	}
	if untouched.Days != 3 || untouched.Hours != 1 {
		t.Fatalf("other user's row changed: %dd %.2fh", untouched.Days, untouched.Hours)
	}
}

func TestResetDeleteStrategyRemovesOnlyTargets(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	target := seedUser(t, svc, map[uint]int{sick.ID: 10})
	other := seedUser(t, svc, map[uint]int{sick.ID: 10})
	seedUsed(t, svc, target.ID, sick.ID, 4, 2)
	seedUsed(t, svc, other.ID, sick.ID, 3, 1)

	result, err := svc.Reset(ResetParams{
		UserIDs:  []uint{target.ID},
		Force:    true,
		Strategy: StrategyDelete,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RowsAffected != 1 {
		t.Fatalf("expected 1 row removed, got %d", result.RowsAffected)
	}

	var count int64
	svc.db.Unscoped().Model(&models.LeaveUsed{}).Where("user_id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Fatalf("targeted rows must be removed, have %d", count)
	}
	svc.db.Model(&models.LeaveUsed{}).Where("user_id = ?", other.ID).Count(&count)
	if count != 1 {
		t.Fatalf("other user's rows must stay, have %d", count)
	}
}

func TestResetByPosition(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	inPosition := seedUser(t, svc, map[uint]int{sick.ID: 10})
	outside := seedUser(t, svc, map[uint]int{sick.ID: 10})
	seedUsed(t, svc, inPosition.ID, sick.ID, 2, 0)
	seedUsed(t, svc, outside.ID, sick.ID, 2, 0)

	result, err := svc.Reset(ResetParams{
		PositionID: &inPosition.PositionID,
		Force:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PositionsAffected != 1 || result.UsersAffected != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var untouched models.LeaveUsed
	if err := svc.db.Where("user_id = ?", outside.ID).First(&untouched).Error; err != nil {
		t.Fatalf("load outside row: %v", err)
	}
	if untouched.Days != 2 {
		t.Fatalf("user outside the position was reset")
	}
}

func TestResetDefaultTargetsEligiblePositions(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)

	eligible := seedUser(t, svc, map[uint]int{sick.ID: 10})
	carryOver := seedUser(t, svc, map[uint]int{sick.ID: 10})
	// Flag the second position as carry-over (not reset-eligible)
	err := svc.db.Model(&models.Position{}).
		Where("id = ?", carryOver.PositionID).
		Update("new_year_quota", 1).Error
	if err != nil {
		t.Fatalf("flag position: %v", err)
	}

	seedUsed(t, svc, eligible.ID, sick.ID, 5, 0)
	seedUsed(t, svc, carryOver.ID, sick.ID, 5, 0)

	result, err := svc.Reset(ResetParams{Force: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UsersAffected != 1 {
		t.Fatalf("expected only the eligible position's user, got %+v", result)
	}

	var kept models.LeaveUsed
	if err := svc.db.Where("user_id = ?", carryOver.ID).First(&kept).Error; err != nil {
		t.Fatalf("load carry-over row: %v", err)
	}
	if kept.Days != 5 {
		t.Fatalf("carry-over position was reset")
	}
}

func TestResetBadStrategy(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Reset(ResetParams{Force: true, Strategy: "truncate"})
	if !errors.Is(err, ErrBadResetStrategy) {
		t.Fatalf("expected ErrBadResetStrategy, got %v", err)
	}
}

func TestResetNoTargets(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Reset(ResetParams{Force: true})
	if !errors.Is(err, ErrNoResetTargets) {
		t.Fatalf("expected ErrNoResetTargets, got %v", err)
	}
}

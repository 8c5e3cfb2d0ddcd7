package leavecalc

import (
	"errors"
	"testing"
	"time"

	"leavehub_go/models"
)

func approveSpan(t *testing.T, svc *Service, user *models.User, typeID uint, start, end time.Time) {
	t.Helper()
	req := leaveDays(start, end)
	req.UserID = user.ID
	req.LeaveTypeID = typeID
	req.Status = models.LeaveStatusApproved
	mustCreate(t, svc.db, &req)
}

func TestCheckSubmissionQuotaExceeded(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	// 8 approved days + one 3-hour slice = 75 of 90 quota hours
	approveSpan(t, svc, user, sick.ID, date(2024, time.February, 5), date(2024, time.February, 12))
	hourReq := leaveHours("09:00", "12:00")
	hourReq.UserID = user.ID
	hourReq.LeaveTypeID = sick.ID
	hourReq.Status = models.LeaveStatusApproved
	mustCreate(t, svc.db, &hourReq)

	// 2 more days = 18h; 75+18=93 > 90 -> rejected
	err := svc.CheckSubmission(user, sick.ID, Duration{Days: 2})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// 1 day = 9h; 75+9=84 <= 90 -> allowed
	if err := svc.CheckSubmission(user, sick.ID, Duration{Days: 1}); err != nil {
		t.Fatalf("expected submission within quota to pass, got %v", err)
	}
}

func TestCheckSubmissionMissingQuotaRow(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	unquoted := models.LeaveType{NameTh: "ลาบวช", NameEn: "Ordination", Active: true}
	mustCreate(t, svc.db, &unquoted)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	err := svc.CheckSubmission(user, unquoted.ID, Duration{Days: 1})
	if !errors.Is(err, ErrQuotaNotAssigned) {
		t.Fatalf("expected ErrQuotaNotAssigned, got %v", err)
	}
}

func TestCheckSubmissionEmergencyBypassesQuota(t *testing.T) {
	svc := newTestService(t)

	emergency := models.LeaveType{NameTh: "ลาฉุกเฉิน", NameEn: "Emergency", Active: true}
	mustCreate(t, svc.db, &emergency)
	// No quota row for the emergency type on purpose
	user := seedUser(t, svc, nil)

	if err := svc.CheckSubmission(user, emergency.ID, Duration{Days: 3}); err != nil {
		t.Fatalf("emergency leave must bypass quota, got %v", err)
	}
}

func TestCheckSubmissionInactiveType(t *testing.T) {
	svc := newTestService(t)

	retired := models.LeaveType{NameTh: "ลาพิเศษ", NameEn: "Special", Active: false}
	mustCreate(t, svc.db, &retired)
	user := seedUser(t, svc, map[uint]int{retired.ID: 5})

	err := svc.CheckSubmission(user, retired.ID, Duration{Days: 1})
	if !errors.Is(err, ErrLeaveTypeInactive) {
		t.Fatalf("expected ErrLeaveTypeInactive, got %v", err)
	}
}

func TestCheckSubmissionMaxDays(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 100})

	err := svc.CheckSubmission(user, sick.ID, Duration{Days: 31})
	if !errors.Is(err, ErrMaxLeaveDays) {
		t.Fatalf("expected ErrMaxLeaveDays, got %v", err)
	}
}

func TestQuotaStatusRemainingNeverNegative(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 2})

	// Backdated approvals can push usage past the quota
	approveSpan(t, svc, user, sick.ID, date(2024, time.February, 5), date(2024, time.February, 9))

	status, err := svc.QuotaStatus(user.ID, sick.ID, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.RemainingDays != 0 {
		t.Fatalf("remaining must clamp at 0, got %.2f", status.RemainingDays)
	}
	if status.UsedDays != 5 {
		t.Fatalf("expected 5 used days, got %d", status.UsedDays)
	}
}

func TestQuotaStatusAll(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	personal := models.LeaveType{NameTh: "ลากิจ", NameEn: "Personal", Active: true}
	mustCreate(t, svc.db, &personal)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10, personal.ID: 5})

	approveSpan(t, svc, user, sick.ID, date(2024, time.March, 4), date(2024, time.March, 6))

	statuses, err := svc.QuotaStatusAll(user.ID, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 quota statuses, got %d", len(statuses))
	}

	byType := map[uint]QuotaStatus{}
	for _, st := range statuses {
		byType[st.LeaveTypeID] = st
	}
	if byType[sick.ID].RemainingDays != 7 {
		t.Fatalf("expected 7 remaining sick days, got %.2f", byType[sick.ID].RemainingDays)
	}
	if byType[personal.ID].RemainingDays != 5 {
		t.Fatalf("expected untouched personal quota, got %.2f", byType[personal.ID].RemainingDays)
	}
}

func TestQuotaStatusAllRespectsYear(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	// All approved leave sits in the prior year
	approveSpan(t, svc, user, sick.ID, date(2023, time.May, 8), date(2023, time.May, 10))

	past, err := svc.QuotaStatusAll(user.ID, 2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if past[0].UsedDays != 3 {
		t.Fatalf("expected 3 used days in 2023, got %d", past[0].UsedDays)
	}

	current, err := svc.QuotaStatusAll(user.ID, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current[0].UsedDays != 0 {
		t.Fatalf("expected clean 2024 balance, got %d used days", current[0].UsedDays)
	}
}

func TestQuotaStatusAllKeepsDeletedTypeIdentity(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 5})

	approveSpan(t, svc, user, sick.ID, date(2024, time.April, 1), date(2024, time.April, 1))

	if err := svc.db.Delete(&sick).Error; err != nil {
		t.Fatalf("delete leave type: %v", err)
	}

	statuses, err := svc.QuotaStatusAll(user.ID, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 quota status, got %d", len(statuses))
	}
	st := statuses[0]
	if st.LeaveTypeID != sick.ID || st.LeaveTypeEn != "Sick" {
		t.Fatalf("deleted type lost identity: id=%d nameEn=%q", st.LeaveTypeID, st.LeaveTypeEn)
	}
	if !st.Deleted {
		t.Fatal("expected Deleted flag on soft-removed type")
	}
	if st.QuotaDays != 5 || st.UsedDays != 1 {
		t.Fatalf("expected quota 5 used 1, got quota %d used %d", st.QuotaDays, st.UsedDays)
	}
}

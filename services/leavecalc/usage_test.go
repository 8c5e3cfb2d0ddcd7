package leavecalc

import (
	"testing"
	"time"

	"leavehub_go/models"
)

func TestUsageForUserAggregatesApprovedOnly(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	// 3 approved days + 3 approved hours + a pending request that must not count
	approvedSpan := leaveDays(date(2024, time.February, 5), date(2024, time.February, 7))
	approvedSpan.UserID = user.ID
	approvedSpan.LeaveTypeID = sick.ID
	approvedSpan.Status = models.LeaveStatusApproved
	mustCreate(t, svc.db, &approvedSpan)

	approvedHours := leaveHours("09:00", "12:00")
	approvedHours.UserID = user.ID
	approvedHours.LeaveTypeID = sick.ID
	approvedHours.Status = models.LeaveStatusApproved
	mustCreate(t, svc.db, &approvedHours)

	pending := leaveDays(date(2024, time.April, 1), date(2024, time.April, 2))
	pending.UserID = user.ID
	pending.LeaveTypeID = sick.ID
	pending.Status = models.LeaveStatusPending
	mustCreate(t, svc.db, &pending)

	usage, err := svc.UsageForUser(user.ID, 2024, &sick.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.UsedDays != 3 || usage.UsedHours != 3 {
		t.Fatalf("expected 3d 3h, got %dd %.2fh", usage.UsedDays, usage.UsedHours)
	}
}

func TestUsageForUserFiltersByYear(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	lastYear := leaveDays(date(2023, time.December, 28), date(2023, time.December, 29))
	lastYear.UserID = user.ID
	lastYear.LeaveTypeID = sick.ID
	lastYear.Status = models.LeaveStatusApproved
	mustCreate(t, svc.db, &lastYear)

	thisYear := leaveDays(date(2024, time.January, 2), date(2024, time.January, 2))
	thisYear.UserID = user.ID
	thisYear.LeaveTypeID = sick.ID
	thisYear.Status = models.LeaveStatusApproved
	mustCreate(t, svc.db, &thisYear)

	usage, err := svc.UsageForUser(user.ID, 2024, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.UsedDays != 1 || usage.UsedHours != 0 {
		t.Fatalf("expected 1d 0h for 2024, got %dd %.2fh", usage.UsedDays, usage.UsedHours)
	}
}

func TestUsageHoursNormalizeIntoDays(t *testing.T) {
	svc := newTestService(t)

	personal := models.LeaveType{NameTh: "ลากิจ", NameEn: "Personal", Active: true}
	mustCreate(t, svc.db, &personal)
	user := seedUser(t, svc, map[uint]int{personal.ID: 10})

	// four 3-hour slices = 12h = 1 day + 3h at 9h/day
	for i := 0; i < 4; i++ {
		req := leaveHours("09:00", "12:00")
		req.StartDate = date(2024, time.March, 4+i)
		req.EndDate = req.StartDate
		req.UserID = user.ID
		req.LeaveTypeID = personal.ID
		req.Status = models.LeaveStatusApproved
		mustCreate(t, svc.db, &req)
	}

	usage, err := svc.UsageForUser(user.ID, 2024, &personal.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.UsedDays != 1 || usage.UsedHours != 3 {
		t.Fatalf("expected 1d 3h, got %dd %.2fh", usage.UsedDays, usage.UsedHours)
	}
}

func TestUsageBreakdownKeepsDeletedTypes(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	retired := models.LeaveType{NameTh: "ลาพักร้อนพิเศษ", NameEn: "Special Vacation", Active: true}
	mustCreate(t, svc.db, &retired)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10, retired.ID: 5})

	for _, typeID := range []uint{sick.ID, retired.ID} {
		req := leaveDays(date(2024, time.May, 1), date(2024, time.May, 1))
		req.UserID = user.ID
		req.LeaveTypeID = typeID
		req.Status = models.LeaveStatusApproved
		mustCreate(t, svc.db, &req)
	}

	// Soft delete one type after the leave was taken
	if err := svc.db.Delete(&retired).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	breakdown, err := svc.UsageBreakdown(user.ID, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 types in breakdown, got %d", len(breakdown))
	}

	byID := map[uint]TypeUsage{}
	for _, tu := range breakdown {
		byID[tu.LeaveTypeID] = tu
	}
	if byID[sick.ID].Deleted {
		t.Fatalf("active type flagged as deleted")
	}
	if !byID[retired.ID].Deleted {
		t.Fatalf("soft-deleted type not flagged")
	}
	if byID[retired.ID].NameEn != "Special Vacation" {
		t.Fatalf("deleted type lost its name: %+v", byID[retired.ID])
	}
	if byID[retired.ID].UsedDays != 1 {
		t.Fatalf("deleted type lost its usage: %+v", byID[retired.ID])
	}
}

func TestRecordApprovedMaintainsCache(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	first := leaveDays(date(2024, time.June, 3), date(2024, time.June, 4))
	first.UserID = user.ID
	first.LeaveTypeID = sick.ID
	if err := svc.RecordApproved(&first); err != nil {
		t.Fatalf("record first: %v", err)
	}

	second := leaveHours("09:00", "17:00") // 8h, below the 9h boundary
	second.UserID = user.ID
	second.LeaveTypeID = sick.ID
	if err := svc.RecordApproved(&second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	var used models.LeaveUsed
	err := svc.db.Where("user_id = ? AND leave_type_id = ?", user.ID, sick.ID).First(&used).Error
	if err != nil {
		t.Fatalf("load cache row: %v", err)
	}
	if used.Days != 2 || used.Hours != 8 {
		t.Fatalf("expected cache 2d 8h, got %dd %.2fh", used.Days, used.Hours)
	}

	// One more hour crosses the boundary: 9h -> +1 day
	third := leaveHours("09:00", "10:00")
	third.UserID = user.ID
	third.LeaveTypeID = sick.ID
	if err := svc.RecordApproved(&third); err != nil {
		t.Fatalf("record third: %v", err)
	}
	if err := svc.db.Where("user_id = ? AND leave_type_id = ?", user.ID, sick.ID).First(&used).Error; err != nil {
		t.Fatalf("reload cache row: %v", err)
	}
	if used.Days != 3 || used.Hours != 0 {
		t.Fatalf("expected cache 3d 0h after overflow, got %dd %.2fh", used.Days, used.Hours)
	}
}

func TestRecordApprovedSurfacesLookupError(t *testing.T) {
	svc := newTestService(t)

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	mustCreate(t, svc.db, &sick)
	user := seedUser(t, svc, map[uint]int{sick.ID: 10})

	// A broken cache table must not be mistaken for an absent row
	if err := svc.db.Migrator().DropTable(&models.LeaveUsed{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	req := leaveDays(date(2024, time.June, 3), date(2024, time.June, 4))
	req.UserID = user.ID
	req.LeaveTypeID = sick.ID
	if err := svc.RecordApproved(&req); err == nil {
		t.Fatal("expected error from failed cache lookup")
	}
}

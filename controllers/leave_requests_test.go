package controllers

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leavehub_go/config"
	"leavehub_go/database"
	"leavehub_go/models"
)

func setupControllerTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Position{},
		&models.User{},
		&models.LeaveType{},
		&models.LeaveRequest{},
		&models.LeaveQuota{},
		&models.LeaveUsed{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	database.DB = db
	config.AppConfig = &config.Config{
		Business: config.BusinessConfig{
			WorkingHoursPerDay: 9,
			WorkingStartHour:   9,
			WorkingEndHour:     18,
			MaxLeaveDays:       30,
			EmergencyLeaveType: "Emergency",
			Timezone:           "Asia/Bangkok",
		},
	}
	return db
}

// seedPendingRequest creates a position, an employee, an admin, a
// leave type with quota, and one pending request from the employee.
func seedPendingRequest(t *testing.T, db *gorm.DB) (*models.User, *models.LeaveRequest) {
	t.Helper()

	position := models.Position{NameTh: "พนักงาน", NameEn: "Staff", Active: true}
	if err := db.Create(&position).Error; err != nil {
		t.Fatalf("create position: %v", err)
	}

	sick := models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick", Active: true}
	if err := db.Create(&sick).Error; err != nil {
		t.Fatalf("create leave type: %v", err)
	}
	quota := models.LeaveQuota{PositionID: position.ID, LeaveTypeID: sick.ID, Quota: 10}
	if err := db.Create(&quota).Error; err != nil {
		t.Fatalf("create quota: %v", err)
	}

	employee := models.User{Username: "somchai", Password: "x", Role: "employee", PositionID: position.ID, Status: "active"}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	admin := models.User{Username: "boss", Password: "x", Role: "admin", PositionID: position.ID, Status: "active"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	req := models.LeaveRequest{
		UserID:      employee.ID,
		LeaveTypeID: sick.ID,
		StartDate:   day,
		EndDate:     day,
		Status:      models.LeaveStatusPending,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("create leave request: %v", err)
	}
	return &admin, &req
}

func newDecisionApp(ctrl *LeaveRequestController, admin *models.User) *fiber.App {
	app := fiber.New()
	app.Patch("/leave-requests/:id/approve", func(c *fiber.Ctx) error {
		c.Locals("user", admin)
		return ctrl.ApproveLeaveRequest(c)
	})
	app.Patch("/leave-requests/:id/reject", func(c *fiber.Ctx) error {
		c.Locals("user", admin)
		return ctrl.RejectLeaveRequest(c)
	})
	return app
}

func TestRejectLeavesApprovalFieldsEmpty(t *testing.T) {
	db := setupControllerTest(t)
	admin, req := seedPendingRequest(t, db)

	ctrl := &LeaveRequestController{}
	app := newDecisionApp(ctrl, admin)

	body := bytes.NewBufferString(`{"reason":"เอกสารไม่ครบ"}`)
	httpReq := httptest.NewRequest("PATCH", fmt.Sprintf("/leave-requests/%d/reject", req.ID), body)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(httpReq)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var saved models.LeaveRequest
	if err := db.First(&saved, req.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if saved.Status != models.LeaveStatusRejected {
		t.Fatalf("expected rejected, got %q", saved.Status)
	}
	if saved.ApprovedBy != nil || saved.ApprovedAt != nil {
		t.Fatal("rejection must not record approver fields")
	}
	if saved.RejectReason == "" {
		t.Fatal("expected reject reason to be stored")
	}
}

func TestApproveRecordsApproverAndUsage(t *testing.T) {
	db := setupControllerTest(t)
	admin, req := seedPendingRequest(t, db)

	ctrl := &LeaveRequestController{}
	app := newDecisionApp(ctrl, admin)

	httpReq := httptest.NewRequest("PATCH", fmt.Sprintf("/leave-requests/%d/approve", req.ID), nil)
	resp, err := app.Test(httpReq)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var saved models.LeaveRequest
	if err := db.First(&saved, req.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if saved.Status != models.LeaveStatusApproved {
		t.Fatalf("expected approved, got %q", saved.Status)
	}
	if saved.ApprovedBy == nil || *saved.ApprovedBy != admin.ID {
		t.Fatal("expected approver to be recorded")
	}
	if saved.ApprovedAt == nil {
		t.Fatal("expected approval time to be recorded")
	}

	var used models.LeaveUsed
	err = db.Where("user_id = ? AND leave_type_id = ?", saved.UserID, saved.LeaveTypeID).First(&used).Error
	if err != nil {
		t.Fatalf("load usage cache: %v", err)
	}
	if used.Days != 1 {
		t.Fatalf("expected 1 used day, got %d", used.Days)
	}
}

func TestIsBackdated(t *testing.T) {
	setupControllerTest(t)

	tests := []struct {
		name  string
		start string
		now   time.Time
		want  bool
	}{
		{
			name:  "same local day before 07:00 Bangkok",
			start: "2024-06-15",
			// 23:30 UTC on the 14th is already the 15th in Bangkok
			now:  time.Date(2024, time.June, 14, 23, 30, 0, 0, time.UTC),
			want: false,
		},
		{
			name:  "late UTC evening rolls the local date forward",
			start: "2024-06-15",
			// 17:30 UTC on the 15th is 00:30 on the 16th in Bangkok
			now:  time.Date(2024, time.June, 15, 17, 30, 0, 0, time.UTC),
			want: true,
		},
		{
			name:  "yesterday is backdated",
			start: "2024-06-14",
			now:   time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "future date is not backdated",
			start: "2024-06-20",
			now:   time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBackdated(tt.start, tt.now); got != tt.want {
				t.Errorf("isBackdated(%q, %v) = %v, want %v", tt.start, tt.now, got, tt.want)
			}
		})
	}
}

package leavecalc

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leavehub_go/config"
	"leavehub_go/models"
)

func testConfig() config.BusinessConfig {
	return config.BusinessConfig{
		WorkingHoursPerDay: 9,
		WorkingStartHour:   9,
		WorkingEndHour:     18,
		MaxLeaveDays:       30,
		EmergencyLeaveType: "Emergency",
	}
}

func newTestService(t *testing.T) *Service {
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
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	svc := New(db, testConfig())
	// Pin the clock so year attribution is stable
	svc.now = func() time.Time {
		return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

// seedUser creates a position (quota per the map) and a user in it.
func seedUser(t *testing.T, svc *Service, quotas map[uint]int) *models.User {
	t.Helper()
	position := models.Position{NameTh: "พนักงาน", NameEn: "Staff", NewYearQuota: 0, Active: true}
	mustCreate(t, svc.db, &position)

	for typeID, days := range quotas {
		mustCreate(t, svc.db, &models.LeaveQuota{
			PositionID:  position.ID,
			LeaveTypeID: typeID,
			Quota:       days,
		})
	}

	user := models.User{
		Username:   fmt.Sprintf("user-%d", time.Now().UnixNano()),
		Password:   "x",
		Role:       "employee",
		PositionID: position.ID,
		Status:     "active",
	}
	mustCreate(t, svc.db, &user)
	return &user
}

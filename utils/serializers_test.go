package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leavehub_go/models"
)

func TestToLeaveTypeShortMarksDeleted(t *testing.T) {
	tests := []struct {
		name      string
		lt        models.LeaveType
		expNameEn string
		expFlag   bool
	}{
		{
			name:      "active type untouched",
			lt:        models.LeaveType{NameTh: "ลาป่วย", NameEn: "Sick Leave", Active: true},
			expNameEn: "Sick Leave",
		},
		{
			name: "soft deleted gets prefix",
			lt: models.LeaveType{
				BaseModel: models.BaseModel{DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true}},
				NameTh:    "ลาพักร้อน",
				NameEn:    "Vacation Leave",
				Active:    true,
			},
			expNameEn: DeletedLabelPrefix + "Vacation Leave",
			expFlag:   true,
		},
		{
			name:      "deactivated gets prefix",
			lt:        models.LeaveType{NameTh: "ลากิจ", NameEn: "Personal Leave", Active: false},
			expNameEn: DeletedLabelPrefix + "Personal Leave",
			expFlag:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLeaveTypeShort(tt.lt)
			if got.NameEn != tt.expNameEn {
				t.Errorf("NameEn = %q, want %q", got.NameEn, tt.expNameEn)
			}
			if got.Deleted != tt.expFlag {
				t.Errorf("Deleted = %v, want %v", got.Deleted, tt.expFlag)
			}
		})
	}
}

func TestPrefersThai(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "no header defaults to thai", header: "", want: true},
		{name: "thai first", header: "th-TH,th;q=0.9,en;q=0.8", want: true},
		{name: "english first", header: "en-US,en;q=0.9,th;q=0.8", want: false},
		{name: "english only", header: "en-US", want: false},
		{name: "thai only", header: "th", want: true},
	}

	app := fiber.New()
	var got bool
	app.Get("/", func(c *fiber.Ctx) error {
		got = PrefersThai(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			if _, err := app.Test(req); err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("PrefersThai(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

package services

import (
	"time"

	"gorm.io/gorm"

	"leavehub_go/database"
	"leavehub_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// pendingReminderAge คือระยะเวลาที่คำขอลาค้างก่อนจะแจ้งเตือน admin
const pendingReminderAge = 24 * time.Hour

// ReminderScheduler จัดการงานตามเวลา เช่น แจ้งเตือนคำขอค้างและดูแล log
type ReminderScheduler struct {
	db       *gorm.DB
	cron     *cron.Cron
	notifier *LeaveNotifier
	archive  *LogArchiveService
}

// NewReminderScheduler สร้าง scheduler ใหม่
func NewReminderScheduler(notifier *LeaveNotifier, archive *LogArchiveService) *ReminderScheduler {
	return &ReminderScheduler{
		db:       database.DB,
		cron:     cron.New(),
		notifier: notifier,
		archive:  archive,
	}
}

// Start ลงทะเบียนงานและเริ่ม cron
func (rs *ReminderScheduler) Start() error {
	// แจ้งเตือนคำขอค้างทุกวัน 09:00
	if _, err := rs.cron.AddFunc("0 9 * * *", rs.CheckStalePendingRequests); err != nil {
		return err
	}

	// ดูแล log ทุกชั่วโมง
	if _, err := rs.cron.AddFunc("@hourly", rs.runLogMaintenance); err != nil {
		return err
	}

	rs.cron.Start()
	logrus.Info("Reminder scheduler started")
	return nil
}

// Stop หยุด cron และรอ job ที่กำลังทำงานอยู่
func (rs *ReminderScheduler) Stop() {
	ctx := rs.cron.Stop()
	<-ctx.Done()
}

// CheckStalePendingRequests หาคำขอลาที่ค้างเกินกำหนดแล้วแจ้ง admin
func (rs *ReminderScheduler) CheckStalePendingRequests() {
	cutoff := time.Now().Add(-pendingReminderAge)

	var pending []models.LeaveRequest
	err := rs.db.Where("status = ? AND created_at < ?", models.LeaveStatusPending, cutoff).
		Find(&pending).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to query stale pending leave requests")
		return
	}

	if len(pending) == 0 {
		return
	}

	logrus.Infof("Found %d stale pending leave requests", len(pending))
	rs.notifier.NotifyPendingReminder(pending, pendingReminderAge)
}

func (rs *ReminderScheduler) runLogMaintenance() {
	if rs.archive == nil {
		return
	}
	if err := rs.archive.FlushCachedLogsToDatabase(); err != nil {
		logrus.WithError(err).Warn("FlushCachedLogsToDatabase failed")
	}
	if err := rs.archive.ArchiveOldLogs(30); err != nil {
		logrus.WithError(err).Warn("ArchiveOldLogs failed")
	}
}

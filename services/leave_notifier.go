package services

import (
	"fmt"
	"log"
	"time"

	"leavehub_go/database"
	"leavehub_go/models"
	"leavehub_go/services/notifications"

	"gorm.io/gorm"
)

// LeaveNotifier ส่งการแจ้งเตือนเกี่ยวกับการลา ทั้ง in-app และ LINE
type LeaveNotifier struct {
	db    *gorm.DB
	notif *notifications.Service
	line  *LineMessagingService
}

func NewLeaveNotifier(line *LineMessagingService) *LeaveNotifier {
	return &LeaveNotifier{
		db:    database.GetDB(),
		notif: notifications.NewService(),
		line:  line,
	}
}

func displayName(u *models.User) string {
	if u.FirstNameTh != "" || u.LastNameTh != "" {
		return fmt.Sprintf("%s %s", u.FirstNameTh, u.LastNameTh)
	}
	if u.FirstNameEn != "" || u.LastNameEn != "" {
		return fmt.Sprintf("%s %s", u.FirstNameEn, u.LastNameEn)
	}
	return u.Username
}

func dateSpan(req *models.LeaveRequest) string {
	const layout = "02/01/2006"
	start := req.StartDate.Format(layout)
	if req.EndDate.IsZero() || req.EndDate.Equal(req.StartDate) {
		return start
	}
	return fmt.Sprintf("%s - %s", start, req.EndDate.Format(layout))
}

// NotifySubmitted แจ้ง admin ทุกคนเมื่อมีคำขอลาใหม่
func (n *LeaveNotifier) NotifySubmitted(req *models.LeaveRequest, user *models.User, leaveType *models.LeaveType) {
	var admins []models.User
	if err := n.db.Where("role IN ? AND status = ?", []string{"admin", "superadmin"}, "active").Find(&admins).Error; err != nil {
		log.Printf("[leave-notify] load admins failed: %v", err)
		return
	}
	if len(admins) == 0 {
		return
	}

	ids := make([]uint, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}

	name := displayName(user)
	payload := notifications.QueuedWithData(
		"New leave request",
		"คำขอลาใหม่",
		fmt.Sprintf("%s requested %s leave (%s)", name, leaveType.NameEn, dateSpan(req)),
		fmt.Sprintf("%s ขอลา%s (%s)", name, leaveType.NameTh, dateSpan(req)),
		"info",
		map[string]interface{}{"leave_request_id": req.ID},
		"normal", "popup",
	)
	if err := n.notif.EnqueueOrCreate(ids, payload); err != nil {
		log.Printf("[leave-notify] notify admins failed: %v", err)
	}

	// LINE push ถึง admin ที่ผูกบัญชีไว้
	if n.line.Enabled() {
		msg := fmt.Sprintf("📥 คำขอลาใหม่\n%s ขอลา%s\nวันที่: %s\nเหตุผล: %s", name, leaveType.NameTh, dateSpan(req), req.Reason)
		for _, a := range admins {
			if a.LineID == "" {
				continue
			}
			if err := n.line.PushMessage(a.LineID, msg); err != nil {
				log.Printf("[leave-notify] LINE push to admin %d failed: %v", a.ID, err)
			}
		}
	}
}

// NotifyDecision แจ้งผู้ขอลาเมื่อคำขอได้รับการอนุมัติหรือปฏิเสธ
func (n *LeaveNotifier) NotifyDecision(req *models.LeaveRequest, user *models.User, leaveType *models.LeaveType) {
	approved := req.Status == models.LeaveStatusApproved

	titleEn, titleTh := "Leave request approved", "คำขอลาได้รับการอนุมัติ"
	msgEn := fmt.Sprintf("Your %s leave (%s) has been approved", leaveType.NameEn, dateSpan(req))
	msgTh := fmt.Sprintf("คำขอลา%sของคุณ (%s) ได้รับการอนุมัติแล้ว", leaveType.NameTh, dateSpan(req))
	typ := "success"
	if !approved {
		titleEn, titleTh = "Leave request rejected", "คำขอลาถูกปฏิเสธ"
		msgEn = fmt.Sprintf("Your %s leave (%s) was rejected", leaveType.NameEn, dateSpan(req))
		msgTh = fmt.Sprintf("คำขอลา%sของคุณ (%s) ถูกปฏิเสธ", leaveType.NameTh, dateSpan(req))
		if req.RejectReason != "" {
			msgEn = fmt.Sprintf("%s: %s", msgEn, req.RejectReason)
			msgTh = fmt.Sprintf("%s เหตุผล: %s", msgTh, req.RejectReason)
		}
		typ = "warning"
	}

	payload := notifications.QueuedWithData(
		titleEn, titleTh, msgEn, msgTh, typ,
		map[string]interface{}{"leave_request_id": req.ID, "status": req.Status},
		"normal", "popup",
	)
	if err := n.notif.EnqueueOrCreate([]uint{user.ID}, payload); err != nil {
		log.Printf("[leave-notify] notify user %d failed: %v", user.ID, err)
	}

	if n.line.Enabled() && user.LineID != "" {
		icon := "✅"
		if !approved {
			icon = "❌"
		}
		msg := fmt.Sprintf("%s %s\n%s", icon, titleTh, msgTh)
		if err := n.line.PushMessage(user.LineID, msg); err != nil {
			log.Printf("[leave-notify] LINE push to user %d failed: %v", user.ID, err)
		}
	}
}

// NotifyPendingReminder แจ้งเตือน admin เมื่อมีคำขอค้างนานเกินกำหนด
func (n *LeaveNotifier) NotifyPendingReminder(pending []models.LeaveRequest, olderThan time.Duration) {
	if len(pending) == 0 {
		return
	}
	var admins []models.User
	if err := n.db.Where("role IN ? AND status = ?", []string{"admin", "superadmin"}, "active").Find(&admins).Error; err != nil {
		log.Printf("[leave-notify] load admins failed: %v", err)
		return
	}
	if len(admins) == 0 {
		return
	}
	ids := make([]uint, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}

	hours := int(olderThan.Hours())
	payload := notifications.Queued(
		"Pending leave requests",
		"คำขอลาที่รอดำเนินการ",
		fmt.Sprintf("%d leave request(s) have been pending for more than %d hours", len(pending), hours),
		fmt.Sprintf("มีคำขอลา %d รายการรอดำเนินการนานกว่า %d ชั่วโมง", len(pending), hours),
		"warning",
		"normal",
	)
	if err := n.notif.EnqueueOrCreate(ids, payload); err != nil {
		log.Printf("[leave-notify] pending reminder failed: %v", err)
	}
}

package utils

import (
	"time"

	"leavehub_go/models"
)

// DeletedLabelPrefix marks removed reference data in display names.
// Applied here at the boundary, never stored.
const DeletedLabelPrefix = "[DELETED] "

// Compact representations used across APIs
type UserShort struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	FirstNameTh string `json:"first_name_th,omitempty"`
	LastNameTh  string `json:"last_name_th,omitempty"`
	FirstNameEn string `json:"first_name_en,omitempty"`
	LastNameEn  string `json:"last_name_en,omitempty"`
}

type PositionShort struct {
	ID     uint   `json:"id"`
	NameTh string `json:"name_th,omitempty"`
	NameEn string `json:"name_en,omitempty"`
}

type LeaveTypeShort struct {
	ID      uint   `json:"id"`
	NameTh  string `json:"name_th"`
	NameEn  string `json:"name_en"`
	Deleted bool   `json:"deleted,omitempty"`
}

type LeaveRequestDTO struct {
	ID           uint           `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	User         UserShort      `json:"user"`
	LeaveType    LeaveTypeShort `json:"leave_type"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	StartTime    *string        `json:"start_time,omitempty"`
	EndTime      *string        `json:"end_time,omitempty"`
	Days         int            `json:"days"`
	Hours        float64        `json:"hours"`
	Reason       string         `json:"reason"`
	Attachment   string         `json:"attachment,omitempty"`
	Status       string         `json:"status"`
	Backdated    bool           `json:"backdated"`
	ApprovedBy   *uint          `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	RejectReason string         `json:"reject_reason,omitempty"`
}

// ToUserShort maps a user to its compact form.
func ToUserShort(u models.User) UserShort {
	return UserShort{
		ID:          u.ID,
		Username:    u.Username,
		FirstNameTh: u.FirstNameTh,
		LastNameTh:  u.LastNameTh,
		FirstNameEn: u.FirstNameEn,
		LastNameEn:  u.LastNameEn,
	}
}

// ToLeaveTypeShort maps a leave type, prefixing the display names when
// the type has been soft-deleted or deactivated so historical rows
// stay readable.
func ToLeaveTypeShort(lt models.LeaveType) LeaveTypeShort {
	deleted := lt.DeletedAt.Valid || !lt.Active
	nameTh := lt.NameTh
	nameEn := lt.NameEn
	if deleted {
		nameTh = DeletedLabelPrefix + nameTh
		nameEn = DeletedLabelPrefix + nameEn
	}
	return LeaveTypeShort{ID: lt.ID, NameTh: nameTh, NameEn: nameEn, Deleted: deleted}
}

// ToLeaveRequestDTO maps a request with its computed duration.
// Assumes the caller preloaded User and LeaveType (Unscoped).
func ToLeaveRequestDTO(r models.LeaveRequest, days int, hours float64) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		User:         ToUserShort(r.User),
		LeaveType:    ToLeaveTypeShort(r.LeaveType),
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Days:         days,
		Hours:        hours,
		Reason:       r.Reason,
		Attachment:   r.Attachment,
		Status:       r.Status,
		Backdated:    r.Backdated,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		RejectReason: r.RejectReason,
	}
}

type NotificationDTO struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	TitleTh   string     `json:"title_th,omitempty"`
	Message   string     `json:"message"`
	MessageTh string     `json:"message_th,omitempty"`
	Type      string     `json:"type"`
	Data      models.JSON `json:"data,omitempty"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		TitleTh:   n.TitleTh,
		Message:   n.Message,
		MessageTh: n.MessageTh,
		Type:      n.Type,
		Data:      n.Data,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
	}
}

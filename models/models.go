package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Leave request statuses
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// Position model. NewYearQuota controls annual usage reset:
// 0 = usage is cleared by the new-year reset, 1 = carried over.
type Position struct {
	BaseModel
	NameTh       string `json:"name_th" gorm:"size:255;not null"`
	NameEn       string `json:"name_en" gorm:"size:255;not null"`
	NewYearQuota int    `json:"new_year_quota" gorm:"default:0"`
	Active       bool   `json:"active" gorm:"default:true"`

	// Relationships
	Users  []User       `json:"users,omitempty" gorm:"foreignKey:PositionID"`
	Quotas []LeaveQuota `json:"quotas,omitempty" gorm:"foreignKey:PositionID"`
}

// User model
type User struct {
	BaseModel
	Username    string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password    string `json:"-" gorm:"size:255;not null"`
	Email       string `json:"email" gorm:"size:255"`
	Phone       string `json:"phone" gorm:"size:20"`
	LineID      string `json:"line_id" gorm:"size:100"`
	FirstNameTh string `json:"first_name_th" gorm:"size:100"`
	LastNameTh  string `json:"last_name_th" gorm:"size:100"`
	FirstNameEn string `json:"first_name_en" gorm:"size:100"`
	LastNameEn  string `json:"last_name_en" gorm:"size:100"`
	Role        string `json:"role" gorm:"size:50;not null;default:'employee'"` // employee, admin, superadmin
	PositionID  uint   `json:"position_id" gorm:"not null"`
	Status      string `json:"status" gorm:"size:50;not null;default:'active'"` // active, inactive, suspended
	Avatar      string `json:"avatar" gorm:"size:500"`

	// Relationships
	Position Position `json:"position,omitempty" gorm:"foreignKey:PositionID"`
}

// LeaveType is reference data. Soft-deletable so historical requests
// keep a display name; Active gates new submissions.
type LeaveType struct {
	BaseModel
	NameTh string `json:"name_th" gorm:"size:255;not null"`
	NameEn string `json:"name_en" gorm:"size:255"`
	Active bool   `json:"active" gorm:"default:true"`
}

// LeaveRequest model. StartTime/EndTime ("HH:MM") mark an hour-based
// request; date-only requests span whole days inclusive.
type LeaveRequest struct {
	BaseModel
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	LeaveTypeID  uint       `json:"leave_type_id" gorm:"not null;index"`
	StartDate    time.Time  `json:"start_date" gorm:"not null"`
	EndDate      time.Time  `json:"end_date" gorm:"not null"`
	StartTime    *string    `json:"start_time,omitempty" gorm:"size:5"`
	EndTime      *string    `json:"end_time,omitempty" gorm:"size:5"`
	Reason       string     `json:"reason" gorm:"type:text"`
	Attachment   string     `json:"attachment" gorm:"size:500"`
	Status       string     `json:"status" gorm:"size:50;not null;default:'pending';index"` // pending, approved, rejected
	Backdated    bool       `json:"backdated" gorm:"default:false"`
	ApprovedBy   *uint      `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	RejectReason string     `json:"reject_reason" gorm:"size:500"`

	// Relationships
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	LeaveType LeaveType `json:"leave_type,omitempty" gorm:"foreignKey:LeaveTypeID"`
	Approver  *User     `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
}

// LeaveQuota holds the allotted days per (position, leave type) pair.
// At most one row per pair.
type LeaveQuota struct {
	BaseModel
	PositionID  uint `json:"position_id" gorm:"not null;uniqueIndex:idx_position_leave_type"`
	LeaveTypeID uint `json:"leave_type_id" gorm:"not null;uniqueIndex:idx_position_leave_type"`
	Quota       int  `json:"quota" gorm:"not null;default:0"` // days per year

	// Relationships
	Position  Position  `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	LeaveType LeaveType `json:"leave_type,omitempty" gorm:"foreignKey:LeaveTypeID"`
}

// LeaveUsed is the denormalized running total per user/leave type.
// Read paths recompute from approved requests; this row backs the
// annual reset and cheap counters.
type LeaveUsed struct {
	BaseModel
	UserID      uint    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_leave_type"`
	LeaveTypeID uint    `json:"leave_type_id" gorm:"not null;uniqueIndex:idx_user_leave_type"`
	Days        int     `json:"days" gorm:"not null;default:0"`
	Hours       float64 `json:"hours" gorm:"not null;default:0"`

	// Relationships
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	LeaveType LeaveType `json:"leave_type,omitempty" gorm:"foreignKey:LeaveTypeID"`
}

// Announcement model
type Announcement struct {
	BaseModel
	TitleTh   string `json:"title_th" gorm:"size:255;not null"`
	TitleEn   string `json:"title_en" gorm:"size:255"`
	BodyTh    string `json:"body_th" gorm:"type:text"`
	BodyEn    string `json:"body_en" gorm:"type:text"`
	Active    bool   `json:"active" gorm:"default:true"`
	CreatedBy uint   `json:"created_by"`

	// Relationships
	Author User `json:"author,omitempty" gorm:"foreignKey:CreatedBy"`
}

// Holiday model for the company calendar
type Holiday struct {
	BaseModel
	Date   time.Time `json:"date" gorm:"not null;index"`
	NameTh string    `json:"name_th" gorm:"size:255;not null"`
	NameEn string    `json:"name_en" gorm:"size:255"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID    uint       `json:"user_id" gorm:"not null"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	TitleTh   string     `json:"title_th" gorm:"size:255"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	MessageTh string     `json:"message_th" gorm:"type:text"`
	Type      string     `json:"type" gorm:"size:50;not null"` // info, warning, error, success
	Channels  JSON       `json:"channels" gorm:"type:json"`
	Data      JSON       `json:"data" gorm:"type:json"`
	Read      bool       `json:"read" gorm:"default:false"`
	ReadAt    *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending'"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}

package leavecalc

// Error is a validation failure with a bilingual message. Controllers
// pick the language from the request's Accept-Language header.
type Error struct {
	Code      string
	MessageEn string
	MessageTh string
}

func (e *Error) Error() string {
	return e.MessageEn
}

// Message returns the Thai message when th is true.
func (e *Error) Message(th bool) string {
	if th {
		return e.MessageTh
	}
	return e.MessageEn
}

var (
	ErrQuotaNotAssigned = &Error{
		Code:      "quota_not_assigned",
		MessageEn: "No leave quota assigned for this position and leave type",
		MessageTh: "ไม่พบโควต้าการลาสำหรับตำแหน่งและประเภทการลานี้",
	}
	ErrQuotaExceeded = &Error{
		Code:      "quota_exceeded",
		MessageEn: "Leave quota exceeded",
		MessageTh: "ใช้สิทธิ์ลาเกินโควต้าที่กำหนด",
	}
	ErrLeaveTypeInactive = &Error{
		Code:      "leave_type_inactive",
		MessageEn: "This leave type is no longer available",
		MessageTh: "ประเภทการลานี้ถูกปิดการใช้งานแล้ว",
	}
	ErrResetWindow = &Error{
		Code:      "reset_window",
		MessageEn: "Quota reset is only allowed on January 1st (use force to override)",
		MessageTh: "รีเซ็ตโควต้าได้เฉพาะวันที่ 1 มกราคม (ใช้ force เพื่อข้าม)",
	}
	ErrBadResetStrategy = &Error{
		Code:      "bad_reset_strategy",
		MessageEn: "Reset strategy must be \"zero\" or \"delete\"",
		MessageTh: "strategy ต้องเป็น \"zero\" หรือ \"delete\"",
	}
	ErrNoResetTargets = &Error{
		Code:      "no_reset_targets",
		MessageEn: "No users matched the reset criteria",
		MessageTh: "ไม่พบผู้ใช้ตามเงื่อนไขการรีเซ็ต",
	}
	ErrMaxLeaveDays = &Error{
		Code:      "max_leave_days",
		MessageEn: "Requested leave exceeds the maximum days per request",
		MessageTh: "จำนวนวันลาเกินจำนวนวันสูงสุดต่อคำขอ",
	}
)

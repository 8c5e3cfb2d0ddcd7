package controllers

import (
	"time"

	"leavehub_go/config"
	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"
	"leavehub_go/services"
	"leavehub_go/services/leavecalc"
	"leavehub_go/storage"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeaveRequestController struct {
	Notifier *services.LeaveNotifier
	Storage  *storage.StorageService
}

// LeaveRequestInput is the submission body. Dates use YYYY-MM-DD,
// times use HH:MM.
type LeaveRequestInput struct {
	LeaveTypeID uint    `json:"leave_type_id" form:"leave_type_id" validate:"required"`
	StartDate   string  `json:"start_date" form:"start_date" validate:"required"`
	EndDate     string  `json:"end_date" form:"end_date"`
	StartTime   *string `json:"start_time" form:"start_time"`
	EndTime     *string `json:"end_time" form:"end_time"`
	Reason      string  `json:"reason" form:"reason"`
}

const dateLayout = "2006-01-02"

// isBackdated compares the submitted start date against today's
// calendar date in the company timezone. Dates are YYYY-MM-DD, so
// string order is date order.
func isBackdated(startDate string, now time.Time) bool {
	return startDate < now.In(config.AppConfig.Business.Location()).Format(dateLayout)
}

// CreateLeaveRequest submits a leave request for the current user
func (lc *LeaveRequestController) CreateLeaveRequest(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var input LeaveRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	startDate, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	endDate := startDate
	if input.EndDate != "" {
		endDate, err = time.Parse(dateLayout, input.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be YYYY-MM-DD"})
		}
	}
	if endDate.Before(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}

	req := models.LeaveRequest{
		UserID:      user.ID,
		LeaveTypeID: input.LeaveTypeID,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Reason:      input.Reason,
		Status:      models.LeaveStatusPending,
	}

	// ลาย้อนหลังต้องติดธงให้ admin เห็น
	req.Backdated = isBackdated(input.StartDate, time.Now())

	svc := calc()
	duration := svc.Duration(&req)
	if err := svc.CheckSubmission(user, input.LeaveTypeID, duration); err != nil {
		return leaveError(c, err)
	}

	// Optional attachment (multipart only)
	if file, ferr := c.FormFile("attachment"); ferr == nil && file != nil && lc.Storage != nil {
		url, uerr := lc.Storage.UploadAttachment(file, "leave-attachments", user.ID)
		if uerr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": uerr.Error()})
		}
		req.Attachment = url
	}

	if err := database.DB.Create(&req).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create leave request"})
	}

	database.DB.Preload("User").Preload("LeaveType").First(&req, req.ID)

	middleware.LogActivity(c, "CREATE", "leave_requests", req.ID, fiber.Map{
		"leave_type_id": req.LeaveTypeID,
		"start_date":    input.StartDate,
		"backdated":     req.Backdated,
	})

	var leaveType models.LeaveType
	database.DB.Unscoped().First(&leaveType, req.LeaveTypeID)
	if lc.Notifier != nil {
		go lc.Notifier.NotifySubmitted(&req, user, &leaveType)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Leave request submitted",
		"leave_request": utils.ToLeaveRequestDTO(req, duration.Days, duration.Hours),
	})
}

// GetLeaveRequests lists requests with filters (admin view)
func (lc *LeaveRequestController) GetLeaveRequests(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)

	query := database.DB.Model(&models.LeaveRequest{}).
		Preload("User").
		Preload("LeaveType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if typeID := c.QueryInt("leave_type_id", 0); typeID > 0 {
		query = query.Where("leave_type_id = ?", typeID)
	}
	if userID := c.QueryInt("user_id", 0); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	// date window overlap: request range intersects [from, to]
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(dateLayout, from); err == nil {
			query = query.Where("end_date >= ?", t)
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(dateLayout, to); err == nil {
			query = query.Where("start_date <= ?", t)
		}
	}
	if search := c.Query("search"); search != "" {
		like := "%" + utils.SanitizeString(search) + "%"
		query = query.Where(
			"reason LIKE ? OR user_id IN (?)",
			like,
			database.DB.Model(&models.User{}).Select("id").
				Where("username LIKE ? OR first_name_th LIKE ? OR last_name_th LIKE ? OR first_name_en LIKE ? OR last_name_en LIKE ?",
					like, like, like, like, like),
		)
	}

	var total int64
	query.Count(&total)

	var requests []models.LeaveRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave requests"})
	}

	svc := calc()
	out := make([]utils.LeaveRequestDTO, 0, len(requests))
	for i := range requests {
		d := svc.Duration(&requests[i])
		out = append(out, utils.ToLeaveRequestDTO(requests[i], d.Days, d.Hours))
	}

	return c.JSON(fiber.Map{
		"leave_requests": out,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetMyLeaveRequests lists the current user's requests
func (lc *LeaveRequestController) GetMyLeaveRequests(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var requests []models.LeaveRequest
	query := database.DB.
		Preload("User").
		Preload("LeaveType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave requests"})
	}

	svc := calc()
	out := make([]utils.LeaveRequestDTO, 0, len(requests))
	for i := range requests {
		d := svc.Duration(&requests[i])
		out = append(out, utils.ToLeaveRequestDTO(requests[i], d.Days, d.Hours))
	}

	return c.JSON(fiber.Map{"leave_requests": out})
}

// GetLeaveRequest returns one request. Employees can only see their own.
func (lc *LeaveRequestController) GetLeaveRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var req models.LeaveRequest
	err = database.DB.
		Preload("User").
		Preload("LeaveType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&req, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave request not found"})
	}

	if user.Role == "employee" && req.UserID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	d := calc().Duration(&req)
	return c.JSON(fiber.Map{"leave_request": utils.ToLeaveRequestDTO(req, d.Days, d.Hours)})
}

// ApproveLeaveRequest approves a pending request (admin only)
func (lc *LeaveRequestController) ApproveLeaveRequest(c *fiber.Ctx) error {
	return lc.decide(c, true)
}

// RejectLeaveRequest rejects a pending request (admin only)
func (lc *LeaveRequestController) RejectLeaveRequest(c *fiber.Ctx) error {
	return lc.decide(c, false)
}

func (lc *LeaveRequestController) decide(c *fiber.Ctx, approve bool) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	admin, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if !approve {
		if err := c.BodyParser(&body); err != nil || body.Reason == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reject reason is required"})
		}
	}

	var req models.LeaveRequest
	if err := database.DB.First(&req, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave request not found"})
	}

	if req.Status != models.LeaveStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Leave request has already been processed"})
	}

	svc := calc()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if approve {
			now := time.Now()
			req.Status = models.LeaveStatusApproved
			req.ApprovedBy = &admin.ID
			req.ApprovedAt = &now
		} else {
			req.Status = models.LeaveStatusRejected
			req.RejectReason = body.Reason
		}
		if err := tx.Save(&req).Error; err != nil {
			return err
		}
		if approve {
			// เพิ่มยอดใช้สิทธิ์สะสมในธุรกรรมเดียวกับการอนุมัติ
			return leavecalc.New(tx, config.AppConfig.Business).RecordApproved(&req)
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update leave request"})
	}

	action := "APPROVE"
	if !approve {
		action = "REJECT"
	}
	middleware.LogActivity(c, action, "leave_requests", req.ID, fiber.Map{
		"approved_by": admin.Username,
	})

	var requester models.User
	var leaveType models.LeaveType
	database.DB.First(&requester, req.UserID)
	database.DB.Unscoped().First(&leaveType, req.LeaveTypeID)
	if lc.Notifier != nil {
		go lc.Notifier.NotifyDecision(&req, &requester, &leaveType)
	}

	d := svc.Duration(&req)
	database.DB.Preload("User").
		Preload("LeaveType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&req, req.ID)
	return c.JSON(fiber.Map{
		"message":       "Leave request updated",
		"leave_request": utils.ToLeaveRequestDTO(req, d.Days, d.Hours),
	})
}

// DeleteLeaveRequest removes a request. Owners can delete their own
// pending requests; admins can delete any. Usage is recomputed from
// requests, so deleting an approved one frees the quota immediately.
func (lc *LeaveRequestController) DeleteLeaveRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var req models.LeaveRequest
	if err := database.DB.First(&req, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave request not found"})
	}

	isAdmin := user.Role == "admin" || user.Role == "superadmin"
	if !isAdmin {
		if req.UserID != user.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
		if req.Status != models.LeaveStatusPending {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only pending requests can be deleted"})
		}
	}

	if err := database.DB.Delete(&req).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete leave request"})
	}

	middleware.LogActivity(c, "DELETE", "leave_requests", req.ID, fiber.Map{
		"status": req.Status,
	})

	return c.JSON(fiber.Map{"message": "Leave request deleted"})
}

package controllers

import (
	"time"

	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LeaveQuotaController struct{}

// GetMyQuota returns the current user's balance for every leave type
// assigned to their position
func (lq *LeaveQuotaController) GetMyQuota(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	year := c.QueryInt("year", time.Now().Year())
	statuses, err := calc().QuotaStatusAll(user.ID, year)
	if err != nil {
		return leaveError(c, err)
	}

	for i := range statuses {
		if statuses[i].Deleted {
			// ติดป้ายชื่อประเภทที่ถูกลบที่ชั้นแสดงผลเท่านั้น
			statuses[i].LeaveTypeTh = utils.DeletedLabelPrefix + statuses[i].LeaveTypeTh
			statuses[i].LeaveTypeEn = utils.DeletedLabelPrefix + statuses[i].LeaveTypeEn
		}
	}

	return c.JSON(fiber.Map{"year": year, "quotas": statuses})
}

// GetQuotas lists quota rows, optionally filtered by position (admin)
func (lq *LeaveQuotaController) GetQuotas(c *fiber.Ctx) error {
	query := database.DB.Preload("Position").Preload("LeaveType")
	if positionID := c.QueryInt("position_id", 0); positionID > 0 {
		query = query.Where("position_id = ?", positionID)
	}

	var quotas []models.LeaveQuota
	if err := query.Order("position_id, leave_type_id").Find(&quotas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quotas"})
	}

	return c.JSON(fiber.Map{"quotas": quotas})
}

// UpsertQuota creates or updates the quota for a (position, leave type) pair
func (lq *LeaveQuotaController) UpsertQuota(c *fiber.Ctx) error {
	var req struct {
		PositionID  uint `json:"position_id" validate:"required"`
		LeaveTypeID uint `json:"leave_type_id" validate:"required"`
		Quota       int  `json:"quota"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PositionID == 0 || req.LeaveTypeID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "position_id and leave_type_id are required"})
	}
	if req.Quota < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quota must not be negative"})
	}

	var position models.Position
	if err := database.DB.First(&position, req.PositionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Position not found"})
	}
	var leaveType models.LeaveType
	if err := database.DB.First(&leaveType, req.LeaveTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave type not found"})
	}

	var quota models.LeaveQuota
	err := database.DB.Where("position_id = ? AND leave_type_id = ?", req.PositionID, req.LeaveTypeID).
		First(&quota).Error
	if err != nil {
		quota = models.LeaveQuota{PositionID: req.PositionID, LeaveTypeID: req.LeaveTypeID}
	}
	quota.Quota = req.Quota

	if err := database.DB.Save(&quota).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save quota"})
	}

	middleware.LogActivity(c, "UPDATE", "leave_quotas", quota.ID, fiber.Map{
		"position_id":   req.PositionID,
		"leave_type_id": req.LeaveTypeID,
		"quota":         req.Quota,
	})

	return c.JSON(fiber.Map{"message": "Quota saved", "quota": quota})
}

// DeleteQuota removes a quota row (superadmin only)
func (lq *LeaveQuotaController) DeleteQuota(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quota ID"})
	}

	var quota models.LeaveQuota
	if err := database.DB.First(&quota, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quota not found"})
	}

	if err := database.DB.Delete(&quota).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quota"})
	}

	middleware.LogActivity(c, "DELETE", "leave_quotas", quota.ID, nil)

	return c.JSON(fiber.Map{"message": "Quota deleted"})
}

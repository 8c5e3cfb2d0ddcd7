package controllers

import (
	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LeaveTypeController struct{}

// GetLeaveTypes lists leave types. include_deleted=true (admin) also
// returns soft-deleted types with marked display names.
func (lt *LeaveTypeController) GetLeaveTypes(c *fiber.Ctx) error {
	includeDeleted := c.Query("include_deleted") == "true"

	query := database.DB.Order("id")
	if includeDeleted {
		query = query.Unscoped()
	}

	var types []models.LeaveType
	if err := query.Find(&types).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave types"})
	}

	out := make([]utils.LeaveTypeShort, 0, len(types))
	for _, t := range types {
		out = append(out, utils.ToLeaveTypeShort(t))
	}

	return c.JSON(fiber.Map{"leave_types": out})
}

// CreateLeaveType creates a new leave type (superadmin only)
func (lt *LeaveTypeController) CreateLeaveType(c *fiber.Ctx) error {
	var req struct {
		NameTh string `json:"name_th" validate:"required"`
		NameEn string `json:"name_en" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.NameTh == "" || req.NameEn == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name_th and name_en are required"})
	}

	var existing models.LeaveType
	if err := database.DB.Where("name_en = ?", req.NameEn).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Leave type already exists"})
	}

	leaveType := models.LeaveType{NameTh: req.NameTh, NameEn: req.NameEn, Active: true}
	if err := database.DB.Create(&leaveType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create leave type"})
	}

	middleware.LogActivity(c, "CREATE", "leave_types", leaveType.ID, fiber.Map{"name_en": leaveType.NameEn})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Leave type created successfully",
		"leave_type": leaveType,
	})
}

// UpdateLeaveType renames or toggles a leave type (superadmin only)
func (lt *LeaveTypeController) UpdateLeaveType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave type ID"})
	}

	var leaveType models.LeaveType
	if err := database.DB.First(&leaveType, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave type not found"})
	}

	var req struct {
		NameTh *string `json:"name_th"`
		NameEn *string `json:"name_en"`
		Active *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.NameTh != nil {
		updates["name_th"] = *req.NameTh
	}
	if req.NameEn != nil {
		updates["name_en"] = *req.NameEn
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&leaveType).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update leave type"})
	}

	middleware.LogActivity(c, "UPDATE", "leave_types", leaveType.ID, updates)

	return c.JSON(fiber.Map{"message": "Leave type updated successfully", "leave_type": leaveType})
}

// DeleteLeaveType soft-deletes a leave type (superadmin only).
// Historical requests keep working; usage views mark the name.
func (lt *LeaveTypeController) DeleteLeaveType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave type ID"})
	}

	var leaveType models.LeaveType
	if err := database.DB.First(&leaveType, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave type not found"})
	}

	if err := database.DB.Delete(&leaveType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete leave type"})
	}

	middleware.LogActivity(c, "DELETE", "leave_types", leaveType.ID, fiber.Map{"name_en": leaveType.NameEn})

	return c.JSON(fiber.Map{"message": "Leave type deleted successfully"})
}

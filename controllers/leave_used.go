package controllers

import (
	"time"

	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LeaveUsedController struct{}

// GetLeaveUsedByUser returns the per-type usage breakdown for one
// user. Employees may only query themselves; admins may query anyone.
// Soft-deleted leave types stay in the list with a marked name.
func (lu *LeaveUsedController) GetLeaveUsedByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	current, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if current.Role == "employee" && current.ID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	year := c.QueryInt("year", time.Now().Year())

	breakdown, err := calc().UsageBreakdown(userID, year)
	if err != nil {
		return leaveError(c, err)
	}

	// ติดป้ายชื่อประเภทที่ถูกลบที่ชั้นแสดงผลเท่านั้น
	out := make([]fiber.Map, 0, len(breakdown))
	for _, tu := range breakdown {
		nameTh, nameEn := tu.NameTh, tu.NameEn
		if tu.Deleted {
			nameTh = utils.DeletedLabelPrefix + nameTh
			nameEn = utils.DeletedLabelPrefix + nameEn
		}
		out = append(out, fiber.Map{
			"leave_type_id": tu.LeaveTypeID,
			"name_th":       nameTh,
			"name_en":       nameEn,
			"deleted":       tu.Deleted,
			"used_days":     tu.UsedDays,
			"used_hours":    tu.UsedHours,
		})
	}

	return c.JSON(fiber.Map{
		"user":       utils.ToUserShort(user),
		"year":       year,
		"leave_used": out,
	})
}

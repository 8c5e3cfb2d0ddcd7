package controllers

import (
	"leavehub_go/middleware"
	"leavehub_go/services/leavecalc"

	"github.com/gofiber/fiber/v2"
)

type LeaveQuotaResetController struct{}

// ResetQuota runs the annual usage reset (superadmin only). With no
// position_id, every position flagged for the new-year reset is
// targeted. Outside January 1st the call fails unless force is set.
func (lr *LeaveQuotaResetController) ResetQuota(c *fiber.Ctx) error {
	var req struct {
		PositionID *uint  `json:"position_id"`
		Force      bool   `json:"force"`
		Strategy   string `json:"strategy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := calc().Reset(leavecalc.ResetParams{
		PositionID: req.PositionID,
		Force:      req.Force,
		Strategy:   req.Strategy,
	})
	if err != nil {
		return leaveError(c, err)
	}

	middleware.LogActivity(c, "RESET", "leave_used", 0, fiber.Map{
		"position_id": req.PositionID,
		"force":       req.Force,
		"strategy":    req.Strategy,
		"users":       result.UsersAffected,
	})

	return c.JSON(fiber.Map{
		"message": "Leave usage reset completed",
		"result":  result,
	})
}

// ResetQuotaByUsers resets usage for an explicit list of users
// (superadmin only)
func (lr *LeaveQuotaResetController) ResetQuotaByUsers(c *fiber.Ctx) error {
	var req struct {
		UserIDs  []uint `json:"user_ids"`
		Force    bool   `json:"force"`
		Strategy string `json:"strategy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.UserIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_ids is required"})
	}

	result, err := calc().Reset(leavecalc.ResetParams{
		UserIDs:  req.UserIDs,
		Force:    req.Force,
		Strategy: req.Strategy,
	})
	if err != nil {
		return leaveError(c, err)
	}

	middleware.LogActivity(c, "RESET", "leave_used", 0, fiber.Map{
		"user_ids": req.UserIDs,
		"force":    req.Force,
		"strategy": req.Strategy,
	})

	return c.JSON(fiber.Map{
		"message": "Leave usage reset completed",
		"result":  result,
	})
}

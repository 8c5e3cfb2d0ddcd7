package controllers

import (
	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PositionController struct{}

// QuotaInput pairs a leave type with its allotted days
type QuotaInput struct {
	LeaveTypeID uint `json:"leave_type_id" validate:"required"`
	Quota       int  `json:"quota"`
}

// CreatePositionRequest creates the position together with its quota
// rows in one transaction
type CreatePositionRequest struct {
	NameTh       string       `json:"name_th" validate:"required"`
	NameEn       string       `json:"name_en" validate:"required"`
	NewYearQuota int          `json:"new_year_quota"`
	Quotas       []QuotaInput `json:"quotas"`
}

// GetPositions lists positions with their quotas
func (pc *PositionController) GetPositions(c *fiber.Ctx) error {
	query := database.DB.Preload("Quotas.LeaveType")
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var positions []models.Position
	if err := query.Order("id").Find(&positions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch positions"})
	}

	return c.JSON(fiber.Map{"positions": positions})
}

// GetPosition returns one position with quotas
func (pc *PositionController) GetPosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid position ID"})
	}

	var position models.Position
	if err := database.DB.Preload("Quotas.LeaveType").First(&position, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Position not found"})
	}

	return c.JSON(fiber.Map{"position": position})
}

// CreatePosition creates a position and its quota rows atomically
// (superadmin only)
func (pc *PositionController) CreatePosition(c *fiber.Ctx) error {
	var req CreatePositionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.NameTh == "" || req.NameEn == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name_th and name_en are required"})
	}
	for _, q := range req.Quotas {
		if q.Quota < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quota must not be negative"})
		}
	}

	position := models.Position{
		NameTh:       req.NameTh,
		NameEn:       req.NameEn,
		NewYearQuota: req.NewYearQuota,
		Active:       true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&position).Error; err != nil {
			return err
		}
		for _, q := range req.Quotas {
			var leaveType models.LeaveType
			if err := tx.First(&leaveType, q.LeaveTypeID).Error; err != nil {
				return err
			}
			quota := models.LeaveQuota{
				PositionID:  position.ID,
				LeaveTypeID: q.LeaveTypeID,
				Quota:       q.Quota,
			}
			if err := tx.Create(&quota).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create position"})
	}

	database.DB.Preload("Quotas.LeaveType").First(&position, position.ID)

	middleware.LogActivity(c, "CREATE", "positions", position.ID, fiber.Map{
		"name_en": position.NameEn,
		"quotas":  len(req.Quotas),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Position created successfully",
		"position": position,
	})
}

// UpdatePosition updates names and the reset flag (superadmin only)
func (pc *PositionController) UpdatePosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid position ID"})
	}

	var position models.Position
	if err := database.DB.First(&position, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Position not found"})
	}

	var req struct {
		NameTh       *string `json:"name_th"`
		NameEn       *string `json:"name_en"`
		NewYearQuota *int    `json:"new_year_quota"`
		Active       *bool   `json:"active"`
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
	if req.NewYearQuota != nil {
		updates["new_year_quota"] = *req.NewYearQuota
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&position).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update position"})
	}

	middleware.LogActivity(c, "UPDATE", "positions", position.ID, updates)

	return c.JSON(fiber.Map{"message": "Position updated successfully", "position": position})
}

// DeletePosition soft-deletes a position without users (superadmin only)
func (pc *PositionController) DeletePosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid position ID"})
	}

	var position models.Position
	if err := database.DB.First(&position, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Position not found"})
	}

	var userCount int64
	database.DB.Model(&models.User{}).Where("position_id = ?", id).Count(&userCount)
	if userCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Position still has users assigned"})
	}

	if err := database.DB.Delete(&position).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete position"})
	}

	middleware.LogActivity(c, "DELETE", "positions", position.ID, fiber.Map{"name_en": position.NameEn})

	return c.JSON(fiber.Map{"message": "Position deleted successfully"})
}

package controllers

import (
	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"

	"github.com/gofiber/fiber/v2"
)

type AnnouncementController struct{}

// GetAnnouncements lists announcements. Employees see only active ones.
func (ac *AnnouncementController) GetAnnouncements(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	query := database.DB.Preload("Author").Order("created_at DESC")
	if user.Role == "employee" {
		query = query.Where("active = ?", true)
	}

	var announcements []models.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch announcements"})
	}

	return c.JSON(fiber.Map{"announcements": announcements})
}

// CreateAnnouncement publishes an announcement (admin only)
func (ac *AnnouncementController) CreateAnnouncement(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var req struct {
		TitleTh string `json:"title_th" validate:"required"`
		TitleEn string `json:"title_en"`
		BodyTh  string `json:"body_th"`
		BodyEn  string `json:"body_en"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TitleTh == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title_th is required"})
	}

	announcement := models.Announcement{
		TitleTh:   req.TitleTh,
		TitleEn:   req.TitleEn,
		BodyTh:    req.BodyTh,
		BodyEn:    req.BodyEn,
		Active:    true,
		CreatedBy: user.ID,
	}

	if err := database.DB.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}

	middleware.LogActivity(c, "CREATE", "announcements", announcement.ID, fiber.Map{"title_th": req.TitleTh})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Announcement created successfully",
		"announcement": announcement,
	})
}

// UpdateAnnouncement edits or toggles an announcement (admin only)
func (ac *AnnouncementController) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	var announcement models.Announcement
	if err := database.DB.First(&announcement, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
	}

	var req struct {
		TitleTh *string `json:"title_th"`
		TitleEn *string `json:"title_en"`
		BodyTh  *string `json:"body_th"`
		BodyEn  *string `json:"body_en"`
		Active  *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.TitleTh != nil {
		updates["title_th"] = *req.TitleTh
	}
	if req.TitleEn != nil {
		updates["title_en"] = *req.TitleEn
	}
	if req.BodyTh != nil {
		updates["body_th"] = *req.BodyTh
	}
	if req.BodyEn != nil {
		updates["body_en"] = *req.BodyEn
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&announcement).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update announcement"})
	}

	middleware.LogActivity(c, "UPDATE", "announcements", announcement.ID, updates)

	return c.JSON(fiber.Map{"message": "Announcement updated successfully", "announcement": announcement})
}

// DeleteAnnouncement removes an announcement (admin only)
func (ac *AnnouncementController) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid announcement ID"})
	}

	var announcement models.Announcement
	if err := database.DB.First(&announcement, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
	}

	if err := database.DB.Delete(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete announcement"})
	}

	middleware.LogActivity(c, "DELETE", "announcements", announcement.ID, nil)

	return c.JSON(fiber.Map{"message": "Announcement deleted successfully"})
}

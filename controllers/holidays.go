package controllers

import (
	"time"

	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"

	"github.com/gofiber/fiber/v2"
)

type HolidayController struct{}

// GetHolidays lists the company holidays for a year
func (hc *HolidayController) GetHolidays(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var holidays []models.Holiday
	err := database.DB.
		Where("date >= ? AND date < ?", start, end).
		Order("date").
		Find(&holidays).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch holidays"})
	}

	return c.JSON(fiber.Map{"year": year, "holidays": holidays})
}

// CreateHoliday adds a holiday to the calendar (admin only)
func (hc *HolidayController) CreateHoliday(c *fiber.Ctx) error {
	var req struct {
		Date   string `json:"date" validate:"required"`
		NameTh string `json:"name_th" validate:"required"`
		NameEn string `json:"name_en"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.NameTh == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name_th is required"})
	}

	var existing models.Holiday
	if err := database.DB.Where("date = ?", date).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Holiday already exists on this date"})
	}

	holiday := models.Holiday{Date: date, NameTh: req.NameTh, NameEn: req.NameEn}
	if err := database.DB.Create(&holiday).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create holiday"})
	}

	middleware.LogActivity(c, "CREATE", "holidays", holiday.ID, fiber.Map{"date": req.Date, "name_th": req.NameTh})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Holiday created successfully",
		"holiday": holiday,
	})
}

// DeleteHoliday removes a holiday (admin only)
func (hc *HolidayController) DeleteHoliday(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid holiday ID"})
	}

	var holiday models.Holiday
	if err := database.DB.First(&holiday, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Holiday not found"})
	}

	if err := database.DB.Delete(&holiday).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete holiday"})
	}

	middleware.LogActivity(c, "DELETE", "holidays", holiday.ID, nil)

	return c.JSON(fiber.Map{"message": "Holiday deleted successfully"})
}

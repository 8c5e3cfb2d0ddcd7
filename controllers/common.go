package controllers

import (
	"errors"
	"strconv"

	"leavehub_go/config"
	"leavehub_go/database"
	"leavehub_go/services/leavecalc"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// calc returns a leave calculator bound to the live DB handle.
func calc() *leavecalc.Service {
	return leavecalc.New(database.GetDB(), config.AppConfig.Business)
}

// leaveError maps calculator errors onto HTTP responses, picking the
// message language from Accept-Language.
func leaveError(c *fiber.Ctx, err error) error {
	var le *leavecalc.Error
	if errors.As(err, &le) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": le.Message(utils.PrefersThai(c)),
			"code":  le.Code,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// paramID parses a numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// pagination reads page/limit query params with sane bounds.
func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

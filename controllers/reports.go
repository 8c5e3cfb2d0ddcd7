package controllers

import (
	"fmt"
	"time"

	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ReportController struct{}

// GetLeaveUsageSummary returns usage vs quota for every active user
// (admin only)
func (rc *ReportController) GetLeaveUsageSummary(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())

	users, err := rc.loadUsers(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	svc := calc()
	rows := make([]fiber.Map, 0, len(users))
	for i := range users {
		statuses, err := svc.QuotaStatusAll(users[i].ID, year)
		if err != nil {
			return leaveError(c, err)
		}
		rows = append(rows, fiber.Map{
			"user_id":     users[i].ID,
			"username":    users[i].Username,
			"name_th":     fmt.Sprintf("%s %s", users[i].FirstNameTh, users[i].LastNameTh),
			"position_th": users[i].Position.NameTh,
			"quotas":      statuses,
		})
	}

	return c.JSON(fiber.Map{"year": year, "report": rows})
}

// ExportLeaveUsageExcel streams the usage report as an .xlsx file
// (admin only)
func (rc *ReportController) ExportLeaveUsageExcel(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())

	users, err := rc.loadUsers(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leave Usage"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"User ID", "Username", "Name (TH)", "Position", "Leave Type", "Quota (days)", "Used (days)", "Used (hours)", "Remaining (days)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	svc := calc()
	row := 2
	for i := range users {
		statuses, err := svc.QuotaStatusAll(users[i].ID, year)
		if err != nil {
			return leaveError(c, err)
		}
		name := fmt.Sprintf("%s %s", users[i].FirstNameTh, users[i].LastNameTh)
		for _, st := range statuses {
			typeName := st.LeaveTypeTh
			if st.Deleted {
				typeName = utils.DeletedLabelPrefix + typeName
			}
			values := []interface{}{
				users[i].ID,
				users[i].Username,
				name,
				users[i].Position.NameTh,
				typeName,
				st.QuotaDays,
				st.UsedDays,
				st.UsedHours,
				st.RemainingDays,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	middleware.LogActivity(c, "EXPORT", "reports", 0, fiber.Map{"year": year, "users": len(users)})

	filename := fmt.Sprintf("leave_usage_%d.xlsx", year)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

func (rc *ReportController) loadUsers(c *fiber.Ctx) ([]models.User, error) {
	query := database.DB.Preload("Position").Where("status = ?", "active")
	if positionID := c.QueryInt("position_id", 0); positionID > 0 {
		query = query.Where("position_id = ?", positionID)
	}

	var users []models.User
	if err := query.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

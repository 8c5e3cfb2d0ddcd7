package controllers

import (
	"leavehub_go/database"
	"leavehub_go/middleware"
	"leavehub_go/models"
	"leavehub_go/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct{}

// CreateUserRequest is the admin user-creation body
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FirstNameTh string `json:"first_name_th"`
	LastNameTh  string `json:"last_name_th"`
	FirstNameEn string `json:"first_name_en"`
	LastNameEn  string `json:"last_name_en"`
	Role        string `json:"role" validate:"required"`
	PositionID  uint   `json:"position_id" validate:"required"`
}

// GetUsers lists users with optional filters (admin only)
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)

	query := database.DB.Model(&models.User{}).Preload("Position")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if positionID := c.QueryInt("position_id", 0); positionID > 0 {
		query = query.Where("position_id = ?", positionID)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + utils.SanitizeString(search) + "%"
		query = query.Where(
			"username LIKE ? OR first_name_th LIKE ? OR last_name_th LIKE ? OR first_name_en LIKE ? OR last_name_en LIKE ?",
			like, like, like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns a single user
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var user models.User
	if err := database.DB.Preload("Position").First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// CreateUser creates a new user (admin only)
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if !utils.IsValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	// admin สร้างได้เฉพาะ employee, superadmin สร้างได้ทุก role
	current, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if current.Role == "admin" && req.Role != "employee" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admins can only create employee accounts"})
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
	}

	var position models.Position
	if err := database.DB.First(&position, req.PositionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Position not found"})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := models.User{
		Username:    req.Username,
		Password:    hashedPassword,
		Email:       req.Email,
		Phone:       req.Phone,
		FirstNameTh: req.FirstNameTh,
		LastNameTh:  req.LastNameTh,
		FirstNameEn: req.FirstNameEn,
		LastNameEn:  req.LastNameEn,
		Role:        req.Role,
		PositionID:  req.PositionID,
		Status:      "active",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	database.DB.Preload("Position").First(&user, user.ID)

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// UpdateUser updates a user's profile fields (admin only)
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req struct {
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		LineID      *string `json:"line_id"`
		FirstNameTh *string `json:"first_name_th"`
		LastNameTh  *string `json:"last_name_th"`
		FirstNameEn *string `json:"first_name_en"`
		LastNameEn  *string `json:"last_name_en"`
		Role        *string `json:"role"`
		PositionID  *uint   `json:"position_id"`
		Status      *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	current, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.LineID != nil {
		updates["line_id"] = *req.LineID
	}
	if req.FirstNameTh != nil {
		updates["first_name_th"] = *req.FirstNameTh
	}
	if req.LastNameTh != nil {
		updates["last_name_th"] = *req.LastNameTh
	}
	if req.FirstNameEn != nil {
		updates["first_name_en"] = *req.FirstNameEn
	}
	if req.LastNameEn != nil {
		updates["last_name_en"] = *req.LastNameEn
	}
	if req.Role != nil {
		if !utils.IsValidRole(*req.Role) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		}
		if current.Role != "superadmin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only superadmin can change roles"})
		}
		updates["role"] = *req.Role
	}
	if req.PositionID != nil {
		var position models.Position
		if err := database.DB.First(&position, *req.PositionID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Position not found"})
		}
		updates["position_id"] = *req.PositionID
	}
	if req.Status != nil {
		if !utils.IsValidStatus(*req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	database.DB.Preload("Position").First(&user, user.ID)

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updates)

	return c.JSON(fiber.Map{"message": "User updated successfully", "user": user})
}

// DeleteUser soft-deletes a user (superadmin only)
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	current, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if current.ID == id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete your own account"})
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	middleware.LogActivity(c, "DELETE", "users", user.ID, fiber.Map{"username": user.Username})

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

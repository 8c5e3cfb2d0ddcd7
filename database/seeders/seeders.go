package seeders

import (
	"log"

	"leavehub_go/database"
	"leavehub_go/models"
	"leavehub_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedPositions()
	SeedLeaveTypes()
	SeedLeaveQuotas()
	SeedUsers()

	log.Println("Database seeding completed successfully!")
}

// SeedPositions seeds the positions table
func SeedPositions() {
	var count int64
	database.DB.Model(&models.Position{}).Count(&count)
	if count > 0 {
		log.Println("Positions already seeded, skipping...")
		return
	}

	positions := []models.Position{
		{
			BaseModel:    models.BaseModel{ID: 1},
			NameTh:       "ผู้บริหาร",
			NameEn:       "Management",
			NewYearQuota: 1, // ยกยอดสิทธิ์ข้ามปี ไม่ถูกรีเซ็ต
			Active:       true,
		},
		{
			BaseModel:    models.BaseModel{ID: 2},
			NameTh:       "พนักงานประจำ",
			NameEn:       "Full-time Staff",
			NewYearQuota: 0,
			Active:       true,
		},
		{
			BaseModel:    models.BaseModel{ID: 3},
			NameTh:       "พนักงานชั่วคราว",
			NameEn:       "Part-time Staff",
			NewYearQuota: 0,
			Active:       true,
		},
	}

	for _, position := range positions {
		if err := database.DB.Create(&position).Error; err != nil {
			log.Printf("Error seeding position %s: %v", position.NameEn, err)
		}
	}

	log.Println("Positions seeded successfully")
}

// SeedLeaveTypes seeds the leave_types table
func SeedLeaveTypes() {
	var count int64
	database.DB.Model(&models.LeaveType{}).Count(&count)
	if count > 0 {
		log.Println("Leave types already seeded, skipping...")
		return
	}

	leaveTypes := []models.LeaveType{
		{BaseModel: models.BaseModel{ID: 1}, NameTh: "ลาป่วย", NameEn: "Sick", Active: true},
		{BaseModel: models.BaseModel{ID: 2}, NameTh: "ลากิจ", NameEn: "Personal", Active: true},
		{BaseModel: models.BaseModel{ID: 3}, NameTh: "ลาพักร้อน", NameEn: "Vacation", Active: true},
		{BaseModel: models.BaseModel{ID: 4}, NameTh: "ลาฉุกเฉิน", NameEn: "Emergency", Active: true},
	}

	for _, lt := range leaveTypes {
		if err := database.DB.Create(&lt).Error; err != nil {
			log.Printf("Error seeding leave type %s: %v", lt.NameEn, err)
		}
	}

	log.Println("Leave types seeded successfully")
}

// SeedLeaveQuotas seeds default quotas per position and leave type.
// Emergency leave has no quota row on purpose.
func SeedLeaveQuotas() {
	var count int64
	database.DB.Model(&models.LeaveQuota{}).Count(&count)
	if count > 0 {
		log.Println("Leave quotas already seeded, skipping...")
		return
	}

	quotas := []models.LeaveQuota{
		// ผู้บริหาร
		{PositionID: 1, LeaveTypeID: 1, Quota: 30},
		{PositionID: 1, LeaveTypeID: 2, Quota: 10},
		{PositionID: 1, LeaveTypeID: 3, Quota: 15},
		// พนักงานประจำ
		{PositionID: 2, LeaveTypeID: 1, Quota: 30},
		{PositionID: 2, LeaveTypeID: 2, Quota: 6},
		{PositionID: 2, LeaveTypeID: 3, Quota: 10},
		// พนักงานชั่วคราว
		{PositionID: 3, LeaveTypeID: 1, Quota: 15},
		{PositionID: 3, LeaveTypeID: 2, Quota: 3},
	}

	for _, quota := range quotas {
		if err := database.DB.Create(&quota).Error; err != nil {
			log.Printf("Error seeding quota position=%d type=%d: %v", quota.PositionID, quota.LeaveTypeID, err)
		}
	}

	log.Println("Leave quotas seeded successfully")
}

// SeedUsers seeds the users table
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	// Hash the default password
	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			BaseModel:   models.BaseModel{ID: 1},
			Username:    "superadmin",
			Password:    hashedPassword,
			Email:       "superadmin@leavehub.local",
			Phone:       "0812345678",
			FirstNameTh: "ผู้ดูแล",
			LastNameTh:  "ระบบ",
			FirstNameEn: "Super",
			LastNameEn:  "Admin",
			Role:        "superadmin",
			PositionID:  1,
			Status:      "active",
		},
		{
			BaseModel:   models.BaseModel{ID: 2},
			Username:    "admin",
			Password:    hashedPassword,
			Email:       "admin@leavehub.local",
			Phone:       "0812345679",
			FirstNameTh: "แอดมิน",
			LastNameTh:  "ทดสอบ",
			FirstNameEn: "Admin",
			LastNameEn:  "Demo",
			Role:        "admin",
			PositionID:  2,
			Status:      "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

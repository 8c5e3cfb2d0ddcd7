package routes

import (
	"leavehub_go/controllers"
	"leavehub_go/middleware"
	"leavehub_go/services"
	"leavehub_go/services/websocket"
	"leavehub_go/storage"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub, notifier *services.LeaveNotifier, store *storage.StorageService) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	positionController := &controllers.PositionController{}
	leaveTypeController := &controllers.LeaveTypeController{}
	leaveRequestController := &controllers.LeaveRequestController{Notifier: notifier, Storage: store}
	leaveUsedController := &controllers.LeaveUsedController{}
	leaveQuotaController := &controllers.LeaveQuotaController{}
	leaveQuotaResetController := &controllers.LeaveQuotaResetController{}
	announcementController := &controllers.AnnouncementController{}
	holidayController := &controllers.HolidayController{}
	notificationController := &controllers.NotificationController{}
	reportController := &controllers.ReportController{}
	logController := &controllers.LogController{}
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management routes
	users := protected.Group("/users")
	users.Get("/", middleware.RequireAdminOrAbove(), userController.GetUsers)
	users.Get("/:id", middleware.RequireAdminOrAbove(), userController.GetUser)
	users.Post("/", middleware.RequireAdminOrAbove(), userController.CreateUser)
	users.Put("/:id", middleware.RequireAdminOrAbove(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireSuperadmin(), userController.DeleteUser)

	// Position management routes
	positions := protected.Group("/positions")
	positions.Get("/", positionController.GetPositions)
	positions.Get("/:id", positionController.GetPosition)
	positions.Post("/", middleware.RequireSuperadmin(), positionController.CreatePosition)
	positions.Put("/:id", middleware.RequireSuperadmin(), positionController.UpdatePosition)
	positions.Delete("/:id", middleware.RequireSuperadmin(), positionController.DeletePosition)

	// Leave type management routes
	leaveTypes := protected.Group("/leave-types")
	leaveTypes.Get("/", leaveTypeController.GetLeaveTypes)
	leaveTypes.Post("/", middleware.RequireSuperadmin(), leaveTypeController.CreateLeaveType)
	leaveTypes.Put("/:id", middleware.RequireSuperadmin(), leaveTypeController.UpdateLeaveType)
	leaveTypes.Delete("/:id", middleware.RequireSuperadmin(), leaveTypeController.DeleteLeaveType)

	// Leave request routes
	leaveRequests := protected.Group("/leave-requests")
	leaveRequests.Post("/", leaveRequestController.CreateLeaveRequest)
	leaveRequests.Get("/", middleware.RequireAdminOrAbove(), leaveRequestController.GetLeaveRequests)
	leaveRequests.Get("/my", leaveRequestController.GetMyLeaveRequests)
	leaveRequests.Get("/:id", leaveRequestController.GetLeaveRequest)
	leaveRequests.Patch("/:id/approve", middleware.RequireAdminOrAbove(), leaveRequestController.ApproveLeaveRequest)
	leaveRequests.Patch("/:id/reject", middleware.RequireAdminOrAbove(), leaveRequestController.RejectLeaveRequest)
	leaveRequests.Delete("/:id", leaveRequestController.DeleteLeaveRequest)

	// Leave usage routes
	protected.Get("/leave-used/user/:userId", leaveUsedController.GetLeaveUsedByUser)

	// Leave quota routes
	leaveQuota := protected.Group("/leave-quota")
	leaveQuota.Get("/me", leaveQuotaController.GetMyQuota)
	leaveQuota.Get("/", middleware.RequireAdminOrAbove(), leaveQuotaController.GetQuotas)
	leaveQuota.Post("/", middleware.RequireSuperadmin(), leaveQuotaController.UpsertQuota)
	leaveQuota.Delete("/:id", middleware.RequireSuperadmin(), leaveQuotaController.DeleteQuota)
	leaveQuota.Post("/reset", middleware.RequireSuperadmin(), leaveQuotaResetController.ResetQuota)
	protected.Post("/leave-quota-reset/reset-by-users", middleware.RequireSuperadmin(), leaveQuotaResetController.ResetQuotaByUsers)

	// Announcement routes
	announcements := protected.Group("/announcements")
	announcements.Get("/", announcementController.GetAnnouncements)
	announcements.Post("/", middleware.RequireAdminOrAbove(), announcementController.CreateAnnouncement)
	announcements.Put("/:id", middleware.RequireAdminOrAbove(), announcementController.UpdateAnnouncement)
	announcements.Delete("/:id", middleware.RequireAdminOrAbove(), announcementController.DeleteAnnouncement)

	// Holiday calendar routes
	holidays := protected.Group("/holidays")
	holidays.Get("/", holidayController.GetHolidays)
	holidays.Post("/", middleware.RequireAdminOrAbove(), holidayController.CreateHoliday)
	holidays.Delete("/:id", middleware.RequireAdminOrAbove(), holidayController.DeleteHoliday)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetMyNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)

	// Report routes (admin only)
	reports := protected.Group("/reports", middleware.RequireAdminOrAbove())
	reports.Get("/leave-usage", reportController.GetLeaveUsageSummary)
	reports.Get("/leave-usage/export", reportController.ExportLeaveUsageExcel)

	// Log management routes (superadmin only)
	logs := protected.Group("/logs", middleware.RequireSuperadmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/archives", logController.GetLogArchives)
	logs.Get("/archives/:id/download", logController.DownloadLogArchive)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireAdminOrAbove(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint - use websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}

// SetupStaticRoutes configures static file serving
func SetupStaticRoutes(app *fiber.App) {
	app.Static("/", "./public")
}

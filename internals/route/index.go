// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/constants"
	authMiddleware "akademiku_backend/internals/middlewares/auth"
	routeDetails "akademiku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== AUTH (public) =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===================== PRIVATE (semua role login) =====================
	log.Println("[INFO] Setting up PRIVATE group /api/u ...")
	user := app.Group("/api/u", authMiddleware.AuthMiddleware(db))

	routeDetails.UserRoutes(user, db)
	routeDetails.SchoolUserRoutes(user, db)

	// ===================== ADMIN (teacher/admin) =====================
	log.Println("[INFO] Setting up ADMIN group /api/a ...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorTeacher("pengelolaan akademik"),
			constants.TeacherAndAbove,
		),
	)

	routeDetails.AdminUserRoutes(admin, db)
	routeDetails.SchoolAdminRoutes(admin, db)
}

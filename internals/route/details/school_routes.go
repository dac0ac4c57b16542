// file: internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classRoute "akademiku_backend/internals/features/school/consultation_classes/route"
	courseRoute "akademiku_backend/internals/features/school/courses/route"
	difficultyRoute "akademiku_backend/internals/features/school/difficulties/route"
	questionRoute "akademiku_backend/internals/features/school/questions/route"
	sessionRoute "akademiku_backend/internals/features/school/reinforcement_sessions/route"
)

// SchoolUserRoutes: endpoint siswa (group /api/u).
func SchoolUserRoutes(user fiber.Router, db *gorm.DB) {
	courseRoute.StudentRoutes(user, db)
	difficultyRoute.StudentRoutes(user, db)
	sessionRoute.StudentRoutes(user, db)
	classRoute.StudentRoutes(user, db)
}

// SchoolAdminRoutes: endpoint teacher/admin (group /api/a).
func SchoolAdminRoutes(admin fiber.Router, db *gorm.DB) {
	courseRoute.AdminRoutes(admin, db)
	difficultyRoute.AdminRoutes(admin, db)
	questionRoute.AdminRoutes(admin, db)
	sessionRoute.AdminRoutes(admin, db)
	classRoute.AdminRoutes(admin, db)
}

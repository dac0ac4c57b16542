// file: internals/features/school/courses/route/course_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseController "akademiku_backend/internals/features/school/courses/controller"
)

// StudentRoutes: read-only.
func StudentRoutes(user fiber.Router, db *gorm.DB) {
	ctl := courseController.NewCourseController(db)

	cr := user.Group("/courses")
	cr.Get("/", ctl.List)
	cr.Get("/:id", ctl.GetByID)
}

// AdminRoutes: CRUD course oleh teacher/admin.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := courseController.NewCourseController(db)

	cr := admin.Group("/courses")
	cr.Post("/", ctl.Create)
	cr.Get("/", ctl.List)
	cr.Get("/:id", ctl.GetByID)
	cr.Patch("/:id", ctl.Update)
	cr.Delete("/:id", ctl.Delete)
}

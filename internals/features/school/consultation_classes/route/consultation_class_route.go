// file: internals/features/school/consultation_classes/route/consultation_class_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classController "akademiku_backend/internals/features/school/consultation_classes/controller"
)

// StudentRoutes: siswa membaca jadwal dan menitip pertanyaan.
func StudentRoutes(user fiber.Router, db *gorm.DB) {
	ctl := classController.NewConsultationClassController(db)

	cc := user.Group("/consultation-classes")
	cc.Get("/", ctl.List)
	cc.Get("/:id", ctl.GetByID)
	cc.Post("/:id/consultations", ctl.AddConsultation)
}

// AdminRoutes: teacher/admin mengelola kelas konsultasi.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := classController.NewConsultationClassController(db)

	cc := admin.Group("/consultation-classes")
	cc.Post("/", ctl.Create)
	cc.Get("/", ctl.List)
	cc.Get("/:id", ctl.GetByID)
	cc.Post("/:id/assign-teacher", ctl.AssignTeacher)
	cc.Post("/:id/close-out", ctl.CloseOut)
	cc.Delete("/:id", ctl.Cancel)
}

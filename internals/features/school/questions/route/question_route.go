// file: internals/features/school/questions/route/question_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	questionController "akademiku_backend/internals/features/school/questions/controller"
)

// AdminRoutes: bank soal dikelola teacher/admin. Siswa tidak punya
// akses langsung ke bank soal — soal hanya terlihat lewat snapshot sesi.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := questionController.NewQuestionController(db)

	q := admin.Group("/questions")
	q.Post("/", ctl.Create)
	q.Get("/", ctl.List)
	q.Get("/:id", ctl.GetByID)
	q.Delete("/:id", ctl.Delete)
}

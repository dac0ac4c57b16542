// file: internals/features/school/difficulties/route/difficulty_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	difficultyController "akademiku_backend/internals/features/school/difficulties/controller"
)

// StudentRoutes: katalog topik/difficulty + grade milik sendiri.
func StudentRoutes(user fiber.Router, db *gorm.DB) {
	ctl := difficultyController.NewDifficultyController(db)

	user.Get("/topics", ctl.ListTopics)
	user.Get("/difficulties", ctl.ListDifficulties)
	user.Get("/difficulties/:id/my-grade", ctl.MyGrade)
}

// AdminRoutes: kurasi katalog + melihat grade siswa.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := difficultyController.NewDifficultyController(db)

	admin.Post("/topics", ctl.CreateTopic)
	admin.Get("/topics", ctl.ListTopics)
	admin.Post("/difficulties", ctl.CreateDifficulty)
	admin.Get("/difficulties", ctl.ListDifficulties)
	admin.Get("/students/:student_id/difficulties/:id/grade", ctl.StudentGrade)
}

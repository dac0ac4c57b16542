// file: internals/features/school/reinforcement_sessions/route/reinforcement_session_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionController "akademiku_backend/internals/features/school/reinforcement_sessions/controller"
)

// StudentRoutes: siswa mengerjakan sesinya sendiri.
func StudentRoutes(user fiber.Router, db *gorm.DB) {
	ctl := sessionController.NewReinforcementSessionController(db)

	s := user.Group("/reinforcement-sessions")
	s.Get("/", ctl.ListMine)
	s.Get("/:id", ctl.GetByID)
	s.Get("/:id/questions", ctl.Questions)
	s.Post("/:id/start", ctl.Start)
	s.Put("/:id/answers", ctl.SaveAnswers)
	s.Post("/:id/submit", ctl.Submit)
}

// AdminRoutes: teacher/admin membuat dan mengelola sesi.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := sessionController.NewReinforcementSessionController(db)

	s := admin.Group("/reinforcement-sessions")
	s.Post("/", ctl.Create)
	s.Get("/:id", ctl.GetByID)
	s.Post("/:id/cancel", ctl.Cancel)
	s.Post("/:id/mark-incomplete", ctl.MarkIncomplete)
}

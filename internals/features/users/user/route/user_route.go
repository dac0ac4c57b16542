// file: internals/features/users/user/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/constants"
	userController "akademiku_backend/internals/features/users/user/controller"
	"akademiku_backend/internals/middlewares"
	authMiddleware "akademiku_backend/internals/middlewares/auth"
)

// AuthRoutes: endpoint publik (register/login) + logout.
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	auth := app.Group("/api/auth")
	auth.Post("/register", middlewares.LoginRateLimiter(), ctl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Post("/logout", ctl.Logout)
}

// UserRoutes: profil user login.
func UserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)
	user.Get("/me", ctl.Me)
}

// AdminUserRoutes: manajemen user, khusus admin (bukan teacher).
func AdminUserRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	u := admin.Group("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen user"), constants.RoleAdmin),
	)
	u.Get("/", ctl.List)
	u.Patch("/:id/deactivate", ctl.Deactivate)
}

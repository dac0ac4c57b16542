// file: internals/route/details/user_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userRoute "akademiku_backend/internals/features/users/user/route"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	userRoute.AuthRoutes(app, db)
}

func UserRoutes(user fiber.Router, db *gorm.DB) {
	userRoute.UserRoutes(user, db)
}

func AdminUserRoutes(admin fiber.Router, db *gorm.DB) {
	userRoute.AdminUserRoutes(admin, db)
}

// file: internals/features/users/user/controller/user_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	udto "akademiku_backend/internals/features/users/user/dto"
	umodel "akademiku_backend/internals/features/users/user/model"
	userv "akademiku_backend/internals/features/users/user/service"
	helper "akademiku_backend/internals/helpers"
	helperAuth "akademiku_backend/internals/helpers/auth"
)

type UserController struct {
	DB        *gorm.DB
	Auth      *userv.AuthService
	validator *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Auth: userv.NewAuthService(db)}
}

func (ctl *UserController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* =========================================================
   POST /api/auth/register
   Role admin TIDAK bisa didaftarkan lewat endpoint publik.
========================================================= */

func (ctl *UserController) Register(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req udto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	role := umodel.RoleStudent
	if req.UserRole != "" {
		role = umodel.UserRole(req.UserRole)
	}

	u, err := ctl.Auth.Register(c.UserContext(), req.UserName, req.UserEmail, req.UserPassword, role)
	if err != nil {
		if errors.Is(err, userv.ErrEmailTaken) {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mendaftarkan user")
	}
	return helper.JsonCreated(c, "Registrasi berhasil", udto.FromUserModel(u))
}

/* =========================================================
   POST /api/auth/login
========================================================= */

func (ctl *UserController) Login(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req udto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, token, exp, err := ctl.Auth.Login(c.UserContext(), req.UserEmail, req.UserPassword)
	if err != nil {
		switch {
		case errors.Is(err, userv.ErrInvalidCredentials):
			return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
		case errors.Is(err, userv.ErrUserInactive):
			return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal login")
		}
	}

	return helper.JsonOK(c, "Login berhasil", &udto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   exp,
		User:        udto.FromUserModel(u),
	})
}

/* =========================================================
   POST /api/auth/logout  (butuh token valid)
========================================================= */

func (ctl *UserController) Logout(c *fiber.Ctx) error {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	fields := strings.Fields(authHeader)
	if len(fields) < 2 {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak ditemukan")
	}
	token := strings.Trim(fields[1], "\"'")

	// ambil exp dari klaim supaya blacklist tahu kapan boleh disapu
	exp := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(""), nil
	}); err == nil {
		if v, ok := claims["exp"].(float64); ok {
			exp = time.Unix(int64(v), 0)
		}
	}

	if err := ctl.Auth.Logout(c.UserContext(), token, exp); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
	}
	return helper.JsonOK(c, "Logout berhasil", fiber.Map{"logged_out": true})
}

/* =========================================================
   GET /api/u/me
========================================================= */

func (ctl *UserController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User ID tidak ditemukan di token")
	}

	var u umodel.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&u, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil profil")
	}
	return helper.JsonOK(c, "OK", udto.FromUserModel(&u))
}

/* =========================================================
   GET /api/a/users?role=  (admin)
========================================================= */

func (ctl *UserController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&umodel.UserModel{})
	if role := c.Query("role"); role != "" {
		if !umodel.UserRole(role).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "role harus student/teacher/admin")
		}
		q = q.Where("user_role = ?", role)
	}

	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung user")
	}

	var rows []umodel.UserModel
	if err := q.Order("user_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	items := make([]*udto.UserResponse, 0, len(rows))
	for i := range rows {
		items = append(items, udto.FromUserModel(&rows[i]))
	}
	return helper.JsonList(c, "OK", items, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

/* =========================================================
   PATCH /api/a/users/:id/deactivate  (admin)
========================================================= */

func (ctl *UserController) Deactivate(c *fiber.Ctx) error {
	id := c.Params("id")
	res := ctl.DB.WithContext(c.UserContext()).
		Model(&umodel.UserModel{}).
		Where("user_id = ? AND user_is_active = TRUE", id).
		Update("user_is_active", false)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan atau sudah nonaktif")
	}
	return helper.JsonUpdated(c, "User dinonaktifkan", fiber.Map{"user_id": id})
}

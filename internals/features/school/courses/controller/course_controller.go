// file: internals/features/school/courses/controller/course_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	cdto "akademiku_backend/internals/features/school/courses/dto"
	cmodel "akademiku_backend/internals/features/school/courses/model"
	helper "akademiku_backend/internals/helpers"
	helperAuth "akademiku_backend/internals/helpers/auth"
)

type CourseController struct {
	DB        *gorm.DB
	validator *validator.Validate
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db}
}

func (ctl *CourseController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

func (ctl *CourseController) loadCourse(c *fiber.Ctx) (*cmodel.CourseModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID course tidak valid")
	}
	var m cmodel.CourseModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&m, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return nil, err
	}
	return &m, nil
}

// POST /api/a/courses
func (ctl *CourseController) Create(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req cdto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	teacherID, err := helperAuth.GetTeacherUUID(c)
	if err != nil || teacherID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya teacher yang bisa membuat course")
	}

	m := req.ToModel(teacherID)
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan course")
	}
	return helper.JsonCreated(c, "Course berhasil dibuat", cdto.FromModel(m))
}

// GET /api/u/courses
func (ctl *CourseController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&cmodel.CourseModel{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung course")
	}

	var rows []cmodel.CourseModel
	if err := q.Order("course_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	items := make([]*cdto.CourseResponse, 0, len(rows))
	for i := range rows {
		items = append(items, cdto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "OK", items, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

// GET /api/u/courses/:id
func (ctl *CourseController) GetByID(c *fiber.Ctx) error {
	m, err := ctl.loadCourse(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", cdto.FromModel(m))
}

// PATCH /api/a/courses/:id
func (ctl *CourseController) Update(c *fiber.Ctx) error {
	ctl.ensureValidator()

	m, err := ctl.loadCourse(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req cdto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(m)
	if err := ctl.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui course")
	}
	return helper.JsonUpdated(c, "Course diperbarui", cdto.FromModel(m))
}

// DELETE /api/a/courses/:id (soft delete)
func (ctl *CourseController) Delete(c *fiber.Ctx) error {
	m, err := ctl.loadCourse(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.DB.WithContext(c.UserContext()).
		Delete(&cmodel.CourseModel{}, "course_id = ?", m.CourseID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus course")
	}
	return helper.JsonDeleted(c, "Course dihapus", fiber.Map{"course_id": m.CourseID})
}

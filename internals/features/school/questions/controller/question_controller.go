// file: internals/features/school/questions/controller/question_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
	qdto "akademiku_backend/internals/features/school/questions/dto"
	qmodel "akademiku_backend/internals/features/school/questions/model"
	helper "akademiku_backend/internals/helpers"
	helperAuth "akademiku_backend/internals/helpers/auth"
)

type QuestionController struct {
	DB        *gorm.DB
	validator *validator.Validate
}

func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{DB: db}
}

func (ctl *QuestionController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* =========================================================
   POST /api/a/questions  (teacher/admin)
   Soal teacher: question_teacher_id dipaksa dari token
   (anti-spoof). Soal sistem dibuat admin dengan flag
   ?as_system=1 → teacher_id NULL.
========================================================= */

func (ctl *QuestionController) Create(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req qdto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Validate(); err != nil {
		return helper.FromFiberError(c, err)
	}

	asSystem := c.Query("as_system") == "1"
	if asSystem {
		if !helperAuth.IsAdmin(c) {
			return helper.JsonError(c, fiber.StatusForbidden, "Hanya admin yang bisa membuat soal sistem")
		}
		req.QuestionTeacherID = nil
	} else {
		tid, err := helperAuth.GetTeacherUUID(c)
		if err != nil || tid == uuid.Nil {
			return helper.JsonError(c, fiber.StatusForbidden, "Teacher ID tidak ditemukan di token")
		}
		req.QuestionTeacherID = &tid
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan soal")
	}
	return helper.JsonCreated(c, "Soal berhasil dibuat", qdto.FromModel(m))
}

/* =========================================================
   GET /api/a/questions?course_id=&difficulty_id=&grade=
========================================================= */

func (ctl *QuestionController) List(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "course_id wajib dan harus UUID")
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Model(&qmodel.QuestionModel{}).
		Where("question_course_id = ?", courseID)

	if raw := c.Query("difficulty_id"); raw != "" {
		did, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "difficulty_id harus UUID")
		}
		q = q.Where("question_difficulty_id = ?", did)
	}
	if raw := c.Query("grade"); raw != "" {
		g := dmodel.DifficultyGrade(raw)
		if !g.Valid() || g == dmodel.GradeNone {
			return helper.JsonError(c, fiber.StatusBadRequest, "grade harus low/medium/high")
		}
		q = q.Where("question_grade = ?", g)
	}

	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung soal")
	}

	var rows []qmodel.QuestionModel
	if err := q.Order("question_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}

	items := make([]*qdto.QuestionResponse, 0, len(rows))
	for i := range rows {
		items = append(items, qdto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "OK", items, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

/* =========================================================
   GET /api/a/questions/:id
========================================================= */

func (ctl *QuestionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID soal tidak valid")
	}
	var m qmodel.QuestionModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&m, "question_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Soal tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal")
	}
	return helper.JsonOK(c, "OK", qdto.FromModel(&m))
}

/* =========================================================
   DELETE /api/a/questions/:id  (soft delete)
   Sesi yang sudah men-snapshot soal ini TIDAK terpengaruh.
========================================================= */

func (ctl *QuestionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID soal tidak valid")
	}
	res := ctl.DB.WithContext(c.UserContext()).
		Delete(&qmodel.QuestionModel{}, "question_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus soal")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Soal tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Soal dihapus", fiber.Map{"question_id": id})
}

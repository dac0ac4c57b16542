// file: internals/features/school/difficulties/controller/difficulty_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	ddto "akademiku_backend/internals/features/school/difficulties/dto"
	dmodel "akademiku_backend/internals/features/school/difficulties/model"
	dservice "akademiku_backend/internals/features/school/difficulties/service"
	helper "akademiku_backend/internals/helpers"
	helperAuth "akademiku_backend/internals/helpers/auth"
)

type DifficultyController struct {
	DB        *gorm.DB
	Tracker   *dservice.GradeTrackerService
	validator *validator.Validate
}

func NewDifficultyController(db *gorm.DB) *DifficultyController {
	return &DifficultyController{
		DB:      db,
		Tracker: dservice.NewGradeTrackerService(db),
	}
}

func (ctl *DifficultyController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* ===================== TOPIC ===================== */

// POST /api/a/topics
func (ctl *DifficultyController) CreateTopic(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req ddto.CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan topik")
	}
	return helper.JsonCreated(c, "Topik berhasil dibuat", ddto.FromTopicModel(m))
}

// GET /api/a/topics?course_id=
func (ctl *DifficultyController) ListTopics(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "course_id wajib dan harus UUID")
	}

	var rows []dmodel.TopicModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("topic_course_id = ?", courseID).
		Order("topic_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil topik")
	}

	items := make([]*ddto.TopicResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ddto.FromTopicModel(&rows[i]))
	}
	return helper.JsonOK(c, "OK", items)
}

/* ===================== DIFFICULTY ===================== */

// POST /api/a/difficulties
func (ctl *DifficultyController) CreateDifficulty(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req ddto.CreateDifficultyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var topic dmodel.TopicModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&topic, "topic_id = ?", req.DifficultyTopicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Topik tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa topik")
	}

	m := req.ToModel(topic.TopicCourseID)
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan difficulty")
	}
	return helper.JsonCreated(c, "Difficulty berhasil dibuat", ddto.FromDifficultyModel(m))
}

// GET /api/a/difficulties?topic_id=
func (ctl *DifficultyController) ListDifficulties(c *fiber.Ctx) error {
	topicID, err := uuid.Parse(c.Query("topic_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "topic_id wajib dan harus UUID")
	}

	var rows []dmodel.DifficultyModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("difficulty_topic_id = ?", topicID).
		Order("difficulty_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil difficulty")
	}

	items := make([]*ddto.DifficultyResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ddto.FromDifficultyModel(&rows[i]))
	}
	return helper.JsonOK(c, "OK", items)
}

/* ===================== STUDENT GRADE (read-only) ===================== */

// GET /api/u/difficulties/:id/my-grade
// Grade siswa untuk difficulty ini. Tanpa riwayat = 'none' (bukan 404),
// supaya frontend tidak perlu membedakan "belum pernah" vs "sudah pulih".
func (ctl *DifficultyController) MyGrade(c *fiber.Ctx) error {
	difficultyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID difficulty tidak valid")
	}
	studentID, err := helperAuth.GetStudentUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Student ID tidak ditemukan di token")
	}

	grade, err := ctl.Tracker.CurrentGrade(c.UserContext(), studentID, difficultyID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil grade")
	}
	return helper.JsonOK(c, "OK", &ddto.StudentGradeResponse{
		StudentID:    studentID,
		DifficultyID: difficultyID,
		Grade:        grade,
	})
}

// GET /api/a/students/:student_id/difficulties/:id/grade
// Versi teacher/admin: 404 kalau siswa belum pernah dievaluasi.
func (ctl *DifficultyController) StudentGrade(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}
	difficultyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID difficulty tidak valid")
	}

	row, err := ctl.Tracker.RequireGrade(c.UserContext(), studentID, difficultyID)
	if err != nil {
		if errors.Is(err, dservice.ErrGradeNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa belum pernah dievaluasi untuk difficulty ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil grade")
	}
	return helper.JsonOK(c, "OK", &ddto.StudentGradeResponse{
		StudentID:    row.StudentDifficultyGradeStudentID,
		DifficultyID: row.StudentDifficultyGradeDifficultyID,
		Grade:        row.StudentDifficultyGradeCurrent,
		UpdatedAt:    &row.StudentDifficultyGradeUpdatedAt,
	})
}

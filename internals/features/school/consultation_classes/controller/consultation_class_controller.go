// file: internals/features/school/consultation_classes/controller/consultation_class_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	cdto "akademiku_backend/internals/features/school/consultation_classes/dto"
	cmodel "akademiku_backend/internals/features/school/consultation_classes/model"
	helper "akademiku_backend/internals/helpers"
	helperAuth "akademiku_backend/internals/helpers/auth"
)

type ConsultationClassController struct {
	DB        *gorm.DB
	Now       func() time.Time
	validator *validator.Validate
}

func NewConsultationClassController(db *gorm.DB) *ConsultationClassController {
	return &ConsultationClassController{DB: db, Now: time.Now}
}

func (ctl *ConsultationClassController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

func parseClassID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID kelas tidak valid")
	}
	return id, nil
}

// loadClass: Unscoped supaya kelas yang dibatalkan (soft delete) tetap bisa
// dibaca dan resolve ke status 'cancelled', bukan 404.
func (ctl *ConsultationClassController) loadClass(c *fiber.Ctx, id uuid.UUID) (*cmodel.ConsultationClassModel, error) {
	var m cmodel.ConsultationClassModel
	err := ctl.DB.WithContext(c.UserContext()).Unscoped().
		First(&m, "consultation_class_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kelas konsultasi tidak ditemukan")
		}
		return nil, err
	}
	return &m, nil
}

/* =========================================================
   POST /api/a/consultation-classes  (teacher/admin)
========================================================= */

func (ctl *ConsultationClassController) Create(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req cdto.CreateConsultationClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Validate(); err != nil {
		return helper.FromFiberError(c, err)
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan kelas konsultasi")
	}
	return helper.JsonCreated(c, "Kelas konsultasi berhasil dibuat", cdto.FromModel(m, ctl.Now()))
}

/* =========================================================
   GET /api/u/consultation-classes?course_id=...
   Status diturunkan ulang per baris pada saat read.
========================================================= */

func (ctl *ConsultationClassController) List(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "course_id wajib dan harus UUID")
	}

	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Unscoped().
		Model(&cmodel.ConsultationClassModel{}).
		Where("consultation_class_course_id = ?", courseID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kelas")
	}

	var rows []cmodel.ConsultationClassModel
	if err := q.Order("consultation_class_start_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil kelas")
	}

	now := ctl.Now()
	items := make([]*cdto.ConsultationClassResponse, 0, len(rows))
	for i := range rows {
		items = append(items, cdto.FromModel(&rows[i], now))
	}
	return helper.JsonList(c, "OK", items, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

/* =========================================================
   GET /api/u/consultation-classes/:id  (+ item konsultasi)
========================================================= */

func (ctl *ConsultationClassController) GetByID(c *fiber.Ctx) error {
	id, err := parseClassID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.loadClass(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var consultations []cmodel.ConsultationModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("consultation_class_id = ?", id).
		Order("consultation_created_at ASC").
		Find(&consultations).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil konsultasi")
	}

	resp := cdto.FromModel(m, ctl.Now())
	for i := range consultations {
		resp.Consultations = append(resp.Consultations, cdto.FromConsultationModel(&consultations[i]))
	}
	return helper.JsonOK(c, "OK", resp)
}

/* =========================================================
   POST /api/a/consultation-classes/:id/assign  (teacher/admin)
   pending_assignment → scheduled
========================================================= */

func (ctl *ConsultationClassController) AssignTeacher(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseClassID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req cdto.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.loadClass(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if m.ConsultationClassDeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Kelas sudah dibatalkan")
	}

	updates := map[string]any{
		"consultation_class_teacher_id": req.ConsultationClassTeacherID,
	}
	if m.ConsultationClassBaseStatus == cmodel.ClassBasePendingAssignment {
		updates["consultation_class_base_status"] = cmodel.ClassBaseScheduled
	}
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&cmodel.ConsultationClassModel{}).
		Where("consultation_class_id = ?", id).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal assign teacher")
	}

	m, _ = ctl.loadClass(c, id)
	return helper.JsonUpdated(c, "Teacher berhasil di-assign", cdto.FromModel(m, ctl.Now()))
}

/* =========================================================
   POST /api/a/consultation-classes/:id/close-out  (teacher/admin)
   Catat hasil (held/not_held) + tandai konsultasi yang dibahas.
========================================================= */

func (ctl *ConsultationClassController) CloseOut(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseClassID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req cdto.CloseOutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.loadClass(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if m.ConsultationClassDeletedAt.Valid {
		return helper.JsonError(c, fiber.StatusConflict, "Kelas sudah dibatalkan")
	}
	if m.ConsultationClassBaseStatus == cmodel.ClassBasePendingAssignment {
		return helper.JsonError(c, fiber.StatusConflict, "Kelas belum punya teacher; assign dulu")
	}
	if m.ConsultationClassBaseStatus == cmodel.ClassBaseHeld ||
		m.ConsultationClassBaseStatus == cmodel.ClassBaseNotHeld {
		return helper.JsonError(c, fiber.StatusConflict, "Hasil kelas sudah dicatat")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&cmodel.ConsultationClassModel{}).
			Where("consultation_class_id = ?", id).
			Update("consultation_class_base_status", req.Outcome).Error; err != nil {
			return err
		}
		if req.Outcome == cmodel.ClassBaseHeld && len(req.ReviewedConsultationIDs) > 0 {
			if err := tx.Model(&cmodel.ConsultationModel{}).
				Where("consultation_class_id = ? AND consultation_id IN ?", id, req.ReviewedConsultationIDs).
				Update("consultation_is_reviewed", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencatat hasil kelas")
	}

	m, _ = ctl.loadClass(c, id)
	return helper.JsonUpdated(c, "Hasil kelas dicatat", cdto.FromModel(m, ctl.Now()))
}

/* =========================================================
   DELETE /api/a/consultation-classes/:id  (teacher/admin)
   Soft delete = pembatalan; resolver membacanya sebagai 'cancelled'.
========================================================= */

func (ctl *ConsultationClassController) Cancel(c *fiber.Ctx) error {
	id, err := parseClassID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.loadClass(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if m.ConsultationClassDeletedAt.Valid {
		return helper.JsonOK(c, "Kelas sudah dibatalkan", cdto.FromModel(m, ctl.Now()))
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Delete(&cmodel.ConsultationClassModel{}, "consultation_class_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membatalkan kelas")
	}

	m, _ = ctl.loadClass(c, id)
	return helper.JsonDeleted(c, "Kelas dibatalkan", cdto.FromModel(m, ctl.Now()))
}

/* =========================================================
   POST /api/u/consultation-classes/:id/consultations  (siswa)
========================================================= */

func (ctl *ConsultationClassController) AddConsultation(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseClassID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req cdto.CreateConsultationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.loadClass(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	// kelas yang sudah final tidak menerima konsultasi baru
	switch m.ResolveStatus(ctl.Now()) {
	case cmodel.ClassCancelled, cmodel.ClassHeld, cmodel.ClassNotHeld:
		return helper.JsonError(c, fiber.StatusConflict, "Kelas tidak menerima konsultasi baru")
	}

	// siswa: student_id dari token (anti-spoof); teacher/admin boleh kirim
	studentID := req.ConsultationStudentID
	if helperAuth.IsStudent(c) {
		sid, err := helperAuth.GetStudentUUID(c)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		studentID = sid
	}
	if studentID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "consultation_student_id wajib")
	}

	item := &cmodel.ConsultationModel{
		ConsultationClassID:      id,
		ConsultationStudentID:    studentID,
		ConsultationQuestionText: req.ConsultationQuestionText,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(item).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan konsultasi")
	}
	return helper.JsonCreated(c, "Konsultasi terkirim", cdto.FromConsultationModel(item))
}

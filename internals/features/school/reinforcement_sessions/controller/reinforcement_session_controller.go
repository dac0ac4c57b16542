// file: internals/features/school/reinforcement_sessions/controller/reinforcement_session_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	qdto "akademiku_backend/internals/features/school/questions/dto"
	qmodel "akademiku_backend/internals/features/school/questions/model"
	sdto "akademiku_backend/internals/features/school/reinforcement_sessions/dto"
	smodel "akademiku_backend/internals/features/school/reinforcement_sessions/model"
	service "akademiku_backend/internals/features/school/reinforcement_sessions/service"
	helper "akademiku_backend/internals/helpers"
	helperAuth "akademiku_backend/internals/helpers/auth"
)

type ReinforcementSessionController struct {
	DB        *gorm.DB
	Service   *service.ReinforcementSessionService
	validator *validator.Validate
}

func NewReinforcementSessionController(db *gorm.DB) *ReinforcementSessionController {
	return &ReinforcementSessionController{
		DB:      db,
		Service: service.NewReinforcementSessionService(db),
	}
}

func (ctl *ReinforcementSessionController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

// mapping error domain → HTTP (dua kasus idempoten TIDAK lewat sini)
func mapSessionErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
	case errors.Is(err, service.ErrNoDeficiency):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Siswa tidak punya defisiensi pada difficulty ini")
	case errors.Is(err, service.ErrInsufficientContent):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Belum ada soal untuk difficulty & grade ini")
	case errors.Is(err, service.ErrTooManyExtras):
		return helper.JsonError(c, fiber.StatusBadRequest, "Soal tambahan maksimal 3")
	case errors.Is(err, service.ErrSessionExpired):
		return helper.JsonError(c, fiber.StatusGone, "Deadline sesi sudah lewat")
	case errors.Is(err, service.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, "Status sesi tidak mengizinkan operasi ini")
	case errors.Is(err, service.ErrCancelReasonRequired):
		return helper.JsonError(c, fiber.StatusBadRequest, "Alasan pembatalan wajib diisi")
	case errors.Is(err, service.ErrSessionNotStarted):
		return helper.JsonError(c, fiber.StatusConflict, "Sesi belum pernah dimulai")
	case errors.Is(err, service.ErrQuestionNotInSession):
		return helper.JsonError(c, fiber.StatusBadRequest, "Ada jawaban untuk soal di luar sesi ini")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Operasi sesi gagal")
	}
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID sesi tidak valid")
	}
	return id, nil
}

// owner guard: siswa hanya boleh menyentuh sesinya sendiri
func (ctl *ReinforcementSessionController) ensureOwnerStudent(c *fiber.Ctx, sess *smodel.ReinforcementSessionModel) error {
	sid, err := helperAuth.GetStudentUUID(c)
	if err != nil {
		return err
	}
	if sid != sess.ReinforcementSessionStudentID {
		return fiber.NewError(fiber.StatusForbidden, "Sesi ini bukan milik Anda")
	}
	return nil
}

/* =========================================================
   POST /api/a/reinforcement-sessions  (teacher/admin)
========================================================= */

func (ctl *ReinforcementSessionController) Create(c *fiber.Ctx) error {
	ctl.ensureValidator()

	var req sdto.CreateReinforcementSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	teacherID, _ := helperAuth.GetTeacherUUID(c) // nil-able: admin tanpa teacher_id tetap boleh
	var teacherPtr *uuid.UUID
	if teacherID != uuid.Nil {
		teacherPtr = &teacherID
	}

	sess, err := ctl.Service.Create(c.UserContext(), req.ToInput(teacherPtr))
	if err != nil {
		if errors.Is(err, service.ErrNoDeficiency) ||
			errors.Is(err, service.ErrInsufficientContent) ||
			errors.Is(err, service.ErrTooManyExtras) {
			return mapSessionErr(c, err)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Soal tambahan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonCreated(c, "Sesi penguatan berhasil dibuat", sdto.FromModel(sess, ctl.Service.Now()))
}

/* =========================================================
   GET /api/u/reinforcement-sessions/:id
   Expire-on-read: pending yang kadaluarsa difinalkan dulu.
========================================================= */

func (ctl *ReinforcementSessionController) GetByID(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sess, err := ctl.Service.GetForRead(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}

	// siswa: hanya sesinya sendiri; teacher/admin bebas baca
	if helperAuth.IsStudent(c) {
		if err := ctl.ensureOwnerStudent(c, sess); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	return helper.JsonOK(c, "OK", sdto.FromModel(sess, ctl.Service.Now()))
}

/* =========================================================
   GET /api/u/reinforcement-sessions  (milik siswa, paginated)
========================================================= */

func (ctl *ReinforcementSessionController) ListMine(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListByStudent(c.UserContext(), sid, p.Limit, p.Offset)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar sesi")
	}

	now := ctl.Service.Now()
	items := make([]*sdto.ReinforcementSessionResponse, 0, len(rows))
	for i := range rows {
		items = append(items, sdto.FromModel(&rows[i], now))
	}
	return helper.JsonList(c, "OK", items, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

/* =========================================================
   GET /api/u/reinforcement-sessions/:id/questions
   Soal snapshot untuk dikerjakan — is_correct disembunyikan.
========================================================= */

func (ctl *ReinforcementSessionController) Questions(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, err := ctl.Service.GetForRead(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}
	if helperAuth.IsStudent(c) {
		if err := ctl.ensureOwnerStudent(c, sess); err != nil {
			return helper.FromFiberError(c, err)
		}
	}

	// Unscoped: snapshot referensial — soal yang sudah dihapus tetap tampil
	var questions []qmodel.QuestionModel
	if err := ctl.DB.WithContext(c.UserContext()).Unscoped().
		Where("question_id IN ?", []string(sess.ReinforcementSessionQuestionIDs)).
		Find(&questions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil soal sesi")
	}

	// jaga urutan snapshot
	byID := make(map[string]*qmodel.QuestionModel, len(questions))
	for i := range questions {
		byID[questions[i].QuestionID.String()] = &questions[i]
	}
	items := make([]*qdto.QuestionResponse, 0, len(questions))
	for _, qid := range sess.ReinforcementSessionQuestionIDs {
		if q, ok := byID[qid]; ok {
			items = append(items, qdto.FromModelForStudent(q))
		}
	}
	return helper.JsonOK(c, "OK", items)
}

/* =========================================================
   POST /api/u/reinforcement-sessions/:id/start  (siswa pemilik)
========================================================= */

func (ctl *ReinforcementSessionController) Start(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}
	if err := ctl.ensureOwnerStudent(c, sess); err != nil {
		return helper.FromFiberError(c, err)
	}

	sess, err = ctl.Service.Start(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}
	return helper.JsonOK(c, "Sesi dimulai", sdto.FromModel(sess, ctl.Service.Now()))
}

/* =========================================================
   PUT /api/u/reinforcement-sessions/:id/answers  (siswa pemilik)
========================================================= */

func (ctl *ReinforcementSessionController) SaveAnswers(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sdto.SaveAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}
	if err := ctl.ensureOwnerStudent(c, sess); err != nil {
		return helper.FromFiberError(c, err)
	}

	sess, err = ctl.Service.SaveAnswers(c.UserContext(), id, sdto.AnswersToMap(req.Answers))
	if err != nil {
		return mapSessionErr(c, err)
	}
	return helper.JsonOK(c, "Jawaban tersimpan", sdto.FromModel(sess, ctl.Service.Now()))
}

/* =========================================================
   POST /api/u/reinforcement-sessions/:id/submit  (siswa pemilik)
   Submit kedua / balapan dengan expire = no-op sukses dengan
   hasil yang sudah ada.
========================================================= */

func (ctl *ReinforcementSessionController) Submit(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sdto.SubmitSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}
	if err := ctl.ensureOwnerStudent(c, sess); err != nil {
		return helper.FromFiberError(c, err)
	}

	sess, err = ctl.Service.Submit(c.UserContext(), id, sdto.AnswersToMap(req.Answers))
	if err != nil {
		return mapSessionErr(c, err)
	}
	return helper.JsonOK(c, "Sesi selesai dinilai", sdto.FromModel(sess, ctl.Service.Now()))
}

/* =========================================================
   POST /api/a/reinforcement-sessions/:id/cancel      (teacher/admin)
   POST /api/a/reinforcement-sessions/:id/incomplete  (teacher/admin)
========================================================= */

func (ctl *ReinforcementSessionController) Cancel(c *fiber.Ctx) error {
	ctl.ensureValidator()

	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sdto.CancelSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := ctl.Service.Cancel(c.UserContext(), id, req.Reason)
	if err != nil {
		return mapSessionErr(c, err)
	}
	return helper.JsonOK(c, "Sesi dibatalkan", sdto.FromModel(sess, ctl.Service.Now()))
}

func (ctl *ReinforcementSessionController) MarkIncomplete(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, err := ctl.Service.MarkIncomplete(c.UserContext(), id)
	if err != nil {
		return mapSessionErr(c, err)
	}
	return helper.JsonOK(c, "Sesi ditandai incomplete", sdto.FromModel(sess, ctl.Service.Now()))
}

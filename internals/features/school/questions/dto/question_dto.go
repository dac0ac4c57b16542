// file: internals/features/school/questions/dto/question_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
	qmodel "akademiku_backend/internals/features/school/questions/model"
)

/* ==========================================================================================
   REQUEST — CREATE
   Catatan invariant (dicek di Validate, bukan cuma tag validator):
   - 2..4 opsi
   - tepat satu is_correct=true
   - teks opsi pairwise distinct (case-sensitive, setelah trim)
========================================================================================== */

type CreateQuestionOptionRequest struct {
	OptionText string `json:"option_text" validate:"required,min=1,max=500"`
	IsCorrect  bool   `json:"is_correct"`
}

type CreateQuestionRequest struct {
	QuestionCourseID     uuid.UUID              `json:"question_course_id" validate:"required"`
	QuestionDifficultyID uuid.UUID              `json:"question_difficulty_id" validate:"required"`
	QuestionGrade        dmodel.DifficultyGrade `json:"question_grade" validate:"required,oneof=low medium high"`
	QuestionEnunciation  string                 `json:"question_enunciation" validate:"required,min=3"`

	// Opsional: diisi controller dari token untuk soal buatan teacher.
	QuestionTeacherID *uuid.UUID `json:"question_teacher_id" validate:"omitempty"`

	Options []CreateQuestionOptionRequest `json:"options" validate:"required,min=2,max=4,dive"`
}

// Validate: invariant di luar jangkauan tag validator.
func (r *CreateQuestionRequest) Validate() error {
	correct := 0
	seen := make(map[string]struct{}, len(r.Options))
	for _, op := range r.Options {
		txt := strings.TrimSpace(op.OptionText)
		if txt == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Teks opsi tidak boleh kosong")
		}
		if _, dup := seen[txt]; dup {
			return fiber.NewError(fiber.StatusBadRequest, "Teks opsi harus berbeda satu sama lain")
		}
		seen[txt] = struct{}{}
		if op.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fiber.NewError(fiber.StatusBadRequest, "Harus ada tepat satu opsi benar")
	}
	return nil
}

func (r *CreateQuestionRequest) ToModel() *qmodel.QuestionModel {
	opts := make(qmodel.QuestionOptions, 0, len(r.Options))
	for _, op := range r.Options {
		opts = append(opts, qmodel.QuestionOption{
			OptionID:   uuid.New(), // id opsi dibuat server
			OptionText: strings.TrimSpace(op.OptionText),
			IsCorrect:  op.IsCorrect,
		})
	}
	return &qmodel.QuestionModel{
		QuestionCourseID:     r.QuestionCourseID,
		QuestionDifficultyID: r.QuestionDifficultyID,
		QuestionGrade:        r.QuestionGrade,
		QuestionTeacherID:    r.QuestionTeacherID,
		QuestionEnunciation:  strings.TrimSpace(r.QuestionEnunciation),
		QuestionOptions:      opts,
	}
}

/* ==========================================================================================
   RESPONSE
   - FromModel           → view lengkap (teacher/admin; is_correct ikut)
   - FromModelForStudent → is_correct DISEMBUNYIKAN (dipakai saat mengerjakan sesi)
========================================================================================== */

type QuestionOptionResponse struct {
	OptionID   uuid.UUID `json:"option_id"`
	OptionText string    `json:"option_text"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
}

type QuestionResponse struct {
	QuestionID           uuid.UUID                `json:"question_id"`
	QuestionCourseID     uuid.UUID                `json:"question_course_id"`
	QuestionDifficultyID uuid.UUID                `json:"question_difficulty_id"`
	QuestionGrade        dmodel.DifficultyGrade   `json:"question_grade"`
	QuestionTeacherID    *uuid.UUID               `json:"question_teacher_id,omitempty"`
	QuestionEnunciation  string                   `json:"question_enunciation"`
	Options              []QuestionOptionResponse `json:"options"`
	QuestionCreatedAt    time.Time                `json:"question_created_at"`
}

func FromModel(m *qmodel.QuestionModel) *QuestionResponse {
	resp := baseResponse(m)
	for i := range m.QuestionOptions {
		v := m.QuestionOptions[i].IsCorrect
		resp.Options[i].IsCorrect = &v
	}
	return resp
}

func FromModelForStudent(m *qmodel.QuestionModel) *QuestionResponse {
	return baseResponse(m)
}

func baseResponse(m *qmodel.QuestionModel) *QuestionResponse {
	opts := make([]QuestionOptionResponse, 0, len(m.QuestionOptions))
	for _, op := range m.QuestionOptions {
		opts = append(opts, QuestionOptionResponse{
			OptionID:   op.OptionID,
			OptionText: op.OptionText,
		})
	}
	return &QuestionResponse{
		QuestionID:           m.QuestionID,
		QuestionCourseID:     m.QuestionCourseID,
		QuestionDifficultyID: m.QuestionDifficultyID,
		QuestionGrade:        m.QuestionGrade,
		QuestionTeacherID:    m.QuestionTeacherID,
		QuestionEnunciation:  m.QuestionEnunciation,
		Options:              opts,
		QuestionCreatedAt:    m.QuestionCreatedAt,
	}
}

// file: internals/features/school/consultation_classes/dto/consultation_class_dto.go
package dto

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	cmodel "akademiku_backend/internals/features/school/consultation_classes/model"
)

/* ==========================================================================================
   REQUEST
========================================================================================== */

type CreateConsultationClassRequest struct {
	ConsultationClassCourseID  uuid.UUID  `json:"consultation_class_course_id" validate:"required"`
	ConsultationClassTeacherID *uuid.UUID `json:"consultation_class_teacher_id" validate:"omitempty"`
	ConsultationClassTitle     string     `json:"consultation_class_title" validate:"required,min=3,max=180"`
	ConsultationClassStartAt   time.Time  `json:"consultation_class_start_at" validate:"required"`
	ConsultationClassEndAt     time.Time  `json:"consultation_class_end_at" validate:"required"`
}

func (r *CreateConsultationClassRequest) Validate() error {
	if !r.ConsultationClassEndAt.After(r.ConsultationClassStartAt) {
		return fiber.NewError(fiber.StatusBadRequest, "end_at harus setelah start_at")
	}
	return nil
}

func (r *CreateConsultationClassRequest) ToModel() *cmodel.ConsultationClassModel {
	return &cmodel.ConsultationClassModel{
		ConsultationClassCourseID:  r.ConsultationClassCourseID,
		ConsultationClassTeacherID: r.ConsultationClassTeacherID,
		ConsultationClassTitle:     r.ConsultationClassTitle,
		ConsultationClassStartAt:   r.ConsultationClassStartAt,
		ConsultationClassEndAt:     r.ConsultationClassEndAt,
	}
}

type AssignTeacherRequest struct {
	ConsultationClassTeacherID uuid.UUID `json:"consultation_class_teacher_id" validate:"required"`
}

// CloseOutRequest: aksi eksplisit setelah window habis — mencatat hasil
// (held/not_held) + item konsultasi mana saja yang sempat dibahas.
type CloseOutRequest struct {
	Outcome                 cmodel.ClassBaseStatus `json:"outcome" validate:"required,oneof=held not_held"`
	ReviewedConsultationIDs []uuid.UUID            `json:"reviewed_consultation_ids" validate:"omitempty"`
}

type CreateConsultationRequest struct {
	ConsultationStudentID    uuid.UUID `json:"consultation_student_id" validate:"omitempty"`
	ConsultationQuestionText string    `json:"consultation_question_text" validate:"required,min=3"`
}

/* ==========================================================================================
   RESPONSE — status adalah hasil ResolveStatus(now), BUKAN kolom tersimpan
========================================================================================== */

type ConsultationResponse struct {
	ConsultationID           uuid.UUID `json:"consultation_id"`
	ConsultationClassID      uuid.UUID `json:"consultation_class_id"`
	ConsultationStudentID    uuid.UUID `json:"consultation_student_id"`
	ConsultationQuestionText string    `json:"consultation_question_text"`
	ConsultationIsReviewed   bool      `json:"consultation_is_reviewed"`
	ConsultationCreatedAt    time.Time `json:"consultation_created_at"`
}

func FromConsultationModel(m *cmodel.ConsultationModel) *ConsultationResponse {
	return &ConsultationResponse{
		ConsultationID:           m.ConsultationID,
		ConsultationClassID:      m.ConsultationClassID,
		ConsultationStudentID:    m.ConsultationStudentID,
		ConsultationQuestionText: m.ConsultationQuestionText,
		ConsultationIsReviewed:   m.ConsultationIsReviewed,
		ConsultationCreatedAt:    m.ConsultationCreatedAt,
	}
}

type ConsultationClassResponse struct {
	ConsultationClassID        uuid.UUID  `json:"consultation_class_id"`
	ConsultationClassCourseID  uuid.UUID  `json:"consultation_class_course_id"`
	ConsultationClassTeacherID *uuid.UUID `json:"consultation_class_teacher_id,omitempty"`
	ConsultationClassTitle     string     `json:"consultation_class_title"`
	ConsultationClassStartAt   time.Time  `json:"consultation_class_start_at"`
	ConsultationClassEndAt     time.Time  `json:"consultation_class_end_at"`

	ConsultationClassBaseStatus cmodel.ClassBaseStatus    `json:"consultation_class_base_status"`
	Status                      cmodel.ClassDerivedStatus `json:"status"`

	Consultations []*ConsultationResponse `json:"consultations,omitempty"`

	ConsultationClassCreatedAt time.Time `json:"consultation_class_created_at"`
}

func FromModel(m *cmodel.ConsultationClassModel, now time.Time) *ConsultationClassResponse {
	return &ConsultationClassResponse{
		ConsultationClassID:         m.ConsultationClassID,
		ConsultationClassCourseID:   m.ConsultationClassCourseID,
		ConsultationClassTeacherID:  m.ConsultationClassTeacherID,
		ConsultationClassTitle:      m.ConsultationClassTitle,
		ConsultationClassStartAt:    m.ConsultationClassStartAt,
		ConsultationClassEndAt:      m.ConsultationClassEndAt,
		ConsultationClassBaseStatus: m.ConsultationClassBaseStatus,
		Status:                      m.ResolveStatus(now),
		ConsultationClassCreatedAt:  m.ConsultationClassCreatedAt,
	}
}

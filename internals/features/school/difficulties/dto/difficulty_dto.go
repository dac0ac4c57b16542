// file: internals/features/school/difficulties/dto/difficulty_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
)

/* ===================== TOPIC ===================== */

type CreateTopicRequest struct {
	TopicCourseID    uuid.UUID `json:"topic_course_id" validate:"required"`
	TopicName        string    `json:"topic_name" validate:"required,min=2,max=120"`
	TopicDescription *string   `json:"topic_description" validate:"omitempty,max=1000"`
}

func (r *CreateTopicRequest) ToModel() *dmodel.TopicModel {
	return &dmodel.TopicModel{
		TopicCourseID:    r.TopicCourseID,
		TopicName:        r.TopicName,
		TopicDescription: r.TopicDescription,
	}
}

type TopicResponse struct {
	TopicID          uuid.UUID `json:"topic_id"`
	TopicCourseID    uuid.UUID `json:"topic_course_id"`
	TopicName        string    `json:"topic_name"`
	TopicDescription *string   `json:"topic_description,omitempty"`
	TopicCreatedAt   time.Time `json:"topic_created_at"`
}

func FromTopicModel(m *dmodel.TopicModel) *TopicResponse {
	return &TopicResponse{
		TopicID:          m.TopicID,
		TopicCourseID:    m.TopicCourseID,
		TopicName:        m.TopicName,
		TopicDescription: m.TopicDescription,
		TopicCreatedAt:   m.TopicCreatedAt,
	}
}

/* ===================== DIFFICULTY ===================== */

type CreateDifficultyRequest struct {
	DifficultyTopicID     uuid.UUID `json:"difficulty_topic_id" validate:"required"`
	DifficultyName        string    `json:"difficulty_name" validate:"required,min=2,max=160"`
	DifficultyDescription *string   `json:"difficulty_description" validate:"omitempty,max=1000"`
}

// ToModel: course diturunkan dari topic induk, bukan dari payload.
func (r *CreateDifficultyRequest) ToModel(courseID uuid.UUID) *dmodel.DifficultyModel {
	return &dmodel.DifficultyModel{
		DifficultyCourseID:    courseID,
		DifficultyTopicID:     r.DifficultyTopicID,
		DifficultyName:        r.DifficultyName,
		DifficultyDescription: r.DifficultyDescription,
	}
}

type DifficultyResponse struct {
	DifficultyID          uuid.UUID `json:"difficulty_id"`
	DifficultyCourseID    uuid.UUID `json:"difficulty_course_id"`
	DifficultyTopicID     uuid.UUID `json:"difficulty_topic_id"`
	DifficultyName        string    `json:"difficulty_name"`
	DifficultyDescription *string   `json:"difficulty_description,omitempty"`
	DifficultyCreatedAt   time.Time `json:"difficulty_created_at"`
}

func FromDifficultyModel(m *dmodel.DifficultyModel) *DifficultyResponse {
	return &DifficultyResponse{
		DifficultyID:          m.DifficultyID,
		DifficultyCourseID:    m.DifficultyCourseID,
		DifficultyTopicID:     m.DifficultyTopicID,
		DifficultyName:        m.DifficultyName,
		DifficultyDescription: m.DifficultyDescription,
		DifficultyCreatedAt:   m.DifficultyCreatedAt,
	}
}

/* ===================== STUDENT GRADE ===================== */

type StudentGradeResponse struct {
	StudentID    uuid.UUID              `json:"student_id"`
	DifficultyID uuid.UUID              `json:"difficulty_id"`
	Grade        dmodel.DifficultyGrade `json:"grade"`
	UpdatedAt    *time.Time             `json:"updated_at,omitempty"`
}

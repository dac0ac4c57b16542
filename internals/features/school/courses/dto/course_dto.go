// file: internals/features/school/courses/dto/course_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	cmodel "akademiku_backend/internals/features/school/courses/model"
)

type CreateCourseRequest struct {
	CourseName        string  `json:"course_name" validate:"required,min=3,max=160"`
	CourseDescription *string `json:"course_description" validate:"omitempty,max=2000"`
}

func (r *CreateCourseRequest) ToModel(ownerTeacherID uuid.UUID) *cmodel.CourseModel {
	return &cmodel.CourseModel{
		CourseName:           strings.TrimSpace(r.CourseName),
		CourseDescription:    r.CourseDescription,
		CourseOwnerTeacherID: ownerTeacherID,
	}
}

// Patch: pointer semua — field yang tidak dikirim tidak diubah.
type UpdateCourseRequest struct {
	CourseName        *string `json:"course_name" validate:"omitempty,min=3,max=160"`
	CourseDescription *string `json:"course_description" validate:"omitempty,max=2000"`
}

func (r *UpdateCourseRequest) ApplyToModel(m *cmodel.CourseModel) {
	if r.CourseName != nil {
		m.CourseName = strings.TrimSpace(*r.CourseName)
	}
	if r.CourseDescription != nil {
		m.CourseDescription = r.CourseDescription
	}
}

type CourseResponse struct {
	CourseID             uuid.UUID `json:"course_id"`
	CourseName           string    `json:"course_name"`
	CourseDescription    *string   `json:"course_description,omitempty"`
	CourseOwnerTeacherID uuid.UUID `json:"course_owner_teacher_id"`
	CourseCreatedAt      time.Time `json:"course_created_at"`
}

func FromModel(m *cmodel.CourseModel) *CourseResponse {
	return &CourseResponse{
		CourseID:             m.CourseID,
		CourseName:           m.CourseName,
		CourseDescription:    m.CourseDescription,
		CourseOwnerTeacherID: m.CourseOwnerTeacherID,
		CourseCreatedAt:      m.CourseCreatedAt,
	}
}

// file: internals/features/school/courses/model/course_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID uuid.UUID `gorm:"column:course_id;type:uuid;primaryKey" json:"course_id"`

	CourseName        string  `gorm:"column:course_name;type:varchar(160);not null" json:"course_name"`
	CourseDescription *string `gorm:"column:course_description" json:"course_description,omitempty"`

	// teacher penanggung jawab course
	CourseOwnerTeacherID uuid.UUID `gorm:"column:course_owner_teacher_id;type:uuid;not null;index:idx_course_owner" json:"course_owner_teacher_id"`

	CourseCreatedAt time.Time      `gorm:"column:course_created_at;type:timestamptz;not null;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time      `gorm:"column:course_updated_at;type:timestamptz;not null;autoUpdateTime" json:"course_updated_at"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(_ *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}

// file: internals/features/school/questions/model/question_model.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
)

/* =============================================================================
   OPTIONS (jsonb)
   2–4 opsi per soal, tepat SATU is_correct=true, teks opsi pairwise distinct.
   Invariant dijaga di DTO saat create; model hanya menyimpan.
============================================================================= */

type QuestionOption struct {
	OptionID   uuid.UUID `json:"option_id"`
	OptionText string    `json:"option_text"`
	IsCorrect  bool      `json:"is_correct"`
}

type QuestionOptions []QuestionOption

func (o *QuestionOptions) Scan(value any) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported type for QuestionOptions: %T", value)
	}
}

func (o QuestionOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// CorrectOptionID: id opsi yang benar (uuid.Nil kalau data korup).
func (o QuestionOptions) CorrectOptionID() uuid.UUID {
	for _, op := range o {
		if op.IsCorrect {
			return op.OptionID
		}
	}
	return uuid.Nil
}

/* =============================================================================
   MODEL: questions
   - question_teacher_id NULL = soal sistem (pool assembler).
   - Tag (difficulty, grade) menentukan pool soal untuk satu sesi.
============================================================================= */

type QuestionModel struct {
	QuestionID       uuid.UUID `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionCourseID uuid.UUID `gorm:"column:question_course_id;type:uuid;not null;index:idx_question_course" json:"question_course_id"`

	// Tag target
	QuestionDifficultyID uuid.UUID              `gorm:"column:question_difficulty_id;type:uuid;not null;index:idx_question_difficulty_grade,priority:1" json:"question_difficulty_id"`
	QuestionGrade        dmodel.DifficultyGrade `gorm:"column:question_grade;type:varchar(8);not null;index:idx_question_difficulty_grade,priority:2" json:"question_grade"`

	// NULL = authored by system
	QuestionTeacherID *uuid.UUID `gorm:"column:question_teacher_id;type:uuid" json:"question_teacher_id,omitempty"`

	QuestionEnunciation string          `gorm:"column:question_enunciation;type:text;not null" json:"question_enunciation"`
	QuestionOptions     QuestionOptions `gorm:"column:question_options;type:jsonb;not null" json:"question_options"`

	QuestionCreatedAt time.Time      `gorm:"column:question_created_at;type:timestamptz;not null;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time      `gorm:"column:question_updated_at;type:timestamptz;not null;autoUpdateTime" json:"question_updated_at"`
	QuestionDeletedAt gorm.DeletedAt `gorm:"column:question_deleted_at;index" json:"question_deleted_at,omitempty"`
}

func (QuestionModel) TableName() string { return "questions" }

func (m *QuestionModel) BeforeCreate(_ *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}

func (m *QuestionModel) IsSystemAuthored() bool { return m.QuestionTeacherID == nil }

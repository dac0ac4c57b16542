// file: internals/features/school/difficulties/model/student_difficulty_grade_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: student_difficulty_grades
   Catatan:
   - Tepat SATU baris hidup per (student, difficulty) → unique index komposit.
   - Dibuat lazy saat finalisasi sesi pertama; TIDAK pernah hard-delete.
   - Satu-satunya penulis di luar lazy create adalah GradeTrackerService
     (finalisasi reinforcement session).
============================================================================= */

type StudentDifficultyGradeModel struct {
	StudentDifficultyGradeID uuid.UUID `gorm:"column:student_difficulty_grade_id;type:uuid;primaryKey" json:"student_difficulty_grade_id"`

	StudentDifficultyGradeStudentID    uuid.UUID `gorm:"column:student_difficulty_grade_student_id;type:uuid;not null;uniqueIndex:uq_sdg_student_difficulty,priority:1" json:"student_difficulty_grade_student_id"`
	StudentDifficultyGradeDifficultyID uuid.UUID `gorm:"column:student_difficulty_grade_difficulty_id;type:uuid;not null;uniqueIndex:uq_sdg_student_difficulty,priority:2" json:"student_difficulty_grade_difficulty_id"`

	StudentDifficultyGradeCurrent DifficultyGrade `gorm:"column:student_difficulty_grade_current;type:varchar(8);not null;default:'none'" json:"student_difficulty_grade_current"`

	StudentDifficultyGradeCreatedAt time.Time `gorm:"column:student_difficulty_grade_created_at;type:timestamptz;not null;autoCreateTime" json:"student_difficulty_grade_created_at"`
	StudentDifficultyGradeUpdatedAt time.Time `gorm:"column:student_difficulty_grade_updated_at;type:timestamptz;not null;autoUpdateTime" json:"student_difficulty_grade_updated_at"`
}

func (StudentDifficultyGradeModel) TableName() string { return "student_difficulty_grades" }

func (m *StudentDifficultyGradeModel) BeforeCreate(_ *gorm.DB) error {
	if m.StudentDifficultyGradeID == uuid.Nil {
		m.StudentDifficultyGradeID = uuid.New()
	}
	if m.StudentDifficultyGradeCurrent == "" {
		m.StudentDifficultyGradeCurrent = GradeNone
	}
	return nil
}

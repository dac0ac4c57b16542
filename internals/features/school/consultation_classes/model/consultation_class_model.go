// file: internals/features/school/consultation_classes/model/consultation_class_model.go
package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   ENUM-like: Base Status ('scheduled','held','not_held','pending_assignment')
   Di-set oleh aksi bisnis (assign teacher, close-out). Status TAMPILAN
   diturunkan per-read oleh ResolveStatus — tidak pernah dipersist.
============================================================================= */

type ClassBaseStatus string

const (
	ClassBaseScheduled         ClassBaseStatus = "scheduled"
	ClassBaseHeld              ClassBaseStatus = "held"
	ClassBaseNotHeld           ClassBaseStatus = "not_held"
	ClassBasePendingAssignment ClassBaseStatus = "pending_assignment"
)

func (s ClassBaseStatus) String() string { return string(s) }

func (s ClassBaseStatus) Valid() bool {
	switch s {
	case ClassBaseScheduled, ClassBaseHeld, ClassBaseNotHeld, ClassBasePendingAssignment:
		return true
	default:
		return false
	}
}

func (s *ClassBaseStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ClassBaseStatus(v)
	case []byte:
		*s = ClassBaseStatus(string(v))
	default:
		return fmt.Errorf("unsupported type for ClassBaseStatus: %T", value)
	}
	if !s.Valid() {
		return fmt.Errorf("invalid ClassBaseStatus: %q", *s)
	}
	return nil
}

func (s ClassBaseStatus) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ClassBaseStatus: %q", s)
	}
	return string(s), nil
}

/* =============================================================================
   Derived status (display) — hasil ResolveStatus, free variable 'now'.
============================================================================= */

type ClassDerivedStatus string

const (
	ClassScheduled         ClassDerivedStatus = "scheduled"
	ClassInProgress        ClassDerivedStatus = "in_progress"
	ClassClosingSoon       ClassDerivedStatus = "closing_soon"
	ClassHeld              ClassDerivedStatus = "held"
	ClassNotHeld           ClassDerivedStatus = "not_held"
	ClassCancelled         ClassDerivedStatus = "cancelled"
	ClassPendingAssignment ClassDerivedStatus = "pending_assignment"
)

/* =============================================================================
   MODEL: consultation_classes
   Soft delete (deleted_at) = pembatalan kelas; precedence tertinggi saat
   resolve status.
============================================================================= */

type ConsultationClassModel struct {
	ConsultationClassID       uuid.UUID `gorm:"column:consultation_class_id;type:uuid;primaryKey" json:"consultation_class_id"`
	ConsultationClassCourseID uuid.UUID `gorm:"column:consultation_class_course_id;type:uuid;not null;index:idx_cc_course" json:"consultation_class_course_id"`

	// NULL = belum ada teacher → base status pending_assignment
	ConsultationClassTeacherID *uuid.UUID `gorm:"column:consultation_class_teacher_id;type:uuid" json:"consultation_class_teacher_id,omitempty"`

	ConsultationClassTitle   string    `gorm:"column:consultation_class_title;type:varchar(180);not null" json:"consultation_class_title"`
	ConsultationClassStartAt time.Time `gorm:"column:consultation_class_start_at;type:timestamptz;not null" json:"consultation_class_start_at"`
	ConsultationClassEndAt   time.Time `gorm:"column:consultation_class_end_at;type:timestamptz;not null" json:"consultation_class_end_at"`

	ConsultationClassBaseStatus ClassBaseStatus `gorm:"column:consultation_class_base_status;type:varchar(20);not null;default:'scheduled'" json:"consultation_class_base_status"`

	ConsultationClassCreatedAt time.Time      `gorm:"column:consultation_class_created_at;type:timestamptz;not null;autoCreateTime" json:"consultation_class_created_at"`
	ConsultationClassUpdatedAt time.Time      `gorm:"column:consultation_class_updated_at;type:timestamptz;not null;autoUpdateTime" json:"consultation_class_updated_at"`
	ConsultationClassDeletedAt gorm.DeletedAt `gorm:"column:consultation_class_deleted_at;index" json:"consultation_class_deleted_at,omitempty"`
}

func (ConsultationClassModel) TableName() string { return "consultation_classes" }

func (m *ConsultationClassModel) BeforeCreate(_ *gorm.DB) error {
	if m.ConsultationClassID == uuid.Nil {
		m.ConsultationClassID = uuid.New()
	}
	if m.ConsultationClassBaseStatus == "" {
		if m.ConsultationClassTeacherID == nil {
			m.ConsultationClassBaseStatus = ClassBasePendingAssignment
		} else {
			m.ConsultationClassBaseStatus = ClassBaseScheduled
		}
	}
	return nil
}

/* ===================================================================
   STATUS RESOLVER — fungsi murni dari (now, jadwal, base, deleted_at)
   Precedence:
   1. cancelled (soft delete)
   2. not_held eksplisit (hasil dicatat setelah kejadian; window basi
      tidak boleh menimpanya)
   3. pending_assignment — beku sampai ada aksi assign, meski end_at
      sudah lewat
   4. turunan waktu: scheduled / in_progress / (held | closing_soon)
   Dihitung ulang di SETIAP read; tidak pernah dipersist.
=================================================================== */

func (m *ConsultationClassModel) ResolveStatus(now time.Time) ClassDerivedStatus {
	if m.ConsultationClassDeletedAt.Valid {
		return ClassCancelled
	}
	if m.ConsultationClassBaseStatus == ClassBaseNotHeld {
		return ClassNotHeld
	}
	if m.ConsultationClassBaseStatus == ClassBasePendingAssignment {
		return ClassPendingAssignment
	}

	switch {
	case now.Before(m.ConsultationClassStartAt):
		return ClassScheduled
	case now.Before(m.ConsultationClassEndAt):
		return ClassInProgress
	default:
		if m.ConsultationClassBaseStatus == ClassBaseHeld {
			return ClassHeld
		}
		// window habis tapi belum ada close-out yang mencatat hasil
		return ClassClosingSoon
	}
}

/* =============================================================================
   MODEL: consultations (item review di dalam kelas)
============================================================================= */

type ConsultationModel struct {
	ConsultationID        uuid.UUID `gorm:"column:consultation_id;type:uuid;primaryKey" json:"consultation_id"`
	ConsultationClassID   uuid.UUID `gorm:"column:consultation_class_id;type:uuid;not null;index:idx_consultation_class" json:"consultation_class_id"`
	ConsultationStudentID uuid.UUID `gorm:"column:consultation_student_id;type:uuid;not null;index:idx_consultation_student" json:"consultation_student_id"`

	ConsultationQuestionText string `gorm:"column:consultation_question_text;type:text;not null" json:"consultation_question_text"`
	ConsultationIsReviewed   bool   `gorm:"column:consultation_is_reviewed;not null;default:false" json:"consultation_is_reviewed"`

	ConsultationCreatedAt time.Time      `gorm:"column:consultation_created_at;type:timestamptz;not null;autoCreateTime" json:"consultation_created_at"`
	ConsultationUpdatedAt time.Time      `gorm:"column:consultation_updated_at;type:timestamptz;not null;autoUpdateTime" json:"consultation_updated_at"`
	ConsultationDeletedAt gorm.DeletedAt `gorm:"column:consultation_deleted_at;index" json:"consultation_deleted_at,omitempty"`
}

func (ConsultationModel) TableName() string { return "consultations" }

func (m *ConsultationModel) BeforeCreate(_ *gorm.DB) error {
	if m.ConsultationID == uuid.Nil {
		m.ConsultationID = uuid.New()
	}
	return nil
}

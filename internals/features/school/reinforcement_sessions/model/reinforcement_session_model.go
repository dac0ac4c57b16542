// file: internals/features/school/reinforcement_sessions/model/reinforcement_session_model.go
package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
)

/* =============================================================================
   ENUM-like: Session Status
   ('pending','completed','incomplete','not_held','cancelled')
   - pending = initial; sisanya terminal, transisi satu arah.
   - result (answers/score/grade_before/grade_after) terisi IFF completed.
============================================================================= */

type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionCompleted  SessionStatus = "completed"
	SessionIncomplete SessionStatus = "incomplete"
	SessionNotHeld    SessionStatus = "not_held"
	SessionCancelled  SessionStatus = "cancelled"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionCompleted, SessionIncomplete, SessionNotHeld, SessionCancelled:
		return true
	default:
		return false
	}
}

func (s SessionStatus) IsTerminal() bool {
	return s.Valid() && s != SessionPending
}

func (s *SessionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SessionStatus(v)
	case []byte:
		*s = SessionStatus(string(v))
	default:
		return fmt.Errorf("unsupported type for SessionStatus: %T", value)
	}
	if !s.Valid() {
		return fmt.Errorf("invalid SessionStatus: %q", *s)
	}
	return nil
}

func (s SessionStatus) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SessionStatus: %q", s)
	}
	return string(s), nil
}

/* =============================================================================
   MODEL: reinforcement_sessions
   Catatan:
   - reinforcement_session_number: nomor urut per siswa (1,2,3,...).
   - reinforcement_session_question_ids: SNAPSHOT id soal saat create —
     edit/hapus soal setelahnya tidak mengubah sesi yang sudah ada.
   - reinforcement_session_answers: map question_id → chosen_option_id.
     Diisi bertahap (save answers) lalu final saat submit; dasar auto-submit
     ketika deadline lewat.
   - created_by_teacher_id NULL = sesi dibuat proses otomatis.
============================================================================= */

type ReinforcementSessionModel struct {
	ReinforcementSessionID       uuid.UUID `gorm:"column:reinforcement_session_id;type:uuid;primaryKey" json:"reinforcement_session_id"`
	ReinforcementSessionCourseID uuid.UUID `gorm:"column:reinforcement_session_course_id;type:uuid;not null;index:idx_rs_course" json:"reinforcement_session_course_id"`

	ReinforcementSessionNumber    int       `gorm:"column:reinforcement_session_number;not null" json:"reinforcement_session_number"`
	ReinforcementSessionStudentID uuid.UUID `gorm:"column:reinforcement_session_student_id;type:uuid;not null;index:idx_rs_student_status,priority:1" json:"reinforcement_session_student_id"`

	ReinforcementSessionDifficultyID    uuid.UUID              `gorm:"column:reinforcement_session_difficulty_id;type:uuid;not null;index:idx_rs_difficulty" json:"reinforcement_session_difficulty_id"`
	ReinforcementSessionGradeAtCreation dmodel.DifficultyGrade `gorm:"column:reinforcement_session_grade_at_creation;type:varchar(8);not null" json:"reinforcement_session_grade_at_creation"`

	ReinforcementSessionCreatedByTeacherID *uuid.UUID `gorm:"column:reinforcement_session_created_by_teacher_id;type:uuid" json:"reinforcement_session_created_by_teacher_id,omitempty"`

	// Jadwal
	ReinforcementSessionDeadlineAt       time.Time `gorm:"column:reinforcement_session_deadline_at;type:timestamptz;not null;index:idx_rs_deadline" json:"reinforcement_session_deadline_at"`
	ReinforcementSessionTimeLimitMinutes int       `gorm:"column:reinforcement_session_time_limit_minutes;not null" json:"reinforcement_session_time_limit_minutes"`

	// Lifecycle
	ReinforcementSessionStatus    SessionStatus `gorm:"column:reinforcement_session_status;type:varchar(12);not null;default:'pending';index:idx_rs_student_status,priority:2" json:"reinforcement_session_status"`
	ReinforcementSessionStartedAt *time.Time    `gorm:"column:reinforcement_session_started_at;type:timestamptz" json:"reinforcement_session_started_at,omitempty"`

	// Konten (snapshot, immutable setelah create)
	ReinforcementSessionQuestionIDs pq.StringArray `gorm:"column:reinforcement_session_question_ids;type:text[];not null" json:"reinforcement_session_question_ids"`

	// Jawaban berjalan + hasil (hasil hanya saat completed)
	ReinforcementSessionAnswers         datatypes.JSONMap `gorm:"column:reinforcement_session_answers;type:jsonb" json:"reinforcement_session_answers,omitempty"`
	ReinforcementSessionCorrectCount    *int              `gorm:"column:reinforcement_session_correct_count" json:"reinforcement_session_correct_count,omitempty"`
	ReinforcementSessionWrongCount      *int              `gorm:"column:reinforcement_session_wrong_count" json:"reinforcement_session_wrong_count,omitempty"`
	ReinforcementSessionAccuracyPercent *float64          `gorm:"column:reinforcement_session_accuracy_percent;type:numeric(6,3)" json:"reinforcement_session_accuracy_percent,omitempty"`

	ReinforcementSessionGradeBefore *dmodel.DifficultyGrade `gorm:"column:reinforcement_session_grade_before;type:varchar(8)" json:"reinforcement_session_grade_before,omitempty"`
	ReinforcementSessionGradeAfter  *dmodel.DifficultyGrade `gorm:"column:reinforcement_session_grade_after;type:varchar(8)" json:"reinforcement_session_grade_after,omitempty"`

	ReinforcementSessionCancelReason *string `gorm:"column:reinforcement_session_cancel_reason" json:"reinforcement_session_cancel_reason,omitempty"`

	// Audit
	ReinforcementSessionCreatedAt time.Time `gorm:"column:reinforcement_session_created_at;type:timestamptz;not null;autoCreateTime" json:"reinforcement_session_created_at"`
	ReinforcementSessionUpdatedAt time.Time `gorm:"column:reinforcement_session_updated_at;type:timestamptz;not null;autoUpdateTime" json:"reinforcement_session_updated_at"`
}

func (ReinforcementSessionModel) TableName() string { return "reinforcement_sessions" }

func (m *ReinforcementSessionModel) BeforeCreate(_ *gorm.DB) error {
	if m.ReinforcementSessionID == uuid.Nil {
		m.ReinforcementSessionID = uuid.New()
	}
	if m.ReinforcementSessionStatus == "" {
		m.ReinforcementSessionStatus = SessionPending
	}
	return nil
}

/* ===================================================================
   EXAM CLOCK — server authoritative
   Deadline pengerjaan = started_at + time_limit, dibatasi deadline_at
   sesi. Client hanya menghitung sisa waktu dari nilai persisted ini;
   reload tidak pernah menambah waktu.
=================================================================== */

func (m *ReinforcementSessionModel) IsStarted() bool {
	return m.ReinforcementSessionStartedAt != nil
}

// WorkDeadline: batas akhir pengerjaan setelah start. (nil kalau belum start)
func (m *ReinforcementSessionModel) WorkDeadline() *time.Time {
	if m.ReinforcementSessionStartedAt == nil {
		return nil
	}
	d := m.ReinforcementSessionStartedAt.Add(time.Duration(m.ReinforcementSessionTimeLimitMinutes) * time.Minute)
	if d.After(m.ReinforcementSessionDeadlineAt) {
		d = m.ReinforcementSessionDeadlineAt
	}
	return &d
}

// RemainingSeconds: sisa waktu pengerjaan di 'now' (0 kalau habis, nil kalau
// belum start). Sumber kebenaran untuk re-sync countdown client.
func (m *ReinforcementSessionModel) RemainingSeconds(now time.Time) *int64 {
	d := m.WorkDeadline()
	if d == nil {
		return nil
	}
	rem := int64(d.Sub(now).Seconds())
	if rem < 0 {
		rem = 0
	}
	return &rem
}

// ExpiryDue: sesi pending ini sudah layak di-expire oleh sweep/read?
// - belum start → hanya saat deadline_at lewat
// - sudah start  → saat jam kerja habis ATAU deadline_at lewat
func (m *ReinforcementSessionModel) ExpiryDue(now time.Time) bool {
	if m.ReinforcementSessionStatus != SessionPending {
		return false
	}
	if now.After(m.ReinforcementSessionDeadlineAt) {
		return true
	}
	if d := m.WorkDeadline(); d != nil && now.After(*d) {
		return true
	}
	return false
}

// AnswerFor: chosen_option_id untuk satu soal dari map jawaban ("" = belum jawab).
func (m *ReinforcementSessionModel) AnswerFor(questionID uuid.UUID) string {
	if m.ReinforcementSessionAnswers == nil {
		return ""
	}
	if v, ok := m.ReinforcementSessionAnswers[questionID.String()]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// file: internals/features/school/reinforcement_sessions/dto/reinforcement_session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
	smodel "akademiku_backend/internals/features/school/reinforcement_sessions/model"
	svc "akademiku_backend/internals/features/school/reinforcement_sessions/service"
)

/* ==========================================================================================
   REQUEST — CREATE
   student_id dikirim teacher; proses otomatis mengisi sendiri lewat service.
========================================================================================== */

type CreateReinforcementSessionRequest struct {
	ReinforcementSessionCourseID     uuid.UUID `json:"reinforcement_session_course_id" validate:"required"`
	ReinforcementSessionStudentID    uuid.UUID `json:"reinforcement_session_student_id" validate:"required"`
	ReinforcementSessionDifficultyID uuid.UUID `json:"reinforcement_session_difficulty_id" validate:"required"`

	ReinforcementSessionDeadlineAt       time.Time `json:"reinforcement_session_deadline_at" validate:"required"`
	ReinforcementSessionTimeLimitMinutes int       `json:"reinforcement_session_time_limit_minutes" validate:"required,gt=0"`

	// Maks 3 soal tambahan pilihan teacher
	ExtraQuestionIDs []uuid.UUID `json:"extra_question_ids" validate:"omitempty,max=3"`
}

func (r *CreateReinforcementSessionRequest) ToInput(teacherID *uuid.UUID) svc.CreateSessionInput {
	return svc.CreateSessionInput{
		CourseID:           r.ReinforcementSessionCourseID,
		StudentID:          r.ReinforcementSessionStudentID,
		DifficultyID:       r.ReinforcementSessionDifficultyID,
		DeadlineAt:         r.ReinforcementSessionDeadlineAt,
		TimeLimitMinutes:   r.ReinforcementSessionTimeLimitMinutes,
		ExtraQuestionIDs:   r.ExtraQuestionIDs,
		CreatedByTeacherID: teacherID,
	}
}

/* ==========================================================================================
   REQUEST — ANSWERS / SUBMIT / CANCEL
========================================================================================== */

type AnswerItem struct {
	QuestionID     uuid.UUID `json:"question_id" validate:"required"`
	ChosenOptionID uuid.UUID `json:"chosen_option_id" validate:"required"`
}

type SaveAnswersRequest struct {
	Answers []AnswerItem `json:"answers" validate:"required,min=1,dive"`
}

type SubmitSessionRequest struct {
	// Boleh kosong: submit tetap menilai (jalur auto-submit expiry)
	Answers []AnswerItem `json:"answers" validate:"omitempty,dive"`
}

func AnswersToMap(items []AnswerItem) map[uuid.UUID]uuid.UUID {
	m := make(map[uuid.UUID]uuid.UUID, len(items))
	for _, it := range items {
		m[it.QuestionID] = it.ChosenOptionID
	}
	return m
}

type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

/* ==========================================================================================
   RESPONSE
   Ikut membawa payload exam clock (work_deadline, remaining_seconds) supaya
   client yang reload bisa re-sync countdown dari nilai server, bukan dari
   timer lokal yang tersimpan.
========================================================================================== */

type SessionResultResponse struct {
	Answers         map[string]any         `json:"answers"`
	CorrectCount    int                    `json:"correct_count"`
	WrongCount      int                    `json:"wrong_count"`
	AccuracyPercent float64                `json:"accuracy_percent"`
	GradeBefore     dmodel.DifficultyGrade `json:"grade_before"`
	GradeAfter      dmodel.DifficultyGrade `json:"grade_after"`
}

type ReinforcementSessionResponse struct {
	ReinforcementSessionID       uuid.UUID `json:"reinforcement_session_id"`
	ReinforcementSessionCourseID uuid.UUID `json:"reinforcement_session_course_id"`
	ReinforcementSessionNumber   int       `json:"reinforcement_session_number"`

	ReinforcementSessionStudentID          uuid.UUID              `json:"reinforcement_session_student_id"`
	ReinforcementSessionDifficultyID       uuid.UUID              `json:"reinforcement_session_difficulty_id"`
	ReinforcementSessionGradeAtCreation    dmodel.DifficultyGrade `json:"reinforcement_session_grade_at_creation"`
	ReinforcementSessionCreatedByTeacherID *uuid.UUID             `json:"reinforcement_session_created_by_teacher_id,omitempty"`

	ReinforcementSessionDeadlineAt       time.Time `json:"reinforcement_session_deadline_at"`
	ReinforcementSessionTimeLimitMinutes int       `json:"reinforcement_session_time_limit_minutes"`

	ReinforcementSessionStatus    smodel.SessionStatus `json:"reinforcement_session_status"`
	ReinforcementSessionStartedAt *time.Time           `json:"reinforcement_session_started_at,omitempty"`

	ReinforcementSessionQuestionIDs []string `json:"reinforcement_session_question_ids"`

	// Exam clock (nil sebelum start)
	WorkDeadline     *time.Time `json:"work_deadline,omitempty"`
	RemainingSeconds *int64     `json:"remaining_seconds,omitempty"`

	ReinforcementSessionCancelReason *string `json:"reinforcement_session_cancel_reason,omitempty"`

	Result *SessionResultResponse `json:"result,omitempty"`

	ReinforcementSessionCreatedAt time.Time `json:"reinforcement_session_created_at"`
}

func FromModel(m *smodel.ReinforcementSessionModel, now time.Time) *ReinforcementSessionResponse {
	resp := &ReinforcementSessionResponse{
		ReinforcementSessionID:                 m.ReinforcementSessionID,
		ReinforcementSessionCourseID:           m.ReinforcementSessionCourseID,
		ReinforcementSessionNumber:             m.ReinforcementSessionNumber,
		ReinforcementSessionStudentID:          m.ReinforcementSessionStudentID,
		ReinforcementSessionDifficultyID:       m.ReinforcementSessionDifficultyID,
		ReinforcementSessionGradeAtCreation:    m.ReinforcementSessionGradeAtCreation,
		ReinforcementSessionCreatedByTeacherID: m.ReinforcementSessionCreatedByTeacherID,
		ReinforcementSessionDeadlineAt:         m.ReinforcementSessionDeadlineAt,
		ReinforcementSessionTimeLimitMinutes:   m.ReinforcementSessionTimeLimitMinutes,
		ReinforcementSessionStatus:             m.ReinforcementSessionStatus,
		ReinforcementSessionStartedAt:          m.ReinforcementSessionStartedAt,
		ReinforcementSessionQuestionIDs:        m.ReinforcementSessionQuestionIDs,
		ReinforcementSessionCancelReason:       m.ReinforcementSessionCancelReason,
		ReinforcementSessionCreatedAt:          m.ReinforcementSessionCreatedAt,
	}

	// clock hanya relevan selama pending+started
	if m.ReinforcementSessionStatus == smodel.SessionPending && m.IsStarted() {
		resp.WorkDeadline = m.WorkDeadline()
		resp.RemainingSeconds = m.RemainingSeconds(now)
	}

	// result IFF completed
	if m.ReinforcementSessionStatus == smodel.SessionCompleted &&
		m.ReinforcementSessionCorrectCount != nil &&
		m.ReinforcementSessionWrongCount != nil &&
		m.ReinforcementSessionAccuracyPercent != nil &&
		m.ReinforcementSessionGradeBefore != nil &&
		m.ReinforcementSessionGradeAfter != nil {
		resp.Result = &SessionResultResponse{
			Answers:         m.ReinforcementSessionAnswers,
			CorrectCount:    *m.ReinforcementSessionCorrectCount,
			WrongCount:      *m.ReinforcementSessionWrongCount,
			AccuracyPercent: *m.ReinforcementSessionAccuracyPercent,
			GradeBefore:     *m.ReinforcementSessionGradeBefore,
			GradeAfter:      *m.ReinforcementSessionGradeAfter,
		}
	}

	return resp
}

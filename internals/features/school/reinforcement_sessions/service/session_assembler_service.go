// file: internals/features/school/reinforcement_sessions/service/session_assembler_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
	qmodel "akademiku_backend/internals/features/school/questions/model"
)

// MaxExtraQuestions: batas soal tambahan pilihan teacher per sesi.
const MaxExtraQuestions = 3

var (
	ErrNoDeficiency        = errors.New("student has no deficiency for this difficulty")
	ErrInsufficientContent = errors.New("no questions available for this difficulty and grade")
	ErrTooManyExtras       = errors.New("too many extra questions")
)

/* =========================================================
   ASSEMBLER
   Pool = SEMUA soal sistem ber-tag (difficulty, grade saat ini)
   + maksimal 3 soal pilihan teacher. Id soal di-snapshot ke
   sesi; edit soal belakangan tidak mengubah sesi yang ada.
========================================================= */

type assembledSession struct {
	Grade       dmodel.DifficultyGrade
	QuestionIDs []uuid.UUID
}

func (s *ReinforcementSessionService) assemble(
	ctx context.Context,
	courseID, studentID, difficultyID uuid.UUID,
	extraQuestionIDs []uuid.UUID,
) (*assembledSession, error) {
	if len(extraQuestionIDs) > MaxExtraQuestions {
		return nil, ErrTooManyExtras
	}

	grade, err := s.Tracker.CurrentGrade(ctx, studentID, difficultyID)
	if err != nil {
		return nil, err
	}
	if grade == dmodel.GradeNone {
		// difficulty sudah teratasi → tidak boleh melahirkan sesi baru
		return nil, ErrNoDeficiency
	}

	// Soal sistem (teacher_id NULL) ber-tag (difficulty, grade)
	var pool []qmodel.QuestionModel
	if err := s.DB.WithContext(ctx).
		Where("question_course_id = ? AND question_difficulty_id = ? AND question_grade = ? AND question_teacher_id IS NULL",
			courseID, difficultyID, grade).
		Order("question_created_at ASC").
		Find(&pool).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(pool)+len(extraQuestionIDs))
	seen := make(map[uuid.UUID]struct{}, len(pool)+len(extraQuestionIDs))
	for _, q := range pool {
		ids = append(ids, q.QuestionID)
		seen[q.QuestionID] = struct{}{}
	}

	// Soal tambahan pilihan teacher: harus ada & se-course (tag grade bebas,
	// ini pengayaan opsional)
	for _, qid := range extraQuestionIDs {
		if _, dup := seen[qid]; dup {
			continue
		}
		var q qmodel.QuestionModel
		if err := s.DB.WithContext(ctx).
			Where("question_id = ? AND question_course_id = ?", qid, courseID).
			First(&q).Error; err != nil {
			return nil, fmt.Errorf("extra question %s: %w", qid, err)
		}
		ids = append(ids, q.QuestionID)
		seen[q.QuestionID] = struct{}{}
	}

	if len(ids) == 0 {
		return nil, ErrInsufficientContent
	}

	return &assembledSession{Grade: grade, QuestionIDs: ids}, nil
}

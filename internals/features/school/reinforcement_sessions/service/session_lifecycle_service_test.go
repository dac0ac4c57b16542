// file: internals/features/school/reinforcement_sessions/service/session_lifecycle_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
	qmodel "akademiku_backend/internals/features/school/questions/model"
	smodel "akademiku_backend/internals/features/school/reinforcement_sessions/model"
)

type sessionEnv struct {
	svc          *ReinforcementSessionService
	db           *gorm.DB
	now          time.Time
	courseID     uuid.UUID
	studentID    uuid.UUID
	difficultyID uuid.UUID
	questionIDs  []uuid.UUID  // 2 soal sistem ber-tag (difficulty, medium)
	correctIDs   []uuid.UUID  // opsi benar per soal, urutan sama
}

func (e *sessionEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&dmodel.StudentDifficultyGradeModel{},
		&qmodel.QuestionModel{},
		&smodel.ReinforcementSessionModel{},
	))

	env := &sessionEnv{
		db:           db,
		now:          time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		courseID:     uuid.New(),
		studentID:    uuid.New(),
		difficultyID: uuid.New(),
	}

	env.svc = NewReinforcementSessionService(db)
	env.svc.Now = func() time.Time { return env.now }
	env.svc.Tracker.DB = db

	// grade awal: medium (siswa punya defisiensi)
	require.NoError(t, db.Create(&dmodel.StudentDifficultyGradeModel{
		StudentDifficultyGradeStudentID:    env.studentID,
		StudentDifficultyGradeDifficultyID: env.difficultyID,
		StudentDifficultyGradeCurrent:      dmodel.GradeMedium,
	}).Error)

	// 2 soal sistem ber-tag (difficulty, medium)
	for i := 0; i < 2; i++ {
		correct := uuid.New()
		q := &qmodel.QuestionModel{
			QuestionCourseID:     env.courseID,
			QuestionDifficultyID: env.difficultyID,
			QuestionGrade:        dmodel.GradeMedium,
			QuestionEnunciation:  fmt.Sprintf("Soal %d", i+1),
			QuestionOptions: qmodel.QuestionOptions{
				{OptionID: correct, OptionText: "benar", IsCorrect: true},
				{OptionID: uuid.New(), OptionText: "salah", IsCorrect: false},
			},
		}
		require.NoError(t, db.Create(q).Error)
		env.questionIDs = append(env.questionIDs, q.QuestionID)
		env.correctIDs = append(env.correctIDs, correct)
	}
	return env
}

func (e *sessionEnv) createSession(t *testing.T) *smodel.ReinforcementSessionModel {
	t.Helper()
	sess, err := e.svc.Create(context.Background(), CreateSessionInput{
		CourseID:         e.courseID,
		StudentID:        e.studentID,
		DifficultyID:     e.difficultyID,
		DeadlineAt:       e.now.Add(24 * time.Hour),
		TimeLimitMinutes: 30,
	})
	require.NoError(t, err)
	return sess
}

func (e *sessionEnv) currentGrade(t *testing.T) dmodel.DifficultyGrade {
	t.Helper()
	g, err := e.svc.Tracker.CurrentGrade(context.Background(), e.studentID, e.difficultyID)
	require.NoError(t, err)
	return g
}

/* ===================== CREATE ===================== */

func TestCreateSnapshotsPoolAndNumbersPerStudent(t *testing.T) {
	env := newSessionEnv(t)

	s1 := env.createSession(t)
	assert.Equal(t, 1, s1.ReinforcementSessionNumber)
	assert.Equal(t, smodel.SessionPending, s1.ReinforcementSessionStatus)
	assert.Equal(t, dmodel.GradeMedium, s1.ReinforcementSessionGradeAtCreation)
	assert.Len(t, s1.ReinforcementSessionQuestionIDs, 2)
	assert.Nil(t, s1.ReinforcementSessionStartedAt)

	s2 := env.createSession(t)
	assert.Equal(t, 2, s2.ReinforcementSessionNumber)
}

func TestCreateFailsWithoutDeficiency(t *testing.T) {
	env := newSessionEnv(t)

	// grade 'none' = defisiensi sudah teratasi
	require.NoError(t, env.db.Model(&dmodel.StudentDifficultyGradeModel{}).
		Where("student_difficulty_grade_student_id = ?", env.studentID).
		Update("student_difficulty_grade_current", dmodel.GradeNone).Error)

	_, err := env.svc.Create(context.Background(), CreateSessionInput{
		CourseID:         env.courseID,
		StudentID:        env.studentID,
		DifficultyID:     env.difficultyID,
		DeadlineAt:       env.now.Add(time.Hour),
		TimeLimitMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrNoDeficiency)
}

func TestCreateFailsWithoutQuestionsForGrade(t *testing.T) {
	env := newSessionEnv(t)

	// grade high, tapi pool soal hanya ber-tag medium
	require.NoError(t, env.db.Model(&dmodel.StudentDifficultyGradeModel{}).
		Where("student_difficulty_grade_student_id = ?", env.studentID).
		Update("student_difficulty_grade_current", dmodel.GradeHigh).Error)

	_, err := env.svc.Create(context.Background(), CreateSessionInput{
		CourseID:         env.courseID,
		StudentID:        env.studentID,
		DifficultyID:     env.difficultyID,
		DeadlineAt:       env.now.Add(time.Hour),
		TimeLimitMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInsufficientContent)
}

func TestCreateRejectsTooManyExtras(t *testing.T) {
	env := newSessionEnv(t)

	extras := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	_, err := env.svc.Create(context.Background(), CreateSessionInput{
		CourseID:         env.courseID,
		StudentID:        env.studentID,
		DifficultyID:     env.difficultyID,
		DeadlineAt:       env.now.Add(time.Hour),
		TimeLimitMinutes: 30,
		ExtraQuestionIDs: extras,
	})
	assert.ErrorIs(t, err, ErrTooManyExtras)
}

func TestCreateRejectsPastDeadline(t *testing.T) {
	env := newSessionEnv(t)

	_, err := env.svc.Create(context.Background(), CreateSessionInput{
		CourseID:         env.courseID,
		StudentID:        env.studentID,
		DifficultyID:     env.difficultyID,
		DeadlineAt:       env.now.Add(-time.Minute),
		TimeLimitMinutes: 30,
	})
	assert.Error(t, err)
}

/* ===================== START & EXAM CLOCK ===================== */

func TestStartIsIdempotent(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	started, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)
	require.NotNil(t, started.ReinforcementSessionStartedAt)
	firstStart := *started.ReinforcementSessionStartedAt

	env.advance(5 * time.Minute)
	again, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)
	assert.True(t, again.ReinforcementSessionStartedAt.Equal(firstStart), "retry start tidak boleh menggeser started_at")
}

func TestStartAfterDeadlineFails(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)

	env.advance(25 * time.Hour)
	_, err := env.svc.Start(context.Background(), sess.ReinforcementSessionID)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestWorkDeadlineCappedBySessionDeadline(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	// deadline 10 menit lagi, time limit 30 menit → cap di deadline
	sess, err := env.svc.Create(ctx, CreateSessionInput{
		CourseID:         env.courseID,
		StudentID:        env.studentID,
		DifficultyID:     env.difficultyID,
		DeadlineAt:       env.now.Add(10 * time.Minute),
		TimeLimitMinutes: 30,
	})
	require.NoError(t, err)

	started, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	d := started.WorkDeadline()
	require.NotNil(t, d)
	assert.True(t, d.Equal(started.ReinforcementSessionDeadlineAt))

	rem := started.RemainingSeconds(env.now)
	require.NotNil(t, rem)
	assert.Equal(t, int64(600), *rem)
}

/* ===================== SAVE ANSWERS ===================== */

func TestSaveAnswersMergesAndValidatesSnapshot(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	saved, err := env.svc.SaveAnswers(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
	})
	require.NoError(t, err)
	assert.Equal(t, env.correctIDs[0].String(), saved.AnswerFor(env.questionIDs[0]))

	// merge: jawaban soal kedua tidak menghapus jawaban pertama
	saved, err = env.svc.SaveAnswers(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[1]: env.correctIDs[1],
	})
	require.NoError(t, err)
	assert.Equal(t, env.correctIDs[0].String(), saved.AnswerFor(env.questionIDs[0]))
	assert.Equal(t, env.correctIDs[1].String(), saved.AnswerFor(env.questionIDs[1]))

	// soal di luar snapshot ditolak
	_, err = env.svc.SaveAnswers(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		uuid.New(): uuid.New(),
	})
	assert.ErrorIs(t, err, ErrQuestionNotInSession)
}

func TestSaveAnswersBeforeStartFails(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)

	_, err := env.svc.SaveAnswers(context.Background(), sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
	})
	assert.ErrorIs(t, err, ErrSessionNotStarted)
}

/* ===================== SUBMIT & GRADING ===================== */

func TestSubmitAllCorrectImprovesGrade(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	env.advance(5 * time.Minute)
	done, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
		env.questionIDs[1]: env.correctIDs[1],
	})
	require.NoError(t, err)

	assert.Equal(t, smodel.SessionCompleted, done.ReinforcementSessionStatus)
	require.NotNil(t, done.ReinforcementSessionAccuracyPercent)
	assert.InDelta(t, 100.0, *done.ReinforcementSessionAccuracyPercent, 0.001)
	assert.Equal(t, 2, *done.ReinforcementSessionCorrectCount)
	assert.Equal(t, 0, *done.ReinforcementSessionWrongCount)
	assert.Equal(t, dmodel.GradeMedium, *done.ReinforcementSessionGradeBefore)
	assert.Equal(t, dmodel.GradeLow, *done.ReinforcementSessionGradeAfter)

	// record of truth ikut berubah dalam transaksi yang sama
	assert.Equal(t, dmodel.GradeLow, env.currentGrade(t))
}

func TestSubmitBelowThresholdWorsensGrade(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	// 1 dari 2 benar = 50% < 70 → medium naik ke high
	done, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
	})
	require.NoError(t, err)

	assert.Equal(t, 1, *done.ReinforcementSessionCorrectCount)
	assert.Equal(t, 1, *done.ReinforcementSessionWrongCount)
	assert.InDelta(t, 50.0, *done.ReinforcementSessionAccuracyPercent, 0.001)
	assert.Equal(t, dmodel.GradeHigh, *done.ReinforcementSessionGradeAfter)
	assert.Equal(t, dmodel.GradeHigh, env.currentGrade(t))
}

func TestSubmitUnansweredCountsAsWrong(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	done, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, *done.ReinforcementSessionCorrectCount)
	assert.Equal(t, 2, *done.ReinforcementSessionWrongCount)
	assert.InDelta(t, 0.0, *done.ReinforcementSessionAccuracyPercent, 0.001)
}

func TestSubmitWithoutExplicitStartImplicitlyStarts(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	done, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
		env.questionIDs[1]: env.correctIDs[1],
	})
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionCompleted, done.ReinforcementSessionStatus)
	require.NotNil(t, done.ReinforcementSessionStartedAt)
	assert.True(t, done.ReinforcementSessionStartedAt.Equal(env.now))
}

func TestSecondSubmitReturnsFirstResult(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	first, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
		env.questionIDs[1]: env.correctIDs[1],
	})
	require.NoError(t, err)

	// retry dengan jawaban beda: hasil pertama yang berlaku, grade tidak
	// ditransisikan dua kali
	second, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, *first.ReinforcementSessionAccuracyPercent, *second.ReinforcementSessionAccuracyPercent)
	assert.Equal(t, dmodel.GradeLow, env.currentGrade(t))
}

/* ===================== EXPIRE ===================== */

func TestExpireNeverStartedBecomesNotHeld(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	env.advance(25 * time.Hour)
	expired, err := env.svc.Expire(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	assert.Equal(t, smodel.SessionNotHeld, expired.ReinforcementSessionStatus)
	assert.Nil(t, expired.ReinforcementSessionAccuracyPercent)
	assert.Nil(t, expired.ReinforcementSessionGradeAfter)
	// tidak pernah dievaluasi → grade tidak berubah
	assert.Equal(t, dmodel.GradeMedium, env.currentGrade(t))

	// idempoten
	again, err := env.svc.Expire(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionNotHeld, again.ReinforcementSessionStatus)
}

func TestExpireStartedAutoSubmitsSavedAnswers(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	_, err = env.svc.SaveAnswers(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
	})
	require.NoError(t, err)

	// time limit 30 menit habis, deadline sesi masih jauh
	env.advance(31 * time.Minute)
	expired, err := env.svc.Expire(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	assert.Equal(t, smodel.SessionCompleted, expired.ReinforcementSessionStatus)
	assert.Equal(t, 1, *expired.ReinforcementSessionCorrectCount)
	assert.Equal(t, 1, *expired.ReinforcementSessionWrongCount)
	assert.Equal(t, dmodel.GradeHigh, env.currentGrade(t)) // 50% < 70
}

func TestExpireBeforeDueIsNoOp(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)

	got, err := env.svc.Expire(context.Background(), sess.ReinforcementSessionID)
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionPending, got.ReinforcementSessionStatus)
}

func TestSubmitNeverStartedPastDeadlineExpires(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	env.advance(25 * time.Hour)
	_, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
	})
	assert.ErrorIs(t, err, ErrSessionExpired)

	final, err := env.svc.Get(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionNotHeld, final.ReinforcementSessionStatus)
}

func TestLateSaveAnswersExcludedFromAutoSubmit(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	env.advance(31 * time.Minute)
	// jawaban datang setelah waktu habis: sesi difinalkan dengan yang
	// tercatat sebelumnya (kosong), jawaban telat tidak dihitung
	got, err := env.svc.SaveAnswers(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
	})
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionCompleted, got.ReinforcementSessionStatus)
	assert.Equal(t, 0, *got.ReinforcementSessionCorrectCount)
}

func TestGetForReadExpiresStaleSession(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)

	env.advance(25 * time.Hour)
	got, err := env.svc.GetForRead(context.Background(), sess.ReinforcementSessionID)
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionNotHeld, got.ReinforcementSessionStatus)
}

func TestSweepExpiredFinalizesDueSessions(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	neverStarted := env.createSession(t)
	started := env.createSession(t)
	_, err := env.svc.Start(ctx, started.ReinforcementSessionID)
	require.NoError(t, err)
	fresh := env.createSession(t) // dibuat sekarang, belum due... (deadline 24 jam dari env.now)

	env.advance(31 * time.Minute)
	// fresh & neverStarted: deadline belum lewat; started: time limit habis
	n, err := env.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	env.advance(25 * time.Hour)
	n, err = env.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s1, _ := env.svc.Get(ctx, neverStarted.ReinforcementSessionID)
	s2, _ := env.svc.Get(ctx, started.ReinforcementSessionID)
	s3, _ := env.svc.Get(ctx, fresh.ReinforcementSessionID)
	assert.Equal(t, smodel.SessionNotHeld, s1.ReinforcementSessionStatus)
	assert.Equal(t, smodel.SessionCompleted, s2.ReinforcementSessionStatus)
	assert.Equal(t, smodel.SessionNotHeld, s3.ReinforcementSessionStatus)
}

/* ===================== CANCEL / INCOMPLETE ===================== */

func TestCancelRequiresReasonAndIsIdempotent(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Cancel(ctx, sess.ReinforcementSessionID, "   ")
	assert.ErrorIs(t, err, ErrCancelReasonRequired)

	got, err := env.svc.Cancel(ctx, sess.ReinforcementSessionID, "jadwal bentrok")
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionCancelled, got.ReinforcementSessionStatus)
	require.NotNil(t, got.ReinforcementSessionCancelReason)
	assert.Equal(t, "jadwal bentrok", *got.ReinforcementSessionCancelReason)

	again, err := env.svc.Cancel(ctx, sess.ReinforcementSessionID, "alasan lain")
	require.NoError(t, err)
	assert.Equal(t, "jadwal bentrok", *again.ReinforcementSessionCancelReason)
}

func TestCancelCompletedSessionFails(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, nil)
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, sess.ReinforcementSessionID, "terlambat")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkIncompleteOnlyForStartedPending(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.MarkIncomplete(ctx, sess.ReinforcementSessionID)
	assert.ErrorIs(t, err, ErrSessionNotStarted)

	_, err = env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	got, err := env.svc.MarkIncomplete(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)
	assert.Equal(t, smodel.SessionIncomplete, got.ReinforcementSessionStatus)
	assert.Nil(t, got.ReinforcementSessionAccuracyPercent)
	assert.Equal(t, dmodel.GradeMedium, env.currentGrade(t))

	_, err = env.svc.MarkIncomplete(ctx, sess.ReinforcementSessionID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

/* ===================== SNAPSHOT IMMUTABILITY ===================== */

func TestDeletedQuestionStillGradedFromSnapshot(t *testing.T) {
	env := newSessionEnv(t)
	sess := env.createSession(t)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, sess.ReinforcementSessionID)
	require.NoError(t, err)

	// soft delete soal pertama setelah sesi dibuat
	require.NoError(t, env.db.Delete(&qmodel.QuestionModel{}, "question_id = ?", env.questionIDs[0]).Error)

	done, err := env.svc.Submit(ctx, sess.ReinforcementSessionID, map[uuid.UUID]uuid.UUID{
		env.questionIDs[0]: env.correctIDs[0],
		env.questionIDs[1]: env.correctIDs[1],
	})
	require.NoError(t, err)
	assert.Equal(t, 2, *done.ReinforcementSessionCorrectCount)
}

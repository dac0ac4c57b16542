// file: internals/features/school/reinforcement_sessions/service/session_lifecycle_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dsvc "akademiku_backend/internals/features/school/difficulties/service"
	qmodel "akademiku_backend/internals/features/school/questions/model"
	smodel "akademiku_backend/internals/features/school/reinforcement_sessions/model"
)

var (
	ErrSessionNotFound      = errors.New("reinforcement session not found")
	ErrSessionExpired       = errors.New("reinforcement session deadline has passed")
	ErrInvalidTransition    = errors.New("invalid session state transition")
	ErrCancelReasonRequired = errors.New("cancel reason is required")
	ErrSessionNotStarted    = errors.New("reinforcement session has not been started")
	ErrQuestionNotInSession = errors.New("question is not part of this session")
)

// errAlreadyFinal: internal, penanda kalah race finalisasi (CAS 0 row).
var errAlreadyFinal = errors.New("session already finalized")

/* =========================================================
   SERVICE
   Semua keputusan waktu lewat s.Now (clock bisa diinjeksi dari test).
========================================================= */

type ReinforcementSessionService struct {
	DB      *gorm.DB
	Tracker *dsvc.GradeTrackerService
	Now     func() time.Time
}

func NewReinforcementSessionService(db *gorm.DB) *ReinforcementSessionService {
	return &ReinforcementSessionService{
		DB:      db,
		Tracker: dsvc.NewGradeTrackerService(db),
		Now:     time.Now,
	}
}

/* =========================================================
   CREATE
========================================================= */

type CreateSessionInput struct {
	CourseID           uuid.UUID
	StudentID          uuid.UUID
	DifficultyID       uuid.UUID
	DeadlineAt         time.Time
	TimeLimitMinutes   int
	ExtraQuestionIDs   []uuid.UUID
	CreatedByTeacherID *uuid.UUID // nil = proses otomatis
}

func (s *ReinforcementSessionService) Create(ctx context.Context, in CreateSessionInput) (*smodel.ReinforcementSessionModel, error) {
	now := s.Now()
	if !in.DeadlineAt.After(now) {
		return nil, errors.New("deadline must be in the future")
	}
	if in.TimeLimitMinutes <= 0 {
		return nil, errors.New("time limit must be positive")
	}

	asm, err := s.assemble(ctx, in.CourseID, in.StudentID, in.DifficultyID, in.ExtraQuestionIDs)
	if err != nil {
		return nil, err
	}

	qids := make([]string, 0, len(asm.QuestionIDs))
	for _, id := range asm.QuestionIDs {
		qids = append(qids, id.String())
	}

	sess := &smodel.ReinforcementSessionModel{
		ReinforcementSessionCourseID:           in.CourseID,
		ReinforcementSessionStudentID:          in.StudentID,
		ReinforcementSessionDifficultyID:       in.DifficultyID,
		ReinforcementSessionGradeAtCreation:    asm.Grade,
		ReinforcementSessionCreatedByTeacherID: in.CreatedByTeacherID,
		ReinforcementSessionDeadlineAt:         in.DeadlineAt,
		ReinforcementSessionTimeLimitMinutes:   in.TimeLimitMinutes,
		ReinforcementSessionStatus:             smodel.SessionPending,
		ReinforcementSessionQuestionIDs:        qids,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// nomor urut per siswa
		var maxNumber int
		if err := tx.Model(&smodel.ReinforcementSessionModel{}).
			Where("reinforcement_session_student_id = ?", in.StudentID).
			Select("COALESCE(MAX(reinforcement_session_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		sess.ReinforcementSessionNumber = maxNumber + 1
		return tx.Create(sess).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ReinforcementSessionService] session #%d created. student=%s difficulty=%s grade=%s questions=%d",
		sess.ReinforcementSessionNumber, in.StudentID, in.DifficultyID, asm.Grade, len(qids))

	return sess, nil
}

/* =========================================================
   LOAD HELPERS
========================================================= */

func (s *ReinforcementSessionService) load(ctx context.Context, id uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	var sess smodel.ReinforcementSessionModel
	if err := s.DB.WithContext(ctx).
		First(&sess, "reinforcement_session_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Get: load polos tanpa expire-on-read (dipakai guard kepemilikan).
func (s *ReinforcementSessionService) Get(ctx context.Context, id uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	return s.load(ctx, id)
}

// GetForRead: load + expire-on-read. Sesi pending yang sudah lewat waktunya
// difinalkan dulu supaya reader tidak pernah melihat pending basi.
func (s *ReinforcementSessionService) GetForRead(ctx context.Context, id uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ExpiryDue(s.Now()) {
		return s.Expire(ctx, id)
	}
	return sess, nil
}

// ListByStudent: sesi milik satu siswa, terbaru dulu.
func (s *ReinforcementSessionService) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]smodel.ReinforcementSessionModel, int64, error) {
	var (
		rows  []smodel.ReinforcementSessionModel
		total int64
	)
	q := s.DB.WithContext(ctx).Model(&smodel.ReinforcementSessionModel{}).
		Where("reinforcement_session_student_id = ?", studentID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("reinforcement_session_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* =========================================================
   START
   Idempotent: start kedua pada sesi yang sudah jalan (masih
   pending) bukan error — balikin started_at yang lama.
========================================================= */

func (s *ReinforcementSessionService) Start(ctx context.Context, id uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ReinforcementSessionStatus != smodel.SessionPending {
		return sess, ErrInvalidTransition
	}
	if sess.IsStarted() {
		return sess, nil // retry client, no-op
	}

	now := s.Now()
	if now.After(sess.ReinforcementSessionDeadlineAt) {
		return sess, ErrSessionExpired
	}

	res := s.DB.WithContext(ctx).
		Model(&smodel.ReinforcementSessionModel{}).
		Where("reinforcement_session_id = ? AND reinforcement_session_status = ? AND reinforcement_session_started_at IS NULL",
			id, smodel.SessionPending).
		Update("reinforcement_session_started_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// kalah race: reload — kalau ternyata sudah start, tetap no-op sukses
		sess, err = s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess.ReinforcementSessionStatus == smodel.SessionPending && sess.IsStarted() {
			return sess, nil
		}
		return sess, ErrInvalidTransition
	}
	return s.load(ctx, id)
}

/* =========================================================
   SAVE ANSWERS (partial, berjalan)
   Dasar auto-submit saat expiry: jawaban terakhir yang
   tersimpan di sini yang dinilai.
========================================================= */

func (s *ReinforcementSessionService) SaveAnswers(ctx context.Context, id uuid.UUID, answers map[uuid.UUID]uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ReinforcementSessionStatus != smodel.SessionPending {
		return sess, ErrInvalidTransition
	}
	if !sess.IsStarted() {
		return sess, ErrSessionNotStarted
	}
	if sess.ExpiryDue(s.Now()) {
		// waktunya habis: finalisasi dengan jawaban yang SUDAH tercatat,
		// jawaban yang datang terlambat ini tidak ikut
		if _, err := s.Expire(ctx, id); err != nil {
			return nil, err
		}
		return s.load(ctx, id)
	}

	snapshot := make(map[string]struct{}, len(sess.ReinforcementSessionQuestionIDs))
	for _, qid := range sess.ReinforcementSessionQuestionIDs {
		snapshot[qid] = struct{}{}
	}

	merged := datatypes.JSONMap{}
	for k, v := range sess.ReinforcementSessionAnswers {
		merged[k] = v
	}
	for qid, oid := range answers {
		if _, ok := snapshot[qid.String()]; !ok {
			return sess, ErrQuestionNotInSession
		}
		merged[qid.String()] = oid.String()
	}

	if err := s.DB.WithContext(ctx).
		Model(&smodel.ReinforcementSessionModel{}).
		Where("reinforcement_session_id = ? AND reinforcement_session_status = ?", id, smodel.SessionPending).
		Update("reinforcement_session_answers", merged).Error; err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

/* =========================================================
   SUBMIT
========================================================= */

func (s *ReinforcementSessionService) Submit(ctx context.Context, id uuid.UUID, answers map[uuid.UUID]uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sess.ReinforcementSessionStatus {
	case smodel.SessionPending:
		// lanjut
	case smodel.SessionCompleted:
		// submit kedua (race lawan expire / retry client) → hasil yang sama
		return sess, nil
	default:
		return sess, ErrInvalidTransition
	}

	now := s.Now()
	if !sess.IsStarted() && now.After(sess.ReinforcementSessionDeadlineAt) {
		// tidak pernah start & window habis: implicit start tidak boleh
		// menembus deadline — jalur expire yang berlaku
		if _, err := s.Expire(ctx, id); err != nil {
			return nil, err
		}
		sess, _ = s.load(ctx, id)
		return sess, ErrSessionExpired
	}

	// merge: jawaban tersimpan + jawaban submit (submit menang)
	merged := make(map[uuid.UUID]uuid.UUID, len(answers))
	for k, v := range sess.ReinforcementSessionAnswers {
		if qid, err := uuid.Parse(k); err == nil {
			if str, ok := v.(string); ok {
				if oid, err := uuid.Parse(str); err == nil {
					merged[qid] = oid
				}
			}
		}
	}
	for k, v := range answers {
		merged[k] = v
	}

	return s.finalize(ctx, sess, merged)
}

/* =========================================================
   EXPIRE
   Dipicu lazy (read) atau sweep periodik; keduanya idempoten
   dan deterministik terhadap (state tersimpan, now).
========================================================= */

func (s *ReinforcementSessionService) Expire(ctx context.Context, id uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ReinforcementSessionStatus != smodel.SessionPending {
		return sess, nil // sudah final, no-op
	}
	if !sess.ExpiryDue(s.Now()) {
		return sess, nil // belum waktunya
	}

	if sess.IsStarted() {
		// auto-submit: nilai jawaban parsial yang tercatat
		saved := make(map[uuid.UUID]uuid.UUID, len(sess.ReinforcementSessionAnswers))
		for k, v := range sess.ReinforcementSessionAnswers {
			if qid, err := uuid.Parse(k); err == nil {
				if str, ok := v.(string); ok {
					if oid, err := uuid.Parse(str); err == nil {
						saved[qid] = oid
					}
				}
			}
		}
		return s.finalize(ctx, sess, saved)
	}

	// tidak pernah start → not_held, TANPA sentuh grade
	res := s.DB.WithContext(ctx).
		Model(&smodel.ReinforcementSessionModel{}).
		Where("reinforcement_session_id = ? AND reinforcement_session_status = ? AND reinforcement_session_started_at IS NULL",
			id, smodel.SessionPending).
		Update("reinforcement_session_status", smodel.SessionNotHeld)
	if res.Error != nil {
		return nil, res.Error
	}
	// RowsAffected 0 = kalah race (submit/start keburu masuk) → sama-sama ok
	return s.load(ctx, id)
}

// SweepExpired: backstop server untuk client yang tidak pernah mengirim
// submit terakhirnya. Aman dipanggil bersaing dengan expire-on-read.
func (s *ReinforcementSessionService) SweepExpired(ctx context.Context) (int, error) {
	now := s.Now()
	var candidates []smodel.ReinforcementSessionModel
	if err := s.DB.WithContext(ctx).
		Where("reinforcement_session_status = ? AND (reinforcement_session_deadline_at < ? OR reinforcement_session_started_at IS NOT NULL)",
			smodel.SessionPending, now).
		Limit(200).
		Find(&candidates).Error; err != nil {
		return 0, err
	}

	n := 0
	for i := range candidates {
		if !candidates[i].ExpiryDue(now) {
			continue
		}
		if _, err := s.Expire(ctx, candidates[i].ReinforcementSessionID); err != nil {
			log.Printf("[ReinforcementSessionService] sweep expire %s gagal: %v",
				candidates[i].ReinforcementSessionID, err)
			continue
		}
		n++
	}
	return n, nil
}

/* =========================================================
   CANCEL / MARK INCOMPLETE (tanpa hasil, tanpa mutasi grade)
========================================================= */

func (s *ReinforcementSessionService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*smodel.ReinforcementSessionModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrCancelReasonRequired
	}
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ReinforcementSessionStatus == smodel.SessionCancelled {
		return sess, nil
	}
	if sess.ReinforcementSessionStatus != smodel.SessionPending {
		return sess, ErrInvalidTransition
	}

	res := s.DB.WithContext(ctx).
		Model(&smodel.ReinforcementSessionModel{}).
		Where("reinforcement_session_id = ? AND reinforcement_session_status = ?", id, smodel.SessionPending).
		Updates(map[string]any{
			"reinforcement_session_status":        smodel.SessionCancelled,
			"reinforcement_session_cancel_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		sess, err = s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess.ReinforcementSessionStatus == smodel.SessionCancelled {
			return sess, nil
		}
		return sess, ErrInvalidTransition
	}
	return s.load(ctx, id)
}

// MarkIncomplete: penutupan manual oleh teacher untuk attempt yang sudah
// dimulai tapi ditinggalkan (mis. kendala teknis). Tanpa hasil, tanpa
// transisi grade — beda dari submit/expire.
func (s *ReinforcementSessionService) MarkIncomplete(ctx context.Context, id uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.ReinforcementSessionStatus != smodel.SessionPending {
		return sess, ErrInvalidTransition
	}
	if !sess.IsStarted() {
		return sess, ErrSessionNotStarted
	}

	res := s.DB.WithContext(ctx).
		Model(&smodel.ReinforcementSessionModel{}).
		Where("reinforcement_session_id = ? AND reinforcement_session_status = ?", id, smodel.SessionPending).
		Update("reinforcement_session_status", smodel.SessionIncomplete)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		sess, err = s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		return sess, ErrInvalidTransition
	}
	return s.load(ctx, id)
}

/* =========================================================
   FINALIZE (jalur tunggal submit & expire-auto-submit)
   At-most-once lewat conditional UPDATE status='pending';
   yang kalah membaca hasil yang sudah ada.
   Mutasi grade ikut transaksi yang sama → happen-before
   sesi terlihat completed.
========================================================= */

func (s *ReinforcementSessionService) finalize(ctx context.Context, sess *smodel.ReinforcementSessionModel, answers map[uuid.UUID]uuid.UUID) (*smodel.ReinforcementSessionModel, error) {
	now := s.Now()

	startedAt := sess.ReinforcementSessionStartedAt
	if startedAt == nil {
		// implicit start-then-submit (client skip start): now jadi keduanya
		startedAt = &now
	}

	// Soal dari snapshot — Unscoped supaya soal yang keburu di-soft-delete
	// tetap bisa dinilai (snapshot referensial, bukan live query).
	qids := make([]string, len(sess.ReinforcementSessionQuestionIDs))
	copy(qids, sess.ReinforcementSessionQuestionIDs)

	var questions []qmodel.QuestionModel
	if err := s.DB.WithContext(ctx).Unscoped().
		Where("question_id IN ?", []string(qids)).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	correctByID := make(map[string]uuid.UUID, len(questions))
	for _, q := range questions {
		correctByID[q.QuestionID.String()] = q.QuestionOptions.CorrectOptionID()
	}

	// Nilai SEMUA soal snapshot; tidak dijawab = salah.
	correct, wrong := 0, 0
	finalAnswers := datatypes.JSONMap{}
	for _, qidStr := range qids {
		var chosen uuid.UUID
		if qid, err := uuid.Parse(qidStr); err == nil {
			chosen = answers[qid]
		}
		if chosen != uuid.Nil {
			finalAnswers[qidStr] = chosen.String()
		}
		if chosen != uuid.Nil && chosen == correctByID[qidStr] {
			correct++
		} else {
			wrong++
		}
	}
	total := len(qids)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100.0
	}

	gradeBefore := sess.ReinforcementSessionGradeAtCreation
	gradeAfter := dsvc.NextGrade(gradeBefore, accuracy)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&smodel.ReinforcementSessionModel{}).
			Where("reinforcement_session_id = ? AND reinforcement_session_status = ?",
				sess.ReinforcementSessionID, smodel.SessionPending).
			Updates(map[string]any{
				"reinforcement_session_status":           smodel.SessionCompleted,
				"reinforcement_session_started_at":       *startedAt,
				"reinforcement_session_answers":          finalAnswers,
				"reinforcement_session_correct_count":    correct,
				"reinforcement_session_wrong_count":      wrong,
				"reinforcement_session_accuracy_percent": accuracy,
				"reinforcement_session_grade_before":     gradeBefore,
				"reinforcement_session_grade_after":      gradeAfter,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyFinal
		}
		_, err := s.Tracker.ApplyOutcome(ctx, tx,
			sess.ReinforcementSessionStudentID,
			sess.ReinforcementSessionDifficultyID,
			gradeBefore, accuracy)
		return err
	})

	if errors.Is(err, errAlreadyFinal) {
		// kalah race submit-vs-expire: hasil yang menang yang berlaku
		final, lerr := s.load(ctx, sess.ReinforcementSessionID)
		if lerr != nil {
			return nil, lerr
		}
		if final.ReinforcementSessionStatus == smodel.SessionCompleted {
			return final, nil
		}
		return final, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[ReinforcementSessionService] session %s completed. correct=%d wrong=%d accuracy=%.1f%% grade %s -> %s",
		sess.ReinforcementSessionID, correct, wrong, accuracy, gradeBefore, gradeAfter)

	return s.load(ctx, sess.ReinforcementSessionID)
}

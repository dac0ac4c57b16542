// file: internals/features/school/difficulties/service/grade_tracker_service.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
)

/* =========================================================
   GRADE TRACKER
   Menjaga record (student, difficulty) → grade saat ini.
========================================================= */

// PassAccuracyThreshold: akurasi minimum agar grade turun (membaik).
// Di bawahnya grade naik (memburuk). Aturan ketat dua arah — tepat di
// threshold SELALU turun. Nilai ini satu-satunya tempat angka 70 hidup;
// kalau aturan bisnis berubah cukup ganti di sini.
const PassAccuracyThreshold = 70.0

var ErrGradeNotFound = errors.New("student difficulty grade not found")

type GradeTrackerService struct {
	DB *gorm.DB
}

func NewGradeTrackerService(db *gorm.DB) *GradeTrackerService {
	return &GradeTrackerService{DB: db}
}

// CurrentGrade: grade siswa untuk satu difficulty. Tanpa record = 'none'
// (tidak punya riwayat berarti tidak punya defisiensi).
func (s *GradeTrackerService) CurrentGrade(ctx context.Context, studentID, difficultyID uuid.UUID) (dmodel.DifficultyGrade, error) {
	var row dmodel.StudentDifficultyGradeModel
	err := s.DB.WithContext(ctx).
		Where("student_difficulty_grade_student_id = ? AND student_difficulty_grade_difficulty_id = ?", studentID, difficultyID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dmodel.GradeNone, nil
		}
		return "", err
	}
	return row.StudentDifficultyGradeCurrent, nil
}

// RequireGrade: seperti CurrentGrade tapi 404 kalau record belum pernah ada.
// Dipakai endpoint read-only; jalur finalisasi tidak lewat sini.
func (s *GradeTrackerService) RequireGrade(ctx context.Context, studentID, difficultyID uuid.UUID) (*dmodel.StudentDifficultyGradeModel, error) {
	var row dmodel.StudentDifficultyGradeModel
	err := s.DB.WithContext(ctx).
		Where("student_difficulty_grade_student_id = ? AND student_difficulty_grade_difficulty_id = ?", studentID, difficultyID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}
	return &row, nil
}

// NextGrade: aturan transisi murni (tanpa side effect).
// accuracy >= threshold → StepDown (bisa sampai 'none' = defisiensi teratasi).
// accuracy <  threshold → StepUp (mentok di 'high', bukan error).
func NextGrade(gradeAtStart dmodel.DifficultyGrade, accuracyPct float64) dmodel.DifficultyGrade {
	if accuracyPct >= PassAccuracyThreshold {
		return gradeAtStart.StepDown()
	}
	return gradeAtStart.StepUp()
}

// ApplyOutcome: hitung grade baru dari hasil sesi lalu persist sebagai record
// of truth untuk (student, difficulty). Lazy create kalau record belum ada.
// HARUS dipanggil di dalam transaksi finalisasi sesi (tx) supaya mutasi grade
// happen-before sesi terlihat completed oleh reader mana pun.
func (s *GradeTrackerService) ApplyOutcome(
	ctx context.Context,
	tx *gorm.DB,
	studentID, difficultyID uuid.UUID,
	gradeAtStart dmodel.DifficultyGrade,
	accuracyPct float64,
) (dmodel.DifficultyGrade, error) {
	if tx == nil {
		tx = s.DB
	}

	next := NextGrade(gradeAtStart, accuracyPct)

	var row dmodel.StudentDifficultyGradeModel
	err := tx.WithContext(ctx).
		Where("student_difficulty_grade_student_id = ? AND student_difficulty_grade_difficulty_id = ?", studentID, difficultyID).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// lazy create: siswa dievaluasi pertama kali untuk difficulty ini
		row = dmodel.StudentDifficultyGradeModel{
			StudentDifficultyGradeStudentID:    studentID,
			StudentDifficultyGradeDifficultyID: difficultyID,
			StudentDifficultyGradeCurrent:      next,
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		row.StudentDifficultyGradeCurrent = next
		if err := tx.WithContext(ctx).
			Model(&dmodel.StudentDifficultyGradeModel{}).
			Where("student_difficulty_grade_id = ?", row.StudentDifficultyGradeID).
			Update("student_difficulty_grade_current", next).Error; err != nil {
			return "", err
		}
	}

	log.Printf("[GradeTracker] student=%s difficulty=%s accuracy=%.1f%% grade %s -> %s",
		studentID, difficultyID, accuracyPct, gradeAtStart, next)

	return next, nil
}

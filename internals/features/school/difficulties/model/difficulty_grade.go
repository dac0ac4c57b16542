// file: internals/features/school/difficulties/model/difficulty_grade.go
package model

import (
	"database/sql/driver"
	"fmt"
)

/* =============================================================================
   ENUM-like: Difficulty Grade ('none','low','medium','high')
   Catatan:
   - 'none' = siswa TIDAK punya defisiensi pada difficulty tsb (sudah lulus /
     belum pernah dievaluasi). Bukan bagian dari skala terurut.
   - Skala terurut untuk step naik/turun: low < medium < high.
============================================================================= */

type DifficultyGrade string

const (
	GradeNone   DifficultyGrade = "none"
	GradeLow    DifficultyGrade = "low"
	GradeMedium DifficultyGrade = "medium"
	GradeHigh   DifficultyGrade = "high"
)

// orderedGrades adalah skala defisiensi terurut (tanpa 'none').
var orderedGrades = []DifficultyGrade{GradeLow, GradeMedium, GradeHigh}

func (g DifficultyGrade) String() string { return string(g) }

func (g DifficultyGrade) Valid() bool {
	switch g {
	case GradeNone, GradeLow, GradeMedium, GradeHigh:
		return true
	default:
		return false
	}
}

// Rank: posisi pada skala terurut. 'none' tidak punya rank → (-1, false).
func (g DifficultyGrade) Rank() (int, bool) {
	for i, og := range orderedGrades {
		if og == g {
			return i, true
		}
	}
	return -1, false
}

// StepUp: naik satu tingkat (defisiensi makin parah). High mentok di high.
// 'none' naik ke low (defisiensi baru muncul lagi).
func (g DifficultyGrade) StepUp() DifficultyGrade {
	switch g {
	case GradeNone:
		return GradeLow
	case GradeLow:
		return GradeMedium
	case GradeMedium:
		return GradeHigh
	default:
		return GradeHigh // saturasi
	}
}

// StepDown: turun satu tingkat (membaik). Low turun ke 'none' (defisiensi
// dianggap teratasi). 'none' tetap 'none'.
func (g DifficultyGrade) StepDown() DifficultyGrade {
	switch g {
	case GradeHigh:
		return GradeMedium
	case GradeMedium:
		return GradeLow
	case GradeLow:
		return GradeNone
	default:
		return GradeNone
	}
}

/* =========================================================
   sql.Scanner + driver.Valuer (aman saat scan ke enum)
========================================================= */

func (g *DifficultyGrade) Scan(value any) error {
	if value == nil {
		*g = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*g = DifficultyGrade(v)
	case []byte:
		*g = DifficultyGrade(string(v))
	default:
		return fmt.Errorf("unsupported type for DifficultyGrade: %T", value)
	}
	if !g.Valid() {
		return fmt.Errorf("invalid DifficultyGrade: %q", *g)
	}
	return nil
}

func (g DifficultyGrade) Value() (driver.Value, error) {
	if g == "" {
		return nil, nil
	}
	if !g.Valid() {
		return nil, fmt.Errorf("invalid DifficultyGrade: %q", g)
	}
	return string(g), nil
}

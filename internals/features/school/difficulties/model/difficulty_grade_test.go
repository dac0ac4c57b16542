// file: internals/features/school/difficulties/model/difficulty_grade_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeStepUp(t *testing.T) {
	cases := []struct {
		from, want DifficultyGrade
	}{
		{GradeNone, GradeLow},
		{GradeLow, GradeMedium},
		{GradeMedium, GradeHigh},
		{GradeHigh, GradeHigh}, // saturasi, bukan error
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.StepUp(), "step up dari %s", tc.from)
	}
}

func TestGradeStepDown(t *testing.T) {
	cases := []struct {
		from, want DifficultyGrade
	}{
		{GradeHigh, GradeMedium},
		{GradeMedium, GradeLow},
		{GradeLow, GradeNone}, // defisiensi teratasi
		{GradeNone, GradeNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.StepDown(), "step down dari %s", tc.from)
	}
}

func TestGradeRank(t *testing.T) {
	for i, g := range []DifficultyGrade{GradeLow, GradeMedium, GradeHigh} {
		rank, ok := g.Rank()
		assert.True(t, ok)
		assert.Equal(t, i, rank)
	}

	// 'none' bukan bagian dari skala terurut
	_, ok := GradeNone.Rank()
	assert.False(t, ok)
}

func TestGradeStepRoundTrip(t *testing.T) {
	// naik lalu turun kembali ke asal, kecuali di batas skala
	for _, g := range []DifficultyGrade{GradeNone, GradeLow, GradeMedium} {
		assert.Equal(t, g, g.StepUp().StepDown())
	}
}

func TestGradeValid(t *testing.T) {
	assert.True(t, GradeNone.Valid())
	assert.True(t, GradeHigh.Valid())
	assert.False(t, DifficultyGrade("extreme").Valid())
	assert.False(t, DifficultyGrade("").Valid())
}

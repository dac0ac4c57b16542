// file: internals/features/school/difficulties/service/grade_tracker_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
)

func newTrackerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dmodel.StudentDifficultyGradeModel{}))
	return db
}

func TestNextGradeThreshold(t *testing.T) {
	cases := []struct {
		name     string
		from     dmodel.DifficultyGrade
		accuracy float64
		want     dmodel.DifficultyGrade
	}{
		{"tepat di threshold turun", dmodel.GradeMedium, 70.0, dmodel.GradeLow},
		{"di atas threshold turun", dmodel.GradeHigh, 100.0, dmodel.GradeMedium},
		{"low lulus jadi none", dmodel.GradeLow, 85.0, dmodel.GradeNone},
		{"sedikit di bawah threshold naik", dmodel.GradeMedium, 69.999, dmodel.GradeHigh},
		{"nol persen naik", dmodel.GradeLow, 0.0, dmodel.GradeMedium},
		{"high gagal tetap high", dmodel.GradeHigh, 0.0, dmodel.GradeHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextGrade(tc.from, tc.accuracy))
		})
	}
}

func TestCurrentGradeDefaultsToNone(t *testing.T) {
	svc := NewGradeTrackerService(newTrackerDB(t))

	g, err := svc.CurrentGrade(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, dmodel.GradeNone, g)
}

func TestRequireGradeNotFound(t *testing.T) {
	svc := NewGradeTrackerService(newTrackerDB(t))

	_, err := svc.RequireGrade(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrGradeNotFound)
}

func TestApplyOutcomeLazyCreatesThenUpdates(t *testing.T) {
	db := newTrackerDB(t)
	svc := NewGradeTrackerService(db)
	ctx := context.Background()

	studentID, difficultyID := uuid.New(), uuid.New()

	// belum ada record: gagal di medium → lazy create dengan grade high
	next, err := svc.ApplyOutcome(ctx, nil, studentID, difficultyID, dmodel.GradeMedium, 40.0)
	require.NoError(t, err)
	assert.Equal(t, dmodel.GradeHigh, next)

	g, err := svc.CurrentGrade(ctx, studentID, difficultyID)
	require.NoError(t, err)
	assert.Equal(t, dmodel.GradeHigh, g)

	// record ada: lulus di high → update ke medium, tetap satu baris
	next, err = svc.ApplyOutcome(ctx, nil, studentID, difficultyID, dmodel.GradeHigh, 90.0)
	require.NoError(t, err)
	assert.Equal(t, dmodel.GradeMedium, next)

	var count int64
	require.NoError(t, db.Model(&dmodel.StudentDifficultyGradeModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

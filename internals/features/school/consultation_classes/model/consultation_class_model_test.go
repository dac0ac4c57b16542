// file: internals/features/school/consultation_classes/model/consultation_class_model_test.go
package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var (
	classStart = time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	classEnd   = time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
)

func classWith(base ClassBaseStatus) *ConsultationClassModel {
	return &ConsultationClassModel{
		ConsultationClassTitle:      "Konsultasi Aljabar",
		ConsultationClassStartAt:    classStart,
		ConsultationClassEndAt:      classEnd,
		ConsultationClassBaseStatus: base,
	}
}

func TestResolveStatusTimeDerived(t *testing.T) {
	c := classWith(ClassBaseScheduled)

	cases := []struct {
		name string
		now  time.Time
		want ClassDerivedStatus
	}{
		{"sebelum start", classStart.Add(-time.Hour), ClassScheduled},
		{"tepat di start", classStart, ClassInProgress},
		{"di dalam window", classStart.Add(30 * time.Minute), ClassInProgress},
		{"setelah end, belum close-out", classEnd.Add(time.Minute), ClassClosingSoon},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.ResolveStatus(tc.now))
		})
	}
}

func TestResolveStatusHeldAfterCloseOut(t *testing.T) {
	c := classWith(ClassBaseHeld)
	assert.Equal(t, ClassHeld, c.ResolveStatus(classEnd.Add(time.Hour)))
	// close-out 'held' tidak mengubah tampilan selama window masih berjalan
	assert.Equal(t, ClassInProgress, c.ResolveStatus(classStart.Add(time.Minute)))
}

func TestResolveStatusNotHeldBeatsTime(t *testing.T) {
	c := classWith(ClassBaseNotHeld)
	// hasil eksplisit menang atas semua turunan waktu
	assert.Equal(t, ClassNotHeld, c.ResolveStatus(classStart.Add(-time.Hour)))
	assert.Equal(t, ClassNotHeld, c.ResolveStatus(classStart.Add(time.Minute)))
	assert.Equal(t, ClassNotHeld, c.ResolveStatus(classEnd.Add(time.Hour)))
}

func TestResolveStatusPendingAssignmentIsFrozen(t *testing.T) {
	c := classWith(ClassBasePendingAssignment)
	// tanpa teacher, status beku — window lewat pun tidak berubah
	assert.Equal(t, ClassPendingAssignment, c.ResolveStatus(classStart.Add(-time.Hour)))
	assert.Equal(t, ClassPendingAssignment, c.ResolveStatus(classEnd.Add(48*time.Hour)))
}

func TestResolveStatusCancelledHasHighestPrecedence(t *testing.T) {
	for _, base := range []ClassBaseStatus{ClassBaseScheduled, ClassBaseHeld, ClassBaseNotHeld, ClassBasePendingAssignment} {
		c := classWith(base)
		c.ConsultationClassDeletedAt = gorm.DeletedAt{Time: classEnd, Valid: true}
		assert.Equal(t, ClassCancelled, c.ResolveStatus(classEnd.Add(time.Hour)), "base=%s", base)
	}
}

func TestBeforeCreateDefaultsBaseStatus(t *testing.T) {
	noTeacher := classWith("")
	assert.NoError(t, noTeacher.BeforeCreate(nil))
	assert.Equal(t, ClassBasePendingAssignment, noTeacher.ConsultationClassBaseStatus)

	teacherID := noTeacher.ConsultationClassID // uuid apa pun
	withTeacher := classWith("")
	withTeacher.ConsultationClassTeacherID = &teacherID
	assert.NoError(t, withTeacher.BeforeCreate(nil))
	assert.Equal(t, ClassBaseScheduled, withTeacher.ConsultationClassBaseStatus)
}

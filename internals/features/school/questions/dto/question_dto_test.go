// file: internals/features/school/questions/dto/question_dto_test.go
package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dmodel "akademiku_backend/internals/features/school/difficulties/model"
)

func baseCreateRequest() *CreateQuestionRequest {
	return &CreateQuestionRequest{
		QuestionCourseID:     uuid.New(),
		QuestionDifficultyID: uuid.New(),
		QuestionGrade:        dmodel.GradeMedium,
		QuestionEnunciation:  "Berapa hasil 2+2?",
		Options: []CreateQuestionOptionRequest{
			{OptionText: "4", IsCorrect: true},
			{OptionText: "5", IsCorrect: false},
		},
	}
}

func TestCreateQuestionValidate(t *testing.T) {
	assert.NoError(t, baseCreateRequest().Validate())

	t.Run("tanpa opsi benar", func(t *testing.T) {
		r := baseCreateRequest()
		r.Options[0].IsCorrect = false
		assert.Error(t, r.Validate())
	})

	t.Run("dua opsi benar", func(t *testing.T) {
		r := baseCreateRequest()
		r.Options[1].IsCorrect = true
		assert.Error(t, r.Validate())
	})

	t.Run("teks opsi duplikat setelah trim", func(t *testing.T) {
		r := baseCreateRequest()
		r.Options[1].OptionText = " 4 "
		assert.Error(t, r.Validate())
	})

	t.Run("teks opsi kosong", func(t *testing.T) {
		r := baseCreateRequest()
		r.Options[1].OptionText = "   "
		assert.Error(t, r.Validate())
	})
}

func TestToModelAssignsServerOptionIDs(t *testing.T) {
	r := baseCreateRequest()
	m := r.ToModel()

	require.Len(t, m.QuestionOptions, 2)
	assert.NotEqual(t, uuid.Nil, m.QuestionOptions[0].OptionID)
	assert.NotEqual(t, m.QuestionOptions[0].OptionID, m.QuestionOptions[1].OptionID)
	assert.Equal(t, m.QuestionOptions[0].OptionID, m.QuestionOptions.CorrectOptionID())
}

func TestStudentViewHidesAnswerKey(t *testing.T) {
	m := baseCreateRequest().ToModel()

	student := FromModelForStudent(m)
	for _, op := range student.Options {
		assert.Nil(t, op.IsCorrect, "view siswa tidak boleh membawa kunci jawaban")
	}

	full := FromModel(m)
	require.NotNil(t, full.Options[0].IsCorrect)
	assert.True(t, *full.Options[0].IsCorrect)
}

package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(NewRecordParams{
		ID:          "rec-1",
		StudentID:   "stu-1",
		StudentName: "Ana Lima",
		Date:        "2024-05-20",
		Time:        "19:30",
		Method:      MethodTotem,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Ana Lima", r.StudentName)
	assert.Equal(t, MethodTotem, r.Method)
}

func TestNewRecordDefaultsToManual(t *testing.T) {
	r, err := NewRecord(NewRecordParams{ID: "rec-1", StudentID: "stu-1"})
	assert.NoError(t, err)
	assert.Equal(t, MethodManual, r.Method)
}

func TestNewRecordValidation(t *testing.T) {
	_, err := NewRecord(NewRecordParams{ID: "rec-1"})
	assert.ErrorIs(t, err, ErrMissingStudent)

	_, err = NewRecord(NewRecordParams{ID: "rec-1", StudentID: "stu-1", Method: "QR"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestMethodIsValid(t *testing.T) {
	assert.True(t, MethodManual.IsValid())
	assert.True(t, MethodTotem.IsValid())
	assert.False(t, Method("").IsValid())
}

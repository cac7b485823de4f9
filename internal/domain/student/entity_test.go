package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validParams() NewStudentParams {
	return NewStudentParams{
		ID:             "5b1c8e1e-0000-4f7e-9a6e-1a2b3c4d5e6f",
		Name:           "Carlos Souza",
		BirthDate:      "1995-03-14",
		PlanID:         "plan-1",
		EnrollmentDate: "2024-01-10",
		Status:         StatusActive,
		Belt:           BeltBlue,
		Stripes:        2,
		Date:           "2024-01-10",
	}
}

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(validParams())
	assert.NoError(t, err)
	assert.Equal(t, "Carlos Souza", s.Name)
	assert.Equal(t, 0, s.AttendanceCount)

	// History is seeded with the enrollment rank.
	assert.Len(t, s.GraduationHistory, 1)
	assert.Equal(t, BeltBlue, s.GraduationHistory[0].Belt)
	assert.Equal(t, 2, s.GraduationHistory[0].Stripes)
}

func TestNewStudentValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewStudentParams)
		wantErr error
	}{
		{"empty name", func(p *NewStudentParams) { p.Name = "  " }, ErrInvalidName},
		{"unknown belt", func(p *NewStudentParams) { p.Belt = "Vermelha" }, ErrInvalidBelt},
		{"negative stripes", func(p *NewStudentParams) { p.Stripes = -1 }, ErrInvalidStripes},
		{"too many stripes", func(p *NewStudentParams) { p.Stripes = 5 }, ErrInvalidStripes},
		{"bad status", func(p *NewStudentParams) { p.Status = "Suspenso" }, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewStudent(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewStudentDefaultsStatus(t *testing.T) {
	params := validParams()
	params.Status = ""
	s, err := NewStudent(params)
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, s.Status)
}

func TestBeltOrdering(t *testing.T) {
	assert.True(t, BeltWhite.Index() < BeltBlue.Index())
	assert.True(t, BeltBrown.Index() < BeltBlack.Index())

	next, ok := BeltBrown.Next()
	assert.True(t, ok)
	assert.Equal(t, BeltBlack, next)

	_, ok = BeltBlack.Next()
	assert.False(t, ok)

	assert.False(t, Belt("Vermelha").IsValid())
}

func TestApplyPatchPlainFields(t *testing.T) {
	s, _ := NewStudent(validParams())
	phone := "+55 11 99999-0000"
	status := StatusFrozen

	s.ApplyPatch(Patch{Phone: &phone, Status: &status}, "2024-06-01")

	assert.Equal(t, phone, s.Phone)
	assert.Equal(t, StatusFrozen, s.Status)
	// No rank field present, so no history entry.
	assert.Len(t, s.GraduationHistory, 1)
}

func TestApplyPatchPromotion(t *testing.T) {
	s, _ := NewStudent(validParams())
	belt := BeltPurple
	stripes := 0

	s.ApplyPatch(Patch{Belt: &belt, Stripes: &stripes}, "2024-06-01")

	assert.Equal(t, BeltPurple, s.Belt)
	assert.Equal(t, 0, s.Stripes)
	assert.Len(t, s.GraduationHistory, 2)

	last, ok := s.CurrentRank()
	assert.True(t, ok)
	assert.Equal(t, BeltPurple, last.Belt)
	assert.Equal(t, "2024-06-01", last.Date)
}

func TestApplyPatchRestatedRankStillAppends(t *testing.T) {
	s, _ := NewStudent(validParams())
	belt := s.Belt // same value as current

	s.ApplyPatch(Patch{Belt: &belt}, "2024-06-01")

	// Presence of the field is what matters, not a value change.
	assert.Len(t, s.GraduationHistory, 2)
}

func TestApplyPatchStripesOnly(t *testing.T) {
	s, _ := NewStudent(validParams())
	stripes := 3

	s.ApplyPatch(Patch{Stripes: &stripes}, "2024-06-01")

	assert.Equal(t, 3, s.Stripes)
	assert.Len(t, s.GraduationHistory, 2)
	// The appended entry carries the merged rank: old belt, new stripes.
	assert.Equal(t, BeltBlue, s.GraduationHistory[1].Belt)
	assert.Equal(t, 3, s.GraduationHistory[1].Stripes)
}

func TestRecordCheckIn(t *testing.T) {
	s, _ := NewStudent(validParams())
	s.RecordCheckIn()
	s.RecordCheckIn()
	assert.Equal(t, 2, s.AttendanceCount)
}

func TestClone(t *testing.T) {
	s, _ := NewStudent(validParams())
	clone := s.Clone()

	belt := BeltBrown
	clone.ApplyPatch(Patch{Belt: &belt}, "2025-01-01")

	assert.Equal(t, BeltBlue, s.Belt)
	assert.Len(t, s.GraduationHistory, 1)
	assert.Len(t, clone.GraduationHistory, 2)
}

func TestComputeProgress(t *testing.T) {
	rules := DefaultGraduationRules()

	s, _ := NewStudent(validParams())
	s.AttendanceCount = 120

	p, ok := ComputeProgress(s, rules)
	assert.True(t, ok)
	assert.Equal(t, 150, p.Required)
	assert.False(t, p.Eligible)
	assert.InDelta(t, 80.0, p.Percent, 0.01)

	s.AttendanceCount = 150
	p, _ = ComputeProgress(s, rules)
	assert.True(t, p.Eligible)
	assert.InDelta(t, 100.0, p.Percent, 0.01)
}

func TestComputeProgressNoRule(t *testing.T) {
	s, _ := NewStudent(validParams())
	s.Belt = BeltBlack

	_, ok := ComputeProgress(s, DefaultGraduationRules())
	assert.False(t, ok)
}

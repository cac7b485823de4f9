package academy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlanValidation(t *testing.T) {
	_, err := NewPlan("", "Mensal", 10000, 1)
	assert.Error(t, err)

	_, err = NewPlan("plan-1", "", 10000, 1)
	assert.ErrorIs(t, err, ErrInvalidPlanName)

	_, err = NewPlan("plan-1", "Mensal", -1, 1)
	assert.ErrorIs(t, err, ErrInvalidPlanPrice)

	_, err = NewPlan("plan-1", "Mensal", 10000, 0)
	assert.ErrorIs(t, err, ErrInvalidPlanDuration)
}

func TestMonthlyPrice(t *testing.T) {
	p, err := NewPlan("plan-4", "Anual", 90000, 12)
	assert.NoError(t, err)
	assert.Equal(t, int64(7500), p.MonthlyPrice())
}

func TestDefaultPlans(t *testing.T) {
	plans := DefaultPlans()
	assert.Len(t, plans, 4)
	assert.Equal(t, "Mensal", plans[0].Name)
	assert.Equal(t, int64(10000), plans[0].Price)
	assert.Equal(t, 12, plans[3].DurationMonths)
}

func TestNewClassSchedule(t *testing.T) {
	s, err := NewClassSchedule("sch-1", Monday, "19:00", "Jiu Jitsu Adulto", "Anderson")
	assert.NoError(t, err)
	assert.Equal(t, "Segunda", s.DayOfWeek)

	_, err = NewClassSchedule("sch-2", "Monday", "19:00", "Jiu Jitsu Adulto", "Anderson")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

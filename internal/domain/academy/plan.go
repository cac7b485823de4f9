// Package academy contains the academy-level configuration aggregates:
// membership plans and the weekly class schedule.
package academy

import "errors"

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: PLAN
// ══════════════════════════════════════════════════════════════════════════════

// Plan is a membership plan a student can be enrolled on.
type Plan struct {
	// ID is the unique identifier (UUID in string format).
	ID string `json:"id"`

	// Name is the display name ("Mensal", "Anual").
	Name string `json:"name"`

	// Price is the plan price in centavos for the whole duration.
	Price int64 `json:"price"`

	// DurationMonths is the billing period length.
	DurationMonths int `json:"durationMonths"`
}

var (
	// ErrInvalidPlanName - the plan name is empty.
	ErrInvalidPlanName = errors.New("plan name is required")

	// ErrInvalidPlanPrice - the plan price is negative.
	ErrInvalidPlanPrice = errors.New("plan price must not be negative")

	// ErrInvalidPlanDuration - the duration is not a positive month count.
	ErrInvalidPlanDuration = errors.New("plan duration must be at least one month")
)

// NewPlan creates a membership plan.
func NewPlan(id, name string, price int64, durationMonths int) (*Plan, error) {
	if id == "" {
		return nil, errors.New("plan id is required")
	}
	if name == "" {
		return nil, ErrInvalidPlanName
	}
	if price < 0 {
		return nil, ErrInvalidPlanPrice
	}
	if durationMonths < 1 {
		return nil, ErrInvalidPlanDuration
	}
	return &Plan{ID: id, Name: name, Price: price, DurationMonths: durationMonths}, nil
}

// MonthlyPrice returns the effective per-month cost in centavos.
func (p *Plan) MonthlyPrice() int64 {
	if p.DurationMonths == 0 {
		return p.Price
	}
	return p.Price / int64(p.DurationMonths)
}

// DefaultPlans returns the plans a fresh academy starts with.
func DefaultPlans() []*Plan {
	return []*Plan{
		{ID: "plan-1", Name: "Mensal", Price: 10000, DurationMonths: 1},
		{ID: "plan-2", Name: "Trimestral", Price: 27000, DurationMonths: 3},
		{ID: "plan-3", Name: "Semestral", Price: 50000, DurationMonths: 6},
		{ID: "plan-4", Name: "Anual", Price: 90000, DurationMonths: 12},
	}
}

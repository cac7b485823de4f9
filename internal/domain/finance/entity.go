// Package finance contains the academy's ledger: income and expense records
// and the summaries built from them. Amounts are stored in the smallest
// currency unit (centavos) to avoid floating point drift.
package finance

import "errors"

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// RecordType distinguishes money coming in from money going out.
type RecordType string

const (
	TypeIncome  RecordType = "INCOME"
	TypeExpense RecordType = "EXPENSE"
)

// IsValid checks that the record type is one of the known values.
func (t RecordType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentStatus tracks whether the money actually moved.
type PaymentStatus string

const (
	// StatusPaid - the payment cleared; the record counts toward balance.
	StatusPaid PaymentStatus = "Pago"
	// StatusPending - the payment is expected but not confirmed.
	StatusPending PaymentStatus = "Pendente"
	// StatusOverdue - the payment is past its due date.
	StatusOverdue PaymentStatus = "Atrasado"
)

// IsValid checks that the status is one of the known values.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusOverdue:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is a single ledger entry.
type Record struct {
	// ID is the unique identifier (UUID in string format).
	ID string `json:"id"`

	// StudentID references the student the record concerns, if any.
	// Empty for general income and for expenses.
	StudentID string `json:"studentId"`

	// Category groups entries for reporting ("Mensalidade", "Aluguel").
	Category string `json:"category"`

	// Description explains the entry ("Mensalidade Maio", "Aluguel").
	Description string `json:"description"`

	// Amount is the value in centavos, always non-negative. The Type
	// field carries the sign.
	Amount int64 `json:"amount"`

	// Date is the ISO calendar date of the entry.
	Date string `json:"date"`

	// Type marks the entry as income or expense.
	Type RecordType `json:"type"`

	// Status tracks payment confirmation.
	Status PaymentStatus `json:"status"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNegativeAmount - ledger amounts carry no sign of their own.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrInvalidType - the record type is not a known value.
	ErrInvalidType = errors.New("invalid financial record type")

	// ErrInvalidPaymentStatus - the payment status is not a known value.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecordParams contains the fields for adding a ledger entry.
type NewRecordParams struct {
	ID          string
	StudentID   string
	Category    string
	Description string
	Amount      int64
	Date        string
	Type        RecordType
	Status      PaymentStatus
}

// NewRecord creates a ledger entry.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, errors.New("record id is required")
	}
	if params.Amount < 0 {
		return nil, ErrNegativeAmount
	}
	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}

	status := params.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}

	return &Record{
		ID:          params.ID,
		StudentID:   params.StudentID,
		Category:    params.Category,
		Description: params.Description,
		Amount:      params.Amount,
		Date:        params.Date,
		Type:        params.Type,
		Status:      status,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// MarkPaid flips the record to the paid status.
func (r *Record) MarkPaid() {
	r.Status = StatusPaid
}

// CountsTowardBalance reports whether the record affects the cash balance.
// Only confirmed payments do.
func (r *Record) CountsTowardBalance() bool {
	return r.Status == StatusPaid
}

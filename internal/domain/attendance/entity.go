// Package attendance contains the check-in records of the academy. Records
// are immutable once written: corrections happen by deleting and re-adding.
package attendance

import "errors"

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Method describes how a check-in was captured.
type Method string

const (
	// MethodManual - an operator recorded the check-in from the desk.
	MethodManual Method = "MANUAL"
	// MethodTotem - the student checked in at the self-service kiosk.
	MethodTotem Method = "TOTEM"
)

// IsValid checks that the method is one of the known values.
func (m Method) IsValid() bool {
	return m == MethodManual || m == MethodTotem
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is a single check-in. The student name is denormalized at capture
// time and never updated afterwards, so the log reads correctly even after
// the student is renamed or removed.
type Record struct {
	// ID is the unique identifier (UUID in string format).
	ID string `json:"id"`

	// StudentID references the student who checked in.
	StudentID string `json:"studentId"`

	// StudentName is the student's name as of the check-in.
	StudentName string `json:"studentName"`

	// Date is the ISO calendar date of the check-in.
	Date string `json:"date"`

	// Time is the wall clock of the check-in, formatted HH:MM.
	Time string `json:"time"`

	// ClassID optionally references the ClassSchedule slot checked into.
	ClassID string `json:"classId,omitempty"`

	// Method records how the check-in was captured.
	Method Method `json:"method"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidMethod - the capture method is not a known value.
	ErrInvalidMethod = errors.New("invalid check-in method")

	// ErrMissingStudent - the record does not reference a student.
	ErrMissingStudent = errors.New("check-in requires a student id")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecordParams contains the fields for capturing a check-in.
type NewRecordParams struct {
	ID          string
	StudentID   string
	StudentName string
	Date        string
	Time        string
	ClassID     string
	Method      Method
}

// NewRecord creates an immutable check-in record.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, errors.New("record id is required")
	}
	if params.StudentID == "" {
		return nil, ErrMissingStudent
	}

	method := params.Method
	if method == "" {
		method = MethodManual
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}

	return &Record{
		ID:          params.ID,
		StudentID:   params.StudentID,
		StudentName: params.StudentName,
		Date:        params.Date,
		Time:        params.Time,
		ClassID:     params.ClassID,
		Method:      method,
	}, nil
}

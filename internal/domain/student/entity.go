// Package student contains the student aggregate of the academy: the roster
// entry itself, belt ranks, graduation history and the rules that govern
// promotion eligibility. This is core business logic - no external dependencies.
package student

import (
	"errors"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Belt represents a Brazilian Jiu-Jitsu belt rank. The string values are the
// Portuguese names used on the wire and in every persisted document.
type Belt string

const (
	BeltWhite  Belt = "Branca"
	BeltGray   Belt = "Cinza"
	BeltYellow Belt = "Amarela"
	BeltOrange Belt = "Laranja"
	BeltGreen  Belt = "Verde"
	BeltBlue   Belt = "Azul"
	BeltPurple Belt = "Roxa"
	BeltBrown  Belt = "Marrom"
	BeltBlack  Belt = "Preta"
)

// BeltOrder is the full rank progression from lowest to highest.
var BeltOrder = []Belt{
	BeltWhite, BeltGray, BeltYellow, BeltOrange, BeltGreen,
	BeltBlue, BeltPurple, BeltBrown, BeltBlack,
}

// IsValid checks that the belt is one of the known ranks.
func (b Belt) IsValid() bool {
	for _, known := range BeltOrder {
		if b == known {
			return true
		}
	}
	return false
}

// Index returns the position of the belt in the rank progression, or -1.
func (b Belt) Index() int {
	for i, known := range BeltOrder {
		if b == known {
			return i
		}
	}
	return -1
}

// Next returns the following belt in the progression. The second return is
// false for the black belt and for unknown belts.
func (b Belt) Next() (Belt, bool) {
	idx := b.Index()
	if idx < 0 || idx == len(BeltOrder)-1 {
		return b, false
	}
	return BeltOrder[idx+1], true
}

// String returns the wire representation of the belt.
func (b Belt) String() string {
	return string(b)
}

// Stripes represents the sub-increments within a belt.
type Stripes int

// MaxStripes is the highest stripe count a belt can carry.
const MaxStripes = 4

// IsValid checks that the stripe count is within [0, MaxStripes].
func (s Stripes) IsValid() bool {
	return s >= 0 && s <= MaxStripes
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status defines the current enrollment status of a student.
type Status string

const (
	// StatusActive - the student trains and is billed normally.
	StatusActive Status = "Ativo"
	// StatusInactive - the student stopped showing up.
	StatusInactive Status = "Inativo"
	// StatusFrozen - the membership is temporarily locked.
	StatusFrozen Status = "Trancado"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusFrozen:
		return true
	default:
		return false
	}
}

// IsBillable returns true if the student should appear in billing flows.
func (s Status) IsBillable() bool {
	return s == StatusActive
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// GraduationEntry is one snapshot in a student's graduation history.
// Entries are append-only and ordered oldest first.
type GraduationEntry struct {
	// Date is the ISO calendar date the rank was recorded.
	Date string `json:"date"`

	// Belt is the rank held as of Date.
	Belt Belt `json:"belt"`

	// Stripes is the stripe count held as of Date.
	Stripes int `json:"stripes"`
}

// Student is the central entity of the academy roster.
type Student struct {
	// ID is the unique identifier (UUID in string format).
	ID string `json:"id"`

	// Name is the student's full name.
	Name string `json:"name"`

	// BirthDate is the ISO date of birth.
	BirthDate string `json:"birthDate"`

	// CPF is the Brazilian taxpayer number, formatted 000.000.000-00.
	CPF string `json:"cpf"`

	// Phone is the contact phone number.
	Phone string `json:"phone"`

	// Email is the contact email address.
	Email string `json:"email"`

	// Address is the postal address.
	Address string `json:"address"`

	// PlanID references the membership Plan the student is on.
	PlanID string `json:"planId"`

	// EnrollmentDate is the ISO date the student joined the academy.
	EnrollmentDate string `json:"enrollmentDate"`

	// Status is the current enrollment status.
	Status Status `json:"status"`

	// PhotoURL points at the roster photo.
	PhotoURL string `json:"photoUrl"`

	// Belt is the current rank.
	Belt Belt `json:"belt"`

	// Stripes is the current stripe count (0-4).
	Stripes int `json:"stripes"`

	// GraduationHistory records every rank the student has held, oldest
	// first. Never empty once the student exists; the last entry always
	// matches the current Belt/Stripes after a promotion is recorded.
	GraduationHistory []GraduationEntry `json:"graduationHistory"`

	// AttendanceCount counts recorded check-ins. Monotonically
	// non-decreasing; mutated only by attendance recording.
	AttendanceCount int `json:"attendanceCount"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - the name is empty or too long.
	ErrInvalidName = errors.New("invalid name: must be 1-100 chars")

	// ErrInvalidBelt - the belt is not a known rank.
	ErrInvalidBelt = errors.New("invalid belt: unknown rank")

	// ErrInvalidStripes - the stripe count is out of range.
	ErrInvalidStripes = errors.New("invalid stripes: must be between 0 and 4")

	// ErrInvalidStatus - the status is not a known value.
	ErrInvalidStatus = errors.New("invalid student status")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams contains the caller-supplied fields for enrolling a
// student. ID, attendance count and graduation history are engine-owned.
type NewStudentParams struct {
	ID             string
	Name           string
	BirthDate      string
	CPF            string
	Phone          string
	Email          string
	Address        string
	PlanID         string
	EnrollmentDate string
	Status         Status
	PhotoURL       string
	Belt           Belt
	Stripes        int
	Date           string // ISO date for the seed graduation entry
}

// NewStudent creates a student with a zero attendance count and a
// graduation history seeded with one entry matching the given belt/stripes.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if !params.Belt.IsValid() {
		return nil, ErrInvalidBelt
	}

	if !Stripes(params.Stripes).IsValid() {
		return nil, ErrInvalidStripes
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Student{
		ID:             params.ID,
		Name:           name,
		BirthDate:      params.BirthDate,
		CPF:            params.CPF,
		Phone:          params.Phone,
		Email:          params.Email,
		Address:        params.Address,
		PlanID:         params.PlanID,
		EnrollmentDate: params.EnrollmentDate,
		Status:         status,
		PhotoURL:       params.PhotoURL,
		Belt:           params.Belt,
		Stripes:        params.Stripes,
		GraduationHistory: []GraduationEntry{
			{Date: params.Date, Belt: params.Belt, Stripes: params.Stripes},
		},
		AttendanceCount: 0,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTIAL UPDATES
// ══════════════════════════════════════════════════════════════════════════════

// Patch carries a partial update of a student. Nil fields are left untouched.
type Patch struct {
	Name           *string `json:"name,omitempty"`
	BirthDate      *string `json:"birthDate,omitempty"`
	CPF            *string `json:"cpf,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	Address        *string `json:"address,omitempty"`
	PlanID         *string `json:"planId,omitempty"`
	EnrollmentDate *string `json:"enrollmentDate,omitempty"`
	Status         *Status `json:"status,omitempty"`
	PhotoURL       *string `json:"photoUrl,omitempty"`
	Belt           *Belt   `json:"belt,omitempty"`
	Stripes        *int    `json:"stripes,omitempty"`
}

// TouchesRank reports whether the patch carries a belt or stripe value.
// Presence is what matters: a patch restating the current rank still counts.
func (p Patch) TouchesRank() bool {
	return p.Belt != nil || p.Stripes != nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// ApplyPatch merges the patch into the student. If the patch carries a belt
// or stripe value, a graduation history entry dated date is appended with
// the resulting rank - unconditionally on field presence, even when the new
// value equals the old one.
func (s *Student) ApplyPatch(p Patch, date string) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.BirthDate != nil {
		s.BirthDate = *p.BirthDate
	}
	if p.CPF != nil {
		s.CPF = *p.CPF
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.PlanID != nil {
		s.PlanID = *p.PlanID
	}
	if p.EnrollmentDate != nil {
		s.EnrollmentDate = *p.EnrollmentDate
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.PhotoURL != nil {
		s.PhotoURL = *p.PhotoURL
	}
	if p.Belt != nil {
		s.Belt = *p.Belt
	}
	if p.Stripes != nil {
		s.Stripes = *p.Stripes
	}

	if p.TouchesRank() {
		s.GraduationHistory = append(s.GraduationHistory, GraduationEntry{
			Date:    date,
			Belt:    s.Belt,
			Stripes: s.Stripes,
		})
	}
}

// RecordCheckIn increments the attendance counter by exactly one.
func (s *Student) RecordCheckIn() {
	s.AttendanceCount++
}

// CurrentRank returns the last graduation history entry. The second return
// is false when the history is empty, which only happens for documents
// written by a foreign tool.
func (s *Student) CurrentRank() (GraduationEntry, bool) {
	if len(s.GraduationHistory) == 0 {
		return GraduationEntry{}, false
	}
	return s.GraduationHistory[len(s.GraduationHistory)-1], true
}

// String returns a string representation of the student for logging.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, Name: %s, Belt: %s, Stripes: %d, Attendance: %d}",
		s.ID, s.Name, s.Belt, s.Stripes, s.AttendanceCount,
	)
}

// Clone creates a deep copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	clone.GraduationHistory = make([]GraduationEntry, len(s.GraduationHistory))
	copy(clone.GraduationHistory, s.GraduationHistory)
	return &clone
}

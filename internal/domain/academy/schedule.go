package academy

import "errors"

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: CLASS SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// Weekday names as they appear on the wire (Portuguese).
const (
	Monday    = "Segunda"
	Tuesday   = "Terça"
	Wednesday = "Quarta"
	Thursday  = "Quinta"
	Friday    = "Sexta"
	Saturday  = "Sábado"
	Sunday    = "Domingo"
)

// Weekdays lists the valid dayOfWeek values in calendar order.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ClassSchedule is one recurring weekly class slot.
type ClassSchedule struct {
	// ID is the unique identifier (UUID in string format).
	ID string `json:"id"`

	// DayOfWeek is the weekday name ("Segunda" .. "Domingo").
	DayOfWeek string `json:"dayOfWeek"`

	// Time is the start time, formatted HH:MM.
	Time string `json:"time"`

	// ClassName is the class label ("Jiu Jitsu Adulto", "Jiu Jitsu Kids").
	ClassName string `json:"className"`

	// Instructor is the name of the professor running the class.
	Instructor string `json:"instructor"`
}

var (
	// ErrInvalidWeekday - the day is not one of the known weekday names.
	ErrInvalidWeekday = errors.New("invalid day of week")
)

// IsValidWeekday checks the weekday name against the known list.
func IsValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if day == d {
			return true
		}
	}
	return false
}

// NewClassSchedule creates a weekly class slot.
func NewClassSchedule(id, dayOfWeek, timeOfDay, className, instructor string) (*ClassSchedule, error) {
	if id == "" {
		return nil, errors.New("schedule id is required")
	}
	if !IsValidWeekday(dayOfWeek) {
		return nil, ErrInvalidWeekday
	}
	return &ClassSchedule{
		ID:         id,
		DayOfWeek:  dayOfWeek,
		Time:       timeOfDay,
		ClassName:  className,
		Instructor: instructor,
	}, nil
}

package engine

import (
	"github.com/google/uuid"

	"github.com/treebjj/academy-hub/internal/domain/academy"
	"github.com/treebjj/academy-hub/internal/domain/attendance"
	"github.com/treebjj/academy-hub/internal/domain/finance"
	"github.com/treebjj/academy-hub/internal/domain/shared"
	"github.com/treebjj/academy-hub/internal/domain/student"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	"github.com/treebjj/academy-hub/pkg/logger"
	"github.com/treebjj/academy-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentParams carries the caller-supplied fields for enrollment.
// ID, attendance count and graduation history are engine-owned.
type EnrollStudentParams struct {
	Name           string
	BirthDate      string
	CPF            string
	Phone          string
	Email          string
	Address        string
	PlanID         string
	EnrollmentDate string
	Status         student.Status
	PhotoURL       string
	Belt           student.Belt
	Stripes        int
}

// EnrollStudent creates a student with a fresh id and a history seeded
// with today's rank, and prepends them to the roster (newest first).
func (e *Engine) EnrollStudent(params EnrollStudentParams) (*student.Student, error) {
	s, err := student.NewStudent(student.NewStudentParams{
		ID:             uuid.NewString(),
		Name:           params.Name,
		BirthDate:      params.BirthDate,
		CPF:            params.CPF,
		Phone:          params.Phone,
		Email:          params.Email,
		Address:        params.Address,
		PlanID:         params.PlanID,
		EnrollmentDate: params.EnrollmentDate,
		Status:         params.Status,
		PhotoURL:       params.PhotoURL,
		Belt:           params.Belt,
		Stripes:        params.Stripes,
		Date:           e.today(),
	})
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.students = append([]*student.Student{s}, e.students...)
	e.persist(localstore.SlotStudents, e.students)
	e.version++
	e.recomputeNotifications()
	e.mu.Unlock()

	e.log.Info("student enrolled", logger.StudentID(s.ID), logger.Belt(string(s.Belt)))
	e.publish(shared.EventStudentsChanged, "students", OriginLocal)
	return s.Clone(), nil
}

// UpdateStudent merges the patch into the matching student. A belt or
// stripe field in the patch appends a graduation history entry dated
// today, even when the value is unchanged. Returns
// shared.ErrStudentNotFound when the id is unknown; the caller may treat
// that as a no-op, nothing was modified.
func (e *Engine) UpdateStudent(id string, patch student.Patch) error {
	e.mu.Lock()

	var target *student.Student
	for _, s := range e.students {
		if s.ID == id {
			target = s
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		return shared.ErrStudentNotFound
	}

	target.ApplyPatch(patch, e.today())
	e.persist(localstore.SlotStudents, e.students)
	e.version++
	e.recomputeNotifications()
	e.mu.Unlock()

	e.publish(shared.EventStudentsChanged, "students", OriginLocal)
	return nil
}

// RemoveStudent deletes the student from the roster. Attendance and
// financial records referencing them are kept; their denormalized names
// keep the history readable.
func (e *Engine) RemoveStudent(id string) error {
	e.mu.Lock()

	idx := -1
	for i, s := range e.students {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return shared.ErrStudentNotFound
	}

	e.students = append(e.students[:idx], e.students[idx+1:]...)
	e.persist(localstore.SlotStudents, e.students)
	e.version++
	e.recomputeNotifications()
	e.mu.Unlock()

	e.log.Info("student removed", logger.StudentID(id))
	e.publish(shared.EventStudentsChanged, "students", OriginLocal)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// RecordAttendance checks a student in: one new record is prepended to the
// log and the student's attendance counter grows by exactly one. Returns
// shared.ErrStudentNotFound for an unknown student, with no collection
// touched.
func (e *Engine) RecordAttendance(studentID, classID string, method attendance.Method) (*attendance.Record, error) {
	e.mu.Lock()

	var target *student.Student
	for _, s := range e.students {
		if s.ID == studentID {
			target = s
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		return nil, shared.ErrStudentNotFound
	}

	now := e.now()
	record, err := attendance.NewRecord(attendance.NewRecordParams{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		StudentName: target.Name,
		Date:        timeutil.FormatDate(now),
		Time:        timeutil.FormatClock(now),
		ClassID:     classID,
		Method:      method,
	})
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.attendance = append([]*attendance.Record{record}, e.attendance...)
	target.RecordCheckIn()

	e.persist(localstore.SlotAttendance, e.attendance)
	e.persist(localstore.SlotStudents, e.students)
	e.version++
	e.recomputeNotifications()
	e.mu.Unlock()

	e.log.Info("check-in recorded",
		logger.StudentID(studentID),
		logger.String("method", string(record.Method)),
	)
	e.publish(shared.EventAttendanceChanged, "attendance", OriginLocal)
	e.publish(shared.EventStudentsChanged, "students", OriginLocal)
	return record, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FINANCIALS
// ══════════════════════════════════════════════════════════════════════════════

// AddFinancialParams carries the fields for a new ledger entry.
type AddFinancialParams struct {
	StudentID   string
	Category    string
	Description string
	Amount      int64
	Date        string
	Type        finance.RecordType
	Status      finance.PaymentStatus
}

// AddFinancial assigns a fresh id and prepends the entry to the ledger.
// An empty date defaults to today.
func (e *Engine) AddFinancial(params AddFinancialParams) (*finance.Record, error) {
	date := params.Date
	if date == "" {
		date = e.today()
	}

	record, err := finance.NewRecord(finance.NewRecordParams{
		ID:          uuid.NewString(),
		StudentID:   params.StudentID,
		Category:    params.Category,
		Description: params.Description,
		Amount:      params.Amount,
		Date:        date,
		Type:        params.Type,
		Status:      params.Status,
	})
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.financials = append([]*finance.Record{record}, e.financials...)
	e.persist(localstore.SlotFinancials, e.financials)
	e.version++
	e.mu.Unlock()

	e.publish(shared.EventFinancialsChanged, "financials", OriginLocal)
	return record, nil
}

// DeleteFinancial removes the matching ledger entry. Returns
// shared.ErrFinancialNotFound for an unknown id; the ledger is untouched.
func (e *Engine) DeleteFinancial(id string) error {
	e.mu.Lock()

	idx := -1
	for i, r := range e.financials {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return shared.ErrFinancialNotFound
	}

	e.financials = append(e.financials[:idx], e.financials[idx+1:]...)
	e.persist(localstore.SlotFinancials, e.financials)
	e.version++
	e.mu.Unlock()

	e.publish(shared.EventFinancialsChanged, "financials", OriginLocal)
	return nil
}

// MarkFinancialPaid flips a ledger entry to the paid status.
func (e *Engine) MarkFinancialPaid(id string) error {
	e.mu.Lock()

	var target *finance.Record
	for _, r := range e.financials {
		if r.ID == id {
			target = r
			break
		}
	}
	if target == nil {
		e.mu.Unlock()
		return shared.ErrFinancialNotFound
	}

	target.MarkPaid()
	e.persist(localstore.SlotFinancials, e.financials)
	e.version++
	e.mu.Unlock()

	e.publish(shared.EventFinancialsChanged, "financials", OriginLocal)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION COLLECTIONS (full replace)
// ══════════════════════════════════════════════════════════════════════════════

// ReplacePlans swaps the whole plan collection.
func (e *Engine) ReplacePlans(plans []*academy.Plan) {
	e.mu.Lock()
	e.plans = plans
	e.persist(localstore.SlotPlans, e.plans)
	e.version++
	e.mu.Unlock()

	e.publish(shared.EventPlansChanged, "plans", OriginLocal)
}

// ReplaceSchedules swaps the whole weekly schedule.
func (e *Engine) ReplaceSchedules(schedules []*academy.ClassSchedule) {
	e.mu.Lock()
	e.schedules = schedules
	e.persist(localstore.SlotSchedules, e.schedules)
	e.version++
	e.mu.Unlock()

	e.publish(shared.EventSchedulesChanged, "schedules", OriginLocal)
}

// ReplaceGraduationRules swaps the rule set and recomputes the alerts.
func (e *Engine) ReplaceGraduationRules(rules []student.GraduationRule) {
	e.mu.Lock()
	e.rules = rules
	e.persist(localstore.SlotGraduationRules, e.rules)
	e.version++
	e.recomputeNotifications()
	e.mu.Unlock()

	e.publish(shared.EventGraduationRulesChanged, "graduationRules", OriginLocal)
}

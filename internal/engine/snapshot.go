package engine

import (
	"encoding/json"
	"time"

	"github.com/treebjj/academy-hub/internal/domain/academy"
	"github.com/treebjj/academy-hub/internal/domain/attendance"
	"github.com/treebjj/academy-hub/internal/domain/finance"
	"github.com/treebjj/academy-hub/internal/domain/shared"
	"github.com/treebjj/academy-hub/internal/domain/student"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	"github.com/treebjj/academy-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT DOCUMENT
// ══════════════════════════════════════════════════════════════════════════════

// snapshotDocument is the interchange shape shared by manual export/import
// and the sync protocol. On write every collection is present; on read each
// is optional, and only the ones present replace local state. The pointer
// fields distinguish "absent" from "present but empty".
type snapshotDocument struct {
	Students        *[]*student.Student        `json:"students,omitempty"`
	Attendance      *[]*attendance.Record      `json:"attendance,omitempty"`
	Financials      *[]*finance.Record         `json:"financials,omitempty"`
	Plans           *[]*academy.Plan           `json:"plans,omitempty"`
	Schedules       *[]*academy.ClassSchedule  `json:"schedules,omitempty"`
	GraduationRules *[]student.GraduationRule  `json:"graduationRules,omitempty"`
	UpdatedAt       string                     `json:"updatedAt,omitempty"`
}

// ExportSnapshot serializes all synced collections plus a timestamp into
// one JSON document.
func (e *Engine) ExportSnapshot() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	// Nil slices export as [] so every collection key is present.
	students := e.students
	if students == nil {
		students = []*student.Student{}
	}
	records := e.attendance
	if records == nil {
		records = []*attendance.Record{}
	}
	financials := e.financials
	if financials == nil {
		financials = []*finance.Record{}
	}
	plans := e.plans
	if plans == nil {
		plans = []*academy.Plan{}
	}
	schedules := e.schedules
	if schedules == nil {
		schedules = []*academy.ClassSchedule{}
	}
	rules := e.rules
	if rules == nil {
		rules = []student.GraduationRule{}
	}

	doc := snapshotDocument{
		Students:        &students,
		Attendance:      &records,
		Financials:      &financials,
		Plans:           &plans,
		Schedules:       &schedules,
		GraduationRules: &rules,
		UpdatedAt:       e.now().UTC().Format(time.RFC3339),
	}
	return json.Marshal(doc)
}

// ImportSnapshot applies a user-supplied snapshot document. Collections
// present in the document replace local state; absent ones are untouched.
// Returns false on a parse failure, in which case no state changed.
func (e *Engine) ImportSnapshot(data []byte) bool {
	return e.ApplySnapshot(data, OriginLocal)
}

// ApplySnapshot is the shared merge step behind imports and sync pulls.
// Origin is carried on the change events so the sync adapter can tell its
// own pull applies apart from local edits.
func (e *Engine) ApplySnapshot(data []byte, origin string) bool {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		e.log.Warn("snapshot rejected", logger.Err(err))
		return false
	}

	changed := make([]shared.EventType, 0, 6)

	e.mu.Lock()
	if doc.Students != nil {
		e.students = *doc.Students
		e.persist(localstore.SlotStudents, e.students)
		changed = append(changed, shared.EventStudentsChanged)
	}
	if doc.Attendance != nil {
		e.attendance = *doc.Attendance
		e.persist(localstore.SlotAttendance, e.attendance)
		changed = append(changed, shared.EventAttendanceChanged)
	}
	if doc.Financials != nil {
		e.financials = *doc.Financials
		e.persist(localstore.SlotFinancials, e.financials)
		changed = append(changed, shared.EventFinancialsChanged)
	}
	if doc.Plans != nil {
		e.plans = *doc.Plans
		e.persist(localstore.SlotPlans, e.plans)
		changed = append(changed, shared.EventPlansChanged)
	}
	if doc.Schedules != nil {
		e.schedules = *doc.Schedules
		e.persist(localstore.SlotSchedules, e.schedules)
		changed = append(changed, shared.EventSchedulesChanged)
	}
	if doc.GraduationRules != nil {
		e.rules = *doc.GraduationRules
		e.persist(localstore.SlotGraduationRules, e.rules)
		changed = append(changed, shared.EventGraduationRulesChanged)
	}

	if len(changed) > 0 {
		e.version++
		e.recomputeNotifications()
	}
	e.mu.Unlock()

	eventNames := map[shared.EventType]string{
		shared.EventStudentsChanged:        "students",
		shared.EventAttendanceChanged:      "attendance",
		shared.EventFinancialsChanged:      "financials",
		shared.EventPlansChanged:           "plans",
		shared.EventSchedulesChanged:       "schedules",
		shared.EventGraduationRulesChanged: "graduationRules",
	}
	for _, eventType := range changed {
		e.publish(eventType, eventNames[eventType], origin)
	}
	return true
}

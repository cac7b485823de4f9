// Package localstore provides the durable key-value slots the state engine
// persists its collections into. A slot holds one opaque JSON payload; the
// engine decides what goes inside.
//
// Three backends are available: a plain file directory, an embedded SQLite
// database and Redis. All of them honor the same Store contract.
package localstore

import "errors"

// Well-known slot names. These match the keys the desk application has
// always used, so existing data directories keep working across upgrades.
const (
	SlotStudents        = "treebjj_students"
	SlotAttendance      = "treebjj_attendance"
	SlotFinancials      = "treebjj_financials"
	SlotPlans           = "treebjj_plans"
	SlotSchedules       = "treebjj_schedules"
	SlotGraduationRules = "treebjj_grad_rules"
	SlotUser            = "treebjj_user"
	SlotSyncID          = "treebjj_sync_id"
)

// CollectionSlots lists the slots that hold synced collections, in the
// order they appear in the snapshot document.
var CollectionSlots = []string{
	SlotStudents,
	SlotAttendance,
	SlotFinancials,
	SlotPlans,
	SlotSchedules,
	SlotGraduationRules,
}

// ErrSlotEmpty is returned by Load when the slot has never been written or
// was cleared. Callers fall back to their seed data on it.
var ErrSlotEmpty = errors.New("localstore: slot is empty")

// Store is the persistence contract the engine writes through. Save must be
// atomic per slot: a crash mid-write leaves either the old payload or the
// new one, never a torn mix.
type Store interface {
	// Load returns the payload stored in the slot, or ErrSlotEmpty.
	Load(slot string) ([]byte, error)

	// Save replaces the slot's payload.
	Save(slot string, payload []byte) error

	// Clear removes the slot. Clearing an absent slot is not an error.
	Clear(slot string) error

	// ClearAll removes every slot, including ones this package does not
	// know the names of. Used by the full data reset.
	ClearAll() error

	// Close releases backend resources.
	Close() error
}

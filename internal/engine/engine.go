// Package engine implements the canonical in-memory state of the academy:
// every collection the application reads, every mutation it performs, and
// the derived graduation alerts. All mutations are synchronous read-modify-
// write steps that persist to the local store before returning, so the
// store always reflects the last committed state.
package engine

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/treebjj/academy-hub/internal/domain/academy"
	"github.com/treebjj/academy-hub/internal/domain/attendance"
	"github.com/treebjj/academy-hub/internal/domain/catalog"
	"github.com/treebjj/academy-hub/internal/domain/finance"
	"github.com/treebjj/academy-hub/internal/domain/shared"
	"github.com/treebjj/academy-hub/internal/domain/student"
	"github.com/treebjj/academy-hub/internal/domain/user"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	"github.com/treebjj/academy-hub/pkg/logger"
	"github.com/treebjj/academy-hub/pkg/timeutil"
)

// Origin values carried on collection change events.
const (
	OriginLocal  = "local"
	OriginRemote = "remote"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains the engine's dependencies.
type Config struct {
	// Store is the durable slot store. Required.
	Store localstore.Store

	// Bus receives collection change events. Required.
	Bus shared.EventBus

	// Logger for structured logging. Defaults to logger.Default().
	Logger *logger.Logger

	// Accounts are the operator accounts that can log in.
	Accounts []*user.User

	// Now supplies the current time. Defaults to timeutil.Now. Tests
	// inject a fixed clock to make dates deterministic.
	Now func() time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Engine owns all mutable collections. One instance exists per process,
// constructed at startup and shared by the HTTP layer and the sync adapter.
type Engine struct {
	mu sync.RWMutex

	store localstore.Store
	bus   shared.EventBus
	log   *logger.Logger
	now   func() time.Time

	students   []*student.Student
	attendance []*attendance.Record
	financials []*finance.Record
	plans      []*academy.Plan
	schedules  []*academy.ClassSchedule
	rules      []student.GraduationRule
	products   []*catalog.Product

	notifications []string

	accounts    []*user.User
	currentUser *user.User

	// version counts committed mutations of synced collections. The
	// sync adapter compares it against the version it recorded at the
	// last pull apply to decide whether a push is due.
	version uint64
}

// New hydrates an engine from the store. Absent or malformed slots fall
// back to defaults: the seed roster and ledger on first run, empty
// attendance and schedules, the stock plans and graduation rules.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}
	if cfg.Bus == nil {
		return nil, fmt.Errorf("engine: event bus is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Now == nil {
		cfg.Now = timeutil.Now
	}

	e := &Engine{
		store:    cfg.Store,
		bus:      cfg.Bus,
		log:      cfg.Logger.With(logger.Component("engine")),
		now:      cfg.Now,
		accounts: cfg.Accounts,
		products: catalog.SeedProducts(),
	}

	loadSlot(e, localstore.SlotStudents, &e.students, SeedStudents)
	loadSlot(e, localstore.SlotAttendance, &e.attendance, func() []*attendance.Record { return nil })
	loadSlot(e, localstore.SlotFinancials, &e.financials, SeedFinancials)
	loadSlot(e, localstore.SlotPlans, &e.plans, academy.DefaultPlans)
	loadSlot(e, localstore.SlotSchedules, &e.schedules, func() []*academy.ClassSchedule { return nil })
	loadSlot(e, localstore.SlotGraduationRules, &e.rules, student.DefaultGraduationRules)

	e.restoreSession()
	e.recomputeNotifications()

	e.log.Info("engine hydrated",
		logger.Int("students", len(e.students)),
		logger.Int("attendance", len(e.attendance)),
		logger.Int("financials", len(e.financials)),
	)
	return e, nil
}

// loadSlot fills dest from the store, falling back to seed() when the slot
// is absent or holds text that no longer parses.
func loadSlot[T any](e *Engine, slot string, dest *T, seed func() T) {
	data, err := e.store.Load(slot)
	if err != nil {
		*dest = seed()
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		e.log.Warn("slot holds malformed data, using defaults",
			logger.Slot(slot), logger.Err(err))
		*dest = seed()
	}
}

// restoreSession reloads the logged-in user persisted by a previous run.
func (e *Engine) restoreSession() {
	data, err := e.store.Load(localstore.SlotUser)
	if err != nil {
		return
	}

	var persisted user.User
	if err := json.Unmarshal(data, &persisted); err != nil {
		return
	}
	for _, account := range e.accounts {
		if account.ID == persisted.ID {
			e.currentUser = account
			return
		}
	}
}

// persist marshals v into the slot. A failed write is logged and returned;
// the in-memory state keeps the mutation either way.
func (e *Engine) persist(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", slot, err)
	}
	if err := e.store.Save(slot, data); err != nil {
		e.log.Error("persist failed", logger.Slot(slot), logger.Err(err))
		return err
	}
	return nil
}

// publish emits a collection change event. Must be called outside e.mu,
// since handlers may call back into the engine's read methods.
func (e *Engine) publish(eventType shared.EventType, collection, origin string) {
	event := shared.NewCollectionChangedEvent(eventType, collection, origin)
	if err := e.bus.Publish(event); err != nil {
		e.log.Warn("publish failed", logger.String("collection", collection), logger.Err(err))
	}
}

// today returns the current São Paulo calendar date.
func (e *Engine) today() string {
	return timeutil.FormatDate(e.now())
}

// Version returns the mutation counter for the synced collections.
func (e *Engine) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// ══════════════════════════════════════════════════════════════════════════════
// READ ACCESS
// ══════════════════════════════════════════════════════════════════════════════

// Students returns a copy of the roster, newest first.
func (e *Engine) Students() []*student.Student {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*student.Student, len(e.students))
	for i, s := range e.students {
		out[i] = s.Clone()
	}
	return out
}

// StudentByID returns a copy of one student.
func (e *Engine) StudentByID(id string) (*student.Student, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, s := range e.students {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

// Attendance returns a copy of the check-in log, newest first.
func (e *Engine) Attendance() []*attendance.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*attendance.Record, len(e.attendance))
	copy(out, e.attendance)
	return out
}

// Financials returns a copy of the ledger, newest first.
func (e *Engine) Financials() []*finance.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*finance.Record, len(e.financials))
	copy(out, e.financials)
	return out
}

// Plans returns a copy of the membership plans.
func (e *Engine) Plans() []*academy.Plan {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*academy.Plan, len(e.plans))
	copy(out, e.plans)
	return out
}

// Schedules returns a copy of the weekly class schedule.
func (e *Engine) Schedules() []*academy.ClassSchedule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*academy.ClassSchedule, len(e.schedules))
	copy(out, e.schedules)
	return out
}

// GraduationRules returns a copy of the configured rules.
func (e *Engine) GraduationRules() []student.GraduationRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]student.GraduationRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Products returns the read-only pro-shop catalog.
func (e *Engine) Products() []*catalog.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*catalog.Product, len(e.products))
	copy(out, e.products)
	return out
}

// Notifications returns the current graduation alerts.
func (e *Engine) Notifications() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, len(e.notifications))
	copy(out, e.notifications)
	return out
}

// FinancialSummary aggregates the ledger. A non-empty month ("2006-01")
// restricts the summary to that calendar month.
func (e *Engine) FinancialSummary(month string) finance.Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if month == "" {
		return finance.Summarize(e.financials)
	}
	return finance.SummarizeMonth(e.financials, month)
}

// GraduationProgress evaluates every student against the current rules.
// Students whose belt has no rule are omitted.
func (e *Engine) GraduationProgress() []student.Progress {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]student.Progress, 0, len(e.students))
	for _, s := range e.students {
		if p, ok := student.ComputeProgress(s, e.rules); ok {
			out = append(out, p)
		}
	}
	return out
}

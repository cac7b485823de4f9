package engine

import (
	"github.com/treebjj/academy-hub/internal/domain/academy"
	"github.com/treebjj/academy-hub/internal/domain/catalog"
	"github.com/treebjj/academy-hub/internal/domain/shared"
	"github.com/treebjj/academy-hub/internal/domain/student"
	"github.com/treebjj/academy-hub/internal/domain/user"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	"github.com/treebjj/academy-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Login authenticates an operator account by email and password. The
// session survives restarts through the user slot.
func (e *Engine) Login(email, password string) (*user.User, error) {
	e.mu.Lock()

	var account *user.User
	for _, a := range e.accounts {
		if a.Email == email {
			account = a
			break
		}
	}
	if account == nil {
		e.mu.Unlock()
		return nil, user.ErrInvalidCredentials
	}
	if err := account.CheckPassword(password); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.currentUser = account
	e.persist(localstore.SlotUser, account)
	e.mu.Unlock()

	e.log.Info("user logged in", logger.String("user_id", account.ID))
	e.bus.Publish(shared.NewBaseEvent(shared.EventUserLoggedIn, account.ID))
	return account, nil
}

// Logout clears the session and its persisted slot.
func (e *Engine) Logout() {
	e.mu.Lock()
	id := ""
	if e.currentUser != nil {
		id = e.currentUser.ID
	}
	e.currentUser = nil
	e.store.Clear(localstore.SlotUser)
	e.mu.Unlock()

	if id != "" {
		e.bus.Publish(shared.NewBaseEvent(shared.EventUserLoggedOut, id))
	}
}

// CurrentUser returns the logged-in account, or nil.
func (e *Engine) CurrentUser() *user.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentUser
}

// ══════════════════════════════════════════════════════════════════════════════
// FULL RESET
// ══════════════════════════════════════════════════════════════════════════════

// Reset erases every slot and returns the engine to its first-run state:
// seed roster and ledger, stock plans and rules, empty attendance and
// schedules, nobody logged in. The sync identifier is wiped too, so the
// device stops mirroring until re-provisioned.
func (e *Engine) Reset() error {
	e.mu.Lock()
	if err := e.store.ClearAll(); err != nil {
		e.mu.Unlock()
		return err
	}

	e.students = SeedStudents()
	e.attendance = nil
	e.financials = SeedFinancials()
	e.plans = academy.DefaultPlans()
	e.schedules = nil
	e.rules = student.DefaultGraduationRules()
	e.products = catalog.SeedProducts()
	e.currentUser = nil
	e.version++
	e.recomputeNotifications()
	e.mu.Unlock()

	e.log.Warn("full data reset performed")
	e.bus.Publish(shared.NewBaseEvent(shared.EventDataReset, ""))
	return nil
}

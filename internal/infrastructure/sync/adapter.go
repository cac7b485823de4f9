// Package sync mirrors the local snapshot to a remote document store so a
// second device sharing the same sync identifier converges to the same
// state. Mirroring is best effort: pushes are debounced, pulls are polled,
// and network failures are logged and swallowed.
package sync

import (
	"context"
	"errors"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/treebjj/academy-hub/internal/domain/shared"
	"github.com/treebjj/academy-hub/internal/engine"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	"github.com/treebjj/academy-hub/internal/infrastructure/scheduler"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultDebounceDelay is the quiet period after the last local
	// mutation before a push fires.
	DefaultDebounceDelay = 2 * time.Second

	// DefaultPollInterval is the period between remote pulls.
	DefaultPollInterval = 15 * time.Second
)

// StateSource is the slice of the state engine the adapter works against.
type StateSource interface {
	// ExportSnapshot serializes all synced collections.
	ExportSnapshot() ([]byte, error)

	// ApplySnapshot overwrites the collections present in data. The origin
	// is carried on the resulting change events.
	ApplySnapshot(data []byte, origin string) bool

	// Version is a counter that advances on every committed mutation.
	Version() uint64
}

// Remote is the document service surface the adapter needs.
type Remote interface {
	Create(ctx context.Context, body []byte) (string, error)
	Replace(ctx context.Context, id string, body []byte) error
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Config contains configuration for the sync adapter.
type Config struct {
	// Source is the state engine being mirrored.
	Source StateSource

	// Remote is the document store client.
	Remote Remote

	// Store persists the sync identifier across restarts.
	Store localstore.Store

	// Bus delivers the collection change events that arm the push debounce.
	Bus shared.EventBus

	// Clock drives the debounce timer. Nil falls back to the real clock.
	Clock scheduler.Clock

	// Logger for structured logging.
	Logger *slog.Logger

	// DebounceDelay overrides DefaultDebounceDelay when positive.
	DebounceDelay time.Duration

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNoSyncID is returned when a pull is requested before an
	// identifier is configured.
	ErrNoSyncID = errors.New("sync: no sync identifier configured")

	// ErrEmptySyncID is returned when adopting a blank identifier.
	ErrEmptySyncID = errors.New("sync: identifier cannot be empty")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("sync: adapter already started")
)

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTER
// ══════════════════════════════════════════════════════════════════════════════

// Status is the sync state surfaced to presentation components.
type Status struct {
	SyncID       string    `json:"syncId"`
	PushInFlight bool      `json:"pushInFlight"`
	PullInFlight bool      `json:"pullInFlight"`
	LastPushAt   time.Time `json:"lastPushAt"`
	LastPullAt   time.Time `json:"lastPullAt"`
}

// Adapter owns the push/pull loop. Push and pull are each serialized
// against themselves by an in-flight flag but never against each other.
type Adapter struct {
	mu gosync.Mutex

	source StateSource
	remote Remote
	store  localstore.Store
	bus    shared.EventBus
	log    *slog.Logger
	clock  scheduler.Clock

	debouncer    *scheduler.Debouncer
	pollInterval time.Duration

	syncID       string
	pushInFlight bool
	pullInFlight bool
	lastPushAt   time.Time
	lastPullAt   time.Time

	// versionAtLastPull suppresses the push that would otherwise echo a
	// freshly applied pull back to the remote.
	versionAtLastPull uint64

	started bool
}

// New creates a sync adapter. Source, Remote, Store and Bus are required.
func New(config Config) (*Adapter, error) {
	if config.Source == nil {
		return nil, errors.New("sync: state source is required")
	}
	if config.Remote == nil {
		return nil, errors.New("sync: remote client is required")
	}
	if config.Store == nil {
		return nil, errors.New("sync: store is required")
	}
	if config.Bus == nil {
		return nil, errors.New("sync: event bus is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = scheduler.RealClock{}
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultDebounceDelay
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}

	a := &Adapter{
		source:       config.Source,
		remote:       config.Remote,
		store:        config.Store,
		bus:          config.Bus,
		log:          config.Logger.With("component", "sync"),
		clock:        config.Clock,
		pollInterval: config.PollInterval,
	}
	a.debouncer = scheduler.NewDebouncer(config.Clock, config.DebounceDelay, a.push)
	return a, nil
}

// Start restores the persisted identifier, wires the push debounce to the
// collection change events, and performs the startup pull when an
// identifier is already configured.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	a.started = true

	if raw, err := a.store.Load(localstore.SlotSyncID); err == nil {
		a.syncID = string(raw)
	} else if !errors.Is(err, localstore.ErrSlotEmpty) {
		a.log.Warn("failed to load sync identifier", "error", err)
	}
	id := a.syncID
	a.mu.Unlock()

	for _, eventType := range shared.SyncedCollectionEvents {
		if err := a.bus.Subscribe(eventType, a.onCollectionChanged); err != nil {
			return err
		}
	}

	if id == "" {
		a.log.Info("sync adapter started without identifier, push and pull idle")
		return nil
	}

	a.log.Info("sync adapter started", "sync_id", id)
	if err := a.Pull(ctx); err != nil {
		a.log.Warn("startup pull failed", "error", err)
	}
	return nil
}

// Stop cancels any pending debounced push.
func (a *Adapter) Stop() {
	a.debouncer.Stop()
	a.log.Info("sync adapter stopped")
}

// onCollectionChanged arms the push debounce for local edits. Changes
// applied by a pull carry a remote origin and must not echo back.
func (a *Adapter) onCollectionChanged(event shared.Event) error {
	if origin, ok := event.Payload()["origin"].(string); ok && origin == engine.OriginRemote {
		return nil
	}

	a.mu.Lock()
	configured := a.syncID != ""
	a.mu.Unlock()
	if !configured {
		return nil
	}

	a.debouncer.Trigger()
	return nil
}

// SyncID returns the configured identifier, empty when sync is off.
func (a *Adapter) SyncID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.syncID
}

// Status reports the adapter state for the settings screen.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		SyncID:       a.syncID,
		PushInFlight: a.pushInFlight,
		PullInFlight: a.pullInFlight,
		LastPushAt:   a.lastPushAt,
		LastPullAt:   a.lastPullAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROVISIONING
// ══════════════════════════════════════════════════════════════════════════════

// Provision creates a fresh remote document seeded with the current
// snapshot and adopts its generated identifier.
func (a *Adapter) Provision(ctx context.Context) (string, error) {
	data, err := a.source.ExportSnapshot()
	if err != nil {
		return "", err
	}

	id, err := a.remote.Create(ctx, data)
	if err != nil {
		a.log.Error("failed to provision remote document", "error", err)
		return "", err
	}

	if err := a.store.Save(localstore.SlotSyncID, []byte(id)); err != nil {
		return "", err
	}

	a.mu.Lock()
	a.syncID = id
	a.lastPushAt = a.clock.Now()
	// The document was just seeded with the local state, nothing to push.
	a.versionAtLastPull = a.source.Version()
	a.mu.Unlock()

	a.log.Info("remote document provisioned", "sync_id", id)
	return id, nil
}

// AdoptIdentifier switches to an identifier pasted in by the user and
// immediately pulls, discarding local-only state in favor of the remote
// document.
func (a *Adapter) AdoptIdentifier(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptySyncID
	}

	if err := a.store.Save(localstore.SlotSyncID, []byte(id)); err != nil {
		return err
	}

	a.mu.Lock()
	a.syncID = id
	a.mu.Unlock()

	a.log.Info("sync identifier adopted", "sync_id", id)
	return a.Pull(ctx)
}

// Forget drops the identifier and leaves local state alone.
func (a *Adapter) Forget() error {
	if err := a.store.Clear(localstore.SlotSyncID); err != nil {
		return err
	}

	a.mu.Lock()
	a.syncID = ""
	a.mu.Unlock()
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PUSH
// ══════════════════════════════════════════════════════════════════════════════

// push replaces the remote document with the current snapshot. Called by
// the debouncer after the quiet period; never called concurrently with
// itself thanks to the in-flight flag.
func (a *Adapter) push() {
	a.mu.Lock()
	if a.syncID == "" || a.pushInFlight {
		a.mu.Unlock()
		return
	}
	if a.source.Version() == a.versionAtLastPull {
		// Nothing changed locally since the last pull or provision.
		a.mu.Unlock()
		return
	}
	a.pushInFlight = true
	id := a.syncID
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.pushInFlight = false
		a.mu.Unlock()
	}()

	data, err := a.source.ExportSnapshot()
	if err != nil {
		a.log.Error("failed to serialize snapshot for push", "error", err)
		return
	}

	if err := a.remote.Replace(context.Background(), id, data); err != nil {
		a.log.Warn("push failed", "sync_id", id, "error", err)
		return
	}

	a.mu.Lock()
	a.lastPushAt = a.clock.Now()
	a.mu.Unlock()

	a.log.Debug("snapshot pushed", "sync_id", id, "bytes", len(data))
}

// ══════════════════════════════════════════════════════════════════════════════
// PULL
// ══════════════════════════════════════════════════════════════════════════════

// Pull fetches the remote document and overwrites every collection it
// carries. Remote wins unconditionally; there is no field-level merge.
func (a *Adapter) Pull(ctx context.Context) error {
	a.mu.Lock()
	if a.syncID == "" {
		a.mu.Unlock()
		return ErrNoSyncID
	}
	if a.pullInFlight {
		a.mu.Unlock()
		return nil
	}
	a.pullInFlight = true
	id := a.syncID
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.pullInFlight = false
		a.mu.Unlock()
	}()

	data, err := a.remote.Fetch(ctx, id)
	if err != nil {
		a.log.Warn("pull failed", "sync_id", id, "error", err)
		return err
	}

	a.source.ApplySnapshot(data, engine.OriginRemote)

	a.mu.Lock()
	a.lastPullAt = a.clock.Now()
	// Record where the pull left the state so the debounced push does not
	// echo the same document straight back.
	a.versionAtLastPull = a.source.Version()
	a.mu.Unlock()

	a.log.Debug("snapshot pulled", "sync_id", id, "bytes", len(data))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// POLL JOB
// ══════════════════════════════════════════════════════════════════════════════

type pullJob struct {
	adapter *Adapter
}

// Name implements scheduler.Job.
func (j pullJob) Name() string { return "sync.pull" }

// Description implements scheduler.Job.
func (j pullJob) Description() string {
	return "polls the remote document and applies it over local state"
}

// Run implements scheduler.Job. A missing identifier is idle, not a failure.
func (j pullJob) Run(ctx context.Context) error {
	err := j.adapter.Pull(ctx)
	if errors.Is(err, ErrNoSyncID) {
		return nil
	}
	return err
}

// PullJob returns the polling job to register with the scheduler.
func (a *Adapter) PullJob() scheduler.Job {
	return pullJob{adapter: a}
}

// PollSchedule returns the schedule the pull job should run on.
func (a *Adapter) PollSchedule() scheduler.Schedule {
	return scheduler.Every(a.pollInterval)
}

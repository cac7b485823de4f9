package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/treebjj/academy-hub/internal/domain/student"
	"github.com/treebjj/academy-hub/internal/engine"
	"github.com/treebjj/academy-hub/internal/infrastructure/messaging"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	"github.com/treebjj/academy-hub/internal/infrastructure/scheduler"
)

// fakeRemote is an in-memory document store shared between "devices".
type fakeRemote struct {
	mu       gosync.Mutex
	docs     map[string][]byte
	nextID   int
	failNext error
	puts     int
	gets     int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string][]byte)}
}

func (r *fakeRemote) takeFailure() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *fakeRemote) Create(ctx context.Context, body []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return "", err
	}
	r.nextID++
	id := fmt.Sprintf("doc-%d", r.nextID)
	r.docs[id] = append([]byte(nil), body...)
	return id, nil
}

func (r *fakeRemote) Replace(ctx context.Context, id string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	r.puts++
	r.docs[id] = append([]byte(nil), body...)
	return nil
}

func (r *fakeRemote) Fetch(ctx context.Context, id string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	r.gets++
	doc, ok := r.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	return append([]byte(nil), doc...), nil
}

// device bundles one engine with its own adapter, store and clock.
type device struct {
	engine  *engine.Engine
	adapter *Adapter
	store   localstore.Store
	clock   *scheduler.ManualClock
}

func newDevice(t *testing.T, remote *fakeRemote) *device {
	t.Helper()

	store := localstore.NewMemoryStore()
	bus := messaging.NewInMemoryEventBus(messaging.DefaultConfig())
	t.Cleanup(func() { bus.Close() })

	e, err := engine.New(engine.Config{Store: store, Bus: bus})
	assert.NoError(t, err)
	// Start each device from a blank slate.
	assert.True(t, e.ImportSnapshot([]byte(`{
		"students": [], "attendance": [], "financials": [],
		"plans": [], "schedules": [], "graduationRules": []
	}`)))

	clock := scheduler.NewManualClock(time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC))
	adapter, err := New(Config{
		Source: e,
		Remote: remote,
		Store:  store,
		Bus:    bus,
		Clock:  clock,
	})
	assert.NoError(t, err)
	t.Cleanup(adapter.Stop)

	d := &device{engine: e, adapter: adapter, store: store, clock: clock}
	assert.NoError(t, adapter.Start(context.Background()))
	return d
}

func (d *device) enroll(t *testing.T, name string) {
	t.Helper()
	_, err := d.engine.EnrollStudent(engine.EnrollStudentParams{
		Name: name, Belt: student.BeltWhite, Status: student.StatusActive,
	})
	assert.NoError(t, err)
}

func TestProvisionCreatesDocumentAndPersistsID(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)

	id, err := d.adapter.Provision(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, id, d.adapter.SyncID())

	saved, err := d.store.Load(localstore.SlotSyncID)
	assert.NoError(t, err)
	assert.Equal(t, id, string(saved))
	assert.NotEmpty(t, remote.docs[id])
}

func TestStartRestoresIdentifierAndPulls(t *testing.T) {
	remote := newFakeRemote()
	seed := newDevice(t, remote)
	seed.enroll(t, "Carlos")
	id, err := seed.adapter.Provision(context.Background())
	assert.NoError(t, err)

	store := localstore.NewMemoryStore()
	store.Save(localstore.SlotSyncID, []byte(id))
	bus := messaging.NewInMemoryEventBus(messaging.DefaultConfig())
	defer bus.Close()
	e, err := engine.New(engine.Config{Store: store, Bus: bus})
	assert.NoError(t, err)

	adapter, err := New(Config{
		Source: e, Remote: remote, Store: store, Bus: bus,
		Clock: scheduler.NewManualClock(time.Now()),
	})
	assert.NoError(t, err)
	defer adapter.Stop()

	assert.NoError(t, adapter.Start(context.Background()))
	assert.Equal(t, id, adapter.SyncID())
	// The startup pull replaced the seed roster with the remote one.
	roster := e.Students()
	assert.Len(t, roster, 1)
	assert.Equal(t, "Carlos", roster[0].Name)
}

func TestDebouncedPushCoalescesBursts(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)
	_, err := d.adapter.Provision(context.Background())
	assert.NoError(t, err)

	d.enroll(t, "Ana")
	d.enroll(t, "Bruno")
	d.enroll(t, "Carla")
	assert.Equal(t, 0, remote.puts)

	// One quiet period after the burst: exactly one PUT.
	d.clock.Advance(DefaultDebounceDelay)
	assert.Equal(t, 1, remote.puts)

	// No further edits, no further pushes.
	d.clock.Advance(time.Minute)
	assert.Equal(t, 1, remote.puts)
}

func TestPushSkippedWithoutIdentifier(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)

	d.enroll(t, "Ana")
	d.clock.Advance(time.Minute)
	assert.Equal(t, 0, remote.puts)
}

func TestPushFailureIsSwallowed(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)
	_, err := d.adapter.Provision(context.Background())
	assert.NoError(t, err)

	d.enroll(t, "Ana")
	remote.failNext = errors.New("network down")
	d.clock.Advance(DefaultDebounceDelay)

	assert.Equal(t, 0, remote.puts)
	assert.True(t, d.adapter.Status().LastPushAt.IsZero() ||
		d.adapter.Status().LastPushAt.Before(d.clock.Now()))
	// Local state is untouched by the failure.
	assert.Len(t, d.engine.Students(), 1)
}

func TestPullAppliedChangesDoNotEchoBack(t *testing.T) {
	remote := newFakeRemote()
	writer := newDevice(t, remote)
	writer.enroll(t, "Ana")
	id, err := writer.adapter.Provision(context.Background())
	assert.NoError(t, err)

	reader := newDevice(t, remote)
	assert.NoError(t, reader.adapter.AdoptIdentifier(context.Background(), id))
	assert.Len(t, reader.engine.Students(), 1)

	// The pull mutated every collection locally, but those changes carry a
	// remote origin and must not arm the reader's push.
	putsBefore := remote.puts
	reader.clock.Advance(time.Minute)
	assert.Equal(t, putsBefore, remote.puts)
}

func TestTwoDeviceConvergence(t *testing.T) {
	remote := newFakeRemote()

	deviceA := newDevice(t, remote)
	deviceA.enroll(t, "Ana")
	deviceA.enroll(t, "Bruno")
	deviceA.enroll(t, "Carla")
	id, err := deviceA.adapter.Provision(context.Background())
	assert.NoError(t, err)
	deviceA.clock.Advance(DefaultDebounceDelay)

	deviceB := newDevice(t, remote)
	assert.Empty(t, deviceB.engine.Students())
	assert.NoError(t, deviceB.adapter.AdoptIdentifier(context.Background(), id))

	// Remote wins: device B now holds exactly device A's roster.
	assert.Equal(t, deviceA.engine.Students(), deviceB.engine.Students())
	assert.Len(t, deviceB.engine.Students(), 3)
}

func TestPullJobPollsOnSchedule(t *testing.T) {
	remote := newFakeRemote()
	writer := newDevice(t, remote)
	writer.enroll(t, "Ana")
	id, err := writer.adapter.Provision(context.Background())
	assert.NoError(t, err)

	reader := newDevice(t, remote)
	assert.NoError(t, reader.adapter.AdoptIdentifier(context.Background(), id))

	// Second edit lands on the remote after the reader's first pull.
	writer.enroll(t, "Bruno")
	writer.clock.Advance(DefaultDebounceDelay)

	job := reader.adapter.PullJob()
	assert.Equal(t, "sync.pull", job.Name())
	assert.NoError(t, job.Run(context.Background()))
	assert.Len(t, reader.engine.Students(), 2)
}

func TestPullJobIdleWithoutIdentifier(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)

	assert.NoError(t, d.adapter.PullJob().Run(context.Background()))
	assert.Equal(t, 0, remote.gets)
}

func TestPullFailureLeavesLocalState(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)
	d.enroll(t, "Ana")
	_, err := d.adapter.Provision(context.Background())
	assert.NoError(t, err)

	remote.failNext = errors.New("network down")
	err = d.adapter.Pull(context.Background())
	assert.Error(t, err)
	assert.Len(t, d.engine.Students(), 1)
	assert.True(t, d.adapter.Status().LastPullAt.IsZero())
}

func TestAdoptRejectsEmptyIdentifier(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)

	err := d.adapter.AdoptIdentifier(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptySyncID)
}

func TestForgetClearsIdentifier(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)
	_, err := d.adapter.Provision(context.Background())
	assert.NoError(t, err)

	assert.NoError(t, d.adapter.Forget())
	assert.Empty(t, d.adapter.SyncID())
	_, err = d.store.Load(localstore.SlotSyncID)
	assert.ErrorIs(t, err, localstore.ErrSlotEmpty)
}

func TestStartTwiceFails(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)

	assert.ErrorIs(t, d.adapter.Start(context.Background()), ErrAlreadyStarted)
}

func TestStatusFields(t *testing.T) {
	remote := newFakeRemote()
	d := newDevice(t, remote)
	id, err := d.adapter.Provision(context.Background())
	assert.NoError(t, err)

	assert.NoError(t, d.adapter.Pull(context.Background()))

	status := d.adapter.Status()
	assert.Equal(t, id, status.SyncID)
	assert.False(t, status.PushInFlight)
	assert.False(t, status.PullInFlight)
	assert.False(t, status.LastPullAt.IsZero())
}

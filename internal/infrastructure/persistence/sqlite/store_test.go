package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "academy.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(localstore.SlotStudents)
	assert.ErrorIs(t, err, localstore.ErrSlotEmpty)

	payload := []byte(`[{"id":"stu-1"}]`)
	assert.NoError(t, store.Save(localstore.SlotStudents, payload))

	got, err := store.Load(localstore.SlotStudents)
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSQLiteUpsert(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Save(localstore.SlotPlans, []byte(`old`)))
	assert.NoError(t, store.Save(localstore.SlotPlans, []byte(`new`)))

	got, err := store.Load(localstore.SlotPlans)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`new`), got)
}

func TestSQLiteClearAll(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Save(localstore.SlotStudents, []byte(`[]`)))
	assert.NoError(t, store.Save(localstore.SlotSyncID, []byte(`doc-1`)))
	assert.NoError(t, store.ClearAll())

	_, err := store.Load(localstore.SlotStudents)
	assert.ErrorIs(t, err, localstore.ErrSlotEmpty)
	_, err = store.Load(localstore.SlotSyncID)
	assert.ErrorIs(t, err, localstore.ErrSlotEmpty)
}

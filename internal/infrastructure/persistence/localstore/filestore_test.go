package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)
	defer store.Close()

	_, err = store.Load(SlotStudents)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	payload := []byte(`[{"id":"stu-1"}]`)
	assert.NoError(t, store.Save(SlotStudents, payload))

	got, err := store.Load(SlotStudents)
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	defer store.Close()

	assert.NoError(t, store.Save(SlotPlans, []byte(`old`)))
	assert.NoError(t, store.Save(SlotPlans, []byte(`new`)))

	got, err := store.Load(SlotPlans)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`new`), got)
}

func TestFileStoreClear(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	defer store.Close()

	assert.NoError(t, store.Save(SlotSyncID, []byte(`doc-1`)))
	assert.NoError(t, store.Clear(SlotSyncID))

	_, err := store.Load(SlotSyncID)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	// Clearing an absent slot is fine.
	assert.NoError(t, store.Clear(SlotSyncID))
}

func TestFileStoreClearAll(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	defer store.Close()

	for _, slot := range CollectionSlots {
		assert.NoError(t, store.Save(slot, []byte(`[]`)))
	}
	assert.NoError(t, store.ClearAll())

	for _, slot := range CollectionSlots {
		_, err := store.Load(slot)
		assert.ErrorIs(t, err, ErrSlotEmpty)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	defer store.Close()

	assert.NoError(t, store.Save(SlotStudents, []byte(`[]`)))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.NoError(t, err)
	assert.Empty(t, matches)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()

	payload := []byte(`[1,2,3]`)
	assert.NoError(t, store.Save(SlotAttendance, payload))

	got, _ := store.Load(SlotAttendance)
	got[0] = 'X'

	// Mutating the returned slice must not corrupt the stored copy.
	again, _ := store.Load(SlotAttendance)
	assert.Equal(t, byte('['), again[0])
}

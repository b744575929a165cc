package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

func TestClearAll(t *testing.T) {
	b := setupBackend(t)

	id, err := b.CreateItem(&types.Item{Title: "Gosu"})
	require.NoError(t, err)
	_, err = b.AddNote(&types.Note{ItemID: id, Chapter: 1})
	require.NoError(t, err)
	require.NoError(t, b.SetSetting(types.SettingTheme, "dark"))
	require.NoError(t, b.SetSetting(types.SettingDirToken, "/some/dir"))

	var events int
	b.SetObserver(func(types.Event) { events++ })

	require.NoError(t, b.ClearAll())

	items, err := b.AllItems()
	require.NoError(t, err)
	assert.Empty(t, items)
	notes, err := b.AllNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = b.GetSetting(types.SettingTheme)
	assert.ErrorIs(t, err, types.ErrNotFound, "ordinary settings are wiped")

	token, err := b.GetSetting(types.SettingDirToken)
	require.NoError(t, err, "folder token survives a clear")
	assert.Equal(t, "/some/dir", token)
	_, err = b.GetSetting(types.SettingSchemaVersion)
	assert.NoError(t, err, "schema version survives a clear")

	assert.Zero(t, events, "bulk operations emit no change events")
}

func TestBulkReplace(t *testing.T) {
	b := setupBackend(t)

	// Pre-existing state the replace must wipe.
	_, err := b.CreateItem(&types.Item{Title: "Stale"})
	require.NoError(t, err)

	var events int
	b.SetObserver(func(types.Event) { events++ })

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	items := []*types.Item{
		{ID: 41, Title: "Kubera", Status: types.StatusReading, CreatedAt: created},
		{ID: 77, Title: "Annarasumanara", Status: types.StatusCompleted, CreatedAt: created},
	}
	notes := []*types.Note{
		{ID: 9, ItemID: 41, Chapter: 2, Body: "turn", CreatedAt: created},
	}
	require.NoError(t, b.BulkReplace(items, notes))

	got, err := b.AllItems()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(41), got[0].ID, "carried ids are preserved")
	assert.Equal(t, int64(77), got[1].ID)
	assert.Equal(t, created, got[0].CreatedAt, "timestamps are preserved")

	gotNotes, err := b.NotesForItem(41)
	require.NoError(t, err)
	require.Len(t, gotNotes, 1)
	assert.Equal(t, int64(9), gotNotes[0].ID)

	assert.Zero(t, events, "bulk operations emit no change events")

	// New creations continue above the highest id ever seen.
	newID, err := b.CreateItem(&types.Item{Title: "Fresh"})
	require.NoError(t, err)
	assert.Greater(t, newID, int64(77))
}

func TestBulkReplace_RejectsOrphanNotes(t *testing.T) {
	b := setupBackend(t)

	survivorID, err := b.CreateItem(&types.Item{Title: "Survivor"})
	require.NoError(t, err)

	items := []*types.Item{
		{ID: 1, Title: "Kubera", Status: types.StatusReading},
	}
	notes := []*types.Note{
		{ID: 1, ItemID: 999, Body: "nobody owns me"},
	}
	err = b.BulkReplace(items, notes)
	assert.ErrorIs(t, err, types.ErrStorage, "the notes foreign key rejects ownerless rows")

	// The whole replace rolls back, not just the bad note.
	got, err := b.AllItems()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, survivorID, got[0].ID)
}

func TestBulkReplace_Empty(t *testing.T) {
	b := setupBackend(t)

	_, err := b.CreateItem(&types.Item{Title: "Only One"})
	require.NoError(t, err)

	require.NoError(t, b.BulkReplace(nil, nil))

	items, err := b.AllItems()
	require.NoError(t, err)
	assert.Empty(t, items)
}

package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

func writeLibraryFile(t *testing.T, lib, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(lib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lib, name), []byte(content), 0o644))
}

func TestSyncFromDisk(t *testing.T) {
	b, m, lib := setupMirror(t)

	// Pre-existing store content must be replaced wholesale.
	_, err := b.CreateItem(&types.Item{Title: "Stale Entry"})
	require.NoError(t, err)

	writeLibraryFile(t, lib, "3_Kubera.json", `{
        "id": 3,
        "title": "Kubera",
        "status": "Reading",
        "createdAt": "2025-04-01T00:00:00Z",
        "notes": [
            {"id": 11, "itemId": 999, "chapter": 5, "body": "the test of the sword"}
        ]
    }`)
	writeLibraryFile(t, lib, "8_Annarasumanara.json", `{
        "id": 8,
        "title": "Annarasumanara",
        "status": "Completed",
        "rating": 5,
        "createdAt": "2025-05-01T00:00:00Z",
        "notes": []
    }`)
	writeLibraryFile(t, lib, "9_Broken.json", `{not json at all`)
	writeLibraryFile(t, lib, "notes.txt", `not a mirror file`)

	require.NoError(t, m.SyncFromDisk(context.Background()))

	items, err := b.AllItems()
	require.NoError(t, err)
	require.Len(t, items, 2, "the corrupt file is skipped, valid ones load")
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, "Kubera", items[0].Title)
	assert.Equal(t, int64(8), items[1].ID)

	notes, err := b.NotesForItem(3)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, int64(3), notes[0].ItemID,
		"note ownership is re-derived from the embedding file")
}

func TestSyncFromDisk_InvalidItems(t *testing.T) {
	b, m, lib := setupMirror(t)

	writeLibraryFile(t, lib, "1_NoTitle.json", `{"id": 1, "title": "", "status": "Reading"}`)
	writeLibraryFile(t, lib, "0_NoID.json", `{"title": "Missing ID", "status": "Reading"}`)
	writeLibraryFile(t, lib, "2_BadStatus.json", `{"id": 2, "title": "x", "status": "Hoarding"}`)

	require.NoError(t, m.SyncFromDisk(context.Background()))

	items, err := b.AllItems()
	require.NoError(t, err)
	assert.Empty(t, items, "files failing validation are skipped")
}

func TestSyncFromDisk_EmptyLibrary(t *testing.T) {
	b, m, _ := setupMirror(t)

	_, err := b.CreateItem(&types.Item{Title: "Will Vanish"})
	require.NoError(t, err)

	require.NoError(t, m.SyncFromDisk(context.Background()))

	items, err := b.AllItems()
	require.NoError(t, err)
	assert.Empty(t, items, "an empty folder syncs to an empty store")
}

func TestSyncFromDisk_Unlinked(t *testing.T) {
	_, m := setupUnlinkedMirror(t)
	err := m.SyncFromDisk(context.Background())
	assert.ErrorIs(t, err, types.ErrNotLinked,
		"a full sync without a folder is an explicit failure, not a silent no-op")
}

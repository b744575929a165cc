package backup

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhead2001/Pornhwa/internal/sqlite"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

func setupCodec(t *testing.T) (*sqlite.Backend, *Codec) {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b, NewCodec(b)
}

func TestExport(t *testing.T) {
	b, c := setupCodec(t)

	id, err := b.CreateItem(&types.Item{Title: "The Remarried Empress", Rating: 4})
	require.NoError(t, err)
	_, err = b.AddNote(&types.Note{ItemID: id, Chapter: 3, Body: "the divorce"})
	require.NoError(t, err)
	require.NoError(t, b.SetSetting(types.SettingTheme, "dark"))
	require.NoError(t, b.SetSetting(types.SettingDirToken, "/host/specific"))

	doc, err := c.Export()
	require.NoError(t, err)

	assert.Equal(t, types.BackupVersion, doc.Meta.Version)
	assert.False(t, doc.Meta.ExportedAt.IsZero())
	require.Len(t, doc.Items, 1)
	require.Len(t, doc.Notes, 1)

	for _, e := range doc.Config {
		assert.NotEqual(t, types.SettingDirToken, e.Key,
			"host capability tokens never leave the machine")
		assert.NotEqual(t, types.SettingSchemaVersion, e.Key)
	}
	require.Len(t, doc.Config, 1)
	assert.Equal(t, types.SettingTheme, doc.Config[0].Key)
}

func TestExport_EmptyStore(t *testing.T) {
	_, c := setupCodec(t)

	raw, err := c.ExportJSON()
	require.NoError(t, err)

	// Empty collections serialize as [], not null.
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.JSONEq(t, "[]", string(decoded["items"]))
	assert.JSONEq(t, "[]", string(decoded["notes"]))
}

func TestImport_RoundTrip(t *testing.T) {
	src, srcCodec := setupCodec(t)

	id, err := src.CreateItem(&types.Item{
		Title:  "Positively Yours",
		Rating: 3,
		Status: types.StatusCompleted,
		Tags:   []string{"Romance"},
	})
	require.NoError(t, err)
	_, err = src.AddNote(&types.Note{ItemID: id, Chapter: 10, Body: "reveal"})
	require.NoError(t, err)
	require.NoError(t, src.SetSetting(types.SettingTheme, "sepia"))

	raw, err := srcCodec.ExportJSON()
	require.NoError(t, err)

	dst, dstCodec := setupCodec(t)
	_, err = dst.CreateItem(&types.Item{Title: "Overwritten"})
	require.NoError(t, err)

	require.NoError(t, dstCodec.Import(raw))

	items, err := dst.AllItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Positively Yours", items[0].Title)

	notes, err := dst.NotesForItem(id)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	theme, err := dst.GetSetting(types.SettingTheme)
	require.NoError(t, err)
	assert.Equal(t, "sepia", theme)
}

func TestImport_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{{`},
		{"missing items key", `{"meta": {"version": 1}, "notes": []}`},
		{"missing notes key", `{"meta": {"version": 1}, "items": []}`},
		{"invalid item", `{"meta": {"version": 1}, "notes": [],
            "items": [{"id": 1, "title": "", "status": "Reading"}]}`},
		{"orphan note", `{"meta": {"version": 1}, "items": [],
            "notes": [{"id": 1, "itemId": 999, "body": "lost"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, c := setupCodec(t)
			_, err := b.CreateItem(&types.Item{Title: "Survivor"})
			require.NoError(t, err)

			err = c.Import([]byte(tt.raw))
			assert.ErrorIs(t, err, types.ErrInvalidFormat)

			items, listErr := b.AllItems()
			require.NoError(t, listErr)
			require.Len(t, items, 1, "a rejected document mutates nothing")
			assert.Equal(t, "Survivor", items[0].Title)

			notes, listErr := b.AllNotes()
			require.NoError(t, listErr)
			assert.Empty(t, notes)
		})
	}
}

func TestImport_SkipsProtectedConfig(t *testing.T) {
	b, c := setupCodec(t)
	require.NoError(t, b.SetSetting(types.SettingDirToken, "/mine"))

	raw := `{
        "meta": {"version": 1},
        "items": [],
        "notes": [],
        "config": [
            {"key": "library_dir_token", "value": "/theirs"},
            {"key": "theme", "value": "dark"}
        ]
    }`
	require.NoError(t, c.Import([]byte(raw)))

	token, err := b.GetSetting(types.SettingDirToken)
	require.NoError(t, err)
	assert.Equal(t, "/mine", token, "imported documents cannot swap the folder link")

	theme, err := b.GetSetting(types.SettingTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestImport_UpsertsConfig(t *testing.T) {
	b, c := setupCodec(t)
	require.NoError(t, b.SetSetting("keep_me", "yes"))
	require.NoError(t, b.SetSetting(types.SettingTheme, "light"))

	raw := `{
        "meta": {"version": 1},
        "items": [],
        "notes": [],
        "config": [{"key": "theme", "value": "dark"}]
    }`
	require.NoError(t, c.Import([]byte(raw)))

	kept, err := b.GetSetting("keep_me")
	require.NoError(t, err)
	assert.Equal(t, "yes", kept, "unrelated settings survive an import")

	theme, err := b.GetSetting(types.SettingTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

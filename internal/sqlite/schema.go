// Package sqlite implements the SQLite record store backend.
package sqlite

// Schema migrations run in order at Attach, resuming from the version
// stored in settings. Each step must be safe to run exactly once on a
// database at the preceding version.
//
// Timestamps are stored as INTEGER unix nanoseconds (UTC) so ORDER BY
// compares chronologically; NULL last_accessed_at means never opened.
// String collections are stored as JSON arrays and queried with
// json_each.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    alt_titles TEXT NOT NULL DEFAULT '[]',
    cover_url TEXT NOT NULL DEFAULT '',
    primary_creator TEXT NOT NULL DEFAULT '',
    rating INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL,
    last_accessed_at INTEGER
);`,
			`CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id INTEGER NOT NULL,
    chapter INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL DEFAULT '',
    participants TEXT NOT NULL DEFAULT '[]',
    tags TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL
);`,
		},
	},
	{
		// creators supersedes primary_creator; NULL marks rows written
		// before this version so the backfill below (and read-time
		// normalization) can derive a value. An explicit empty array is
		// left alone.
		version: 2,
		statements: []string{
			`ALTER TABLE items ADD COLUMN creators TEXT;`,
			`UPDATE items SET creators = json_array(primary_creator)
    WHERE creators IS NULL AND primary_creator <> '';`,
		},
	},
	{
		version: 3,
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);`,
			`CREATE INDEX IF NOT EXISTS idx_items_rating ON items(rating);`,
			`CREATE INDEX IF NOT EXISTS idx_notes_item ON notes(item_id);`,
		},
	},
	{
		// Rebuild notes with the items foreign key so the engine itself
		// rejects ownerless notes and cascades deletes. Orphans written
		// before this version are dropped during the copy.
		version: 4,
		statements: []string{
			`CREATE TABLE notes_fk (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    chapter INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL DEFAULT '',
    participants TEXT NOT NULL DEFAULT '[]',
    tags TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL
);`,
			`INSERT INTO notes_fk
    SELECT id, item_id, chapter, body, participants, tags, created_at
    FROM notes WHERE item_id IN (SELECT id FROM items);`,
			`DROP TABLE notes;`,
			`ALTER TABLE notes_fk RENAME TO notes;`,
			`CREATE INDEX IF NOT EXISTS idx_notes_item ON notes(item_id);`,
		},
	},
}

// migration is one schema upgrade step.
type migration struct {
	version    int
	statements []string
}

// createSettings must exist before migrations run; the schema version
// marker lives in it.
const createSettings = `CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

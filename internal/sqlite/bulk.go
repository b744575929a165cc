// Bulk operations for the SQLite backend. Neither operation emits change
// events: disk sync would loop back into the mirror, and clear-all
// handles its mirror files explicitly before calling in.

package sqlite

import (
	"database/sql"
	"strings"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// ClearAll removes every item, note, and non-protected setting in one
// transaction. The folder token and schema version survive.
func (b *Backend) ClearAll() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return storageErr("beginning clear", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes"); err != nil {
		return storageErr("clearing notes", err)
	}
	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return storageErr("clearing items", err)
	}

	protected := make([]string, 0, len(types.ProtectedSettings))
	args := make([]any, 0, len(types.ProtectedSettings))
	for key := range types.ProtectedSettings {
		protected = append(protected, "?")
		args = append(args, key)
	}
	if _, err := tx.Exec(
		"DELETE FROM settings WHERE key NOT IN ("+strings.Join(protected, ", ")+")",
		args...); err != nil {
		return storageErr("clearing settings", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing clear", err)
	}
	return nil
}

// BulkReplace empties both collections and inserts the given sets in one
// transaction, keeping the ids carried by the records. SQLite tracks the
// highest id ever assigned, so later creations never reuse one.
func (b *Backend) BulkReplace(items []*types.Item, notes []*types.Note) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return storageErr("beginning replace", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes"); err != nil {
		return storageErr("clearing notes", err)
	}
	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return storageErr("clearing items", err)
	}

	for _, it := range items {
		it.Normalize()
		if err := insertItemWithID(tx, it); err != nil {
			return err
		}
	}
	for _, n := range notes {
		n.Normalize()
		if err := insertNoteWithID(tx, n); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing replace", err)
	}
	return nil
}

func insertItemWithID(tx *sql.Tx, it *types.Item) error {
	args, err := dehydrateItem(it)
	if err != nil {
		return storageErr("encoding item", err)
	}
	args = append([]any{it.ID}, args...)
	if _, err := tx.Exec(`INSERT INTO items
        (id, external_id, title, alt_titles, cover_url, primary_creator,
         creators, rating, status, tags, created_at, last_accessed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
		return storageErr("inserting item", err)
	}
	return nil
}

func insertNoteWithID(tx *sql.Tx, n *types.Note) error {
	participants, err := encodeStrings(n.Participants)
	if err != nil {
		return storageErr("encoding note", err)
	}
	tags, err := encodeStrings(n.Tags)
	if err != nil {
		return storageErr("encoding note", err)
	}
	if _, err := tx.Exec(`INSERT INTO notes
        (id, item_id, chapter, body, participants, tags, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.ItemID, n.Chapter, n.Body, participants, tags,
		n.CreatedAt.UnixNano()); err != nil {
		return storageErr("inserting note", err)
	}
	return nil
}

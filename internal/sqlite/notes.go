// Note CRUD for the SQLite backend. A note mutation counts as a mutation
// of its owning item for change propagation, so events carry the owner's
// id, never the note's.

package sqlite

import (
	"database/sql"
	"time"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

const noteColumns = `id, item_id, chapter, body, participants, tags, created_at`

// hydrateNote scans one notes row into a normalized *types.Note.
func hydrateNote(row rowScanner) (*types.Note, error) {
	var (
		n            types.Note
		participants string
		tags         string
		createdAt    int64
	)
	err := row.Scan(&n.ID, &n.ItemID, &n.Chapter, &n.Body, &participants, &tags, &createdAt)
	if err != nil {
		return nil, err
	}
	if n.Participants, err = decodeStrings(participants); err != nil {
		return nil, err
	}
	if n.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	n.CreatedAt = time.Unix(0, createdAt).UTC()
	return &n, nil
}

// AddNote inserts a note for an existing item. Returns ErrNotFound when
// the owner does not exist.
func (b *Backend) AddNote(note *types.Note) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return 0, err
	}
	if err := note.Validate(); err != nil {
		return 0, err
	}
	if _, err := b.getItemLocked(note.ItemID); err != nil {
		return 0, err
	}

	note.Normalize()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	participants, err := encodeStrings(note.Participants)
	if err != nil {
		return 0, storageErr("encoding note", err)
	}
	tags, err := encodeStrings(note.Tags)
	if err != nil {
		return 0, storageErr("encoding note", err)
	}

	res, err := b.db.Exec(`INSERT INTO notes
        (item_id, chapter, body, participants, tags, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		note.ItemID, note.Chapter, note.Body, participants, tags, note.CreatedAt.UnixNano())
	if err != nil {
		return 0, storageErr("inserting note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("reading inserted id", err)
	}
	note.ID = id

	b.notify(types.OpWrite, note.ItemID)
	return id, nil
}

// GetNote returns the note or ErrNotFound.
func (b *Backend) GetNote(id int64) (*types.Note, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}
	return b.getNoteLocked(id)
}

// UpdateNote merges the non-nil patch fields into the stored note.
func (b *Backend) UpdateNote(id int64, patch types.NotePatch) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	n, err := b.getNoteLocked(id)
	if err != nil {
		return err
	}
	if patch.Chapter != nil {
		n.Chapter = *patch.Chapter
	}
	if patch.Body != nil {
		n.Body = *patch.Body
	}
	if patch.Participants != nil {
		n.Participants = *patch.Participants
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	n.Normalize()

	participants, err := encodeStrings(n.Participants)
	if err != nil {
		return storageErr("encoding note", err)
	}
	tags, err := encodeStrings(n.Tags)
	if err != nil {
		return storageErr("encoding note", err)
	}
	if _, err := b.db.Exec(
		"UPDATE notes SET chapter = ?, body = ?, participants = ?, tags = ? WHERE id = ?",
		n.Chapter, n.Body, participants, tags, id,
	); err != nil {
		return storageErr("updating note", err)
	}

	b.notify(types.OpWrite, n.ItemID)
	return nil
}

// DeleteNote removes a note. The owner's mirror file is rewritten, not
// deleted, so the event is a write for the owning item.
func (b *Backend) DeleteNote(id int64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	n, err := b.getNoteLocked(id)
	if err != nil {
		return err
	}
	if _, err := b.db.Exec("DELETE FROM notes WHERE id = ?", id); err != nil {
		return storageErr("deleting note", err)
	}

	b.notify(types.OpWrite, n.ItemID)
	return nil
}

// NotesForItem returns the item's notes ordered by chapter, then id.
func (b *Backend) NotesForItem(itemID int64) ([]*types.Note, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}
	return b.notesForItemLocked(itemID)
}

// AllNotes returns every note ordered by id.
func (b *Backend) AllNotes() ([]*types.Note, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT " + noteColumns + " FROM notes ORDER BY id")
	if err != nil {
		return nil, storageErr("listing notes", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (b *Backend) getNoteLocked(id int64) (*types.Note, error) {
	row := b.db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	n, err := hydrateNote(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("getting note", err)
	}
	return n, nil
}

func (b *Backend) notesForItemLocked(itemID int64) ([]*types.Note, error) {
	rows, err := b.db.Query(
		"SELECT "+noteColumns+" FROM notes WHERE item_id = ? ORDER BY chapter, id", itemID)
	if err != nil {
		return nil, storageErr("listing item notes", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

func scanNotes(rows *sql.Rows) ([]*types.Note, error) {
	var notes []*types.Note
	for rows.Next() {
		n, err := hydrateNote(rows)
		if err != nil {
			return nil, storageErr("hydrating note", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating notes", err)
	}
	return notes, nil
}

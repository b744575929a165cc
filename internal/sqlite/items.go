// Item CRUD for the SQLite backend. Rows are hydrated to *types.Item and
// dehydrated back; every successful commit emits exactly one change
// event carrying the item id.

package sqlite

import (
	"database/sql"
	"time"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// itemColumns is the SELECT list matched by hydrateItem.
const itemColumns = `id, external_id, title, alt_titles, cover_url,
    primary_creator, creators, rating, status, tags, created_at, last_accessed_at`

// rowScanner abstracts *sql.Row and *sql.Rows for hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateItem scans one items row into a normalized *types.Item.
func hydrateItem(row rowScanner) (*types.Item, error) {
	var (
		it           types.Item
		altTitles    string
		creators     sql.NullString
		tags         string
		createdAt    int64
		lastAccessed sql.NullInt64
	)
	err := row.Scan(&it.ID, &it.ExternalID, &it.Title, &altTitles, &it.CoverURL,
		&it.PrimaryCreator, &creators, &it.Rating, &it.Status, &tags, &createdAt, &lastAccessed)
	if err != nil {
		return nil, err
	}

	if it.AlternativeTitles, err = decodeStrings(altTitles); err != nil {
		return nil, err
	}
	if creators.Valid {
		if it.Creators, err = decodeStrings(creators.String); err != nil {
			return nil, err
		}
	}
	if it.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	it.CreatedAt = time.Unix(0, createdAt).UTC()
	if lastAccessed.Valid {
		it.LastAccessedAt = time.Unix(0, lastAccessed.Int64).UTC()
	}

	// Rows written before the creators column existed hydrate with nil
	// Creators; Normalize derives them from the legacy field.
	it.Normalize()
	return &it, nil
}

// dehydrateItem returns the column values for an INSERT or UPDATE, in
// itemColumns order minus the id.
func dehydrateItem(it *types.Item) ([]any, error) {
	altTitles, err := encodeStrings(it.AlternativeTitles)
	if err != nil {
		return nil, err
	}
	creators, err := encodeStrings(it.Creators)
	if err != nil {
		return nil, err
	}
	tags, err := encodeStrings(it.Tags)
	if err != nil {
		return nil, err
	}
	var lastAccessed any
	if !it.LastAccessedAt.IsZero() {
		lastAccessed = it.LastAccessedAt.UnixNano()
	}
	return []any{
		it.ExternalID, it.Title, altTitles, it.CoverURL,
		it.PrimaryCreator, creators, it.Rating, string(it.Status), tags,
		it.CreatedAt.UnixNano(), lastAccessed,
	}, nil
}

// CreateItem validates and inserts the item, assigning its id. CreatedAt
// is stamped here unless the caller supplied one (disk sync preserves
// original timestamps by going through BulkReplace instead).
func (b *Backend) CreateItem(item *types.Item) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return 0, err
	}

	if item.Status == "" {
		item.Status = types.StatusPlanToRead
	}
	if err := item.Validate(); err != nil {
		return 0, err
	}
	item.Normalize()
	if item.ExternalID == "" {
		item.ExternalID = types.NewExternalID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	args, err := dehydrateItem(item)
	if err != nil {
		return 0, storageErr("encoding item", err)
	}
	res, err := b.db.Exec(`INSERT INTO items
        (external_id, title, alt_titles, cover_url, primary_creator, creators,
         rating, status, tags, created_at, last_accessed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return 0, storageErr("inserting item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("reading inserted id", err)
	}
	item.ID = id

	b.notify(types.OpWrite, id)
	return id, nil
}

// GetItem returns the item or ErrNotFound.
func (b *Backend) GetItem(id int64) (*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}

	row := b.db.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	it, err := hydrateItem(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("getting item", err)
	}
	return it, nil
}

// UpdateItem merges the non-nil patch fields into the stored item and
// persists the result. CreatedAt is never altered.
func (b *Backend) UpdateItem(id int64, patch types.ItemPatch) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	it, err := b.getItemLocked(id)
	if err != nil {
		return err
	}
	applyItemPatch(it, patch)
	if err := it.Validate(); err != nil {
		return err
	}
	it.Normalize()

	args, err := dehydrateItem(it)
	if err != nil {
		return storageErr("encoding item", err)
	}
	args = append(args, id)
	if _, err := b.db.Exec(`UPDATE items SET
        external_id = ?, title = ?, alt_titles = ?, cover_url = ?,
        primary_creator = ?, creators = ?, rating = ?, status = ?, tags = ?,
        created_at = ?, last_accessed_at = ?
        WHERE id = ?`, args...); err != nil {
		return storageErr("updating item", err)
	}

	b.notify(types.OpWrite, id)
	return nil
}

// TouchItem stamps LastAccessedAt with the current time.
func (b *Backend) TouchItem(id int64) error {
	now := time.Now().UTC()
	return b.UpdateItem(id, types.ItemPatch{LastAccessedAt: &now})
}

// DeleteItem removes the item and all notes it owns in one transaction.
func (b *Backend) DeleteItem(id int64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	if _, err := b.getItemLocked(id); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return storageErr("beginning delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes WHERE item_id = ?", id); err != nil {
		return storageErr("deleting item notes", err)
	}
	if _, err := tx.Exec("DELETE FROM items WHERE id = ?", id); err != nil {
		return storageErr("deleting item", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("committing delete", err)
	}

	b.notify(types.OpDelete, id)
	return nil
}

// AllItems returns every item ordered by id.
func (b *Backend) AllItems() ([]*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT " + itemColumns + " FROM items ORDER BY id")
	if err != nil {
		return nil, storageErr("listing items", err)
	}
	defer rows.Close()

	var items []*types.Item
	for rows.Next() {
		it, err := hydrateItem(rows)
		if err != nil {
			return nil, storageErr("hydrating item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating items", err)
	}
	return items, nil
}

// getItemLocked fetches an item while the caller already holds the lock.
func (b *Backend) getItemLocked(id int64) (*types.Item, error) {
	row := b.db.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	it, err := hydrateItem(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("getting item", err)
	}
	return it, nil
}

// applyItemPatch copies non-nil patch fields onto the item.
func applyItemPatch(it *types.Item, p types.ItemPatch) {
	if p.ExternalID != nil {
		it.ExternalID = *p.ExternalID
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.AlternativeTitles != nil {
		it.AlternativeTitles = *p.AlternativeTitles
	}
	if p.CoverURL != nil {
		it.CoverURL = *p.CoverURL
	}
	if p.PrimaryCreator != nil {
		it.PrimaryCreator = *p.PrimaryCreator
	}
	if p.Creators != nil {
		it.Creators = *p.Creators
	}
	if p.Rating != nil {
		it.Rating = *p.Rating
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Tags != nil {
		it.Tags = *p.Tags
	}
	if p.LastAccessedAt != nil {
		it.LastAccessedAt = *p.LastAccessedAt
	}
}

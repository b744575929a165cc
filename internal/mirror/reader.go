package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// SyncFromDisk rebuilds the record store from the mirror directory. It
// is a total replace, not a merge: after it returns, the store holds
// exactly what parsed off disk. Files that fail to parse are skipped
// with a warning. Fails with ErrNotLinked when no folder is connected;
// directory access failures surface to the caller.
func (m *Mirror) SyncFromDisk(ctx context.Context) error {
	dir, err := m.libraryDir(ctx)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing library dir: %w", err)
	}

	var (
		items []*types.Item
		notes []*types.Note
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, FileExt) {
			continue
		}
		item, itemNotes, err := readItemFile(filepath.Join(dir, name))
		if err != nil {
			m.log.Warn("skipping unparseable mirror file", "file", name, "error", err)
			continue
		}
		items = append(items, item)
		notes = append(notes, itemNotes...)
	}

	if err := m.store.BulkReplace(items, notes); err != nil {
		return err
	}
	m.log.Info("synced library from disk", "items", len(items), "notes", len(notes))
	return nil
}

// readItemFile parses one mirror file into an item and its notes. Each
// note's owner id is re-derived from the embedding item, overriding
// whatever the file carries; hand-edited files can hold a stale value.
func readItemFile(path string) (*types.Item, []*types.Note, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var doc itemDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, err
	}
	if doc.ID <= 0 {
		return nil, nil, fmt.Errorf("missing item id")
	}
	if err := doc.Item.Validate(); err != nil {
		return nil, nil, err
	}

	item := doc.Item
	item.Normalize()
	for _, n := range doc.Notes {
		n.ItemID = item.ID
	}
	return &item, doc.Notes, nil
}

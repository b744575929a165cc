package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/myhead2001/Pornhwa/internal/folder"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

// itemDocument is the mirror file layout: all item fields plus the
// item's notes embedded as an ordered sequence.
type itemDocument struct {
	types.Item
	Notes []*types.Note `json:"notes"`
}

// Mirror projects items to JSON files in the linked library folder. All
// operations are silent no-ops when no folder is linked; write and
// delete failures are the caller's to log, never to surface to the
// mutation that scheduled them.
type Mirror struct {
	store   types.Store
	folders *folder.Manager
	log     *slog.Logger
}

// New creates a mirror over the given store and folder manager.
func New(store types.Store, folders *folder.Manager) *Mirror {
	return &Mirror{
		store:   store,
		folders: folders,
		log:     slog.With("component", "mirror"),
	}
}

// libraryDir resolves the library subdirectory, creating it on first
// use. Returns ErrNotLinked or ErrPermissionDenied from the manager.
func (m *Mirror) libraryDir(ctx context.Context) (string, error) {
	root, err := m.folders.ActiveDir(ctx)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, librarySubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating library dir: %w", err)
	}
	return dir, nil
}

// WriteItem re-reads the item and its notes from the store and writes
// them to "{id}_{slug}.json", removing any other file carrying the same
// id prefix first so a title rename never leaves a stale duplicate.
// Re-reading inside the writer guarantees the file reflects a state at
// least as new as the mutation that scheduled it. A vanished item is a
// silent no-op; it may have been deleted after the write was scheduled.
func (m *Mirror) WriteItem(ctx context.Context, id int64) error {
	dir, err := m.libraryDir(ctx)
	if errors.Is(err, types.ErrNotLinked) {
		return nil
	}
	if err != nil {
		return err
	}

	item, err := m.store.GetItem(id)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	notes, err := m.store.NotesForItem(id)
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []*types.Note{}
	}

	name := fileName(id, item.Title)
	if err := m.removeByPrefix(dir, idPrefix(id), name); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(itemDocument{Item: *item, Notes: notes}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding item %d: %w", id, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, name), raw); err != nil {
		return err
	}
	m.log.Debug("mirrored item", "id", id, "file", name)
	return nil
}

// DeleteItem removes any mirror file carrying the id prefix. An already
// absent file is success, not an error.
func (m *Mirror) DeleteItem(ctx context.Context, id int64) error {
	dir, err := m.libraryDir(ctx)
	if errors.Is(err, types.ErrNotLinked) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.removeByPrefix(dir, idPrefix(id), "")
}

// ClearFiles removes every mirror file. Used by clear-all, which cannot
// rely on per-item events. Failures on individual files are logged and
// skipped.
func (m *Mirror) ClearFiles(ctx context.Context) error {
	dir, err := m.libraryDir(ctx)
	if errors.Is(err, types.ErrNotLinked) {
		return nil
	}
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing library dir: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			m.log.Warn("failed to remove mirror file", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	m.log.Info("cleared mirror files", "count", removed)
	return nil
}

// removeByPrefix deletes files whose name starts with prefix, except the
// one named keep.
func (m *Mirror) removeByPrefix(dir, prefix, keep string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing library dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || name == keep {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale file %s: %w", name, err)
		}
	}
	return nil
}

// writeFileAtomic writes via the temp-file, sync, rename pattern so a
// crash mid-write never leaves a truncated mirror file at the real name.
func writeFileAtomic(path string, raw []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mirror-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing mirror file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing mirror file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing mirror file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming mirror file: %w", err)
	}
	return nil
}

// Package backup serializes the whole record store to a single portable
// JSON document and restores from one. It is the persistence path for
// hosts where no library folder can be linked.
package backup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Codec exports and imports full-store snapshots.
type Codec struct {
	store types.Store
	log   *slog.Logger
}

// NewCodec creates a codec over the given store.
func NewCodec(store types.Store) *Codec {
	return &Codec{
		store: store,
		log:   slog.With("component", "backup"),
	}
}

// Export builds the portable snapshot. Settings holding host-specific
// capability tokens are excluded; they cannot be restored on another
// machine.
func (c *Codec) Export() (*types.BackupDocument, error) {
	items, err := c.store.AllItems()
	if err != nil {
		return nil, err
	}
	notes, err := c.store.AllNotes()
	if err != nil {
		return nil, err
	}
	settings, err := c.store.Settings()
	if err != nil {
		return nil, err
	}

	portable := make([]types.SettingEntry, 0, len(settings))
	for _, e := range settings {
		if types.ProtectedSettings[e.Key] {
			continue
		}
		portable = append(portable, e)
	}
	if items == nil {
		items = []*types.Item{}
	}
	if notes == nil {
		notes = []*types.Note{}
	}

	return &types.BackupDocument{
		Meta: types.BackupMeta{
			Version:    types.BackupVersion,
			ExportedAt: time.Now().UTC(),
		},
		Items:  items,
		Notes:  notes,
		Config: portable,
	}, nil
}

// ExportJSON renders the snapshot as indented JSON.
func (c *Codec) ExportJSON() ([]byte, error) {
	doc, err := c.Export()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// rawDocument distinguishes absent top-level keys from empty ones during
// import validation.
type rawDocument struct {
	Meta   types.BackupMeta      `json:"meta"`
	Items  *[]*types.Item        `json:"items"`
	Notes  *[]*types.Note        `json:"notes"`
	Config []types.SettingEntry  `json:"config"`
}

// Import validates and applies a snapshot. Validation failures abort
// before any mutation, so the prior state survives a bad document. The
// item and note collections are replaced wholesale; config entries are
// upserted so unrelated existing settings survive, and the capability
// token key is never imported.
func (c *Codec) Import(raw []byte) error {
	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidFormat, err)
	}
	if doc.Items == nil || doc.Notes == nil {
		return fmt.Errorf("%w: missing items or notes", types.ErrInvalidFormat)
	}
	for _, it := range *doc.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("%w: item %d: %v", types.ErrInvalidFormat, it.ID, err)
		}
	}
	owners := make(map[int64]bool, len(*doc.Items))
	for _, it := range *doc.Items {
		owners[it.ID] = true
	}
	for _, n := range *doc.Notes {
		if !owners[n.ItemID] {
			return fmt.Errorf("%w: note %d: no item %d", types.ErrInvalidFormat, n.ID, n.ItemID)
		}
	}

	if err := c.store.BulkReplace(*doc.Items, *doc.Notes); err != nil {
		return err
	}

	for _, e := range doc.Config {
		if types.ProtectedSettings[e.Key] {
			continue
		}
		if err := c.store.SetSetting(e.Key, e.Value); err != nil {
			return err
		}
	}

	c.log.Info("imported backup", "items", len(*doc.Items), "notes", len(*doc.Notes))
	return nil
}

// Settings key-value table for the SQLite backend. Holds the theme, the
// library folder token, the assistant credential, and the schema version
// marker. Settings mutations do not emit change events.

package sqlite

import (
	"database/sql"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// GetSetting returns the value for key, or ErrNotFound.
func (b *Backend) GetSetting(key string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return "", err
	}

	var value string
	err := b.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", storageErr("getting setting", err)
	}
	return value, nil
}

// SetSetting upserts a key-value pair.
func (b *Backend) SetSetting(key, value string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	_, err := b.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return storageErr("setting "+key, err)
	}
	return nil
}

// DeleteSetting removes a key. Deleting an absent key is not an error.
func (b *Backend) DeleteSetting(key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return err
	}

	if _, err := b.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return storageErr("deleting setting", err)
	}
	return nil
}

// Settings returns every entry ordered by key, including protected ones;
// the backup codec filters those out.
func (b *Backend) Settings() ([]types.SettingEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, storageErr("listing settings", err)
	}
	defer rows.Close()

	var entries []types.SettingEntry
	for rows.Next() {
		var e types.SettingEntry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, storageErr("scanning setting", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating settings", err)
	}
	return entries, nil
}

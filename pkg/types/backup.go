package types

import "time"

// BackupVersion is the current backup document format version.
const BackupVersion = 1

// BackupMeta describes a backup document.
type BackupMeta struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
}

// BackupDocument is the portable full-store snapshot used where no
// library folder can be linked. Settings holding host-specific folder
// tokens are excluded before export; they cannot be restored on another
// machine.
type BackupDocument struct {
	Meta   BackupMeta     `json:"meta"`
	Items  []*Item        `json:"items"`
	Notes  []*Note        `json:"notes"`
	Config []SettingEntry `json:"config"`
}

package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a single SQLite database
// file. The database is the source of truth during normal operation; the
// disk mirror is a best-effort projection driven by the change events
// this backend emits.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	observer types.Observer
	log      *slog.Logger
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		log: slog.With("component", "sqlite"),
	}
}

// Attach opens (or creates) the database under config.DataDir and runs
// any outstanding schema migrations. Returns ErrAlreadyAttached if
// called while attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return storageErr("creating data dir", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "pornhwa.db"))
	if err != nil {
		return storageErr("opening database", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return storageErr("enabling foreign keys", err)
	}
	if _, err := db.Exec(createSettings); err != nil {
		db.Close()
		return storageErr("creating settings table", err)
	}
	if err := b.migrate(db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent; afterwards all operations
// return ErrDetached. Callers flush pending mirror writes before
// detaching.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return storageErr("closing database", err)
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// SetObserver registers the change observer. At most one observer is
// supported; registering replaces the previous one.
func (b *Backend) SetObserver(fn types.Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observer = fn
}

// migrate applies outstanding schema migrations in order, recording the
// reached version in the settings table after each step.
func (b *Backend) migrate(db *sql.DB) error {
	current := 0
	var raw string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", types.SettingSchemaVersion).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// Fresh database.
	case err != nil:
		return storageErr("reading schema version", err)
	default:
		current, err = strconv.Atoi(raw)
		if err != nil {
			return storageErr("parsing schema version", err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return storageErr("beginning migration", err)
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return storageErr(fmt.Sprintf("migration %d", m.version), err)
			}
		}
		if _, err := tx.Exec(
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			types.SettingSchemaVersion, strconv.Itoa(m.version),
		); err != nil {
			tx.Rollback()
			return storageErr("recording schema version", err)
		}
		if err := tx.Commit(); err != nil {
			return storageErr("committing migration", err)
		}
		b.log.Info("applied schema migration", "version", m.version)
	}
	return nil
}

// guard returns ErrDetached unless the backend is attached. Callers hold
// at least a read lock for the duration of the operation.
func (b *Backend) guard() error {
	if !b.attached {
		return types.ErrDetached
	}
	return nil
}

// notify emits a change event to the observer, if any. Called after the
// transaction for a mutation has committed.
func (b *Backend) notify(op types.Op, itemID int64) {
	if b.observer != nil {
		b.observer(types.Event{Op: op, ItemID: itemID})
	}
}

// storageErr wraps an engine failure so errors.Is(err, ErrStorage)
// matches while the message keeps the operation context.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrStorage, op, err)
}

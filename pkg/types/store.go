package types

// Mirror operations scheduled by store events.
const (
	OpWrite Op = iota
	OpDelete
)

// Op distinguishes a write from a delete in a change event.
type Op int

// Event describes a committed mutation. Note mutations carry the owning
// item's id, so one subscriber can project whole items to disk.
type Event struct {
	Op     Op
	ItemID int64
}

// Observer receives an event after each successful item or note commit.
// It is called synchronously from the commit path and must hand work off
// to its own goroutines; bulk operations (ClearAll, BulkReplace) do not
// emit events.
type Observer func(Event)

// SettingEntry is one row of the settings key-value table.
type SettingEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store is the record store contract. Callers attach a backend with a
// Config, operate on it, and detach when done. All mutations are
// synchronous: the caller observes the new state on return.
type Store interface {
	// Attach opens the backing database described by config, creating
	// the data directory and running schema migrations as needed.
	// Returns ErrAlreadyAttached when called twice.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach all
	// operations return ErrDetached.
	Detach() error

	// SetObserver registers the single change observer. Must be called
	// before mutations begin.
	SetObserver(fn Observer)

	// CreateItem validates, normalizes, and inserts the item, assigning
	// an auto-incremented id that is never reused within the database.
	CreateItem(item *Item) (int64, error)
	GetItem(id int64) (*Item, error)
	// UpdateItem merges non-nil patch fields into the stored item.
	// CreatedAt is immutable. Returns ErrNotFound for an absent id.
	UpdateItem(id int64, patch ItemPatch) error
	// TouchItem stamps LastAccessedAt with the current time; called when
	// the item's detail view is opened.
	TouchItem(id int64) error
	// DeleteItem removes the item and every note it owns in a single
	// transaction.
	DeleteItem(id int64) error
	AllItems() ([]*Item, error)
	QueryItems(q Query) ([]*Item, error)

	// AddNote inserts a note; ErrNotFound when the owner is absent.
	AddNote(note *Note) (int64, error)
	GetNote(id int64) (*Note, error)
	UpdateNote(id int64, patch NotePatch) error
	DeleteNote(id int64) error
	// NotesForItem returns the item's notes ordered by chapter, then id.
	NotesForItem(itemID int64) ([]*Note, error)
	AllNotes() ([]*Note, error)

	// GetSetting returns ErrNotFound for an absent key.
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
	Settings() ([]SettingEntry, error)

	// ClearAll removes every item, note, and non-protected setting.
	// Callers that keep a disk mirror clear it first; no events fire.
	ClearAll() error

	// BulkReplace empties both collections and inserts the given sets
	// atomically, preserving the ids carried by the records. Used by
	// disk sync and backup import; no events fire.
	BulkReplace(items []*Item, notes []*Note) error
}

package folder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Link states.
const (
	// Unlinked: no capability held.
	Unlinked State = iota
	// NeedsPermission: a capability was restored but its grant is not
	// currently active.
	NeedsPermission
	// Active: capability held and grant confirmed.
	Active
)

// State is the manager's position in the link lifecycle.
type State int

func (s State) String() string {
	switch s {
	case NeedsPermission:
		return "needs-permission"
	case Active:
		return "active"
	default:
		return "unlinked"
	}
}

// Link outcomes. Cancellation is a normal outcome, not an error;
// LinkFailed always comes paired with one.
const (
	LinkOK LinkOutcome = iota
	LinkCancelled
	LinkFailed
)

// LinkOutcome reports how a Link attempt ended.
type LinkOutcome int

// Manager tracks the library folder capability across sessions. The
// token is persisted in the settings table; on startup Restore rebuilds
// the handle and probes its grant without prompting.
type Manager struct {
	mu       sync.Mutex
	provider Provider
	store    types.Store
	handle   Handle
	state    State
	log      *slog.Logger

	// onLinked runs after a successful Link, before it returns; the
	// caller wires the full disk sync here.
	onLinked func(ctx context.Context) error
}

// NewManager creates a manager. onLinked may be nil.
func NewManager(provider Provider, store types.Store, onLinked func(ctx context.Context) error) *Manager {
	return &Manager{
		provider: provider,
		store:    store,
		onLinked: onLinked,
		log:      slog.With("component", "folder"),
	}
}

// Link prompts for a directory, persists its token, and activates the
// connection. On cancellation all prior state is left untouched and the
// outcome is LinkCancelled with a nil error; any other failure returns
// LinkFailed with the error. A successful link triggers the full disk
// sync before returning.
func (m *Manager) Link(ctx context.Context) (LinkOutcome, error) {
	m.mu.Lock()
	handle, err := m.provider.Pick(ctx)
	if err != nil {
		m.mu.Unlock()
		if errors.Is(err, types.ErrCancelled) {
			return LinkCancelled, nil
		}
		return LinkFailed, err
	}

	if err := m.store.SetSetting(types.SettingDirToken, handle.Token()); err != nil {
		m.mu.Unlock()
		return LinkFailed, fmt.Errorf("persisting folder token: %w", err)
	}
	m.handle = handle
	m.state = Active
	m.mu.Unlock()
	m.log.Info("library folder linked", "token", handle.Token())

	// The sync callback resolves the directory back through ActiveDir,
	// so it must run after the lock is released.
	if m.onLinked != nil {
		if err := m.onLinked(ctx); err != nil {
			// The link itself holds; the initial sync can be retried.
			m.log.Error("initial disk sync failed", "error", err)
		}
	}
	return LinkOK, nil
}

// Restore rebuilds the capability from the persisted token, if one
// exists, and silently probes its grant. Returns true when the grant is
// already active. Without a token the manager stays Unlinked.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.GetSetting(types.SettingDirToken)
	if errors.Is(err, types.ErrNotFound) {
		m.state = Unlinked
		return false, nil
	}
	if err != nil {
		return false, err
	}

	handle, err := m.provider.Restore(ctx, token)
	if err != nil {
		m.log.Warn("failed to restore folder handle", "error", err)
		m.state = Unlinked
		return false, nil
	}
	m.handle = handle

	ok, err := handle.CheckPermission(ctx)
	if err != nil || !ok {
		m.state = NeedsPermission
		return false, nil
	}
	m.state = Active
	return true, nil
}

// RequestPermission explicitly re-prompts for the held capability's
// grant. Only meaningful when a handle is held; returns false otherwise.
func (m *Manager) RequestPermission(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return false, nil
	}
	ok, err := m.handle.RequestPermission(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		m.state = Active
	} else {
		m.state = NeedsPermission
	}
	return ok, nil
}

// IsLinked reports whether a capability is held, regardless of its
// permission state. Status indicators use this.
func (m *Manager) IsLinked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// LinkState returns the current lifecycle state.
func (m *Manager) LinkState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ActiveDir resolves the linked directory for file operations. Fails
// with ErrNotLinked when no capability is held and ErrPermissionDenied
// when the grant is inactive.
func (m *Manager) ActiveDir(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return "", types.ErrNotLinked
	}
	return m.handle.Path(ctx)
}

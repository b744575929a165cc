package folder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhead2001/Pornhwa/internal/sqlite"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

// fakeHandle is a scripted capability for manager tests.
type fakeHandle struct {
	token   string
	granted bool
}

func (h *fakeHandle) Token() string { return h.token }

func (h *fakeHandle) Path(ctx context.Context) (string, error) {
	if !h.granted {
		return "", types.ErrPermissionDenied
	}
	return h.token, nil
}

func (h *fakeHandle) CheckPermission(ctx context.Context) (bool, error) {
	return h.granted, nil
}

func (h *fakeHandle) RequestPermission(ctx context.Context) (bool, error) {
	h.granted = true
	return true, nil
}

// fakeProvider returns scripted outcomes for Pick and Restore.
type fakeProvider struct {
	pickHandle *fakeHandle
	pickErr    error
	restored   *fakeHandle
}

func (p *fakeProvider) Pick(ctx context.Context) (Handle, error) {
	if p.pickErr != nil {
		return nil, p.pickErr
	}
	return p.pickHandle, nil
}

func (p *fakeProvider) Restore(ctx context.Context, token string) (Handle, error) {
	p.restored = &fakeHandle{token: token, granted: p.pickHandle != nil && p.pickHandle.granted}
	return p.restored, nil
}

func setupStore(t *testing.T) types.Store {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestManager_Link(t *testing.T) {
	store := setupStore(t)
	provider := &fakeProvider{pickHandle: &fakeHandle{token: "/lib", granted: true}}

	synced := 0
	m := NewManager(provider, store, func(ctx context.Context) error {
		synced++
		return nil
	})

	outcome, err := m.Link(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LinkOK, outcome)
	assert.Equal(t, Active, m.LinkState())
	assert.True(t, m.IsLinked())
	assert.Equal(t, 1, synced, "a successful link triggers the disk sync")

	token, err := store.GetSetting(types.SettingDirToken)
	require.NoError(t, err)
	assert.Equal(t, "/lib", token)

	dir, err := m.ActiveDir(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/lib", dir)
}

// TestManager_LinkSyncResolvesActiveDir wires the sync callback the way
// hosts do: it resolves the directory back through the manager. Link
// must have released its lock by then or the callback never returns.
func TestManager_LinkSyncResolvesActiveDir(t *testing.T) {
	store := setupStore(t)
	provider := &fakeProvider{pickHandle: &fakeHandle{token: "/lib", granted: true}}

	var m *Manager
	var syncedDir string
	m = NewManager(provider, store, func(ctx context.Context) error {
		dir, err := m.ActiveDir(ctx)
		if err != nil {
			return err
		}
		syncedDir = dir
		return nil
	})

	done := make(chan struct{})
	var outcome LinkOutcome
	var err error
	go func() {
		defer close(done)
		outcome, err = m.Link(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Link never returned; the sync callback blocked on the manager")
	}

	require.NoError(t, err)
	assert.Equal(t, LinkOK, outcome)
	assert.Equal(t, "/lib", syncedDir, "the callback sees the just-linked directory")
}

func TestManager_LinkFailed(t *testing.T) {
	store := setupStore(t)
	provider := &fakeProvider{pickErr: types.ErrPermissionDenied}
	m := NewManager(provider, store, nil)

	outcome, err := m.Link(context.Background())
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
	assert.Equal(t, LinkFailed, outcome)
	assert.Equal(t, Unlinked, m.LinkState())
}

func TestManager_LinkCancelled(t *testing.T) {
	store := setupStore(t)
	provider := &fakeProvider{pickErr: types.ErrCancelled}
	m := NewManager(provider, store, nil)

	outcome, err := m.Link(context.Background())
	require.NoError(t, err, "cancellation is an outcome, not an error")
	assert.Equal(t, LinkCancelled, outcome)
	assert.Equal(t, Unlinked, m.LinkState())
	assert.False(t, m.IsLinked())

	_, err = store.GetSetting(types.SettingDirToken)
	assert.ErrorIs(t, err, types.ErrNotFound, "cancel leaves no token behind")
}

func TestManager_LinkReplacesPrevious(t *testing.T) {
	store := setupStore(t)
	provider := &fakeProvider{pickHandle: &fakeHandle{token: "/first", granted: true}}
	m := NewManager(provider, store, nil)

	_, err := m.Link(context.Background())
	require.NoError(t, err)

	provider.pickHandle = &fakeHandle{token: "/second", granted: true}
	_, err = m.Link(context.Background())
	require.NoError(t, err)

	token, err := store.GetSetting(types.SettingDirToken)
	require.NoError(t, err)
	assert.Equal(t, "/second", token)

	// A cancelled re-link keeps the current connection.
	provider.pickHandle = nil
	provider.pickErr = types.ErrCancelled
	outcome, err := m.Link(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LinkCancelled, outcome)
	token, err = store.GetSetting(types.SettingDirToken)
	require.NoError(t, err)
	assert.Equal(t, "/second", token)
	assert.Equal(t, Active, m.LinkState())
}

func TestManager_Restore(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		granted   bool
		wantOK    bool
		wantState State
	}{
		{"no persisted token", "", false, false, Unlinked},
		{"token with active grant", "/lib", true, true, Active},
		{"token with revoked grant", "/lib", false, false, NeedsPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupStore(t)
			if tt.token != "" {
				require.NoError(t, store.SetSetting(types.SettingDirToken, tt.token))
			}
			provider := &fakeProvider{}
			if tt.granted {
				provider.pickHandle = &fakeHandle{granted: true}
			}
			m := NewManager(provider, store, nil)

			ok, err := m.Restore(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantState, m.LinkState())
		})
	}
}

func TestManager_RequestPermission(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.SetSetting(types.SettingDirToken, "/lib"))
	provider := &fakeProvider{}
	m := NewManager(provider, store, nil)

	// Without a handle there is nothing to request.
	ok, err := m.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NeedsPermission, m.LinkState())

	ok, err = m.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Active, m.LinkState())
}

func TestManager_ActiveDirUnlinked(t *testing.T) {
	m := NewManager(&fakeProvider{}, setupStore(t), nil)
	_, err := m.ActiveDir(context.Background())
	assert.ErrorIs(t, err, types.ErrNotLinked)
}

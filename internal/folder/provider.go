// Package folder owns the link to the user-chosen library directory.
// The directory is modeled as a host-granted capability with its own
// permission lifecycle: a Provider hands out opaque Handles, and the
// Manager tracks whether a handle is held and whether its grant is
// currently active. Handle tokens are host-specific; they are persisted
// in the settings table and never included in portable backups.
package folder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Handle is an opaque capability for one directory.
type Handle interface {
	// Token is the persistable form of the capability, meaningful only
	// to the provider that issued it on this host.
	Token() string

	// Path resolves the directory for file operations. Fails with
	// ErrPermissionDenied when the grant is not active.
	Path(ctx context.Context) (string, error)

	// CheckPermission probes the grant without prompting the user.
	CheckPermission(ctx context.Context) (bool, error)

	// RequestPermission re-acquires the grant, prompting if the host
	// supports it.
	RequestPermission(ctx context.Context) (bool, error)
}

// Provider issues directory capabilities. The concrete provider comes
// from the host environment (CLI prompt, desktop dialog); tests inject
// fakes.
type Provider interface {
	// Pick asks the user to choose a directory. Returns ErrCancelled
	// when the user aborts and ErrUnsupported when the host has no way
	// to offer a choice.
	Pick(ctx context.Context) (Handle, error)

	// Restore rebuilds a handle from a persisted token without
	// prompting. The returned handle's grant may be inactive.
	Restore(ctx context.Context, token string) (Handle, error)
}

// PickFunc supplies a directory path on demand. It returns ErrCancelled
// when the user aborts the prompt.
type PickFunc func(ctx context.Context) (string, error)

type ctxKey int

const pickedDirKey ctxKey = iota

// WithPickedDir stashes a user-chosen directory in the context for
// ContextPicker to find. Hosts whose chooser runs out of process (the
// HTTP API, the CLI flag) resolve the directory before calling Link and
// pass it through here.
func WithPickedDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, pickedDirKey, dir)
}

// ContextPicker reads the directory from the context. An absent or empty
// value counts as the user cancelling the prompt.
func ContextPicker() PickFunc {
	return func(ctx context.Context) (string, error) {
		dir, _ := ctx.Value(pickedDirKey).(string)
		if dir == "" {
			return "", types.ErrCancelled
		}
		return dir, nil
	}
}

// DirProvider issues capabilities for plain filesystem directories. The
// token is the absolute path; the permission probe is an access test
// against the directory itself.
type DirProvider struct {
	pick PickFunc
}

// NewDirProvider creates a provider whose Pick defers to the given
// function. A nil pick function makes Pick fail with ErrUnsupported,
// matching hosts that cannot prompt.
func NewDirProvider(pick PickFunc) *DirProvider {
	return &DirProvider{pick: pick}
}

// Pick obtains a directory from the pick function and verifies it.
func (p *DirProvider) Pick(ctx context.Context) (Handle, error) {
	if p.pick == nil {
		return nil, types.ErrUnsupported
	}
	dir, err := p.pick(ctx)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, types.ErrPermissionDenied
	}
	return &dirHandle{dir: abs}, nil
}

// Restore rebuilds a handle from its token. The directory may have been
// moved or had its permissions revoked since; that surfaces through
// CheckPermission, not here.
func (p *DirProvider) Restore(ctx context.Context, token string) (Handle, error) {
	if token == "" {
		return nil, types.ErrNotLinked
	}
	return &dirHandle{dir: token}, nil
}

// dirHandle is the filesystem-backed capability.
type dirHandle struct {
	dir string
}

func (h *dirHandle) Token() string { return h.dir }

func (h *dirHandle) Path(ctx context.Context) (string, error) {
	ok, err := h.CheckPermission(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", types.ErrPermissionDenied
	}
	return h.dir, nil
}

// CheckPermission verifies the directory still exists and is writable by
// creating and removing a probe file.
func (h *dirHandle) CheckPermission(ctx context.Context) (bool, error) {
	info, err := os.Stat(h.dir)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	probe, err := os.CreateTemp(h.dir, ".perm-*")
	if err != nil {
		return false, nil
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true, nil
}

// RequestPermission re-probes; a filesystem directory has no prompt to
// show, so the silent check is also the explicit one.
func (h *dirHandle) RequestPermission(ctx context.Context) (bool, error) {
	return h.CheckPermission(ctx)
}

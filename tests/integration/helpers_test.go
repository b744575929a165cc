// Package integration exercises the full persistence stack: store,
// folder link, mirror propagation, and backup, wired the way the hosts
// wire them.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myhead2001/Pornhwa/internal/backup"
	"github.com/myhead2001/Pornhwa/internal/folder"
	"github.com/myhead2001/Pornhwa/internal/mirror"
	"github.com/myhead2001/Pornhwa/internal/sqlite"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

// stack is the full wiring under test.
type stack struct {
	Store      *sqlite.Backend
	Folders    *folder.Manager
	Mirror     *mirror.Mirror
	Propagator *mirror.Propagator
	Backup     *backup.Codec

	// LibraryDir is the "library" subdirectory of the linked folder.
	LibraryDir string
}

// setupStack attaches a store to dataDir and links the library folder at
// libRoot, mirroring every committed change. Both directories may be
// reused across setups to model restarts.
func setupStack(t *testing.T, dataDir, libRoot string) *stack {
	t.Helper()

	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}))

	s := &stack{Store: b, LibraryDir: filepath.Join(libRoot, "library")}
	s.Folders = folder.NewManager(
		folder.NewDirProvider(folder.ContextPicker()), b,
		func(ctx context.Context) error { return s.Mirror.SyncFromDisk(ctx) },
	)
	s.Mirror = mirror.New(b, s.Folders)
	s.Propagator = mirror.NewPropagator(s.Mirror)
	b.SetObserver(s.Propagator.Notify)
	s.Backup = backup.NewCodec(b)

	restored, err := s.Folders.Restore(context.Background())
	require.NoError(t, err)
	if !restored {
		ctx := folder.WithPickedDir(context.Background(), libRoot)
		outcome, err := s.Folders.Link(ctx)
		require.NoError(t, err)
		require.Equal(t, folder.LinkOK, outcome)
	}

	t.Cleanup(func() {
		s.Propagator.Flush()
		b.Detach()
	})
	return s
}

// close flushes and detaches early, for restart scenarios.
func (s *stack) close(t *testing.T) {
	t.Helper()
	s.Propagator.Flush()
	require.NoError(t, s.Store.Detach())
}

// libraryFiles lists the mirror file names.
func (s *stack) libraryFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(s.LibraryDir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

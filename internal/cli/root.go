// Package cli implements the pornhwa command-line interface. Every
// subcommand runs against an App wired in PersistentPreRunE and torn
// down (mirror flushed, store detached) in PersistentPostRunE.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myhead2001/Pornhwa/internal/assistant"
	"github.com/myhead2001/Pornhwa/internal/backup"
	"github.com/myhead2001/Pornhwa/internal/catalog"
	"github.com/myhead2001/Pornhwa/internal/folder"
	"github.com/myhead2001/Pornhwa/internal/mirror"
	"github.com/myhead2001/Pornhwa/pkg/sqlite"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

var flags rootFlags

// App bundles the wired components for subcommands.
type App struct {
	Store      types.Store
	Folders    *folder.Manager
	Mirror     *mirror.Mirror
	Propagator *mirror.Propagator
	Backup     *backup.Codec
	Catalog    *catalog.Client
	Assistant  *assistant.Client
	Config     *Config
}

// app is the instance built by initApp for the running command.
var app *App

// NewRootCmd creates the top-level "pornhwa" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pornhwa",
		Short: "A local-first manhwa catalog",
		Long: "Pornhwa tracks the series you read and mirrors every entry to a\n" +
			"JSON file in a linked library folder, so your data stays yours.",
		SilenceUsage:       true,
		PersistentPreRunE:  initApp,
		PersistentPostRunE: closeApp,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .pornhwa-db)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newLinkCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newItemCmd())
	root.AddCommand(newNoteCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newClearCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// initApp loads config, attaches the store, and wires the mirror
// pipeline. Skipped for the version command, which touches nothing.
func initApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := loadConfig(flags.configDir, flags.dataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := sqlite.NewStore()
	if err := store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: cfg.DataDir,
	}); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}

	a := &App{Store: store, Config: cfg}
	// The sync callback reads a.Mirror at link time, after wiring.
	a.Folders = folder.NewManager(
		folder.NewDirProvider(folder.ContextPicker()),
		store,
		func(ctx context.Context) error { return a.Mirror.SyncFromDisk(ctx) },
	)
	a.Mirror = mirror.New(store, a.Folders)
	a.Propagator = mirror.NewPropagator(a.Mirror)
	store.SetObserver(a.Propagator.Notify)

	a.Backup = backup.NewCodec(store)
	a.Catalog = catalog.NewClient(cfg.CatalogBaseURL, cfg.CoverBaseURL)
	a.Assistant = assistant.NewClient(cfg.AssistantBaseURL, cfg.AssistantModel, store)

	// Silent restore; commands print state when asked.
	if _, err := a.Folders.Restore(cmd.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: folder restore failed: %v\n", err)
	}

	app = a
	return nil
}

// closeApp flushes pending mirror writes and detaches the store.
func closeApp(cmd *cobra.Command, args []string) error {
	if app == nil {
		return nil
	}
	app.Propagator.Flush()
	return app.Store.Detach()
}

// promptDir reads a directory path from stdin; empty input cancels.
func promptDir(ctx context.Context) (string, error) {
	fmt.Print("Library folder path (empty to cancel): ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", types.ErrCancelled
	}
	dir := strings.TrimSpace(line)
	if dir == "" {
		return "", types.ErrCancelled
	}
	return dir, nil
}

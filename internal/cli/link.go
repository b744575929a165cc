package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myhead2001/Pornhwa/internal/folder"
)

// newLinkCmd connects a library folder and runs the initial disk sync.
func newLinkCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a library folder for the disk mirror",
		Long: "Link connects a folder on disk; every catalog entry is mirrored\n" +
			"to a JSON file inside it, and syncing rebuilds the catalog from\n" +
			"those files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dir == "" {
				picked, err := promptDir(ctx)
				if err == nil {
					dir = picked
				}
			}
			ctx = folder.WithPickedDir(ctx, dir)

			outcome, err := app.Folders.Link(ctx)
			if err != nil {
				return err
			}
			if outcome == folder.LinkCancelled {
				// User backed out; nothing changed.
				return nil
			}
			fmt.Println("Library folder linked and synced.")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "library folder path (prompts when omitted)")
	return cmd
}

// newSyncCmd rebuilds the catalog from the mirror directory.
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the catalog from the linked folder",
		Long: "Sync discards the current catalog and reloads every mirror file\n" +
			"from the linked folder, making disk the source of truth.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Mirror.SyncFromDisk(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Synced from disk.")
			return nil
		},
	}
}

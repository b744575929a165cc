package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newExportCmd writes the portable backup document. Used on hosts where
// no library folder can be linked.
func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a portable backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := app.Backup.ExportJSON()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(raw)
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported backup to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

// newImportCmd restores from a backup document, replacing the catalog.
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a backup, replacing the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := app.Backup.Import(raw); err != nil {
				return err
			}
			fmt.Println("Backup imported.")
			return nil
		},
	}
}

// newClearCmd wipes the catalog and, best-effort, the mirror files.
func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every item, note, and mirror file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			// Mirror files first: bulk clears emit no change events, so
			// nothing else would remove them.
			if err := app.Mirror.ClearFiles(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "warning: clearing mirror files: %v\n", err)
			}
			if err := app.Store.ClearAll(); err != nil {
				return err
			}
			fmt.Println("Catalog cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}

// newVersionCmd prints the version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("pornhwa v0.1.0")
		},
	}
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// newNoteCmd groups note subcommands.
func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage chapter notes",
	}
	cmd.AddCommand(newNoteAddCmd())
	cmd.AddCommand(newNoteDeleteCmd())
	return cmd
}

func newNoteAddCmd() *cobra.Command {
	var (
		chapter      int
		participants []string
		tags         []string
	)

	cmd := &cobra.Command{
		Use:   "add <item-id> <body>",
		Short: "Add a note to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad item id %q", args[0])
			}
			note := types.Note{
				ItemID:       itemID,
				Chapter:      chapter,
				Body:         args[1],
				Participants: participants,
				Tags:         tags,
			}
			id, err := app.Store.AddNote(&note)
			if err != nil {
				return err
			}
			fmt.Printf("Added note %d (ch.%d, %s)\n", id, chapter, strings.Join(participants, ", "))
			return nil
		},
	}

	cmd.Flags().IntVar(&chapter, "chapter", 0, "chapter number")
	cmd.Flags().StringSliceVar(&participants, "participant", nil, "participant (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	return cmd
}

func newNoteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad id %q", args[0])
			}
			if err := app.Store.DeleteNote(id); err != nil {
				return err
			}
			fmt.Printf("Deleted note %d\n", id)
			return nil
		},
	}
}

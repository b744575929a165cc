package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// newItemCmd groups item subcommands.
func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage catalog items",
	}
	cmd.AddCommand(newItemAddCmd())
	cmd.AddCommand(newItemListCmd())
	cmd.AddCommand(newItemShowCmd())
	cmd.AddCommand(newItemDeleteCmd())
	return cmd
}

func newItemAddCmd() *cobra.Command {
	var (
		creator string
		rating  int
		status  string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an item to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := types.Item{
				Title:          args[0],
				PrimaryCreator: creator,
				Rating:         rating,
				Status:         types.Status(status),
				Tags:           tags,
			}
			id, err := app.Store.CreateItem(&item)
			if err != nil {
				return err
			}
			fmt.Printf("Added item %d: %s\n", id, item.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "primary creator")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating 0-5")
	cmd.Flags().StringVar(&status, "status", string(types.StatusPlanToRead), "reading status")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	return cmd
}

func newItemListCmd() *cobra.Command {
	var (
		text      string
		tag       string
		statuses  []string
		minRating int
		sortBy    string
		desc      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := types.Query{
				Text:        text,
				TagContains: tag,
				MinRating:   minRating,
				SortDesc:    desc,
			}
			for _, s := range statuses {
				q.Statuses = append(q.Statuses, types.Status(s))
			}
			switch sortBy {
			case "", "title":
				q.SortBy = types.SortByTitle
			case "rating":
				q.SortBy = types.SortByRating
			case "created":
				q.SortBy = types.SortByCreatedAt
			case "accessed":
				q.SortBy = types.SortByLastAccessedAt
			default:
				return fmt.Errorf("unknown sort field %q", sortBy)
			}

			items, err := app.Store.QueryItems(q)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Printf("%4d  %-40s  %-12s  %d/5  %s\n",
					it.ID, it.Title, it.Status, it.Rating, strings.Join(it.Tags, ","))
			}
			fmt.Printf("%d item(s)\n", len(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "free-text filter over titles and creators")
	cmd.Flags().StringVar(&tag, "tag", "", "tag substring filter")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "status filter (repeatable)")
	cmd.Flags().IntVar(&minRating, "min-rating", 0, "minimum rating")
	cmd.Flags().StringVar(&sortBy, "sort", "title", "sort field: title|rating|created|accessed")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func newItemShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an item and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad id %q", args[0])
			}
			// Opening the detail view counts as an access.
			if err := app.Store.TouchItem(id); err != nil {
				return err
			}
			item, err := app.Store.GetItem(id)
			if err != nil {
				return err
			}
			notes, err := app.Store.NotesForItem(id)
			if err != nil {
				return err
			}

			fmt.Printf("%s (id %d)\n", item.Title, item.ID)
			if len(item.AlternativeTitles) > 0 {
				fmt.Printf("  also known as: %s\n", strings.Join(item.AlternativeTitles, "; "))
			}
			fmt.Printf("  creators: %s\n", strings.Join(item.Creators, ", "))
			fmt.Printf("  status: %s  rating: %d/5  tags: %s\n",
				item.Status, item.Rating, strings.Join(item.Tags, ","))
			for _, n := range notes {
				fmt.Printf("  ch.%d: %s\n", n.Chapter, n.Body)
			}
			return nil
		},
	}
}

func newItemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad id %q", args[0])
			}
			if err := app.Store.DeleteItem(id); err != nil {
				return err
			}
			fmt.Printf("Deleted item %d\n", id)
			return nil
		},
	}
}

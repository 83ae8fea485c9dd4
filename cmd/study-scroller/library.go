// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pdiddy/study-scroller/internal/app"
	"github.com/pdiddy/study-scroller/internal/browser"
	"github.com/pdiddy/study-scroller/internal/feed"
	"github.com/pdiddy/study-scroller/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved cards (list, export, save, share, open)",
	Long: `Library manages the cards saved from the feed. The library lives in a
local SQLite or bbolt database under the data directory and is shared with
the web page.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cards in the order they were saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		comps, err := buildComponents()
		if err != nil {
			return err
		}
		defer comps.Close()

		cards := comps.library.List(context.Background())
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return feed.FormatJSON(cards, os.Stdout)
		}
		feed.FormatTable(cards, os.Stdout)
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes every saved card to stdout, or to --output when given.
The default format is YAML.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := comps.library.Export(context.Background(), format, w); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}

// --- save subcommand ---

var librarySaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Assemble a feed and save one of its cards",
	Long: `Save assembles a fresh feed for --topic and saves the card with --id.
Saving a card that is already in the library is reported, not repeated.`,
	RunE: runLibrarySave,
}

func runLibrarySave(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	topic, _ := cmd.Flags().GetString("topic")
	if id == "" || topic == "" {
		return fmt.Errorf("both --id and --topic are required")
	}

	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.Close()

	ctx := context.Background()
	ctrl := comps.controller(app.Deps{})
	if _, err := ctrl.Dispatch(ctx, app.Action{Kind: app.ActionSelectTopic, ID: topic}); err != nil {
		return err
	}
	n, err := ctrl.Dispatch(ctx, app.Action{Kind: app.ActionSave, ID: id})
	if err != nil {
		return err
	}
	fmt.Println(n.Message)
	if n.Message == app.NoticeNotFound {
		return fmt.Errorf("card %q is not in the %s feed", id, topic)
	}
	return nil
}

// --- share and open subcommands ---

var libraryShareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Copy a saved card's title and link to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSavedCard(args[0], func(ctrl *app.Controller, card types.Card) app.Notice {
			return ctrl.Share(context.Background(), card)
		}, app.Deps{Clipboard: app.SystemClipboard{}})
	},
}

var libraryOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a saved card's link in the system browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSavedCard(args[0], func(ctrl *app.Controller, card types.Card) app.Notice {
			return ctrl.OpenLink(card)
		}, app.Deps{Opener: browser.Open})
	},
}

// withSavedCard finds the saved card with id and prints the notice fn
// returns for it.
func withSavedCard(id string, fn func(*app.Controller, types.Card) app.Notice, deps app.Deps) error {
	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.Close()

	card, ok := lo.Find(comps.library.List(context.Background()), func(c types.Card) bool {
		return c.ID == types.CardID(id)
	})
	if !ok {
		return fmt.Errorf("no saved card with id %q", id)
	}

	n := fn(comps.controller(deps), card)
	if n.Message != "" {
		fmt.Println(n.Message)
	}
	if n.Link != "" {
		fmt.Println(n.Link)
	}
	return nil
}

func init() {
	libraryListCmd.Flags().Bool("json", false, "output cards as JSON")

	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	libraryExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	librarySaveCmd.Flags().String("id", "", "id of the card to save")
	librarySaveCmd.Flags().String("topic", "", "start topic whose feed holds the card")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryShareCmd)
	libraryCmd.AddCommand(libraryOpenCmd)

	rootCmd.AddCommand(libraryCmd)
}

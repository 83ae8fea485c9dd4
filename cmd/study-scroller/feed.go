// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-scroller/internal/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Assemble a feed for a topic and print it",
	Long: `Feed queries OpenAlex and openFDA at once for the topic, interleaves the
results (paper, drug, paper, ...), and prints the cards. When both sources
come back empty the built-in sample cards are printed instead.

The topic is a start topic id or display text (see "study-scroller catalog").`,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().String("topic", "", "start topic (default: science)")
	feedCmd.Flags().Bool("json", false, "output cards as JSON")

	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.Close()

	topic, _ := cmd.Flags().GetString("topic")
	r := comps.assembler.Assemble(context.Background(), comps.catalog.TopicText(topic))

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return feed.FormatJSON(r.Cards, os.Stdout)
	}
	if r.Fallback {
		fmt.Fprintln(os.Stderr, "Both sources came back empty; showing sample cards.")
	}
	feed.FormatTable(r.Cards, os.Stdout)
	return nil
}

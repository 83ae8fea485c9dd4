// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-scroller/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List start topics and interest chips",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cat)
		}
		printCatalog(cat)
		return nil
	},
}

func init() {
	catalogCmd.Flags().Bool("json", false, "output the catalog as JSON")
	rootCmd.AddCommand(catalogCmd)
}

func printCatalog(cat *catalog.Catalog) {
	fmt.Fprintf(os.Stdout, "%-14s  %-20s  %s\n", "Topic", "Name", "Interests")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, t := range cat.StartTopics {
		names := make([]string, 0, 5)
		for _, i := range cat.InterestsFor(t.ID) {
			names = append(names, i.Text)
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-20s  %s\n", t.ID, t.Icon+" "+t.Text, strings.Join(names, ", "))
	}
	fmt.Fprintf(os.Stdout, "\n%d topics, %d interests\n", len(cat.StartTopics), len(cat.AllInterests()))
}

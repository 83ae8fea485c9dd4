// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// FormatTable writes cards as a human-readable table to w.
func FormatTable(cards []types.Card, w io.Writer) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-50s  %-24s  %-4s  %s\n",
		"#", "Type", "Title", "Category", "Year", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, c := range cards {
		kind := string(c.Type)
		if kind == "" {
			kind = "sample"
		}
		fmt.Fprintf(w, "%-4d  %-8s  %-50s  %-24s  %-4s  %s\n",
			i+1, kind, truncate(c.Title, 50), truncate(c.Category, 24), c.Year, c.ID)
	}

	fmt.Fprintf(w, "\n%d cards\n", len(cards))
}

// FormatJSON writes cards as indented JSON to w.
func FormatJSON(cards []types.Card, w io.Writer) error {
	if cards == nil {
		cards = []types.Card{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

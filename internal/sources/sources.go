// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources wraps the external content APIs (OpenAlex works search and
// openFDA drug labels) and normalizes their responses into feed cards.
//
// Adapters never return errors: a transport or parse failure is logged and
// yields an empty slice, so one broken API never blanks the other's cards.
package sources

import (
	"context"
	"unicode/utf8"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// Adapter fetches cards for a start topic from one external API.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, topic string) []types.Card
}

// Ellipsis is appended to text cut at the card text limit.
const Ellipsis = "..."

// Truncate cuts s to at most limit characters and appends Ellipsis when it
// cut anything. Characters are counted as runes so multi-byte text is never
// split mid-character.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}

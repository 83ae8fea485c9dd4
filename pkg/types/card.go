// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for study-scroller: the Card
// shown in the feed and library, and the configuration of each component.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CardType discriminates where a Card came from.
type CardType string

const (
	CardResearch CardType = "research"
	CardDrug     CardType = "drug"
	// CardSample marks the built-in sample cards, which carry no type.
	CardSample CardType = ""
)

// CardID identifies a card within a feed batch and within the library.
// Upstream ids and the built-in samples mix numbers and strings; both decode
// into the same CardID so that 42 and "42" compare equal.
type CardID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *CardID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding card id: %w", err)
		}
		*id = CardID(strings.TrimSpace(s))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("card id must be a string or number: %w", err)
		}
		*id = CardID(canonicalNumber(n))
		return nil
	}
}

// maxExactFloat bounds the integers a float64 holds exactly.
const maxExactFloat = 1 << 53

// canonicalNumber spells a JSON number the same way however it was written,
// so 42, 42.0 and 4.2e1 all become "42".
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == math.Trunc(f) && math.Abs(f) < maxExactFloat {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Card is the normalized content unit shown in the feed: a research paper,
// a drug label, or a built-in sample.
type Card struct {
	// ID is unique within a feed batch and within the library.
	ID CardID `json:"id" yaml:"id"`

	// Category is the display label (source name, "Medicine", "Research").
	Category string `json:"category" yaml:"category"`

	// Tag is the short badge label.
	Tag string `json:"tag" yaml:"tag"`

	// Title may be empty for malformed upstream records.
	Title string `json:"title" yaml:"title"`

	// Text is the display body, at most ~250 characters plus "..." when cut.
	Text string `json:"text" yaml:"text"`

	// Year is an optional 4-digit publication or effective year.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	Image string `json:"image,omitempty" yaml:"image,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`

	Type CardType `json:"type,omitempty" yaml:"type,omitempty"`

	// Color and Source are only set on the built-in sample cards.
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Clone returns an independent copy of c. The library stores clones so the
// saved copy never aliases a feed snapshot.
func (c Card) Clone() Card {
	return c
}

// HasLink reports whether the card points at an external page.
func (c Card) HasLink() bool {
	u := strings.TrimSpace(c.URL)
	return u != "" && u != "null"
}

// CloneCards returns a copy of cards that shares no backing array with it.
func CloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

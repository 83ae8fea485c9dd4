// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed assembles the card feed: it queries the scholarly and drug
// adapters concurrently, interleaves their cards, and falls back to the
// built-in sample set so the feed is never blank.
package feed

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/study-scroller/internal/sources"
	"github.com/pdiddy/study-scroller/pkg/types"
)

// Result is one assembled feed.
type Result struct {
	Cards []types.Card `json:"cards"`

	// Fallback is true when both adapters came back empty and Cards holds
	// the built-in sample set.
	Fallback bool `json:"fallback"`

	// Counts per adapter, before interleaving.
	Scholarly int `json:"scholarly"`
	Drug      int `json:"drug"`

	// Generation is set by Session.Commit.
	Generation uint64 `json:"generation"`
}

// Assembler builds feeds from two adapters.
type Assembler struct {
	Scholarly sources.Adapter
	Drug      sources.Adapter

	// Fallback returns the sample cards used when the feed would be empty.
	// It must return a fresh slice on every call.
	Fallback func() []types.Card

	Log *log.Logger
}

// Assemble dispatches both adapters at once, waits for both, and
// interleaves the results round-robin starting with the scholarly cards.
// It never fails: adapter failures arrive as empty slices, and an empty
// interleave is replaced by the fallback set.
func (a *Assembler) Assemble(ctx context.Context, topic string) Result {
	start := time.Now()

	var papers, drugs []types.Card
	var g errgroup.Group
	g.Go(func() error {
		papers = a.Scholarly.Fetch(ctx, topic)
		return nil
	})
	g.Go(func() error {
		drugs = a.Drug.Fetch(ctx, topic)
		return nil
	})
	_ = g.Wait()

	res := Result{
		Cards:     Interleave(papers, drugs),
		Scholarly: len(papers),
		Drug:      len(drugs),
	}
	if len(res.Cards) == 0 && a.Fallback != nil {
		res.Cards = a.Fallback()
		res.Fallback = true
	}

	if a.Log != nil {
		a.Log.Info("feed assembled",
			"topic", topic,
			a.Scholarly.Name(), res.Scholarly,
			a.Drug.Name(), res.Drug,
			"fallback", res.Fallback,
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	}
	return res
}

// Interleave merges a and b round-robin: a[0], b[0], a[1], b[1], ... and
// then whatever remains of the longer slice.
func Interleave(a, b []types.Card) []types.Card {
	return lo.Interleave(a, b)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the static onboarding data: start topics, interest
// tags per topic, and the built-in sample cards shown when the feed would
// otherwise be empty.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// DefaultInterests is the interests key used for topics without their own list.
const DefaultInterests = "default"

//go:embed catalog.yaml
var catalogYAML []byte

// Topic is a start topic offered on the onboarding list.
type Topic struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
	Icon string `json:"icon" yaml:"icon"`
}

// Interest is a selectable interest chip.
type Interest struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Catalog is the parsed static data.
type Catalog struct {
	StartTopics []Topic               `json:"start_topics" yaml:"start_topics"`
	Interests   map[string][]Interest `json:"interests" yaml:"interests"`
	SampleCards []types.Card          `json:"sample_cards" yaml:"sample_cards"`
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Load parses the embedded catalog once and returns it.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(catalogYAML)
	})
	return loaded, loadErr
}

// MustLoad is Load for callers that treat a broken embedded catalog as a
// programming error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a catalog document and checks the invariants the rest of
// the application relies on.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(c.StartTopics) == 0 {
		return nil, fmt.Errorf("catalog has no start topics")
	}
	if len(c.Interests[DefaultInterests]) == 0 {
		return nil, fmt.Errorf("catalog has no %q interests", DefaultInterests)
	}
	if len(c.SampleCards) == 0 {
		return nil, fmt.Errorf("catalog has no sample cards")
	}
	for i, card := range c.SampleCards {
		if card.ID == "" {
			return nil, fmt.Errorf("sample card %d has no id", i)
		}
	}
	return &c, nil
}

// Topic returns the start topic with the given id.
func (c *Catalog) Topic(id string) (Topic, bool) {
	return lo.Find(c.StartTopics, func(t Topic) bool {
		return strings.EqualFold(t.ID, id)
	})
}

// TopicText returns the display text of the topic id, the id itself when it
// is not in the catalog, or "" for an empty id.
func (c *Catalog) TopicText(id string) string {
	if t, ok := c.Topic(id); ok {
		return t.Text
	}
	return id
}

// InterestsFor returns the interest chips for a topic, falling back to the
// default list for topics without their own.
func (c *Catalog) InterestsFor(topicID string) []Interest {
	if list, ok := c.Interests[strings.ToLower(topicID)]; ok {
		return list
	}
	return c.Interests[DefaultInterests]
}

// AllInterests returns every interest chip once, default list first, then
// the per-topic lists in start-topic order. It backs the onboarding grid and
// the discover tab.
func (c *Catalog) AllInterests() []Interest {
	all := append([]Interest(nil), c.Interests[DefaultInterests]...)
	for _, t := range c.StartTopics {
		all = append(all, c.Interests[t.ID]...)
	}
	return lo.UniqBy(all, func(i Interest) string { return i.ID })
}

// HasInterest reports whether id names any interest chip.
func (c *Catalog) HasInterest(id string) bool {
	return lo.ContainsBy(c.AllInterests(), func(i Interest) bool { return i.ID == id })
}

// SampleCardsCopy returns a fresh copy of the built-in sample set.
func (c *Catalog) SampleCardsCopy() []types.Card {
	return types.CloneCards(c.SampleCards)
}

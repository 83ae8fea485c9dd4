// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

const (
	defaultScholarlyTopic = "science"
	openAlexSelect        = "title,publication_year,abstract_inverted_index,id,primary_location,doi"
	researchCategory      = "Research"
	researchTag           = "Science Fact"
)

// OpenAlex samples works with abstracts from the OpenAlex API.
type OpenAlex struct {
	Client *http.Client
	Log    *log.Logger
	Config types.FeedConfig
}

// NewOpenAlex returns an OpenAlex adapter with defaults applied to cfg.
func NewOpenAlex(client *http.Client, cfg types.FeedConfig, lg *log.Logger) *OpenAlex {
	return &OpenAlex{Client: client, Config: cfg.WithDefaults(), Log: lg}
}

// Name returns the adapter identifier.
func (o *OpenAlex) Name() string { return "openalex" }

// Fetch samples works matching topic ("science" when empty) and maps them to
// research cards. Any failure is logged and returns nil.
func (o *OpenAlex) Fetch(ctx context.Context, topic string) []types.Card {
	cards, err := o.fetch(ctx, topic)
	if err != nil {
		if o.Log != nil {
			o.Log.Warn("openalex fetch failed", "topic", topic, "err", err)
		}
		return nil
	}
	return cards
}

func (o *OpenAlex) fetch(ctx context.Context, topic string) ([]types.Card, error) {
	cfg := o.Config.WithDefaults()

	reqURL := openAlexWorksBase + "?" + openAlexParams(topic, cfg).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	cards := make([]types.Card, 0, len(oar.Results))
	for _, work := range oar.Results {
		if work.ID == "" {
			continue
		}
		cards = append(cards, work.card(cfg.TextLimit))
	}
	return cards, nil
}

// openAlexParams builds the works query. The search term is the lowercased
// topic; sample asks OpenAlex for a random subset rather than the top hits.
func openAlexParams(topic string, cfg types.FeedConfig) url.Values {
	search := strings.ToLower(strings.TrimSpace(topic))
	if search == "" {
		search = defaultScholarlyTopic
	}
	params := url.Values{
		"search": {search},
		"filter": {"has_abstract:true"},
		"sample": {strconv.Itoa(cfg.SampleSize)},
		"select": {openAlexSelect},
	}
	if cfg.OpenAlexEmail != "" {
		params.Set("mailto", cfg.OpenAlexEmail)
	}
	return params
}

func (w openAlexWork) card(textLimit int) types.Card {
	c := types.Card{
		ID:       types.CardID(w.ID),
		Category: researchCategory,
		Tag:      researchTag,
		Title:    w.Title,
		Text:     reconstructAbstract(w.AbstractInvertedIndex, textLimit),
		URL:      w.DOI,
		Type:     types.CardResearch,
	}
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil && w.PrimaryLocation.Source.DisplayName != "" {
		c.Category = w.PrimaryLocation.Source.DisplayName
	}
	if w.PublicationYear > 0 {
		c.Year = strconv.Itoa(w.PublicationYear)
	}
	return c
}

// OpenAlex API JSON structures. Only the selected fields are decoded.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string            `json:"id"`
	Title                 string            `json:"title"`
	DOI                   string            `json:"doi"`
	PublicationYear       int               `json:"publication_year"`
	AbstractInvertedIndex map[string][]int  `json:"abstract_inverted_index"`
	PrimaryLocation       *openAlexLocation `json:"primary_location"`
}

type openAlexLocation struct {
	Source *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}

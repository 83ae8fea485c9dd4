// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// openFDALabelBase is the openFDA drug label endpoint. Declared as a var so
// tests can substitute an httptest server.
var openFDALabelBase = "https://api.fda.gov/drug/label.json"

// dailyMedSearchBase is the public search portal linked from drug cards.
const dailyMedSearchBase = "https://dailymed.nlm.nih.gov/dailymed/search.cfm"

const (
	defaultDrugKeyword = "health"
	drugCategory       = "Medicine"
	drugTag            = "Drug Info"
	unknownDrug        = "Unknown Drug"
	noDescription      = "No description available."
)

// drugKeywords maps a start topic's display text to a drug condition or
// class searched in the indications-and-usage field. Keys match exactly.
var drugKeywords = map[string]string{
	"Psychology":  "antidepressant",
	"Biology":     "antibiotic",
	"Medicine":    "pain",
	"Chemistry":   "chemical",
	"Engineering": "device",
}

// errNoMatches is openFDA's 404 for a search without hits. It is expected
// and never logged above debug.
var errNoMatches = errors.New("no matches")

// DrugKeyword returns the label search keyword for topic: the mapped
// keyword when the topic is in the table, the topic itself otherwise, and
// "health" when the topic is empty.
func DrugKeyword(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return defaultDrugKeyword
	}
	if kw, ok := drugKeywords[topic]; ok {
		return kw
	}
	return topic
}

// OpenFDA searches drug labels by indication on the openFDA API.
type OpenFDA struct {
	Client *http.Client
	Log    *log.Logger
	Config types.FeedConfig
}

// NewOpenFDA returns an OpenFDA adapter with defaults applied to cfg.
func NewOpenFDA(client *http.Client, cfg types.FeedConfig, lg *log.Logger) *OpenFDA {
	return &OpenFDA{Client: client, Config: cfg.WithDefaults(), Log: lg}
}

// Name returns the adapter identifier.
func (o *OpenFDA) Name() string { return "openfda" }

// Fetch searches labels for the topic's keyword and maps them to drug cards.
// Failures, including the 404 openFDA returns for no matches, yield nil.
func (o *OpenFDA) Fetch(ctx context.Context, topic string) []types.Card {
	cards, err := o.fetch(ctx, topic)
	if err != nil {
		if o.Log != nil {
			o.Log.Debug("openfda fetch returned nothing", "topic", topic, "err", err)
		}
		return nil
	}
	return cards
}

func (o *OpenFDA) fetch(ctx context.Context, topic string) ([]types.Card, error) {
	cfg := o.Config.WithDefaults()

	params := url.Values{
		"search": {"indications_and_usage:" + DrugKeyword(topic)},
		"limit":  {strconv.Itoa(cfg.DrugLimit)},
	}
	reqURL := openFDALabelBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openFDA API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNoMatches
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("openFDA API returned HTTP %d", resp.StatusCode)
	}

	var lr openFDAResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("parsing openFDA response: %w", err)
	}

	cards := make([]types.Card, 0, len(lr.Results))
	for _, label := range lr.Results {
		cards = append(cards, label.card(cfg.TextLimit))
	}
	return cards, nil
}

func (l openFDALabel) card(textLimit int) types.Card {
	c := types.Card{
		ID:       types.CardID(l.ID),
		Category: drugCategory,
		Tag:      drugTag,
		Title:    unknownDrug,
		Text:     noDescription,
		Type:     types.CardDrug,
	}
	if c.ID == "" {
		c.ID = types.CardID(uuid.NewString())
	}

	brand := first(l.OpenFDA.BrandName)
	generic := first(l.OpenFDA.GenericName)
	switch {
	case brand != "":
		c.Title = brand
	case generic != "":
		c.Title = generic
	}

	if ind := first(l.IndicationsAndUsage); ind != "" {
		c.Text = Truncate(ind, textLimit)
	}
	if len(l.EffectiveTime) >= 4 {
		c.Year = l.EffectiveTime[:4]
	}

	if name := firstNonEmpty(brand, generic); name != "" {
		c.URL = dailyMedSearchBase + "?" + url.Values{
			"labeltype": {"all"},
			"query":     {name},
		}.Encode()
	}
	return c
}

func first(vals []string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	return first(vals)
}

// openFDA API JSON structures.
type openFDAResponse struct {
	Results []openFDALabel `json:"results"`
}

type openFDALabel struct {
	ID                  string          `json:"id"`
	EffectiveTime       string          `json:"effective_time"`
	IndicationsAndUsage []string        `json:"indications_and_usage"`
	OpenFDA             openFDAMetadata `json:"openfda"`
}

type openFDAMetadata struct {
	BrandName   []string `json:"brand_name"`
	GenericName []string `json:"generic_name"`
}

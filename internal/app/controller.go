// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package app is the central controller. Every user action, whether it comes
// from the web page, the JSON API, or the CLI, is a typed Action dispatched
// through Controller.Dispatch, which drives the navigator, the feed session,
// and the library.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/study-scroller/internal/browser"
	"github.com/pdiddy/study-scroller/internal/catalog"
	"github.com/pdiddy/study-scroller/internal/feed"
	"github.com/pdiddy/study-scroller/internal/library"
	"github.com/pdiddy/study-scroller/internal/navigator"
	"github.com/pdiddy/study-scroller/pkg/types"
)

// User-visible notices.
const (
	NoticeSaved           = "Saved to Library!"
	NoticeAlreadySaved    = "Already in Library"
	NoticeNotFound        = "Item not found in current feed."
	NoticeShared          = "Shared!"
	NoticeCopied          = "Link copied to clipboard."
	NoticeShareFailed     = "Share not supported on this browser/platform."
	NoticeNoLink          = "No external link available for this item."
	NoticeUnknownTopic    = "Unknown topic."
	NoticeUnknownInterest = "Unknown interest."
)

// ErrUnknownTopic is returned when a topic id is not in the catalog.
var ErrUnknownTopic = errors.New("unknown topic")

// Notice is the user-visible result of an action. Link is set when the
// action resolved an external URL; Share when the share capability took a
// payload.
type Notice struct {
	Message string        `json:"message,omitempty"`
	Link    string        `json:"link,omitempty"`
	Share   *SharePayload `json:"share,omitempty"`
}

// FeedAssembler builds a feed for a topic.
type FeedAssembler interface {
	Assemble(ctx context.Context, topic string) feed.Result
}

// Library persists saved cards.
type Library interface {
	Save(ctx context.Context, card types.Card) (library.SaveOutcome, error)
	List(ctx context.Context) []types.Card
}

// Deps are the collaborators of a Controller. Catalog, Assembler, and
// Library are required; the rest are optional platform capabilities.
type Deps struct {
	Catalog   *catalog.Catalog
	Assembler FeedAssembler
	Library   Library
	Sharer    Sharer
	Clipboard Clipboard

	// Opener launches a validated http(s) link, typically browser.Open.
	Opener func(string) error

	// PageURL is shared for cards that carry no link of their own.
	PageURL string

	Log *log.Logger
}

// Controller owns the per-user state and dispatches actions.
type Controller struct {
	deps    Deps
	log     *log.Logger
	nav     *navigator.Navigator
	session *feed.Session

	mu    sync.RWMutex
	shelf []types.Card
}

// New builds a Controller. Entering the feed screen assembles a feed for the
// chosen start topic; entering the library tab re-reads the library.
func New(deps Deps) *Controller {
	lg := deps.Log
	if lg == nil {
		lg = log.Default()
	}
	c := &Controller{
		deps:    deps,
		log:     lg.WithPrefix("app"),
		session: feed.NewSession(),
	}
	c.nav = navigator.New(navigator.Hooks{
		EnterFeed:    c.loadFeed,
		EnterLibrary: c.refreshLibrary,
	})
	return c
}

// Catalog returns the static catalog.
func (c *Controller) Catalog() *catalog.Catalog { return c.deps.Catalog }

// Navigation returns the current navigator state.
func (c *Controller) Navigation() navigator.State { return c.nav.State() }

// Session returns the feed session.
func (c *Controller) Session() *feed.Session { return c.session }

// Shelf returns the library as of the last visit to the library tab.
func (c *Controller) Shelf() []types.Card {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.CloneCards(c.shelf)
}

// Dispatch applies a to the controller state.
func (c *Controller) Dispatch(ctx context.Context, a Action) (Notice, error) {
	c.log.Debug("dispatch", "kind", a.Kind, "id", a.ID, "tab", a.Tab)

	switch a.Kind {
	case ActionToggleInterest:
		if !c.deps.Catalog.HasInterest(a.ID) {
			return Notice{Message: NoticeUnknownInterest}, nil
		}
		c.session.ToggleInterest(a.ID)
		return Notice{}, nil

	case ActionNext:
		return Notice{}, c.nav.GoTo(ctx, navigator.ScreenStart)

	case ActionBack:
		c.nav.Back()
		return Notice{}, nil

	case ActionSelectTopic:
		t, ok := c.deps.Catalog.Topic(a.ID)
		if !ok {
			return Notice{Message: NoticeUnknownTopic}, fmt.Errorf("%w: %q", ErrUnknownTopic, a.ID)
		}
		c.session.SetStartTopic(t.ID)
		return Notice{}, c.nav.GoTo(ctx, navigator.ScreenFeed)

	case ActionSwitchTab:
		tab, err := navigator.ParseTab(a.Tab)
		if err != nil {
			return Notice{}, err
		}
		return Notice{}, c.nav.SwitchTab(ctx, tab)

	case ActionReload:
		if c.nav.State().Active != navigator.ScreenFeed {
			return Notice{}, navigator.ErrNotOnboarded
		}
		c.loadFeed(ctx)
		return Notice{}, nil

	case ActionSave:
		card, ok := c.session.Lookup(types.CardID(a.ID))
		if !ok {
			return Notice{Message: NoticeNotFound}, nil
		}
		return c.Save(ctx, card)

	case ActionShare:
		card, ok := c.session.Lookup(types.CardID(a.ID))
		if !ok {
			return Notice{Message: NoticeNotFound}, nil
		}
		return c.Share(ctx, card), nil

	case ActionOpenLink:
		card, ok := c.session.Lookup(types.CardID(a.ID))
		if !ok {
			return Notice{Message: NoticeNotFound}, nil
		}
		return c.OpenLink(card), nil
	}

	return Notice{}, fmt.Errorf("%w: unknown kind %q", ErrBadAction, a.Kind)
}

// Save stores card in the library and reports the outcome as a notice.
func (c *Controller) Save(ctx context.Context, card types.Card) (Notice, error) {
	outcome, err := c.SaveCard(ctx, card)
	if err != nil {
		return Notice{}, err
	}
	if outcome == library.AlreadySaved {
		return Notice{Message: NoticeAlreadySaved}, nil
	}
	return Notice{Message: NoticeSaved}, nil
}

// SaveCard stores card in the library. The shelf is refreshed when the
// library tab is showing.
func (c *Controller) SaveCard(ctx context.Context, card types.Card) (library.SaveOutcome, error) {
	outcome, err := c.deps.Library.Save(ctx, card)
	if err != nil {
		return 0, fmt.Errorf("saving card %s: %w", card.ID, err)
	}
	if outcome == library.Saved && c.nav.State().Tab == navigator.TabLibrary {
		c.refreshLibrary(ctx)
	}
	return outcome, nil
}

// Library reads the saved cards straight from the store.
func (c *Controller) Library(ctx context.Context) []types.Card {
	return c.deps.Library.List(ctx)
}

// Share hands card to the native share capability, falling back to the
// clipboard.
func (c *Controller) Share(ctx context.Context, card types.Card) Notice {
	p := SharePayloadFor(card, c.deps.PageURL)

	if c.deps.Sharer != nil {
		err := c.deps.Sharer.Share(ctx, p)
		if err == nil {
			return Notice{Message: NoticeShared, Share: &p}
		}
		c.log.Debug("native share failed", "id", card.ID, "err", err)
	}
	if c.deps.Clipboard != nil {
		err := c.deps.Clipboard.WriteAll(p.clipboardText())
		if err == nil {
			return Notice{Message: NoticeCopied, Share: &p}
		}
		c.log.Debug("clipboard copy failed", "id", card.ID, "err", err)
	}
	return Notice{Message: NoticeShareFailed}
}

// OpenLink resolves the external link of card and opens it when an Opener
// is configured.
func (c *Controller) OpenLink(card types.Card) Notice {
	if !card.HasLink() || browser.Validate(card.URL) != nil {
		return Notice{Message: NoticeNoLink}
	}
	if c.deps.Opener != nil {
		if err := c.deps.Opener(card.URL); err != nil {
			c.log.Warn("opening link", "url", card.URL, "err", err)
		}
	}
	return Notice{Link: card.URL}
}

// loadFeed assembles a feed for the current start topic. A load that is
// overtaken by a newer one is discarded.
func (c *Controller) loadFeed(ctx context.Context) {
	topic := c.deps.Catalog.TopicText(c.session.StartTopic())
	tok := c.session.BeginLoad()
	r := c.deps.Assembler.Assemble(ctx, topic)
	if !c.session.Commit(tok, r) {
		c.log.Debug("discarding stale feed", "topic", topic, "token", tok)
	}
}

func (c *Controller) refreshLibrary(ctx context.Context) {
	cards := c.deps.Library.List(ctx)
	c.mu.Lock()
	c.shelf = cards
	c.mu.Unlock()
}

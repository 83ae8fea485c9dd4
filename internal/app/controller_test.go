// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/study-scroller/internal/catalog"
	"github.com/pdiddy/study-scroller/internal/feed"
	"github.com/pdiddy/study-scroller/internal/library"
	"github.com/pdiddy/study-scroller/internal/navigator"
	"github.com/pdiddy/study-scroller/pkg/types"
)

// stubAssembler returns a fixed feed and records the topics it was asked for.
type stubAssembler struct {
	mu     sync.Mutex
	cards  []types.Card
	topics []string
}

func (s *stubAssembler) Assemble(_ context.Context, topic string) feed.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	return feed.Result{Cards: types.CloneCards(s.cards)}
}

func (s *stubAssembler) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.topics...)
}

type stubSharer struct {
	err error
	got []SharePayload
}

func (s *stubSharer) Share(_ context.Context, p SharePayload) error {
	s.got = append(s.got, p)
	return s.err
}

type stubClipboard struct {
	err  error
	text string
}

func (s *stubClipboard) WriteAll(text string) error {
	if s.err != nil {
		return s.err
	}
	s.text = text
	return nil
}

var testCards = []types.Card{
	{ID: "W1", Title: "Attention Is All You Need", Category: "NeurIPS", Tag: "Science Fact",
		Text: "We propose...", Year: "2017", URL: "https://doi.org/10.5555/3295222.3295349", Type: types.CardResearch},
	{ID: "set-1", Title: "Zoloft", Category: "Pharmacology", Tag: "Medication",
		Text: "Depression...", Year: "2023", Type: types.CardDrug},
}

func newController(t *testing.T, deps Deps) (*Controller, *stubAssembler) {
	t.Helper()
	asm := &stubAssembler{cards: testCards}
	if deps.Catalog == nil {
		deps.Catalog = catalog.MustLoad()
	}
	if deps.Assembler == nil {
		deps.Assembler = asm
	}
	if deps.Library == nil {
		store, err := library.Open(types.LibraryConfig{Backend: types.BackendBolt, DataDir: t.TempDir()}, nil)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		deps.Library = store
	}
	deps.Log = log.New(io.Discard)
	return New(deps), asm
}

func dispatch(t *testing.T, c *Controller, kind ActionKind, id, tab string) Notice {
	t.Helper()
	a, err := ParseAction(string(kind), id, tab)
	require.NoError(t, err)
	n, err := c.Dispatch(context.Background(), a)
	require.NoError(t, err)
	return n
}

func onboard(t *testing.T, c *Controller) {
	t.Helper()
	dispatch(t, c, ActionToggleInterest, "biases", "")
	dispatch(t, c, ActionNext, "", "")
	dispatch(t, c, ActionSelectTopic, "psychology", "")
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		kind, id, tab string
		wantErr       bool
	}{
		{"next", "", "", false},
		{"back", "", "", false},
		{"reload", "", "", false},
		{"save", " W1 ", "", false},
		{"save", "", "", true},
		{"toggle_interest", "", "", true},
		{"switch_tab", "", "library", false},
		{"switch_tab", "", "", true},
		{"dance", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		a, err := ParseAction(tt.kind, tt.id, tt.tab)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrBadAction), "ParseAction(%q, %q, %q)", tt.kind, tt.id, tt.tab)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, ActionKind(tt.kind), a.Kind)
	}

	a, err := ParseAction("save", " W1 ", "")
	require.NoError(t, err)
	assert.Equal(t, "W1", a.ID)
}

func TestOnboardingLoadsFeedForTopicText(t *testing.T) {
	c, asm := newController(t, Deps{})
	onboard(t, c)

	assert.True(t, c.Session().IsSelected("biases"))
	assert.Equal(t, navigator.ScreenFeed, c.Navigation().Active)
	assert.Equal(t, []string{"Psychology"}, asm.calls())
	assert.Len(t, c.Session().Current().Cards, 2)
}

func TestToggleInterest(t *testing.T) {
	c, _ := newController(t, Deps{})

	dispatch(t, c, ActionToggleInterest, "biases", "")
	assert.True(t, c.Session().IsSelected("biases"))
	dispatch(t, c, ActionToggleInterest, "biases", "")
	assert.False(t, c.Session().IsSelected("biases"))

	n := dispatch(t, c, ActionToggleInterest, "knitting", "")
	assert.Equal(t, NoticeUnknownInterest, n.Message)
	assert.False(t, c.Session().IsSelected("knitting"))
}

func TestSelectUnknownTopic(t *testing.T) {
	c, asm := newController(t, Deps{})
	_, err := c.Dispatch(context.Background(), Action{Kind: ActionSelectTopic, ID: "astrology"})
	assert.True(t, errors.Is(err, ErrUnknownTopic))
	assert.Empty(t, asm.calls())
	assert.Equal(t, navigator.ScreenInterests, c.Navigation().Active)
}

func TestBackDoesNotReload(t *testing.T) {
	c, asm := newController(t, Deps{})
	onboard(t, c)

	dispatch(t, c, ActionBack, "", "")
	assert.Equal(t, navigator.ScreenStart, c.Navigation().Active)
	dispatch(t, c, ActionBack, "", "")
	assert.Equal(t, navigator.ScreenInterests, c.Navigation().Active)
	assert.Len(t, asm.calls(), 1)

	dispatch(t, c, ActionNext, "", "")
	dispatch(t, c, ActionSelectTopic, "biology", "")
	assert.Equal(t, []string{"Psychology", "Biology"}, asm.calls())
}

func TestReload(t *testing.T) {
	c, asm := newController(t, Deps{})

	_, err := c.Dispatch(context.Background(), Action{Kind: ActionReload})
	assert.True(t, errors.Is(err, navigator.ErrNotOnboarded))

	onboard(t, c)
	dispatch(t, c, ActionReload, "", "")
	assert.Len(t, asm.calls(), 2)
	assert.Equal(t, uint64(2), c.Session().Current().Generation)
}

func TestSave(t *testing.T) {
	c, _ := newController(t, Deps{})
	onboard(t, c)

	n := dispatch(t, c, ActionSave, "W1", "")
	assert.Equal(t, NoticeSaved, n.Message)
	n = dispatch(t, c, ActionSave, "W1", "")
	assert.Equal(t, NoticeAlreadySaved, n.Message)
	n = dispatch(t, c, ActionSave, "missing", "")
	assert.Equal(t, NoticeNotFound, n.Message)

	assert.Empty(t, c.Shelf(), "shelf refreshes on entering the library tab")
	dispatch(t, c, ActionSwitchTab, "", "library")
	shelf := c.Shelf()
	require.Len(t, shelf, 1)
	assert.Equal(t, "Attention Is All You Need", shelf[0].Title)

	dispatch(t, c, ActionSwitchTab, "", "home")
	dispatch(t, c, ActionSave, "set-1", "")
	assert.Len(t, c.Shelf(), 1)
	dispatch(t, c, ActionSwitchTab, "", "library")
	assert.Len(t, c.Shelf(), 2)
}

func TestSaveWhileOnLibraryTabRefreshesShelf(t *testing.T) {
	c, _ := newController(t, Deps{})
	onboard(t, c)
	dispatch(t, c, ActionSwitchTab, "", "library")

	dispatch(t, c, ActionSave, "set-1", "")
	assert.Len(t, c.Shelf(), 1)
}

func TestSwitchTabBeforeOnboarding(t *testing.T) {
	c, _ := newController(t, Deps{})
	_, err := c.Dispatch(context.Background(), Action{Kind: ActionSwitchTab, Tab: "library"})
	assert.True(t, errors.Is(err, navigator.ErrNotOnboarded))

	onboard(t, c)
	_, err = c.Dispatch(context.Background(), Action{Kind: ActionSwitchTab, Tab: "settings"})
	assert.True(t, errors.Is(err, navigator.ErrUnknownTab))
}

func TestShare(t *testing.T) {
	t.Run("native", func(t *testing.T) {
		sharer := &stubSharer{}
		clip := &stubClipboard{}
		c, _ := newController(t, Deps{Sharer: sharer, Clipboard: clip, PageURL: "http://localhost:8080/"})
		onboard(t, c)

		n := dispatch(t, c, ActionShare, "W1", "")
		assert.Equal(t, NoticeShared, n.Message)
		require.Len(t, sharer.got, 1)
		assert.Equal(t, SharePayload{
			Title: "Attention Is All You Need",
			Text:  "Check this out!",
			URL:   "https://doi.org/10.5555/3295222.3295349",
		}, sharer.got[0])
		assert.Empty(t, clip.text)
	})

	t.Run("clipboard fallback", func(t *testing.T) {
		sharer := &stubSharer{err: ErrShareUnsupported}
		clip := &stubClipboard{}
		c, _ := newController(t, Deps{Sharer: sharer, Clipboard: clip, PageURL: "http://localhost:8080/"})
		onboard(t, c)

		n := dispatch(t, c, ActionShare, "set-1", "")
		assert.Equal(t, NoticeCopied, n.Message)
		assert.Equal(t, "Zoloft\nCheck this out!\nhttp://localhost:8080/", clip.text)
	})

	t.Run("unsupported", func(t *testing.T) {
		c, _ := newController(t, Deps{Clipboard: &stubClipboard{err: ErrShareUnsupported}})
		onboard(t, c)

		n := dispatch(t, c, ActionShare, "W1", "")
		assert.Equal(t, NoticeShareFailed, n.Message)
		assert.Nil(t, n.Share)
	})

	t.Run("unknown card", func(t *testing.T) {
		c, _ := newController(t, Deps{})
		onboard(t, c)
		n := dispatch(t, c, ActionShare, "nope", "")
		assert.Equal(t, NoticeNotFound, n.Message)
	})
}

func TestSharePayloadFor(t *testing.T) {
	p := SharePayloadFor(types.Card{Title: `The "Self" and 'Other'`}, "http://x/")
	assert.Equal(t, "The Self and Other", p.Title)
	assert.Equal(t, "http://x/", p.URL)

	p = SharePayloadFor(types.Card{URL: "null"}, "http://x/")
	assert.Equal(t, "StudyScroller", p.Title)
	assert.Equal(t, "http://x/", p.URL)
}

func TestOpenLink(t *testing.T) {
	var opened []string
	opener := func(u string) error {
		opened = append(opened, u)
		return nil
	}
	c, _ := newController(t, Deps{Opener: opener})
	onboard(t, c)

	n := dispatch(t, c, ActionOpenLink, "W1", "")
	assert.Equal(t, "https://doi.org/10.5555/3295222.3295349", n.Link)
	assert.Empty(t, n.Message)
	assert.Equal(t, []string{"https://doi.org/10.5555/3295222.3295349"}, opened)

	n = dispatch(t, c, ActionOpenLink, "set-1", "")
	assert.Equal(t, NoticeNoLink, n.Message)
	assert.Empty(t, n.Link)
	assert.Len(t, opened, 1)
}

func TestOpenLinkRejectsUnsafeScheme(t *testing.T) {
	asm := &stubAssembler{cards: []types.Card{{ID: "x", Title: "x", URL: "javascript:alert(1)"}}}
	called := false
	c, _ := newController(t, Deps{Assembler: asm, Opener: func(string) error { called = true; return nil }})
	onboard(t, c)

	n := dispatch(t, c, ActionOpenLink, "x", "")
	assert.Equal(t, NoticeNoLink, n.Message)
	assert.False(t, called)
}

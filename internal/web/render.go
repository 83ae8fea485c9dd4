// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"embed"
	"fmt"
	"hash/fnv"
	"html/template"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/pdiddy/study-scroller/internal/app"
	"github.com/pdiddy/study-scroller/internal/catalog"
	"github.com/pdiddy/study-scroller/internal/navigator"
	"github.com/pdiddy/study-scroller/pkg/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	funcs := template.FuncMap{
		"tabs": func() []string {
			return lo.Map(navigator.Tabs, func(t navigator.Tab, _ int) string { return string(t) })
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
	tmpl, err := template.New("page.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

func (p *pageRenderer) render(w io.Writer, v view) error {
	return p.tmpl.Execute(w, v)
}

// view is the data the page template renders.
type view struct {
	// Screens maps screen name to its state class.
	Screens map[string]string
	// Sections maps tab section id to its visibility.
	Sections map[string]bool
	Tab      string

	Interests  []chip
	Topics     []catalog.Topic
	StartTopic string
	Discover   []catalog.Interest

	Feed     []cardView
	Fallback bool
	Library  []cardView

	Notice    app.Notice
	RequestID string
}

type chip struct {
	ID       string
	Text     string
	Selected bool
}

type cardView struct {
	types.Card
	Angle  int
	Linked bool
}

func (s *Server) buildView(n app.Notice) view {
	nav := s.ctrl.Navigation()
	cat := s.ctrl.Catalog()
	session := s.ctrl.Session()
	current := session.Current()

	v := view{
		Screens:    make(map[string]string, len(navigator.Screens)),
		Sections:   make(map[string]bool, 3),
		Tab:        string(nav.Tab),
		Topics:     cat.StartTopics,
		StartTopic: cat.TopicText(session.StartTopic()),
		Discover:   cat.AllInterests(),
		Feed:       cardViews(current.Cards),
		Fallback:   current.Fallback,
		Library:    cardViews(s.ctrl.Shelf()),
		Notice:     n,
	}
	for _, screen := range navigator.Screens {
		v.Screens[string(screen)] = nav.ScreenClass(screen)
	}
	for section, visible := range nav.Sections() {
		v.Sections[string(section)] = visible
	}
	v.Interests = lo.Map(cat.AllInterests(), func(i catalog.Interest, _ int) chip {
		return chip{ID: i.ID, Text: i.Text, Selected: session.IsSelected(i.ID)}
	})
	return v
}

func cardViews(cards []types.Card) []cardView {
	return lo.Map(cards, func(c types.Card, _ int) cardView {
		return cardView{Card: c, Angle: gradientAngle(c.ID), Linked: c.HasLink()}
	})
}

// gradientAngle gives imageless cards a stable background angle in [0, 360).
func gradientAngle(id types.CardID) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % 360)
}

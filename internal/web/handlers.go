// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/study-scroller/internal/app"
	"github.com/pdiddy/study-scroller/internal/feed"
	"github.com/pdiddy/study-scroller/internal/library"
	"github.com/pdiddy/study-scroller/internal/navigator"
	"github.com/pdiddy/study-scroller/pkg/types"
)

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

// PageSharer is the share capability of the web page: the payload is handed
// back with the notice and rendered as a share panel in the browser.
type PageSharer struct{}

// Share always succeeds.
func (PageSharer) Share(context.Context, app.SharePayload) error { return nil }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.buildView(s.takeFlash())
	v.RequestID = RequestID(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.render(w, v); err != nil {
		s.log.Error("rendering page", "err", err, "id", v.RequestID)
	}
}

// handleAction applies a form-posted action and redirects back to the page,
// or to the external link for open-link actions.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := app.ParseAction(r.PostForm.Get("kind"), r.PostForm.Get("id"), r.PostForm.Get("tab"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := s.ctrl.Dispatch(r.Context(), a)
	if err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError {
			s.setFlash(app.Notice{Message: err.Error()})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.log.Error("dispatch failed", "kind", a.Kind, "err", err, "id", RequestID(r.Context()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if a.Kind == app.ActionOpenLink && n.Link != "" {
		http.Redirect(w, r, n.Link, http.StatusSeeOther)
		return
	}
	s.setFlash(n)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAPIAction is handleAction for JSON clients: it takes an Action body
// and answers with the notice.
func (s *Server) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	var body app.Action
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := app.ParseAction(string(body.Kind), body.ID, body.Tab)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	n, err := s.ctrl.Dispatch(r.Context(), a)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Notice     app.Notice      `json:"notice"`
		Navigation navigator.State `json:"navigation"`
	}{n, s.ctrl.Navigation()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Catalog())
}

// handleFeed returns the current feed along with the chosen topic and
// interests. With ?topic= it first selects that start topic, which
// assembles a fresh feed.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if topic := r.URL.Query().Get("topic"); topic != "" {
		if _, err := s.ctrl.Dispatch(r.Context(), app.Action{Kind: app.ActionSelectTopic, ID: topic}); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	session := s.ctrl.Session()
	writeJSON(w, http.StatusOK, feedResponse{
		Topic:     session.StartTopic(),
		Interests: session.SelectedInterests(),
		Result:    session.Current(),
	})
}

type feedResponse struct {
	Topic     string   `json:"topic"`
	Interests []string `json:"interests"`
	feed.Result
}

func (s *Server) handleLibraryList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Library(r.Context()))
}

// handleLibrarySave stores the card in the body. Ids may be strings or
// numbers; 42 and "42" are the same card.
func (s *Server) handleLibrarySave(w http.ResponseWriter, r *http.Request) {
	var card types.Card
	if err := decodeJSON(r, &card); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if card.ID == "" {
		writeError(w, http.StatusBadRequest, errors.New("card id is required"))
		return
	}
	outcome, err := s.ctrl.SaveCard(r.Context(), card)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusCreated
	if outcome == library.AlreadySaved {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]string{"status": outcome.String()})
}

// statusFor maps controller errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrBadAction),
		errors.Is(err, app.ErrUnknownTopic),
		errors.Is(err, navigator.ErrUnknownTab),
		errors.Is(err, navigator.ErrUnknownScreen):
		return http.StatusBadRequest
	case errors.Is(err, navigator.ErrNotOnboarded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

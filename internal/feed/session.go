// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// Token identifies one feed load. A load may only commit while its token is
// the latest one issued.
type Token uint64

// Session owns the transient per-session state: the selected interests,
// the chosen start topic, and the current feed snapshot. It is safe for
// concurrent use.
type Session struct {
	mu         sync.Mutex
	interests  map[string]struct{}
	startTopic string
	issued     uint64
	current    Result
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{interests: make(map[string]struct{})}
}

// ToggleInterest flips the selection of an interest and reports whether it
// is selected afterwards.
func (s *Session) ToggleInterest(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interests[id]; ok {
		delete(s.interests, id)
		return false
	}
	s.interests[id] = struct{}{}
	return true
}

// IsSelected reports whether the interest is selected.
func (s *Session) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.interests[id]
	return ok
}

// SelectedInterests returns the selected interest ids in sorted order.
func (s *Session) SelectedInterests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := lo.Keys(s.interests)
	sort.Strings(ids)
	return ids
}

// SetStartTopic records the chosen start topic id.
func (s *Session) SetStartTopic(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTopic = id
}

// StartTopic returns the chosen start topic id, or "" before one is chosen.
func (s *Session) StartTopic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTopic
}

// BeginLoad issues a token for a new feed load and makes every earlier
// token stale.
func (s *Session) BeginLoad() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Token(s.issued)
}

// Commit installs r as the current feed if tok is still the latest token.
// It reports false, leaving the snapshot untouched, for stale completions.
func (s *Session) Commit(tok Token, r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(tok) != s.issued {
		return false
	}
	r.Cards = types.CloneCards(r.Cards)
	r.Generation = uint64(tok)
	s.current = r
	return true
}

// Current returns a copy of the current feed snapshot.
func (s *Session) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.current
	r.Cards = types.CloneCards(r.Cards)
	return r
}

// Lookup finds a card in the current snapshot by id.
func (s *Session) Lookup(id types.CardID) (types.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.current.Cards, func(c types.Card) bool { return c.ID == id })
}

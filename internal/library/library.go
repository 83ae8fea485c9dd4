// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the cards a user saves. The whole library lives
// in one named slot of a durable key-value store as a JSON array, appended
// to on save and de-duplicated by card id.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// Slot is a durable key-value store holding opaque values.
type Slot interface {
	// Get returns the value stored under key; ok is false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown library backend")

// SaveOutcome reports what Save did.
type SaveOutcome int

const (
	Saved SaveOutcome = iota + 1
	AlreadySaved
)

func (o SaveOutcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case AlreadySaved:
		return "already_saved"
	default:
		return "unknown"
	}
}

// Store is the library. Saves within one process are serialized; across
// processes the last write wins.
type Store struct {
	mu   sync.Mutex
	slot Slot
	key  string
	log  *log.Logger
}

// NewStore returns a library kept under key in slot.
func NewStore(slot Slot, key string, lg *log.Logger) *Store {
	if key == "" {
		key = types.DefaultSlot
	}
	return &Store{slot: slot, key: key, log: lg}
}

// Open creates the slot backend named by cfg and wraps it in a Store.
func Open(cfg types.LibraryConfig, lg *log.Logger) (*Store, error) {
	cfg = cfg.WithDefaults()

	var (
		slot Slot
		err  error
	)
	switch cfg.Backend {
	case types.BackendSQLite:
		slot, err = NewSQLiteSlot(cfg.DataDir)
	case types.BackendBolt:
		slot, err = NewBoltSlot(cfg.DataDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(slot, cfg.Slot, lg), nil
}

// Close releases the underlying slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

// Save appends a copy of card unless a card with the same id is already in
// the library, and persists the full list.
func (s *Store) Save(ctx context.Context, card types.Card) (SaveOutcome, error) {
	if card.ID == "" {
		return 0, fmt.Errorf("saving card: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.read(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading library: %w", err)
	}
	if lo.ContainsBy(cards, func(c types.Card) bool { return c.ID == card.ID }) {
		return AlreadySaved, nil
	}

	cards = append(cards, card.Clone())
	data, err := json.Marshal(cards)
	if err != nil {
		return 0, fmt.Errorf("marshaling library: %w", err)
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		return 0, fmt.Errorf("persisting library: %w", err)
	}
	return Saved, nil
}

// List returns the saved cards in insertion order. A missing, unreadable,
// or corrupt slot reads as an empty library.
func (s *Store) List(ctx context.Context) []types.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) []types.Card {
	cards, err := s.read(ctx)
	if err != nil {
		s.warn("reading library failed, treating as empty", err)
		return []types.Card{}
	}
	return cards
}

// read returns the stored cards. Slot errors are returned so a save never
// overwrites a library it could not read; a missing or corrupt value reads
// as empty.
func (s *Store) read(ctx context.Context) ([]types.Card, error) {
	data, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok || len(data) == 0 {
		return []types.Card{}, nil
	}

	var cards []types.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		s.warn("library is corrupt, treating as empty", err)
		return []types.Card{}, nil
	}
	if cards == nil {
		cards = []types.Card{}
	}
	return cards, nil
}

func (s *Store) warn(msg string, err error) {
	if s.log != nil {
		s.log.Warn(msg, "slot", s.key, "err", err)
	}
}

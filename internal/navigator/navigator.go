// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package navigator tracks which onboarding screen is active and which tab
// is shown once the feed is reached. Entering the feed screen and the
// library tab fire hooks; nothing else has side effects.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Screen is an onboarding screen.
type Screen string

const (
	ScreenInterests Screen = "interests"
	ScreenStart     Screen = "start"
	ScreenFeed      Screen = "feed"
)

// Tab is a post-onboarding tab.
type Tab string

const (
	TabHome     Tab = "home"
	TabDiscover Tab = "discover"
	TabLibrary  Tab = "library"
)

// Screens and Tabs list the valid names in display order.
var (
	Screens = []Screen{ScreenInterests, ScreenStart, ScreenFeed}
	Tabs    = []Tab{TabHome, TabDiscover, TabLibrary}
)

var (
	ErrUnknownScreen = errors.New("unknown screen")
	ErrUnknownTab    = errors.New("unknown tab")
	ErrNotOnboarded  = errors.New("tabs are only available on the feed screen")
)

// ParseScreen validates a screen name.
func ParseScreen(name string) (Screen, error) {
	for _, s := range Screens {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, name)
}

// Hooks are invoked synchronously after a transition, outside the
// navigator's lock. Either may be nil.
type Hooks struct {
	EnterFeed    func(ctx context.Context)
	EnterLibrary func(ctx context.Context)
}

// State is a snapshot of the navigation state.
type State struct {
	Active Screen `json:"active"`
	// Prev is the screen most recently left, or "" at start.
	Prev Screen `json:"prev,omitempty"`
	Tab  Tab    `json:"tab"`
}

// ScreenClass returns the CSS state class of a screen: "active", "prev",
// or "".
func (s State) ScreenClass(screen Screen) string {
	switch screen {
	case s.Active:
		return "active"
	case s.Prev:
		return "prev"
	default:
		return ""
	}
}

// Section names the post-onboarding page sections toggled by the tab bar.
type Section string

const (
	SectionFeed     Section = "main-feed"
	SectionDiscover Section = "section-discover"
	SectionLibrary  Section = "section-library"
)

// Sections returns the display state of each tab section. Exactly one is
// visible once the feed screen is active; none before.
func (s State) Sections() map[Section]bool {
	onFeed := s.Active == ScreenFeed
	return map[Section]bool{
		SectionFeed:     onFeed && s.Tab == TabHome,
		SectionDiscover: onFeed && s.Tab == TabDiscover,
		SectionLibrary:  onFeed && s.Tab == TabLibrary,
	}
}

// Navigator is safe for concurrent use.
type Navigator struct {
	mu    sync.Mutex
	state State
	hooks Hooks
}

// New returns a navigator on the interests screen with the home tab.
func New(hooks Hooks) *Navigator {
	return &Navigator{
		state: State{Active: ScreenInterests, Tab: TabHome},
		hooks: hooks,
	}
}

// State returns the current navigation state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// GoTo makes screen the active screen. Entering the feed resets the tab to
// home and fires EnterFeed, even when the feed was already active.
func (n *Navigator) GoTo(ctx context.Context, screen Screen) error {
	if _, err := ParseScreen(string(screen)); err != nil {
		return err
	}

	n.mu.Lock()
	n.move(screen)
	var hook func(context.Context)
	if screen == ScreenFeed {
		n.state.Tab = TabHome
		hook = n.hooks.EnterFeed
	}
	n.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	return nil
}

// Back returns to the previous onboarding step (feed → start →
// interests). It never fires hooks, so going back does not refetch.
func (n *Navigator) Back() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch n.state.Active {
	case ScreenFeed:
		n.move(ScreenStart)
	case ScreenStart:
		n.move(ScreenInterests)
	}
	return n.state
}

// SwitchTab shows tab. Only valid once the feed screen is active. Entering
// the library tab fires EnterLibrary so the list is re-read.
func (n *Navigator) SwitchTab(ctx context.Context, tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}

	n.mu.Lock()
	if n.state.Active != ScreenFeed {
		n.mu.Unlock()
		return ErrNotOnboarded
	}
	n.state.Tab = tab
	var hook func(context.Context)
	if tab == TabLibrary {
		hook = n.hooks.EnterLibrary
	}
	n.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	return nil
}

func (n *Navigator) move(to Screen) {
	if n.state.Active != to {
		n.state.Prev = n.state.Active
	}
	n.state.Active = to
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// ErrShareUnsupported is returned by a capability that is unavailable on
// the current platform.
var ErrShareUnsupported = errors.New("share not supported")

const (
	shareText         = "Check this out!"
	defaultShareTitle = "StudyScroller"
)

// SharePayload is what gets shared for a card.
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Sharer is a native share capability.
type Sharer interface {
	Share(ctx context.Context, p SharePayload) error
}

// Clipboard is the fallback used when no Sharer is available.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the clipboard, or returns ErrShareUnsupported when
// the platform has no clipboard utility.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrShareUnsupported
	}
	return clipboard.WriteAll(text)
}

// SharePayloadFor builds the payload for card. Quotes are stripped from the
// title; cards without a title share under the app name. Cards without a
// link share pageURL instead.
func SharePayloadFor(card types.Card, pageURL string) SharePayload {
	title := strings.NewReplacer("'", "", `"`, "").Replace(strings.TrimSpace(card.Title))
	if title == "" {
		title = defaultShareTitle
	}
	u := pageURL
	if card.HasLink() {
		u = card.URL
	}
	return SharePayload{Title: title, Text: shareText, URL: u}
}

// clipboardText is what the clipboard fallback copies.
func (p SharePayload) clipboardText() string {
	parts := []string{p.Title, p.Text}
	if p.URL != "" {
		parts = append(parts, p.URL)
	}
	return strings.Join(parts, "\n")
}

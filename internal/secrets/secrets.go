// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets/"

// OpenAlexEmail is the contact address sent to OpenAlex for polite pool
// access.
const OpenAlexEmail = "openalex-email"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Get returns the secret named key, or "".
func (s Secrets) Get(key string) string {
	return s[key]
}

// Or returns explicit when it is set, otherwise the secret named key.
func (s Secrets) Or(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s.Get(key)
}

// Keys returns the loaded key names in no particular order.
func (s Secrets) Keys() []string {
	return lo.Keys(s)
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged at warn level and
// skipped. lg may be nil.
func Load(dir string, lg *log.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if lg != nil {
				lg.Warn("could not read secret", "name", name, "err", err)
			}
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

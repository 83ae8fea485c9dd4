// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ErrUnsupportedFormat is returned by Export for formats other than yaml
// and json.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Export writes the whole library to w as YAML or JSON.
func (s *Store) Export(ctx context.Context, format string, w io.Writer) error {
	cards := s.List(ctx)

	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(cards)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cards); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q: use yaml or json", ErrUnsupportedFormat, format)
	}
}

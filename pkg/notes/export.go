package notes

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes the collection, in display order, to w.
func (s *Store) Export(w io.Writer, format string) error {
	notes := s.List()

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(notes)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(notes); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

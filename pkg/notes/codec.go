package notes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/simplelog/pkg/core"
)

// storedNote accepts both field spellings found in existing stores:
// created/updated and the older createdAt/updatedAt.
type storedNote struct {
	core.Note
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Encode serializes the collection as a single JSON array.
func Encode(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of notes. Legacy timestamp fields are mapped
// onto created/updated and updated is never earlier than created.
func Decode(data []byte) ([]core.Note, error) {
	var raw []storedNote
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]core.Note, 0, len(raw))
	for _, r := range raw {
		n := r.Note
		if n.Created.IsZero() && r.CreatedAt != nil {
			n.Created = *r.CreatedAt
		}
		if n.Updated.IsZero() && r.UpdatedAt != nil {
			n.Updated = *r.UpdatedAt
		}
		if n.Updated.Before(n.Created) {
			n.Updated = n.Created
		}
		notes = append(notes, n)
	}
	return notes, nil
}

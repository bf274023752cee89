package notes_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
)

func TestCodec_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 123456789, time.UTC)
	in := []core.Note{
		{ID: "a", Title: "T", Content: "first\nsecond", Created: created, Updated: created.Add(time.Minute)},
		{ID: "b", Content: "no title", Created: created, Updated: created},
	}

	data, err := notes.Encode(in)
	require.NoError(t, err)
	out, err := notes.Decode(data)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Content, out[i].Content)
		assert.True(t, in[i].Created.Equal(out[i].Created), "created %d", i)
		assert.True(t, in[i].Updated.Equal(out[i].Updated), "updated %d", i)
	}
}

func TestCodec_EmptyIsArray(t *testing.T) {
	data, err := notes.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCodec_LegacyFields(t *testing.T) {
	blob := `[{"id":"_abc123xyz","content":"Buy milk","createdAt":"2025-06-01T10:00:00.000Z","updatedAt":"2025-06-02T10:00:00.000Z"}]`

	out, err := notes.Decode([]byte(blob))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2025, out[0].Created.Year())
	assert.Equal(t, 2, out[0].Updated.Day())
}

func TestCodec_UpdatedNeverBeforeCreated(t *testing.T) {
	blob := `[{"id":"a","content":"x","created":"2025-06-02T00:00:00Z","updated":"2025-06-01T00:00:00Z"}]`

	out, err := notes.Decode([]byte(blob))
	require.NoError(t, err)
	assert.Equal(t, out[0].Created, out[0].Updated)
}

func TestCodec_Malformed(t *testing.T) {
	_, err := notes.Decode([]byte(`{"id":"a"}`))
	assert.Error(t, err)
}

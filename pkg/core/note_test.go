package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/simplelog/pkg/core"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first line only", "Buy milk\nAlso eggs", "Buy milk"},
		{"single line", "hello", "hello"},
		{"windows newline", "Buy milk\r\nAlso eggs", "Buy milk"},
		{"exactly fifty", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"truncated", strings.Repeat("b", 60), strings.Repeat("b", 50) + "..."},
		{"multibyte", strings.Repeat("é", 51), strings.Repeat("é", 50) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.DeriveTitle(tt.content))
		})
	}
}

func TestNote_DisplayTitle(t *testing.T) {
	n := core.Note{Title: "Groceries", Content: "Buy milk"}
	assert.Equal(t, "Groceries", n.DisplayTitle())

	n.Title = "   "
	assert.Equal(t, "Buy milk", n.DisplayTitle())
}

func TestResponse_Clone(t *testing.T) {
	orig := &core.Response{URL: "/", Status: 200, Body: []byte("hi")}
	orig.Header = map[string][]string{"Content-Type": {"text/html"}}

	c := orig.Clone()
	c.Body[0] = 'X'
	c.Header.Set("Content-Type", "text/plain")

	assert.Equal(t, "hi", string(orig.Body))
	assert.Equal(t, "text/html", orig.Header.Get("Content-Type"))
	assert.True(t, c.OK())

	var nilResp *core.Response
	assert.False(t, nilResp.OK())
	assert.Nil(t, nilResp.Clone())
}

// Package core holds the domain types and storage ports of simplelog.
package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TitlePreviewLength is the number of characters kept when a title is
// derived from the first line of a note's content.
const TitlePreviewLength = 50

// Note is the sole persisted entity: a user-authored text record.
type Note struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title,omitempty" yaml:"title,omitempty"`
	Content string    `json:"content" yaml:"content"`
	Created time.Time `json:"created" yaml:"created"`
	Updated time.Time `json:"updated" yaml:"updated"`
}

// DisplayTitle returns the explicit title, or the first line of the content
// truncated to TitlePreviewLength characters with "..." when cut.
func (n Note) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return DeriveTitle(n.Content)
}

// DeriveTitle builds a preview title from content.
func DeriveTitle(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	line = strings.TrimSuffix(line, "\r")
	return Truncate(line, TitlePreviewLength)
}

// Truncate cuts s to max runes and appends "..." if anything was removed.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StreamPrompter asks on an output stream and reads answers line by line.
type StreamPrompter struct {
	in  *bufio.Reader
	out io.Writer

	// AssumeYes answers every confirmation with yes without reading input.
	AssumeYes bool
}

// NewStreamPrompter creates a prompter over in/out.
func NewStreamPrompter(in io.Reader, out io.Writer) *StreamPrompter {
	return &StreamPrompter{in: bufio.NewReader(in), out: out}
}

// Alert implements Prompter.
func (p *StreamPrompter) Alert(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Confirm implements Prompter. Anything but y/yes is a decline, EOF included.
func (p *StreamPrompter) Confirm(msg string) bool {
	if p.AssumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", msg)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

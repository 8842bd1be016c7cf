package display

import (
	"fmt"
	"io"
	"sync"
)

// Columns is the width of a line on the status panel.
const Columns = 16

// Display renders the two-line gate status.
type Display interface {
	Render(line1, line2 string) error
}

// Console is a Display that prints frames to a writer, as a stand-in for
// the OLED panel on headless setups. Lines are cut to Columns characters
// and a frame identical to the previous one is not printed again.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	last  [2]string
	drawn bool
}

// NewConsole creates a console display writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Render(line1, line2 string) error {
	frame := [2]string{truncate(line1), truncate(line2)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drawn && frame == c.last {
		return nil
	}
	if _, err := fmt.Fprintf(c.w, "[display] %-*s | %s\n", Columns, frame[0], frame[1]); err != nil {
		return fmt.Errorf("render status: %w", err)
	}
	c.last = frame
	c.drawn = true
	return nil
}

// Lines returns the last rendered frame.
func (c *Console) Lines() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last[0], c.last[1]
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > Columns {
		return string(r[:Columns])
	}
	return s
}

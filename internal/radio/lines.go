package radio

import (
	"bufio"
	"context"
	"io"

	"github.com/cjeanneret/GateGo/internal/debug"
)

// Lines is a Transport reading one payload per line from any reader.
// It stands in for the modem in mock mode (commands typed on stdin).
type Lines struct {
	r io.Reader
}

// NewLines creates a line transport over r.
func NewLines(r io.Reader) *Lines {
	return &Lines{r: r}
}

func (l *Lines) Open() error {
	if l.r == nil {
		return ErrNotOpen
	}
	return nil
}

// Listen delivers lines until the reader is exhausted or ctx is cancelled.
// A reader blocked in Read is left behind on cancellation.
func (l *Lines) Listen(ctx context.Context, h Handler) error {
	if l.r == nil {
		return ErrNotOpen
	}
	lines := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			select {
			case lines <- append([]byte(nil), scanner.Bytes()...):
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case p := <-lines:
			f, ok := ParseFrame(string(p))
			if !ok {
				continue
			}
			debug.Frame(f.Payload)
			h(f.Payload)
		}
	}
}

func (l *Lines) Close() error {
	if c, ok := l.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

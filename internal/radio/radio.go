// Package radio delivers command payloads received over the LoRa link.
//
// A Transport is opened once at startup; a failure there is fatal for the
// gate. Listen then calls the handler for every received payload, from the
// transport's own goroutine. Handlers must return quickly.
package radio

import (
	"context"
	"errors"
)

// ErrNotOpen is returned by Listen when Open has not succeeded.
var ErrNotOpen = errors.New("radio transport not open")

// Handler receives one decoded payload. The slice is only valid for the
// duration of the call.
type Handler func(payload []byte)

// Transport is a source of radio payloads.
type Transport interface {
	Open() error
	Listen(ctx context.Context, h Handler) error
	Close() error
}

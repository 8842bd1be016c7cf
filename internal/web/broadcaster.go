package web

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// StatusEvent is a single message pushed to SSE and websocket clients.
// Log lines carry Msg; gate status changes carry Status with level "status".
type StatusEvent struct {
	Time   string      `json:"t"`
	Level  string      `json:"l,omitempty"`
	Msg    string      `json:"msg,omitempty"`
	Status *StatusView `json:"status,omitempty"`
}

// StatusBroadcaster distributes events to multiple SSE and websocket clients.
type StatusBroadcaster struct {
	mu      sync.RWMutex
	clients map[chan string]bool // value: status events only
}

// NewStatusBroadcaster creates a new broadcaster.
func NewStatusBroadcaster() *StatusBroadcaster {
	return &StatusBroadcaster{
		clients: make(map[chan string]bool),
	}
}

// Subscribe returns a channel that receives every broadcast event and a cleanup function.
// The caller must call the returned cleanup when done (e.g. on client disconnect).
func (b *StatusBroadcaster) Subscribe() (<-chan string, func()) {
	return b.subscribe(false)
}

// SubscribeStatus is like Subscribe but only delivers gate status changes.
func (b *StatusBroadcaster) SubscribeStatus() (<-chan string, func()) {
	return b.subscribe(true)
}

func (b *StatusBroadcaster) subscribe(statusOnly bool) (<-chan string, func()) {
	ch := make(chan string, 64)
	b.mu.Lock()
	b.clients[ch] = statusOnly
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.clients, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}

// Broadcast sends a log message to all subscribed clients.
// Messages are sent as JSON: {"t":"...","l":"info","msg":"..."}
// Slow clients may miss messages (non-blocking, buffered).
func (b *StatusBroadcaster) Broadcast(level, msg string) {
	b.publish(StatusEvent{Level: level, Msg: msg}, false)
}

// BroadcastMsg is a convenience for level "info".
func (b *StatusBroadcaster) BroadcastMsg(msg string) {
	b.Broadcast("info", msg)
}

// BroadcastStatus sends a gate status change to every client.
func (b *StatusBroadcaster) BroadcastStatus(v StatusView) {
	b.publish(StatusEvent{Level: "status", Status: &v}, true)
}

func (b *StatusBroadcaster) publish(evt StatusEvent, isStatus bool) {
	evt.Time = time.Now().Format(time.RFC3339)
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	payload := string(data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, statusOnly := range b.clients {
		if statusOnly && !isStatus {
			continue
		}
		select {
		case ch <- payload:
		default:
			// channel full, skip
		}
	}
}

// BroadcastWriter implements io.Writer; each Write broadcasts the content to SSE clients.
func BroadcastWriter(b *StatusBroadcaster) *broadcastWriter {
	return &broadcastWriter{b: b}
}

// broadcastWriter wraps StatusBroadcaster as io.Writer for use with debug.SetOutput.
type broadcastWriter struct {
	b *StatusBroadcaster
}

func (w *broadcastWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		w.b.BroadcastMsg(msg)
	}
	return len(p), nil
}

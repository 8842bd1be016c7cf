package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/cjeanneret/GateGo/internal/logic/gate"
)

const (
	// maxCommandBytes bounds the body of POST /command.
	maxCommandBytes = 1024

	// Commands from all web clients share one limiter.
	commandsPerSecond = 5
	commandBurst      = 5
)

// Gate is the part of the controller exposed over HTTP.
type Gate interface {
	Snapshot() gate.Snapshot
	OnReceive(payload []byte)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Gate        Gate
	staticFS    fs.FS
	limiter     *rate.Limiter
}

// NewHandlers creates handlers with the given dependencies.
func NewHandlers(broadcaster *StatusBroadcaster, g Gate, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Gate:        g,
		staticFS:    staticFS,
		limiter:     rate.NewLimiter(rate.Limit(commandsPerSecond), commandBurst),
	}
}

// Origin checking is left to gorilla's same-host default: a foreign page
// must not be able to open the gate through a visitor's browser.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleStatus returns the current gate snapshot as JSON.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewStatusView(h.Gate.Snapshot()))
}

// ValidateCommand checks that a requested command is one the radio would accept.
func ValidateCommand(req CommandRequest) error {
	if _, ok := gate.Decode([]byte(req.Command)); !ok {
		return fmt.Errorf("unknown command %q", req.Command)
	}
	return nil
}

// HandleCommand handles POST /command. The command takes the same path as a
// radio payload, so it only lands in the mailbox; the loop applies it.
func (h *Handlers) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCommandBytes)
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidateCommand(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.Gate.Snapshot().Halted {
		http.Error(w, "gate controller halted", http.StatusServiceUnavailable)
		return
	}
	if !h.limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	debug.Verbose("Web: command %s from %s", req.Command, r.RemoteAddr)
	h.Gate.OnReceive([]byte(req.Command))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted", "command": req.Command})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// HandleSocket handles GET /ws: the current status is pushed on connect and
// after every change; {"command":"CMD_OPEN"} messages are fed to the gate.
func (h *Handlers) HandleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Verbose("Web: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ch, unsub := h.Broadcaster.SubscribeStatus()
	defer unsub()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read and process incoming messages
	go func() {
		defer cancel()
		for {
			var msg CommandRequest
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if err := ValidateCommand(msg); err != nil {
				debug.Verbose("Web: websocket: %v", err)
				continue
			}
			if !h.limiter.Allow() {
				debug.Verbose("Web: websocket command %s dropped, rate limit exceeded", msg.Command)
				continue
			}
			debug.Verbose("Web: command %s over websocket", msg.Command)
			h.Gate.OnReceive([]byte(msg.Command))
		}
	}()

	view := NewStatusView(h.Gate.Snapshot())
	if err := conn.WriteJSON(StatusEvent{Time: time.Now().Format(time.RFC3339), Level: "status", Status: &view}); err != nil {
		return
	}

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

package web

import "github.com/cjeanneret/GateGo/internal/logic/gate"

// StatusView is the JSON shape of a gate snapshot.
type StatusView struct {
	State    string `json:"state"`
	Position int    `json:"position"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Color    string `json:"color"`
	Halted   bool   `json:"halted"`
	Cause    string `json:"cause,omitempty"`
}

// NewStatusView converts a controller snapshot.
func NewStatusView(s gate.Snapshot) StatusView {
	return StatusView{
		State:    s.State.String(),
		Position: s.Position,
		Line1:    s.Status.Line1,
		Line2:    s.Status.Line2,
		Color:    s.Status.Color.String(),
		Halted:   s.Halted,
		Cause:    s.Cause,
	}
}

// CommandRequest is the body of POST /command and of websocket messages.
type CommandRequest struct {
	Command string `json:"command"`
}

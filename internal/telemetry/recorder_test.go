package telemetry

import (
	"testing"
	"time"

	"github.com/cjeanneret/GateGo/internal/logic/gate"
)

type recordingWriter struct {
	points []Point
	closed bool
}

func (w *recordingWriter) Write(p Point) { w.points = append(w.points, p) }
func (w *recordingWriter) Close()        { w.closed = true }

func TestRecorder_Observe(t *testing.T) {
	w := &recordingWriter{}
	r := NewRecorder(w)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return at }

	r.Observe(gate.Snapshot{State: gate.Opening, Position: 37, Status: gate.Present(gate.Opening, 37)})

	if len(w.points) != 1 {
		t.Fatalf("got %d points, want 1", len(w.points))
	}
	p := w.points[0]
	if p.Measurement != "gate.status" || !p.Time.Equal(at) {
		t.Errorf("point = %+v", p)
	}
	if p.Tags["state"] != "opening" {
		t.Errorf("state tag = %q, want opening", p.Tags["state"])
	}
	if p.Fields["position"] != 37 || p.Fields["color"] != "green" || p.Fields["halted"] != false {
		t.Errorf("fields = %v", p.Fields)
	}
	if _, ok := p.Fields["cause"]; ok {
		t.Error("cause field should be absent while running")
	}
}

func TestRecorder_ObserveHalt(t *testing.T) {
	w := &recordingWriter{}
	r := NewRecorder(w)

	r.Observe(gate.Snapshot{Status: gate.HaltStatus(), Halted: true, Cause: "radio init failed"})

	p := w.points[0]
	if p.Tags["state"] != "halted" {
		t.Errorf("state tag = %q, want halted", p.Tags["state"])
	}
	if p.Fields["cause"] != "radio init failed" || p.Fields["color"] != "red" {
		t.Errorf("fields = %v", p.Fields)
	}
}

func TestRecorder_FollowsController(t *testing.T) {
	w := &recordingWriter{}
	r := NewRecorder(w)

	ctrl := gate.NewController(nopActuator{}, nopIndicator{}, nopDisplay{}, gate.Config{StepInterval: 20 * time.Millisecond})
	ctrl.OnStatus(r.Observe)

	t0 := time.Unix(0, 0)
	ctrl.Start(t0)
	ctrl.Tick(t0.Add(10 * time.Millisecond)) // unchanged, no point
	ctrl.OnReceive([]byte("CMD_OPEN"))
	ctrl.Tick(t0.Add(20 * time.Millisecond))

	if len(w.points) != 2 {
		t.Fatalf("got %d points, want 2 (start, first step)", len(w.points))
	}
	if w.points[0].Tags["state"] != "closed" || w.points[1].Tags["state"] != "opening" {
		t.Errorf("states = %q, %q", w.points[0].Tags["state"], w.points[1].Tags["state"])
	}
	if w.points[1].Fields["position"] != 1 {
		t.Errorf("position = %v, want 1", w.points[1].Fields["position"])
	}

	r.Close()
	if !w.closed {
		t.Error("Close should close the writer")
	}
}

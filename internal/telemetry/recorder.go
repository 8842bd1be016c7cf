// Package telemetry records gate status changes as time-series points.
package telemetry

import (
	"time"

	"github.com/cjeanneret/GateGo/internal/logic/gate"
)

// Measurement is the name of the point written for each status change.
const Measurement = "gate.status"

// Point is one sample handed to a Writer.
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Time        time.Time
}

// Writer sends points to a time-series store. Write must not block.
type Writer interface {
	Write(p Point)
	Close()
}

// Recorder turns controller snapshots into points.
type Recorder struct {
	w   Writer
	now func() time.Time
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w Writer) *Recorder {
	return &Recorder{w: w, now: time.Now}
}

// Observe records s. It is meant to be registered with Controller.OnStatus.
func (r *Recorder) Observe(s gate.Snapshot) {
	state := s.State.String()
	if s.Halted {
		state = "halted"
	}
	fields := map[string]interface{}{
		"position": s.Position,
		"color":    s.Status.Color.String(),
		"halted":   s.Halted,
	}
	if s.Cause != "" {
		fields["cause"] = s.Cause
	}
	r.w.Write(Point{
		Measurement: Measurement,
		Tags:        map[string]string{"state": state},
		Fields:      fields,
		Time:        r.now(),
	})
}

// Close flushes and releases the writer.
func (r *Recorder) Close() {
	r.w.Close()
}

package motion

import "time"

// Travel limits of the actuator, in degrees.
const (
	MinPosition = 0
	MaxPosition = 180
)

// DefaultStepInterval gives one degree per 20 ms, a full sweep in ~3.6 s.
const DefaultStepInterval = 20 * time.Millisecond

// Direction tells the pacer which way the actuator is travelling.
type Direction int

const (
	Hold Direction = iota
	Up             // towards MaxPosition
	Down           // towards MinPosition
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "hold"
	}
}

// Pacer limits actuator motion to one degree per step interval.
// It sits between the gate logic (which decides a direction) and the
// servo (which only knows absolute angles). Not safe for concurrent use:
// it belongs to the control loop.
type Pacer struct {
	interval time.Duration
	last     time.Time
}

// NewPacer creates a pacer. interval <= 0 uses DefaultStepInterval.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultStepInterval
	}
	return &Pacer{interval: interval}
}

// Interval returns the minimum time between two steps.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Reset stamps now as the time of the last step.
func (p *Pacer) Reset(now time.Time) {
	p.last = now
}

// LastMove returns the time of the last step.
func (p *Pacer) LastMove() time.Time {
	return p.last
}

// Advance moves pos by one degree in dir if at least one interval has
// elapsed since the last step and the travel limit is not reached yet.
// It returns the new position and whether a step was taken.
func (p *Pacer) Advance(dir Direction, pos int, now time.Time) (int, bool) {
	pos = Clamp(pos)
	if dir == Hold || AtLimit(dir, pos) {
		return pos, false
	}
	if now.Sub(p.last) < p.interval {
		return pos, false
	}

	if dir == Up {
		pos++
	} else {
		pos--
	}
	p.last = now
	return pos, true
}

// AtLimit reports whether pos is at the end of travel for dir.
func AtLimit(dir Direction, pos int) bool {
	switch dir {
	case Up:
		return pos >= MaxPosition
	case Down:
		return pos <= MinPosition
	default:
		return false
	}
}

// Clamp bounds pos to the travel limits.
func Clamp(pos int) int {
	if pos < MinPosition {
		return MinPosition
	}
	if pos > MaxPosition {
		return MaxPosition
	}
	return pos
}

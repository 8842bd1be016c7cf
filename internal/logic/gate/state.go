package gate

import "github.com/cjeanneret/GateGo/internal/logic/motion"

// MotionState is the gate's high-level mode.
type MotionState int

const (
	Closed MotionState = iota
	Opening
	Closing
	Stopped
	Opened
)

func (s MotionState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	case Stopped:
		return "stopped"
	case Opened:
		return "open"
	default:
		return "unknown"
	}
}

// Moving reports whether the actuator travels in this state.
func (s MotionState) Moving() bool {
	return s == Opening || s == Closing
}

// direction is the pacer direction for s.
func (s MotionState) direction() motion.Direction {
	switch s {
	case Opening:
		return motion.Up
	case Closing:
		return motion.Down
	default:
		return motion.Hold
	}
}

// Apply returns the state reached from s when cmd is received.
//
//	         Open     Stop     Close
//	Closed   Opening  -        -
//	Opening  -        Stopped  Closing
//	Stopped  Opening  -        Closing
//	Closing  -        Stopped  -
//	Open     -        -        Closing
//
// Open does not interrupt a closing gate; Stop it first.
func Apply(s MotionState, cmd Command) MotionState {
	switch cmd {
	case Open:
		if s == Closed || s == Stopped {
			return Opening
		}
	case Stop:
		if s.Moving() {
			return Stopped
		}
	case Close:
		if s != Closed {
			return Closing
		}
	}
	return s
}

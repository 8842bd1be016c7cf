package gate

// Command is an operator request received over the radio.
type Command int

const (
	// None means "no pending command". Only Mailbox.Take returns it.
	None Command = iota
	Open
	Stop
	Close
)

// Radio payloads, matched exactly.
const (
	PayloadOpen  = "CMD_OPEN"
	PayloadStop  = "CMD_STOP"
	PayloadClose = "CMD_CLOSE"
)

func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case Open:
		return "open"
	case Stop:
		return "stop"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}

// Decode maps a radio payload to a command. Matching is exact-length and
// case-sensitive; anything else reports false and must be dropped.
func Decode(payload []byte) (Command, bool) {
	switch string(payload) {
	case PayloadOpen:
		return Open, true
	case PayloadStop:
		return Stop, true
	case PayloadClose:
		return Close, true
	default:
		return None, false
	}
}

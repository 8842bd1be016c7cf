package radio

import (
	"strconv"
	"strings"
)

// Frame is one message received by the modem.
type Frame struct {
	Address int // sender address, 0 for bare lines
	Payload []byte
	RSSI    int
	SNR     int
}

// ParseFrame decodes one line from the modem.
//
// Modem notifications look like "+RCV=<addr>,<len>,<data>,<rssi>,<snr>";
// data may itself contain commas and is cut to <len> bytes. Other "+"
// lines (+OK, +ERR=, +READY) are modem replies, not frames. Any other
// non-empty line is taken as a bare payload.
func ParseFrame(line string) (Frame, bool) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Frame{}, false
	}
	if !strings.HasPrefix(line, "+") {
		return Frame{Payload: []byte(line)}, true
	}
	rest, ok := strings.CutPrefix(line, "+RCV=")
	if !ok {
		return Frame{}, false
	}

	head := strings.SplitN(rest, ",", 3)
	if len(head) != 3 {
		return Frame{}, false
	}
	addr, err := strconv.Atoi(head[0])
	if err != nil {
		return Frame{}, false
	}
	n, err := strconv.Atoi(head[1])
	if err != nil || n < 0 {
		return Frame{}, false
	}

	tail := head[2]
	i := strings.LastIndexByte(tail, ',')
	if i < 0 {
		return Frame{}, false
	}
	snr, err := strconv.Atoi(tail[i+1:])
	if err != nil {
		return Frame{}, false
	}
	tail = tail[:i]
	i = strings.LastIndexByte(tail, ',')
	if i < 0 {
		return Frame{}, false
	}
	rssi, err := strconv.Atoi(tail[i+1:])
	if err != nil {
		return Frame{}, false
	}

	data := tail[:i]
	if n < len(data) {
		data = data[:n]
	}
	return Frame{Address: addr, Payload: []byte(data), RSSI: rssi, SNR: snr}, true
}

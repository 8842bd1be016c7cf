package gate

import "sync"

// Mailbox hands one command from the radio receive path to the control
// loop. A deposit overwrites whatever is pending: the latest command wins
// and nothing is queued.
//
// The mutex plays the role of masking the radio interrupt: while Take reads
// and clears the slot, a concurrent Deposit is held off, so the loop sees
// either the whole new command or the previous state, never a mix.
type Mailbox struct {
	mu    sync.Mutex
	cmd   Command
	ready bool
}

// Deposit stores cmd, replacing any pending command. None is ignored.
func (m *Mailbox) Deposit(cmd Command) {
	if cmd == None {
		return
	}
	m.mu.Lock()
	m.cmd = cmd
	m.ready = true
	m.mu.Unlock()
}

// Take returns the pending command and empties the slot, or None.
func (m *Mailbox) Take() Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return None
	}
	cmd := m.cmd
	m.cmd = None
	m.ready = false
	return cmd
}

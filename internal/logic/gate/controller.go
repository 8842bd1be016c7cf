package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/cjeanneret/GateGo/internal/hw/display"
	"github.com/cjeanneret/GateGo/internal/hw/led"
	"github.com/cjeanneret/GateGo/internal/logic/motion"
)

// DefaultLoopInterval is the pause between two control loop iterations.
const DefaultLoopInterval = 10 * time.Millisecond

// ErrHalted is returned by Run once the controller has been halted.
var ErrHalted = errors.New("gate controller halted")

// Actuator moves the gate to an absolute angle (0-180).
type Actuator interface {
	SetAngle(angle int) error
}

// Config holds the timing of the control loop.
type Config struct {
	StepInterval time.Duration    // minimum time between two one-degree steps
	LoopInterval time.Duration    // pause between iterations
	Now          func() time.Time // clock, time.Now if nil
}

// Snapshot is a copy of the last presented gate status.
type Snapshot struct {
	State    MotionState
	Position int
	Status   Status
	Halted   bool
	Cause    string // halt reason, empty unless Halted
}

// Controller owns the gate state and position and runs the control loop.
// The only thing shared with the radio receive path is the mailbox, reached
// through OnReceive. State, position and pacer are touched by the loop
// goroutine only; other goroutines read them through Snapshot.
type Controller struct {
	mailbox   Mailbox
	actuator  Actuator
	indicator led.Indicator
	display   display.Display
	pacer     *motion.Pacer
	loopEvery time.Duration
	now       func() time.Time

	state    MotionState
	position int
	halted   bool

	mu        sync.RWMutex
	snapshot  Snapshot
	published bool
	observers []func(Snapshot)
}

// NewController creates a controller with the gate closed at angle 0.
func NewController(act Actuator, ind led.Indicator, disp display.Display, cfg Config) *Controller {
	if cfg.LoopInterval <= 0 {
		cfg.LoopInterval = DefaultLoopInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		actuator:  act,
		indicator: ind,
		display:   disp,
		pacer:     motion.NewPacer(cfg.StepInterval),
		loopEvery: cfg.LoopInterval,
		now:       cfg.Now,
		state:     Closed,
		position:  motion.MinPosition,
	}
}

// OnStatus registers fn to be called, from the loop goroutine, each time
// the presented status changes. fn must return quickly.
func (c *Controller) OnStatus(fn func(Snapshot)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// OnReceive is the radio callback. It may run on any goroutine and only
// touches the mailbox. Unknown payloads are dropped.
func (c *Controller) OnReceive(payload []byte) {
	cmd, ok := Decode(payload)
	if !ok {
		debug.Trace("Gate: dropping unrecognized payload %q", payload)
		return
	}
	c.mailbox.Deposit(cmd)
}

// Boot shows the startup screen while the rest of the hardware comes up.
func (c *Controller) Boot() {
	c.show(StartupStatus())
}

// Start drives the actuator to the closed position and stamps the pacer.
// It is called once, right before the loop starts.
func (c *Controller) Start(now time.Time) {
	if err := c.actuator.SetAngle(c.position); err != nil {
		debug.Error(fmt.Errorf("initial actuator position: %w", err))
	}
	c.pacer.Reset(now)
	c.present()
}

// Tick runs one loop iteration: at most one command, at most one step,
// then the status outputs.
func (c *Controller) Tick(now time.Time) {
	if cmd := c.mailbox.Take(); cmd != None {
		debug.Command(cmd.String())
		c.transition(Apply(c.state, cmd))
	}

	pos, moved := c.pacer.Advance(c.state.direction(), c.position, now)
	if moved {
		c.position = pos
		if err := c.actuator.SetAngle(pos); err != nil {
			debug.Error(fmt.Errorf("set actuator angle %d: %w", pos, err))
		}
		debug.Move(pos, c.state.String())

		switch {
		case c.state == Opening && motion.AtLimit(motion.Up, pos):
			c.transition(Opened)
		case c.state == Closing && motion.AtLimit(motion.Down, pos):
			c.transition(Closed)
		}
	}
	c.position = motion.Clamp(c.position)

	c.present()
}

// Run starts the gate and ticks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if c.halted {
		return ErrHalted
	}
	c.Start(c.now())
	debug.Info("Control loop running (step %v, loop %v)", c.pacer.Interval(), c.loopEvery)

	ticker := time.NewTicker(c.loopEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Tick(c.now())
		}
	}
}

// Halt shows the fatal error screen and blocks until ctx is cancelled.
// After Halt the loop never runs; only a restart recovers.
func (c *Controller) Halt(ctx context.Context, cause error) {
	c.halted = true
	debug.Info("FATAL: %v", cause)
	st := HaltStatus()
	c.show(st)

	c.mu.Lock()
	c.snapshot.Status = st
	c.snapshot.Halted = true
	if cause != nil {
		c.snapshot.Cause = cause.Error()
	}
	snap, observers := c.snapshot, c.observers
	c.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}

	<-ctx.Done()
}

// Halted reports whether Halt was called.
func (c *Controller) Halted() bool {
	return c.halted
}

// State returns the current state. Loop goroutine only.
func (c *Controller) State() MotionState {
	return c.state
}

// Position returns the current angle. Loop goroutine only.
func (c *Controller) Position() int {
	return c.position
}

// Snapshot returns the last presented status. Safe from any goroutine.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Controller) transition(next MotionState) {
	if next == c.state {
		return
	}
	debug.Transition(c.state.String(), next.String(), c.position)
	c.state = next
}

func (c *Controller) present() {
	st := Present(c.state, c.position)
	c.show(st)

	snap := Snapshot{State: c.state, Position: c.position, Status: st}
	c.mu.Lock()
	changed := !c.published || snap != c.snapshot
	c.snapshot = snap
	c.published = true
	observers := c.observers
	c.mu.Unlock()

	if changed {
		for _, fn := range observers {
			fn(snap)
		}
	}
}

func (c *Controller) show(st Status) {
	if err := c.indicator.SetColor(st.Color); err != nil {
		debug.Error(fmt.Errorf("set indicator: %w", err))
	}
	if err := c.display.Render(st.Line1, st.Line2); err != nil {
		debug.Error(fmt.Errorf("render status: %w", err))
	}
}

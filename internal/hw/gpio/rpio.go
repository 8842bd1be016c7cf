package gpio

import (
	"fmt"

	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// hardwarePWM lists the BCM pins routed to the PWM0/PWM1 channels.
var hardwarePWM = map[int]bool{
	12: true,
	13: true,
	18: true,
	19: true,
}

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pins   map[int]rpio.Pin
	cycles map[int]uint32 // PWM cycle length per pin
}

// NewRPiRealDriver creates a real GPIO driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
// PWM additionally needs /dev/mem (root).
func NewRPiRealDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	debug.Verbose("GPIO memory mapped successfully")

	return &RPiDriver{
		pins:   make(map[int]rpio.Pin),
		cycles: make(map[int]uint32),
	}, nil
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)

	p := rpio.Pin(pin)
	r.pins[pin] = p

	switch mode {
	case Input:
		p.Input()
	case Output:
		p.Output()
	case PWM:
		if !hardwarePWM[pin] {
			return fmt.Errorf("pin %d has no hardware PWM", pin)
		}
		p.Mode(rpio.Pwm)
	default:
		return fmt.Errorf("unknown pin mode: %d", mode)
	}

	return nil
}

func (r *RPiDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)

	p, ok := r.pins[pin]
	if !ok {
		// Pin not setup yet, setup as output
		if err := r.SetupPin(pin, Output); err != nil {
			return err
		}
		p = r.pins[pin]
	}

	if level == High {
		p.High()
	} else {
		p.Low()
	}

	return nil
}

func (r *RPiDriver) ReadPin(pin int) (Level, error) {
	debug.GPIO("ReadPin", pin, nil)

	p, ok := r.pins[pin]
	if !ok {
		// Pin not setup yet, setup as input
		if err := r.SetupPin(pin, Input); err != nil {
			return Low, err
		}
		p = r.pins[pin]
	}

	state := p.Read()
	if state == rpio.High {
		return High, nil
	}
	return Low, nil
}

// SetupPWM switches pin to PWM mode. The PWM clock runs at freqHz*cycleLen
// so that one period is cycleLen ticks long.
func (r *RPiDriver) SetupPWM(pin int, freqHz, cycleLen int) error {
	if freqHz <= 0 || cycleLen <= 0 {
		return fmt.Errorf("invalid PWM setup: freq=%d cycle=%d", freqHz, cycleLen)
	}
	if err := r.SetupPin(pin, PWM); err != nil {
		return err
	}
	p := r.pins[pin]
	p.Freq(freqHz * cycleLen)
	r.cycles[pin] = uint32(cycleLen)
	debug.GPIO("SetupPWM", pin, freqHz*cycleLen)
	return nil
}

func (r *RPiDriver) WritePWM(pin int, duty int) error {
	debug.GPIO("WritePWM", pin, duty)

	cycle, ok := r.cycles[pin]
	if !ok {
		return fmt.Errorf("pin %d is not configured for PWM", pin)
	}
	if duty < 0 || uint32(duty) > cycle {
		return fmt.Errorf("duty %d out of range 0..%d", duty, cycle)
	}
	r.pins[pin].DutyCycle(uint32(duty), cycle)
	return nil
}

func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	// Reset all pins to input (safe state)
	for pin, p := range r.pins {
		debug.Verbose("Resetting pin %d to input", pin)
		p.Input()
	}

	return rpio.Close()
}

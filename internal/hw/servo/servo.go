package servo

import (
	"fmt"
	"time"

	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/cjeanneret/GateGo/internal/hw/gpio"
)

const (
	// MaxAngle is the end of travel of a standard hobby servo.
	MaxAngle = 180

	frequencyHz = 50    // 20 ms frame
	cycleTicks  = 20000 // one tick per microsecond of the frame
)

// Config holds the hardware configuration for a servo.
type Config struct {
	Pin      int           // BCM pin with hardware PWM (12, 13, 18 or 19)
	MinPulse time.Duration // pulse width at 0°. 0 = 1ms.
	MaxPulse time.Duration // pulse width at 180°. 0 = 2ms.
}

// Servo drives a positional servo through a PWM pin.
// It has no feedback: the last commanded angle is assumed reached.
type Servo struct {
	gpio  gpio.Driver
	cfg   Config
	angle int
}

// NewServo configures the PWM pin for a 50 Hz servo frame.
func NewServo(g gpio.Driver, cfg Config) (*Servo, error) {
	if cfg.MinPulse <= 0 {
		cfg.MinPulse = time.Millisecond
	}
	if cfg.MaxPulse <= 0 {
		cfg.MaxPulse = 2 * time.Millisecond
	}
	if cfg.MaxPulse <= cfg.MinPulse {
		return nil, fmt.Errorf("servo max pulse %v must be greater than min pulse %v", cfg.MaxPulse, cfg.MinPulse)
	}
	if err := g.SetupPWM(cfg.Pin, frequencyHz, cycleTicks); err != nil {
		return nil, fmt.Errorf("setup servo PWM on pin %d: %w", cfg.Pin, err)
	}
	return &Servo{gpio: g, cfg: cfg}, nil
}

// SetAngle moves the servo horn to angle (0-180).
func (s *Servo) SetAngle(angle int) error {
	if angle < 0 || angle > MaxAngle {
		return fmt.Errorf("servo angle %d out of range 0..%d", angle, MaxAngle)
	}

	debug.Trace("Servo: pin %d -> %d° (%d µs)", s.cfg.Pin, angle, s.pulseTicks(angle))

	if err := s.gpio.WritePWM(s.cfg.Pin, s.pulseTicks(angle)); err != nil {
		return err
	}
	s.angle = angle
	return nil
}

// Angle returns the last commanded angle.
func (s *Servo) Angle() int {
	return s.angle
}

// pulseTicks maps an angle linearly onto [MinPulse, MaxPulse], in µs ticks.
func (s *Servo) pulseTicks(angle int) int {
	lo := s.cfg.MinPulse.Microseconds()
	hi := s.cfg.MaxPulse.Microseconds()
	return int(lo + (hi-lo)*int64(angle)/MaxAngle)
}

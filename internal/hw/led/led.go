package led

import (
	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/cjeanneret/GateGo/internal/hw/gpio"
)

// RGB is an Indicator implementation for a common-cathode (or, with
// ActiveLow, common-anode) RGB LED driven by three GPIO lines.
//
// Each palette color is a combination of the three dies, so only
// on/off per channel is needed:
// - red, green, blue: one die
// - yellow, cyan, magenta: two dies
// - white: all three
type RGB struct {
	gpio      gpio.Driver
	pins      [3]int // red, green, blue
	activeLow bool
	current   Color
	set       bool
}

// NewRGB creates a GPIO-driven RGB indicator, initially off.
// activeLow must be true for common-anode LEDs (LOW lights a die).
func NewRGB(g gpio.Driver, redPin, greenPin, bluePin int, activeLow bool) *RGB {
	l := &RGB{
		gpio:      g,
		pins:      [3]int{redPin, greenPin, bluePin},
		activeLow: activeLow,
	}

	for _, p := range l.pins {
		_ = g.SetupPin(p, gpio.Output)
	}
	_ = l.write(Off)

	return l
}

// SetColor lights the LED with c. Repeated calls with the same color
// do not touch the pins.
func (l *RGB) SetColor(c Color) error {
	if l.set && c == l.current {
		return nil
	}
	debug.Verbose("LED: %s -> %s", l.current, c)
	if err := l.write(c); err != nil {
		return err
	}
	l.current = c
	l.set = true
	return nil
}

// Color returns the last color written.
func (l *RGB) Color() Color {
	return l.current
}

func (l *RGB) write(c Color) error {
	r, g, b := c.channels()
	for i, on := range [3]bool{r, g, b} {
		if err := l.gpio.WritePin(l.pins[i], l.level(on)); err != nil {
			return err
		}
	}
	return nil
}

func (l *RGB) level(on bool) gpio.Level {
	if l.activeLow {
		return gpio.Level(!on)
	}
	return gpio.Level(on)
}

package led

import (
	"errors"
	"testing"

	"github.com/cjeanneret/GateGo/internal/hw/gpio"
)

// recordingDriver records GPIO calls for verification.
type recordingDriver struct {
	calls   []gpioCall
	failPin int
}

type gpioCall struct {
	op    string
	pin   int
	level gpio.Level
}

func (d *recordingDriver) SetupPin(pin int, mode gpio.PinMode) error {
	d.calls = append(d.calls, gpioCall{op: "setup", pin: pin})
	return nil
}

func (d *recordingDriver) WritePin(pin int, level gpio.Level) error {
	if d.failPin != 0 && pin == d.failPin {
		return errors.New("write failed")
	}
	d.calls = append(d.calls, gpioCall{op: "write", pin: pin, level: level})
	return nil
}

func (d *recordingDriver) ReadPin(pin int) (gpio.Level, error) {
	return gpio.Low, nil
}

func (d *recordingDriver) SetupPWM(pin int, freqHz, cycleLen int) error { return nil }

func (d *recordingDriver) WritePWM(pin int, duty int) error { return nil }

func (d *recordingDriver) Close() error { return nil }

func (d *recordingDriver) writeCalls() []gpioCall {
	var result []gpioCall
	for _, c := range d.calls {
		if c.op == "write" {
			result = append(result, c)
		}
	}
	return result
}

func TestRGB_InitializedOff(t *testing.T) {
	drv := &recordingDriver{}
	NewRGB(drv, 11, 12, 13, false)

	writes := drv.writeCalls()
	if len(writes) != 3 {
		t.Fatalf("expected 3 writes, got %d: %v", len(writes), writes)
	}
	for _, c := range writes {
		if c.level != gpio.Low {
			t.Errorf("pin %d should start LOW (off), got %v", c.pin, c.level)
		}
	}
}

func TestRGB_PaletteChannels(t *testing.T) {
	cases := []struct {
		color   Color
		r, g, b gpio.Level
	}{
		{Red, gpio.High, gpio.Low, gpio.Low},
		{Green, gpio.Low, gpio.High, gpio.Low},
		{Blue, gpio.Low, gpio.Low, gpio.High},
		{Yellow, gpio.High, gpio.High, gpio.Low},
		{Cyan, gpio.Low, gpio.High, gpio.High},
		{Magenta, gpio.High, gpio.Low, gpio.High},
		{White, gpio.High, gpio.High, gpio.High},
	}
	for _, tc := range cases {
		t.Run(tc.color.String(), func(t *testing.T) {
			drv := &recordingDriver{}
			l := NewRGB(drv, 11, 12, 13, false)
			drv.calls = nil

			if err := l.SetColor(tc.color); err != nil {
				t.Fatalf("SetColor: %v", err)
			}
			writes := drv.writeCalls()
			if len(writes) != 3 {
				t.Fatalf("expected 3 writes, got %d", len(writes))
			}
			want := []gpioCall{
				{"write", 11, tc.r},
				{"write", 12, tc.g},
				{"write", 13, tc.b},
			}
			for i := range want {
				if writes[i] != want[i] {
					t.Errorf("write %d = %+v, want %+v", i, writes[i], want[i])
				}
			}
		})
	}
}

func TestRGB_ActiveLowInverts(t *testing.T) {
	drv := &recordingDriver{}
	l := NewRGB(drv, 11, 12, 13, true)
	drv.calls = nil

	if err := l.SetColor(Red); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	writes := drv.writeCalls()
	if writes[0].level != gpio.Low || writes[1].level != gpio.High || writes[2].level != gpio.High {
		t.Errorf("active-low red should be LOW,HIGH,HIGH, got %v", writes)
	}
}

func TestRGB_SameColorSkipsWrites(t *testing.T) {
	drv := &recordingDriver{}
	l := NewRGB(drv, 11, 12, 13, false)
	_ = l.SetColor(Blue)
	drv.calls = nil

	_ = l.SetColor(Blue)
	if n := len(drv.writeCalls()); n != 0 {
		t.Errorf("expected no writes for unchanged color, got %d", n)
	}
	if l.Color() != Blue {
		t.Errorf("Color() = %v, want blue", l.Color())
	}
}

func TestRGB_WriteErrorKeepsPreviousColor(t *testing.T) {
	drv := &recordingDriver{}
	l := NewRGB(drv, 11, 12, 13, false)
	_ = l.SetColor(Green)
	drv.failPin = 13

	if err := l.SetColor(Cyan); err == nil {
		t.Fatal("expected error from failing pin")
	}
	if l.Color() != Green {
		t.Errorf("Color() = %v, want green after failed write", l.Color())
	}
}

func TestColor_String(t *testing.T) {
	if Cyan.String() != "cyan" {
		t.Errorf("Cyan.String() = %q", Cyan.String())
	}
	if Color(99).String() != "unknown" {
		t.Errorf("Color(99).String() = %q", Color(99).String())
	}
}

func TestRGB_ImplementsIndicator(t *testing.T) {
	var _ Indicator = NewRGB(&recordingDriver{}, 1, 2, 3, false) // compile-time check
}

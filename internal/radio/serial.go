package radio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/tarm/serial"
	"golang.org/x/sync/errgroup"
)

// SerialConfig describes a LoRa modem attached to a UART.
type SerialConfig struct {
	Port       string // e.g. /dev/serial0
	Baud       int    // 0 = 115200
	Address    int    // our modem address, 0 = leave modem setting alone
	AcceptFrom int    // only deliver frames from this sender, 0 = any
}

// Serial is a Transport for an AT-command LoRa modem (RYLR89x/99x style)
// that reports received packets as "+RCV=" lines.
type Serial struct {
	cfg SerialConfig

	// openPort is swapped in tests.
	openPort func(c *serial.Config) (io.ReadWriteCloser, error)

	mu   sync.Mutex
	port io.ReadWriteCloser
}

// NewSerial creates a serial transport. Nothing is opened yet.
func NewSerial(cfg SerialConfig) *Serial {
	if cfg.Baud <= 0 {
		cfg.Baud = 115200
	}
	return &Serial{
		cfg: cfg,
		openPort: func(c *serial.Config) (io.ReadWriteCloser, error) {
			return serial.OpenPort(c)
		},
	}
}

// Open opens the UART and programs the modem address.
func (s *Serial) Open() error {
	debug.Info("Opening LoRa modem on %s (%d baud)", s.cfg.Port, s.cfg.Baud)

	p, err := s.openPort(&serial.Config{Name: s.cfg.Port, Baud: s.cfg.Baud})
	if err != nil {
		return fmt.Errorf("open serial port %q: %w", s.cfg.Port, err)
	}
	if s.cfg.Address > 0 {
		if _, err := fmt.Fprintf(p, "AT+ADDRESS=%d\r\n", s.cfg.Address); err != nil {
			p.Close()
			return fmt.Errorf("set modem address: %w", err)
		}
	}

	s.mu.Lock()
	s.port = p
	s.mu.Unlock()
	return nil
}

// Listen reads frames until ctx is cancelled or the port fails.
func (s *Serial) Listen(ctx context.Context, h Handler) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()
	if port == nil {
		return ErrNotOpen
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Wait for context to be canceled, then close the port to unblock reads.
		<-ctx.Done()
		return s.Close()
	})
	g.Go(func() error {
		scanner := bufio.NewScanner(port)
		for scanner.Scan() {
			s.dispatch(scanner.Text(), h)
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading %s: %w", s.cfg.Port, err)
		}
		return errors.New("radio link closed")
	})
	return g.Wait()
}

func (s *Serial) dispatch(line string, h Handler) {
	f, ok := ParseFrame(line)
	if !ok {
		debug.Trace("LoRa modem: %q", line)
		return
	}
	if s.cfg.AcceptFrom > 0 && f.Address != s.cfg.AcceptFrom {
		debug.Trace("LoRa: ignoring frame from address %d", f.Address)
		return
	}
	debug.Frame(f.Payload)
	h(f.Payload)
}

// Close releases the port. It is safe to call more than once.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

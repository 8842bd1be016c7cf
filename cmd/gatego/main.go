package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cjeanneret/GateGo/internal/config"
	"github.com/cjeanneret/GateGo/internal/debug"
	"github.com/cjeanneret/GateGo/internal/hw/display"
	"github.com/cjeanneret/GateGo/internal/hw/gpio"
	"github.com/cjeanneret/GateGo/internal/hw/led"
	"github.com/cjeanneret/GateGo/internal/hw/servo"
	"github.com/cjeanneret/GateGo/internal/logic/gate"
	"github.com/cjeanneret/GateGo/internal/radio"
	"github.com/cjeanneret/GateGo/internal/telemetry"
	"github.com/cjeanneret/GateGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	debugLevel := flag.Int("debug", -1, "override debug level (0-4)")
	flag.Parse()

	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if err := applyDebugOverride(cfg, *debugLevel); err != nil {
		log.Fatalf("invalid -debug: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, webPort.port(), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("gatego: %v", err)
	}
}

// run brings the hardware up and drives the gate until ctx is cancelled.
// If the radio cannot be opened the controller halts and run returns the
// cause once ctx is done.
func run(ctx context.Context, cfg *config.Config, port int, stdin io.Reader, stdout io.Writer) error {
	// Initialize debug system
	outputs := []io.Writer{stdout}
	if cfg.Defaults.LogFile != "" {
		logFile := debug.NewFileWriter(cfg.Defaults.LogFile, cfg.Defaults.LogMaxSizeMB)
		defer logFile.Close()
		outputs = append(outputs, logFile)
	}
	var broadcaster *web.StatusBroadcaster
	if port > 0 {
		broadcaster = web.NewStatusBroadcaster()
		outputs = append(outputs, web.BroadcastWriter(broadcaster))
	}
	debug.SetOutput(io.MultiWriter(outputs...))
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	// Initialize GPIO driver
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return fmt.Errorf("init GPIO: %w", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			debug.Error(fmt.Errorf("closing GPIO driver: %w", err))
		}
	}()

	// Status outputs come up first so the startup screen is visible
	debug.Step(2, "Initializing status panel and LED")
	panel := display.NewConsole(stdout)
	indicator := led.NewRGB(gpioDriver, cfg.LED.RedPin, cfg.LED.GreenPin, cfg.LED.BluePin, cfg.LED.ActiveLow)
	debug.PrintStruct("LED config", cfg.LED)

	debug.Step(3, "Initializing servo")
	actuator, err := servo.NewServo(gpioDriver, servo.Config{
		Pin:      cfg.Servo.Pin,
		MinPulse: cfg.MinPulse(),
		MaxPulse: cfg.MaxPulse(),
	})
	if err != nil {
		return fmt.Errorf("init servo: %w", err)
	}
	debug.PrintStruct("Servo config", cfg.Servo)

	ctrl := gate.NewController(actuator, indicator, panel, gate.Config{
		StepInterval: cfg.StepInterval(),
		LoopInterval: cfg.LoopInterval(),
	})
	ctrl.Boot()

	if broadcaster != nil {
		ctrl.OnStatus(func(s gate.Snapshot) {
			broadcaster.BroadcastStatus(web.NewStatusView(s))
		})
	}
	if cfg.TelemetryEnabled() {
		debug.Value("InfluxDB", cfg.Telemetry.InfluxURL)
		recorder := telemetry.NewRecorder(telemetry.NewInflux(
			cfg.Telemetry.InfluxURL,
			cfg.Telemetry.Token,
			cfg.Telemetry.Org,
			cfg.Telemetry.Bucket,
		))
		defer recorder.Close()
		ctrl.OnStatus(recorder.Observe)
	}

	g, gctx := errgroup.WithContext(ctx)
	if broadcaster != nil {
		srv, err := web.NewServer(fmt.Sprintf(":%d", port), broadcaster, ctrl)
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		g.Go(func() error { return srv.Run(gctx) })
	}

	debug.Step(4, "Initializing radio")
	transport := newTransport(cfg, stdin)
	if err := transport.Open(); err != nil {
		cause := fmt.Errorf("radio init: %w", err)
		ctrl.Halt(gctx, cause)
		g.Wait()
		return cause
	}
	defer transport.Close()

	debug.Section("Gate ready")
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error { return transport.Listen(gctx, ctrl.OnReceive) })
	return g.Wait()
}

// newTransport selects the modem or, in mock mode, line input.
func newTransport(cfg *config.Config, stdin io.Reader) radio.Transport {
	if cfg.Radio.Mock {
		debug.Info("Radio mock: type CMD_OPEN, CMD_STOP or CMD_CLOSE")
		return radio.NewLines(stdin)
	}
	return radio.NewSerial(radio.SerialConfig{
		Port:       cfg.Radio.Port,
		Baud:       cfg.Radio.Baud,
		Address:    cfg.Radio.Address,
		AcceptFrom: cfg.Radio.AcceptFrom,
	})
}

// applyDebugOverride replaces the configured debug level; negative keeps it.
func applyDebugOverride(cfg *config.Config, level int) error {
	if level < 0 {
		return nil
	}
	if level > debug.LevelTrace {
		return fmt.Errorf("debug level must be between 0 and 4, got %d", level)
	}
	cfg.Defaults.DebugLevel = level
	return nil
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }

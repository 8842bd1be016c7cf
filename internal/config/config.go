package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes bounds the size of a config file accepted by Load.
const MaxConfigFileBytes = 64 * 1024

// ServoConfig holds the configuration of the gate servo.
type ServoConfig struct {
	Pin        int `yaml:"pin"`          // BCM pin with hardware PWM (12, 13, 18, 19)
	MinPulseUs int `yaml:"min_pulse_us"` // pulse width at 0° (µs)
	MaxPulseUs int `yaml:"max_pulse_us"` // pulse width at 180° (µs)
}

// LEDConfig describes the RGB status LED wiring.
type LEDConfig struct {
	RedPin    int  `yaml:"red_pin"`
	GreenPin  int  `yaml:"green_pin"`
	BluePin   int  `yaml:"blue_pin"`
	ActiveLow bool `yaml:"active_low"` // true for common-anode LEDs
}

// RadioConfig describes the LoRa modem link.
type RadioConfig struct {
	Port       string `yaml:"port"`        // e.g., "/dev/serial0"
	Baud       int    `yaml:"baud"`        // UART speed
	Address    int    `yaml:"address"`     // this receiver's modem address (0 = keep modem setting)
	AcceptFrom int    `yaml:"accept_from"` // remote control address (0 = any)
	Mock       bool   `yaml:"mock"`        // read commands from stdin instead of the modem
}

// MotionConfig contains the timing of the control loop.
type MotionConfig struct {
	StepIntervalMs int `yaml:"step_interval_ms"` // minimum delay between one-degree steps
	LoopIntervalMs int `yaml:"loop_interval_ms"` // delay between control loop iterations
}

// TelemetryConfig is optional: InfluxDB v2 destination for status changes.
type TelemetryConfig struct {
	InfluxURL string `yaml:"influx_url"` // empty = disabled
	Token     string `yaml:"token"`
	Org       string `yaml:"org"`
	Bucket    string `yaml:"bucket"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel   int    `yaml:"debug_level"`     // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO     bool   `yaml:"mock_gpio"`       // use mock GPIO (true=dev/test, false=real Raspberry Pi)
	LogFile      string `yaml:"log_file"`        // rotating log file, empty = stdout only
	LogMaxSizeMB int    `yaml:"log_max_size_mb"` // rotation size
}

// Config aggregates all application configuration.
type Config struct {
	Servo     ServoConfig     `yaml:"servo"`
	LED       LEDConfig       `yaml:"led"`
	Radio     RadioConfig     `yaml:"radio"`
	Motion    MotionConfig    `yaml:"motion"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// ValidateConfigPath only accepts *.yaml files located in a configs/ directory.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config file must have .yaml extension: %s", path)
	}
	if _, err := filepath.Abs(clean); err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config file must be in a configs/ directory: %s", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxConfigFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	// Radio
	if c.Radio.Port == "" && !c.Radio.Mock {
		return fmt.Errorf("radio.port is required unless radio.mock is set")
	}
	if c.Radio.Baud <= 0 {
		c.Radio.Baud = 115200 // modem factory setting
	}
	if c.Radio.Address < 0 || c.Radio.AcceptFrom < 0 {
		return fmt.Errorf("radio addresses must be >= 0")
	}

	// Servo
	if c.Servo.Pin == 0 {
		c.Servo.Pin = 18 // PWM0
	}
	if c.Servo.MinPulseUs <= 0 {
		c.Servo.MinPulseUs = 1000
	}
	if c.Servo.MaxPulseUs <= 0 {
		c.Servo.MaxPulseUs = 2000
	}
	if c.Servo.MinPulseUs < 500 || c.Servo.MaxPulseUs > 2500 || c.Servo.MinPulseUs >= c.Servo.MaxPulseUs {
		return fmt.Errorf("servo pulse range must satisfy 500 <= min < max <= 2500, got %d-%d", c.Servo.MinPulseUs, c.Servo.MaxPulseUs)
	}

	// LED
	if c.LED.RedPin == 0 {
		c.LED.RedPin = 17
	}
	if c.LED.GreenPin == 0 {
		c.LED.GreenPin = 27
	}
	if c.LED.BluePin == 0 {
		c.LED.BluePin = 22
	}

	pins := map[int]string{}
	for name, pin := range map[string]int{
		"servo.pin":     c.Servo.Pin,
		"led.red_pin":   c.LED.RedPin,
		"led.green_pin": c.LED.GreenPin,
		"led.blue_pin":  c.LED.BluePin,
	} {
		if pin < 1 || pin > 27 {
			return fmt.Errorf("%s must be a BCM pin between 1 and 27, got %d", name, pin)
		}
		if other, dup := pins[pin]; dup {
			return fmt.Errorf("%s and %s both use pin %d", name, other, pin)
		}
		pins[pin] = name
	}

	// Motion
	if c.Motion.StepIntervalMs <= 0 {
		c.Motion.StepIntervalMs = 20 // 1°/20ms, full sweep in 3.6s
	}
	if c.Motion.LoopIntervalMs <= 0 {
		c.Motion.LoopIntervalMs = 10
	}
	if c.Motion.LoopIntervalMs > c.Motion.StepIntervalMs {
		return fmt.Errorf("motion.loop_interval_ms (%d) must not exceed step_interval_ms (%d)", c.Motion.LoopIntervalMs, c.Motion.StepIntervalMs)
	}

	// Telemetry
	if c.Telemetry.InfluxURL != "" && (c.Telemetry.Org == "" || c.Telemetry.Bucket == "") {
		return fmt.Errorf("telemetry.org and telemetry.bucket are required with telemetry.influx_url")
	}

	// Defaults
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	if c.Defaults.LogMaxSizeMB <= 0 {
		c.Defaults.LogMaxSizeMB = 10
	}
	return nil
}

// StepInterval returns the minimum duration between two servo steps.
func (c *Config) StepInterval() time.Duration {
	return time.Duration(c.Motion.StepIntervalMs) * time.Millisecond
}

// LoopInterval returns the pause between two control loop iterations.
func (c *Config) LoopInterval() time.Duration {
	return time.Duration(c.Motion.LoopIntervalMs) * time.Millisecond
}

// MinPulse returns the servo pulse width at 0°.
func (c *Config) MinPulse() time.Duration {
	return time.Duration(c.Servo.MinPulseUs) * time.Microsecond
}

// MaxPulse returns the servo pulse width at 180°.
func (c *Config) MaxPulse() time.Duration {
	return time.Duration(c.Servo.MaxPulseUs) * time.Microsecond
}

// TelemetryEnabled reports whether status changes are sent to InfluxDB.
func (c *Config) TelemetryEnabled() bool {
	return c.Telemetry.InfluxURL != ""
}

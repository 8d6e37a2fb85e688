package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/relabs-tech/motion_controller/motion"
	"github.com/relabs-tech/motion_controller/scale"
)

// Config holds all application configuration values.
type Config struct {
	// Device selection
	DevicePattern string
	// SerialPort enables the Magellan backend when set, e.g.
	// /dev/ttyUSB0.
	SerialPort string
	// AnalogI2CBus enables the analog rig backend when set, e.g. "1".
	AnalogI2CBus   string
	ButtonPinLeft  string
	ButtonPinRight string

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	TopicMotion          string

	// Sampling
	SampleIntervalMS int // notification poll interval, milliseconds
	Tolerance        float64
	ProbeSeconds     int // calibrate tool probe duration

	// Scaling. Axis ranges left unset resolve to the default -1..1.
	TargetX, TargetY, TargetZ, TargetRX, TargetRY, TargetRZ scale.AxisRange
	CalX, CalY, CalZ, CalRX, CalRY, CalRZ                   scale.AxisRange
}

// Load reads the configuration file and returns a Config struct.
// Defaults are applied first, so a minimal file needs only
// DEVICE_PATTERN, MQTT_BROKER and TOPIC_MOTION.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		SampleIntervalMS: 50,
		Tolerance:        motion.DefaultTolerance,
		ProbeSeconds:     30,
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Device selection
	case "DEVICE_PATTERN":
		c.DevicePattern = value
	case "SERIAL_PORT":
		c.SerialPort = value
	case "ANALOG_I2C_BUS":
		c.AnalogI2CBus = value
	case "BUTTON_PIN_LEFT":
		c.ButtonPinLeft = value
	case "BUTTON_PIN_RIGHT":
		c.ButtonPinRight = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "TOPIC_MOTION":
		c.TopicMotion = value

	// Sampling
	case "SAMPLE_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL_MS %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("SAMPLE_INTERVAL_MS must be > 0, got %d", interval)
		}
		c.SampleIntervalMS = interval
	case "TOLERANCE":
		tol, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TOLERANCE %q: %w", value, err)
		}
		if tol < 0 {
			return fmt.Errorf("TOLERANCE must be >= 0, got %g", tol)
		}
		c.Tolerance = tol
	case "PROBE_SECONDS":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PROBE_SECONDS %q: %w", value, err)
		}
		if secs <= 0 {
			return fmt.Errorf("PROBE_SECONDS must be > 0, got %d", secs)
		}
		c.ProbeSeconds = secs

	// Target ranges
	case "TARGET_MIN_X":
		return setBound(&c.TargetX.Min, key, value)
	case "TARGET_MAX_X":
		return setBound(&c.TargetX.Max, key, value)
	case "TARGET_MIN_Y":
		return setBound(&c.TargetY.Min, key, value)
	case "TARGET_MAX_Y":
		return setBound(&c.TargetY.Max, key, value)
	case "TARGET_MIN_Z":
		return setBound(&c.TargetZ.Min, key, value)
	case "TARGET_MAX_Z":
		return setBound(&c.TargetZ.Max, key, value)
	case "TARGET_MIN_RX":
		return setBound(&c.TargetRX.Min, key, value)
	case "TARGET_MAX_RX":
		return setBound(&c.TargetRX.Max, key, value)
	case "TARGET_MIN_RY":
		return setBound(&c.TargetRY.Min, key, value)
	case "TARGET_MAX_RY":
		return setBound(&c.TargetRY.Max, key, value)
	case "TARGET_MIN_RZ":
		return setBound(&c.TargetRZ.Min, key, value)
	case "TARGET_MAX_RZ":
		return setBound(&c.TargetRZ.Max, key, value)

	// Calibrated ranges, as printed by the calibrate tool
	case "CAL_MIN_X":
		return setBound(&c.CalX.Min, key, value)
	case "CAL_MAX_X":
		return setBound(&c.CalX.Max, key, value)
	case "CAL_MIN_Y":
		return setBound(&c.CalY.Min, key, value)
	case "CAL_MAX_Y":
		return setBound(&c.CalY.Max, key, value)
	case "CAL_MIN_Z":
		return setBound(&c.CalZ.Min, key, value)
	case "CAL_MAX_Z":
		return setBound(&c.CalZ.Max, key, value)
	case "CAL_MIN_RX":
		return setBound(&c.CalRX.Min, key, value)
	case "CAL_MAX_RX":
		return setBound(&c.CalRX.Max, key, value)
	case "CAL_MIN_RY":
		return setBound(&c.CalRY.Min, key, value)
	case "CAL_MAX_RY":
		return setBound(&c.CalRY.Max, key, value)
	case "CAL_MIN_RZ":
		return setBound(&c.CalRZ.Min, key, value)
	case "CAL_MAX_RZ":
		return setBound(&c.CalRZ.Max, key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func setBound(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = v
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.DevicePattern == "" {
		return fmt.Errorf("DEVICE_PATTERN is required")
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicMotion == "" {
		return fmt.Errorf("TOPIC_MOTION is required")
	}
	return nil
}

// TargetRanges assembles the TARGET_* keys into a range config.
func (c *Config) TargetRanges() scale.RangeConfig {
	return scale.RangeConfig{
		X: c.TargetX, Y: c.TargetY, Z: c.TargetZ,
		RX: c.TargetRX, RY: c.TargetRY, RZ: c.TargetRZ,
	}
}

// CalibratedRanges assembles the CAL_* keys into a range config.
func (c *Config) CalibratedRanges() scale.RangeConfig {
	return scale.RangeConfig{
		X: c.CalX, Y: c.CalY, Z: c.CalZ,
		RX: c.CalRX, RY: c.CalRY, RZ: c.CalRZ,
	}
}

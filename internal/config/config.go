// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config is the YAML configuration of cmd/camtft.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/camtft/hal"
	"gopkg.in/yaml.v3"
)

// SensorConfig describes the camera wiring.
type SensorConfig struct {
	// Bus is the i2creg name of the host bus. Empty selects the first one.
	Bus string `yaml:"i2c_bus"`
	// Instance is the I²C controller number, 1 to 3.
	Instance    int    `yaml:"instance"`
	IRQPriority uint8  `yaml:"irq_priority"`
	SCL         string `yaml:"scl"`
	SDA         string `yaml:"sda"`
	// PowerDown is optional.
	PowerDown string `yaml:"power_down"`
}

// DisplayConfig describes the panel wiring.
type DisplayConfig struct {
	// Port is the spireg name of the host port. Empty selects the first one.
	Port    string `yaml:"spi_port"`
	SpeedHz int64  `yaml:"speed_hz"`
	DC      string `yaml:"dc"`
	RST     string `yaml:"rst"`
	// BGR selects BGR subpixel order in MADCTL.
	BGR bool `yaml:"bgr"`
}

// DiagConfig is the diagnostic serial channel. An empty Serial writes the
// status lines to stdout.
type DiagConfig struct {
	Serial string `yaml:"serial"`
	Baud   int    `yaml:"baud"`
}

// PreviewConfig mirrors frames to the terminal and over HTTP.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
	Step    int  `yaml:"step"`
	// Listen is the address of the MJPEG stream, disabled when empty.
	Listen  string `yaml:"listen"`
	Quality int    `yaml:"quality"`
}

// CaptionConfig is the text drawn over the frame.
type CaptionConfig struct {
	Text string `yaml:"text"`
	// Font is the path to a TrueType file. Empty uses the built-in 7x13 face.
	Font  string  `yaml:"font"`
	Size  float64 `yaml:"size"`
	Scale int     `yaml:"scale"`
}

// Config is the top-level configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// Strict halts the program on any sensor register failure.
	Strict  bool          `yaml:"strict"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Display DisplayConfig `yaml:"display"`
	// GPIO maps MCU pin names (PA6) to host gpioreg names (GPIO24).
	GPIO    map[string]string `yaml:"gpio"`
	Diag    DiagConfig        `yaml:"diag"`
	Preview PreviewConfig     `yaml:"preview"`
	Caption CaptionConfig     `yaml:"caption"`
}

// DefaultConfig returns the wiring of the reference board.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Sensor: SensorConfig{
			Instance:    2,
			IRQPriority: 2,
			SCL:         "PA9",
			SDA:         "PA10",
		},
		Display: DisplayConfig{
			SpeedHz: 8000000,
			DC:      "PA6",
			RST:     "PA7",
		},
		GPIO: map[string]string{},
		Diag: DiagConfig{Baud: 115200},
		Preview: PreviewConfig{
			Step: 2,
		},
		Caption: CaptionConfig{
			Text: "OV7670",
			Size: 12,
		},
	}
}

// Normalize fills in zero values from DefaultConfig.
//
// Pin names are left alone; an empty pin is a valid unwired pin.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Sensor.Instance == 0 {
		c.Sensor.Instance = d.Sensor.Instance
	}
	if c.Display.SpeedHz <= 0 {
		c.Display.SpeedHz = d.Display.SpeedHz
	}
	if c.GPIO == nil {
		c.GPIO = map[string]string{}
	}
	if c.Diag.Baud <= 0 {
		c.Diag.Baud = d.Diag.Baud
	}
	if c.Preview.Step <= 0 {
		c.Preview.Step = d.Preview.Step
	}
	if c.Caption.Size <= 0 {
		c.Caption.Size = d.Caption.Size
	}
}

// Validate checks the values Normalize cannot fix.
func (c *Config) Validate() error {
	if _, err := c.Instance(); err != nil {
		return err
	}
	for _, s := range []string{c.Sensor.SCL, c.Sensor.SDA, c.Sensor.PowerDown, c.Display.DC, c.Display.RST} {
		if _, err := hal.ParsePin(s); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	for k := range c.GPIO {
		if p, err := hal.ParsePin(k); err != nil || !p.Valid() {
			return fmt.Errorf("config: gpio: invalid pin name %q", k)
		}
	}
	return nil
}

// Instance returns the selected I²C controller.
func (c *Config) Instance() (hal.Peripheral, error) {
	switch c.Sensor.Instance {
	case 1:
		return hal.I2C1, nil
	case 2:
		return hal.I2C2, nil
	case 3:
		return hal.I2C3, nil
	}
	return hal.PeripheralNone, fmt.Errorf("config: sensor: no I²C instance %d", c.Sensor.Instance)
}

// Pin parses one pin name of the configuration.
func (c *Config) Pin(name string) hal.Pin {
	p, _ := hal.ParsePin(name)
	return p
}

// Load loads the configuration from the given YAML path.
//
// A missing file is created with DefaultConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return cfg, Save(path, cfg)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes, normalizes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".camtft-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

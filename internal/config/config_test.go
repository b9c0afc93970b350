// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
strict: true
sensor:
  instance: 3
  scl: PA8
  sda: PC9
  power_down: PB1
display:
  dc: PB6
gpio:
  PB6: GPIO24
  PB1: GPIO17
`))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Strict = true
	want.Sensor = SensorConfig{Instance: 3, SCL: "PA8", SDA: "PC9", PowerDown: "PB1"}
	want.Display = DisplayConfig{SpeedHz: 8000000, DC: "PB6"}
	want.GPIO = map[string]string{"PB6": "GPIO24", "PB1": "GPIO17"}
	want.Caption = CaptionConfig{Size: 12}
	if diff := cmp.Diff(cfg, want); diff != "" {
		t.Fatalf("(-got +want)\n%s", diff)
	}
	if p, err := cfg.Instance(); err != nil || p != hal.I2C3 {
		t.Errorf("Instance() = %s, %v", p, err)
	}
	if p := cfg.Pin(cfg.Sensor.PowerDown); p != (hal.Pin{Port: hal.PortB, Num: 1}) {
		t.Errorf("Pin() = %s", p)
	}
	if p := cfg.Pin(cfg.Display.RST); p.Valid() {
		t.Errorf("unwired RST parsed as %s", p)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, doc := range []string{
		"sensor: {instance: 4}",
		"sensor: {scl: PZ1}",
		"display: {dc: PA99}",
		"gpio: {GPIO24: PA6}",
		"strict: [",
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q) should fail", doc)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "camtft.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, DefaultConfig()); diff != "" {
		t.Fatalf("(-got +want)\n%s", diff)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if m := fi.Mode().Perm(); m != 0o600 {
		t.Errorf("mode %o", m)
	}

	cfg.Caption.Text = "bench"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Caption.Text != "bench" {
		t.Errorf("caption %q", got.Caption.Text)
	}
	if _, err := Load(""); err == nil {
		t.Error("expected error")
	}
}

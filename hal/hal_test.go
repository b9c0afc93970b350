// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

func TestPin(t *testing.T) {
	for _, tc := range []struct {
		pin   Pin
		valid bool
		s     string
	}{
		{Pin{}, false, "INVALID"},
		{Pin{Port: PortA, Num: 9}, true, "PA9"},
		{Pin{Port: PortH, Num: 15}, true, "PH15"},
		{Pin{Port: PortB, Num: 16}, false, "INVALID"},
		{Pin{Port: PortH + 1, Num: 0}, false, "INVALID"},
	} {
		if got := tc.pin.Valid(); got != tc.valid {
			t.Errorf("%#v.Valid() = %t, want %t", tc.pin, got, tc.valid)
		}
		if got := tc.pin.String(); got != tc.s {
			t.Errorf("%#v.String() = %q, want %q", tc.pin, got, tc.s)
		}
	}
}

func TestParsePin(t *testing.T) {
	for _, s := range []string{"PA9", "PF0", "PH15"} {
		p, err := ParsePin(s)
		if err != nil {
			t.Fatal(err)
		}
		if p.String() != s {
			t.Errorf("ParsePin(%q) = %s", s, p)
		}
	}
	if p, err := ParsePin(""); err != nil || p.Valid() {
		t.Errorf("ParsePin(\"\") = %s, %v", p, err)
	}
	for _, s := range []string{"A9", "PI1", "PA16", "PA", "PA-1", "pa9"} {
		if _, err := ParsePin(s); err == nil {
			t.Errorf("ParsePin(%q) should fail", s)
		}
	}
}

func TestPortClock(t *testing.T) {
	if c := PortA.Clock(); c != GPIOA {
		t.Errorf("PortA.Clock() = %s", c)
	}
	if c := PortF.Clock(); c != GPIOF {
		t.Errorf("PortF.Clock() = %s", c)
	}
	if c := PortNone.Clock(); c != PeripheralNone {
		t.Errorf("PortNone.Clock() = %s", c)
	}
}

type fakeGPIO struct {
	events []string
	stuck  bool
	clocks map[Peripheral]bool
	cfgs   map[Pin]PinConfig
	levels map[Pin]gpio.Level
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		clocks: map[Peripheral]bool{},
		cfgs:   map[Pin]PinConfig{},
		levels: map[Pin]gpio.Level{},
	}
}

func (f *fakeGPIO) EnableClock(p Peripheral) error {
	f.events = append(f.events, "clock "+p.String()+" on")
	f.clocks[p] = !f.stuck
	return nil
}

func (f *fakeGPIO) DisableClock(p Peripheral) error {
	delete(f.clocks, p)
	return nil
}

func (f *fakeGPIO) ClockEnabled(p Peripheral) bool {
	return f.clocks[p]
}

func (f *fakeGPIO) ConfigurePin(p Pin, cfg PinConfig) error {
	f.events = append(f.events, "configure "+p.String())
	f.cfgs[p] = cfg
	return nil
}

func (f *fakeGPIO) ResetPin(p Pin) error {
	delete(f.cfgs, p)
	return nil
}

func (f *fakeGPIO) WritePin(p Pin, l gpio.Level) error {
	f.events = append(f.events, p.String()+" "+l.String())
	f.levels[p] = l
	return nil
}

func (f *fakeGPIO) ReadPin(p Pin) gpio.Level {
	return f.levels[p]
}

func TestPinOut(t *testing.T) {
	g := newFakeGPIO()
	p := Pin{Port: PortB, Num: 6}
	out := NewPinOut(g, p)
	if out.Number() != 22 {
		t.Errorf("Number() = %d", out.Number())
	}
	if err := out.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if cfg := g.cfgs[p]; cfg.Mode != ModeOutput || cfg.Pull != gpio.Float {
		t.Errorf("unexpected config %#v", cfg)
	}
	if err := out.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	want := []string{"clock GPIOB on", "configure PB6", "PB6 High", "PB6 Low"}
	if diff := cmp.Diff(g.events, want); diff != "" {
		t.Fatalf("Out() mismatch (-got +want):\n%s", diff)
	}
	if out.PWM(gpio.DutyHalf, 0) == nil {
		t.Error("PWM() should fail")
	}
}

func TestPinOut_ClockStuck(t *testing.T) {
	g := newFakeGPIO()
	g.stuck = true
	out := NewPinOut(g, Pin{Port: PortC, Num: 1})
	if err := out.Out(gpio.High); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff(g.events, []string{"clock GPIOC on"}); diff != "" {
		t.Fatalf("Out() mismatch (-got +want):\n%s", diff)
	}

	if err := NewPinOut(newFakeGPIO(), Pin{}).Out(gpio.High); err == nil {
		t.Error("unwired pin driven")
	}
}

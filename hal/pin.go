// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hal

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// PinController is the part of an MCU needed to drive a pin: its port clock
// and the GPIO block.
type PinController interface {
	Clocks
	GPIO
}

// NewPinOut returns a periph gpio.PinOut backed by an MCU pin.
//
// The first Out() enables the port clock and configures the pin as a low
// speed push-pull output without pull resistor, the way the display control
// lines are wired.
func NewPinOut(c PinController, p Pin) gpio.PinOut {
	return &pinOut{c: c, p: p}
}

type pinOut struct {
	c          PinController
	p          Pin
	configured bool
}

func (p *pinOut) String() string {
	return p.p.String()
}

// Halt implements conn.Resource.
func (p *pinOut) Halt() error {
	return nil
}

func (p *pinOut) Name() string {
	return p.p.String()
}

func (p *pinOut) Number() int {
	if !p.p.Valid() {
		return -1
	}
	return int(p.p.Port-PortA)*16 + int(p.p.Num)
}

func (p *pinOut) Function() string {
	if p.configured {
		return "Out"
	}
	return ""
}

// Out implements gpio.PinOut.
func (p *pinOut) Out(l gpio.Level) error {
	if !p.configured {
		if err := p.configure(); err != nil {
			return err
		}
		p.configured = true
	}
	return p.c.WritePin(p.p, l)
}

func (p *pinOut) configure() error {
	if !p.p.Valid() {
		return fmt.Errorf("hal: pin %s is not wired", p.p)
	}
	clk := p.p.Port.Clock()
	if err := p.c.EnableClock(clk); err != nil {
		return err
	}
	if !p.c.ClockEnabled(clk) {
		return fmt.Errorf("hal: %s: %s is disabled", p.p, clk)
	}
	return p.c.ConfigurePin(p.p, PinConfig{Mode: ModeOutput, Pull: gpio.Float, Speed: SpeedLow})
}

// PWM implements gpio.PinOut.
func (p *pinOut) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("hal: PWM is not supported")
}

var _ gpio.PinOut = &pinOut{}

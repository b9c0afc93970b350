// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostbus

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/camtft/hal"
	"periph.io/x/conn/v3/gpio"
)

// MCU implements hal.MCU for a host where the buses are managed by the
// kernel.
//
// Pins present in the map are driven through periph. The others, typically
// the I²C lines, only have their configuration recorded. Clocks and
// interrupts are bookkeeping.
type MCU struct {
	// OnHalt is called by Halt. When nil, Halt only records the error.
	OnHalt func(err error)

	mu     sync.Mutex
	pins   map[hal.Pin]gpio.PinIO
	cfgs   map[hal.Pin]hal.PinConfig
	levels map[hal.Pin]gpio.Level
	clocks map[hal.Peripheral]bool
	irqs   map[hal.IRQ]bool
	prio   map[hal.IRQ]uint8
	halted error
}

// NewMCU returns an MCU driving pins. pins may be nil.
func NewMCU(pins map[hal.Pin]gpio.PinIO) *MCU {
	return &MCU{
		pins:   pins,
		cfgs:   map[hal.Pin]hal.PinConfig{},
		levels: map[hal.Pin]gpio.Level{},
		clocks: map[hal.Peripheral]bool{},
		irqs:   map[hal.IRQ]bool{},
		prio:   map[hal.IRQ]uint8{},
	}
}

// PinOut returns p as a periph output.
func (m *MCU) PinOut(p hal.Pin) gpio.PinOut {
	return hal.NewPinOut(m, p)
}

// EnableClock implements hal.Clocks.
func (m *MCU) EnableClock(p hal.Peripheral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clocks[p] = true
	return nil
}

// DisableClock implements hal.Clocks.
func (m *MCU) DisableClock(p hal.Peripheral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clocks, p)
	return nil
}

// ClockEnabled implements hal.Clocks.
func (m *MCU) ClockEnabled(p hal.Peripheral) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clocks[p]
}

// ConfigurePin implements hal.GPIO.
func (m *MCU) ConfigurePin(p hal.Pin, cfg hal.PinConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfgs[p] = cfg
	pin, ok := m.pins[p]
	if !ok {
		return nil
	}
	switch cfg.Mode {
	case hal.ModeOutput, hal.ModeOutputOpenDrain:
		return pin.Out(m.levels[p])
	case hal.ModeInput:
		return pin.In(cfg.Pull, gpio.NoEdge)
	case hal.ModeAnalog:
		return pin.In(gpio.Float, gpio.NoEdge)
	default:
		return fmt.Errorf("hostbus: %s: alternate functions are not available on %s", p, pin)
	}
}

// ResetPin implements hal.GPIO.
func (m *MCU) ResetPin(p hal.Pin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cfgs, p)
	delete(m.levels, p)
	if pin, ok := m.pins[p]; ok {
		return pin.In(gpio.Float, gpio.NoEdge)
	}
	return nil
}

// WritePin implements hal.GPIO.
func (m *MCU) WritePin(p hal.Pin, l gpio.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[p] = l
	if pin, ok := m.pins[p]; ok {
		return pin.Out(l)
	}
	return nil
}

// ReadPin implements hal.GPIO.
func (m *MCU) ReadPin(p hal.Pin) gpio.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pin, ok := m.pins[p]; ok {
		return pin.Read()
	}
	return m.levels[p]
}

// PinConfig returns the last configuration of p.
func (m *MCU) PinConfig(p hal.Pin) (hal.PinConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.cfgs[p]
	return cfg, ok
}

// PriorityGrouping implements hal.NVIC. The host has no priority bits to
// split, so it reports the grouping the drivers expect.
func (m *MCU) PriorityGrouping() hal.PriorityGroup {
	return hal.PriorityGroup4
}

// SetPriority implements hal.NVIC.
func (m *MCU) SetPriority(irq hal.IRQ, preempt, sub uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prio[irq] = preempt
}

// EnableIRQ implements hal.NVIC.
func (m *MCU) EnableIRQ(irq hal.IRQ) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.irqs[irq] = true
}

// DisableIRQ implements hal.NVIC.
func (m *MCU) DisableIRQ(irq hal.IRQ) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.irqs, irq)
}

// IRQEnabled returns true if irq is enabled.
func (m *MCU) IRQEnabled(irq hal.IRQ) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.irqs[irq]
}

// Halt implements hal.MCU.
func (m *MCU) Halt(err error) {
	m.mu.Lock()
	m.halted = err
	f := m.OnHalt
	m.mu.Unlock()
	if f != nil {
		f(err)
	}
}

// Halted returns the error passed to the last Halt call.
func (m *MCU) Halted() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.halted
}

var _ hal.MCU = &MCU{}

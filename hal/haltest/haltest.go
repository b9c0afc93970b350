// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package haltest is meant to be used to test drivers written against package
// hal.
//
// Every fake appends to a shared Log, so a test can assert the relative order
// of clock, pin, interrupt and bus operations.
package haltest

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Log is an ordered record of operations.
type Log struct {
	mu     sync.Mutex
	Events []string
}

// Add appends a formatted event.
func (l *Log) Add(format string, a ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Events = append(l.Events, fmt.Sprintf(format, a...))
}

// Reset drops all recorded events.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Events = nil
}

// MCU is a fake hal.MCU.
type MCU struct {
	Log *Log

	Clocks     map[hal.Peripheral]bool
	Pins       map[hal.Pin]hal.PinConfig
	Levels     map[hal.Pin]gpio.Level
	IRQs       map[hal.IRQ]bool
	Priorities map[hal.IRQ]uint8
	Grouping   hal.PriorityGroup
	// StuckClocks never turn on.
	StuckClocks map[hal.Peripheral]bool
	// PinErr is returned by ConfigurePin when set.
	PinErr error
	Halted []error
}

// NewMCU returns an MCU in reset state with the priority grouping the
// drivers expect.
func NewMCU(l *Log) *MCU {
	return &MCU{
		Log:         l,
		Clocks:      map[hal.Peripheral]bool{},
		Pins:        map[hal.Pin]hal.PinConfig{},
		Levels:      map[hal.Pin]gpio.Level{},
		IRQs:        map[hal.IRQ]bool{},
		Priorities:  map[hal.IRQ]uint8{},
		Grouping:    hal.PriorityGroup4,
		StuckClocks: map[hal.Peripheral]bool{},
	}
}

// EnableClock implements hal.Clocks.
func (m *MCU) EnableClock(p hal.Peripheral) error {
	m.Log.Add("clock %s on", p)
	if !m.StuckClocks[p] {
		m.Clocks[p] = true
	}
	return nil
}

// DisableClock implements hal.Clocks.
func (m *MCU) DisableClock(p hal.Peripheral) error {
	m.Log.Add("clock %s off", p)
	delete(m.Clocks, p)
	return nil
}

// ClockEnabled implements hal.Clocks.
func (m *MCU) ClockEnabled(p hal.Peripheral) bool {
	return m.Clocks[p]
}

// ConfigurePin implements hal.GPIO.
func (m *MCU) ConfigurePin(p hal.Pin, cfg hal.PinConfig) error {
	if m.PinErr != nil {
		return m.PinErr
	}
	m.Log.Add("pin %s mode=%d pull=%s speed=%d af=%d", p, cfg.Mode, cfg.Pull, cfg.Speed, cfg.Alt)
	m.Pins[p] = cfg
	return nil
}

// ResetPin implements hal.GPIO.
func (m *MCU) ResetPin(p hal.Pin) error {
	m.Log.Add("pin %s reset", p)
	delete(m.Pins, p)
	delete(m.Levels, p)
	return nil
}

// WritePin implements hal.GPIO.
func (m *MCU) WritePin(p hal.Pin, l gpio.Level) error {
	m.Log.Add("pin %s %s", p, l)
	m.Levels[p] = l
	return nil
}

// ReadPin implements hal.GPIO.
func (m *MCU) ReadPin(p hal.Pin) gpio.Level {
	return m.Levels[p]
}

// PriorityGrouping implements hal.NVIC.
func (m *MCU) PriorityGrouping() hal.PriorityGroup {
	return m.Grouping
}

// SetPriority implements hal.NVIC.
func (m *MCU) SetPriority(irq hal.IRQ, preempt, sub uint8) {
	m.Log.Add("irq %d priority %d", irq, preempt)
	m.Priorities[irq] = preempt
}

// EnableIRQ implements hal.NVIC.
func (m *MCU) EnableIRQ(irq hal.IRQ) {
	m.Log.Add("irq %d on", irq)
	m.IRQs[irq] = true
}

// DisableIRQ implements hal.NVIC.
func (m *MCU) DisableIRQ(irq hal.IRQ) {
	m.Log.Add("irq %d off", irq)
	delete(m.IRQs, irq)
}

// Halt implements hal.MCU. It records err and returns.
func (m *MCU) Halt(err error) {
	m.Log.Add("halt %v", err)
	m.Halted = append(m.Halted, err)
}

// Pin is a gpiotest.Pin that logs every Out() call.
type Pin struct {
	gpiotest.Pin
	Log *Log
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.Log.Add("%s %s", p.N, l)
	return p.Pin.Out(l)
}

// UART is a fake hal.UART.
type UART struct {
	NotReady bool
	Err      error
	Sent     [][]byte
}

// Ready implements hal.UART.
func (u *UART) Ready() bool {
	return u != nil && !u.NotReady
}

// Transmit implements hal.UART.
func (u *UART) Transmit(p []byte, timeout time.Duration) error {
	if u.Err != nil {
		return u.Err
	}
	u.Sent = append(u.Sent, append([]byte(nil), p...))
	return nil
}

var _ hal.MCU = &MCU{}
var _ gpio.PinOut = &Pin{}
var _ hal.UART = &UART{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ov7670

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Addr is the 7-bit SCCB address of the sensor.
const Addr uint16 = 0x21

const (
	// Precomputed TIMINGR value for 100kHz from the 8MHz clock tree.
	i2cTiming    = 0x2000090E
	busTimeout   = 25 * time.Millisecond
	probeTrials  = 3
	probeTimeout = 50 * time.Millisecond
	resetSettle  = time.Millisecond
)

var sleep = time.Sleep

// Pins is the wiring of the sensor.
//
// Only SCL and SDA are driven by this package. PowerDown is optional; leave
// it zero when unwired.
type Pins struct {
	SCL, SDA         hal.Pin
	VSYNC, HREF      hal.Pin
	PCLK             hal.Pin
	D                [8]hal.Pin
	Reset, PowerDown hal.Pin
}

// Opts holds the configuration options.
type Opts struct {
	// Instance is the I²C controller the sensor is wired to: hal.I2C1,
	// hal.I2C2 or hal.I2C3.
	Instance hal.Peripheral
	// Strict validates the pin descriptors and the interrupt priority
	// grouping, and halts the MCU through hal.MCU.Halt on a failed register
	// transfer after reporting it on Diag.
	Strict bool
	// IRQPriority is the preemption priority of the event and error
	// interrupts.
	IRQPriority uint8
	// Diag receives status lines in strict mode. May be nil.
	Diag hal.UART
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Instance:    hal.I2C2,
	IRQPriority: 2,
}

type instance struct {
	clock    hal.Peripheral
	ev, er   hal.IRQ
	altFuncs map[hal.Port]hal.AltFunc
}

// Alternate functions routing each instance to the ports it is available on.
var instances = map[hal.Peripheral]instance{
	hal.I2C1: {hal.I2C1, hal.I2C1Event, hal.I2C1Error, map[hal.Port]hal.AltFunc{
		hal.PortA: 4, hal.PortB: 4,
	}},
	hal.I2C2: {hal.I2C2, hal.I2C2Event, hal.I2C2Error, map[hal.Port]hal.AltFunc{
		hal.PortA: 4, hal.PortF: 4,
	}},
	hal.I2C3: {hal.I2C3, hal.I2C3Event, hal.I2C3Error, map[hal.Port]hal.AltFunc{
		hal.PortA: 3, hal.PortB: 8, hal.PortC: 3,
	}},
}

type state uint8

const (
	stateReset state = iota
	stateClocked
	statePins
	stateIRQ
	stateBus
	stateProbed
	stateReady
	stateHalted
)

var stateNames = [...]string{"reset", "clocked", "pins", "irq", "bus", "probed", "ready", "halted"}

func (s state) String() string {
	return stateNames[s]
}

// Dev is a handle to an initialized OV7670 sensor.
type Dev struct {
	mu       sync.Mutex
	mcu      hal.MCU
	bus      hal.I2C
	opts     Opts
	inst     instance
	scl, sda hal.Pin
	pwdn     hal.Pin
	state    state
	reporter status.Reporter
}

// New brings up the I²C controller wired to the sensor, waits for the sensor
// to answer and resets it.
//
// pins is only read. The pins needed for Halt are copied.
//
// A failure after the first side effect returns the partially initialized
// Dev along with the error, so the caller can call Halt to undo the steps
// that completed. New never rolls back on its own.
func New(mcu hal.MCU, bus hal.I2C, pins *Pins, opts *Opts) (*Dev, error) {
	if pins == nil || mcu == nil || bus == nil {
		return nil, fmt.Errorf("ov7670: missing argument: %w", status.ErrNullArg)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	inst, ok := instances[opts.Instance]
	if !ok {
		return nil, fmt.Errorf("ov7670: %s is not an I²C instance", opts.Instance)
	}
	d := &Dev{
		mcu:      mcu,
		bus:      bus,
		opts:     *opts,
		inst:     inst,
		scl:      pins.SCL,
		sda:      pins.SDA,
		pwdn:     pins.PowerDown,
		reporter: status.Reporter{Channel: opts.Diag, Enabled: opts.Strict},
	}
	if err := d.init(); err != nil {
		return d, err
	}
	return d, nil
}

func (d *Dev) init() error {
	if err := d.mcu.EnableClock(d.inst.clock); err != nil {
		return fmt.Errorf("ov7670: enabling %s: %w", d.inst.clock, err)
	}
	d.state = stateClocked

	if err := d.initPin(d.scl, gpio.PullUp); err != nil {
		return fmt.Errorf("ov7670: SCL: %w", err)
	}
	if err := d.initPin(d.sda, gpio.Float); err != nil {
		return fmt.Errorf("ov7670: SDA: %w", err)
	}
	d.state = statePins

	if d.opts.Strict && d.mcu.PriorityGrouping() != hal.PriorityGroup4 {
		return fmt.Errorf("ov7670: priority grouping %d: %w", d.mcu.PriorityGrouping(), status.ErrPriorityGroup)
	}
	d.mcu.SetPriority(d.inst.ev, d.opts.IRQPriority, 0)
	d.mcu.EnableIRQ(d.inst.ev)
	d.mcu.SetPriority(d.inst.er, d.opts.IRQPriority, 0)
	d.mcu.EnableIRQ(d.inst.er)
	d.state = stateIRQ

	cfg := hal.I2CConfig{
		Timing:       i2cTiming,
		AnalogFilter: true,
		Timeout:      busTimeout,
	}
	if err := d.bus.Configure(&cfg); err != nil {
		return fmt.Errorf("ov7670: configuring %s: %w", d.bus, err)
	}
	d.state = stateBus

	if err := d.probe(); err != nil {
		return err
	}
	d.state = stateProbed

	if err := d.reset(); err != nil {
		return err
	}
	d.state = stateReady
	return nil
}

func (d *Dev) initPin(p hal.Pin, pull gpio.Pull) error {
	if d.opts.Strict && !p.Valid() {
		return fmt.Errorf("pin %s: %w", p, status.ErrGPIOProperties)
	}
	if !p.Port.Valid() {
		return fmt.Errorf("port %s: %w", p.Port, status.ErrGPIOPort)
	}
	clk := p.Port.Clock()
	if err := d.mcu.EnableClock(clk); err != nil {
		return err
	}
	if !d.mcu.ClockEnabled(clk) {
		return fmt.Errorf("%s: %w", clk, status.ErrGPIOClock)
	}
	af, ok := d.inst.altFuncs[p.Port]
	if !ok {
		return fmt.Errorf("%s is not available on %s: %w", d.inst.clock, p.Port, status.ErrGPIOProperties)
	}
	return d.mcu.ConfigurePin(p, hal.PinConfig{Mode: hal.ModeAltOpenDrain, Pull: pull, Speed: hal.SpeedHigh, Alt: af})
}

// probe retries the address-only handshake. Nothing else is retried.
func (d *Dev) probe() error {
	var err error
	for i := 0; i < probeTrials; i++ {
		if err = d.bus.Probe(Addr, probeTimeout); err == nil {
			return nil
		}
	}
	return fmt.Errorf("ov7670: no answer after %d attempts: %w", probeTrials, err)
}

func (d *Dev) reset() error {
	if err := d.writeRegister(RegCOM7, com7Reset); err != nil {
		return err
	}
	sleep(resetSettle)
	return nil
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("OV7670{%s, %s}", d.bus, d.state)
}

// Halt puts the sensor in standby and releases the controller.
//
// The power-down pin is used when wired; otherwise, or when its port clock
// does not turn on, standby is requested over the bus. Halt continues past
// individual failures and returns the first one.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	standby := true
	if d.pwdn.Valid() {
		err := d.powerDown()
		keep(err)
		standby = err != nil
	}
	// A sensor that never answered the probe is not written to.
	if standby && d.state >= stateProbed && d.state != stateHalted {
		keep(d.writeRegister(RegCOM2, com2Standby))
	}
	keep(d.mcu.DisableClock(d.inst.clock))
	keep(d.mcu.ResetPin(d.scl))
	keep(d.mcu.ResetPin(d.sda))
	d.mcu.DisableIRQ(d.inst.ev)
	d.mcu.DisableIRQ(d.inst.er)
	d.state = stateHalted
	if len(errs) != 0 {
		return fmt.Errorf("ov7670: halt: %w", errs[0])
	}
	return nil
}

// powerDown drives the power-down pin high. Standby over the bus is the
// fallback when it fails.
func (d *Dev) powerDown() error {
	clk := d.pwdn.Port.Clock()
	if err := d.mcu.EnableClock(clk); err != nil {
		return err
	}
	if !d.mcu.ClockEnabled(clk) {
		return fmt.Errorf("power down %s: %s: %w", d.pwdn, clk, status.ErrGPIOClock)
	}
	if err := d.mcu.ConfigurePin(d.pwdn, hal.PinConfig{Mode: hal.ModeOutput, Pull: gpio.Float, Speed: hal.SpeedLow}); err != nil {
		return err
	}
	return d.mcu.WritePin(d.pwdn, gpio.High)
}

// HandleEventIRQ must be called from the event interrupt of the instance.
func (d *Dev) HandleEventIRQ() {
	d.bus.HandleEvent()
}

// HandleErrorIRQ must be called from the error interrupt of the instance.
func (d *Dev) HandleErrorIRQ() {
	d.bus.HandleError()
}

// check applies the strict mode policy to the result of a register access.
func (d *Dev) check(err error) error {
	if err == nil || !d.opts.Strict {
		return err
	}
	d.reporter.Report(err)
	d.mcu.Halt(err)
	return err
}

var _ conn.Resource = &Dev{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hal

import (
	"fmt"
	"strconv"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Port identifies a GPIO port. The zero value is not a port.
type Port uint8

// Ports available on the STM32F3 family.
const (
	PortNone Port = iota
	PortA
	PortB
	PortC
	PortD
	PortE
	PortF
	PortG
	PortH
)

func (p Port) String() string {
	if p < PortA || p > PortH {
		return "P?"
	}
	return "P" + string(rune('A'+p-PortA))
}

// Valid returns true if p names an existing port.
func (p Port) Valid() bool {
	return p >= PortA && p <= PortH
}

// Clock returns the clock gate of the port.
func (p Port) Clock() Peripheral {
	if !p.Valid() {
		return PeripheralNone
	}
	return GPIOA + Peripheral(p-PortA)
}

// Pin identifies one GPIO line.
//
// The zero value is an unwired pin.
type Pin struct {
	Port Port
	Num  uint8
}

// Valid returns true if the pin is wired to an existing line.
func (p Pin) Valid() bool {
	return p.Port.Valid() && p.Num < 16
}

func (p Pin) String() string {
	if !p.Valid() {
		return "INVALID"
	}
	return p.Port.String() + strconv.Itoa(int(p.Num))
}

// ParsePin parses a pin name like "PA9". The empty string is the unwired pin.
func ParsePin(s string) (Pin, error) {
	if s == "" {
		return Pin{}, nil
	}
	if len(s) < 3 || s[0] != 'P' || s[1] < 'A' || s[1] > 'H' {
		return Pin{}, fmt.Errorf("hal: invalid pin name %q", s)
	}
	n, err := strconv.ParseUint(s[2:], 10, 8)
	if err != nil || n > 15 {
		return Pin{}, fmt.Errorf("hal: invalid pin name %q", s)
	}
	return Pin{Port: PortA + Port(s[1]-'A'), Num: uint8(n)}, nil
}

// Mode is the electrical mode of a pin.
type Mode uint8

// Pin modes.
const (
	ModeInput Mode = iota
	ModeOutput
	ModeOutputOpenDrain
	ModeAltPushPull
	ModeAltOpenDrain
	ModeAnalog
)

// Speed is the output slew rate tier of a pin.
type Speed uint8

// Output speed tiers.
const (
	SpeedLow Speed = iota
	SpeedMedium
	SpeedHigh
)

// AltFunc selects the peripheral routed to a pin in alternate mode.
type AltFunc uint8

// PinConfig is the full configuration of a pin.
type PinConfig struct {
	Mode  Mode
	Pull  gpio.Pull
	Speed Speed
	Alt   AltFunc
}

// Peripheral names a clock gate.
type Peripheral uint8

// Clock gates used by the drivers.
const (
	PeripheralNone Peripheral = iota
	I2C1
	I2C2
	I2C3
	SPI1
	GPIOA
	GPIOB
	GPIOC
	GPIOD
	GPIOE
	GPIOF
	GPIOG
	GPIOH
)

var peripheralNames = [...]string{
	"NONE", "I2C1", "I2C2", "I2C3", "SPI1",
	"GPIOA", "GPIOB", "GPIOC", "GPIOD", "GPIOE", "GPIOF", "GPIOG", "GPIOH",
}

func (p Peripheral) String() string {
	if int(p) < len(peripheralNames) {
		return peripheralNames[p]
	}
	return "Peripheral(" + strconv.Itoa(int(p)) + ")"
}

// IRQ is an interrupt line number.
type IRQ int16

// Interrupt lines of the I²C instances.
const (
	I2C1Event IRQ = 31
	I2C1Error IRQ = 32
	I2C2Event IRQ = 33
	I2C2Error IRQ = 34
	I2C3Event IRQ = 72
	I2C3Error IRQ = 73
)

// PriorityGroup is the NVIC split between preemption and sub priority bits.
type PriorityGroup uint8

// PriorityGroup4 dedicates all four bits to preemption priority.
const (
	PriorityGroup0 PriorityGroup = iota
	PriorityGroup1
	PriorityGroup2
	PriorityGroup3
	PriorityGroup4
)

// Clocks gates peripheral clocks.
type Clocks interface {
	EnableClock(p Peripheral) error
	DisableClock(p Peripheral) error
	ClockEnabled(p Peripheral) bool
}

// GPIO configures and drives pins.
type GPIO interface {
	ConfigurePin(p Pin, cfg PinConfig) error
	// ResetPin returns the pin to its reset state (analog input on STM32).
	ResetPin(p Pin) error
	WritePin(p Pin, l gpio.Level) error
	ReadPin(p Pin) gpio.Level
}

// NVIC is the interrupt controller.
type NVIC interface {
	PriorityGrouping() PriorityGroup
	SetPriority(irq IRQ, preempt, sub uint8)
	EnableIRQ(irq IRQ)
	DisableIRQ(irq IRQ)
}

// MCU is the set of core services of the microcontroller.
type MCU interface {
	Clocks
	GPIO
	NVIC
	// Halt disables interrupts and stops the program. It does not return on
	// hardware.
	Halt(err error)
}

// I2CConfig is the controller configuration of an I²C instance.
type I2CConfig struct {
	// Timing is the precomputed TIMINGR value for the clock tree.
	Timing uint32
	// Speed is used by controllers that take a bus frequency instead of a
	// timing register. Zero keeps the current speed.
	Speed physic.Frequency
	// OwnAddress is 0 for a controller that is never addressed.
	OwnAddress    uint16
	TenBit        bool
	GeneralCall   bool
	NoStretch     bool
	AnalogFilter  bool
	DigitalFilter uint8
	// Timeout bounds every synchronous transfer.
	Timeout time.Duration
}

// I2C is an I²C controller instance.
//
// Tx is synchronous and bounded by I2CConfig.Timeout. Addresses are 7-bit.
type I2C interface {
	i2c.Bus
	Configure(cfg *I2CConfig) error
	// Probe does one address-only handshake with addr.
	Probe(addr uint16, timeout time.Duration) error
	// TxAsync starts an interrupt-driven transfer and returns immediately.
	// Completion is observed with Busy.
	TxAsync(addr uint16, w, r []byte) error
	Busy() bool
	// HandleEvent and HandleError are called from the event and error
	// interrupt handlers of the instance.
	HandleEvent()
	HandleError()
}

// SPI is an SPI controller instance with a DMA channel.
//
// Tx is synchronous and bounded by the timeout set with SetTimeout.
type SPI interface {
	conn.Conn
	SetTimeout(d time.Duration)
	Enable() error
	Disable() error
	Enabled() bool
	// DataSize returns the number of bits shifted per frame.
	DataSize() int
	// SetDataSize changes the frame width. It fails if the controller is
	// enabled.
	SetDataSize(bits int) error
	// TxDMA arms a DMA transmit of w and returns immediately. w must not be
	// modified until Busy returns false.
	TxDMA(w []byte) error
	Busy() bool
}

// UART is the blocking diagnostic serial channel.
type UART interface {
	Ready() bool
	Transmit(p []byte, timeout time.Duration) error
}

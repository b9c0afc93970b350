// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinygobus adapts TinyGo buses to periph connections.
//
// machine.I2C and machine.SPI satisfy the tinygo.org/x/drivers interfaces,
// so wrapping them here lets hostbus, and through it the camera and display
// drivers, run on a TinyGo target.
package tinygobus

import (
	"errors"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// I2C is an i2c.Bus backed by a TinyGo I²C bus.
type I2C struct {
	Bus  drivers.I2C
	Name string
}

func (b *I2C) String() string {
	if b.Name == "" {
		return "tinygo.I2C"
	}
	return b.Name
}

// Tx implements i2c.Bus.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	return b.Bus.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
//
// The frequency of a TinyGo bus is fixed by machine.I2CConfig.
func (b *I2C) SetSpeed(f physic.Frequency) error {
	return errors.New("tinygobus: speed is set when configuring the machine bus")
}

// SPI is a conn.Conn backed by a TinyGo SPI bus.
type SPI struct {
	Bus  drivers.SPI
	Name string
}

func (s *SPI) String() string {
	if s.Name == "" {
		return "tinygo.SPI"
	}
	return s.Name
}

// Tx implements conn.Conn.
func (s *SPI) Tx(w, r []byte) error {
	return s.Bus.Tx(w, r)
}

// Duplex implements conn.Conn.
func (s *SPI) Duplex() conn.Duplex {
	return conn.Full
}

var _ i2c.Bus = &I2C{}
var _ conn.Conn = &SPI{}

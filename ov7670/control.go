// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ov7670

import (
	"fmt"

	"github.com/GermanBionicSystems/camtft/status"
)

// MaxGain is the largest value accepted by SetGain.
const MaxGain = 1023

// SetGain sets the 10 bit AGC gain. The low byte goes to GAIN and bits 9:8
// to VREF[7:6].
func (d *Dev) SetGain(g uint16) error {
	if g > MaxGain {
		return fmt.Errorf("ov7670: gain %d out of range [0, %d]", g, MaxGain)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeRegister(RegGAIN, byte(g)); err != nil {
		return d.check(err)
	}
	return d.check(d.modify(RegVREF, vrefGainHigh, byte(g>>8)<<6))
}

// SetBlueGain sets the AWB blue channel gain.
func (d *Dev) SetBlueGain(g byte) error {
	return d.WriteRegister(RegBLUE, g)
}

// SetRedGain sets the AWB red channel gain.
func (d *Dev) SetRedGain(g byte) error {
	return d.WriteRegister(RegRED, g)
}

// SetCCIR656 enables the CCIR656 embedded sync format.
func (d *Dev) SetCCIR656(on bool) error {
	return d.UpdateRegister(RegCOM1, com1CCIR656, on)
}

// SetMirror flips the image horizontally.
func (d *Dev) SetMirror(on bool) error {
	return d.UpdateRegister(RegMVFP, mvfpMirror, on)
}

// SetFlip flips the image vertically.
func (d *Dev) SetFlip(on bool) error {
	return d.UpdateRegister(RegMVFP, mvfpFlip, on)
}

// Reset restores every register to its default value.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.check(d.reset())
}

// Standby stops the sensor array. Registers keep their values.
func (d *Dev) Standby() error {
	return d.WriteRegister(RegCOM2, com2Standby)
}

// SetClockPrescaler divides the input clock by div, 1 to 64.
//
// 1 feeds the input clock to the sensor directly. Other divisions yield no
// internal clock and fail with status.ErrPLLInvalidFreq.
func (d *Dev) SetClockPrescaler(div int) error {
	var v byte
	switch {
	case div == 1:
		v = clkrcExt
	case div > 1 && div <= 64:
		v = byte(div-1) & clkrcScale
	default:
		return fmt.Errorf("ov7670: prescaler %d: %w", div, status.ErrPLLInvalidFreq)
	}
	return d.WriteRegister(RegCLKRC, v)
}

// SetPLLMultiplier sets the input clock PLL to bypass (1) or x4, x6, x8.
func (d *Dev) SetPLLMultiplier(m int) error {
	var v byte
	switch m {
	case 1:
		v = 0
	case 4:
		v = 1 << 6
	case 6:
		v = 2 << 6
	case 8:
		v = 3 << 6
	default:
		return fmt.Errorf("ov7670: PLL multiplier %d: %w", m, status.ErrPLLForbidden)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.check(d.modify(RegDBLV, dblvPLL, v))
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ov7670

import (
	"fmt"

	"github.com/GermanBionicSystems/camtft/status"
)

// ReadRegister returns the value of reg.
//
// SCCB has no repeated start, so the address write and the one byte read are
// two separate transactions.
func (d *Dev) ReadRegister(reg Register) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readRegister(reg)
	return v, d.check(err)
}

// ReadRegisterAsync starts an interrupt driven read of reg into r[0] and
// returns once the transfer is armed.
//
// r must not be touched until Busy returns false.
func (d *Dev) ReadRegisterAsync(reg Register, r []byte) error {
	if len(r) == 0 {
		return fmt.Errorf("ov7670: read %s: empty buffer: %w", reg, status.ErrNullArg)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.bus.TxAsync(Addr, []byte{byte(reg)}, r[:1]); err != nil {
		return d.check(fmt.Errorf("ov7670: read %s: %w", reg, err))
	}
	return nil
}

// Busy returns true while an asynchronous transfer is in flight.
func (d *Dev) Busy() bool {
	return d.bus.Busy()
}

// WriteRegister sets reg to v.
func (d *Dev) WriteRegister(reg Register, v byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.check(d.writeRegister(reg, v))
}

// UpdateRegister sets (set true) or clears the mask bits of reg and leaves
// the others untouched.
func (d *Dev) UpdateRegister(reg Register, mask byte, set bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := byte(0)
	if set {
		v = mask
	}
	return d.check(d.modify(reg, mask, v))
}

func (d *Dev) readRegister(reg Register) (byte, error) {
	if d.bus.Busy() {
		return 0, fmt.Errorf("ov7670: read %s: %w", reg, status.ErrBusy)
	}
	if err := d.bus.Tx(Addr, []byte{byte(reg)}, nil); err != nil {
		return 0, fmt.Errorf("ov7670: read %s: %w", reg, err)
	}
	var r [1]byte
	if err := d.bus.Tx(Addr, nil, r[:]); err != nil {
		return 0, fmt.Errorf("ov7670: read %s: %w", reg, err)
	}
	return r[0], nil
}

func (d *Dev) writeRegister(reg Register, v byte) error {
	if d.bus.Busy() {
		return fmt.Errorf("ov7670: write %s: %w", reg, status.ErrBusy)
	}
	if err := d.bus.Tx(Addr, []byte{byte(reg), v}, nil); err != nil {
		return fmt.Errorf("ov7670: write %s: %w", reg, err)
	}
	return nil
}

// modify replaces the mask bits of reg with those of v.
func (d *Dev) modify(reg Register, mask, v byte) error {
	old, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.writeRegister(reg, old&^mask|v&mask)
}

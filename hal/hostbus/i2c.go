// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// I2C implements hal.I2C on top of a periph I²C bus.
//
// The bus driver handles the electrical configuration. Configure only keeps
// the timeout and the speed. Asynchronous transfers run on a goroutine.
type I2C struct {
	b i2c.Bus

	mu       sync.Mutex
	timeout  time.Duration
	pending  bool
	asyncErr error
}

// NewI2C returns a controller using b.
func NewI2C(b i2c.Bus) *I2C {
	return &I2C{b: b}
}

func (i *I2C) String() string {
	return i.b.String()
}

// SetSpeed implements i2c.Bus.
func (i *I2C) SetSpeed(f physic.Frequency) error {
	return i.b.SetSpeed(f)
}

// Tx implements i2c.Bus. It is bounded by the configured timeout.
func (i *I2C) Tx(addr uint16, w, r []byte) error {
	i.mu.Lock()
	pending, timeout := i.pending, i.timeout
	i.mu.Unlock()
	if pending {
		return status.ErrBusy
	}
	return withTimeout(timeout, func() error { return i.b.Tx(addr, w, r) })
}

// Configure implements hal.I2C.
func (i *I2C) Configure(cfg *hal.I2CConfig) error {
	if cfg.TenBit {
		return fmt.Errorf("hostbus: 10 bit addressing is not supported: %w", status.ErrBus)
	}
	if cfg.Speed != 0 {
		if err := i.b.SetSpeed(cfg.Speed); err != nil {
			return err
		}
	}
	i.mu.Lock()
	i.timeout = cfg.Timeout
	i.mu.Unlock()
	return nil
}

// Probe implements hal.I2C with a one byte read, as not every bus driver
// can issue an address only transaction.
func (i *I2C) Probe(addr uint16, timeout time.Duration) error {
	if i.Busy() {
		return status.ErrBusy
	}
	var b [1]byte
	return withTimeout(timeout, func() error { return i.b.Tx(addr, nil, b[:]) })
}

// TxAsync implements hal.I2C.
func (i *I2C) TxAsync(addr uint16, w, r []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.pending {
		return status.ErrBusy
	}
	i.pending = true
	go func() {
		err := i.b.Tx(addr, w, r)
		i.mu.Lock()
		i.pending = false
		i.asyncErr = err
		i.mu.Unlock()
	}()
	return nil
}

// Busy implements hal.I2C.
func (i *I2C) Busy() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending
}

// Err returns the result of the last asynchronous transfer.
func (i *I2C) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.asyncErr
}

// HandleEvent implements hal.I2C. Completion is tracked by the transfer
// goroutine so there is nothing to do.
func (i *I2C) HandleEvent() {}

// HandleError implements hal.I2C.
func (i *I2C) HandleError() {}

// withTimeout runs f, giving up after d. A zero d waits forever.
//
// f keeps running after a timeout; the bus driver serializes it with the
// following transfers.
func withTimeout(d time.Duration, f func() error) error {
	if d <= 0 {
		return f()
	}
	done := make(chan error, 1)
	go func() { done <- f() }()
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case err := <-done:
		return err
	case <-t.C:
		return fmt.Errorf("hostbus: after %s: %w", d, status.ErrTimeout)
	}
}

var _ hal.I2C = &I2C{}

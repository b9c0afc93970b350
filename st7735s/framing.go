// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735s

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

const (
	pollInterval = 100 * time.Microsecond
	// 1s worth of polling.
	waitPolls = int(time.Second / pollInterval)
)

// Command sends cmd followed by its parameters.
func (d *Dev) Command(cmd byte, data ...byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.send(command{cmd: cmd, data: data})
}

// Busy returns true while a frame is being transferred.
func (d *Dev) Busy() bool {
	return d.c.Busy()
}

// Wait blocks until the frame transfer completes, for up to one second.
func (d *Dev) Wait() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wait()
}

func (d *Dev) wait() error {
	for i := 0; d.c.Busy(); i++ {
		if i == waitPolls {
			return fmt.Errorf("st7735s: frame transfer: %w", status.ErrTimeout)
		}
		sleep(pollInterval)
	}
	return nil
}

func (d *Dev) send(c command) error {
	if err := d.sendCommand(c.cmd); err != nil {
		return err
	}
	if len(c.data) != 0 {
		if err := d.sendData(c.data); err != nil {
			return err
		}
	}
	if c.delay != 0 {
		sleep(c.delay)
	}
	return nil
}

func (d *Dev) sendCommand(cmd byte) error {
	if err := d.dataSize(8); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("st7735s: command %#02x: %w", cmd, err)
	}
	return nil
}

func (d *Dev) sendData(data []byte) error {
	if err := d.dataSize(8); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	n := len(data)
	if l, ok := d.c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		n = l.MaxTxSize()
	}
	for len(data) != 0 {
		chunk := data
		if len(chunk) > n {
			chunk = chunk[:n]
		}
		if err := d.c.Tx(chunk, nil); err != nil {
			return fmt.Errorf("st7735s: data: %w", err)
		}
		data = data[len(chunk):]
	}
	return nil
}

// dataSize switches the word width after the pending transfer completes.
// The controller only accepts the change while disabled.
func (d *Dev) dataSize(bits int) error {
	if err := d.wait(); err != nil {
		return err
	}
	if d.c.DataSize() == bits {
		return nil
	}
	if err := d.c.Disable(); err != nil {
		return fmt.Errorf("st7735s: %d bit words: %w", bits, err)
	}
	if err := d.c.SetDataSize(bits); err != nil {
		return fmt.Errorf("st7735s: %d bit words: %w", bits, err)
	}
	if err := d.c.Enable(); err != nil {
		return fmt.Errorf("st7735s: %d bit words: %w", bits, err)
	}
	return nil
}

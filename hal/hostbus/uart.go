// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostbus

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/tarm/serial"
)

// UART implements hal.UART over a writer.
type UART struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// NewUART returns a channel writing to w. A nil w is never ready.
func NewUART(w io.Writer) *UART {
	return &UART{w: w}
}

// OpenSerial opens a serial port as diagnostic channel, 8N1.
func OpenSerial(name string, baud int) (*UART, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: 25 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("hostbus: opening %s: %w", name, err)
	}
	return &UART{w: p, c: p}, nil
}

// Ready implements hal.UART.
func (u *UART) Ready() bool {
	return u != nil && u.w != nil
}

// Transmit implements hal.UART.
func (u *UART) Transmit(p []byte, timeout time.Duration) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return withTimeout(timeout, func() error {
		_, err := u.w.Write(p)
		return err
	})
}

// Close closes the underlying port, if any.
func (u *UART) Close() error {
	if u.c == nil {
		return nil
	}
	return u.c.Close()
}

var _ hal.UART = &UART{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package status defines the closed set of status codes returned by the
// camera and display drivers, and reports them over a diagnostic channel.
package status

import (
	"errors"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
)

// Code is a driver status. Every non-OK Code is an error.
type Code uint8

// Status codes. The first four match the HAL status of the bus layer.
const (
	OK Code = iota
	ErrBus
	ErrBusy
	ErrTimeout
	ErrNullArg
	ErrGPIOPort
	ErrGPIOProperties
	ErrGPIOClock
	ErrPriorityGroup
	ErrDiagnostic
	ErrPLLForbidden
	ErrPLLInvalidFreq
)

var names = [...]string{
	OK:                "OK",
	ErrBus:            "HAL_ERROR",
	ErrBusy:           "HAL_BUSY",
	ErrTimeout:        "HAL_TIMEOUT",
	ErrNullArg:        "NULL_POINTER",
	ErrGPIOPort:       "GPIO_INVALID_PORT",
	ErrGPIOProperties: "GPIO_INVALID_PROPERTIES",
	ErrGPIOClock:      "GPIO_CLOCK_DISABLED",
	ErrPriorityGroup:  "INT_PRIO_GRP_CONFLICT",
	ErrDiagnostic:     "UART_ERROR",
	ErrPLLForbidden:   "PLL_MODIF_FORBIDDEN",
	ErrPLLInvalidFreq: "PLL_INVALID_FREQ",
}

func (c Code) String() string {
	if int(c) < len(names) {
		return names[c]
	}
	return "UNKNOWN_STATE"
}

func (c Code) Error() string {
	return "status: " + c.String()
}

// FromError returns the Code carried by err.
//
// A nil error is OK. An error that does not wrap a Code is a generic bus
// error.
func FromError(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return ErrBus
}

// MessageSize is the size of every line sent over the diagnostic channel.
const MessageSize = 40

const reportTimeout = 25 * time.Millisecond

// Message returns the fixed newline-terminated line describing c.
func Message(c Code) string {
	if c == OK {
		return "OK / HAL_OK\n"
	}
	return c.String() + "\n"
}

// Report writes the line describing c to ch, zero padded to MessageSize
// bytes.
func Report(ch hal.UART, c Code) error {
	if ch == nil || !ch.Ready() {
		return ErrDiagnostic
	}
	var buf [MessageSize]byte
	copy(buf[:MessageSize-1], Message(c))
	if err := ch.Transmit(buf[:], reportTimeout); err != nil {
		return ErrDiagnostic
	}
	return nil
}

// Reporter reports errors when diagnostics are enabled and is a no-op
// otherwise.
type Reporter struct {
	Channel hal.UART
	Enabled bool
}

// Report sends the status of err. It returns the Code that was reported.
func (r *Reporter) Report(err error) Code {
	c := FromError(err)
	if r == nil || !r.Enabled {
		return c
	}
	_ = Report(r.Channel, c)
	return c
}

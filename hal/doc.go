// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hal describes the microcontroller services the camera and display
// drivers consume: clock gating, GPIO configuration, interrupt controller,
// and the I²C, SPI and UART controllers.
//
// The drivers never reach for a global peripheral instance. Every controller
// is passed explicitly, which is what lets package haltest stand in for the
// hardware and package hostbus run the same drivers on a Linux host.
//
// The I²C and SPI controllers extend the periph.io interfaces (i2c.Bus and
// conn.Conn) with the controller-level features an STM32F3 exposes and the
// periph abstractions leave out: readiness probing, interrupt-mode transfers,
// word width switching and DMA.
package hal

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ov7670 controls an OmniVision OV7670 VGA camera sensor over its
// SCCB register interface.
//
// SCCB is I²C compatible for writes. Reads are a register address write
// followed by a separate one byte read, without repeated start.
//
// New brings up the I²C controller, probes the sensor and resets it. The
// pixel port (VSYNC, HREF, PCLK, D0-D7) is described in Pins but not driven.
//
// # Datasheet
//
// https://www.voti.nl/docs/OV7670.pdf
package ov7670

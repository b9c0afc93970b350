// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package camtft is a container for the drivers of an OV7670 camera sensor
// and an ST7735S TFT panel sharing one board.
//
// The drivers in ov7670 and st7735s consume the controller interfaces in hal.
// hal/hostbus implements them on top of periph buses so the same drivers run
// from a Linux host; cmd/camtft wires everything from a YAML configuration.
package camtft

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7735s drives a 128x160 TFT panel with a Sitronix ST7735S
// controller over 4-wire SPI.
//
// Commands and their parameters are sent as 8 bit words, with the DC line
// low for the command byte and high for the parameters. Frames are sent as
// 16 bit RGB565 words by DMA, so the SPI word width is switched around each
// frame.
//
// The frame buffer is double buffered: PushFrame copies it into a staging
// buffer and returns while the DMA engine transfers the copy.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
package st7735s

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735s

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/gpio"
)

// RGB565 is a 16 bit color: 5 bits red, 6 bits green, 5 bits blue, red in
// the most significant bits.
type RGB565 uint16

// RGBA implements color.Color.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>11) & 0x1F
	g = uint32(c>>5) & 0x3F
	b = uint32(c) & 0x1F
	r = r<<11 | r<<6 | r<<1 | r>>4
	g = g<<10 | g<<4 | g>>2
	b = b<<11 | b<<6 | b<<1 | b>>4
	return r, g, b, 0xFFFF
}

// RGB565Model converts any color to RGB565.
var RGB565Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if v, ok := c.(RGB565); ok {
		return v
	}
	return toRGB565(c)
}

func toRGB565(c color.Color) RGB565 {
	r, g, b, _ := c.RGBA()
	return RGB565(r>>11<<11 | g>>10<<5 | b>>11)
}

// Frame is a full panel image, row major.
type Frame [FrameSize]uint16

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return RGB565Model
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return f.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y), black when out of bounds.
func (f *Frame) RGB565At(x, y int) RGB565 {
	if !image.Pt(x, y).In(f.Bounds()) {
		return 0
	}
	return RGB565(f[y*Width+x])
}

// Set implements draw.Image.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetRGB565(x, y, toRGB565(c))
}

// SetRGB565 sets the pixel at (x, y). Out of bounds writes are ignored.
func (f *Frame) SetRGB565(x, y int, c RGB565) {
	if image.Pt(x, y).In(f.Bounds()) {
		f[y*Width+x] = uint16(c)
	}
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c RGB565) {
	for i := range f {
		f[i] = uint16(c)
	}
}

// encode writes the frame in the memory layout of 16 bit SPI words.
func (f *Frame) encode(b []byte) {
	for i, px := range f {
		binary.LittleEndian.PutUint16(b[2*i:], px)
	}
}

// PushFrame starts the transfer of the frame buffer to the panel RAM and
// returns without waiting for it to complete.
//
// It waits for the previous transfer first, then snapshots the frame, so
// the frame may be redrawn as soon as PushFrame returns.
func (d *Dev) PushFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pushFrame()
}

func (d *Dev) pushFrame() error {
	if err := d.wait(); err != nil {
		return err
	}
	d.frame.encode(d.staging[:])
	if err := d.sendCommand(RAMWR); err != nil {
		return err
	}
	if err := d.dataSize(16); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	if err := d.c.TxDMA(d.staging[:]); err != nil {
		return fmt.Errorf("st7735s: frame transfer: %w", err)
	}
	return nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735s

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// Controller commands.
const (
	NOP      byte = 0x00
	SWRESET  byte = 0x01
	RDDID    byte = 0x04
	SLPIN    byte = 0x10
	SLPOUT   byte = 0x11
	PTLON    byte = 0x12
	NORON    byte = 0x13
	INVOFF   byte = 0x20
	INVON    byte = 0x21
	GAMSET   byte = 0x26
	DISPOFF  byte = 0x28
	DISPON   byte = 0x29
	CASET    byte = 0x2A
	RASET    byte = 0x2B
	RAMWR    byte = 0x2C
	RAMRD    byte = 0x2E
	TEOFF    byte = 0x34
	TEON     byte = 0x35
	MADCTL   byte = 0x36
	COLMOD   byte = 0x3A
	FRMCTR1  byte = 0xB1
	FRMCTR2  byte = 0xB2
	FRMCTR3  byte = 0xB3
	INVCTR   byte = 0xB4
	PWCTR1   byte = 0xC0
	PWCTR2   byte = 0xC1
	PWCTR3   byte = 0xC2
	PWCTR4   byte = 0xC3
	PWCTR5   byte = 0xC4
	VMCTR1   byte = 0xC5
	VMOFCTR  byte = 0xC7
	GAMCTRP1 byte = 0xE0
	GAMCTRN1 byte = 0xE1
)

// MADCTL bits.
const (
	RowOrder    byte = 0x80 // MY
	ColumnOrder byte = 0x40 // MX
	RowColumn   byte = 0x20 // MV
	VertRefresh byte = 0x10 // ML
	BGR         byte = 0x08
	HorzRefresh byte = 0x04 // MH
)

// Gamma curves selectable with GAMSET.
const (
	GammaCurve1 byte = 0x01
	GammaCurve2 byte = 0x02
	GammaCurve3 byte = 0x04
	GammaCurve4 byte = 0x08
)

// Panel geometry.
const (
	Width     = 128
	Height    = 160
	FrameSize = Width * Height
)

const colorRGB565 = 0x05

// Opts holds the configuration options.
type Opts struct {
	// MemoryAccess is the MADCTL value.
	MemoryAccess byte
	// Gamma is the GAMSET curve.
	Gamma byte
	// Timeout bounds every synchronous transfer.
	Timeout time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	MemoryAccess: RowOrder,
	Gamma:        GammaCurve4,
	Timeout:      100 * time.Millisecond,
}

type command struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

var sleep = time.Sleep

// Dev is a handle to an ST7735S panel.
type Dev struct {
	mu sync.Mutex
	c  hal.SPI
	// dc is low when sending a command, high when sending data.
	dc gpio.PinOut
	// rst is active low.
	rst  gpio.PinOut
	opts Opts

	frame Frame
	// staging is read by the DMA engine while the application draws into
	// frame.
	staging [2 * FrameSize]byte
}

// New resets the panel and runs the power on sequence.
//
// The SPI controller is expected to be configured for mode 0 and 8 bit
// words, and enabled.
func New(c hal.SPI, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if c == nil || dc == nil || rst == nil {
		return nil, fmt.Errorf("st7735s: missing argument: %w", status.ErrNullArg)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{c: c, dc: dc, rst: rst, opts: *opts}
	c.SetTimeout(opts.Timeout)
	if err := d.reset(); err != nil {
		return nil, err
	}
	for _, cmd := range d.initSequence() {
		if err := d.send(cmd); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dev) initSequence() []command {
	return []command{
		{cmd: SWRESET, delay: 120 * time.Millisecond},
		{cmd: SLPOUT, delay: 250 * time.Millisecond},
		{cmd: COLMOD, data: []byte{colorRGB565}},
		{cmd: FRMCTR1, data: []byte{0x00, 0x06, 0x03}},
		{cmd: MADCTL, data: []byte{d.opts.MemoryAccess}},
		{cmd: INVOFF},
		{cmd: PWCTR1, data: []byte{0xA8, 0x08, 0x84}},
		{cmd: PWCTR2, data: []byte{0xC0}},
		{cmd: VMCTR1, data: []byte{0x05}},
		{cmd: INVCTR, data: []byte{0x00}},
		{cmd: GAMSET, data: []byte{d.opts.Gamma}},
		{cmd: NORON},
		{cmd: DISPON},
		{cmd: CASET, data: []byte{0x00, 0x00, 0x00, Width - 1}},
		{cmd: RASET, data: []byte{0x00, 0x00, 0x00, Height - 1}},
	}
}

func (d *Dev) reset() error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	sleep(time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	sleep(120 * time.Millisecond)
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ST7735S{%s, %s, %dx%d}", d.c, d.dc, Width, Height)
}

// Frame returns the frame buffer. It is sent with PushFrame.
//
// The buffer may be modified while a previous frame is being transferred.
// It is not guarded: callers sharing the Dev between goroutines draw
// through Draw instead.
func (d *Dev) Frame() *Frame {
	return &d.frame
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return RGB565Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Draw implements display.Drawer.
//
// It returns once the transfer of the frame is started.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := src.(*Frame); ok && f != &d.frame && r == d.Bounds() && sp == (image.Point{}) {
		d.frame = *f
	} else if src != &d.frame {
		draw.Src.Draw(&d.frame, r, src, sp)
	}
	return d.pushFrame()
}

// Halt turns the display off and puts the controller to sleep.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(command{cmd: DISPOFF}); err != nil {
		return err
	}
	return d.send(command{cmd: SLPIN})
}

var _ display.Drawer = &Dev{}

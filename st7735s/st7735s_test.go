// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735s

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GermanBionicSystems/camtft/hal/haltest"
	"github.com/GermanBionicSystems/camtft/status"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func init() {
	sleep = func(time.Duration) {}
}

type fixture struct {
	log     *haltest.Log
	spi     *haltest.SPI
	dc, rst *haltest.Pin
}

func newFixture() *fixture {
	l := &haltest.Log{}
	return &fixture{
		log: l,
		spi: haltest.NewSPI(l),
		dc:  &haltest.Pin{Pin: gpiotest.Pin{N: "DC"}, Log: l},
		rst: &haltest.Pin{Pin: gpiotest.Pin{N: "RST"}, Log: l},
	}
}

func (f *fixture) open(t *testing.T) *Dev {
	t.Helper()
	d, err := New(f.spi, f.dc, f.rst, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.log.Reset()
	f.spi.Record.Ops = nil
	return d
}

// framed returns the events of one command with DC low and its parameters
// with DC high.
func framed(cmd byte, data ...byte) []string {
	e := []string{"DC Low", fmt.Sprintf("spi tx %02x", cmd)}
	if len(data) != 0 {
		e = append(e, "DC High", fmt.Sprintf("spi tx %x", data))
	}
	return e
}

func TestNew(t *testing.T) {
	f := newFixture()
	d, err := New(f.spi, f.dc, f.rst, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"DC Low", "RST Low", "RST High"}
	for _, c := range []struct {
		cmd  byte
		data []byte
	}{
		{0x01, nil},
		{0x11, nil},
		{0x3A, []byte{0x05}},
		{0xB1, []byte{0x00, 0x06, 0x03}},
		{0x36, []byte{0x80}},
		{0x20, nil},
		{0xC0, []byte{0xA8, 0x08, 0x84}},
		{0xC1, []byte{0xC0}},
		{0xC5, []byte{0x05}},
		{0xB4, []byte{0x00}},
		{0x26, []byte{0x08}},
		{0x13, nil},
		{0x29, nil},
		{0x2A, []byte{0x00, 0x00, 0x00, 0x7F}},
		{0x2B, []byte{0x00, 0x00, 0x00, 0x9F}},
	} {
		want = append(want, framed(c.cmd, c.data...)...)
	}
	if diff := cmp.Diff(f.log.Events, want); diff != "" {
		t.Fatalf("New() mismatch (-got +want):\n%s", diff)
	}
	if to := f.spi.Timeout(); to != 100*time.Millisecond {
		t.Errorf("timeout = %s", to)
	}
	if s := d.String(); !strings.HasPrefix(s, "ST7735S{haltest.SPI, ") {
		t.Errorf("String() = %q", s)
	}
}

func TestNew_Opts(t *testing.T) {
	f := newFixture()
	opts := DefaultOpts
	opts.MemoryAccess = RowOrder | BGR
	opts.Gamma = GammaCurve1
	if _, err := New(f.spi, f.dc, f.rst, &opts); err != nil {
		t.Fatal(err)
	}
	var madctl, gamset []byte
	ops := f.spi.Record.Ops
	for i := 0; i+1 < len(ops); i++ {
		switch {
		case len(ops[i].W) == 1 && ops[i].W[0] == MADCTL:
			madctl = ops[i+1].W
		case len(ops[i].W) == 1 && ops[i].W[0] == GAMSET:
			gamset = ops[i+1].W
		}
	}
	if diff := cmp.Diff(madctl, []byte{0x88}); diff != "" {
		t.Errorf("MADCTL (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(gamset, []byte{0x01}); diff != "" {
		t.Errorf("GAMSET (-got +want):\n%s", diff)
	}
}

func TestNew_Errors(t *testing.T) {
	f := newFixture()
	if _, err := New(nil, f.dc, f.rst, nil); !errors.Is(err, status.ErrNullArg) {
		t.Errorf("New(nil) = %v", err)
	}
	f.spi.TxErr = status.ErrTimeout
	if _, err := New(f.spi, f.dc, f.rst, nil); !errors.Is(err, status.ErrTimeout) {
		t.Fatalf("New() = %v", err)
	}
	// The sequence stops at the first failing command.
	want := []string{"DC Low", "RST Low", "RST High", "DC Low"}
	if diff := cmp.Diff(f.log.Events, want); diff != "" {
		t.Fatalf("mismatch (-got +want):\n%s", diff)
	}
}

func TestCommand(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	if err := d.Command(INVON); err != nil {
		t.Fatal(err)
	}
	if err := d.Command(GAMCTRP1, 0x02, 0x1C); err != nil {
		t.Fatal(err)
	}
	want := append(framed(INVON), framed(GAMCTRP1, 0x02, 0x1C)...)
	if diff := cmp.Diff(f.log.Events, want); diff != "" {
		t.Fatalf("mismatch (-got +want):\n%s", diff)
	}
}

func TestPushFrame(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	fr := d.Frame()
	for i := range fr {
		fr[i] = uint16(i * 7)
	}
	if err := d.PushFrame(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"DC Low", "spi tx 2c",
		"spi disable", "spi size 16", "spi enable",
		"DC High", "spi dma 40960",
	}
	if diff := cmp.Diff(f.log.Events, want); diff != "" {
		t.Fatalf("PushFrame() mismatch (-got +want):\n%s", diff)
	}
	if len(f.spi.DMA) != 1 {
		t.Fatalf("%d DMA transfers", len(f.spi.DMA))
	}
	got := f.spi.DMA[0].W
	if len(got) != 2*FrameSize {
		t.Fatalf("transfer of %d bytes", len(got))
	}
	for i := 0; i < FrameSize; i++ {
		if v := binary.LittleEndian.Uint16(got[2*i:]); v != uint16(i*7) {
			t.Fatalf("pixel %d = %#04x, want %#04x", i, v, uint16(i*7))
		}
	}

	// The next command switches back with a single disable/enable cycle.
	f.log.Reset()
	if err := d.Command(NOP); err != nil {
		t.Fatal(err)
	}
	want = []string{"spi disable", "spi size 8", "spi enable", "DC Low", "spi tx 00"}
	if diff := cmp.Diff(f.log.Events, want); diff != "" {
		t.Fatalf("Command() mismatch (-got +want):\n%s", diff)
	}
}

func TestPushFrame_Twice(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	for i := 0; i < 2; i++ {
		if err := d.PushFrame(); err != nil {
			t.Fatal(err)
		}
	}
	// The second frame goes back to 8 bits for RAMWR, then to 16 bits.
	n := 0
	for _, e := range f.log.Events {
		if e == "spi disable" {
			n++
		}
	}
	if n != 3 {
		t.Errorf("%d disable cycles, want 3: %q", n, f.log.Events)
	}
}

func TestWait(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	f.spi.HoldDMA = true
	if err := d.PushFrame(); err != nil {
		t.Fatal(err)
	}
	if !d.Busy() {
		t.Fatal("Busy() = false during transfer")
	}
	if err := d.Wait(); !errors.Is(err, status.ErrTimeout) {
		t.Fatalf("Wait() = %v", err)
	}
	f.log.Reset()
	if err := d.Command(NOP); !errors.Is(err, status.ErrTimeout) {
		t.Fatalf("Command() during transfer = %v", err)
	}
	if len(f.log.Events) != 0 {
		t.Errorf("bus touched during transfer: %q", f.log.Events)
	}
	f.spi.Complete()
	if err := d.Wait(); err != nil {
		t.Fatal(err)
	}
	if d.Busy() {
		t.Error("Busy() = true after completion")
	}
}

func TestPushFrame_Snapshot(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	d.Frame().Fill(0xF800)
	if err := d.PushFrame(); err != nil {
		t.Fatal(err)
	}
	d.Frame().Fill(0x001F)
	if got := binary.LittleEndian.Uint16(d.staging[:]); got != 0xF800 {
		t.Errorf("staging changed by drawing: %#04x", got)
	}
}

func TestDraw(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	src := image.NewUniform(color.RGBA{R: 0xFF, A: 0xFF})
	r := image.Rect(10, 20, 12, 21)
	if err := d.Draw(r, src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	fr := d.Frame()
	if c := fr.RGB565At(10, 20); c != 0xF800 {
		t.Errorf("(10, 20) = %#04x", uint16(c))
	}
	if c := fr.RGB565At(12, 20); c != 0 {
		t.Errorf("(12, 20) = %#04x", uint16(c))
	}
	if len(f.spi.DMA) != 1 {
		t.Errorf("%d DMA transfers", len(f.spi.DMA))
	}
	if d.Bounds() != image.Rect(0, 0, 128, 160) {
		t.Errorf("Bounds() = %s", d.Bounds())
	}
}

func TestDraw_Concurrent(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	d.Frame().Fill(0xF800)
	var src Frame
	src.Fill(0x07E0)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			errs <- d.Draw(d.Bounds(), &src, image.Point{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			errs <- d.PushFrame()
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(f.spi.DMA) != 2*n {
		t.Fatalf("%d DMA transfers, want %d", len(f.spi.DMA), 2*n)
	}
	// Every transfer is a whole frame, never a mix of two.
	for i, tx := range f.spi.DMA {
		first := binary.LittleEndian.Uint16(tx.W)
		for j := 2; j < len(tx.W); j += 2 {
			if v := binary.LittleEndian.Uint16(tx.W[j:]); v != first {
				t.Fatalf("transfer %d: pixel %d = %#04x, pixel 0 = %#04x", i, j/2, v, first)
			}
		}
	}
}

func TestHalt(t *testing.T) {
	f := newFixture()
	d := f.open(t)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	want := append(framed(DISPOFF), framed(SLPIN)...)
	if diff := cmp.Diff(f.log.Events, want); diff != "" {
		t.Fatalf("Halt() mismatch (-got +want):\n%s", diff)
	}
}

func TestRGB565(t *testing.T) {
	for _, tc := range []struct {
		in   color.Color
		want RGB565
	}{
		{color.Black, 0x0000},
		{color.White, 0xFFFF},
		{color.RGBA{R: 0xFF, A: 0xFF}, 0xF800},
		{color.RGBA{G: 0xFF, A: 0xFF}, 0x07E0},
		{color.RGBA{B: 0xFF, A: 0xFF}, 0x001F},
		{RGB565(0x1234), 0x1234},
	} {
		if got := RGB565Model.Convert(tc.in).(RGB565); got != tc.want {
			t.Errorf("Convert(%v) = %#04x, want %#04x", tc.in, uint16(got), uint16(tc.want))
		}
	}
	r, g, b, a := RGB565(0xFFFF).RGBA()
	if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF || a != 0xFFFF {
		t.Errorf("RGBA() = %#x %#x %#x %#x", r, g, b, a)
	}
}
